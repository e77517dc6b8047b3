package metadata

import (
	"fmt"
	"hash/fnv"
	"math"
	"strconv"

	"github.com/reelswipe/reelswipe/internal/metadata/tmdb"
)

const (
	// PlaceholderPosterURL is substituted when upstream carries no artwork.
	PlaceholderPosterURL   = "https://placehold.co/500x750?text=No+Poster"
	placeholderBackdropURL = "https://placehold.co/780x440?text=No+Backdrop"

	posterSize   = "w500"
	backdropSize = "w780"
)

// CriticScore derives the normalized critic-equivalent percentage from
// the upstream 0-10 vote average. This is also the discovery quality score.
func CriticScore(voteAverage float64) int {
	return int(math.Round(voteAverage * 10))
}

// audienceOffset derives a bounded [-5, +5] offset from the movie id.
// Same id always yields the same offset.
func audienceOffset(id string) int {
	h := fnv.New32a()
	h.Write([]byte(id))
	return int(h.Sum32()%11) - 5
}

// deriveRatings computes all four rating sub-scores from the single
// upstream vote average.
func deriveRatings(id string, voteAverage float64) Ratings {
	critic := CriticScore(voteAverage)

	audience := critic + audienceOffset(id)
	if audience < 0 {
		audience = 0
	}
	if audience > 100 {
		audience = 100
	}

	return Ratings{
		Critic:   critic,
		Audience: audience,
		FiveStar: math.Round(voteAverage/2*10) / 10,
		TenPoint: voteAverage,
	}
}

// parseYear extracts the year from a TMDB date string ("2006-01-02").
// Any parse failure yields 0.
func parseYear(date string) int {
	if len(date) < 4 {
		return 0
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0
	}
	return year
}

// MapRawToMovie converts a raw list entry to the canonical Movie shape.
// It is total: every optional upstream field maps to a defined default.
// imageBase is the TMDB image root ("https://image.tmdb.org/t/p").
func MapRawToMovie(raw tmdb.RawMovie, imageBase string) Movie {
	genres := make([]string, 0, len(raw.GenreIDs))
	for _, id := range raw.GenreIDs {
		if name := tmdb.GenreName(id); name != "" {
			genres = append(genres, name)
		}
	}

	return Movie{
		ID:           strconv.Itoa(raw.ID),
		Title:        raw.Title,
		Description:  raw.Overview,
		FullSynopsis: raw.Overview,
		Director:     "",
		Cast:         []string{},
		Runtime:      "N/A",
		PosterURL:    imageURLOrPlaceholder(raw.PosterPath, imageBase, posterSize, PlaceholderPosterURL),
		BackdropURL:  imageURLOrPlaceholder(raw.BackdropPath, imageBase, backdropSize, placeholderBackdropURL),
		ReleaseYear:  parseYear(raw.ReleaseDate),
		Genres:       genres,
		Ratings:      deriveRatings(strconv.Itoa(raw.ID), raw.VoteAverage),
	}
}

// mapDetailsToMovie converts a full details response, enriching the
// canonical shape with director, cast and runtime.
func mapDetailsToMovie(details *tmdb.MovieDetails, imageBase string) Movie {
	genres := make([]string, 0, len(details.Genres))
	for _, g := range details.Genres {
		if g.Name != "" {
			genres = append(genres, g.Name)
		}
	}

	director := ""
	cast := []string{}
	if details.Credits != nil {
		for _, crew := range details.Credits.Crew {
			if crew.Job == "Director" {
				director = crew.Name
				break
			}
		}
		for _, member := range details.Credits.Cast {
			cast = append(cast, member.Name)
			if len(cast) == 5 {
				break
			}
		}
	}

	runtime := "N/A"
	if details.Runtime > 0 {
		runtime = fmt.Sprintf("%d min", details.Runtime)
	}

	synopsis := details.Overview
	if details.Tagline != "" && synopsis != "" {
		synopsis = details.Tagline + " — " + synopsis
	}

	return Movie{
		ID:           strconv.Itoa(details.ID),
		Title:        details.Title,
		Description:  details.Overview,
		FullSynopsis: synopsis,
		Director:     director,
		Cast:         cast,
		Runtime:      runtime,
		PosterURL:    imageURLOrPlaceholder(details.PosterPath, imageBase, posterSize, PlaceholderPosterURL),
		BackdropURL:  imageURLOrPlaceholder(details.BackdropPath, imageBase, backdropSize, placeholderBackdropURL),
		ReleaseYear:  parseYear(details.ReleaseDate),
		Genres:       genres,
		Ratings:      deriveRatings(strconv.Itoa(details.ID), details.VoteAverage),
	}
}

// mapRawToPartial reduces a raw list entry to the search/trending shape.
func mapRawToPartial(raw tmdb.RawMovie, imageBase string) PartialMovie {
	return PartialMovie{
		ID:        strconv.Itoa(raw.ID),
		Title:     raw.Title,
		PosterURL: imageURLOrPlaceholder(raw.PosterPath, imageBase, posterSize, PlaceholderPosterURL),
	}
}

func imageURLOrPlaceholder(path *string, base, size, placeholder string) string {
	if path == nil || *path == "" {
		return placeholder
	}
	return fmt.Sprintf("%s/%s%s", base, size, *path)
}
