package taste

import "sort"

// prolificThreshold is the watched count past which a user with no
// dominant genre gets the volume-based persona.
const prolificThreshold = 100

const (
	defaultPersona  = "Casual Viewer"
	prolificPersona = "Prolific Viewer"
)

// personaByGenre maps a user's dominant genre to a display persona.
var personaByGenre = map[string]string{
	"Action":          "Adrenaline Junkie",
	"Adventure":       "Explorer",
	"Animation":       "Animation Aficionado",
	"Comedy":          "Comedy Connoisseur",
	"Crime":           "True Crime Sleuth",
	"Documentary":     "Documentary Devotee",
	"Drama":           "Drama Enthusiast",
	"Family":          "Family Film Fan",
	"Fantasy":         "Fantasy Dreamer",
	"History":         "History Buff",
	"Horror":          "Horror Hound",
	"Music":           "Music Lover",
	"Mystery":         "Mystery Solver",
	"Romance":         "Hopeless Romantic",
	"Science Fiction": "Sci-Fi Voyager",
	"Thriller":        "Thrill Seeker",
	"War":             "War Story Scholar",
	"Western":         "Frontier Wanderer",
}

// GenreCount is one entry in the ranked genre tally.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// DirectorCount is one entry in the ranked director tally.
type DirectorCount struct {
	Director string `json:"director"`
	Count    int    `json:"count"`
}

// Profile is the derived taste summary. It is recomputed from the
// current liked and watched sets on every request, never stored.
type Profile struct {
	TopGenres    []GenreCount    `json:"topGenres"`
	TopDirectors []DirectorCount `json:"topDirectors"`
	Persona      string          `json:"persona"`
}

// TaggedMovie is the slice of a movie the aggregator needs.
type TaggedMovie struct {
	Genres   []string
	Director string
}

// ComputeProfile tallies genre frequency across the union of liked and
// watched movies, and director frequency across liked movies only
// (watched is a weaker signal). Ties keep first-encountered order.
func ComputeProfile(liked, watched []TaggedMovie) Profile {
	genreCounts := map[string]int{}
	genreOrder := []string{}
	for _, m := range append(append([]TaggedMovie{}, liked...), watched...) {
		for _, g := range m.Genres {
			if g == "" {
				continue
			}
			if _, seen := genreCounts[g]; !seen {
				genreOrder = append(genreOrder, g)
			}
			genreCounts[g]++
		}
	}

	directorCounts := map[string]int{}
	directorOrder := []string{}
	for _, m := range liked {
		if m.Director == "" {
			continue
		}
		if _, seen := directorCounts[m.Director]; !seen {
			directorOrder = append(directorOrder, m.Director)
		}
		directorCounts[m.Director]++
	}

	topGenres := rankGenres(genreOrder, genreCounts, 4)
	topDirectors := rankDirectors(directorOrder, directorCounts, 3)

	return Profile{
		TopGenres:    topGenres,
		TopDirectors: topDirectors,
		Persona:      derivePersona(topGenres, len(watched)),
	}
}

func rankGenres(order []string, counts map[string]int, limit int) []GenreCount {
	ranked := make([]GenreCount, 0, len(order))
	for _, g := range order {
		ranked = append(ranked, GenreCount{Genre: g, Count: counts[g]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func rankDirectors(order []string, counts map[string]int, limit int) []DirectorCount {
	ranked := make([]DirectorCount, 0, len(order))
	for _, d := range order {
		ranked = append(ranked, DirectorCount{Director: d, Count: counts[d]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// derivePersona picks the display label: the dominant genre's persona,
// the volume-based label for heavy watchers with no genre data, else
// the generic default.
func derivePersona(topGenres []GenreCount, watchedCount int) string {
	if len(topGenres) == 0 {
		if watchedCount > prolificThreshold {
			return prolificPersona
		}
		return defaultPersona
	}
	if persona, ok := personaByGenre[topGenres[0].Genre]; ok {
		return persona
	}
	return defaultPersona
}
