package tmdb

// RawMovie is a movie entry as returned by TMDB list endpoints
// (popular, search, trending). Optional fields are pointers so
// absence survives decoding.
type RawMovie struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	GenreIDs     []int   `json:"genre_ids"`
}

// PageResponse is the envelope for TMDB paginated list endpoints.
type PageResponse struct {
	Page         int        `json:"page"`
	Results      []RawMovie `json:"results"`
	TotalPages   int        `json:"total_pages"`
	TotalResults int        `json:"total_results"`
}

// Genre is a TMDB genre entry.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CastMember is a credited actor.
type CastMember struct {
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// CrewMember is a credited crew entry.
type CrewMember struct {
	Name string `json:"name"`
	Job  string `json:"job"`
}

// Credits holds cast and crew for a movie.
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Video is a video entry (trailer, teaser, clip...).
type Video struct {
	Type string `json:"type"`
	Site string `json:"site"`
	Key  string `json:"key"`
}

// VideoList is the videos sub-response.
type VideoList struct {
	Results []Video `json:"results"`
}

// MovieDetails is the TMDB movie details response, with credits and
// videos appended via append_to_response.
type MovieDetails struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Overview     string     `json:"overview"`
	Tagline      string     `json:"tagline"`
	ReleaseDate  string     `json:"release_date"`
	VoteAverage  float64    `json:"vote_average"`
	Runtime      int        `json:"runtime"`
	PosterPath   *string    `json:"poster_path"`
	BackdropPath *string    `json:"backdrop_path"`
	Genres       []Genre    `json:"genres"`
	Credits      *Credits   `json:"credits"`
	Videos       *VideoList `json:"videos"`
}

// ErrorResponse is the TMDB API error envelope.
type ErrorResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// genreNames maps TMDB's fixed movie genre ids to display names.
// List endpoints only carry genre_ids; details carry full genre objects.
var genreNames = map[int]string{
	28:    "Action",
	12:    "Adventure",
	16:    "Animation",
	35:    "Comedy",
	80:    "Crime",
	99:    "Documentary",
	18:    "Drama",
	10751: "Family",
	14:    "Fantasy",
	36:    "History",
	27:    "Horror",
	10402: "Music",
	9648:  "Mystery",
	10749: "Romance",
	878:   "Science Fiction",
	10770: "TV Movie",
	53:    "Thriller",
	10752: "War",
	37:    "Western",
}

// GenreName resolves a TMDB genre id to its display name.
// Unknown ids return an empty string.
func GenreName(id int) string {
	return genreNames[id]
}
