package metadata

// Ratings holds the four derived rating sub-scores for a movie.
type Ratings struct {
	Critic   int     `json:"critic"`   // 0-100
	Audience int     `json:"audience"` // 0-100
	FiveStar float64 `json:"fiveStar"` // 0-5, one decimal
	TenPoint float64 `json:"tenPoint"` // raw upstream 0-10 score
}

// Movie is the canonical movie shape handed to the UI. Every field is
// always defined: absent upstream values map to empty string, 0, "N/A"
// or the placeholder image, so consumers never branch on absence.
type Movie struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	FullSynopsis string   `json:"fullSynopsis"`
	Director     string   `json:"director"`
	Cast         []string `json:"cast"`
	Runtime      string   `json:"runtime"`
	PosterURL    string   `json:"posterUrl"`
	BackdropURL  string   `json:"backdropUrl"`
	ReleaseYear  int      `json:"releaseYear"`
	Genres       []string `json:"genres"`
	Ratings      Ratings  `json:"ratings"`
}

// PartialMovie is the reduced shape returned by search and trending,
// enough for a poster grid.
type PartialMovie struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	PosterURL string `json:"posterUrl"`
}
