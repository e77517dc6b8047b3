package interaction

// Type classifies a swipe decision.
type Type string

const (
	// TypeYes marks a movie the user liked.
	TypeYes Type = "YES"
	// TypeNo marks a movie the user passed on.
	TypeNo Type = "NO"
	// TypeWatched marks a movie the user has already seen.
	TypeWatched Type = "WATCHED"
)

// Valid reports whether t is one of the three known interaction types.
func (t Type) Valid() bool {
	switch t {
	case TypeYes, TypeNo, TypeWatched:
		return true
	}
	return false
}

// Interaction is one user's decision about one movie. A user holds at
// most one interaction per movie; recording again replaces the old one.
type Interaction struct {
	UserID    string  `json:"userId"`
	MovieID   string  `json:"movieId"`
	Type      Type    `json:"type"`
	Timestamp int64   `json:"timestamp"` // epoch milliseconds
	Rating    *int    `json:"rating,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// UpdateRequest carries the mutable annotation fields of an existing
// interaction. Nil fields are left untouched.
type UpdateRequest struct {
	Rating *int    `json:"rating"`
	Notes  *string `json:"notes"`
}
