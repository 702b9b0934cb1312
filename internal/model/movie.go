package model

// MovieID identifies a film on the profile service. Slug is the stable key,
// Title is only displayed.
type MovieID struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

func (id MovieID) Key() string {
	return id.Slug
}

// MovieLists is what the profile service knows about one account.
type MovieLists struct {
	Watchlist []MovieID
	Watched   []MovieID
	Liked     []MovieID
}

type MovieDetail struct {
	Rating  *float64 `json:"rating,omitempty"`
	Runtime *int     `json:"runtime,omitempty"`
	Poster  string   `json:"poster,omitempty"`
}

// Rated reports whether the detail carries a usable rating.
// The profile service reports films without enough ratings as 0.
func (d MovieDetail) Rated() bool {
	return d.Rating != nil && *d.Rating > 0
}
