package model

// ScoringRules are the weights applied while aggregating member lists.
// Every weight is set on its own.
type ScoringRules struct {
	WatchlistPresent int
	WatchlistAbsent  int
	WatchedPresent   int
	WatchedAbsent    int
	LikedPresent     int
	LikedAbsent      int
}

func DefaultScoringRules() ScoringRules {
	return ScoringRules{
		WatchlistPresent: 2,
		WatchlistAbsent:  -2,
		WatchedPresent:   -1,
		WatchedAbsent:    1,
		LikedPresent:     1,
		LikedAbsent:      1,
	}
}
