package usecase_recommend

import (
	"cmp"
	"slices"

	"github.com/humanbelnik/movienight/core/internal/model"
)

type Candidate struct {
	Movie   model.MovieID
	Score   int
	Rating  *float64
	Runtime *int
	Poster  string
}

// Enriched reports whether the rating lookup already happened.
func (c *Candidate) Enriched() bool {
	return c.Rating != nil
}

// CandidatePool maps movie slugs to their running score and, once enriched,
// rating and runtime.
type CandidatePool struct {
	entries map[string]*Candidate
	removed map[string]struct{}
}

func newCandidatePool() *CandidatePool {
	return &CandidatePool{
		entries: make(map[string]*Candidate),
		removed: make(map[string]struct{}),
	}
}

// Aggregate turns the members' lists into a pool.
//
// Only a Present member's watchlist can create a candidate. Every other signal
// (present watched/liked, anything from Absent members) only moves the score
// of a candidate that already exists. Ignored members are skipped. All seeding
// happens before any adjustment, so the result does not depend on member order.
func Aggregate(members []*model.GroupMember, rules model.ScoringRules) *CandidatePool {
	p := newCandidatePool()

	for _, m := range members {
		if m.Attendance != model.AttendancePresent {
			continue
		}
		for _, movie := range distinct(m.Lists.Watchlist) {
			c, ok := p.entries[movie.Key()]
			if !ok {
				c = &Candidate{Movie: movie}
				p.entries[movie.Key()] = c
			}
			c.Score += rules.WatchlistPresent
		}
	}

	for _, m := range members {
		switch m.Attendance {
		case model.AttendancePresent:
			p.adjust(m.Lists.Watched, rules.WatchedPresent)
			p.adjust(m.Lists.Liked, rules.LikedPresent)
		case model.AttendanceAbsent:
			p.adjust(m.Lists.Watchlist, rules.WatchlistAbsent)
			p.adjust(m.Lists.Watched, rules.WatchedAbsent)
			p.adjust(m.Lists.Liked, rules.LikedAbsent)
		}
	}

	return p
}

func (p *CandidatePool) adjust(movies []model.MovieID, weight int) {
	for _, movie := range distinct(movies) {
		if c, ok := p.entries[movie.Key()]; ok {
			c.Score += weight
		}
	}
}

func distinct(movies []model.MovieID) []model.MovieID {
	seen := make(map[string]struct{}, len(movies))
	out := make([]model.MovieID, 0, len(movies))
	for _, m := range movies {
		if _, ok := seen[m.Key()]; ok {
			continue
		}
		seen[m.Key()] = struct{}{}
		out = append(out, m)
	}
	return out
}

func (p *CandidatePool) Len() int {
	return len(p.entries)
}

func (p *CandidatePool) Get(slug string) (*Candidate, bool) {
	c, ok := p.entries[slug]
	return c, ok
}

// Ranked returns the candidates ordered by score desc, enriched before
// unenriched, rating desc and finally slug asc.
func (p *CandidatePool) Ranked() []*Candidate {
	out := make([]*Candidate, 0, len(p.entries))
	for _, c := range p.entries {
		out = append(out, c)
	}

	slices.SortFunc(out, func(a, b *Candidate) int {
		if a.Score != b.Score {
			return cmp.Compare(b.Score, a.Score)
		}
		if a.Enriched() != b.Enriched() {
			if a.Enriched() {
				return -1
			}
			return 1
		}
		if a.Enriched() && *a.Rating != *b.Rating {
			return cmp.Compare(*b.Rating, *a.Rating)
		}
		return cmp.Compare(a.Movie.Slug, b.Movie.Slug)
	})

	return out
}

func (p *CandidatePool) resolve(slug string, d model.MovieDetail) {
	c, ok := p.entries[slug]
	if !ok {
		return
	}
	rating := *d.Rating
	c.Rating = &rating
	c.Runtime = d.Runtime
	c.Poster = d.Poster
}

func (p *CandidatePool) remove(slug string) {
	delete(p.entries, slug)
	p.removed[slug] = struct{}{}
}

// Removed reports whether slug was dropped from the pool for lack of a rating.
func (p *CandidatePool) Removed(slug string) bool {
	_, ok := p.removed[slug]
	return ok
}
