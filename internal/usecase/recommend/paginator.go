package usecase_recommend

import (
	"context"
	"fmt"
	"strings"

	"github.com/humanbelnik/movienight/core/internal/model"
)

// Chat embeds refuse field bodies of 1024 characters or more.
const columnLimit = 1024

type Paginator struct {
	pageSize     int
	filmLinkBase string

	current int
	total   int
}

func NewPaginator(pageSize int, filmLinkBase string) *Paginator {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Paginator{
		pageSize:     pageSize,
		filmLinkBase: strings.TrimSuffix(filmLinkBase, "/"),
	}
}

func (p *Paginator) Current() int {
	return p.current
}

func (p *Paginator) Total() int {
	return p.total
}

func (p *Paginator) PageSize() int {
	return p.pageSize
}

func (p *Paginator) pages(n int) int {
	return (n + p.pageSize - 1) / p.pageSize
}

func clampPage(page, total int) int {
	if page >= total {
		page = total - 1
	}
	if page < 0 {
		page = 0
	}
	return page
}

// Show makes page the current one and enriches it. Removals during
// enrichment can shrink the pool under the requested page, in which case the
// page is clamped again and the new last page is enriched.
func (p *Paginator) Show(ctx context.Context, pool *CandidatePool, enricher *RatingEnricher, page int) error {
	for {
		p.total = p.pages(pool.Len())
		page = clampPage(page, p.total)

		if err := enricher.Fill(ctx, pool, page*p.pageSize, p.pageSize); err != nil {
			return err
		}

		p.total = p.pages(pool.Len())
		if clampPage(page, p.total) == page {
			p.current = page
			return nil
		}
	}
}

// Target returns the page a navigation control leads to, clamped.
func (p *Paginator) Target(control model.ControlID) int {
	page := p.current
	switch control {
	case model.ControlFirstPage:
		page = 0
	case model.ControlPrevPage:
		page--
	case model.ControlNextPage:
		page++
	case model.ControlLastPage:
		page = p.total - 1
	}
	return clampPage(page, p.total)
}

// Panel renders the current page's columns.
func (p *Paginator) Panel(pool *CandidatePool) *model.ResultsPanel {
	ranked := pool.Ranked()
	start := min(p.current*p.pageSize, len(ranked))
	end := min(start+p.pageSize, len(ranked))

	panel := &model.ResultsPanel{
		Page:       p.current,
		TotalPages: p.total,
	}

	var score, title, rating strings.Builder
	for _, c := range ranked[start:end] {
		if !c.Enriched() {
			break
		}

		s := fmt.Sprintf("%d\n", c.Score)
		t := fmt.Sprintf("[%s](%s/%s/)\n", c.Movie.Title, p.filmLinkBase, c.Movie.Slug)
		r := formatRating(c) + "\n"
		if score.Len()+len(s) >= columnLimit ||
			title.Len()+len(t) >= columnLimit ||
			rating.Len()+len(r) >= columnLimit {
			break
		}

		if panel.Poster == "" {
			panel.Poster = c.Poster
		}
		score.WriteString(s)
		title.WriteString(t)
		rating.WriteString(r)
	}

	panel.Score = score.String()
	panel.Title = title.String()
	panel.Rating = rating.String()
	return panel
}

func formatRating(c *Candidate) string {
	out := fmt.Sprintf("%.2f", *c.Rating)
	if c.Runtime != nil && *c.Runtime > 0 {
		out += " · " + formatRuntime(*c.Runtime)
	}
	return out
}

func formatRuntime(minutes int) string {
	h, m := minutes/60, minutes%60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %02dm", h, m)
}

func (p *Paginator) Controls() []model.Control {
	atFirst := p.current <= 0
	atLast := p.current >= p.total-1
	return []model.Control{
		{ID: model.ControlFirstPage, Label: "<<", Disabled: atFirst},
		{ID: model.ControlPrevPage, Label: "<", Disabled: atFirst},
		{ID: model.ControlNextPage, Label: ">", Disabled: atLast},
		{ID: model.ControlLastPage, Label: ">>", Disabled: atLast},
	}
}
