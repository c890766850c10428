// Package home assembles the landing page: best-value deals, the newest
// listings and the transport type counts, fetched side by side.
package home

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dharmasatrya/ticketsearch/internal/client"
	"github.com/dharmasatrya/ticketsearch/internal/models"
	"github.com/dharmasatrya/ticketsearch/internal/querystate"
	"github.com/dharmasatrya/ticketsearch/internal/ranking"
)

const (
	SectionFeatured = "featured"
	SectionNewest   = "newest"
	SectionTypes    = "types"
)

type Config struct {
	Timeout       time.Duration
	FeaturedCount int
	NewestCount   int
}

func DefaultConfig() Config {
	return Config{
		Timeout:       3 * time.Second,
		FeaturedCount: 4,
		NewestCount:   6,
	}
}

type Page struct {
	Featured       []ranking.Scored   `json:"featured"`
	Newest         []models.Ticket    `json:"newest"`
	Types          []models.TypeFacet `json:"types"`
	FailedSections []string           `json:"failedSections,omitempty"`
}

type Builder struct {
	api    client.API
	config Config
	logger *zap.Logger
}

func NewBuilder(api client.API, config Config, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{api: api, config: config, logger: logger}
}

// Build fetches every section concurrently. A failing section is listed
// in FailedSections and left empty; the page itself never fails.
func (b *Builder) Build(ctx context.Context) *Page {
	buildCtx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	page := &Page{
		Featured: []ranking.Scored{},
		Newest:   []models.Ticket{},
		Types:    []models.TypeFacet{},
	}

	type sectionResult struct {
		section string
		apply   func(*Page)
		err     error
	}

	sections := map[string]func(context.Context) (func(*Page), error){
		SectionFeatured: b.featured,
		SectionNewest:   b.newest,
		SectionTypes:    b.types,
	}

	resultCh := make(chan sectionResult, len(sections))
	var wg sync.WaitGroup

	for name, fetch := range sections {
		wg.Add(1)
		go func(name string, fetch func(context.Context) (func(*Page), error)) {
			defer wg.Done()
			apply, err := fetch(buildCtx)
			resultCh <- sectionResult{section: name, apply: apply, err: err}
		}(name, fetch)
	}

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	for r := range resultCh {
		if r.err != nil {
			b.logger.Warn("home section failed", zap.String("section", r.section), zap.Error(r.err))
			page.FailedSections = append(page.FailedSections, r.section)
			continue
		}
		r.apply(page)
	}
	slices.Sort(page.FailedSections)

	return page
}

func (b *Builder) featured(ctx context.Context) (func(*Page), error) {
	s := querystate.Merge(querystate.Default(), querystate.SortPatch{Key: querystate.Ptr(querystate.SortRating)})
	s = querystate.Merge(s, querystate.PagePatch{PageSize: querystate.Ptr(24)})

	resp, err := b.api.ListTickets(ctx, querystate.ToQueryParams(s))
	if err != nil {
		return nil, err
	}

	ranked := ranking.Rank(resp.Data)
	if len(ranked) > b.config.FeaturedCount {
		ranked = ranked[:b.config.FeaturedCount]
	}
	return func(p *Page) { p.Featured = ranked }, nil
}

func (b *Builder) newest(ctx context.Context) (func(*Page), error) {
	s := querystate.Merge(querystate.Default(), querystate.PagePatch{PageSize: querystate.Ptr(querystate.PageSizes[0])})

	resp, err := b.api.ListTickets(ctx, querystate.ToQueryParams(s))
	if err != nil {
		return nil, err
	}

	tickets := resp.Data
	if len(tickets) > b.config.NewestCount {
		tickets = tickets[:b.config.NewestCount]
	}
	return func(p *Page) { p.Newest = tickets }, nil
}

func (b *Builder) types(ctx context.Context) (func(*Page), error) {
	facets, err := b.api.Types(ctx)
	if err != nil {
		return nil, err
	}
	return func(p *Page) { p.Types = facets }, nil
}
