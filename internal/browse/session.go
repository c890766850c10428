// Package browse is the controller behind one ticket listing view. A
// Session owns the query state, folds in updates from the individual
// controls, keeps the address bar and search history in step, and
// refetches whenever the canonical state changes.
package browse

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dharmasatrya/ticketsearch/internal/client"
	"github.com/dharmasatrya/ticketsearch/internal/debounce"
	"github.com/dharmasatrya/ticketsearch/internal/fetch"
	"github.com/dharmasatrya/ticketsearch/internal/history"
	"github.com/dharmasatrya/ticketsearch/internal/models"
	"github.com/dharmasatrya/ticketsearch/internal/querystate"
)

type Config struct {
	API      client.API
	Location Location
	History  history.Store

	SearchDelay  time.Duration
	PriceDelay   time.Duration
	TypeDelay    time.Duration
	FetchTimeout time.Duration

	// OnChange is called after anything visible changed. It may be
	// called from timer and fetch goroutines.
	OnChange func()

	Logger *zap.Logger
	Now    func() time.Time
}

// View is a consistent snapshot for rendering.
type View struct {
	State  querystate.State
	Params querystate.Params
	Status fetch.Status
	Err    error

	Tickets    []models.Ticket
	Pagination *models.PaginationMeta
	Window     []querystate.PageSlot
	Empty      bool

	// Drafts are control values not yet folded into State.
	SearchDraft   querystate.SearchFacet
	MinPriceDraft querystate.Bound
	MaxPriceDraft querystate.Bound
	TypesDraft    []string
	SearchPending bool
	PricePending  bool
	TypesPending  bool

	History []history.Entry
}

type Session struct {
	config  Config
	logger  *zap.Logger
	fetcher *fetch.Fetcher

	searchTimer *debounce.Timer
	priceTimer  *debounce.Timer
	typeTimer   *debounce.Timer

	mu          sync.Mutex
	ctx         context.Context
	state       querystate.State
	searchDraft querystate.SearchFacet
	minDraft    querystate.Bound
	maxDraft    querystate.Bound
	typesDraft  []string
	history     []history.Entry
	meta        *models.PaginationMeta
}

func NewSession(config Config) *Session {
	if config.SearchDelay <= 0 {
		config.SearchDelay = debounce.SearchDelay
	}
	if config.PriceDelay <= 0 {
		config.PriceDelay = debounce.PriceDelay
	}
	if config.TypeDelay <= 0 {
		config.TypeDelay = debounce.TypeDelay
	}
	if config.Location == nil {
		config.Location = NewMemoryLocation(nil)
	}
	if config.History == nil {
		config.History = history.NewMemoryStore()
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Session{
		config:      config,
		logger:      logger,
		searchTimer: debounce.New(config.SearchDelay),
		priceTimer:  debounce.New(config.PriceDelay),
		typeTimer:   debounce.New(config.TypeDelay),
		ctx:         context.Background(),
		state:       querystate.Default(),
	}
	s.fetcher = fetch.New(config.API.ListTickets, fetch.Config{
		Timeout:  config.FetchTimeout,
		OnResult: s.handleResult,
	})
	return s
}

// Start restores the state from the location, loads the search history
// and runs the first query. ctx bounds every query the session makes.
func (s *Session) Start(ctx context.Context) {
	restored := querystate.FromQueryParams(s.config.Location.ReadLocation())

	entries, err := s.config.History.Load(ctx)
	if err != nil {
		s.logger.Warn("load search history", zap.Error(err))
	}

	s.mu.Lock()
	s.ctx = ctx
	s.state = restored
	s.syncDraftsLocked()
	s.history = entries
	s.config.Location.WriteLocation(querystate.ToQueryParams(restored))
	s.fetcher.Dispatch(ctx, restored)
	s.mu.Unlock()

	s.notify()
}

// Close stops pending timers and abandons any in-flight query.
func (s *Session) Close() {
	s.searchTimer.Stop()
	s.priceTimer.Stop()
	s.typeTimer.Stop()
	s.fetcher.Cancel()
}

func (s *Session) SetSearchText(text string) {
	s.editSearch(func(d *querystate.SearchFacet) { d.FreeText = text })
}

func (s *Session) SetFrom(city string) {
	s.editSearch(func(d *querystate.SearchFacet) { d.From = city })
}

func (s *Session) SetTo(city string) {
	s.editSearch(func(d *querystate.SearchFacet) { d.To = city })
}

func (s *Session) editSearch(edit func(*querystate.SearchFacet)) {
	s.mu.Lock()
	edit(&s.searchDraft)
	s.searchTimer.Reset(func() { s.commitSearch(false) })
	s.mu.Unlock()

	s.notify()
}

// SubmitSearch folds the search draft in immediately and records it in
// the history.
func (s *Session) SubmitSearch() {
	s.searchTimer.Stop()
	s.commitSearch(true)
}

func (s *Session) commitSearch(record bool) {
	s.mu.Lock()
	draft := s.searchDraft
	s.applyLocked(querystate.Merge(s.state, querystate.SearchPatch{
		FreeText: &draft.FreeText,
		From:     &draft.From,
		To:       &draft.To,
	}))
	var save []history.Entry
	if record {
		save = s.recordLocked(draft)
	}
	ctx := s.ctx
	s.mu.Unlock()

	if save != nil {
		if err := s.config.History.Save(ctx, save); err != nil {
			s.logger.Warn("save search history", zap.Error(err))
		}
	}
	s.notify()
}

func (s *Session) recordLocked(draft querystate.SearchFacet) []history.Entry {
	entry := history.Entry{
		FreeText:  strings.TrimSpace(draft.FreeText),
		From:      strings.TrimSpace(draft.From),
		To:        strings.TrimSpace(draft.To),
		Timestamp: s.config.Now(),
	}
	if entry.Empty() {
		return nil
	}
	s.history = history.Record(entry, s.history)
	return s.history
}

// ApplyHistory runs a remembered search again, moving it to the front
// of the history.
func (s *Session) ApplyHistory(e history.Entry) {
	s.searchTimer.Stop()
	s.mu.Lock()
	s.searchDraft = querystate.SearchFacet{FreeText: e.FreeText, From: e.From, To: e.To}
	s.mu.Unlock()
	s.commitSearch(true)
}

// ToggleType flips one type chip. Quick successive toggles are folded
// into one change, so switching a type off and straight back on leaves
// the state as it was and fetches nothing.
func (s *Session) ToggleType(t string) {
	s.mu.Lock()
	draft := querystate.State{Filter: querystate.FilterFacet{Types: s.typesDraft}}
	s.typesDraft = querystate.ToggleType(draft, t).Filter.Types
	s.typeTimer.Reset(s.commitTypes)
	s.mu.Unlock()

	s.notify()
}

func (s *Session) commitTypes() {
	s.update(func(cur querystate.State) querystate.State {
		types := s.typesDraft
		if types == nil {
			types = []string{}
		}
		return querystate.Merge(cur, querystate.FilterPatch{Types: types})
	})
}

// SetTypes replaces the whole type selection at once, dropping any
// pending chip toggles.
func (s *Session) SetTypes(types []string) {
	if types == nil {
		types = []string{}
	}
	s.typeTimer.Stop()
	s.update(func(cur querystate.State) querystate.State {
		return querystate.Merge(cur, querystate.FilterPatch{Types: types})
	})
}

// SetPriceRange records the edited bounds and folds them in once the
// price input settles.
func (s *Session) SetPriceRange(minPrice, maxPrice querystate.Bound) {
	s.mu.Lock()
	s.minDraft = minPrice
	s.maxDraft = maxPrice
	s.priceTimer.Reset(s.commitPrice)
	s.mu.Unlock()

	s.notify()
}

func (s *Session) commitPrice() {
	s.update(func(cur querystate.State) querystate.State {
		minPrice, maxPrice := s.minDraft, s.maxDraft
		return querystate.Merge(cur, querystate.FilterPatch{MinPrice: &minPrice, MaxPrice: &maxPrice})
	})
}

func (s *Session) ToggleSort(key querystate.SortKey) {
	s.update(func(cur querystate.State) querystate.State {
		return querystate.ToggleSort(cur, key)
	})
}

func (s *Session) SetSort(key querystate.SortKey, dir querystate.SortDirection) {
	s.update(func(cur querystate.State) querystate.State {
		return querystate.Merge(cur, querystate.SortPatch{Key: &key, Direction: &dir})
	})
}

// GoToPage moves to page n, clamped to the last known page count.
func (s *Session) GoToPage(n int) {
	s.update(func(cur querystate.State) querystate.State {
		if s.meta != nil && s.meta.TotalPages > 0 {
			n = querystate.ClampPage(n, s.meta.TotalPages)
		}
		return querystate.Merge(cur, querystate.PagePatch{Page: &n})
	})
}

func (s *Session) NextPage() {
	s.mu.Lock()
	n := s.state.Page.Page + 1
	s.mu.Unlock()
	s.GoToPage(n)
}

func (s *Session) PrevPage() {
	s.mu.Lock()
	n := s.state.Page.Page - 1
	s.mu.Unlock()
	s.GoToPage(n)
}

// SetPageSize switches the page size and, when the item count is known,
// pulls the current page back into the new page range.
func (s *Session) SetPageSize(size int) {
	if !querystate.ValidPageSize(size) {
		return
	}
	s.update(func(cur querystate.State) querystate.State {
		page := cur.Page.Page
		if s.meta != nil {
			page = querystate.ClampPage(page, querystate.TotalPages(s.meta.TotalItems, size))
		}
		return querystate.Merge(cur, querystate.PagePatch{Page: &page, PageSize: &size})
	})
}

// ClearFilters is the empty-state action: back to the default state,
// discarding any pending edits.
func (s *Session) ClearFilters() {
	s.searchTimer.Stop()
	s.priceTimer.Stop()
	s.typeTimer.Stop()

	s.mu.Lock()
	s.applyLocked(querystate.Default())
	s.syncDraftsLocked()
	s.mu.Unlock()

	s.notify()
}

// Refresh re-runs the current query, the retry offered after an error.
func (s *Session) Refresh() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	if !s.fetcher.Refresh(ctx) {
		s.mu.Lock()
		s.fetcher.Dispatch(ctx, s.state)
		s.mu.Unlock()
	}
	s.notify()
}

func (s *Session) State() querystate.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := s.fetcher.Last()
	v := View{
		State:         s.state,
		Params:        querystate.ToQueryParams(s.state),
		Status:        s.fetcher.Status(),
		Err:           last.Err,
		SearchDraft:   s.searchDraft,
		MinPriceDraft: s.minDraft,
		MaxPriceDraft: s.maxDraft,
		TypesDraft:    append([]string(nil), s.typesDraft...),
		SearchPending: s.searchTimer.Pending(),
		PricePending:  s.priceTimer.Pending(),
		TypesPending:  s.typeTimer.Pending(),
		History:       append([]history.Entry(nil), s.history...),
	}
	if last.Response != nil {
		v.Tickets = last.Response.Data
		meta := last.Response.Pagination
		v.Pagination = &meta
		v.Window = querystate.ComputePageWindow(s.state.Page.Page, meta.TotalPages, querystate.DefaultMaxVisible)
		v.Empty = last.Err == nil && len(last.Response.Data) == 0
	}
	return v
}

func (s *Session) update(fn func(querystate.State) querystate.State) {
	s.mu.Lock()
	s.applyLocked(fn(s.state))
	s.mu.Unlock()
	s.notify()
}

// applyLocked makes next the canonical state. Equal states are a no-op,
// so nothing is refetched and the address bar is left alone.
func (s *Session) applyLocked(next querystate.State) {
	if next.Equal(s.state) {
		return
	}
	s.state = next
	s.syncDraftsLocked()
	s.config.Location.WriteLocation(querystate.ToQueryParams(next))
	s.fetcher.Dispatch(s.ctx, next)
}

// syncDraftsLocked keeps idle controls showing the committed values.
func (s *Session) syncDraftsLocked() {
	if !s.searchTimer.Pending() {
		s.searchDraft = s.state.Search
	}
	if !s.priceTimer.Pending() {
		s.minDraft = s.state.Filter.MinPrice
		s.maxDraft = s.state.Filter.MaxPrice
	}
	if !s.typeTimer.Pending() {
		s.typesDraft = s.state.Filter.Types
	}
}

func (s *Session) handleResult(r fetch.Result) {
	s.mu.Lock()
	// A result superseded between its arrival and this call says nothing
	// about the page count of the current query.
	if r.Err == nil && r.Response != nil && s.fetcher.Current(r.Seq) {
		meta := r.Response.Pagination
		s.meta = &meta

		if meta.TotalPages > 0 && s.state.Page.Page > meta.TotalPages && r.State.Equal(s.state) {
			page := meta.TotalPages
			s.applyLocked(querystate.Merge(s.state, querystate.PagePatch{Page: &page}))
		}
	}
	s.mu.Unlock()

	s.notify()
}

func (s *Session) notify() {
	if s.config.OnChange != nil {
		s.config.OnChange()
	}
}
