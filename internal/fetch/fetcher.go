// Package fetch runs the ticket query for the current list state and
// makes sure only the newest dispatch can publish a result.
package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/dharmasatrya/ticketsearch/internal/models"
	"github.com/dharmasatrya/ticketsearch/internal/querystate"
)

type Status int

const (
	StatusIdle Status = iota
	StatusFetching
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusFetching:
		return "fetching"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Loader performs one tickets query.
type Loader func(ctx context.Context, params querystate.Params) (*models.TicketListResponse, error)

type Result struct {
	Seq      uint64
	State    querystate.State
	Response *models.TicketListResponse
	Err      error
}

type Config struct {
	Timeout time.Duration
	// OnResult is called, outside any lock, with every result that was
	// still current when it arrived.
	OnResult func(Result)
}

type Fetcher struct {
	load   Loader
	config Config

	mu         sync.Mutex
	seq        uint64
	cancel     context.CancelFunc
	dispatched *querystate.State
	status     Status
	last       Result
}

func New(load Loader, config Config) *Fetcher {
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &Fetcher{load: load, config: config}
}

// Dispatch starts a query for s unless s equals the last dispatched
// state. Any query still in flight is cancelled and its result will be
// dropped. Reports whether a query was started.
func (f *Fetcher) Dispatch(ctx context.Context, s querystate.State) bool {
	f.mu.Lock()
	if f.dispatched != nil && f.dispatched.Equal(s) {
		f.mu.Unlock()
		return false
	}
	f.startLocked(ctx, s)
	f.mu.Unlock()
	return true
}

// Refresh re-runs the last dispatched query. It is the explicit retry
// after an error; nothing retries on its own.
func (f *Fetcher) Refresh(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dispatched == nil {
		return false
	}
	f.startLocked(ctx, *f.dispatched)
	return true
}

func (f *Fetcher) startLocked(ctx context.Context, s querystate.State) {
	if f.cancel != nil {
		f.cancel()
	}
	f.seq++
	seq := f.seq
	snapshot := s
	f.dispatched = &snapshot
	f.status = StatusFetching

	fetchCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	f.cancel = cancel

	params := querystate.ToQueryParams(snapshot)
	go func() {
		defer cancel()
		resp, err := f.load(fetchCtx, params)
		f.complete(Result{Seq: seq, State: snapshot, Response: resp, Err: err})
	}()
}

func (f *Fetcher) complete(r Result) {
	f.mu.Lock()
	if r.Seq != f.seq {
		f.mu.Unlock()
		return
	}
	f.cancel = nil
	f.last = r
	if r.Err != nil {
		f.status = StatusError
	} else {
		f.status = StatusSuccess
	}
	onResult := f.config.OnResult
	f.mu.Unlock()

	if onResult != nil {
		onResult(r)
	}
}

func (f *Fetcher) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Last returns the most recent result that was current on arrival.
func (f *Fetcher) Last() Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// Current reports whether seq belongs to the most recent dispatch.
func (f *Fetcher) Current(seq uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return seq == f.seq
}

// Cancel abandons any in-flight query; its result will be dropped.
func (f *Fetcher) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.seq++
	if f.status == StatusFetching {
		f.status = StatusIdle
	}
	f.dispatched = nil
}
