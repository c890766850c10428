package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dharmasatrya/ticketsearch/internal/models"
	"github.com/dharmasatrya/ticketsearch/internal/querystate"
)

// gatedLoader blocks each query until the test releases it by its
// encoded params.
type gatedLoader struct {
	mu    sync.Mutex
	gates map[string]chan struct{}
	calls []string
}

func newGatedLoader() *gatedLoader {
	return &gatedLoader{gates: map[string]chan struct{}{}}
}

func (g *gatedLoader) gate(key string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[key]
	if !ok {
		ch = make(chan struct{})
		g.gates[key] = ch
	}
	return ch
}

func (g *gatedLoader) load(ctx context.Context, params querystate.Params) (*models.TicketListResponse, error) {
	key := params.Encode()
	g.mu.Lock()
	g.calls = append(g.calls, key)
	g.mu.Unlock()

	<-g.gate(key)
	// Ignore cancellation on purpose so a stale answer really arrives.
	return &models.TicketListResponse{
		Data: []models.Ticket{{ID: key}},
	}, nil
}

func (g *gatedLoader) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for result")
		return Result{}
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	loader := newGatedLoader()
	results := make(chan Result, 4)
	fetcher := New(loader.load, Config{OnResult: func(r Result) { results <- r }})

	stateA := querystate.Merge(querystate.Default(), querystate.FilterPatch{Types: []string{"bus"}})
	stateB := querystate.Merge(querystate.Default(), querystate.FilterPatch{Types: []string{"train"}})

	ctx := context.Background()
	fetcher.Dispatch(ctx, stateA)
	fetcher.Dispatch(ctx, stateB)

	close(loader.gate("type=train"))
	got := waitResult(t, results)
	if got.Response.Data[0].ID != "type=train" {
		t.Fatalf("expected B's result, got %q", got.Response.Data[0].ID)
	}

	close(loader.gate("type=bus"))
	select {
	case r := <-results:
		t.Fatalf("stale result for A was published: %+v", r)
	case <-time.After(100 * time.Millisecond):
	}

	last := fetcher.Last()
	if last.Response.Data[0].ID != "type=train" {
		t.Errorf("displayed result should remain B's, got %q", last.Response.Data[0].ID)
	}
	if fetcher.Status() != StatusSuccess {
		t.Errorf("expected success status, got %v", fetcher.Status())
	}
}

func TestIdenticalStateDoesNotRefetch(t *testing.T) {
	loader := newGatedLoader()
	close(loader.gate(""))
	results := make(chan Result, 4)
	fetcher := New(loader.load, Config{OnResult: func(r Result) { results <- r }})

	ctx := context.Background()
	if !fetcher.Dispatch(ctx, querystate.Default()) {
		t.Fatal("first dispatch should start a query")
	}
	waitResult(t, results)

	toggled := querystate.ToggleType(querystate.Default(), "bus")
	back := querystate.ToggleType(toggled, "bus")
	if fetcher.Dispatch(ctx, back) {
		t.Error("dispatching a state equal to the last one should not refetch")
	}
	if loader.callCount() != 1 {
		t.Errorf("expected 1 load call, got %d", loader.callCount())
	}

	if !fetcher.Refresh(ctx) {
		t.Fatal("Refresh should re-run the last query")
	}
	waitResult(t, results)
	if loader.callCount() != 2 {
		t.Errorf("expected 2 load calls after refresh, got %d", loader.callCount())
	}
}

func TestErrorStatus(t *testing.T) {
	results := make(chan Result, 1)
	boom := errors.New("connection refused")
	fetcher := New(func(ctx context.Context, p querystate.Params) (*models.TicketListResponse, error) {
		return nil, boom
	}, Config{OnResult: func(r Result) { results <- r }})

	if fetcher.Status() != StatusIdle {
		t.Fatalf("expected idle before any dispatch, got %v", fetcher.Status())
	}

	fetcher.Dispatch(context.Background(), querystate.Default())
	r := waitResult(t, results)
	if !errors.Is(r.Err, boom) {
		t.Fatalf("expected %v, got %v", boom, r.Err)
	}
	if fetcher.Status() != StatusError {
		t.Errorf("expected error status, got %v", fetcher.Status())
	}
}

func TestCancelDropsInFlight(t *testing.T) {
	loader := newGatedLoader()
	results := make(chan Result, 1)
	fetcher := New(loader.load, Config{OnResult: func(r Result) { results <- r }})

	fetcher.Dispatch(context.Background(), querystate.Default())
	fetcher.Cancel()
	close(loader.gate(""))

	select {
	case r := <-results:
		t.Fatalf("cancelled query published a result: %+v", r)
	case <-time.After(100 * time.Millisecond):
	}
	if fetcher.Status() != StatusIdle {
		t.Errorf("expected idle after cancel, got %v", fetcher.Status())
	}
}

func TestCurrentTracksLatestDispatch(t *testing.T) {
	loader := newGatedLoader()
	results := make(chan Result, 4)
	fetcher := New(loader.load, Config{OnResult: func(r Result) { results <- r }})
	defer fetcher.Cancel()

	bus := querystate.ToggleType(querystate.Default(), "bus")
	train := querystate.ToggleType(querystate.Default(), "train")

	fetcher.Dispatch(context.Background(), bus)
	close(loader.gate("type=bus"))
	first := waitResult(t, results)
	if !fetcher.Current(first.Seq) {
		t.Fatal("the only result should be current")
	}

	fetcher.Dispatch(context.Background(), train)
	if fetcher.Current(first.Seq) {
		t.Error("a newer dispatch should supersede the delivered result")
	}
	close(loader.gate("type=train"))
	if second := waitResult(t, results); !fetcher.Current(second.Seq) {
		t.Error("the latest result should be current")
	}
}
