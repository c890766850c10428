package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dharmasatrya/ticketsearch/internal/browse"
	"github.com/dharmasatrya/ticketsearch/internal/fetch"
	"github.com/dharmasatrya/ticketsearch/internal/filter"
	"github.com/dharmasatrya/ticketsearch/internal/history"
	"github.com/dharmasatrya/ticketsearch/internal/models"
	"github.com/dharmasatrya/ticketsearch/internal/querystate"
)

type testAPI struct {
	mu      sync.Mutex
	tickets []models.Ticket
	fail    bool
}

func newTestAPI() *testAPI {
	base := time.Date(2026, 10, 1, 6, 0, 0, 0, time.UTC)
	var tickets []models.Ticket
	for i := 0; i < 30; i++ {
		typ := []string{"bus", "train", "flight"}[i%3]
		tickets = append(tickets, models.Ticket{
			ID:                fmt.Sprintf("tkt-%02d", i),
			Title:             fmt.Sprintf("%s service %d", typ, i),
			From:              "Dhaka",
			To:                "Chattogram",
			TransportType:     typ,
			Schedule:          []models.Schedule{{DepartureTime: base.Add(time.Duration(i) * time.Hour)}},
			Price:             float64(400 + 50*i),
			Currency:          "BDT",
			AvailableQuantity: 10,
			CreatedAt:         base.Add(time.Duration(i) * time.Minute),
		})
	}
	return &testAPI{tickets: tickets}
}

func (a *testAPI) setFail(fail bool) {
	a.mu.Lock()
	a.fail = fail
	a.mu.Unlock()
}

func (a *testAPI) ListTickets(ctx context.Context, params querystate.Params) (*models.TicketListResponse, error) {
	a.mu.Lock()
	fail := a.fail
	a.mu.Unlock()
	if fail {
		return nil, errors.New("upstream unavailable")
	}
	state := querystate.FromQueryParams(params)
	page, meta := filter.Paginate(filter.Apply(a.tickets, state), state.Page)
	return &models.TicketListResponse{Data: page, Pagination: meta}, nil
}

func (a *testAPI) Types(ctx context.Context) ([]models.TypeFacet, error) {
	return nil, nil
}

func (a *testAPI) Suggestions(ctx context.Context, query string) (*models.Suggestions, error) {
	return &models.Suggestions{}, nil
}

type harness struct {
	t       *testing.T
	session *browse.Session
	store   *history.MemoryStore
	model   Model
}

func newHarness(t *testing.T, api *testAPI) *harness {
	t.Helper()
	changes := NewNotifier()
	store := history.NewMemoryStore()
	session := browse.NewSession(browse.Config{
		API:         api,
		History:     store,
		SearchDelay: 10 * time.Millisecond,
		PriceDelay:  10 * time.Millisecond,
		TypeDelay:   10 * time.Millisecond,
		OnChange:    changes.Notify,
	})
	t.Cleanup(session.Close)
	session.Start(context.Background())

	h := &harness{t: t, session: session, store: store, model: NewModel(session, changes)}
	h.send(tea.WindowSizeMsg{Width: 160, Height: 40})
	return h
}

func (h *harness) send(message tea.Msg) tea.Cmd {
	updated, cmd := h.model.Update(message)
	h.model = updated.(Model)
	return cmd
}

func (h *harness) press(keys string) {
	for _, r := range keys {
		h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// waitFor polls a session condition that a debounce timer will make
// true.
func (h *harness) waitFor(what string, cond func(querystate.State) bool) {
	h.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond(h.session.State()) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	h.t.Fatalf("timed out waiting for %s", what)
}

// settle waits until the session has answered its current state, then
// delivers the change the way the running program would.
func (h *harness) settle(want fetch.Status) {
	h.t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v := h.session.View()
		if v.Status == want && !v.SearchPending && !v.PricePending && !v.TypesPending {
			h.send(changeMsg{})
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	h.t.Fatalf("timed out waiting for status %v", want)
}

func TestViewBeforeWindowSize(t *testing.T) {
	changes := NewNotifier()
	session := browse.NewSession(browse.Config{API: newTestAPI(), OnChange: changes.Notify})
	defer session.Close()

	model := NewModel(session, changes)
	if got := model.View(); got != "Loading..." {
		t.Errorf("expected loading placeholder, got %q", got)
	}
}

func TestRendersFirstPage(t *testing.T) {
	h := newHarness(t, newTestAPI())
	h.settle(fetch.StatusSuccess)

	out := h.model.View()
	for _, want := range []string{"/tickets", "flight service 29", "Page 1 of 3 · 30 tickets", "৳"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "/tickets?") {
		t.Error("default state should render a bare address")
	}
}

func TestToggleTypeUpdatesAddress(t *testing.T) {
	h := newHarness(t, newTestAPI())
	h.settle(fetch.StatusSuccess)

	h.press("1")
	if !strings.Contains(h.model.View(), "[1 ") {
		t.Error("the chip should show as selected before the type is committed")
	}
	h.waitFor("bus filter", func(s querystate.State) bool { return s.Filter.HasType("bus") })
	h.settle(fetch.StatusSuccess)

	if !strings.Contains(h.model.View(), "/tickets?type=bus") {
		t.Errorf("expected bus filter in address bar:\n%s", h.model.View())
	}
	for _, ticket := range h.model.view.Tickets {
		if ticket.TransportType != "bus" {
			t.Fatalf("unexpected %s ticket after filtering", ticket.TransportType)
		}
	}

	h.press("1")
	h.waitFor("cleared types", func(s querystate.State) bool { return len(s.Filter.Types) == 0 })
	h.settle(fetch.StatusSuccess)
	if strings.Contains(h.model.View(), "/tickets?") {
		t.Error("clearing the only type should leave a bare address")
	}
}

func TestNextPageAndCursor(t *testing.T) {
	h := newHarness(t, newTestAPI())
	h.settle(fetch.StatusSuccess)

	h.press("jjk")
	if h.model.cursor != 1 {
		t.Errorf("expected cursor 1, got %d", h.model.cursor)
	}

	h.press("l")
	h.settle(fetch.StatusSuccess)
	if got := h.session.State().Page.Page; got != 2 {
		t.Fatalf("expected page 2, got %d", got)
	}
	if !strings.Contains(h.model.View(), "?page=2") {
		t.Error("address bar should carry the page")
	}

	h.press("G")
	h.settle(fetch.StatusSuccess)
	if got := h.session.State().Page.Page; got != 3 {
		t.Errorf("expected last page 3, got %d", got)
	}
}

func TestSubmitSearchRecordsHistory(t *testing.T) {
	h := newHarness(t, newTestAPI())
	h.settle(fetch.StatusSuccess)

	h.press("/")
	if h.model.focus != FocusSearch {
		t.Fatalf("expected search focus, got %v", h.model.focus)
	}
	h.press("train")
	if got := h.session.View().SearchDraft.FreeText; got != "train" {
		t.Errorf("expected draft %q, got %q", "train", got)
	}

	h.send(tea.KeyMsg{Type: tea.KeyEnter})
	if h.model.focus != FocusList {
		t.Error("enter should return focus to the list")
	}
	h.settle(fetch.StatusSuccess)

	if got := h.session.State().Search.FreeText; got != "train" {
		t.Errorf("expected committed search, got %q", got)
	}
	if h.store.Saves() != 1 || len(h.model.view.History) != 1 {
		t.Fatalf("expected one history entry, saves=%d entries=%d", h.store.Saves(), len(h.model.view.History))
	}

	h.press("H")
	if h.model.focus != FocusHistory {
		t.Fatal("H should open the history panel")
	}
	if !strings.Contains(h.model.View(), "Recent searches") {
		t.Error("history panel not rendered")
	}
	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	if h.model.focus != FocusList {
		t.Error("esc should close the history panel")
	}
}

func TestPriceInputIsDebounced(t *testing.T) {
	h := newHarness(t, newTestAPI())
	h.settle(fetch.StatusSuccess)

	h.press("m")
	h.press("1,000")
	h.send(tea.KeyMsg{Type: tea.KeyEsc})

	h.waitFor("min price", func(s querystate.State) bool { return s.Filter.MinPrice.Valid })
	h.settle(fetch.StatusSuccess)

	state := h.session.State()
	if !state.Filter.MinPrice.Valid || state.Filter.MinPrice.Value != 1000 {
		t.Fatalf("expected min price 1000, got %+v", state.Filter.MinPrice)
	}
	if got := h.model.inputs[FocusMinPrice-1].Value(); got != "1,000" {
		t.Errorf("equivalent input should stay as typed, got %q", got)
	}
}

func TestEmptyStateOffersClear(t *testing.T) {
	h := newHarness(t, newTestAPI())
	h.settle(fetch.StatusSuccess)

	h.press("4")
	h.waitFor("launch filter", func(s querystate.State) bool { return s.Filter.HasType("launch") })
	h.settle(fetch.StatusSuccess)

	out := h.model.View()
	if !strings.Contains(out, "No tickets match") || !strings.Contains(out, "c clear all") {
		t.Fatalf("expected empty state:\n%s", out)
	}

	h.press("c")
	h.settle(fetch.StatusSuccess)
	if !h.session.State().Equal(querystate.Default()) {
		t.Errorf("clear should restore the default state, got %+v", h.session.State())
	}
}

func TestErrorBannerAndRetry(t *testing.T) {
	api := newTestAPI()
	api.setFail(true)
	h := newHarness(t, api)
	h.settle(fetch.StatusError)

	out := h.model.View()
	if !strings.Contains(out, "Couldn't load tickets") || !strings.Contains(out, "r retry") {
		t.Fatalf("expected error banner:\n%s", out)
	}

	api.setFail(false)
	h.press("r")
	h.settle(fetch.StatusSuccess)
	if strings.Contains(h.model.View(), "Couldn't load tickets") {
		t.Error("banner should clear after a successful retry")
	}
}

func TestQuit(t *testing.T) {
	h := newHarness(t, newTestAPI())

	cmd := h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit from the list")
	}
}

func TestNotifierCoalesces(t *testing.T) {
	n := NewNotifier()
	n.Notify()
	n.Notify()

	if msg := waitForChange(n)(); msg != (changeMsg{}) {
		t.Fatalf("expected change message, got %#v", msg)
	}
	select {
	case <-n:
		t.Error("notifications should coalesce")
	default:
	}
}
