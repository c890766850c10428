package home

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dharmasatrya/ticketsearch/internal/filter"
	"github.com/dharmasatrya/ticketsearch/internal/models"
	"github.com/dharmasatrya/ticketsearch/internal/querystate"
)

type stubAPI struct {
	tickets  []models.Ticket
	typesErr error
}

func (s *stubAPI) ListTickets(ctx context.Context, params querystate.Params) (*models.TicketListResponse, error) {
	state := querystate.FromQueryParams(params)
	tickets := append([]models.Ticket(nil), s.tickets...)
	page, meta := filter.Paginate(filter.Apply(tickets, state), state.Page)
	return &models.TicketListResponse{Data: page, Pagination: meta}, nil
}

func (s *stubAPI) Types(ctx context.Context) ([]models.TypeFacet, error) {
	if s.typesErr != nil {
		return nil, s.typesErr
	}
	return []models.TypeFacet{{Value: "bus", Label: "Bus", Count: len(s.tickets)}}, nil
}

func (s *stubAPI) Suggestions(ctx context.Context, query string) (*models.Suggestions, error) {
	return &models.Suggestions{}, nil
}

func stubTickets(n int) []models.Ticket {
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	tickets := make([]models.Ticket, n)
	for i := range tickets {
		tickets[i] = models.Ticket{
			ID:                fmt.Sprintf("tkt-%02d", i),
			TransportType:     "bus",
			Price:             float64(1000 + 50*i),
			Quantity:          40,
			AvailableQuantity: 10,
			Rating:            models.Rating{Average: 4, Count: 25},
			CreatedAt:         base.Add(time.Duration(i) * time.Hour),
		}
	}
	return tickets
}

func TestBuild(t *testing.T) {
	b := NewBuilder(&stubAPI{tickets: stubTickets(10)}, DefaultConfig(), nil)

	page := b.Build(context.Background())

	if len(page.FailedSections) != 0 {
		t.Fatalf("unexpected failures %v", page.FailedSections)
	}
	if len(page.Featured) != 4 {
		t.Errorf("expected 4 featured deals, got %d", len(page.Featured))
	}
	// Equal ratings and availability: the cheapest ticket is the best value.
	if page.Featured[0].Ticket.ID != "tkt-00" {
		t.Errorf("expected cheapest ticket first, got %s", page.Featured[0].Ticket.ID)
	}
	if len(page.Newest) != 6 || page.Newest[0].ID != "tkt-09" {
		t.Errorf("expected the 6 newest tickets starting with tkt-09, got %d", len(page.Newest))
	}
	if len(page.Types) != 1 {
		t.Errorf("expected type facets, got %v", page.Types)
	}
}

func TestBuildKeepsHealthySections(t *testing.T) {
	api := &stubAPI{tickets: stubTickets(3), typesErr: errors.New("upstream down")}
	b := NewBuilder(api, DefaultConfig(), nil)

	page := b.Build(context.Background())

	if len(page.FailedSections) != 1 || page.FailedSections[0] != SectionTypes {
		t.Fatalf("expected only the types section to fail, got %v", page.FailedSections)
	}
	if page.Types == nil || len(page.Types) != 0 {
		t.Errorf("failed section should be empty, not nil: %v", page.Types)
	}
	if len(page.Newest) != 3 || len(page.Featured) != 3 {
		t.Errorf("healthy sections should still render, got %d newest and %d featured", len(page.Newest), len(page.Featured))
	}
}
