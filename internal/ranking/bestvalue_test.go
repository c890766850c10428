package ranking

import (
	"testing"

	"github.com/dharmasatrya/ticketsearch/internal/models"
)

func TestRankPrefersCheapWellRated(t *testing.T) {
	tickets := []models.Ticket{
		{ID: "pricey", Price: 5000, Quantity: 40, AvailableQuantity: 40, Rating: models.Rating{Average: 4.8, Count: 100}},
		{ID: "cheap-good", Price: 800, Quantity: 40, AvailableQuantity: 20, Rating: models.Rating{Average: 4.6, Count: 50}},
		{ID: "cheap-unrated", Price: 700, Quantity: 40, AvailableQuantity: 20, Rating: models.Rating{Average: 5, Count: 0}},
		{ID: "sold-out", Price: 100, Quantity: 40, AvailableQuantity: 0, Rating: models.Rating{Average: 5, Count: 300}},
	}

	ranked := Rank(tickets)
	if len(ranked) != 3 {
		t.Fatalf("expected sold-out ticket to be dropped, got %d results", len(ranked))
	}
	if ranked[0].Ticket.ID != "cheap-good" {
		t.Errorf("expected cheap-good first, got %s", ranked[0].Ticket.ID)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i-1].Score < ranked[i].Score {
			t.Errorf("results not ordered by score: %v", ranked)
		}
	}
}

func TestCalculateBestValueBounds(t *testing.T) {
	best := models.Ticket{Price: 0, Quantity: 10, AvailableQuantity: 10, Rating: models.Rating{Average: 5, Count: 50}}
	if got := CalculateBestValue(best, 1000); got != 100 {
		t.Errorf("perfect ticket should score 100, got %v", got)
	}
	if got := CalculateBestValue(models.Ticket{}, 0); got != 0 {
		t.Errorf("empty ticket should score 0, got %v", got)
	}
}
