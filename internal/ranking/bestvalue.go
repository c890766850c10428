package ranking

import (
	"math"
	"sort"

	"github.com/dharmasatrya/ticketsearch/internal/models"
)

const (
	PriceWeight        = 0.5
	RatingWeight       = 0.35
	AvailabilityWeight = 0.15

	// Reviews needed before a rating counts in full.
	confidentReviews = 20
)

type Scored struct {
	Ticket models.Ticket `json:"ticket"`
	Score  float64       `json:"score"`
}

// Rank scores tickets and returns them best value first. Sold-out
// tickets are left out.
func Rank(tickets []models.Ticket) []Scored {
	maxPrice := findMaxPrice(tickets)

	result := make([]Scored, 0, len(tickets))
	for _, t := range tickets {
		if t.SoldOut() {
			continue
		}
		result = append(result, Scored{Ticket: t, Score: CalculateBestValue(t, maxPrice)})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	return result
}

// Higher score = better value
func CalculateBestValue(ticket models.Ticket, maxPrice float64) float64 {
	priceScore := 0.0
	if maxPrice > 0 {
		priceScore = (1 - ticket.Price/maxPrice) * 100
	}

	confidence := math.Min(float64(ticket.Rating.Count)/confidentReviews, 1)
	ratingScore := (ticket.Rating.Average / 5) * 100 * confidence

	availabilityScore := 0.0
	if ticket.Quantity > 0 {
		availabilityScore = float64(ticket.AvailableQuantity) / float64(ticket.Quantity) * 100
	}

	score := (priceScore * PriceWeight) + (ratingScore * RatingWeight) + (availabilityScore * AvailabilityWeight)

	return math.Round(score*100) / 100
}

func findMaxPrice(tickets []models.Ticket) float64 {
	maxPrice := 0.0
	for _, t := range tickets {
		if t.Price > maxPrice {
			maxPrice = t.Price
		}
	}
	return maxPrice
}
