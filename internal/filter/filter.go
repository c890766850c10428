package filter

import (
	"sort"
	"strings"

	"github.com/dharmasatrya/ticketsearch/internal/models"
	"github.com/dharmasatrya/ticketsearch/internal/querystate"
)

// Apply narrows tickets to the state's search and filter facets and
// orders them by its sort facet. The input slice is left untouched.
func Apply(tickets []models.Ticket, s querystate.State) []models.Ticket {
	filtered := applyFilters(tickets, s)
	return applySort(filtered, s.Sort)
}

// Paginate cuts one page out of an already filtered list. A page past
// the end yields no items; the meta still reports the real totals.
func Paginate(tickets []models.Ticket, page querystate.PageFacet) ([]models.Ticket, models.PaginationMeta) {
	meta := models.NewPaginationMeta(page.Page, page.PageSize, len(tickets))

	start := (meta.CurrentPage - 1) * meta.ItemsPerPage
	if start >= len(tickets) {
		return []models.Ticket{}, meta
	}
	end := min(start+meta.ItemsPerPage, len(tickets))
	return tickets[start:end], meta
}

func applyFilters(tickets []models.Ticket, s querystate.State) []models.Ticket {
	result := make([]models.Ticket, 0, len(tickets))

	for _, t := range tickets {
		if matchesSearch(t, s.Search) && matchesFilters(t, s.Filter) {
			result = append(result, t)
		}
	}

	return result
}

func matchesSearch(t models.Ticket, search querystate.SearchFacet) bool {
	if q := strings.TrimSpace(search.FreeText); q != "" {
		if !containsFold(t.Title, q) &&
			!containsFold(t.From, q) &&
			!containsFold(t.To, q) &&
			!containsFold(t.OperatorName, q) {
			return false
		}
	}

	if from := strings.TrimSpace(search.From); from != "" && !containsFold(t.From, from) {
		return false
	}
	if to := strings.TrimSpace(search.To); to != "" && !containsFold(t.To, to) {
		return false
	}

	return true
}

func matchesFilters(t models.Ticket, f querystate.FilterFacet) bool {
	if len(f.Types) > 0 && !f.HasType(strings.ToLower(t.TransportType)) {
		return false
	}

	// Bounds are applied independently; an inverted range simply
	// matches nothing.
	if f.MinPrice.Valid && t.Price < f.MinPrice.Value {
		return false
	}
	if f.MaxPrice.Valid && t.Price > f.MaxPrice.Value {
		return false
	}

	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func applySort(tickets []models.Ticket, by querystate.SortFacet) []models.Ticket {
	if len(tickets) == 0 {
		return tickets
	}

	ascending := by.Direction == querystate.Asc

	var less func(a, b models.Ticket) bool
	switch by.Key {
	case querystate.SortPrice:
		less = func(a, b models.Ticket) bool { return a.Price < b.Price }

	case querystate.SortRating:
		less = func(a, b models.Ticket) bool {
			if a.Rating.Average == b.Rating.Average {
				return a.Rating.Count < b.Rating.Count
			}
			return a.Rating.Average < b.Rating.Average
		}

	case querystate.SortDepartureTime:
		less = func(a, b models.Ticket) bool { return a.NextDeparture().Before(b.NextDeparture()) }

	default:
		less = func(a, b models.Ticket) bool { return a.CreatedAt.Before(b.CreatedAt) }
	}

	sort.SliceStable(tickets, func(i, j int) bool {
		if ascending {
			return less(tickets[i], tickets[j])
		}
		return less(tickets[j], tickets[i])
	})

	return tickets
}
