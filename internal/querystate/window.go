package querystate

import "strconv"

const DefaultMaxVisible = 7

// PageSlot is one entry of a pagination bar: a page number or a gap.
type PageSlot struct {
	Page int  `json:"page,omitempty"`
	Gap  bool `json:"ellipsis,omitempty"`
}

func (s PageSlot) IsGap() bool {
	return s.Gap
}

func (s PageSlot) String() string {
	if s.IsGap() {
		return "…"
	}
	return strconv.Itoa(s.Page)
}

// Ellipsis is the gap marker in a page window.
var Ellipsis = PageSlot{Gap: true}

// ComputePageWindow lists the page buttons to show. When total fits in
// maxVisible every page is listed; otherwise the first and last pages,
// the current page with its neighbours, and an ellipsis for each gap.
// The windowed form never needs more than seven slots. A total below 1
// yields no slots.
func ComputePageWindow(current, total, maxVisible int) []PageSlot {
	if total < 1 {
		return nil
	}
	if maxVisible < 1 {
		maxVisible = DefaultMaxVisible
	}
	current = ClampPage(current, total)

	if total <= maxVisible {
		slots := make([]PageSlot, 0, total)
		for i := 1; i <= total; i++ {
			slots = append(slots, PageSlot{Page: i})
		}
		return slots
	}

	slots := make([]PageSlot, 0, 7)
	slots = append(slots, PageSlot{Page: 1})
	if current > 3 {
		slots = append(slots, Ellipsis)
	}
	for i := max(2, current-1); i <= min(total-1, current+1); i++ {
		slots = append(slots, PageSlot{Page: i})
	}
	if current < total-2 {
		slots = append(slots, Ellipsis)
	}
	slots = append(slots, PageSlot{Page: total})
	return slots
}

// ClampPage pulls a requested page into [1, totalPages]. With no pages
// known the result is 1.
func ClampPage(requested, totalPages int) int {
	if requested > totalPages {
		requested = totalPages
	}
	if requested < 1 {
		requested = 1
	}
	return requested
}

// TotalPages is the number of pages totalItems spans at pageSize.
func TotalPages(totalItems, pageSize int) int {
	if pageSize < 1 || totalItems < 1 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}
