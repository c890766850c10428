package querystate

import (
	"math"
	"strings"
)

type FacetKind string

const (
	FacetSearch FacetKind = "search"
	FacetFilter FacetKind = "filter"
	FacetSort   FacetKind = "sort"
	FacetPage   FacetKind = "page"
)

func (k FacetKind) Valid() bool {
	switch k {
	case FacetSearch, FacetFilter, FacetSort, FacetPage:
		return true
	}
	return false
}

// Patch is a partial update to exactly one facet. Nil fields leave the
// current value alone.
type Patch interface {
	Facet() FacetKind
}

type SearchPatch struct {
	FreeText *string
	From     *string
	To       *string
}

func (SearchPatch) Facet() FacetKind { return FacetSearch }

// FilterPatch replaces the type set when Types is non-nil (an empty,
// non-nil slice clears it). A non-nil bound pointer replaces that bound;
// pass an invalid Bound to clear it.
type FilterPatch struct {
	Types    []string
	MinPrice *Bound
	MaxPrice *Bound
}

func (FilterPatch) Facet() FacetKind { return FacetFilter }

type SortPatch struct {
	Key       *SortKey
	Direction *SortDirection
}

func (SortPatch) Facet() FacetKind { return FacetSort }

type PagePatch struct {
	Page     *int
	PageSize *int
}

func (PagePatch) Facet() FacetKind { return FacetPage }

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}

// Merge folds a patch into its facet. Any change to search, filter or
// sort moves the listing back to page 1. Values that fail coercion
// (unknown sort key, negative price, page size outside PageSizes) are
// dropped rather than rejected.
func Merge(s State, p Patch) State {
	switch patch := p.(type) {
	case SearchPatch:
		s.Search = mergeSearch(s.Search, patch)
	case *SearchPatch:
		s.Search = mergeSearch(s.Search, *patch)
	case FilterPatch:
		s.Filter = mergeFilter(s.Filter, patch)
	case *FilterPatch:
		s.Filter = mergeFilter(s.Filter, *patch)
	case SortPatch:
		s.Sort = mergeSort(s.Sort, patch)
	case *SortPatch:
		s.Sort = mergeSort(s.Sort, *patch)
	case PagePatch:
		s.Page = mergePage(s.Page, patch)
		return s
	case *PagePatch:
		s.Page = mergePage(s.Page, *patch)
		return s
	default:
		return s
	}
	s.Page.Page = 1
	return s
}

func mergeSearch(cur SearchFacet, p SearchPatch) SearchFacet {
	if p.FreeText != nil {
		cur.FreeText = *p.FreeText
	}
	if p.From != nil {
		cur.From = *p.From
	}
	if p.To != nil {
		cur.To = *p.To
	}
	return cur
}

func mergeFilter(cur FilterFacet, p FilterPatch) FilterFacet {
	if p.Types != nil {
		cur.Types = normalizeTypes(p.Types)
	}
	if p.MinPrice != nil {
		cur.MinPrice = coerceBound(*p.MinPrice)
	}
	if p.MaxPrice != nil {
		cur.MaxPrice = coerceBound(*p.MaxPrice)
	}
	return cur
}

func mergeSort(cur SortFacet, p SortPatch) SortFacet {
	if p.Key != nil && p.Key.Valid() {
		cur.Key = *p.Key
	}
	if p.Direction != nil && p.Direction.Valid() {
		cur.Direction = *p.Direction
	}
	return cur
}

func mergePage(cur PageFacet, p PagePatch) PageFacet {
	if p.Page != nil {
		cur.Page = max(*p.Page, 1)
	}
	if p.PageSize != nil && ValidPageSize(*p.PageSize) {
		cur.PageSize = *p.PageSize
	}
	return cur
}

func coerceBound(b Bound) Bound {
	if !b.Valid || b.Value < 0 || math.IsNaN(b.Value) || math.IsInf(b.Value, 0) {
		return Bound{}
	}
	return b
}

// ToggleSort is what a sort button does: pressing the active key flips
// its direction, pressing another key switches to it in its natural
// direction.
func ToggleSort(s State, key SortKey) State {
	if !key.Valid() {
		return s
	}
	dir := key.NaturalDirection()
	if s.Sort.Key == key {
		dir = s.Sort.Direction.Flip()
	}
	return Merge(s, SortPatch{Key: &key, Direction: &dir})
}

// ToggleType adds the type to the filter set, or removes it when it is
// already selected.
func ToggleType(s State, t string) State {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" {
		return s
	}
	next := make([]string, 0, len(s.Filter.Types)+1)
	removed := false
	for _, cur := range s.Filter.Types {
		if cur == t {
			removed = true
			continue
		}
		next = append(next, cur)
	}
	if !removed {
		next = append(next, t)
	}
	return Merge(s, FilterPatch{Types: next})
}
