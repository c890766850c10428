// Package querystate holds the list-query state of a ticket listing:
// search text, filters, sort and pagination. Every function here is
// pure; the stateful controller lives in package browse.
package querystate

import (
	"slices"
	"strings"
)

type SortKey string

const (
	SortCreatedAt     SortKey = "createdAt"
	SortPrice         SortKey = "price"
	SortRating        SortKey = "rating"
	SortDepartureTime SortKey = "departureTime"
)

var SortKeys = []SortKey{SortCreatedAt, SortPrice, SortRating, SortDepartureTime}

func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys, k)
}

// NaturalDirection is the direction a key starts in when a sort control
// switches to it: cheapest and soonest first, newest and best rated first.
func (k SortKey) NaturalDirection() SortDirection {
	switch k {
	case SortPrice, SortDepartureTime:
		return Asc
	default:
		return Desc
	}
}

type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

func (d SortDirection) Valid() bool {
	return d == Asc || d == Desc
}

func (d SortDirection) Flip() SortDirection {
	if d == Asc {
		return Desc
	}
	return Asc
}

const (
	DefaultSortKey       = SortCreatedAt
	DefaultSortDirection = Desc
	DefaultPageSize      = 12
)

// PageSizes is the fixed set of page sizes a listing may use.
var PageSizes = []int{6, 12, 24, 48}

func ValidPageSize(n int) bool {
	return slices.Contains(PageSizes, n)
}

type SearchFacet struct {
	FreeText string `json:"freeText"`
	From     string `json:"from"`
	To       string `json:"to"`
}

func (s SearchFacet) IsZero() bool {
	return s == SearchFacet{}
}

// Bound is an optional non-negative price bound.
type Bound struct {
	Value float64
	Valid bool
}

func PriceBound(v float64) Bound {
	return Bound{Value: v, Valid: true}
}

// FilterFacet selects transport types and a price range. Types is kept
// sorted and free of duplicates so two facets selecting the same set
// compare equal. MinPrice <= MaxPrice is not enforced.
type FilterFacet struct {
	Types    []string
	MinPrice Bound
	MaxPrice Bound
}

func (f FilterFacet) Equal(o FilterFacet) bool {
	return f.MinPrice == o.MinPrice && f.MaxPrice == o.MaxPrice && slices.Equal(f.Types, o.Types)
}

func (f FilterFacet) HasType(t string) bool {
	_, found := slices.BinarySearch(f.Types, t)
	return found
}

func (f FilterFacet) IsZero() bool {
	return len(f.Types) == 0 && !f.MinPrice.Valid && !f.MaxPrice.Valid
}

type SortFacet struct {
	Key       SortKey
	Direction SortDirection
}

type PageFacet struct {
	Page     int
	PageSize int
}

// State is the whole query of one listing view. Values are treated as
// immutable: operations return a new State and leave facets they do not
// touch as they were, sharing the same Types backing array.
type State struct {
	Search SearchFacet
	Filter FilterFacet
	Sort   SortFacet
	Page   PageFacet
}

func Default() State {
	return State{
		Sort: SortFacet{Key: DefaultSortKey, Direction: DefaultSortDirection},
		Page: PageFacet{Page: 1, PageSize: DefaultPageSize},
	}
}

func (s State) Equal(o State) bool {
	return s.Search == o.Search && s.Filter.Equal(o.Filter) && s.Sort == o.Sort && s.Page == o.Page
}

// HasCriteria reports whether any search or filter value is set, which
// is what an empty result set offers to clear.
func (s State) HasCriteria() bool {
	return !s.Search.IsZero() || !s.Filter.IsZero()
}

// normalizeTypes splits on commas, lower-cases, sorts and de-duplicates
// a type list. A nil result means no types are selected.
func normalizeTypes(types []string) []string {
	var out []string
	for _, raw := range types {
		for _, t := range strings.Split(raw, ",") {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	slices.Sort(out)
	return slices.Compact(out)
}
