package querystate

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	ParamSearch    = "search"
	ParamFrom      = "from"
	ParamTo        = "to"
	ParamType      = "type"
	ParamMinPrice  = "minPrice"
	ParamMaxPrice  = "maxPrice"
	ParamSortBy    = "sortBy"
	ParamSortOrder = "sortOrder"
	ParamPage      = "page"
	ParamPageSize  = "pageSize"
)

// Params is the flat key-value projection of a State, used both for the
// address bar and for the outbound tickets query.
type Params map[string]string

// Encode renders the params as a URL query string with keys sorted.
func (p Params) Encode() string {
	return p.Values().Encode()
}

func (p Params) Values() url.Values {
	v := make(url.Values, len(p))
	for k, val := range p {
		v.Set(k, val)
	}
	return v
}

func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ParamsFromValues flattens url.Values, keeping the first value of each
// key.
func ParamsFromValues(v url.Values) Params {
	p := make(Params, len(v))
	for k, vals := range v {
		if len(vals) > 0 {
			p[k] = vals[0]
		}
	}
	return p
}

// ParseQuery reads a raw query string, with or without the leading '?'.
// Undecodable input yields whatever pairs could be read.
func ParseQuery(raw string) Params {
	v, _ := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	return ParamsFromValues(v)
}

// ToQueryParams keeps only meaningful values: non-empty strings, a
// non-empty type set and sort/page values that differ from the
// defaults. The default State therefore projects to an empty map.
func ToQueryParams(s State) Params {
	p := Params{}
	if s.Search.FreeText != "" {
		p[ParamSearch] = s.Search.FreeText
	}
	if s.Search.From != "" {
		p[ParamFrom] = s.Search.From
	}
	if s.Search.To != "" {
		p[ParamTo] = s.Search.To
	}
	if len(s.Filter.Types) > 0 {
		p[ParamType] = strings.Join(s.Filter.Types, ",")
	}
	if s.Filter.MinPrice.Valid {
		p[ParamMinPrice] = formatPrice(s.Filter.MinPrice.Value)
	}
	if s.Filter.MaxPrice.Valid {
		p[ParamMaxPrice] = formatPrice(s.Filter.MaxPrice.Value)
	}
	if s.Sort.Key != DefaultSortKey {
		p[ParamSortBy] = string(s.Sort.Key)
	}
	if s.Sort.Direction != DefaultSortDirection {
		p[ParamSortOrder] = string(s.Sort.Direction)
	}
	if s.Page.Page > 1 {
		p[ParamPage] = strconv.Itoa(s.Page.Page)
	}
	if s.Page.PageSize != DefaultPageSize {
		p[ParamPageSize] = strconv.Itoa(s.Page.PageSize)
	}
	return p
}

// FromQueryParams restores a State. Absent keys take their defaults;
// values that do not parse fall back the same way: a bad price is
// unset, a bad page is 1, an unknown sort key or order is the default,
// and a page size outside PageSizes is DefaultPageSize.
func FromQueryParams(p Params) State {
	s := Default()

	s.Search = SearchFacet{
		FreeText: p[ParamSearch],
		From:     p[ParamFrom],
		To:       p[ParamTo],
	}

	if raw, ok := p[ParamType]; ok {
		s.Filter.Types = normalizeTypes([]string{raw})
	}
	s.Filter.MinPrice = parsePrice(p[ParamMinPrice])
	s.Filter.MaxPrice = parsePrice(p[ParamMaxPrice])

	if key := SortKey(p[ParamSortBy]); key.Valid() {
		s.Sort.Key = key
	}
	if dir := SortDirection(strings.ToLower(p[ParamSortOrder])); dir.Valid() {
		s.Sort.Direction = dir
	}

	if page, err := strconv.Atoi(p[ParamPage]); err == nil && page > 1 {
		s.Page.Page = page
	}
	if size, err := strconv.Atoi(p[ParamPageSize]); err == nil && ValidPageSize(size) {
		s.Page.PageSize = size
	}

	return s
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parsePrice(raw string) Bound {
	if raw == "" {
		return Bound{}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Bound{}
	}
	return coerceBound(PriceBound(v))
}
