package querystate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// DecodePatch builds a typed patch from a JSON object sent by a browser
// control. Unknown keys and values of the wrong shape are ignored; for
// price bounds an explicit null clears the bound. Only an unknown facet
// or a body that is not a JSON object is an error.
func DecodePatch(kind FacetKind, raw []byte) (Patch, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown facet %q", kind)
	}

	fields := map[string]json.RawMessage{}
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("decode %s patch: %w", kind, err)
		}
	}

	switch kind {
	case FacetSearch:
		return SearchPatch{
			FreeText: stringField(fields, "freeText"),
			From:     stringField(fields, "from"),
			To:       stringField(fields, "to"),
		}, nil
	case FacetFilter:
		return FilterPatch{
			Types:    typesField(fields, "types"),
			MinPrice: boundField(fields, "minPrice"),
			MaxPrice: boundField(fields, "maxPrice"),
		}, nil
	case FacetSort:
		var p SortPatch
		if s := stringField(fields, "key"); s != nil {
			p.Key = Ptr(SortKey(*s))
		}
		if s := stringField(fields, "direction"); s != nil {
			p.Direction = Ptr(SortDirection(strings.ToLower(*s)))
		}
		return p, nil
	default:
		return PagePatch{
			Page:     intField(fields, "page"),
			PageSize: intField(fields, "pageSize"),
		}, nil
	}
}

func stringField(fields map[string]json.RawMessage, name string) *string {
	raw, ok := fields[name]
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

func typesField(fields map[string]json.RawMessage, name string) []string {
	raw, ok := fields[name]
	if !ok {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if list == nil {
			list = []string{}
		}
		return list
	}
	var joined string
	if err := json.Unmarshal(raw, &joined); err == nil {
		return []string{joined}
	}
	return nil
}

func boundField(fields map[string]json.RawMessage, name string) *Bound {
	raw, ok := fields[name]
	if !ok {
		return nil
	}
	if string(raw) == "null" {
		return &Bound{}
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return Ptr(PriceBound(v))
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return &Bound{}
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return Ptr(PriceBound(v))
		}
	}
	return nil
}

func intField(fields map[string]json.RawMessage, name string) *int {
	raw, ok := fields[name]
	if !ok {
		return nil
	}
	var v int
	if err := json.Unmarshal(raw, &v); err == nil {
		return &v
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return &v
		}
	}
	return nil
}
