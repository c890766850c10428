package models

import (
	"encoding/json"
	"strings"
)

type HistoryRequest struct {
	FreeText string `json:"freeText"`
	From     string `json:"from"`
	To       string `json:"to"`
}

func (r *HistoryRequest) Validate() error {
	r.FreeText = strings.TrimSpace(r.FreeText)
	r.From = strings.TrimSpace(r.From)
	r.To = strings.TrimSpace(r.To)
	if r.FreeText == "" && r.From == "" && r.To == "" {
		return ErrEmptyHistoryEntry
	}
	return nil
}

type QueryMergeRequest struct {
	Facet  string            `json:"facet"`
	Patch  json.RawMessage   `json:"patch"`
	Params map[string]string `json:"params"`
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrEmptyHistoryEntry ValidationError = "at least one of freeText, from or to is required"
	ErrUnknownFacet      ValidationError = "facet must be one of search, filter, sort, page"
)
