// Package history keeps the short list of recent searches offered under
// the search box.
package history

import (
	"strings"
	"time"
)

const MaxEntries = 5

type Entry struct {
	FreeText  string    `json:"freeText"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}

// SameSearch compares the search fields only; timestamps are ignored.
func (e Entry) SameSearch(o Entry) bool {
	return e.FreeText == o.FreeText && e.From == o.From && e.To == o.To
}

func (e Entry) Empty() bool {
	return e.FreeText == "" && e.From == "" && e.To == ""
}

// Label is the one-line form shown in a history list.
func (e Entry) Label() string {
	var parts []string
	if e.FreeText != "" {
		parts = append(parts, "“"+e.FreeText+"”")
	}
	switch {
	case e.From != "" && e.To != "":
		parts = append(parts, e.From+" → "+e.To)
	case e.From != "":
		parts = append(parts, "from "+e.From)
	case e.To != "":
		parts = append(parts, "to "+e.To)
	}
	return strings.Join(parts, " ")
}

// Record puts entry at the front of the log, drops any older entry for
// the same search and keeps the MaxEntries most recent. The input slice
// is not modified.
func Record(entry Entry, log []Entry) []Entry {
	out := make([]Entry, 0, MaxEntries)
	out = append(out, entry)
	for _, e := range log {
		if len(out) == MaxEntries {
			break
		}
		if e.SameSearch(entry) {
			continue
		}
		out = append(out, e)
	}
	return out
}
