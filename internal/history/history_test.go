package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func entry(text string, at time.Time) Entry {
	return Entry{FreeText: text, From: "Dhaka", Timestamp: at}
}

func TestRecordCapsAtFive(t *testing.T) {
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	var log []Entry
	for i := 0; i < 6; i++ {
		log = Record(entry(fmt.Sprintf("q%d", i), base.Add(time.Duration(i)*time.Minute)), log)
	}

	if len(log) != MaxEntries {
		t.Fatalf("expected %d entries, got %d", MaxEntries, len(log))
	}
	if log[0].FreeText != "q5" {
		t.Errorf("most recent should be first, got %q", log[0].FreeText)
	}
	for _, e := range log {
		if e.FreeText == "q0" {
			t.Error("oldest entry q0 should have been evicted")
		}
	}
}

func TestRecordMovesDuplicateToFront(t *testing.T) {
	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	var log []Entry
	for i := 0; i < 3; i++ {
		log = Record(entry(fmt.Sprintf("q%d", i), base), log)
	}

	again := entry("q0", base.Add(time.Hour))
	log = Record(again, log)

	if len(log) != 3 {
		t.Fatalf("duplicate should not grow the list, got %d entries", len(log))
	}
	if log[0] != again {
		t.Errorf("duplicate should move to the front with its new timestamp, got %+v", log[0])
	}
	for _, e := range log[1:] {
		if e.SameSearch(again) {
			t.Errorf("stale duplicate left behind: %+v", e)
		}
	}
}

func TestRecordDistinguishesRoute(t *testing.T) {
	log := Record(Entry{FreeText: "ac", From: "Dhaka", To: "Sylhet"}, nil)
	log = Record(Entry{FreeText: "ac", From: "Dhaka", To: "Khulna"}, log)
	if len(log) != 2 {
		t.Fatalf("different routes are different searches, got %d entries", len(log))
	}
}

func TestRecordDoesNotMutateInput(t *testing.T) {
	log := []Entry{{FreeText: "a"}, {FreeText: "b"}}
	_ = Record(Entry{FreeText: "c"}, log)
	if log[0].FreeText != "a" || log[1].FreeText != "b" {
		t.Errorf("input slice modified: %+v", log)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	store := NewFileStore(filepath.Join(t.TempDir(), "nested", "history.json"))

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load on missing file: %v", err)
	}
	if len(loaded) != 0 {
		t.Fatalf("expected empty history, got %v", loaded)
	}

	want := Record(Entry{From: "Dhaka", To: "Chattogram", Timestamp: time.Unix(1700000000, 0).UTC()}, nil)
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || !got[0].SameSearch(want[0]) || !got[0].Timestamp.Equal(want[0].Timestamp) {
		t.Errorf("loaded %+v, want %+v", got, want)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		entry Entry
		want  string
	}{
		{Entry{FreeText: "sleeper", From: "Dhaka", To: "Sylhet"}, "“sleeper” Dhaka → Sylhet"},
		{Entry{From: "Khulna"}, "from Khulna"},
		{Entry{To: "Barishal"}, "to Barishal"},
	}
	for _, tt := range tests {
		if got := tt.entry.Label(); got != tt.want {
			t.Errorf("Label() = %q, want %q", got, tt.want)
		}
	}
}

func TestMemorySessionsIsolated(t *testing.T) {
	ctx := context.Background()
	sessions := NewMemorySessions()
	at := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	if err := sessions.ForSession("a").Save(ctx, []Entry{entry("launch", at)}); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := sessions.ForSession("a").Load(ctx)
	if err != nil || len(got) != 1 || got[0].FreeText != "launch" {
		t.Fatalf("session a should keep its log, got %v (%v)", got, err)
	}
	other, err := sessions.ForSession("b").Load(ctx)
	if err != nil || len(other) != 0 {
		t.Errorf("session b should start empty, got %v (%v)", other, err)
	}
}
