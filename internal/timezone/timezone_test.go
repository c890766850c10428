package timezone

import (
	"testing"
	"time"
)

func TestParseTimeWithOffset(t *testing.T) {
	got, err := ParseTimeWithOffset("2026-11-02T22:30:00+06:00", nil)
	if err != nil {
		t.Fatalf("ParseTimeWithOffset: %v", err)
	}
	if got.UTC().Hour() != 16 || got.UTC().Minute() != 30 {
		t.Errorf("expected 16:30 UTC, got %v", got.UTC())
	}

	local, err := ParseTimeWithOffset("2026-11-02 07:15", nil)
	if err != nil {
		t.Fatalf("ParseTimeWithOffset without offset: %v", err)
	}
	if _, offset := local.Zone(); offset != 6*60*60 {
		t.Errorf("expected Dhaka offset, got %d", offset)
	}

	if _, err := ParseTimeWithOffset("tomorrow", nil); err == nil {
		t.Error("expected error for unparseable time")
	}
}

func TestFormatDeparture(t *testing.T) {
	dep := time.Date(2026, 11, 2, 16, 30, 0, 0, time.UTC)

	if got := FormatDeparture(dep, "Dhaka"); got != "Mon, 02 Nov · 22:30" {
		t.Errorf("Dhaka departure = %q", got)
	}
	if got := FormatDeparture(dep, "Kolkata"); got != "Mon, 02 Nov · 22:00" {
		t.Errorf("Kolkata departure = %q", got)
	}
	if got := FormatDeparture(time.Time{}, "Dhaka"); got != "" {
		t.Errorf("zero time should format empty, got %q", got)
	}
}
