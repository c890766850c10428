package timezone

import (
	"strings"
	"time"
)

// Dhaka is Bangladesh Standard Time (UTC+6, no daylight saving).
var Dhaka = time.FixedZone("BST", 6*60*60)

const (
	DepartureLayout = "Mon, 02 Jan · 15:04"
	ClockLayout     = "15:04"
)

var cityZones = map[string]*time.Location{
	"dhaka":       Dhaka,
	"chattogram":  Dhaka,
	"chittagong":  Dhaka,
	"sylhet":      Dhaka,
	"khulna":      Dhaka,
	"rajshahi":    Dhaka,
	"barishal":    Dhaka,
	"rangpur":     Dhaka,
	"cox's bazar": Dhaka,
	"kolkata":     time.FixedZone("IST", 5*60*60+30*60),
	"kathmandu":   time.FixedZone("NPT", 5*60*60+45*60),
	"bangkok":     time.FixedZone("ICT", 7*60*60),
	"singapore":   time.FixedZone("SGT", 8*60*60),
	"dubai":       time.FixedZone("GST", 4*60*60),
}

// LocationByCity resolves the zone of a departure city, falling back to
// Dhaka for anything not in the table.
func LocationByCity(city string) *time.Location {
	if loc, ok := cityZones[strings.ToLower(strings.TrimSpace(city))]; ok {
		return loc
	}
	return Dhaka
}

func ParseTimeWithOffset(timeStr string, loc *time.Location) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05-0700",
		"2006-01-02T15:04:05Z",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, timeStr); err == nil {
			return t, nil
		}
	}

	if loc == nil {
		loc = Dhaka
	}
	simpleFormats := []string{
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	}
	for _, format := range simpleFormats {
		if t, err := time.ParseInLocation(format, timeStr, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &time.ParseError{
		Value:   timeStr,
		Message: "unable to parse time string",
	}
}

// FormatDeparture renders t in the departure city's local time. The
// zero time renders as an empty string.
func FormatDeparture(t time.Time, city string) string {
	if t.IsZero() {
		return ""
	}
	return t.In(LocationByCity(city)).Format(DepartureLayout)
}
