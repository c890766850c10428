// Package transport is the closed set of transport types a ticket can
// have, with the display metadata each one renders with.
package transport

import "strings"

type Type string

const (
	Bus    Type = "bus"
	Train  Type = "train"
	Flight Type = "flight"
	Launch Type = "launch"
	Ferry  Type = "ferry"
)

// All lists every transport type in display order.
var All = []Type{Bus, Train, Flight, Launch, Ferry}

type Meta struct {
	Type  Type   `json:"type"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
	// Color is an ANSI 256-color code, usable by lipgloss and as a CSS
	// class suffix.
	Color string `json:"color"`
}

var table = map[Type]Meta{
	Bus:    {Type: Bus, Label: "Bus", Icon: "🚌", Color: "214"},
	Train:  {Type: Train, Label: "Train", Icon: "🚆", Color: "39"},
	Flight: {Type: Flight, Label: "Flight", Icon: "✈", Color: "141"},
	Launch: {Type: Launch, Label: "Launch", Icon: "🛥", Color: "44"},
	Ferry:  {Type: Ferry, Label: "Ferry", Icon: "⛴", Color: "75"},
}

// Unknown is returned by Lookup for codes outside All.
var Unknown = Meta{Type: "", Label: "Other", Icon: "🎫", Color: "245"}

func Parse(code string) (Type, bool) {
	t := Type(strings.ToLower(strings.TrimSpace(code)))
	_, ok := table[t]
	return t, ok
}

func Valid(code string) bool {
	_, ok := Parse(code)
	return ok
}

func Lookup(code string) Meta {
	t, ok := Parse(code)
	if !ok {
		return Unknown
	}
	return table[t]
}

func (t Type) Meta() Meta {
	return Lookup(string(t))
}
