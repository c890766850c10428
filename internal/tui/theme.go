package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dharmasatrya/ticketsearch/internal/transport"
)

// Theme is the browser's color palette, in ANSI 256-color codes.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	HeaderForeground lipgloss.Color
	AddressBar       lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	Price      lipgloss.Color
	SoldOut    lipgloss.Color
	ActivePage lipgloss.Color

	ErrorForeground lipgloss.Color
	ErrorBackground lipgloss.Color
}

// TransportColor is the accent of a transport type chip.
func (theme Theme) TransportColor(code string) lipgloss.Color {
	return lipgloss.Color(transport.Lookup(code).Color)
}

var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	HeaderForeground: lipgloss.Color("255"),
	AddressBar:       lipgloss.Color("75"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	Price:      lipgloss.Color("114"),
	SoldOut:    lipgloss.Color("196"),
	ActivePage: lipgloss.Color("220"),

	ErrorForeground: lipgloss.Color("255"),
	ErrorBackground: lipgloss.Color("52"),
}
