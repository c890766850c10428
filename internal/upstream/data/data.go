// Package data embeds the fixture tickets served by the mock API.
package data

import _ "embed"

//go:embed tickets.json
var Tickets []byte
