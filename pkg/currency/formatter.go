package currency

import (
	"fmt"
	"math"
)

const BDTSymbol = "৳"

// FormatBDT renders a fare with the taka sign and South Asian digit
// grouping: the last three digits, then groups of two (1,25,000).
func FormatBDT(amount float64) string {
	rounded := math.Round(amount)

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	intStr := fmt.Sprintf("%.0f", rounded)
	formatted := groupLakh(intStr, ',')

	result := BDTSymbol + " " + formatted
	if negative {
		result = "-" + result
	}

	return result
}

func groupLakh(s string, sep byte) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	head, tail := s[:n-3], s[n-3:]
	result := make([]byte, 0, n+n/2)

	// Leading group is one or two digits so the rest split evenly in pairs.
	first := len(head) % 2
	if first == 0 {
		first = 2
	}
	result = append(result, head[:first]...)
	for i := first; i < len(head); i += 2 {
		result = append(result, sep)
		result = append(result, head[i:i+2]...)
	}
	result = append(result, sep)
	result = append(result, tail...)

	return string(result)
}
