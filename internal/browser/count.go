package browser

import (
	"strconv"
	"strings"
)

var countMultipliers = map[byte]float64{
	'K': 1_000,
	'M': 1_000_000,
	'B': 1_000_000_000,
}

// ParseCompactCount converts a human readable magnitude ("12.3K", "1M",
// "662") into an integer. Empty or unparseable text yields zero.
func ParseCompactCount(s string) int {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0
	}

	if mult, ok := countMultipliers[s[len(s)-1]]; ok {
		number, err := strconv.ParseFloat(s[:len(s)-1], 64)
		if err != nil {
			return 0
		}
		return int(number * mult)
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
