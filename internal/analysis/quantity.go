package analysis

import (
	"strconv"
	"strings"
)

// ParseQuantity reads the leading integer of s: optional sign followed by
// digits, after trimming. "3.5" is 3 and "12 pcs" is 12. Empty, non-numeric
// or out-of-range input yields 0.
func ParseQuantity(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
