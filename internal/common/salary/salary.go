// Package salary turns free-text salary strings into a monthly figure in
// thousands of currency units.
package salary

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	// RawUnitThreshold is the average above which a figure is assumed to be
	// quoted in currency units rather than thousands.
	RawUnitThreshold = 500.0
	// MaxValidSalary is the largest plausible monthly salary in thousands.
	MaxValidSalary = 200.0
)

// Text following this separator describes bonuses, e.g. "15k-25k·13薪".
const extrasSeparator = "·"

// Markers for day rates, negotiable pay and annual packages.
var exclusionMarkers = []string{"天", "面议", "年薪"}

var (
	disallowed    = regexp.MustCompile(`[^0-9a-zA-Z\-~.]`)
	rangePattern  = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*k?\s*[-~]\s*(\d+(?:\.\d+)?)\s*k?`)
	singlePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)k?`)
)

// Parse returns the canonical monthly salary in thousands, or 0 when the
// text is blank, uses an incompatible unit or cannot be read.
func Parse(raw string) float64 {
	if strings.TrimSpace(raw) == "" {
		return 0
	}
	for _, marker := range exclusionMarkers {
		if strings.Contains(raw, marker) {
			return 0
		}
	}

	text, _, _ := strings.Cut(raw, extrasSeparator)
	text = strings.ToLower(disallowed.ReplaceAllString(text, ""))

	low, high, ok := bounds(text)
	if !ok || low <= 0 || high <= 0 {
		return 0
	}

	avg := (low + high) / 2
	if avg > RawUnitThreshold {
		avg /= 1000
	}
	if avg > MaxValidSalary {
		return 0
	}
	return avg
}

func bounds(text string) (float64, float64, bool) {
	if m := rangePattern.FindStringSubmatch(text); m != nil {
		low, err1 := strconv.ParseFloat(m[1], 64)
		high, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return low, high, true
	}

	// RE2 has no lookahead, so check the character after each candidate and
	// back off to a shorter reading (no unit, then no fraction) when it is
	// alphanumeric.
	for _, loc := range singlePattern.FindAllStringSubmatchIndex(text, -1) {
		ends := []int{loc[1], loc[3]}
		if dot := strings.IndexByte(text[loc[2]:loc[3]], '.'); dot >= 0 {
			ends = append(ends, loc[2]+dot)
		}
		for _, end := range ends {
			if end < len(text) && isAlnum(text[end]) {
				continue
			}
			v, err := strconv.ParseFloat(text[loc[2]:min(end, loc[3])], 64)
			if err != nil {
				return 0, 0, false
			}
			return v, v, true
		}
	}
	return 0, 0, false
}

func isAlnum(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z')
}
