// Package extent maps free-text territorial extent descriptions to compact
// extent codes, e.g. "England and Wales" to "E+W".
package extent

import (
	"strings"
)

// Canonical component ordering for compound codes.
var componentOrder = []string{"E", "W", "S", "NI"}

// componentTable maps a single territory name to its code.
var componentTable = map[string]string{
	"england":          "E",
	"wales":            "W",
	"scotland":         "S",
	"northern ireland": "NI",
}

// phraseTable maps whole-phrase extents that are not simple component lists.
var phraseTable = map[string]string{
	"united kingdom": "E+W+S+NI",
	"uk":             "E+W+S+NI",
	"great britain":  "E+W+S",
	"gb":             "E+W+S",
	"e+w+s+ni":       "E+W+S+NI",
	"e+w+s":          "E+W+S",
	"e+w":            "E+W",
	"e":              "E",
	"w":              "W",
	"s":              "S",
	"ni":             "NI",
}

// Map converts a free-text extent to its compact code. Unmapped extents pass
// through unchanged with ok=false so the caller can flag them for review;
// mapping never hard-fails.
func Map(region string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(region))
	if normalized == "" {
		return "", true
	}
	if code, ok := phraseTable[normalized]; ok {
		return code, true
	}
	if code, ok := mapComponentList(normalized); ok {
		return code, true
	}
	return region, false
}

// mapComponentList handles comma/"and"-joined territory lists such as
// "England, Wales and Scotland".
func mapComponentList(normalized string) (string, bool) {
	replaced := strings.ReplaceAll(normalized, " and ", ",")
	parts := strings.Split(replaced, ",")

	seen := make(map[string]bool)
	for _, part := range parts {
		territory := strings.TrimSpace(part)
		if territory == "" {
			continue
		}
		code, ok := componentTable[territory]
		if !ok {
			return "", false
		}
		seen[code] = true
	}
	if len(seen) == 0 {
		return "", false
	}

	ordered := make([]string, 0, len(seen))
	for _, code := range componentOrder {
		if seen[code] {
			ordered = append(ordered, code)
		}
	}
	return strings.Join(ordered, "+"), true
}
