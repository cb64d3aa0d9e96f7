// Package lawid normalizes law identifiers to their canonical form by
// stripping legacy acronym decorations, e.g. "UK_HSWA_ukpga_1974_37" to
// "UK_ukpga_1974_37".
package lawid

import (
	"regexp"
)

// Legacy scrapes decorated law identifiers with an uppercase acronym in one
// of three positions. Acronyms are all-caps runs (optionally with digits);
// type codes are all-lowercase (ukpga, uksi, asp, nisr, ...), which is what
// tells the two apart.
var (
	// UK_HSWA_ukpga_1974_37 -> UK_ukpga_1974_37
	acronymAfterJurisdiction = regexp.MustCompile(`^([A-Z]+)_([A-Z][A-Z0-9]+)_([a-z]+_.+)$`)

	// UK_ukpga_1974_37_HSWA -> UK_ukpga_1974_37
	acronymAfterNumber = regexp.MustCompile(`^([A-Z]+_[a-z]+_\d{4}_\w+?)_([A-Z][A-Z0-9]+)$`)

	// UK_1974_37_HSWA -> UK_1974_37 (no type code at all)
	acronymWithoutTypeCode = regexp.MustCompile(`^([A-Z]+_\d{4}_\w+?)_([A-Z][A-Z0-9]+)$`)
)

// Normalize strips a legacy acronym decoration from a law identifier.
// Identifiers that match none of the known decoration shapes pass through
// unchanged. Idempotent: normalized output never matches a decoration shape
// again.
func Normalize(lawID string) string {
	if match := acronymAfterJurisdiction.FindStringSubmatch(lawID); match != nil {
		return match[1] + "_" + match[3]
	}
	if match := acronymAfterNumber.FindStringSubmatch(lawID); match != nil {
		return match[1]
	}
	if match := acronymWithoutTypeCode.FindStringSubmatch(lawID); match != nil {
		return match[1]
	}
	return lawID
}
