// Package parallel handles the law-wide second pass over built citations:
// detecting parallel territorial provisions that need an extent qualifier,
// and position-disambiguating any citation that still collides afterwards.
package parallel

import (
	"fmt"
	"sort"

	"github.com/coolbeans/canonleg/pkg/types"
)

// DetectSets groups a law's sections by bare provision number and returns
// every group carrying two or more distinct territorial extents. Groups with
// a single extent stay unqualified, so the common case is untouched.
func DetectSets(lawName string, sections []*types.CanonicalSection) []types.ParallelProvisionSet {
	extentsByProvision := make(map[string]map[string]bool)
	for _, section := range sections {
		if section.Provision == "" || section.ExtentCode == "" {
			continue
		}
		if extentsByProvision[section.Provision] == nil {
			extentsByProvision[section.Provision] = make(map[string]bool)
		}
		extentsByProvision[section.Provision][section.ExtentCode] = true
	}

	var sets []types.ParallelProvisionSet
	for provision, extentSet := range extentsByProvision {
		if len(extentSet) < 2 {
			continue
		}
		extentCodes := make([]string, 0, len(extentSet))
		for extentCode := range extentSet {
			extentCodes = append(extentCodes, extentCode)
		}
		sort.Strings(extentCodes)
		sets = append(sets, types.ParallelProvisionSet{
			LawName:     lawName,
			Provision:   provision,
			ExtentCodes: extentCodes,
		})
	}

	sort.Slice(sets, func(i, j int) bool { return sets[i].Provision < sets[j].Provision })
	return sets
}

// ApplyQualifiers appends "[extent]" to the citation of every member of a
// parallel set. citations[i] belongs to sections[i]; citations are updated
// in place. Returns the indexes of the citations qualified so the caller can
// extend their sort keys to match.
func ApplyQualifiers(sections []*types.CanonicalSection, citations []string, sets []types.ParallelProvisionSet) []int {
	if len(sets) == 0 {
		return nil
	}

	qualified := make(map[string]bool, len(sets))
	for _, set := range sets {
		qualified[set.Provision] = true
	}

	var modified []int
	for i, section := range sections {
		if section.ExtentCode == "" || !qualified[section.Provision] {
			continue
		}
		citations[i] = citations[i] + "[" + section.ExtentCode + "]"
		modified = append(modified, i)
	}
	return modified
}

// Disambiguate appends "#{position}" to every section_id that occurs more
// than once within the law. The position is the raw scrape ordinal, so the
// result is stable across re-runs of the same input. Returns the indexes of
// the sections modified; frequent use indicates a citation-scheme gap to fix
// upstream.
func Disambiguate(sections []*types.CanonicalSection) []int {
	occurrences := make(map[string]int, len(sections))
	for _, section := range sections {
		occurrences[section.SectionID]++
	}

	var modified []int
	for i, section := range sections {
		if occurrences[section.SectionID] > 1 {
			section.SectionID = fmt.Sprintf("%s#%d", section.SectionID, section.Position)
			modified = append(modified, i)
		}
	}
	return modified
}

// VerifyUnique checks the identity invariant after disambiguation. A
// remaining duplicate means two rows shared both citation and scrape
// ordinal, a logic defect the caller must treat as fatal for the law.
func VerifyUnique(sections []*types.CanonicalSection) error {
	seen := make(map[string]int, len(sections))
	for _, section := range sections {
		if previous, dup := seen[section.SectionID]; dup {
			return fmt.Errorf("duplicate section_id %q at positions %d and %d",
				section.SectionID, previous, section.Position)
		}
		seen[section.SectionID] = section.Position
	}
	return nil
}
