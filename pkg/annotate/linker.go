// Package annotate links annotation rows (amendments, modifications,
// commencement and extent notes) to the canonical sections they affect, and
// synthesizes stable annotation identifiers.
//
// Three linkage mechanisms exist, selected by the row's scrape source:
//
//   - parent: the annotation row's scraped id carries a "__" suffix naming
//     its direct parent content row
//   - changes: content rows list the annotation codes that apply to them;
//     the inverse index (code -> content rows) resolves the link
//   - reference: a standalone annotation source carries direct section
//     references needing only law-id normalization
package annotate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/coolbeans/canonleg/pkg/lawid"
	"github.com/coolbeans/canonleg/pkg/typemap"
	"github.com/coolbeans/canonleg/pkg/types"
)

// Scrape source names that select a linkage mechanism.
const (
	SourceParent    = "parent"
	SourceChanges   = "changes"
	SourceReference = "reference"
)

// parentSuffixSeparator splits a parent-relation row id into parent row id
// and annotation suffix.
const parentSuffixSeparator = "__"

// Linker resolves annotation rows against one law's emitted sections. Build
// one per law per run; never shared across laws.
type Linker struct {
	lawName          string
	sectionIDByRowID map[string]string
	sectionsByCode   map[string][]string
	knownSectionIDs  map[string]bool
}

// NewLinker indexes a law's content rows and their emitted sections.
// contentRows[i] must be the raw row that produced sections[i].
func NewLinker(lawName string, contentRows []types.RawProvisionRecord, sections []*types.CanonicalSection) *Linker {
	linker := &Linker{
		lawName:          lawName,
		sectionIDByRowID: make(map[string]string, len(sections)),
		sectionsByCode:   make(map[string][]string),
		knownSectionIDs:  make(map[string]bool, len(sections)),
	}

	for i, section := range sections {
		linker.knownSectionIDs[section.SectionID] = true
		if rowID := contentRows[i].ID; rowID != "" {
			linker.sectionIDByRowID[rowID] = section.SectionID
		}
		for _, code := range contentRows[i].ChangeCodes() {
			linker.sectionsByCode[code] = append(linker.sectionsByCode[code], section.SectionID)
		}
	}

	return linker
}

// Link resolves every annotation row and returns the finished records with
// synthesized ids. Unresolvable links are flagged on the report and the
// annotation is emitted with empty affected_sections rather than dropped.
func (linker *Linker) Link(annotationRows []types.RawProvisionRecord, report *types.ProcessingReport) []types.AnnotationRecord {
	records := make([]types.AnnotationRecord, 0, len(annotationRows))

	for _, row := range annotationRows {
		code := firstCode(row)
		codeType := linker.codeTypeFor(row, code)

		affected := linker.resolve(row, code)
		if len(affected) == 0 {
			report.Flag(types.ReviewDanglingLink, row.Position,
				fmt.Sprintf("annotation %s (%s) has no resolvable target", code, row.Source))
		}

		records = append(records, types.AnnotationRecord{
			LawName:          linker.lawName,
			Code:             code,
			CodeType:         codeType,
			Text:             row.Text,
			Source:           row.Source,
			AffectedSections: affected,
		})
	}

	assignIDs(linker.lawName, records, annotationRows)
	return records
}

// resolve picks the linkage mechanism for a row and returns the affected
// section ids.
func (linker *Linker) resolve(row types.RawProvisionRecord, code string) []string {
	switch mechanismFor(row) {
	case SourceParent:
		parentID := parentRowID(row.ID)
		if sectionID, ok := linker.sectionIDByRowID[parentID]; ok {
			return []string{sectionID}
		}
		return nil
	case SourceChanges:
		targets := linker.sectionsByCode[code]
		if len(targets) == 0 {
			return nil
		}
		affected := make([]string, len(targets))
		copy(affected, targets)
		return affected
	case SourceReference:
		if normalized, ok := linker.normalizeReference(row.AffectedRef); ok {
			return []string{normalized}
		}
		return nil
	}
	return nil
}

// mechanismFor maps the row's source to a linkage mechanism. Rows without an
// explicit source fall back on whichever mechanism their fields support.
func mechanismFor(row types.RawProvisionRecord) string {
	switch row.Source {
	case SourceParent, SourceChanges, SourceReference:
		return row.Source
	}
	if row.AffectedRef != "" {
		return SourceReference
	}
	if strings.Contains(row.ID, parentSuffixSeparator) {
		return SourceParent
	}
	return SourceChanges
}

// normalizeReference canonicalizes the law half of a direct section
// reference and confirms the section exists in this law's output.
func (linker *Linker) normalizeReference(reference string) (string, bool) {
	separator := strings.Index(reference, ":")
	if separator < 0 {
		// Bare citation: assume this law.
		reference = linker.lawName + ":" + reference
	} else {
		reference = lawid.Normalize(reference[:separator]) + reference[separator:]
	}
	return reference, linker.knownSectionIDs[reference]
}

// codeTypeFor classifies the annotation, preferring the raw record type and
// falling back to the code's leading letter.
func (linker *Linker) codeTypeFor(row types.RawProvisionRecord, code string) types.AnnotationCodeType {
	if codeType := typemap.AnnotationClass(row.RecordType); codeType != types.CodeTypeUnknown {
		return codeType
	}
	return types.CodeTypeForCode(code)
}

// assignIDs synthesizes {law}:{code_type}:{seq} identifiers. seq orders
// annotations within (law, code_type) by (code, source, original row id), so
// it is reproducible across re-runs of the same input.
func assignIDs(lawName string, records []types.AnnotationRecord, rows []types.RawProvisionRecord) {
	indexes := make([]int, len(records))
	for i := range indexes {
		indexes[i] = i
	}

	sort.SliceStable(indexes, func(a, b int) bool {
		left, right := indexes[a], indexes[b]
		if records[left].CodeType != records[right].CodeType {
			return records[left].CodeType < records[right].CodeType
		}
		if records[left].Code != records[right].Code {
			return records[left].Code < records[right].Code
		}
		if records[left].Source != records[right].Source {
			return records[left].Source < records[right].Source
		}
		return rows[left].ID < rows[right].ID
	})

	sequences := make(map[types.AnnotationCodeType]int)
	for _, index := range indexes {
		sequences[records[index].CodeType]++
		records[index].ID = fmt.Sprintf("%s:%s:%d",
			lawName, records[index].CodeType, sequences[records[index].CodeType])
	}
}

// parentRowID strips the annotation suffix from a parent-relation row id.
func parentRowID(rowID string) string {
	separator := strings.LastIndex(rowID, parentSuffixSeparator)
	if separator < 0 {
		return ""
	}
	return rowID[:separator]
}

// firstCode returns the row's own annotation code: the first entry of its
// changes list.
func firstCode(row types.RawProvisionRecord) string {
	codes := row.ChangeCodes()
	if len(codes) == 0 {
		return ""
	}
	return codes[0]
}

// ApplyCounts increments each affected section's annotation counter for
// every linked annotation.
func ApplyCounts(sections []*types.CanonicalSection, annotations []types.AnnotationRecord) {
	byID := make(map[string]*types.CanonicalSection, len(sections))
	for _, section := range sections {
		byID[section.SectionID] = section
	}

	for _, annotation := range annotations {
		for _, sectionID := range annotation.AffectedSections {
			section, ok := byID[sectionID]
			if !ok {
				continue
			}
			switch annotation.CodeType {
			case types.CodeTypeAmendment:
				section.AmendmentCount++
			case types.CodeTypeModification:
				section.ModificationCount++
			case types.CodeTypeCommencement:
				section.CommencementCount++
			case types.CodeTypeExtent:
				section.ExtentNoteCount++
			}
		}
	}
}
