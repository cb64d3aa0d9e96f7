package cite

import (
	"fmt"

	"github.com/coolbeans/canonleg/pkg/types"
)

// Citation is one built structural citation, before law-wide qualification
// and disambiguation.
type Citation struct {
	// Value is the citation string, e.g. "s.25A(1)" or "sch.2.para.4".
	Value string

	// Numbering is the bare alphanumeric numbering the sort key encodes,
	// e.g. "25A". Empty for position-based citations.
	Numbering string

	// UsedPosition is set when the citation had to fall back to the row's
	// scrape ordinal because the type carries no natural number.
	UsedPosition bool

	// MissingNumber is set when a numbered type lacked every numbering
	// field; the row proceeds with a position citation but should be
	// flagged for review.
	MissingNumber bool
}

// Build constructs the citation for one classified row. lawName must already
// be canonical; it selects regulation-class article prefixes.
func Build(table *PrefixTable, sectionType types.SectionType, record types.RawProvisionRecord, lawName string) Citation {
	// Unnumbered types go straight to the position fallback; the scrape
	// ordinal is the only disambiguator they have.
	if label, ok := table.Labels[sectionType]; ok && sectionType != types.SectionTypeUnknown {
		return Citation{
			Value:        fmt.Sprintf("%s#%d", label, record.Position),
			UsedPosition: true,
		}
	}

	numbering, subValues := numberingFor(sectionType, record)

	prefix, numbered := table.Prefixes[sectionType]
	if !numbered {
		// Unmapped type: cite with the passthrough label, numbered when
		// the row has any numbering at all.
		label := table.Labels[types.SectionTypeUnknown]
		if label == "" {
			label = "prov"
		}
		if numbering == "" {
			return Citation{
				Value:         fmt.Sprintf("%s#%d", label, record.Position),
				UsedPosition:  true,
				MissingNumber: true,
			}
		}
		return Citation{Value: label + "." + numbering, Numbering: numbering}
	}

	if sectionType == types.SectionTypeArticle || sectionType == types.SectionTypeSubArticle {
		if table.IsRegulationClass(lawName) {
			prefix = table.Prefixes[types.SectionTypeRegulation]
		}
	}

	if numbering == "" {
		return Citation{
			Value:         fmt.Sprintf("%s#%d", sectionType, record.Position),
			UsedPosition:  true,
			MissingNumber: true,
		}
	}

	value := prefix + numbering
	for _, subValue := range subValues {
		if subValue != "" {
			value += "(" + subValue + ")"
		}
	}

	// Rows nested inside a schedule carry the schedule scope, since
	// schedule numbering restarts from 1.
	if record.Schedule != "" &&
		sectionType != types.SectionTypeSchedule && sectionType != types.SectionTypeAnnex {
		value = table.Prefixes[types.SectionTypeSchedule] + record.Schedule + "." + value
	}

	return Citation{Value: value, Numbering: numbering}
}

// numberingFor picks the numbering source field and the sub-levels that
// parenthesize onto the citation, per section type.
func numberingFor(sectionType types.SectionType, record types.RawProvisionRecord) (string, []string) {
	switch sectionType {
	case types.SectionTypePart:
		return firstNonEmpty(record.Part, record.MergedProvision()), nil
	case types.SectionTypeChapter:
		return firstNonEmpty(record.Chapter, record.MergedProvision()), nil
	case types.SectionTypeHeading:
		return firstNonEmpty(record.Heading, record.MergedProvision()), nil
	case types.SectionTypeSchedule:
		return firstNonEmpty(record.Schedule, record.MergedProvision()), nil
	case types.SectionTypeAnnex:
		return firstNonEmpty(record.MergedProvision(), record.Schedule), nil
	case types.SectionTypeParagraph:
		return firstNonEmpty(record.Paragraph, record.MergedProvision()), []string{record.SubParagraph}
	case types.SectionTypeSubParagraph:
		if record.Paragraph != "" {
			return record.Paragraph, []string{record.SubParagraph}
		}
		return record.SubParagraph, nil
	default:
		// Section/article family and unknown types.
		return record.MergedProvision(), []string{record.Paragraph, record.SubParagraph}
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
