// Package typemap maps jurisdiction-specific record-type strings to the
// canonical SectionType vocabulary and routes each raw row to the content or
// annotation stream.
package typemap

import (
	"strings"

	"github.com/coolbeans/canonleg/pkg/types"
)

// RowClass says which output stream a raw row belongs to.
type RowClass int

const (
	RowClassContent RowClass = iota
	RowClassAnnotation
)

// sectionTypeTable maps normalized raw record types to canonical types.
// Spelling variants observed across scrape sources are folded together.
var sectionTypeTable = map[string]types.SectionType{
	"title":         types.SectionTypeTitle,
	"part":          types.SectionTypePart,
	"chapter":       types.SectionTypeChapter,
	"heading":       types.SectionTypeHeading,
	"section":       types.SectionTypeSection,
	"sub-section":   types.SectionTypeSubSection,
	"sub_section":   types.SectionTypeSubSection,
	"subsection":    types.SectionTypeSubSection,
	"article":       types.SectionTypeArticle,
	"sub-article":   types.SectionTypeSubArticle,
	"sub_article":   types.SectionTypeSubArticle,
	"regulation":    types.SectionTypeRegulation,
	"rule":          types.SectionTypeRule,
	"paragraph":     types.SectionTypeParagraph,
	"sub-paragraph": types.SectionTypeSubParagraph,
	"sub_paragraph": types.SectionTypeSubParagraph,
	"schedule":      types.SectionTypeSchedule,
	"annex":         types.SectionTypeAnnex,
	"signed":        types.SectionTypeSigned,
}

// annotationTypeTable lists raw types that denote amendment, modification,
// commencement, extent, or editorial metadata rather than legal text. The
// value is the annotation code class the row falls into.
var annotationTypeTable = map[string]types.AnnotationCodeType{
	"amendment":          types.CodeTypeAmendment,
	"textual amendment":  types.CodeTypeAmendment,
	"amendment,textual":  types.CodeTypeAmendment,
	"modification":       types.CodeTypeModification,
	"commencement":       types.CodeTypeCommencement,
	"commencement order": types.CodeTypeCommencement,
	"extent":             types.CodeTypeExtent,
	"extent information": types.CodeTypeExtent,
	"editorial":          types.CodeTypeExtent,
	"editorial note":     types.CodeTypeExtent,
	"marginal citation":  types.CodeTypeExtent,
}

// Map resolves a raw record-type string to its canonical SectionType.
// Unmapped types resolve to SectionTypeUnknown with ok=false; the caller
// flags the row for review and carries on (never a hard failure).
func Map(rawType string) (types.SectionType, bool) {
	sectionType, ok := sectionTypeTable[normalizeRawType(rawType)]
	if !ok {
		return types.SectionTypeUnknown, false
	}
	return sectionType, true
}

// Classify routes a raw row to the content or annotation stream. Rows whose
// type denotes change metadata go to the annotation stream, as do grouping
// rows (part/chapter/heading) that carry no text and no provision number.
func Classify(record types.RawProvisionRecord) RowClass {
	normalized := normalizeRawType(record.RecordType)
	if _, isAnnotation := annotationTypeTable[normalized]; isAnnotation {
		return RowClassAnnotation
	}

	switch sectionTypeTable[normalized] {
	case types.SectionTypePart, types.SectionTypeChapter, types.SectionTypeHeading:
		if record.Text == "" && record.MergedProvision() == "" && record.Heading == "" &&
			record.Part == "" && record.Chapter == "" {
			return RowClassAnnotation
		}
	}

	return RowClassContent
}

// AnnotationClass returns the annotation code class for an annotation-stream
// raw type. Unrecognized types fall into CodeTypeUnknown.
func AnnotationClass(rawType string) types.AnnotationCodeType {
	if codeType, ok := annotationTypeTable[normalizeRawType(rawType)]; ok {
		return codeType
	}
	return types.CodeTypeUnknown
}

func normalizeRawType(rawType string) string {
	return strings.ToLower(strings.TrimSpace(rawType))
}
