package types

// AnnotationCodeType classifies an annotation by its code family, following
// the legislature's editorial-note lettering.
type AnnotationCodeType string

const (
	CodeTypeAmendment    AnnotationCodeType = "F" // textual amendment
	CodeTypeModification AnnotationCodeType = "C" // non-textual modification
	CodeTypeCommencement AnnotationCodeType = "I" // commencement information
	CodeTypeExtent       AnnotationCodeType = "E" // extent / editorial information
	CodeTypeUnknown      AnnotationCodeType = "X"
)

// CodeTypeForCode classifies an annotation code by its leading letter.
// Unrecognized leading letters map to CodeTypeUnknown.
func CodeTypeForCode(code string) AnnotationCodeType {
	if code == "" {
		return CodeTypeUnknown
	}
	switch code[0] {
	case 'F':
		return CodeTypeAmendment
	case 'C':
		return CodeTypeModification
	case 'I':
		return CodeTypeCommencement
	case 'E':
		return CodeTypeExtent
	default:
		return CodeTypeUnknown
	}
}

// AnnotationRecord is one emitted amendment/modification/commencement/extent
// annotation. ID is synthetic and unique corpus-wide:
// {law_name}:{code_type}:{seq}.
type AnnotationRecord struct {
	ID       string             `json:"id"`
	LawName  string             `json:"law_name"`
	Code     string             `json:"code"`
	CodeType AnnotationCodeType `json:"code_type"`
	Text     string             `json:"text,omitempty"`
	Source   string             `json:"source,omitempty"`

	// AffectedSections lists section_id values produced for the same law in
	// the same run. May be empty when the link target could not be resolved.
	AffectedSections []string `json:"affected_sections"`
}

// ParallelProvisionSet groups a law's rows that share one bare provision
// number but exist in two or more territorial extents. Derived during pass
// two; never persisted.
type ParallelProvisionSet struct {
	LawName     string
	Provision   string
	ExtentCodes []string
}
