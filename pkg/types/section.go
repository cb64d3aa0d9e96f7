package types

// SectionType classifies a canonical structural row.
type SectionType string

const (
	SectionTypeTitle        SectionType = "title"
	SectionTypePart         SectionType = "part"
	SectionTypeChapter      SectionType = "chapter"
	SectionTypeHeading      SectionType = "heading"
	SectionTypeSection      SectionType = "section"
	SectionTypeSubSection   SectionType = "sub-section"
	SectionTypeArticle      SectionType = "article"
	SectionTypeSubArticle   SectionType = "sub-article"
	SectionTypeRegulation   SectionType = "regulation"
	SectionTypeRule         SectionType = "rule"
	SectionTypeParagraph    SectionType = "paragraph"
	SectionTypeSubParagraph SectionType = "sub-paragraph"
	SectionTypeSchedule     SectionType = "schedule"
	SectionTypeAnnex        SectionType = "annex"
	SectionTypeSigned       SectionType = "signed"
	SectionTypeUnknown      SectionType = "unknown"
)

// CanonicalSection is one emitted structural record. section_id is unique
// within a law after the full pipeline has run; sort_key orders a law's
// sections in the legislature's document order.
type CanonicalSection struct {
	LawName   string      `json:"law_name"`
	SectionID string      `json:"section_id"`
	SortKey   string      `json:"sort_key"`
	Position  int         `json:"position"`
	Type      SectionType `json:"section_type"`

	HierarchyPath string `json:"hierarchy_path,omitempty"`
	Depth         int    `json:"depth"`

	Part         string `json:"part,omitempty"`
	Chapter      string `json:"chapter,omitempty"`
	HeadingGroup string `json:"heading_group,omitempty"`
	Provision    string `json:"provision,omitempty"`
	Paragraph    string `json:"paragraph,omitempty"`
	SubParagraph string `json:"sub_paragraph,omitempty"`
	Schedule     string `json:"schedule,omitempty"`

	Text       string `json:"text,omitempty"`
	Language   string `json:"language"`
	ExtentCode string `json:"extent_code,omitempty"`

	// Annotation counters, one per annotation code class.
	AmendmentCount    int `json:"amendment_count"`
	ModificationCount int `json:"modification_count"`
	CommencementCount int `json:"commencement_count"`
	ExtentNoteCount   int `json:"extent_note_count"`
}
