// Package types defines the data model shared by the canonicalization
// pipeline: raw scraped provision rows on the way in, canonical sections and
// amendment annotations on the way out.
package types

import (
	"strings"
)

// RawProvisionRecord is one scraped row of a legal document, exactly as the
// upstream scraper emitted it. Field contents are jurisdiction-specific free
// text; nothing here is canonical yet. Empty string means the scraper found
// no value ("null" in the source feed).
type RawProvisionRecord struct {
	// ID is the scraper's opaque row identifier. Parent-relation annotation
	// rows encode their parent content row in this value.
	ID string `json:"id,omitempty"`

	LawName    string `json:"law_name"`
	RecordType string `json:"record_type"`
	Text       string `json:"text,omitempty"`

	// Structural ancestors as scraped.
	Part         string `json:"part,omitempty"`
	Chapter      string `json:"chapter,omitempty"`
	Heading      string `json:"heading,omitempty"`
	Schedule     string `json:"schedule,omitempty"`
	Paragraph    string `json:"paragraph,omitempty"`
	SubParagraph string `json:"sub_paragraph,omitempty"`

	// Jurisdiction-specific provision-number carriers. At most one is
	// populated per row; MergedProvision picks the first non-empty.
	Section    string `json:"section,omitempty"`
	Article    string `json:"article,omitempty"`
	Regulation string `json:"regulation,omitempty"`
	Rule       string `json:"rule,omitempty"`

	// Region is the free-text territorial extent, e.g. "England and Wales".
	Region string `json:"region,omitempty"`

	// Position is the scraped document ordinal within the law.
	Position int `json:"position"`

	// Changes is a comma-separated list of annotation codes (F123, C45, ...)
	// that apply to this content row.
	Changes string `json:"changes,omitempty"`

	// AffectedRef is a direct section reference carried by rows from the
	// standalone annotation source (linkage mechanism 3).
	AffectedRef string `json:"affected_ref,omitempty"`

	// Source names the scrape source that produced the row. Selects the
	// annotation linkage mechanism.
	Source string `json:"source,omitempty"`
}

// MergedProvision unifies the jurisdiction-specific provision-number fields;
// the first non-empty value wins.
func (record RawProvisionRecord) MergedProvision() string {
	for _, candidate := range []string{record.Section, record.Article, record.Regulation, record.Rule} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// ChangeCodes splits the Changes list into individual trimmed codes.
func (record RawProvisionRecord) ChangeCodes() []string {
	if record.Changes == "" {
		return nil
	}
	rawCodes := strings.Split(record.Changes, ",")
	codes := make([]string, 0, len(rawCodes))
	for _, rawCode := range rawCodes {
		code := strings.TrimSpace(rawCode)
		if code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}
