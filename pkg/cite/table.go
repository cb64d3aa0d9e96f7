// Package cite builds the structural citation for a raw provision row using
// a per-jurisdiction prefix table: "s.25A(1)", "reg.3", "sch.2.para.4".
// The citation is the stable half of a section's identity; tables are data,
// not code, so new jurisdictions are added as YAML files rather than types.
package cite

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coolbeans/canonleg/pkg/types"
)

// PrefixTable maps canonical section types to citation prefixes for one
// jurisdiction.
type PrefixTable struct {
	// Jurisdiction is the table's jurisdiction code, e.g. "UK".
	Jurisdiction string `yaml:"jurisdiction"`

	// Prefixes maps a numbered section type to its citation prefix.
	Prefixes map[types.SectionType]string `yaml:"prefixes"`

	// Labels maps unnumbered section types (title, signed) to the literal
	// label used in place of a numbered citation.
	Labels map[types.SectionType]string `yaml:"labels"`

	// RegulationClassCodes lists law type codes whose articles cite as
	// regulations ("reg." instead of "art.").
	RegulationClassCodes []string `yaml:"regulation_class_codes"`
}

// UKTable is the built-in prefix table for UK legislation.
func UKTable() *PrefixTable {
	return &PrefixTable{
		Jurisdiction: "UK",
		Prefixes: map[types.SectionType]string{
			types.SectionTypeSection:      "s.",
			types.SectionTypeSubSection:   "s.",
			types.SectionTypeArticle:      "art.",
			types.SectionTypeSubArticle:   "art.",
			types.SectionTypeRegulation:   "reg.",
			types.SectionTypeRule:         "r.",
			types.SectionTypeParagraph:    "para.",
			types.SectionTypeSubParagraph: "para.",
			types.SectionTypePart:         "pt.",
			types.SectionTypeChapter:      "ch.",
			types.SectionTypeHeading:      "h.",
			types.SectionTypeSchedule:     "sch.",
			types.SectionTypeAnnex:        "annex.",
		},
		Labels: map[types.SectionType]string{
			types.SectionTypeTitle:   "title",
			types.SectionTypeSigned:  "signed",
			types.SectionTypeUnknown: "prov",
		},
		RegulationClassCodes: []string{"uksi", "nisr", "ssi", "wsi"},
	}
}

// Validate checks a table for the fields the builder depends on.
func (table *PrefixTable) Validate() error {
	if table.Jurisdiction == "" {
		return fmt.Errorf("prefix table missing jurisdiction")
	}
	if len(table.Prefixes) == 0 {
		return fmt.Errorf("prefix table %q has no prefixes", table.Jurisdiction)
	}
	for sectionType, prefix := range table.Prefixes {
		if prefix == "" {
			return fmt.Errorf("prefix table %q: empty prefix for type %q", table.Jurisdiction, sectionType)
		}
	}
	return nil
}

// IsRegulationClass reports whether a canonical law name belongs to a law
// class whose articles cite as regulations. The type code is the second
// underscore-separated field of the canonical name, e.g. "uksi" in
// "UK_uksi_2002_2677".
func (table *PrefixTable) IsRegulationClass(lawName string) bool {
	fields := strings.Split(lawName, "_")
	if len(fields) < 2 {
		return false
	}
	typeCode := fields[1]
	for _, code := range table.RegulationClassCodes {
		if typeCode == code {
			return true
		}
	}
	return false
}

// LoadTableFile loads and validates a prefix table from a YAML file.
func LoadTableFile(path string) (*PrefixTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prefix table: %w", err)
	}

	var table PrefixTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing prefix table %s: %w", path, err)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &table, nil
}
