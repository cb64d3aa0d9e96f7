// Package hierarchy composes a row's populated ancestor labels into a
// readable path, e.g. "pt.II/ch.3/h.18/prov.25A/sub.1", and derives the
// row's structural depth.
package hierarchy

import (
	"strings"

	"github.com/coolbeans/canonleg/pkg/types"
)

// Build walks the populated ancestor chain of a raw row and returns the
// slash-joined path plus the depth (count of populated levels). Root rows
// such as the title produce an empty path and depth 0.
func Build(record types.RawProvisionRecord) (string, int) {
	levels := []struct {
		label string
		value string
	}{
		{"sch", record.Schedule},
		{"pt", record.Part},
		{"ch", record.Chapter},
		{"h", record.Heading},
		{"prov", record.MergedProvision()},
		{"sub", record.Paragraph},
		{"para", record.SubParagraph},
	}

	segments := make([]string, 0, len(levels))
	for _, level := range levels {
		if level.value != "" {
			segments = append(segments, level.label+"."+level.value)
		}
	}

	return strings.Join(segments, "/"), len(segments)
}
