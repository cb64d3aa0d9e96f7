package types

import (
	"fmt"
	"strings"
)

// ReviewFlagKind classifies a non-fatal condition noticed while processing a
// row. Flagged rows still produce output; the flag marks them for editorial
// review.
type ReviewFlagKind string

const (
	ReviewUnmappedType     ReviewFlagKind = "unmapped_type"
	ReviewUnmappedExtent   ReviewFlagKind = "unmapped_extent"
	ReviewMissingProvision ReviewFlagKind = "missing_provision"
	ReviewDanglingLink     ReviewFlagKind = "dangling_annotation_link"
	ReviewDeepNumbering    ReviewFlagKind = "deep_numbering"
	ReviewDisambiguated    ReviewFlagKind = "position_disambiguated"
)

// ReviewFlag records one non-fatal condition for one row.
type ReviewFlag struct {
	Kind     ReviewFlagKind `json:"kind"`
	Position int            `json:"position"`
	Detail   string         `json:"detail,omitempty"`
}

// ProcessingReport accumulates the outcome of one law's two-pass run.
// A malformed row never blocks the rest of the law; it is recorded here
// instead.
type ProcessingReport struct {
	LawName        string       `json:"law_name"`
	RowsIn         int          `json:"rows_in"`
	SectionsOut    int          `json:"sections_out"`
	AnnotationsOut int          `json:"annotations_out"`
	Flags          []ReviewFlag `json:"flags,omitempty"`
	Aborted        bool         `json:"aborted"`
	AbortReason    string       `json:"abort_reason,omitempty"`
}

// Flag appends a review flag for the row at the given position.
func (report *ProcessingReport) Flag(kind ReviewFlagKind, position int, detail string) {
	report.Flags = append(report.Flags, ReviewFlag{Kind: kind, Position: position, Detail: detail})
}

// FlagCounts tallies flags by kind.
func (report *ProcessingReport) FlagCounts() map[ReviewFlagKind]int {
	counts := make(map[ReviewFlagKind]int)
	for _, flag := range report.Flags {
		counts[flag.Kind]++
	}
	return counts
}

// RunReport aggregates per-law reports for a whole run.
type RunReport struct {
	Laws    []ProcessingReport `json:"laws"`
	Aborted int                `json:"aborted"`
}

// Add merges one law's report into the run totals.
func (run *RunReport) Add(report ProcessingReport) {
	run.Laws = append(run.Laws, report)
	if report.Aborted {
		run.Aborted++
	}
}

// FormatRunReport formats a run report for terminal output.
func FormatRunReport(run *RunReport) string {
	var builder strings.Builder

	totalRows, totalSections, totalAnnotations := 0, 0, 0
	flagTotals := make(map[ReviewFlagKind]int)
	for _, law := range run.Laws {
		totalRows += law.RowsIn
		totalSections += law.SectionsOut
		totalAnnotations += law.AnnotationsOut
		for kind, count := range law.FlagCounts() {
			flagTotals[kind] += count
		}
	}

	builder.WriteString("\nCanonicalization Report\n")
	builder.WriteString(strings.Repeat("═", 60) + "\n")
	builder.WriteString(fmt.Sprintf("Laws: %d | Rows: %d | Sections: %d | Annotations: %d\n",
		len(run.Laws), totalRows, totalSections, totalAnnotations))
	if run.Aborted > 0 {
		builder.WriteString(fmt.Sprintf("Aborted laws: %d\n", run.Aborted))
	}
	if len(flagTotals) > 0 {
		builder.WriteString(strings.Repeat("─", 60) + "\n")
		builder.WriteString("Review flags:\n")
		for _, kind := range []ReviewFlagKind{
			ReviewUnmappedType, ReviewUnmappedExtent, ReviewMissingProvision,
			ReviewDanglingLink, ReviewDeepNumbering, ReviewDisambiguated,
		} {
			if flagTotals[kind] > 0 {
				builder.WriteString(fmt.Sprintf("  %-28s %d\n", kind, flagTotals[kind]))
			}
		}
	}
	for _, law := range run.Laws {
		if law.Aborted {
			builder.WriteString(fmt.Sprintf("  [ABORT] %s: %s\n", law.LawName, law.AbortReason))
		}
	}

	return builder.String()
}
