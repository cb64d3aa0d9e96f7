package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/coolbeans/canonleg/pkg/cite"
	"github.com/coolbeans/canonleg/pkg/types"
)

func newTestOrchestrator() *Orchestrator {
	return NewOrchestrator(cite.NewRegistry())
}

func TestProcessLawSubSectionScenario(t *testing.T) {
	orchestrator := newTestOrchestrator()

	output, err := orchestrator.ProcessLaw([]types.RawProvisionRecord{
		{
			LawName:      "UK_ukpga_1974_37",
			RecordType:   "sub-section",
			Section:      "25A",
			SubParagraph: "1",
			Position:     60,
		},
	})
	if err != nil {
		t.Fatalf("ProcessLaw failed: %v", err)
	}

	if len(output.Sections) != 1 {
		t.Fatalf("sections: got %d, want 1", len(output.Sections))
	}
	section := output.Sections[0]
	if section.SectionID != "UK_ukpga_1974_37:s.25A(1)" {
		t.Errorf("section_id: got %q, want %q", section.SectionID, "UK_ukpga_1974_37:s.25A(1)")
	}
	if section.SortKey != "025.010.000" {
		t.Errorf("sort_key: got %q, want %q", section.SortKey, "025.010.000")
	}
	if section.Type != types.SectionTypeSubSection {
		t.Errorf("type: got %q", section.Type)
	}
	if section.Language != "en" {
		t.Errorf("language: got %q, want %q", section.Language, "en")
	}
}

func TestProcessLawInsertionChainOrder(t *testing.T) {
	orchestrator := newTestOrchestrator()

	numberings := []string{"3", "3ZA", "3ZB", "3A", "3AA", "3AB", "3B", "4"}
	rows := make([]types.RawProvisionRecord, len(numberings))
	for i, numbering := range numberings {
		rows[i] = types.RawProvisionRecord{
			LawName:    "UK_ukpga_1974_37",
			RecordType: "section",
			Section:    numbering,
			Position:   i + 1,
		}
	}

	output, err := orchestrator.ProcessLaw(rows)
	if err != nil {
		t.Fatalf("ProcessLaw failed: %v", err)
	}

	for i := 1; i < len(output.Sections); i++ {
		previous, current := output.Sections[i-1], output.Sections[i]
		if !(previous.SortKey < current.SortKey) {
			t.Errorf("sort keys not strictly increasing: %s=%q !< %s=%q",
				previous.SectionID, previous.SortKey, current.SectionID, current.SortKey)
		}
	}
}

func TestProcessLawParallelProvisions(t *testing.T) {
	orchestrator := newTestOrchestrator()

	output, err := orchestrator.ProcessLaw([]types.RawProvisionRecord{
		{LawName: "UK_ukpga_1995_25", RecordType: "section", Section: "22", Region: "England and Wales", Position: 1},
		{LawName: "UK_ukpga_1995_25", RecordType: "section", Section: "23", Region: "England and Wales", Position: 2},
		{LawName: "UK_ukpga_1995_25", RecordType: "section", Section: "23", Region: "Northern Ireland", Position: 3},
		{LawName: "UK_ukpga_1995_25", RecordType: "section", Section: "23", Region: "Scotland", Position: 4},
		{LawName: "UK_ukpga_1995_25", RecordType: "section", Section: "24", Region: "England and Wales", Position: 5},
	})
	if err != nil {
		t.Fatalf("ProcessLaw failed: %v", err)
	}

	ids := make(map[int]string, len(output.Sections))
	for _, section := range output.Sections {
		ids[section.Position] = section.SectionID
	}

	expected := map[int]string{
		1: "UK_ukpga_1995_25:s.22",
		2: "UK_ukpga_1995_25:s.23[E+W]",
		3: "UK_ukpga_1995_25:s.23[NI]",
		4: "UK_ukpga_1995_25:s.23[S]",
		5: "UK_ukpga_1995_25:s.24",
	}
	for position, expectedID := range expected {
		if ids[position] != expectedID {
			t.Errorf("position %d: got %q, want %q", position, ids[position], expectedID)
		}
	}

	// Qualified variants carry the extent on the sort key and cluster.
	for _, section := range output.Sections {
		if strings.Contains(section.SectionID, "[") && !strings.Contains(section.SortKey, "~") {
			t.Errorf("%s: qualified citation without extent sort suffix %q",
				section.SectionID, section.SortKey)
		}
	}
}

func TestProcessLawDisambiguatesHeadingCollision(t *testing.T) {
	orchestrator := newTestOrchestrator()

	output, err := orchestrator.ProcessLaw([]types.RawProvisionRecord{
		{LawName: "UK_ukpga_1974_37", RecordType: "heading", Part: "I", Heading: "18", Text: "Enforcement", Position: 40},
		{LawName: "UK_ukpga_1974_37", RecordType: "heading", Part: "II", Heading: "18", Text: "Appeals", Position: 90},
		{LawName: "UK_ukpga_1974_37", RecordType: "section", Section: "18", Position: 41},
	})
	if err != nil {
		t.Fatalf("ProcessLaw failed: %v", err)
	}

	seen := make(map[string]bool)
	for _, section := range output.Sections {
		if seen[section.SectionID] {
			t.Errorf("duplicate section_id %q", section.SectionID)
		}
		seen[section.SectionID] = true
	}

	if !seen["UK_ukpga_1974_37:h.18#40"] || !seen["UK_ukpga_1974_37:h.18#90"] {
		t.Errorf("expected position-disambiguated heading ids, got %v", seen)
	}
	if !seen["UK_ukpga_1974_37:s.18"] {
		t.Errorf("section id disturbed: %v", seen)
	}

	counts := output.Report.FlagCounts()
	if counts[types.ReviewDisambiguated] != 2 {
		t.Errorf("disambiguation flags: got %d, want 2", counts[types.ReviewDisambiguated])
	}
}

func TestProcessLawAnnotationCoverage(t *testing.T) {
	orchestrator := newTestOrchestrator()

	output, err := orchestrator.ProcessLaw([]types.RawProvisionRecord{
		{LawName: "UK_ukpga_1974_37", RecordType: "section", Section: "2", Changes: "F101", Position: 1},
		{LawName: "UK_ukpga_1974_37", RecordType: "section", Section: "3", Changes: "F101,I4", Position: 2},
		{LawName: "UK_ukpga_1974_37", RecordType: "amendment", Source: "changes", Changes: "F101", Text: "Substituted", Position: 3},
		{LawName: "UK_ukpga_1974_37", RecordType: "commencement", Source: "changes", Changes: "I4", Position: 4},
	})
	if err != nil {
		t.Fatalf("ProcessLaw failed: %v", err)
	}

	if len(output.Annotations) != 2 {
		t.Fatalf("annotations: got %d, want 2", len(output.Annotations))
	}
	for _, annotation := range output.Annotations {
		if len(annotation.AffectedSections) == 0 {
			t.Errorf("annotation %s has empty affected_sections", annotation.ID)
		}
	}

	for _, section := range output.Sections {
		switch section.SectionID {
		case "UK_ukpga_1974_37:s.2":
			if section.AmendmentCount != 1 || section.CommencementCount != 0 {
				t.Errorf("s.2 counters wrong: %+v", section)
			}
		case "UK_ukpga_1974_37:s.3":
			if section.AmendmentCount != 1 || section.CommencementCount != 1 {
				t.Errorf("s.3 counters wrong: %+v", section)
			}
		}
	}
}

func TestProcessLawNormalizesDecoratedLawName(t *testing.T) {
	orchestrator := newTestOrchestrator()

	output, err := orchestrator.ProcessLaw([]types.RawProvisionRecord{
		{LawName: "UK_HSWA_ukpga_1974_37", RecordType: "section", Section: "1", Position: 1},
	})
	if err != nil {
		t.Fatalf("ProcessLaw failed: %v", err)
	}
	if output.LawName != "UK_ukpga_1974_37" {
		t.Errorf("law name: got %q, want %q", output.LawName, "UK_ukpga_1974_37")
	}
	if output.Sections[0].SectionID != "UK_ukpga_1974_37:s.1" {
		t.Errorf("section_id: got %q", output.Sections[0].SectionID)
	}
}

func TestProcessLawFlagsNonFatalConditions(t *testing.T) {
	orchestrator := newTestOrchestrator()

	output, err := orchestrator.ProcessLaw([]types.RawProvisionRecord{
		{LawName: "UK_ukpga_1974_37", RecordType: "mystery-block", Section: "1", Position: 1},
		{LawName: "UK_ukpga_1974_37", RecordType: "section", Section: "2", Region: "Isle of Man", Position: 2},
		{LawName: "UK_ukpga_1974_37", RecordType: "section", Position: 3},
	})
	if err != nil {
		t.Fatalf("non-fatal conditions must not error: %v", err)
	}
	if len(output.Sections) != 3 {
		t.Fatalf("sections: got %d, want 3 (rows must not be dropped)", len(output.Sections))
	}

	counts := output.Report.FlagCounts()
	if counts[types.ReviewUnmappedType] != 1 {
		t.Errorf("unmapped type flags: got %d, want 1", counts[types.ReviewUnmappedType])
	}
	if counts[types.ReviewUnmappedExtent] != 1 {
		t.Errorf("unmapped extent flags: got %d, want 1", counts[types.ReviewUnmappedExtent])
	}
	if counts[types.ReviewMissingProvision] != 1 {
		t.Errorf("missing provision flags: got %d, want 1", counts[types.ReviewMissingProvision])
	}

	// The unmapped extent passes through on the section.
	var flagged *types.CanonicalSection
	for _, section := range output.Sections {
		if section.Position == 2 {
			flagged = section
		}
	}
	if flagged == nil || flagged.ExtentCode != "Isle of Man" {
		t.Errorf("unmapped extent not passed through: %+v", flagged)
	}
}

func TestRunConcurrent(t *testing.T) {
	orchestrator := newTestOrchestrator()

	var laws [][]types.RawProvisionRecord
	lawNames := []string{"UK_ukpga_1974_37", "UK_ukpga_1995_25", "UK_uksi_2002_2677", "UK_ukpga_2018_12"}
	for _, lawName := range lawNames {
		laws = append(laws, []types.RawProvisionRecord{
			{LawName: lawName, RecordType: "section", Section: "1", Position: 1},
			{LawName: lawName, RecordType: "section", Section: "2", Position: 2},
		})
	}

	sink := &MemorySink{}
	report, err := orchestrator.Run(context.Background(), laws, sink, 4)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.Laws) != len(lawNames) {
		t.Errorf("law reports: got %d, want %d", len(report.Laws), len(lawNames))
	}
	if report.Aborted != 0 {
		t.Errorf("aborted: got %d, want 0", report.Aborted)
	}

	outputs := sink.Outputs()
	if len(outputs) != len(lawNames) {
		t.Fatalf("outputs: got %d, want %d", len(outputs), len(lawNames))
	}
	// Each output is a complete, uninterleaved law.
	for _, output := range outputs {
		for _, section := range output.Sections {
			if section.LawName != output.LawName {
				t.Errorf("law %s contains foreign section %s", output.LawName, section.SectionID)
			}
		}
	}
}
