package types

import (
	"reflect"
	"strings"
	"testing"
)

func TestMergedProvision(t *testing.T) {
	cases := []struct {
		name   string
		record RawProvisionRecord
		want   string
	}{
		{"section wins", RawProvisionRecord{Section: "25A", Article: "3"}, "25A"},
		{"article when no section", RawProvisionRecord{Article: "7"}, "7"},
		{"regulation", RawProvisionRecord{Regulation: "12"}, "12"},
		{"rule", RawProvisionRecord{Rule: "4"}, "4"},
		{"none populated", RawProvisionRecord{}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.record.MergedProvision(); got != tc.want {
				t.Errorf("MergedProvision() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestChangeCodes(t *testing.T) {
	cases := []struct {
		name    string
		changes string
		want    []string
	}{
		{"plain list", "F12,C3,I1", []string{"F12", "C3", "I1"}},
		{"spaces trimmed", " F12 , C3 ", []string{"F12", "C3"}},
		{"empty entries dropped", "F12,,C3,", []string{"F12", "C3"}},
		{"empty field", "", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RawProvisionRecord{Changes: tc.changes}.ChangeCodes()
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("ChangeCodes() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRunReportAggregation(t *testing.T) {
	var run RunReport
	run.Add(ProcessingReport{LawName: "UK_ukpga_1974_37", RowsIn: 10, SectionsOut: 8, AnnotationsOut: 2,
		Flags: []ReviewFlag{{Kind: ReviewUnmappedType, Position: 3}}})
	run.Add(ProcessingReport{LawName: "UK_uksi_2001_544", RowsIn: 4, Aborted: true,
		AbortReason: "duplicate section_id"})

	if run.Aborted != 1 {
		t.Errorf("Aborted = %d, want 1", run.Aborted)
	}

	formatted := FormatRunReport(&run)
	for _, fragment := range []string{
		"Laws: 2 | Rows: 14 | Sections: 8 | Annotations: 2",
		"Aborted laws: 1",
		"unmapped_type",
		"[ABORT] UK_uksi_2001_544",
	} {
		if !strings.Contains(formatted, fragment) {
			t.Errorf("report missing %q in:\n%s", fragment, formatted)
		}
	}
}
