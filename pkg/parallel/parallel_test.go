package parallel

import (
	"reflect"
	"testing"

	"github.com/coolbeans/canonleg/pkg/types"
)

func TestDetectSets(t *testing.T) {
	lawName := "UK_ukpga_1995_25"
	sections := []*types.CanonicalSection{
		{Provision: "22", ExtentCode: "E+W"},
		{Provision: "23", ExtentCode: "E+W"},
		{Provision: "23", ExtentCode: "NI"},
		{Provision: "23", ExtentCode: "S"},
		{Provision: "24", ExtentCode: ""},
		{Provision: "", ExtentCode: "E+W"},
	}

	sets := DetectSets(lawName, sections)
	if len(sets) != 1 {
		t.Fatalf("sets: got %d, want 1", len(sets))
	}
	if sets[0].Provision != "23" {
		t.Errorf("provision: got %q, want %q", sets[0].Provision, "23")
	}
	if !reflect.DeepEqual(sets[0].ExtentCodes, []string{"E+W", "NI", "S"}) {
		t.Errorf("extents: got %v, want [E+W NI S]", sets[0].ExtentCodes)
	}
	if sets[0].LawName != lawName {
		t.Errorf("law: got %q, want %q", sets[0].LawName, lawName)
	}
}

func TestDetectSetsSingleExtentUnqualified(t *testing.T) {
	sections := []*types.CanonicalSection{
		{Provision: "3", ExtentCode: "E+W"},
		{Provision: "3", ExtentCode: "E+W"},
		{Provision: "4", ExtentCode: "S"},
	}
	if sets := DetectSets("UK_ukpga_1974_37", sections); len(sets) != 0 {
		t.Errorf("expected no parallel sets, got %v", sets)
	}
}

func TestApplyQualifiers(t *testing.T) {
	sections := []*types.CanonicalSection{
		{Provision: "23", ExtentCode: "E+W"},
		{Provision: "23", ExtentCode: "NI"},
		{Provision: "23", ExtentCode: "S"},
		{Provision: "24", ExtentCode: "E+W"},
	}
	citations := []string{"s.23", "s.23", "s.23", "s.24"}

	sets := DetectSets("UK_ukpga_1995_25", sections)
	modified := ApplyQualifiers(sections, citations, sets)

	expected := []string{"s.23[E+W]", "s.23[NI]", "s.23[S]", "s.24"}
	if !reflect.DeepEqual(citations, expected) {
		t.Errorf("citations: got %v, want %v", citations, expected)
	}
	if !reflect.DeepEqual(modified, []int{0, 1, 2}) {
		t.Errorf("modified: got %v, want [0 1 2]", modified)
	}
}

func TestDisambiguate(t *testing.T) {
	sections := []*types.CanonicalSection{
		{SectionID: "UK_ukpga_1974_37:h.18", Position: 41},
		{SectionID: "UK_ukpga_1974_37:h.18", Position: 97},
		{SectionID: "UK_ukpga_1974_37:s.18", Position: 42},
	}

	modified := Disambiguate(sections)
	if !reflect.DeepEqual(modified, []int{0, 1}) {
		t.Errorf("modified: got %v, want [0 1]", modified)
	}
	if sections[0].SectionID != "UK_ukpga_1974_37:h.18#41" {
		t.Errorf("first: got %q", sections[0].SectionID)
	}
	if sections[1].SectionID != "UK_ukpga_1974_37:h.18#97" {
		t.Errorf("second: got %q", sections[1].SectionID)
	}
	if sections[2].SectionID != "UK_ukpga_1974_37:s.18" {
		t.Errorf("untouched id changed: %q", sections[2].SectionID)
	}

	if err := VerifyUnique(sections); err != nil {
		t.Errorf("VerifyUnique after disambiguation: %v", err)
	}
}

func TestVerifyUniqueDetectsDefect(t *testing.T) {
	// Same citation and same position: disambiguation cannot help.
	sections := []*types.CanonicalSection{
		{SectionID: "UK_x:s.1#5", Position: 5},
		{SectionID: "UK_x:s.1#5", Position: 5},
	}
	if err := VerifyUnique(sections); err == nil {
		t.Error("expected duplicate section_id error")
	}
}
