// Package pipeline sequences the canonicalization stages for each law: a
// per-row build pass, then a law-wide pass for parallel-provision detection,
// extent qualification, disambiguation, and annotation linkage. Laws are
// independent; the orchestrator fans them out across workers.
package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/coolbeans/canonleg/pkg/annotate"
	"github.com/coolbeans/canonleg/pkg/cite"
	"github.com/coolbeans/canonleg/pkg/extent"
	"github.com/coolbeans/canonleg/pkg/hierarchy"
	"github.com/coolbeans/canonleg/pkg/lawid"
	"github.com/coolbeans/canonleg/pkg/parallel"
	"github.com/coolbeans/canonleg/pkg/sortkey"
	"github.com/coolbeans/canonleg/pkg/typemap"
	"github.com/coolbeans/canonleg/pkg/types"
)

// ErrDuplicateSectionID reports a section_id collision the disambiguator
// could not resolve. The identity invariant is broken, so the law's whole
// output is untrustworthy and its run is aborted; other laws are unaffected.
var ErrDuplicateSectionID = errors.New("duplicate section_id after disambiguation")

// Orchestrator runs the two-pass transform. Safe for concurrent use; all
// per-law state lives on the stack of ProcessLaw.
type Orchestrator struct {
	registry            *cite.Registry
	logger              *zap.Logger
	defaultJurisdiction string
	language            string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger attaches a structured logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(orchestrator *Orchestrator) { orchestrator.logger = logger }
}

// WithDefaultJurisdiction sets the jurisdiction assumed for law names that
// carry no recognizable jurisdiction prefix. Defaults to "UK".
func WithDefaultJurisdiction(jurisdiction string) Option {
	return func(orchestrator *Orchestrator) { orchestrator.defaultJurisdiction = jurisdiction }
}

// WithLanguage sets the language code stamped on emitted sections.
// Defaults to "en".
func WithLanguage(language string) Option {
	return func(orchestrator *Orchestrator) { orchestrator.language = language }
}

// NewOrchestrator creates an orchestrator over the given prefix-table
// registry.
func NewOrchestrator(registry *cite.Registry, options ...Option) *Orchestrator {
	orchestrator := &Orchestrator{
		registry:            registry,
		logger:              zap.NewNop(),
		defaultJurisdiction: "UK",
		language:            "en",
	}
	for _, option := range options {
		option(orchestrator)
	}
	return orchestrator
}

// LawOutput is one law's finished record streams plus its processing report.
type LawOutput struct {
	LawName     string
	Sections    []*types.CanonicalSection
	Annotations []types.AnnotationRecord
	Report      types.ProcessingReport
}

// ProcessLaw runs both passes over one law's rows. Non-fatal row problems
// are flagged on the report; the only error returned is the
// identity-invariant violation, which aborts the law.
func (orchestrator *Orchestrator) ProcessLaw(rows []types.RawProvisionRecord) (*LawOutput, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows to process")
	}

	lawName := lawid.Normalize(rows[0].LawName)
	report := types.ProcessingReport{LawName: lawName, RowsIn: len(rows)}

	table := orchestrator.tableFor(lawName)

	// Pass 1: per-row build.
	var (
		sections       []*types.CanonicalSection
		citations      []string
		contentRows    []types.RawProvisionRecord
		annotationRows []types.RawProvisionRecord
	)

	for _, row := range rows {
		if typemap.Classify(row) == typemap.RowClassAnnotation {
			annotationRows = append(annotationRows, row)
			continue
		}

		section, citation := orchestrator.buildSection(table, lawName, row, &report)
		sections = append(sections, section)
		citations = append(citations, citation)
		contentRows = append(contentRows, row)
	}

	// Pass 2: law-wide qualification, identity, linkage.
	sets := parallel.DetectSets(lawName, sections)
	for _, index := range parallel.ApplyQualifiers(sections, citations, sets) {
		sections[index].SortKey = sortkey.AppendExtent(sections[index].SortKey, sections[index].ExtentCode)
	}

	for i, section := range sections {
		section.SectionID = lawName + ":" + citations[i]
	}

	for _, index := range parallel.Disambiguate(sections) {
		report.Flag(types.ReviewDisambiguated, sections[index].Position, sections[index].SectionID)
	}

	if err := parallel.VerifyUnique(sections); err != nil {
		report.Aborted = true
		report.AbortReason = err.Error()
		orchestrator.logger.Error("identity invariant broken",
			zap.String("law", lawName), zap.Error(err))
		return &LawOutput{LawName: lawName, Report: report},
			fmt.Errorf("%w: %s: %v", ErrDuplicateSectionID, lawName, err)
	}

	linker := annotate.NewLinker(lawName, contentRows, sections)
	annotations := linker.Link(annotationRows, &report)
	annotate.ApplyCounts(sections, annotations)

	sortSections(sections)

	report.SectionsOut = len(sections)
	report.AnnotationsOut = len(annotations)

	orchestrator.logger.Debug("law processed",
		zap.String("law", lawName),
		zap.Int("rows", report.RowsIn),
		zap.Int("sections", report.SectionsOut),
		zap.Int("annotations", report.AnnotationsOut),
		zap.Int("flags", len(report.Flags)))

	return &LawOutput{
		LawName:     lawName,
		Sections:    sections,
		Annotations: annotations,
		Report:      report,
	}, nil
}

// buildSection runs the per-row stages: type mapping, extent mapping,
// citation build, sort key encoding, hierarchy path.
func (orchestrator *Orchestrator) buildSection(table *cite.PrefixTable, lawName string, row types.RawProvisionRecord, report *types.ProcessingReport) (*types.CanonicalSection, string) {
	sectionType, typeMapped := typemap.Map(row.RecordType)
	if !typeMapped {
		report.Flag(types.ReviewUnmappedType, row.Position, row.RecordType)
	}

	extentCode, extentMapped := extent.Map(row.Region)
	if !extentMapped {
		report.Flag(types.ReviewUnmappedExtent, row.Position, row.Region)
	}

	citation := cite.Build(table, sectionType, row, lawName)
	if citation.MissingNumber {
		report.Flag(types.ReviewMissingProvision, row.Position, string(sectionType))
	}

	encoded := sortkey.Encode(citation.Numbering)
	if encoded.Deep {
		report.Flag(types.ReviewDeepNumbering, row.Position, citation.Numbering)
	}
	if encoded.Unparsed != "" {
		report.Flag(types.ReviewDeepNumbering, row.Position,
			fmt.Sprintf("%s: unparsed %q", citation.Numbering, encoded.Unparsed))
	}

	path, depth := hierarchy.Build(row)

	return &types.CanonicalSection{
		LawName:       lawName,
		SortKey:       encoded.Key,
		Position:      row.Position,
		Type:          sectionType,
		HierarchyPath: path,
		Depth:         depth,
		Part:          row.Part,
		Chapter:       row.Chapter,
		HeadingGroup:  row.Heading,
		Provision:     row.MergedProvision(),
		Paragraph:     row.Paragraph,
		SubParagraph:  row.SubParagraph,
		Schedule:      row.Schedule,
		Text:          row.Text,
		Language:      orchestrator.language,
		ExtentCode:    extentCode,
	}, citation.Value
}

// tableFor resolves the prefix table from the law name's jurisdiction
// prefix, falling back to the configured default.
func (orchestrator *Orchestrator) tableFor(lawName string) *cite.PrefixTable {
	jurisdiction := orchestrator.defaultJurisdiction
	if separator := strings.Index(lawName, "_"); separator > 0 {
		jurisdiction = lawName[:separator]
	}
	if table, ok := orchestrator.registry.Get(jurisdiction); ok {
		return table
	}
	if table, ok := orchestrator.registry.Get(orchestrator.defaultJurisdiction); ok {
		return table
	}
	return cite.UKTable()
}

// sortSections emits a law's output in document order. The scrape ordinal is
// the only sequence spanning numbering scopes (main body vs. each schedule);
// sort_key orders provisions within a scope and breaks ordinal ties from
// merged scrape sources.
func sortSections(sections []*types.CanonicalSection) {
	sort.SliceStable(sections, func(i, j int) bool {
		if sections[i].Position != sections[j].Position {
			return sections[i].Position < sections[j].Position
		}
		return sections[i].SortKey < sections[j].SortKey
	})
}
