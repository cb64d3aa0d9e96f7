package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/coolbeans/canonleg/pkg/types"
)

// Sink receives finished law outputs. Implementations must tolerate
// concurrent WriteLaw calls; a single call owns both streams for the
// duration of its law, so one law's records are never interleaved with
// another's.
type Sink interface {
	WriteLaw(output *LawOutput) error
}

// NDJSONSink writes sections and annotations as newline-delimited JSON to
// two writers. One mutex spans both streams so a law lands atomically.
type NDJSONSink struct {
	mu          sync.Mutex
	sections    io.Writer
	annotations io.Writer
}

// NewNDJSONSink creates a sink over the two output streams.
func NewNDJSONSink(sections, annotations io.Writer) *NDJSONSink {
	return &NDJSONSink{sections: sections, annotations: annotations}
}

// WriteLaw appends one law's records to both streams.
func (sink *NDJSONSink) WriteLaw(output *LawOutput) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()

	sectionEncoder := json.NewEncoder(sink.sections)
	for _, section := range output.Sections {
		if err := sectionEncoder.Encode(section); err != nil {
			return fmt.Errorf("writing section %s: %w", section.SectionID, err)
		}
	}

	annotationEncoder := json.NewEncoder(sink.annotations)
	for _, annotation := range output.Annotations {
		if err := annotationEncoder.Encode(annotation); err != nil {
			return fmt.Errorf("writing annotation %s: %w", annotation.ID, err)
		}
	}

	return nil
}

// JSONArraySink buffers all records and writes each stream as a single
// indented JSON array on Flush. Suited to exports consumed whole; for
// large runs prefer NDJSONSink.
type JSONArraySink struct {
	mu          sync.Mutex
	sections    io.Writer
	annotations io.Writer
	sectionBuf  []*types.CanonicalSection
	annotBuf    []types.AnnotationRecord
}

// NewJSONArraySink creates a buffering sink over the two output streams.
func NewJSONArraySink(sections, annotations io.Writer) *JSONArraySink {
	return &JSONArraySink{sections: sections, annotations: annotations}
}

// WriteLaw buffers one law's records.
func (sink *JSONArraySink) WriteLaw(output *LawOutput) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.sectionBuf = append(sink.sectionBuf, output.Sections...)
	sink.annotBuf = append(sink.annotBuf, output.Annotations...)
	return nil
}

// Flush writes the buffered records as two JSON arrays. Empty streams
// produce "[]" rather than null.
func (sink *JSONArraySink) Flush() error {
	sink.mu.Lock()
	defer sink.mu.Unlock()

	sections := sink.sectionBuf
	if sections == nil {
		sections = []*types.CanonicalSection{}
	}
	sectionEncoder := json.NewEncoder(sink.sections)
	sectionEncoder.SetIndent("", "  ")
	if err := sectionEncoder.Encode(sections); err != nil {
		return fmt.Errorf("writing section array: %w", err)
	}

	annotations := sink.annotBuf
	if annotations == nil {
		annotations = []types.AnnotationRecord{}
	}
	annotationEncoder := json.NewEncoder(sink.annotations)
	annotationEncoder.SetIndent("", "  ")
	if err := annotationEncoder.Encode(annotations); err != nil {
		return fmt.Errorf("writing annotation array: %w", err)
	}
	return nil
}

// MemorySink collects outputs in memory, for tests and small runs.
type MemorySink struct {
	mu      sync.Mutex
	outputs []*LawOutput
}

// WriteLaw stores the output.
func (sink *MemorySink) WriteLaw(output *LawOutput) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	sink.outputs = append(sink.outputs, output)
	return nil
}

// Outputs returns the collected law outputs.
func (sink *MemorySink) Outputs() []*LawOutput {
	sink.mu.Lock()
	defer sink.mu.Unlock()
	collected := make([]*LawOutput, len(sink.outputs))
	copy(collected, sink.outputs)
	return collected
}

// Sections flattens all collected sections, for assertions.
func (sink *MemorySink) Sections() []*types.CanonicalSection {
	var sections []*types.CanonicalSection
	for _, output := range sink.Outputs() {
		sections = append(sections, output.Sections...)
	}
	return sections
}
