// Package ingest reads scraped provision rows from NDJSON streams and
// groups them per law for the pipeline. Inputs are fully materialized by the
// upstream scraper before a run starts; this is the engine's only stream
// boundary.
package ingest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coolbeans/canonleg/pkg/types"
)

// maxRowBytes bounds a single NDJSON line; schedule text blocks run long.
const maxRowBytes = 4 * 1024 * 1024

// ReadRows decodes newline-delimited RawProvisionRecord JSON. Blank lines
// are skipped; unknown JSON fields are jurisdiction-specific extras and pass
// through ignored. Rows without a position are assigned their 1-based line
// ordinal so downstream position fallbacks stay deterministic.
func ReadRows(reader io.Reader) ([]types.RawProvisionRecord, error) {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), maxRowBytes)

	var rows []types.RawProvisionRecord
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var row types.RawProvisionRecord
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return nil, fmt.Errorf("parsing row at line %d: %w", lineNumber, err)
		}
		if row.LawName == "" {
			return nil, fmt.Errorf("row at line %d has no law_name", lineNumber)
		}
		if row.Position == 0 {
			row.Position = lineNumber
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	return rows, nil
}

// ReadRowsFile reads rows from a file path, or stdin for "-".
func ReadRowsFile(path string) ([]types.RawProvisionRecord, error) {
	if path == "-" {
		return ReadRows(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer file.Close()

	return ReadRows(file)
}

// GroupByLaw splits rows into per-law groups, preserving scrape order within
// a law and first-appearance order across laws. Grouping is by raw law_name;
// identifier normalization happens inside the pipeline.
func GroupByLaw(rows []types.RawProvisionRecord) [][]types.RawProvisionRecord {
	groupIndex := make(map[string]int)
	var groups [][]types.RawProvisionRecord

	for _, row := range rows {
		index, ok := groupIndex[row.LawName]
		if !ok {
			index = len(groups)
			groupIndex[row.LawName] = index
			groups = append(groups, nil)
		}
		groups[index] = append(groups[index], row)
	}

	return groups
}
