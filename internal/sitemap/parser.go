package sitemap

import (
	"encoding/csv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/siteplan/internal/model"
)

// Import column layout, in order. Priority and secondary keywords are
// optional; status and notes are never present in the source sheet.
const (
	colCluster = iota
	colPrimaryKeyword
	colSearchVolume
	colIntent
	colPageType
	colFullURLPath
	colPriority
	colSecondaryKeywords

	minImportColumns = 6
)

// Sentinel parse failures. ErrNoValidRows is the only condition that should
// abort an import and reach the end user; it is distinct from an empty file
// so the UI can tell "nothing uploaded" from "wrong column format".
var (
	ErrEmptyInput  = eris.New("sitemap: import input is empty")
	ErrNoValidRows = eris.New("sitemap: no valid rows in import input")
	errShortRow    = eris.New("sitemap: row has fewer than 6 fields")
	errHeaderRow   = eris.New("sitemap: header row")
	errEmptyPath   = eris.New("sitemap: row has no page path")
)

// Parse turns raw comma- or tab-delimited text into page records.
// The delimiter is auto-detected, an optional header row is skipped, and
// rows with fewer than six usable fields or without a page path are dropped
// silently. Returns ErrEmptyInput for blank input and ErrNoValidRows when
// non-empty input yields zero records.
func Parse(raw string) ([]model.PageRecord, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyInput
	}

	reader := csv.NewReader(strings.NewReader(raw))
	reader.Comma = detectDelimiter(raw)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "sitemap: read import input")
	}

	var records []model.PageRecord
	for i, row := range rows {
		rec, convErr := recordFromRow(row, i == 0)
		if convErr != nil {
			continue
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrNoValidRows
	}
	return records, nil
}

// recordFromRow converts one delimited row into a record. The first row is
// treated as a header when its volume cell holds no digits and its path cell
// does not look like a path.
func recordFromRow(row []string, first bool) (model.PageRecord, error) {
	fields := make([]string, len(row))
	used := 0
	for i, f := range row {
		fields[i] = strings.TrimSpace(f)
		if fields[i] != "" {
			used = i + 1
		}
	}
	if used < minImportColumns {
		return model.PageRecord{}, errShortRow
	}

	if first && !strings.ContainsAny(fields[colSearchVolume], "0123456789") &&
		!strings.HasPrefix(fields[colFullURLPath], "/") {
		return model.PageRecord{}, errHeaderRow
	}

	// A path cell that normalizes to bare "/" carries no segments, so the
	// row has no place in the site tree. Skip it like any other unusable row
	// to keep tree rollups and flat stats computed over the same records.
	path := NormalizePath(fields[colFullURLPath])
	if path == "/" {
		return model.PageRecord{}, errEmptyPath
	}

	rec := model.PageRecord{
		ClusterName:    fields[colCluster],
		PrimaryKeyword: fields[colPrimaryKeyword],
		SearchVolume:   parseVolume(fields[colSearchVolume]),
		Intent:         fields[colIntent],
		PageType:       fields[colPageType],
		FullURLPath:    path,
		Status:         model.StatusPlanned,
	}
	if len(fields) > colPriority {
		rec.Priority = fields[colPriority]
	}
	if len(fields) > colSecondaryKeywords {
		rec.SecondaryKeywords = splitKeywords(fields[colSecondaryKeywords])
	}
	return rec, nil
}

// detectDelimiter picks tab when the first line contains one, comma otherwise.
func detectDelimiter(raw string) rune {
	line := raw
	if idx := strings.IndexByte(raw, '\n'); idx >= 0 {
		line = raw[:idx]
	}
	if strings.ContainsRune(line, '\t') {
		return '\t'
	}
	return ','
}

// parseVolume strips everything but digits and converts; anything that
// leaves no digits behind becomes zero.
func parseVolume(s string) int {
	n := 0
	seen := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}
		seen = true
		n = n*10 + int(c-'0')
	}
	if !seen {
		return 0
	}
	return n
}

// splitKeywords splits a semicolon-separated keyword cell, trimming each
// piece and dropping empties.
func splitKeywords(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, kw := range strings.Split(s, ";") {
		kw = strings.TrimSpace(kw)
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
