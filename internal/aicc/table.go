// Package aicc implements the AICC table reader and prerequisite
// expression parser (component C4): decoding the comma/tab-separated
// .crs/.des/.au/.cst/.ort/.pre/.cmp tables into keyed records, and
// parsing the infix prerequisite expressions those tables embed.
package aicc

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
)

// Table is one decoded AICC file: a header row plus one record per data
// row, both upper-cased-insensitively addressable by column name.
type Table struct {
	Header  []string // original casing, column order preserved
	Records []Record
}

// Record is one data row, addressable by column name case-insensitively.
type Record map[string]string

// Get looks up a column value case-insensitively, returning "" if absent.
func (r Record) Get(col string) string {
	for k, v := range r {
		if strings.EqualFold(k, col) {
			return v
		}
	}
	return ""
}

// ReadTable decodes an AICC table. Real AICC files mix comma- and
// tab-separated variants and sometimes mixed line endings; encoding/csv's
// default comma separator handles RFC 4180-style quoting for the common
// case, so ReadTable first sniffs the header line for the more common
// delimiter between comma and tab before handing the rest to csv.Reader.
func ReadTable(r io.Reader) (*Table, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	normalized := normalizeLineEndings(string(content))
	if strings.TrimSpace(normalized) == "" {
		return &Table{}, nil
	}

	delim := sniffDelimiter(normalized)

	cr := csv.NewReader(strings.NewReader(normalized))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	header := rows[0]
	t := &Table{Header: header}
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		rec := make(Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

func isBlankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// sniffDelimiter inspects the header line and picks tab when it
// dominates, comma otherwise — AICC's own spec allows either, and
// real-world courseware mixes both across files in the same package.
func sniffDelimiter(content string) rune {
	scanner := bufio.NewScanner(strings.NewReader(content))
	if !scanner.Scan() {
		return ','
	}
	header := scanner.Text()
	if strings.Count(header, "\t") > strings.Count(header, ",") {
		return '\t'
	}
	return ','
}

// KeyValueTable decodes the .crs file's key=value style sections, e.g.:
//
//	[Course]
//	Course_Creator=Acme
//	Course_Title=Golf
//
// Returned as an ordered slice of (section, key, value) so callers that
// need insertion order (the courseDescription back-compat rule, spec 4.4)
// can reconstruct it faithfully. A non-comment line without "=" (such as
// free text under [Course_Description]) is kept as an entry whose Key is
// the whole line and whose Value is empty.
type KeyValueEntry struct {
	Section string
	Key     string
	Value   string
}

func ReadKeyValueTable(r io.Reader) ([]KeyValueEntry, error) {
	scanner := bufio.NewScanner(r)
	var out []KeyValueEntry
	section := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			out = append(out, KeyValueEntry{Section: section, Key: line})
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		out = append(out, KeyValueEntry{Section: section, Key: key, Value: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
