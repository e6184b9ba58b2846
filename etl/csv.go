/*
Package etl loads the workshop's CSV exports into the record store.

PURPOSE:
  The source data is a set of spreadsheet exports: MATRICE (the fleet),
  Param (the maintenance parameter table), VIDANGE (service history) and
  SUIVI_CURATIF (curative interventions). All of them are Windows-1252
  encoded, semicolon-separated, and hand-maintained - ragged rows and odd
  cells are normal. This package reads that dialect and feeds the store.

ERROR POSTURE:
  Row-level problems (unknown matricule, unparseable date, missing cells)
  are logged and skipped. Only file-level failures (unreadable input) abort.

SEE ALSO:
  - importer.go: Per-file import logic
  - params: Rule extraction from the Param table
*/
package etl

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Table is one parsed CSV export: a header row plus one map per data row,
// keyed by header name.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// ReadTable parses a Windows-1252, semicolon-separated export. Duplicate
// headers get ".1", ".2" suffixes, matching how the source exports name
// them (the Param table has two "Nettoyage" and two "Changement" columns).
// Short rows are padded with empty cells; extra cells are dropped.
func ReadTable(r io.Reader) (*Table, error) {
	decoded := transform.NewReader(r, charmap.Windows1252.NewDecoder())

	cr := csv.NewReader(decoded)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	headers := dedupeHeaders(records[0])

	table := &Table{Headers: headers}
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func dedupeHeaders(raw []string) []string {
	seen := make(map[string]int, len(raw))
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if n, ok := seen[h]; ok {
			seen[h] = n + 1
			headers[i] = fmt.Sprintf("%s.%d", h, n)
		} else {
			seen[h] = 1
			headers[i] = h
		}
	}
	return headers
}

// parseDate handles the day-first date formats found in the exports.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"02/01/2006", "2/1/2006", "02/01/06", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseCounter reads a km/hour counter cell. The exports use thousands
// separators and sometimes decimals.
func parseCounter(s string) (int, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
