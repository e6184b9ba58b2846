/*
Package params extracts maintenance rules from the workshop's parameter table.

PURPOSE:
  The parameter table (the "Param" export) is a loosely structured spreadsheet:
  one free-text operation-label column, one column per supported interval
  marked with "*", and a set of type-indicator columns holding C/N/CH codes.
  This package turns those rows into the immutable rule set the schedule
  engine consumes.

WHY SO PERMISSIVE?
  The source is a hand-maintained spreadsheet. Unmatched labels, unmarked
  intervals and unresolved types are expected, not exceptional: offending
  rows simply contribute no rules. Nothing here ever aborts the batch.

COLUMN NAMES:
  Column names follow the source export, including the ".1" suffixes the
  exporter appends to duplicated headers ("Nettoyage" and "Nettoyage.1").
  The type-indicator scan order is fixed; when several columns on one row
  hold a valid code, the first in that order wins. This mirrors the source
  table's historical behavior and is kept as-is.

USAGE:
  table, _ := etl.ReadTable(file)
  cat := params.NewCatalog(etl.ParamRows(table))
  entries, err := schedule.Generate(assets, cat.Rules(), 2026, 2028)

SEE ALSO:
  - schedule/operations.go: Canonical catalog and label matching
  - etl/csv.go: Reading the cp1252 semicolon-separated export
*/
package params

import (
	"strings"

	"github.com/parcops/maintenance-engine/schedule"
)

// OperationColumn is the header of the free-text operation-label column in
// the parameter table export.
const OperationColumn = "Opération « poste intervention »"

// intervalColumns are the supported recurrence intervals, as column headers.
var intervalColumns = []string{"7", "30", "90", "180", "360"}

// typeColumns is the fixed scan order for type-indicator columns.
var typeColumns = []string{"Contrôler", "Nettoyage", "Nettoyage.1", "Changement", "Changement.1"}

// Marker is the cell value that flags an interval column as active.
const Marker = "*"

// Row is one parameter-table row, keyed by column header.
type Row map[string]string

// ExtractRules produces the rule set from the parameter table. Each row may
// contribute zero, one or several rules (one per marked interval column).
// Duplicate (operation, interval) rules from distinct rows are both kept.
func ExtractRules(rows []Row) []schedule.Rule {
	var rules []schedule.Rule

	for _, row := range rows {
		label := strings.TrimSpace(row[OperationColumn])
		if label == "" {
			continue
		}

		operation, ok := schedule.MatchOperation(label)
		if !ok {
			continue // label matches nothing in the catalog: silent drop
		}

		for _, col := range intervalColumns {
			if strings.TrimSpace(row[col]) != Marker {
				continue
			}

			maintType, ok := resolveType(row)
			if !ok {
				continue // marked interval without a type code contributes nothing
			}

			rules = append(rules, schedule.Rule{
				Operation:    operation,
				Type:         maintType,
				IntervalDays: intervalDays(col),
			})
		}
	}
	return rules
}

// resolveType scans the type-indicator columns in fixed order and returns
// the first valid C/N/CH code found on the row.
func resolveType(row Row) (schedule.MaintenanceType, bool) {
	for _, col := range typeColumns {
		if t, ok := schedule.ParseMaintenanceType(strings.TrimSpace(row[col])); ok {
			return t, true
		}
	}
	return "", false
}

func intervalDays(col string) int {
	switch col {
	case "7":
		return 7
	case "30":
		return 30
	case "90":
		return 90
	case "180":
		return 180
	case "360":
		return 360
	}
	return 0
}

// =============================================================================
// CATALOG - Immutable, explicitly constructed rule set
// =============================================================================

// Catalog is the rule set built once from the parameter table. It is
// read-only after construction and safe to share across goroutines without
// locking; callers that want process-wide caching hold a single instance.
type Catalog struct {
	rules []schedule.Rule
}

// NewCatalog extracts rules from the given rows and freezes them.
func NewCatalog(rows []Row) *Catalog {
	return &Catalog{rules: ExtractRules(rows)}
}

// Rules returns a copy of the rule set, preserving extraction order.
func (c *Catalog) Rules() []schedule.Rule {
	out := make([]schedule.Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Len returns the number of extracted rules.
func (c *Catalog) Len() int { return len(c.rules) }
