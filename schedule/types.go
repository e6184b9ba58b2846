/*
Package schedule provides the preventive maintenance calendar engine.

PURPOSE:
  This package contains the types and algorithms that turn a fleet of assets
  and a set of interval-based maintenance rules into a concrete, dated
  calendar of upcoming operations. The calendar is never persisted: it is
  recomputed on demand for a requested year range.

KEY CONCEPTS IN THIS FILE (types.go):
  - MaintenanceType: C (contrôle), N (nettoyage), CH (changement)
  - Rule: an (operation, type, interval) triple from the parameter table
  - Asset: an equipment item identified by its matricule
  - Entry: one dated occurrence of an operation for one asset

DESIGN PRINCIPLES:
  1. Immutability: rules and the operations catalog never change after load
  2. Determinism: Generate is a pure function of its inputs
  3. Permissiveness: malformed source rows are dropped, never fatal

SEE ALSO:
  - operations.go: Canonical operations catalog and label matching
  - exclusions.go: Category-based rule suppression
  - generator.go: Calendar expansion
  - alerts.go: Urgency-classified alerting view
*/
package schedule

// =============================================================================
// MAINTENANCE TYPE - Fixed three-code enumeration
// =============================================================================

// MaintenanceType is one of the three service codes used throughout the
// workshop's parameter table.
type MaintenanceType string

const (
	TypeInspection  MaintenanceType = "C"  // contrôle
	TypeCleaning    MaintenanceType = "N"  // nettoyage
	TypeReplacement MaintenanceType = "CH" // changement
)

var typeLabels = map[MaintenanceType]string{
	TypeInspection:  "Contrôle",
	TypeCleaning:    "Nettoyage",
	TypeReplacement: "Changement",
}

var typePriorities = map[MaintenanceType]int{
	TypeReplacement: 3,
	TypeCleaning:    2,
	TypeInspection:  1,
}

// ParseMaintenanceType reports whether s is one of the three valid codes.
func ParseMaintenanceType(s string) (MaintenanceType, bool) {
	t := MaintenanceType(s)
	_, ok := typeLabels[t]
	return t, ok
}

// Label returns the human-readable name for the code.
func (t MaintenanceType) Label() string { return typeLabels[t] }

// Priority returns the scheduling priority (CH=3, N=2, C=1).
// Priority is a pure function of the type; it never varies per rule.
func (t MaintenanceType) Priority() int { return typePriorities[t] }

func (t MaintenanceType) Valid() bool {
	_, ok := typeLabels[t]
	return ok
}

// =============================================================================
// RULE - One recurring maintenance obligation
// =============================================================================

// Rule says that an operation recurs every IntervalDays days with a given
// service type. Multiple rules may reference the same operation with
// different intervals or types; no deduplication is performed.
type Rule struct {
	Operation    string
	Type         MaintenanceType
	IntervalDays int
}

// Priority is derived from the rule's type.
func (r Rule) Priority() int { return r.Type.Priority() }

// TypeName is the human label of the rule's type.
func (r Rule) TypeName() string { return r.Type.Label() }

// =============================================================================
// ASSET - An equipment item (read-only to this package)
// =============================================================================

// Asset is one tracked piece of equipment. Categorie is the free-text
// classification the exclusion policy keys on.
type Asset struct {
	Matricule   string
	Designation string
	Categorie   string
}

// =============================================================================
// ENTRY - One dated occurrence (generated, never persisted)
// =============================================================================

// Entry is one concrete occurrence of an operation for an asset. Entries are
// ephemeral: Generate recomputes them for every requested range, and they
// have no identity beyond their field tuple.
type Entry struct {
	Matricule    string          `json:"matricule"`
	Engin        string          `json:"engin"`
	Categorie    string          `json:"categorie"`
	Date         Date            `json:"date"`
	Year         int             `json:"annee"`
	Operation    string          `json:"operation"`
	Type         MaintenanceType `json:"type"`
	TypeName     string          `json:"type_nom"`
	IntervalDays int             `json:"intervalle_jours"`
}
