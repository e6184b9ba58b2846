package schedule

import "strings"

// =============================================================================
// OPERATIONS CATALOG - The official operations list (order preserved)
// =============================================================================

// Operations is the canonical catalog of maintenance operations. The order
// matters: label matching takes the FIRST catalog entry that matches, so
// reordering this list can change which operation an ambiguous parameter-table
// label resolves to. Known fragility, kept as-is.
var Operations = []string{
	"Niveau d'huile du carter",
	"Etanchéité de tous les circuits",
	"Frein",
	"courroie",
	"Filtre à huile",
	"Vidanger le carter moteur",
	"Filtre à air",
	"Filtre carburant",
	"chaine",
	"soupape",
	"Graissage général",
	"moyeu de roue",
	"pneu",
	"boite de vitesse",
	"cardan",
	"embrayage",
	"circuit hydraulique",
	"pompe hydraulique",
	"Filtre hydraulique",
	"Réservoir hydraulique",
	"alternateur",
	"batterie",
	"Faisceaux électriques",
}

// NormalizeLabel prepares a free-text operation label for catalog matching:
// any parenthetical suffix is stripped, then the label is trimmed and
// lowercased. "Filtre à huile (moteur)" becomes "filtre à huile".
func NormalizeLabel(label string) string {
	if i := strings.Index(label, " ("); i >= 0 {
		label = label[:i]
	}
	return strings.ToLower(strings.TrimSpace(label))
}

// MatchOperation resolves a free-text label from the parameter table to a
// canonical operation. Matching is bidirectional substring containment
// against the lowercased catalog entry, first match in catalog order.
// Returns false when no catalog entry matches; callers drop such rows.
func MatchOperation(label string) (string, bool) {
	clean := NormalizeLabel(label)
	if clean == "" {
		return "", false
	}
	for _, op := range Operations {
		lower := strings.ToLower(op)
		if strings.Contains(clean, lower) || strings.Contains(lower, clean) {
			return op, true
		}
	}
	return "", false
}
