package schedule

import "strings"

// =============================================================================
// EXCLUSION POLICY - Category-based rule suppression
// =============================================================================

// categoryExclusion maps a category key fragment to the operation fragments
// that must never be scheduled for matching categories. The table is a slice,
// not a map: iteration order is part of the contract (substring matching is
// fuzzy, and the first matching key/fragment pair decides).
type categoryExclusion struct {
	key       string
	fragments []string
}

// Hand-curated, mirrors the workshop's VBA-era exclusion table.
var exclusionTable = []categoryExclusion{
	{
		key: "geg",
		fragments: []string{
			"frein", "chaine", "pneu", "moyeu de roue", "graissage général",
			"boite de vitesse", "cardan", "embrayage", "circuit hydraulique",
			"pompe hydraulique", "filtre hydraulique", "réservoir hydraulique",
			"faisceaux électriques",
		},
	},
	{
		key: "air comprime",
		fragments: []string{
			"frein", "chaine", "pneu", "moyeu de roue", "graissage général",
			"boite de vitesse", "cardan", "embrayage", "circuit hydraulique",
			"pompe hydraulique", "faisceaux électriques",
		},
	},
	{
		key: "leger",
		fragments: []string{
			"graissage général", "circuit hydraulique", "pompe hydraulique",
			"filtre hydraulique", "réservoir hydraulique",
			"faisceaux électriques",
		},
	},
	{
		key: "trans/marchandise 1",
		fragments: []string{
			"niveau d'huile du carter", "etanchéité des circuits", "courroie",
			"filtre à huile", "vidanger le carter moteur", "filtre à air",
			"filtre carburant", "chaine", "soupape", "boite de vitesse",
			"cardan", "embrayage", "circuit hydraulique", "pompe hydraulique",
			"filtre hydraulique", "réservoir hydraulique", "alternateur",
			"batterie", "faisceaux électriques",
		},
	},
	{
		key: "trans et v, speciaux 1",
		fragments: []string{
			"niveau d'huile du carter", "etanchéité des circuits", "courroie",
			"filtre à huile", "vidanger le carter moteur", "filtre à air",
			"filtre carburant", "chaine", "soupape", "boite de vitesse",
			"cardan", "embrayage", "circuit hydraulique", "pompe hydraulique",
			"filtre hydraulique", "réservoir hydraulique", "alternateur",
			"batterie", "faisceaux électriques",
		},
	},
	{
		key: "trans/personnel",
		fragments: []string{
			"niveau d'huile du carter", "circuit hydraulique",
			"pompe hydraulique", "filtre hydraulique", "réservoir hydraulique",
			"faisceaux électriques",
		},
	},
	{
		key: "trans/benne.r",
		fragments: []string{
			"embrayage", "chaine", "boite de vitesse", "alternateur",
			"faisceaux électriques",
		},
	},
}

// IsExcluded reports whether an operation must not be scheduled for an asset
// in the given category. An empty category excludes nothing (permissive
// default for unclassified equipment). A category may match several keys;
// any single matching key/fragment pair excludes the operation.
func IsExcluded(operation, category string) bool {
	if strings.TrimSpace(category) == "" {
		return false
	}
	catLower := strings.ToLower(strings.TrimSpace(category))
	opLower := strings.ToLower(operation)

	for _, ex := range exclusionTable {
		if !strings.Contains(catLower, ex.key) {
			continue
		}
		for _, frag := range ex.fragments {
			if strings.Contains(opLower, frag) {
				return true
			}
		}
	}
	return false
}
