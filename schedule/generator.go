package schedule

// =============================================================================
// GENERATOR - Expands rules into the dated maintenance calendar
// =============================================================================

// Generate produces the full maintenance calendar for the fleet across
// [Jan 1 startYear, Dec 31 endYear] inclusive. For each asset, every rule
// that survives the category exclusion policy is expanded into an arithmetic
// date sequence: start of range, stepping by exactly IntervalDays, bounded by
// the end of range. Pure fixed-day-count stepping, no month arithmetic.
//
// Generate is deterministic and side-effect-free: the same inputs always
// yield the same entry set, and independent calls (one per year, one per
// asset) may be parallelized by the caller and concatenated.
//
// Cost is O(assets × applicable rules × occurrences-per-rule); the exclusion
// check runs once per (asset, rule), never per occurrence.
func Generate(assets []Asset, rules []Rule, startYear, endYear int) ([]Entry, error) {
	if startYear <= 0 || endYear <= 0 || startYear > endYear {
		return nil, &RangeError{StartYear: startYear, EndYear: endYear}
	}

	start := StartOfYear(startYear)
	end := EndOfYear(endYear)

	entries := make([]Entry, 0)
	for _, asset := range assets {
		entries = append(entries, expandAsset(asset, rules, start, end)...)
	}
	return entries, nil
}

// GenerateForAsset expands the calendar for a single asset over [start, end].
// Callers that parallelize per asset use this directly and concatenate.
func GenerateForAsset(asset Asset, rules []Rule, start, end Date) []Entry {
	return expandAsset(asset, rules, start, end)
}

func expandAsset(asset Asset, rules []Rule, start, end Date) []Entry {
	var entries []Entry

	for _, rule := range rules {
		// An excluded operation is skipped wholesale for this asset,
		// regardless of interval. Empty or unknown categories match no
		// exclusion key and therefore receive the full rule set.
		if IsExcluded(rule.Operation, asset.Categorie) {
			continue
		}

		for current := start; current.BeforeOrEqual(end); current = current.AddDays(rule.IntervalDays) {
			entries = append(entries, Entry{
				Matricule:    asset.Matricule,
				Engin:        asset.Designation,
				Categorie:    asset.Categorie,
				Date:         current,
				Year:         current.Year(),
				Operation:    rule.Operation,
				Type:         rule.Type,
				TypeName:     rule.TypeName(),
				IntervalDays: rule.IntervalDays,
			})
		}
	}
	return entries
}
