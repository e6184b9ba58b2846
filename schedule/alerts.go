package schedule

import "sort"

// =============================================================================
// ALERTS - Urgency-classified view over the generated calendar
// =============================================================================

// Urgency is the three-tier classification of how close an occurrence is.
// The string values are the labels shown on the dashboard and in exports.
type Urgency string

const (
	UrgencyUrgent   Urgency = "Urgent"   // due within 15 days
	UrgencyUpcoming Urgency = "Proche"   // due within 16-30 days
	UrgencyPlanned  Urgency = "Planifié" // due within 31 days to the window
)

// ClassifyUrgency maps days-until-due to an urgency tier. Boundaries are
// inclusive on the lower thresholds: 15 is still Urgent, 30 still Proche.
func ClassifyUrgency(daysUntil int) Urgency {
	switch {
	case daysUntil <= 15:
		return UrgencyUrgent
	case daysUntil <= 30:
		return UrgencyUpcoming
	default:
		return UrgencyPlanned
	}
}

// Alert is one calendar entry annotated with its proximity to a reference
// date.
type Alert struct {
	Entry
	DaysUntil int     `json:"jours"`
	Urgency   Urgency `json:"urgence"`
}

// Alerts filters a generated calendar down to the entries falling within
// [today, today+windowDays] and tags each with its urgency. Past entries and
// entries beyond the window are excluded. The result is sorted by days until
// due, then matricule, for stable display.
func Alerts(entries []Entry, today Date, windowDays int) []Alert {
	var alerts []Alert
	for _, e := range entries {
		days := DaysBetween(today, e.Date)
		if days < 0 || days > windowDays {
			continue
		}
		alerts = append(alerts, Alert{
			Entry:     e,
			DaysUntil: days,
			Urgency:   ClassifyUrgency(days),
		})
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].DaysUntil != alerts[j].DaysUntil {
			return alerts[i].DaysUntil < alerts[j].DaysUntil
		}
		return alerts[i].Matricule < alerts[j].Matricule
	})
	return alerts
}

// SortByDate orders a calendar by date, then matricule, then operation.
// Generation order groups entries per asset; display callers want
// chronological order.
func SortByDate(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		if entries[i].Matricule != entries[j].Matricule {
			return entries[i].Matricule < entries[j].Matricule
		}
		return entries[i].Operation < entries[j].Operation
	})
}
