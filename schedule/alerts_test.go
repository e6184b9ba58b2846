package schedule_test

import (
	"testing"
	"time"

	"github.com/parcops/maintenance-engine/schedule"
)

// =============================================================================
// URGENCY CLASSIFICATION TESTS
// =============================================================================

func TestClassifyUrgency_Boundaries(t *testing.T) {
	tests := []struct {
		days int
		want schedule.Urgency
	}{
		{0, schedule.UrgencyUrgent},
		{15, schedule.UrgencyUrgent},
		{16, schedule.UrgencyUpcoming},
		{30, schedule.UrgencyUpcoming},
		{31, schedule.UrgencyPlanned},
		{90, schedule.UrgencyPlanned},
	}
	for _, tt := range tests {
		if got := schedule.ClassifyUrgency(tt.days); got != tt.want {
			t.Errorf("ClassifyUrgency(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

// =============================================================================
// ALERT WINDOW TESTS
// =============================================================================

func entryOn(matricule string, d schedule.Date) schedule.Entry {
	return schedule.Entry{
		Matricule: matricule,
		Date:      d,
		Year:      d.Year(),
		Operation: "Frein",
		Type:      schedule.TypeInspection,
		TypeName:  "Contrôle",
	}
}

func TestAlerts_WindowAndTiers(t *testing.T) {
	// GIVEN: Today is 2026-06-01 and a 90-day window
	// WHEN: Filtering entries at +9, +24, +80 and +106 days
	// THEN: The first three are kept with Urgent/Proche/Planifié tiers,
	//       the fourth falls outside the window

	today := date(2026, time.June, 1)
	entries := []schedule.Entry{
		entryOn("ENG-001", date(2026, time.June, 10)),      // +9
		entryOn("ENG-002", date(2026, time.June, 25)),      // +24
		entryOn("ENG-003", date(2026, time.August, 20)),    // +80
		entryOn("ENG-004", date(2026, time.September, 15)), // +106, outside
	}

	alerts := schedule.Alerts(entries, today, 90)
	if len(alerts) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(alerts))
	}

	want := []struct {
		matricule string
		days      int
		urgency   schedule.Urgency
	}{
		{"ENG-001", 9, schedule.UrgencyUrgent},
		{"ENG-002", 24, schedule.UrgencyUpcoming},
		{"ENG-003", 80, schedule.UrgencyPlanned},
	}
	for i, w := range want {
		if alerts[i].Matricule != w.matricule {
			t.Errorf("alert %d: matricule %q, want %q", i, alerts[i].Matricule, w.matricule)
		}
		if alerts[i].DaysUntil != w.days {
			t.Errorf("alert %d: days %d, want %d", i, alerts[i].DaysUntil, w.days)
		}
		if alerts[i].Urgency != w.urgency {
			t.Errorf("alert %d: urgency %q, want %q", i, alerts[i].Urgency, w.urgency)
		}
	}
}

func TestAlerts_PastEntriesExcluded(t *testing.T) {
	// GIVEN: An entry due yesterday and one due today
	// WHEN: Filtering with any window
	// THEN: Yesterday is dropped, today is kept at day zero

	today := date(2026, time.June, 1)
	entries := []schedule.Entry{
		entryOn("ENG-001", date(2026, time.May, 31)),
		entryOn("ENG-002", date(2026, time.June, 1)),
	}

	alerts := schedule.Alerts(entries, today, 30)
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].Matricule != "ENG-002" || alerts[0].DaysUntil != 0 {
		t.Errorf("expected ENG-002 at day 0, got %s at day %d",
			alerts[0].Matricule, alerts[0].DaysUntil)
	}
}

func TestAlerts_SortedByProximityThenMatricule(t *testing.T) {
	// GIVEN: Entries out of order, two of them on the same day
	// WHEN: Building alerts
	// THEN: Sorted ascending by days until due, ties broken by matricule

	today := date(2026, time.June, 1)
	entries := []schedule.Entry{
		entryOn("ZZZ-900", date(2026, time.June, 5)),
		entryOn("AAA-100", date(2026, time.June, 5)),
		entryOn("MMM-500", date(2026, time.June, 3)),
	}

	alerts := schedule.Alerts(entries, today, 30)
	got := []string{alerts[0].Matricule, alerts[1].Matricule, alerts[2].Matricule}
	want := []string{"MMM-500", "AAA-100", "ZZZ-900"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

// =============================================================================
// CALENDAR ORDERING TESTS
// =============================================================================

func TestSortByDate(t *testing.T) {
	// GIVEN: Entries grouped by asset, as Generate produces them
	// WHEN: Sorting for display
	// THEN: Chronological order, then matricule, then operation

	entries := []schedule.Entry{
		{Matricule: "B", Date: date(2026, time.March, 1), Operation: "Frein"},
		{Matricule: "A", Date: date(2026, time.January, 1), Operation: "pneu"},
		{Matricule: "A", Date: date(2026, time.January, 1), Operation: "Frein"},
		{Matricule: "B", Date: date(2026, time.January, 1), Operation: "Frein"},
	}

	schedule.SortByDate(entries)

	want := []struct {
		matricule, op string
	}{
		{"A", "Frein"},
		{"A", "pneu"},
		{"B", "Frein"},
		{"B", "Frein"},
	}
	for i, w := range want {
		if entries[i].Matricule != w.matricule || entries[i].Operation != w.op {
			t.Fatalf("position %d: got %s/%s, want %s/%s",
				i, entries[i].Matricule, entries[i].Operation, w.matricule, w.op)
		}
	}
}
