/*
handlers_test.go - HTTP-level tests for the maintenance API

Tests for:
- Asset CRUD and validation
- Job scheduling conflicts and completion
- Calendar generation, filters and range validation
- CSV export and the alerts view
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/parcops/maintenance-engine/params"
	"github.com/parcops/maintenance-engine/schedule"
	"github.com/parcops/maintenance-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.Store) {
	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	catalog := params.NewCatalog([]params.Row{
		{
			params.OperationColumn: "Frein",
			"30":                   params.Marker,
			"Contrôler":            "C",
		},
		{
			params.OperationColumn: "Filtre à huile (moteur)",
			"90":                   params.Marker,
			"Changement":           "CH",
		},
	})

	srv := httptest.NewServer(NewRouter(NewHandler(store, catalog)))
	t.Cleanup(srv.Close)
	return srv, store
}

func seedAsset(t *testing.T, store *sqlite.Store, id, category string) {
	t.Helper()
	err := store.SaveAsset(context.Background(), sqlite.Asset{
		ID:       id,
		Name:     "Asset " + id,
		Category: category,
	})
	if err != nil {
		t.Fatalf("Failed to seed asset: %v", err)
	}
}

func seedPlan(t *testing.T, store *sqlite.Store, id, assetID string, everyDays int) {
	t.Helper()
	err := store.SavePlan(context.Background(), sqlite.Plan{
		ID:        id,
		AssetID:   assetID,
		TypeCode:  "C",
		EveryDays: everyDays,
	})
	if err != nil {
		t.Fatalf("Failed to seed plan: %v", err)
	}
}

func getJSON(t *testing.T, url string, wantStatus int, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s: status %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
}

// =============================================================================
// ASSET ENDPOINT TESTS
// =============================================================================

func TestCreateAsset_RoundTrip(t *testing.T) {
	// GIVEN: An empty fleet
	// WHEN: Creating an asset, then fetching it
	// THEN: 201 on create, 200 with the same data on fetch

	srv, _ := newTestServer(t)

	body := `{"id":"ENG-001","name":"Chargeuse","categorie":"Engins","km":12000}`
	resp, err := http.Post(srv.URL+"/api/assets", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var got AssetDTO
	getJSON(t, srv.URL+"/api/assets/ENG-001", http.StatusOK, &got)
	if got.Name != "Chargeuse" || got.Categorie != "Engins" || got.Km != 12000 {
		t.Errorf("unexpected asset: %+v", got)
	}
}

func TestCreateAsset_MissingFieldsRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, body := range []string{`{"name":"no id"}`, `{"id":"X-1"}`, `not json`} {
		resp, err := http.Post(srv.URL+"/api/assets", "application/json", strings.NewReader(body))
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, resp.StatusCode)
		}
	}
}

func TestGetAsset_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	var errResp ErrorResponse
	getJSON(t, srv.URL+"/api/assets/missing", http.StatusNotFound, &errResp)
	if errResp.Error == "" {
		t.Error("expected an error message")
	}
}

func TestListAssetPlans(t *testing.T) {
	// GIVEN: An asset with one plan and an unrelated plan
	// WHEN: Listing the asset's plans
	// THEN: Only the attached plan is returned; an unknown asset yields 404

	srv, store := newTestServer(t)
	seedAsset(t, store, "ENG-001", "Engins")
	seedAsset(t, store, "ENG-002", "Engins")
	seedPlan(t, store, "plan-1", "ENG-001", 90)
	seedPlan(t, store, "plan-2", "ENG-002", 30)

	var plans []PlanDTO
	getJSON(t, srv.URL+"/api/assets/ENG-001/plans", http.StatusOK, &plans)
	if len(plans) != 1 || plans[0].ID != "plan-1" {
		t.Errorf("unexpected plans: %+v", plans)
	}

	getJSON(t, srv.URL+"/api/assets/missing/plans", http.StatusNotFound, nil)
}

// =============================================================================
// JOB ENDPOINT TESTS
// =============================================================================

func TestScheduleJob_ConflictWhenAlreadyOpen(t *testing.T) {
	// GIVEN: A plan with no open job
	// WHEN: Scheduling twice
	// THEN: First call creates the job (201), second is rejected (409)

	srv, store := newTestServer(t)
	seedAsset(t, store, "ENG-001", "Engins")
	seedPlan(t, store, "plan-1", "ENG-001", 90)

	var job JobDTO
	resp, err := http.Post(srv.URL+"/api/plans/plan-1/schedule", "application/json", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		t.Fatalf("Failed to decode job: %v", err)
	}
	resp.Body.Close()
	if job.PlanID != "plan-1" || job.Status != sqlite.StatusPlanned {
		t.Errorf("unexpected job: %+v", job)
	}

	resp, err = http.Post(srv.URL+"/api/plans/plan-1/schedule", "application/json", nil)
	if err != nil {
		t.Fatalf("second POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error: %v", err)
	}
	if !strings.Contains(errResp.Error, job.ID) {
		t.Errorf("conflict message should name the open job, got %q", errResp.Error)
	}
}

func TestScheduleJob_UnknownPlan(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/plans/missing/schedule", "application/json", nil)
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestMarkJobDone_ClosesAndRolls(t *testing.T) {
	// GIVEN: An open job on a 90-day plan
	// WHEN: Marking it done over HTTP
	// THEN: 200 with a done job; the plan's next due moved ~90 days out

	srv, store := newTestServer(t)
	ctx := context.Background()
	seedAsset(t, store, "ENG-001", "Engins")
	seedPlan(t, store, "plan-1", "ENG-001", 90)
	if err := store.SaveJob(ctx, sqlite.Job{
		ID: "job-1", PlanID: "plan-1",
		DueDt: time.Now().UTC(), Status: sqlite.StatusPlanned,
	}); err != nil {
		t.Fatalf("Failed to seed job: %v", err)
	}

	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/api/jobs/job-1/done", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var job JobDTO
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		t.Fatalf("Failed to decode job: %v", err)
	}
	if job.Status != sqlite.StatusDone || job.DoneDt == nil {
		t.Errorf("job should be done: %+v", job)
	}

	plan, err := store.GetPlan(ctx, "plan-1")
	if err != nil || plan == nil {
		t.Fatalf("GetPlan failed: %v", err)
	}
	if plan.NextDueDt == nil {
		t.Fatal("plan next due should be set")
	}
	expected := time.Now().UTC().AddDate(0, 0, 90)
	if diff := plan.NextDueDt.Sub(expected); diff > time.Hour || diff < -time.Hour {
		t.Errorf("next due %s too far from %s", plan.NextDueDt, expected)
	}

	// Unknown job: 404
	req, _ = http.NewRequest(http.MethodPut, srv.URL+"/api/jobs/missing/done", nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestListDueJobs_FlagsOverdue(t *testing.T) {
	// GIVEN: One job overdue by 5 days, one due in 10 days
	// WHEN: Listing due jobs with the default window
	// THEN: Both appear, the past one flagged overdue, with the asset name

	srv, store := newTestServer(t)
	ctx := context.Background()
	seedAsset(t, store, "ENG-001", "Engins")
	seedPlan(t, store, "plan-1", "ENG-001", 90)

	now := time.Now().UTC()
	for id, due := range map[string]time.Time{
		"job-past":   now.AddDate(0, 0, -5),
		"job-future": now.AddDate(0, 0, 10),
	} {
		if err := store.SaveJob(ctx, sqlite.Job{
			ID: id, PlanID: "plan-1", DueDt: due, Status: sqlite.StatusPlanned,
		}); err != nil {
			t.Fatalf("Failed to seed job: %v", err)
		}
	}

	var jobs []DueJobDTO
	getJSON(t, srv.URL+"/api/jobs/due", http.StatusOK, &jobs)
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	byID := make(map[string]DueJobDTO)
	for _, j := range jobs {
		byID[j.JobID] = j
	}
	if byID["job-past"].Status != "overdue" {
		t.Errorf("past job status: %q", byID["job-past"].Status)
	}
	if byID["job-future"].Status != sqlite.StatusPlanned {
		t.Errorf("future job status: %q", byID["job-future"].Status)
	}
	if byID["job-past"].AssetName != "Asset ENG-001" {
		t.Errorf("asset name: %q", byID["job-past"].AssetName)
	}
}

// =============================================================================
// CALENDAR ENDPOINT TESTS
// =============================================================================

func TestGetSchedule_GeneratesCalendar(t *testing.T) {
	// GIVEN: One asset and the two-rule test catalog
	// WHEN: Requesting a single year
	// THEN: 13 brake checks + 5 oil filter changes, chronologically sorted

	srv, store := newTestServer(t)
	seedAsset(t, store, "ENG-001", "Engins")

	var resp ScheduleResponse
	getJSON(t, srv.URL+"/api/schedule?start_year=2026&end_year=2026", http.StatusOK, &resp)

	if resp.StartYear != 2026 || resp.EndYear != 2026 {
		t.Errorf("range echoed wrong: %d-%d", resp.StartYear, resp.EndYear)
	}
	if resp.Count != 18 {
		t.Errorf("expected 18 entries, got %d", resp.Count)
	}
	for i := 1; i < len(resp.Entries); i++ {
		if resp.Entries[i].Date.Before(resp.Entries[i-1].Date) {
			t.Fatal("entries not chronologically sorted")
		}
	}
}

func TestGetSchedule_InvalidRangeRejected(t *testing.T) {
	srv, store := newTestServer(t)
	seedAsset(t, store, "ENG-001", "Engins")

	var errResp ErrorResponse
	getJSON(t, srv.URL+"/api/schedule?start_year=2027&end_year=2026", http.StatusBadRequest, &errResp)
	if errResp.Error != "Invalid year range" {
		t.Errorf("unexpected error message: %q", errResp.Error)
	}
}

func TestGetSchedule_EmptyFleet(t *testing.T) {
	// GIVEN: No assets at all
	// WHEN: Requesting a calendar
	// THEN: 200 with zero entries, not an error

	srv, _ := newTestServer(t)

	var resp ScheduleResponse
	getJSON(t, srv.URL+"/api/schedule?start_year=2026", http.StatusOK, &resp)
	if resp.Count != 0 {
		t.Errorf("expected empty calendar, got %d entries", resp.Count)
	}
}

func TestGetSchedule_Filters(t *testing.T) {
	// GIVEN: Two assets, one of which excludes brake checks by category
	// WHEN: Filtering by matricule and by type
	// THEN: Each filter narrows the calendar accordingly

	srv, store := newTestServer(t)
	seedAsset(t, store, "ENG-001", "Engins")
	seedAsset(t, store, "GEG-001", "GEG")

	// GEG excludes Frein: only the 5 oil filter changes remain for it
	var resp ScheduleResponse
	getJSON(t, srv.URL+"/api/schedule?start_year=2026&matricule=geg", http.StatusOK, &resp)
	if resp.Count != 5 {
		t.Errorf("GEG filter: expected 5 entries, got %d", resp.Count)
	}

	getJSON(t, srv.URL+"/api/schedule?start_year=2026&type=C", http.StatusOK, &resp)
	for _, e := range resp.Entries {
		if e.Type != schedule.TypeInspection {
			t.Fatalf("type filter leaked a %q entry", e.Type)
		}
	}
	if resp.Count != 13 {
		t.Errorf("type filter: expected 13 brake checks, got %d", resp.Count)
	}
}

func TestExportSchedule_CSV(t *testing.T) {
	// GIVEN: One asset
	// WHEN: Downloading the calendar export
	// THEN: Semicolon-separated CSV with a header row and a dated filename

	srv, store := newTestServer(t)
	seedAsset(t, store, "ENG-001", "Engins")

	resp, err := http.Get(srv.URL + "/api/schedule/export?start_year=2026&end_year=2026")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type: %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, "calendrier_entretiens_2026_2026.csv") {
		t.Errorf("content disposition: %q", cd)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 19 { // header + 18 entries
		t.Fatalf("expected 19 lines, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[0], "annee;date;matricule") {
		t.Errorf("header row: %q", lines[0])
	}
}

func TestGetAlerts_TierCounts(t *testing.T) {
	// GIVEN: An asset with a 30-day brake rule (occurrences every 30 days
	//        from Jan 1 of the current year)
	// WHEN: Requesting alerts with a 90-day window
	// THEN: Tier counters sum to the alert count and days stay in range

	srv, store := newTestServer(t)
	seedAsset(t, store, "ENG-001", "Engins")

	var resp AlertsResponse
	getJSON(t, srv.URL+"/api/alerts?window=90", http.StatusOK, &resp)

	if resp.Window != 90 {
		t.Errorf("window echoed wrong: %d", resp.Window)
	}
	if resp.Count != len(resp.Alerts) {
		t.Errorf("count %d != alerts %d", resp.Count, len(resp.Alerts))
	}
	if resp.Urgent+resp.Close+resp.Planned != resp.Count {
		t.Errorf("tier counts %d+%d+%d != %d", resp.Urgent, resp.Close, resp.Planned, resp.Count)
	}
	for _, a := range resp.Alerts {
		if a.DaysUntil < 0 || a.DaysUntil > 90 {
			t.Fatalf("alert outside window: %d days", a.DaysUntil)
		}
	}
	// A 30-day cadence always puts at least one occurrence in a 90-day window
	if resp.Count == 0 {
		t.Error("expected at least one alert")
	}
}

func TestListMaintTypes(t *testing.T) {
	srv, _ := newTestServer(t)

	var types []MaintTypeDTO
	getJSON(t, srv.URL+"/api/types", http.StatusOK, &types)
	if len(types) != 3 {
		t.Fatalf("expected 3 types, got %d", len(types))
	}
	seen := make(map[string]int)
	for _, mt := range types {
		seen[mt.Code] = mt.Priority
	}
	for code, prio := range map[string]int{"C": 1, "N": 2, "CH": 3} {
		if seen[code] != prio {
			t.Errorf("type %s priority: got %d, want %d", code, seen[code], prio)
		}
	}
}
