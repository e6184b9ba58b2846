/*
handlers.go - HTTP API handlers for the maintenance engine

PURPOSE:
  Exposes the record store and the schedule generator via REST. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Assets:
    GET    /api/assets               List the fleet
    POST   /api/assets               Create/update an asset
    GET    /api/assets/{id}          Get one asset
    GET    /api/assets/{id}/plans    Plans attached to an asset

  Plans & jobs:
    POST   /api/plans/{id}/schedule  Open a job unless one is in progress
    PUT    /api/jobs/{id}/done       Close a job, roll the plan forward
    GET    /api/jobs/due             Open jobs around today (record side)

  Calendar:
    GET    /api/schedule             Generate the calendar for a year range
    GET    /api/schedule/export      Same calendar as a CSV download
    GET    /api/alerts               Urgency-classified upcoming entries
    GET    /api/types                The fixed C/N/CH enumeration

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors (invalid year range, bad body)
  - 404: Record not found
  - 409: Conflict (job already open for the plan)
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/parcops/maintenance-engine/internal/logger"
	"github.com/parcops/maintenance-engine/params"
	"github.com/parcops/maintenance-engine/schedule"
	"github.com/parcops/maintenance-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers. The rule catalog is
// built once at startup and shared read-only; the calendar is regenerated
// per request from it.
type Handler struct {
	Store   *sqlite.Store
	Catalog *params.Catalog
	Log     zerolog.Logger
}

// NewHandler creates a new handler with the given store and rule catalog.
func NewHandler(store *sqlite.Store, catalog *params.Catalog) *Handler {
	return &Handler{
		Store:   store,
		Catalog: catalog,
		Log:     logger.New("api"),
	}
}

// =============================================================================
// ASSET HANDLERS
// =============================================================================

// ListAssets returns the whole fleet.
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.Store.ListAssets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assets", err)
		return
	}

	dtos := make([]AssetDTO, len(assets))
	for i, a := range assets {
		dtos[i] = toAssetDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetAsset returns a single asset.
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	asset, err := h.Store.GetAsset(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get asset", err)
		return
	}
	if asset == nil {
		writeError(w, http.StatusNotFound, "Asset not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toAssetDTO(*asset))
}

// CreateAsset creates or updates an asset record.
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req CreateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	asset := sqlite.Asset{
		ID:        strings.TrimSpace(req.ID),
		Name:      req.Name,
		Category:  req.Categorie,
		RegNumber: req.RegNumber,
		Km:        req.Km,
		RunningH:  req.RunningH,
		Meta:      req.Meta,
	}
	if err := h.Store.SaveAsset(r.Context(), asset); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save asset", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssetDTO(asset))
}

// ListAssetPlans returns the plans attached to an asset.
func (h *Handler) ListAssetPlans(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	asset, err := h.Store.GetAsset(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get asset", err)
		return
	}
	if asset == nil {
		writeError(w, http.StatusNotFound, "Asset not found", nil)
		return
	}

	plans, err := h.Store.ListPlansByAsset(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list plans", err)
		return
	}

	dtos := make([]PlanDTO, len(plans))
	for i, p := range plans {
		dtos[i] = toPlanDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// JOB HANDLERS
// =============================================================================

// ScheduleJob opens a job for a plan, unless one is already in progress.
func (h *Handler) ScheduleJob(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "id")
	ctx := r.Context()

	plan, err := h.Store.GetPlan(ctx, planID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get plan", err)
		return
	}
	if plan == nil {
		writeError(w, http.StatusNotFound, "Plan not found", nil)
		return
	}

	existing, err := h.Store.OpenJobForPlan(ctx, planID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to check open jobs", err)
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict,
			fmt.Sprintf("Job already scheduled (ID %s)", existing.ID), nil)
		return
	}

	due := time.Now().UTC()
	if plan.NextDueDt != nil {
		due = *plan.NextDueDt
	}

	job := sqlite.Job{
		ID:     uuid.NewString(),
		PlanID: planID,
		DueDt:  due,
		Status: sqlite.StatusPlanned,
	}
	if err := h.Store.SaveJob(ctx, job); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create job", err)
		return
	}

	h.Log.Info().Str("plan_id", planID).Str("job_id", job.ID).Msg("job scheduled")
	writeJSON(w, http.StatusCreated, toJobDTO(job))
}

// MarkJobDone closes a job and recomputes the plan's next due date.
func (h *Handler) MarkJobDone(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")

	job, err := h.Store.MarkJobDone(r.Context(), jobID, time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to mark job done", err)
		return
	}
	if job == nil {
		writeError(w, http.StatusNotFound, "Job not found", nil)
		return
	}

	h.Log.Info().Str("job_id", jobID).Msg("job marked done")
	writeJSON(w, http.StatusOK, toJobDTO(*job))
}

// ListDueJobs returns open jobs due within ±window days of today, flagging
// past-due ones as overdue.
func (h *Handler) ListDueJobs(w http.ResponseWriter, r *http.Request) {
	window := queryInt(r, "window", 30)
	ctx := r.Context()

	now := time.Now().UTC()
	from := now.AddDate(0, 0, -window)
	to := now.AddDate(0, 0, window)

	jobs, err := h.Store.ListJobsDue(ctx, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list due jobs", err)
		return
	}

	dtos := make([]DueJobDTO, 0, len(jobs))
	for _, j := range jobs {
		assetName := "Unknown"
		if plan, err := h.Store.GetPlan(ctx, j.PlanID); err == nil && plan != nil && plan.AssetID != "" {
			if asset, err := h.Store.GetAsset(ctx, plan.AssetID); err == nil && asset != nil {
				assetName = asset.Name
			}
		}

		status := sqlite.StatusPlanned
		if j.DueDt.Before(now.Truncate(24 * time.Hour)) {
			status = "overdue"
		}

		dtos = append(dtos, DueJobDTO{
			JobID:     j.ID,
			PlanID:    j.PlanID,
			AssetName: assetName,
			DueDt:     j.DueDt.Format("2006-01-02"),
			Status:    status,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// CALENDAR HANDLERS
// =============================================================================

// GetSchedule generates the maintenance calendar for a year range, with
// optional matricule substring and type filters.
func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	entries, startYear, endYear, ok := h.generate(w, r)
	if !ok {
		return
	}

	schedule.SortByDate(entries)
	writeJSON(w, http.StatusOK, ScheduleResponse{
		StartYear: startYear,
		EndYear:   endYear,
		Count:     len(entries),
		Entries:   entries,
	})
}

// ExportSchedule streams the generated calendar as a semicolon-separated
// CSV, the dialect the workshop's spreadsheets use.
func (h *Handler) ExportSchedule(w http.ResponseWriter, r *http.Request) {
	entries, startYear, endYear, ok := h.generate(w, r)
	if !ok {
		return
	}
	schedule.SortByDate(entries)

	filename := fmt.Sprintf("calendrier_entretiens_%d_%d.csv", startYear, endYear)
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	_ = cw.Write([]string{"annee", "date", "matricule", "engin", "operation", "type", "type_nom", "categorie", "intervalle_jours"})
	for _, e := range entries {
		_ = cw.Write([]string{
			strconv.Itoa(e.Year),
			e.Date.String(),
			e.Matricule,
			e.Engin,
			e.Operation,
			string(e.Type),
			e.TypeName,
			e.Categorie,
			strconv.Itoa(e.IntervalDays),
		})
	}
	cw.Flush()
}

// GetAlerts generates the calendar for the current and next year and
// returns the entries falling inside the alert window, urgency-tagged.
func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	window := queryInt(r, "window", 90)
	matricule := r.URL.Query().Get("matricule")
	today := schedule.Today()

	assets, err := h.loadScheduleAssets(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assets", err)
		return
	}

	// Current year plus the next is always enough to fill the window.
	entries, err := schedule.Generate(assets, h.Catalog.Rules(), today.Year(), today.Year()+1)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate calendar", err)
		return
	}

	if matricule != "" {
		entries = filterMatricule(entries, matricule)
	}

	alerts := schedule.Alerts(entries, today, window)

	resp := AlertsResponse{
		AsOf:   today.String(),
		Window: window,
		Count:  len(alerts),
		Alerts: alerts,
	}
	for _, a := range alerts {
		switch a.Urgency {
		case schedule.UrgencyUrgent:
			resp.Urgent++
		case schedule.UrgencyUpcoming:
			resp.Close++
		case schedule.UrgencyPlanned:
			resp.Planned++
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListMaintTypes returns the fixed C/N/CH enumeration.
func (h *Handler) ListMaintTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.Store.ListMaintTypes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list types", err)
		return
	}

	dtos := make([]MaintTypeDTO, len(types))
	for i, t := range types {
		dtos[i] = MaintTypeDTO{Code: t.Code, Label: t.Label, Priority: t.Priority}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// generate parses the year range and shared filters, loads the fleet, and
// runs the generator. Writes the error response itself when ok is false.
func (h *Handler) generate(w http.ResponseWriter, r *http.Request) (entries []schedule.Entry, startYear, endYear int, ok bool) {
	currentYear := time.Now().Year()
	startYear = queryInt(r, "start_year", currentYear)
	endYear = queryInt(r, "end_year", startYear)

	assets, err := h.loadScheduleAssets(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list assets", err)
		return nil, 0, 0, false
	}

	entries, err = schedule.Generate(assets, h.Catalog.Rules(), startYear, endYear)
	if err != nil {
		if schedule.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Invalid year range", err)
		} else {
			writeError(w, http.StatusInternalServerError, "Failed to generate calendar", err)
		}
		return nil, 0, 0, false
	}

	if m := r.URL.Query().Get("matricule"); m != "" {
		entries = filterMatricule(entries, m)
	}
	if t := r.URL.Query().Get("type"); t != "" {
		entries = filterTypes(entries, strings.Split(t, ","))
	}
	return entries, startYear, endYear, true
}

func (h *Handler) loadScheduleAssets(r *http.Request) ([]schedule.Asset, error) {
	records, err := h.Store.ListAssets(r.Context())
	if err != nil {
		return nil, err
	}

	assets := make([]schedule.Asset, len(records))
	for i, a := range records {
		assets[i] = schedule.Asset{
			Matricule:   a.ID,
			Designation: a.Name,
			Categorie:   a.Category,
		}
	}
	return assets, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func filterMatricule(entries []schedule.Entry, fragment string) []schedule.Entry {
	fragment = strings.ToLower(fragment)
	out := entries[:0:0]
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Matricule), fragment) {
			out = append(out, e)
		}
	}
	return out
}

func filterTypes(entries []schedule.Entry, codes []string) []schedule.Entry {
	keep := make(map[schedule.MaintenanceType]bool, len(codes))
	for _, c := range codes {
		keep[schedule.MaintenanceType(strings.ToUpper(strings.TrimSpace(c)))] = true
	}
	out := entries[:0:0]
	for _, e := range entries {
		if keep[e.Type] {
			out = append(out, e)
		}
	}
	return out
}

func queryInt(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func toAssetDTO(a sqlite.Asset) AssetDTO {
	dto := AssetDTO{
		ID:        a.ID,
		Name:      a.Name,
		Categorie: a.Category,
		RegNumber: a.RegNumber,
		Km:        a.Km,
		RunningH:  a.RunningH,
		Meta:      a.Meta,
	}
	if !a.CreatedAt.IsZero() {
		dto.CreatedAt = a.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toPlanDTO(p sqlite.Plan) PlanDTO {
	dto := PlanDTO{
		ID:            p.ID,
		AssetID:       p.AssetID,
		Type:          p.TypeCode,
		TypeName:      schedule.MaintenanceType(p.TypeCode).Label(),
		EveryDays:     p.EveryDays,
		ToleranceDays: p.ToleranceDays,
	}
	if p.ChecklistJSON != "" {
		dto.Checklist = json.RawMessage(p.ChecklistJSON)
	}
	if p.NextDueDt != nil {
		s := p.NextDueDt.Format("2006-01-02")
		dto.NextDueDt = &s
	}
	if !p.CreatedAt.IsZero() {
		dto.CreatedAt = p.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toJobDTO(j sqlite.Job) JobDTO {
	labour, _ := j.CostLabour.Float64()
	parts, _ := j.CostParts.Float64()

	dto := JobDTO{
		ID:         j.ID,
		PlanID:     j.PlanID,
		DueDt:      j.DueDt.Format("2006-01-02"),
		Status:     j.Status,
		CostLabour: labour,
		CostParts:  parts,
		Note:       j.Note,
	}
	if j.DoneDt != nil {
		s := j.DoneDt.Format("2006-01-02")
		dto.DoneDt = &s
	}
	return dto
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}
