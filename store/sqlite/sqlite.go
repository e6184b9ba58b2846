/*
Package sqlite provides the SQLite-backed record store.

PURPOSE:
  Persists the bookkeeping side of the system: assets, maintenance types,
  maintenance plans and jobs. The generated calendar itself is never stored -
  it is recomputed on demand by the schedule package - so this store only
  holds records that users create or that the CSV import produces.

KEY TABLES:
  assets:       Fleet equipment, keyed by matricule
  maint_types:  The fixed C/N/CH enumeration (seeded on migrate)
  maint_plans:  Recurring obligations with a rolling next-due date
  maint_jobs:   Concrete work orders, open until marked done

NOT-FOUND CONVENTION:
  Get* methods return (nil, nil) when the record does not exist. Callers
  translate that into a 404; the store does not treat it as an error.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite opened in WAL mode
  (multiple readers, single writer, better crash recovery).

USAGE:
  store, err := sqlite.New("./data/gmao.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - etl: populates this store from the CSV exports
  - api: exposes CRUD over these records
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Job statuses.
const (
	StatusPlanned = "planned"
	StatusDone    = "done"
)

// Store implements the record store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema and seeds the maintenance types.
func (s *Store) migrate() error {
	schema := `
	-- Assets (matricule is the natural key; the source exports use it everywhere)
	CREATE TABLE IF NOT EXISTS assets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		reg_number TEXT,
		km INTEGER NOT NULL DEFAULT 0,
		running_h INTEGER NOT NULL DEFAULT 0,
		meta_json TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assets_category ON assets(category);

	-- Maintenance types (fixed enumeration)
	CREATE TABLE IF NOT EXISTS maint_types (
		code TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		priority INTEGER NOT NULL
	);

	-- Maintenance plans
	CREATE TABLE IF NOT EXISTS maint_plans (
		id TEXT PRIMARY KEY,
		asset_id TEXT,
		type_code TEXT NOT NULL REFERENCES maint_types(code),
		every_days INTEGER NOT NULL DEFAULT 0,
		tolerance_days INTEGER NOT NULL DEFAULT 30,
		checklist_json TEXT,
		next_due_dt TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_plans_asset ON maint_plans(asset_id);
	CREATE INDEX IF NOT EXISTS idx_plans_type ON maint_plans(type_code);

	-- Maintenance jobs
	CREATE TABLE IF NOT EXISTS maint_jobs (
		id TEXT PRIMARY KEY,
		plan_id TEXT NOT NULL REFERENCES maint_plans(id),
		due_dt TEXT NOT NULL,
		done_dt TEXT,
		status TEXT NOT NULL DEFAULT 'planned',
		cost_labour TEXT NOT NULL DEFAULT '0',
		cost_parts TEXT NOT NULL DEFAULT '0',
		note TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_jobs_plan ON maint_jobs(plan_id);
	CREATE INDEX IF NOT EXISTS idx_jobs_due ON maint_jobs(due_dt);

	-- Hot path for the open-job conflict check
	CREATE INDEX IF NOT EXISTS idx_jobs_open ON maint_jobs(plan_id)
		WHERE done_dt IS NULL;
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Seed the fixed type enumeration. Idempotent.
	seed := `
	INSERT OR IGNORE INTO maint_types (code, label, priority) VALUES
		('C', 'Contrôle', 1),
		('N', 'Nettoyage', 2),
		('CH', 'Changement', 3);
	`
	_, err := s.db.Exec(seed)
	return err
}

// =============================================================================
// RECORD TYPES
// =============================================================================

// Asset is one equipment record. ID is the matricule.
type Asset struct {
	ID        string
	Name      string
	Category  string
	RegNumber string
	Km        int
	RunningH  int
	Meta      map[string]string
	CreatedAt time.Time
}

// MaintType is one row of the fixed type enumeration.
type MaintType struct {
	Code     string
	Label    string
	Priority int
}

// Plan is a recurring maintenance obligation. AssetID may be empty for
// template plans not yet attached to specific equipment.
type Plan struct {
	ID            string
	AssetID       string
	TypeCode      string
	EveryDays     int
	ToleranceDays int
	ChecklistJSON string
	NextDueDt     *time.Time
	CreatedAt     time.Time
}

// Job is a concrete work order. A job is open until DoneDt is set.
type Job struct {
	ID         string
	PlanID     string
	DueDt      time.Time
	DoneDt     *time.Time
	Status     string
	CostLabour decimal.Decimal
	CostParts  decimal.Decimal
	Note       string
	CreatedAt  time.Time
}

// =============================================================================
// ASSETS
// =============================================================================

// SaveAsset inserts or updates an asset. Counters and metadata win on
// conflict, matching the import's refresh semantics.
func (s *Store) SaveAsset(ctx context.Context, a Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	metaJSON, _ := json.Marshal(a.Meta)

	query := `
		INSERT INTO assets (id, name, category, reg_number, km, running_h, meta_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			reg_number = excluded.reg_number,
			km = excluded.km,
			running_h = excluded.running_h,
			meta_json = excluded.meta_json
	`

	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.Name, a.Category, a.RegNumber, a.Km, a.RunningH,
		string(metaJSON),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetAsset retrieves an asset by matricule. Returns (nil, nil) if absent.
func (s *Store) GetAsset(ctx context.Context, id string) (*Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, category, reg_number, km, running_h, meta_json, created_at FROM assets WHERE id = ?",
		id,
	)
	a, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAssets returns all assets ordered by matricule.
func (s *Store) ListAssets(ctx context.Context) ([]Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, category, reg_number, km, running_h, meta_json, created_at FROM assets ORDER BY id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		assets = append(assets, *a)
	}
	return assets, rows.Err()
}

// DeleteAsset removes an asset record.
func (s *Store) DeleteAsset(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	return err
}

// UpdateAssetCounters updates the km and/or running-hour counters. A nil
// pointer leaves the counter untouched (the service history carries one or
// the other, never both).
func (s *Store) UpdateAssetCounters(ctx context.Context, id string, km, runningH *int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if km != nil {
		if _, err := s.db.ExecContext(ctx, "UPDATE assets SET km = ? WHERE id = ?", *km, id); err != nil {
			return err
		}
	}
	if runningH != nil {
		if _, err := s.db.ExecContext(ctx, "UPDATE assets SET running_h = ? WHERE id = ?", *runningH, id); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(r rowScanner) (*Asset, error) {
	var (
		a         Asset
		regNumber sql.NullString
		metaJSON  sql.NullString
		createdAt string
	)
	if err := r.Scan(&a.ID, &a.Name, &a.Category, &regNumber, &a.Km, &a.RunningH, &metaJSON, &createdAt); err != nil {
		return nil, err
	}
	a.RegNumber = regNumber.String
	if metaJSON.Valid && metaJSON.String != "" {
		_ = json.Unmarshal([]byte(metaJSON.String), &a.Meta)
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}

// =============================================================================
// MAINTENANCE TYPES
// =============================================================================

// ListMaintTypes returns the fixed type enumeration ordered by priority.
func (s *Store) ListMaintTypes(ctx context.Context) ([]MaintType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT code, label, priority FROM maint_types ORDER BY priority",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []MaintType
	for rows.Next() {
		var t MaintType
		if err := rows.Scan(&t.Code, &t.Label, &t.Priority); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

// =============================================================================
// PLANS
// =============================================================================

// SavePlan inserts or updates a maintenance plan.
func (s *Store) SavePlan(ctx context.Context, p Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO maint_plans (id, asset_id, type_code, every_days, tolerance_days, checklist_json, next_due_dt, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			asset_id = excluded.asset_id,
			type_code = excluded.type_code,
			every_days = excluded.every_days,
			tolerance_days = excluded.tolerance_days,
			checklist_json = excluded.checklist_json,
			next_due_dt = excluded.next_due_dt
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, nullString(p.AssetID), p.TypeCode, p.EveryDays, p.ToleranceDays,
		nullString(p.ChecklistJSON), nullTime(p.NextDueDt),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetPlan retrieves a plan by ID. Returns (nil, nil) if absent.
func (s *Store) GetPlan(ctx context.Context, id string) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, asset_id, type_code, every_days, tolerance_days, checklist_json, next_due_dt, created_at FROM maint_plans WHERE id = ?",
		id,
	)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPlans returns all plans.
func (s *Store) ListPlans(ctx context.Context) ([]Plan, error) {
	return s.queryPlans(ctx,
		"SELECT id, asset_id, type_code, every_days, tolerance_days, checklist_json, next_due_dt, created_at FROM maint_plans ORDER BY created_at",
	)
}

// ListPlansByAsset returns the plans attached to one asset.
func (s *Store) ListPlansByAsset(ctx context.Context, assetID string) ([]Plan, error) {
	return s.queryPlans(ctx,
		"SELECT id, asset_id, type_code, every_days, tolerance_days, checklist_json, next_due_dt, created_at FROM maint_plans WHERE asset_id = ? ORDER BY created_at",
		assetID,
	)
}

// FindTemplatePlan returns the unattached plan for a (type, interval) pair,
// or (nil, nil). The parameter import uses this to stay idempotent.
func (s *Store) FindTemplatePlan(ctx context.Context, typeCode string, everyDays int) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, asset_id, type_code, every_days, tolerance_days, checklist_json, next_due_dt, created_at FROM maint_plans WHERE type_code = ? AND every_days = ? AND asset_id IS NULL LIMIT 1",
		typeCode, everyDays,
	)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindPlanByChecklist returns the first plan whose checklist mentions the
// given text fragment, or (nil, nil). The import uses this to attach service
// history to the plan it belongs to.
func (s *Store) FindPlanByChecklist(ctx context.Context, fragment string) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, asset_id, type_code, every_days, tolerance_days, checklist_json, next_due_dt, created_at FROM maint_plans WHERE checklist_json LIKE ? LIMIT 1",
		"%"+fragment+"%",
	)
	p, err := scanPlan(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) queryPlans(ctx context.Context, query string, args ...any) ([]Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, *p)
	}
	return plans, rows.Err()
}

func scanPlan(r rowScanner) (*Plan, error) {
	var (
		p         Plan
		assetID   sql.NullString
		checklist sql.NullString
		nextDue   sql.NullString
		createdAt string
	)
	if err := r.Scan(&p.ID, &assetID, &p.TypeCode, &p.EveryDays, &p.ToleranceDays, &checklist, &nextDue, &createdAt); err != nil {
		return nil, err
	}
	p.AssetID = assetID.String
	p.ChecklistJSON = checklist.String
	if nextDue.Valid && nextDue.String != "" {
		t, err := time.Parse(time.RFC3339, nextDue.String)
		if err == nil {
			p.NextDueDt = &t
		}
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &p, nil
}

// =============================================================================
// JOBS
// =============================================================================

// SaveJob inserts or updates a job record.
func (s *Store) SaveJob(ctx context.Context, j Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveJob(ctx, s.db, j)
}

func (s *Store) saveJob(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, j Job) error {
	query := `
		INSERT INTO maint_jobs (id, plan_id, due_dt, done_dt, status, cost_labour, cost_parts, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			due_dt = excluded.due_dt,
			done_dt = excluded.done_dt,
			status = excluded.status,
			cost_labour = excluded.cost_labour,
			cost_parts = excluded.cost_parts,
			note = excluded.note
	`

	_, err := db.ExecContext(ctx, query,
		j.ID, j.PlanID,
		j.DueDt.UTC().Format(time.RFC3339),
		nullTime(j.DoneDt),
		j.Status,
		j.CostLabour.String(),
		j.CostParts.String(),
		nullString(j.Note),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// GetJob retrieves a job by ID. Returns (nil, nil) if absent.
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, plan_id, due_dt, done_dt, status, cost_labour, cost_parts, note, created_at FROM maint_jobs WHERE id = ?",
		id,
	)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

// OpenJobForPlan returns the open (not yet done) job for a plan, or
// (nil, nil) when the plan has no job in progress.
func (s *Store) OpenJobForPlan(ctx context.Context, planID string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, plan_id, due_dt, done_dt, status, cost_labour, cost_parts, note, created_at FROM maint_jobs WHERE plan_id = ? AND done_dt IS NULL LIMIT 1",
		planID,
	)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

// ListJobsByPlan returns all jobs for a plan, oldest due first.
func (s *Store) ListJobsByPlan(ctx context.Context, planID string) ([]Job, error) {
	return s.queryJobs(ctx,
		"SELECT id, plan_id, due_dt, done_dt, status, cost_labour, cost_parts, note, created_at FROM maint_jobs WHERE plan_id = ? ORDER BY due_dt",
		planID,
	)
}

// ListJobsDue returns the open jobs due within [from, to], ordered by due
// date. This backs the record-keeping side of the alerting view.
func (s *Store) ListJobsDue(ctx context.Context, from, to time.Time) ([]Job, error) {
	return s.queryJobs(ctx,
		"SELECT id, plan_id, due_dt, done_dt, status, cost_labour, cost_parts, note, created_at FROM maint_jobs WHERE done_dt IS NULL AND due_dt >= ? AND due_dt <= ? ORDER BY due_dt",
		from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339),
	)
}

// MarkJobDone closes a job and rolls the plan's next-due date forward by the
// plan's interval, atomically. Returns (nil, nil) when the job is absent.
func (s *Store) MarkJobDone(ctx context.Context, id string, done time.Time) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT id, plan_id, due_dt, done_dt, status, cost_labour, cost_parts, note, created_at FROM maint_jobs WHERE id = ?",
		id,
	)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	doneUTC := done.UTC()
	job.DoneDt = &doneUTC
	job.Status = StatusDone

	if _, err := tx.ExecContext(ctx,
		"UPDATE maint_jobs SET done_dt = ?, status = ? WHERE id = ?",
		doneUTC.Format(time.RFC3339), StatusDone, id,
	); err != nil {
		return nil, err
	}

	// Roll the plan forward: next due is completion date + interval.
	var everyDays int
	err = tx.QueryRowContext(ctx,
		"SELECT every_days FROM maint_plans WHERE id = ?", job.PlanID,
	).Scan(&everyDays)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	if err == nil && everyDays > 0 {
		next := doneUTC.AddDate(0, 0, everyDays)
		if _, err := tx.ExecContext(ctx,
			"UPDATE maint_plans SET next_due_dt = ? WHERE id = ?",
			next.Format(time.RFC3339), job.PlanID,
		); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return job, nil
}

// RecomputeNextDue recalculates every plan's next-due date from its most
// recent completed job. The import runs this once after loading history.
func (s *Store) RecomputeNextDue(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.every_days, MAX(j.done_dt)
		FROM maint_plans p
		JOIN maint_jobs j ON j.plan_id = p.id AND j.done_dt IS NOT NULL
		WHERE p.every_days > 0
		GROUP BY p.id, p.every_days
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	type dueUpdate struct {
		planID string
		next   time.Time
	}
	var updates []dueUpdate
	for rows.Next() {
		var (
			planID    string
			everyDays int
			lastDone  string
		)
		if err := rows.Scan(&planID, &everyDays, &lastDone); err != nil {
			return err
		}
		done, err := time.Parse(time.RFC3339, lastDone)
		if err != nil {
			continue
		}
		updates = append(updates, dueUpdate{planID: planID, next: done.AddDate(0, 0, everyDays)})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, u := range updates {
		if _, err := s.db.ExecContext(ctx,
			"UPDATE maint_plans SET next_due_dt = ? WHERE id = ?",
			u.next.UTC().Format(time.RFC3339), u.planID,
		); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) queryJobs(ctx context.Context, query string, args ...any) ([]Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func scanJob(r rowScanner) (*Job, error) {
	var (
		j          Job
		dueDt      string
		doneDt     sql.NullString
		costLabour string
		costParts  string
		note       sql.NullString
		createdAt  string
	)
	if err := r.Scan(&j.ID, &j.PlanID, &dueDt, &doneDt, &j.Status, &costLabour, &costParts, &note, &createdAt); err != nil {
		return nil, err
	}
	j.DueDt, _ = time.Parse(time.RFC3339, dueDt)
	if doneDt.Valid && doneDt.String != "" {
		t, err := time.Parse(time.RFC3339, doneDt.String)
		if err == nil {
			j.DoneDt = &t
		}
	}
	j.CostLabour = parseDecimal(costLabour)
	j.CostParts = parseDecimal(costParts)
	j.Note = note.String
	j.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &j, nil
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset wipes all records. The import CLI offers it behind a flag for
// starting over from fresh exports.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"maint_jobs", "maint_plans", "assets"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
