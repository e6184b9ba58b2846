package etl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/parcops/maintenance-engine/internal/logger"
	"github.com/parcops/maintenance-engine/params"
	"github.com/parcops/maintenance-engine/schedule"
	"github.com/parcops/maintenance-engine/store/sqlite"
)

// Export file names inside the import folder.
const (
	FileAssets   = "MATRICE.csv"
	FileParams   = "Param.csv"
	FileService  = "VIDANGE.csv"
	FileCurative = "SUIVI_CURATIF.csv"
)

// CurativePlanLabel is the checklist label of the shared curative plan.
const CurativePlanLabel = "Intervention curative"

// checklistItem is one entry of a plan's checklist_json.
type checklistItem struct {
	Item string `json:"item"`
	Type string `json:"type"`
}

// Importer loads CSV exports into the record store.
type Importer struct {
	Store *sqlite.Store
	Log   zerolog.Logger
}

func NewImporter(store *sqlite.Store) *Importer {
	return &Importer{Store: store, Log: logger.New("etl")}
}

// Run imports every export found in dir, then recomputes next-due dates.
// Missing files are skipped with a warning; the import is restartable.
func (imp *Importer) Run(ctx context.Context, dir string) error {
	steps := []struct {
		file string
		fn   func(context.Context, io.Reader) (int, error)
	}{
		{FileAssets, imp.ImportAssets},
		{FileParams, imp.ImportParams},
		{FileService, imp.ImportServiceHistory},
		{FileCurative, imp.ImportCurative},
	}

	for _, step := range steps {
		path := filepath.Join(dir, step.file)
		f, err := os.Open(path)
		if err != nil {
			imp.Log.Warn().Str("file", step.file).Msg("export not found, skipping")
			continue
		}
		n, err := step.fn(ctx, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("import %s: %w", step.file, err)
		}
		imp.Log.Info().Str("file", step.file).Int("rows", n).Msg("imported")
	}

	if err := imp.Store.RecomputeNextDue(ctx); err != nil {
		return fmt.Errorf("recompute next due dates: %w", err)
	}
	imp.Log.Info().Msg("next-due dates recomputed")
	return nil
}

// ImportAssets loads the MATRICE export: one asset per row, keyed by
// matricule. Re-running refreshes counters and metadata.
func (imp *Importer) ImportAssets(ctx context.Context, r io.Reader) (int, error) {
	table, err := ReadTable(r)
	if err != nil {
		return 0, err
	}

	count := 0
	for i, row := range table.Rows {
		matricule := strings.TrimSpace(row["matricule"])
		if matricule == "" {
			continue
		}

		name := strings.TrimSpace(row["designation"])
		if r := []rune(name); len(r) > 100 {
			name = string(r[:100])
		}

		asset := sqlite.Asset{
			ID:        matricule,
			Name:      name,
			Category:  strings.TrimSpace(row["categorie"]),
			RegNumber: matricule,
			Meta: map[string]string{
				"marque":      strings.TrimSpace(row["marque"]),
				"annee":       strings.TrimSpace(row["annee"]),
				"pneumatique": strings.TrimSpace(row["pneumatique"]),
				"qte_vidange": strings.TrimSpace(row["qte_vidange"]),
			},
		}

		if err := imp.Store.SaveAsset(ctx, asset); err != nil {
			imp.Log.Warn().Int("row", i).Err(err).Msg("asset row skipped")
			continue
		}
		count++
	}
	return count, nil
}

// ImportParams loads the Param export into template plans: one plan per
// distinct (type, interval) pair the rule extractor finds, carrying the
// operation label as its checklist. Idempotent across re-runs.
func (imp *Importer) ImportParams(ctx context.Context, r io.Reader) (int, error) {
	table, err := ReadTable(r)
	if err != nil {
		return 0, err
	}

	rules := params.ExtractRules(ParamRows(table))
	imp.Log.Info().Int("rules", len(rules)).Msg("rules extracted from parameter table")

	created := 0
	for _, rule := range rules {
		existing, err := imp.Store.FindTemplatePlan(ctx, string(rule.Type), rule.IntervalDays)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}

		checklist, _ := json.Marshal([]checklistItem{{Item: rule.Operation, Type: string(rule.Type)}})
		plan := sqlite.Plan{
			ID:            uuid.NewString(),
			TypeCode:      string(rule.Type),
			EveryDays:     rule.IntervalDays,
			ToleranceDays: 30,
			ChecklistJSON: string(checklist),
		}
		if err := imp.Store.SavePlan(ctx, plan); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// ParamRows converts a parsed table into parameter rows for rule extraction.
func ParamRows(t *Table) []params.Row {
	rows := make([]params.Row, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = params.Row(r)
	}
	return rows
}

// ImportServiceHistory loads the VIDANGE export: each row becomes a completed
// job on the plan its label matches (created on the fly when absent), and
// refreshes the asset's km or running-hour counter.
func (imp *Importer) ImportServiceHistory(ctx context.Context, r io.Reader) (int, error) {
	table, err := ReadTable(r)
	if err != nil {
		return 0, err
	}

	count := 0
	for i, row := range table.Rows {
		matricule := strings.TrimSpace(row["matricule"])
		if matricule == "" {
			continue
		}

		asset, err := imp.Store.GetAsset(ctx, matricule)
		if err != nil {
			return count, err
		}
		if asset == nil {
			imp.Log.Warn().Int("row", i).Str("matricule", matricule).Msg("unknown asset, row skipped")
			continue
		}

		serviceDate, ok := parseDate(row["date_entretien"])
		if !ok {
			imp.Log.Warn().Int("row", i).Msg("unparseable service date, row skipped")
			continue
		}

		// Counter heuristic from the source data: small values on heavy
		// plant ("engin" categories) are running hours, everything else
		// is kilometres.
		var km, runningH *int
		if counter, ok := parseCounter(row["compteur_km_h"]); ok {
			if counter < 50000 && strings.Contains(strings.ToLower(asset.Category), "engin") {
				runningH = &counter
			} else {
				km = &counter
			}
		}

		label := strings.TrimSpace(row["entretien"])
		if label == "" {
			label = strings.TrimSpace(row["obs"])
		}
		if label == "" {
			label = "VIDANGE"
		}

		plan, err := imp.findOrCreateServicePlan(ctx, matricule, label)
		if err != nil {
			return count, err
		}

		job := sqlite.Job{
			ID:     uuid.NewString(),
			PlanID: plan.ID,
			DueDt:  serviceDate,
			DoneDt: &serviceDate,
			Status: sqlite.StatusDone,
			Note: fmt.Sprintf("%s | Compteur: %s | Obs: %s",
				label, strings.TrimSpace(row["compteur_km_h"]), strings.TrimSpace(row["obs"])),
		}
		if err := imp.Store.SaveJob(ctx, job); err != nil {
			imp.Log.Warn().Int("row", i).Err(err).Msg("service row skipped")
			continue
		}

		if err := imp.Store.UpdateAssetCounters(ctx, matricule, km, runningH); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (imp *Importer) findOrCreateServicePlan(ctx context.Context, assetID, label string) (*sqlite.Plan, error) {
	plan, err := imp.Store.FindPlanByChecklist(ctx, label)
	if err != nil {
		return nil, err
	}
	if plan != nil {
		return plan, nil
	}

	checklist, _ := json.Marshal([]checklistItem{{Item: label, Type: string(schedule.TypeInspection)}})
	plan = &sqlite.Plan{
		ID:            uuid.NewString(),
		AssetID:       assetID,
		TypeCode:      string(schedule.TypeInspection),
		EveryDays:     180,
		ToleranceDays: 30,
		ChecklistJSON: string(checklist),
	}
	if err := imp.Store.SavePlan(ctx, *plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// ImportCurative loads the SUIVI_CURATIF export: every intervention becomes
// a completed job with its parts cost, under one shared curative plan.
func (imp *Importer) ImportCurative(ctx context.Context, r io.Reader) (int, error) {
	table, err := ReadTable(r)
	if err != nil {
		return 0, err
	}

	plan, err := imp.findOrCreateCurativePlan(ctx)
	if err != nil {
		return 0, err
	}

	count := 0
	for i, row := range table.Rows {
		// Completion date: exit date, falling back to entry date.
		done, ok := parseDate(row["date_sortie"])
		if !ok {
			done, ok = parseDate(row["date_entree"])
		}
		if !ok {
			imp.Log.Warn().Int("row", i).Msg("curative row without date, skipped")
			continue
		}

		cost := decimal.Zero
		if c, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(row["cout_total"], ",", "."))); err == nil {
			cost = c
		}

		job := sqlite.Job{
			ID:        uuid.NewString(),
			PlanID:    plan.ID,
			DueDt:     done,
			DoneDt:    &done,
			Status:    sqlite.StatusDone,
			CostParts: cost,
			Note: fmt.Sprintf("Panne: %s\nIntervenant: %s\nPieces: %s",
				strings.TrimSpace(row["panne_declatee"]),
				strings.TrimSpace(row["intervenant"]),
				strings.TrimSpace(row["pieces"])),
		}
		if err := imp.Store.SaveJob(ctx, job); err != nil {
			imp.Log.Warn().Int("row", i).Err(err).Msg("curative row skipped")
			continue
		}
		count++
	}
	return count, nil
}

func (imp *Importer) findOrCreateCurativePlan(ctx context.Context) (*sqlite.Plan, error) {
	plan, err := imp.Store.FindPlanByChecklist(ctx, CurativePlanLabel)
	if err != nil {
		return nil, err
	}
	if plan != nil {
		return plan, nil
	}

	checklist, _ := json.Marshal([]checklistItem{{Item: CurativePlanLabel, Type: string(schedule.TypeReplacement)}})
	plan = &sqlite.Plan{
		ID:            uuid.NewString(),
		TypeCode:      string(schedule.TypeReplacement),
		EveryDays:     0, // curative work has no recurrence
		ToleranceDays: 30,
		ChecklistJSON: string(checklist),
	}
	if err := imp.Store.SavePlan(ctx, *plan); err != nil {
		return nil, err
	}
	return plan, nil
}
