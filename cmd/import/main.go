// Command import loads the workshop's CSV exports into the record store.
// One-shot: run it after dropping fresh exports into the import folder.
//
//	import -csv ./import -db ./gmao.db
package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"

	"github.com/parcops/maintenance-engine/etl"
	"github.com/parcops/maintenance-engine/internal/logger"
	"github.com/parcops/maintenance-engine/store/sqlite"
)

func main() {
	_ = godotenv.Load()

	csvDir := flag.String("csv", "import", "folder containing the CSV exports")
	dbPath := flag.String("db", "gmao.db", "SQLite database path")
	reset := flag.Bool("reset", false, "wipe all records before importing")
	flag.Parse()

	log := logger.New("import")

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	ctx := context.Background()
	if *reset {
		if err := store.Reset(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to reset database")
		}
		log.Info().Msg("database reset")
	}

	importer := etl.NewImporter(store)
	if err := importer.Run(ctx, *csvDir); err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}

	log.Info().Msg("import complete")
}
