/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the maintenance engine server: record store,
  rule catalog, HTTP router, graceful shutdown.

STARTUP SEQUENCE:
  1. Load optional .env file, parse command-line flags
  2. Open the SQLite record store
  3. Read the parameter table and build the rule catalog (once)
  4. Configure the HTTP router
  5. Start the server with graceful shutdown

CONFIGURATION:
  Flags win over environment variables; a .env file supplies environment
  values in development.

  -port / PORT             HTTP server port (default: 8080)
  -db / DATABASE_PATH      SQLite database path (default: gmao.db)
                           Use ":memory:" for an in-memory database
  -params / PARAMS_CSV     Parameter table CSV (default: import/Param.csv)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait up to 30s for active
  requests, close the database, exit.

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Record store
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/parcops/maintenance-engine/api"
	"github.com/parcops/maintenance-engine/etl"
	"github.com/parcops/maintenance-engine/internal/logger"
	"github.com/parcops/maintenance-engine/params"
	"github.com/parcops/maintenance-engine/store/sqlite"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DATABASE_PATH", "gmao.db"), "SQLite database path")
	paramsCSV := flag.String("params", envStr("PARAMS_CSV", "import/Param.csv"), "parameter table CSV path")
	flag.Parse()

	log := logger.New("server")

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	catalog, err := loadCatalog(*paramsCSV)
	if err != nil {
		log.Fatal().Err(err).Str("path", *paramsCSV).Msg("failed to load parameter table")
	}
	log.Info().Int("rules", catalog.Len()).Msg("rule catalog loaded")

	handler := api.NewHandler(store, catalog)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", *port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// loadCatalog reads the parameter table export and extracts the rule set.
// A missing file yields an empty catalog: the record API still works, the
// calendar is just empty until the parameter table is supplied.
func loadCatalog(path string) (*params.Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return params.NewCatalog(nil), nil
		}
		return nil, err
	}
	defer f.Close()

	table, err := etl.ReadTable(f)
	if err != nil {
		return nil, err
	}
	return params.NewCatalog(etl.ParamRows(table)), nil
}

func envStr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
