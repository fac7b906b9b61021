package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"
	"knockknock/internal/platform/config"
)

// RunMigrations executes every .sql file under <migrations_dir>/<driver>
// in name order. Files are written to be idempotent (CREATE TABLE IF NOT
// EXISTS), so the server can run this on every startup.
func RunMigrations(db *sql.DB, cfg config.DatabaseConfig) error {
	dir := filepath.Join(cfg.MigrationsDir, cfg.Driver)

	files, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read migration directory: %w", err)
	}

	var names []string
	for _, file := range files {
		if filepath.Ext(file.Name()) == ".sql" {
			names = append(names, file.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		log.Info().Str("file", name).Msg("applying migration")
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", name, err)
		}
	}
	return nil
}
