package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// RunMigrations applies every *.up.sql file in migrationsDir in lexicographic
// order. The SQL files are idempotent (CREATE TABLE IF NOT EXISTS), so the
// runner can be re-run safely without a schema_migrations table.
func RunMigrations(db *sql.DB, migrationsDir string) error {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return err
	}

	var upMigrations []string
	for _, file := range files {
		if strings.HasSuffix(file.Name(), ".up.sql") {
			upMigrations = append(upMigrations, file.Name())
		}
	}

	sort.Strings(upMigrations)

	for _, migrationFile := range upMigrations {
		log.Info().Str("file", migrationFile).Msg("Running migration")
		content, err := os.ReadFile(filepath.Join(migrationsDir, migrationFile))
		if err != nil {
			return err
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("migration %s failed: %w", migrationFile, err)
		}
	}

	log.Info().Msg("Migrations completed successfully")
	return nil
}
