package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/journalbot/core/logger"
)

// readyTimeout bounds the wait for a freshly started Postgres.
var readyTimeout = 30 * time.Second

// migrationFile is one *.up.sql file and the version prefix of its name.
type migrationFile struct {
	name    string
	version uint64
}

// RunMigrations brings the schema up to the newest migration in the
// driver's directory. SQLite migrates through db itself so that an
// in-memory database keeps its schema.
func RunMigrations(db *sqlx.DB, cfg Config) error {
	fail := func(event, msg string, err error) error {
		logger.MIG.Error(msg, slog.String("event", event), slog.String("err", err.Error()))
		return fmt.Errorf("%s: %w", msg, err)
	}

	if cfg.Driver == DriverPostgres {
		ctx, cancel := context.WithTimeout(context.Background(), readyTimeout)
		err := WaitForDatabase(ctx, cfg)
		cancel()
		if err != nil {
			return fail("db.migrate", "database not ready", err)
		}
	}

	dir, err := cfg.MigrationsPath()
	if err != nil {
		return fail("db.migrate", "migrations path lookup failed", err)
	}
	files := scanMigrations(dir)
	logFiles(slog.LevelDebug, "migrations resolved", files,
		slog.String("event", "resolve"),
		slog.String("driver", cfg.Driver),
		slog.String("path", dir),
	)

	m, err := newMigrator(db, cfg, "file://"+dir)
	if err != nil {
		return fail("db.migrate", "migrations init failed", err)
	}
	if cfg.Driver != DriverSQLite {
		// Closing the sqlite driver would close db.
		defer m.Close()
	}

	from, _, _ := m.Version()
	start := time.Now()
	err = m.Up()
	took := logger.RoundMS(time.Since(start))
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		logger.MIG.Error("migration failed",
			slog.String("event", "apply"),
			slog.String("err", err.Error()),
			slog.Duration("duration", took),
		)
		return fmt.Errorf("migration execution failed: %w", err)
	}
	to, _, _ := m.Version()

	applied := between(files, uint64(from), uint64(to))
	if len(applied) > 0 {
		logFiles(slog.LevelDebug, "applied files", applied, slog.String("event", "apply"))
	}
	logger.MIG.Info("migrations summary",
		slog.String("event", "summary"),
		slog.Uint64("from_ver", uint64(from)),
		slog.Uint64("to_ver", uint64(to)),
		slog.Int("files", len(applied)),
		slog.Duration("duration", took),
	)
	return nil
}

func newMigrator(db *sqlx.DB, cfg Config, source string) (*migrate.Migrate, error) {
	if cfg.Driver != DriverSQLite {
		return migrate.New(source, cfg.MigrateURL())
	}
	if db == nil {
		return nil, errors.New("sqlite migrations need an open database")
	}
	driver, err := sqlite.WithInstance(db.DB, &sqlite.Config{})
	if err != nil {
		return nil, err
	}
	return migrate.NewWithDatabaseInstance(source, DriverSQLite, driver)
}

// scanMigrations lists the up migrations in dir ordered by name. An
// unreadable dir yields nothing; migrate reports the real error.
func scanMigrations(dir string) []migrationFile {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var files []migrationFile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".up.sql") {
			continue
		}
		prefix, _, _ := strings.Cut(e.Name(), "_")
		v, _ := strconv.ParseUint(prefix, 10, 64)
		files = append(files, migrationFile{name: e.Name(), version: v})
	}
	slices.SortFunc(files, func(a, b migrationFile) int { return strings.Compare(a.name, b.name) })
	return files
}

// between returns the files with from < version <= to.
func between(files []migrationFile, from, to uint64) []migrationFile {
	var out []migrationFile
	for _, f := range files {
		if f.version > from && f.version <= to {
			out = append(out, f)
		}
	}
	return out
}

func logFiles(level slog.Level, msg string, files []migrationFile, attrs ...slog.Attr) {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
	}
	attrs = append(attrs, slog.Int("files_total", len(names)))
	if preview, truncated := logger.SummarizeStrings(names, 6); preview != "" {
		attrs = append(attrs, slog.String("files_preview", preview))
		if truncated {
			attrs = append(attrs, slog.Bool("files_truncated", true))
		}
	}
	logger.MIG.LogAttrs(context.Background(), level, msg, attrs...)
}
