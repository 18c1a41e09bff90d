package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/journalbot/core/logger"
)

// SeedSubjects are the fields of science the catalog starts with.
var SeedSubjects = []string{
	"Fizika-matematika fanlari",
	"Kimyo fanlari",
	"Biologiya fanlari",
	"Geologiya-mineralogiya fanlari",
	"Texnika fanlari",
	"Qishloq xo'jaligi fanlari",
	"Tarix fanlari",
	"Iqtisodiyot fanlari",
	"Falsafa fanlari",
	"Filologiya fanlari",
	"Geografiya fanlari",
	"Yuridik fanlar",
	"Pedagogika fanlari",
	"Tibbiyot fanlari",
	"Farmatsevtika fanlari",
	"Veterinariya fanlari",
	"San'atshunoslik fanlari",
	"Arxitektura",
	"Psixologiya fanlari",
	"Harbiy fanlar",
	"Sotsiologiya fanlari",
	"Siyosiy fanlar",
	"Islomshunoslik fanlari",
}

// SeedSections are the regional sections in display order.
var SeedSections = []string{
	"Milliy nashrlar",
	"Mustaqil davlatlar hamdo'stligi mamlakatlari nashrlari",
	"Evropa mamlakatlari nashrlari",
	"Amerika mamlakatlari nashrlari",
}

// Seed inserts missing subjects and sections. Running it again changes nothing.
func Seed(ctx context.Context, db *sqlx.DB) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed catalog: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	subjects, err := seedNames(ctx, tx, "subjects", SeedSubjects)
	if err != nil {
		return err
	}
	sections, err := seedNames(ctx, tx, "sections", SeedSections)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed catalog: commit: %w", err)
	}

	logger.SEED.Info("catalog seeded",
		slog.String("event", "db.seed"),
		slog.Int("subjects_added", subjects),
		slog.Int("sections_added", sections),
	)
	return nil
}

func seedNames(ctx context.Context, tx *sqlx.Tx, table string, names []string) (int, error) {
	insert := tx.Rebind(`INSERT INTO ` + table + ` (name) VALUES (?) ON CONFLICT (name) DO NOTHING`)
	added := 0
	for _, name := range names {
		res, err := tx.ExecContext(ctx, insert, name)
		if err != nil {
			return added, fmt.Errorf("seed %s %q: %w", table, name, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			added += int(n)
		}
	}
	return added, nil
}
