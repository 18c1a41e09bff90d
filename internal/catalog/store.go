package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/journalbot/core/logger"
)

// Store is the persistence contract of the catalog.
type Store interface {
	ListSubjects(ctx context.Context) ([]Subject, error)
	GetSubject(ctx context.Context, id int64) (Subject, error)
	ListSections(ctx context.Context) ([]Section, error)
	GetSection(ctx context.Context, id int64) (Section, error)
	SectionCounts(ctx context.Context, subjectID int64) ([]SectionCount, error)
	CountJournals(ctx context.Context, subjectID, sectionID int64) (int, error)
	ListJournalsPage(ctx context.Context, subjectID, sectionID int64, page, size int) (Page, error)
	GetJournal(ctx context.Context, id int64) (JournalDetail, error)
	CreateJournal(ctx context.Context, d Draft) (int64, error)
	UpdateJournalField(ctx context.Context, id int64, f Field, value *string) error
	DeleteJournal(ctx context.Context, id int64) error
	Stats(ctx context.Context) (Stats, error)
}

// SQLStore implements Store on sqlx. Queries are written with ? placeholders and
// rebound for the connected driver.
type SQLStore struct {
	db *sqlx.DB
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) q(query string) string { return s.db.Rebind(query) }

// ListSubjects returns all subjects ordered by name.
func (s *SQLStore) ListSubjects(ctx context.Context) ([]Subject, error) {
	var out []Subject
	if err := s.db.SelectContext(ctx, &out, `SELECT id, name FROM subjects ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return out, nil
}

// GetSubject loads one subject.
func (s *SQLStore) GetSubject(ctx context.Context, id int64) (Subject, error) {
	var out Subject
	err := s.db.GetContext(ctx, &out, s.q(`SELECT id, name FROM subjects WHERE id = ?`), id)
	if err != nil {
		return Subject{}, notFound(fmt.Sprintf("get subject %d", id), err)
	}
	return out, nil
}

// ListSections returns sections in seed order.
func (s *SQLStore) ListSections(ctx context.Context) ([]Section, error) {
	var out []Section
	if err := s.db.SelectContext(ctx, &out, `SELECT id, name FROM sections ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return out, nil
}

// GetSection loads one section.
func (s *SQLStore) GetSection(ctx context.Context, id int64) (Section, error) {
	var out Section
	err := s.db.GetContext(ctx, &out, s.q(`SELECT id, name FROM sections WHERE id = ?`), id)
	if err != nil {
		return Section{}, notFound(fmt.Sprintf("get section %d", id), err)
	}
	return out, nil
}

// SectionCounts returns every section with the number of journals filed under the subject.
func (s *SQLStore) SectionCounts(ctx context.Context, subjectID int64) ([]SectionCount, error) {
	var out []SectionCount
	err := s.db.SelectContext(ctx, &out, s.q(`
		SELECT s.id, s.name, COUNT(j.id) AS journals
		FROM sections s
		LEFT JOIN journals j ON j.section_id = s.id AND j.subject_id = ?
		GROUP BY s.id, s.name
		ORDER BY s.id`), subjectID)
	if err != nil {
		return nil, fmt.Errorf("section counts for subject %d: %w", subjectID, err)
	}
	return out, nil
}

// CountJournals counts journals of one subject and section.
func (s *SQLStore) CountJournals(ctx context.Context, subjectID, sectionID int64) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		s.q(`SELECT COUNT(*) FROM journals WHERE subject_id = ? AND section_id = ?`),
		subjectID, sectionID)
	if err != nil {
		return 0, fmt.Errorf("count journals: %w", err)
	}
	return n, nil
}

// ListJournalsPage returns one page of journals ordered by name. Pages outside
// the listing yield an empty slice together with the total.
func (s *SQLStore) ListJournalsPage(ctx context.Context, subjectID, sectionID int64, page, size int) (Page, error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	out := Page{Page: page, Size: size}

	total, err := s.CountJournals(ctx, subjectID, sectionID)
	if err != nil {
		return out, err
	}
	out.Total = total
	if page < 1 || page > TotalPages(total, size) {
		out.Journals = []Journal{}
		return out, nil
	}

	err = s.db.SelectContext(ctx, &out.Journals, s.q(`
		SELECT id, subject_id, section_id, name, image_ref, frequency,
		       website_url, contact_link, requirements_link, created_at
		FROM journals
		WHERE subject_id = ? AND section_id = ?
		ORDER BY name, id
		LIMIT ? OFFSET ?`), subjectID, sectionID, size, Offset(page, size))
	if err != nil {
		return out, fmt.Errorf("list journals: %w", err)
	}
	return out, nil
}

// GetJournal loads a journal with its subject and section names.
func (s *SQLStore) GetJournal(ctx context.Context, id int64) (JournalDetail, error) {
	var out JournalDetail
	err := s.db.GetContext(ctx, &out, s.q(`
		SELECT j.id, j.subject_id, j.section_id, j.name, j.image_ref, j.frequency,
		       j.website_url, j.contact_link, j.requirements_link, j.created_at,
		       sub.name AS subject_name, sec.name AS section_name
		FROM journals j
		JOIN subjects sub ON sub.id = j.subject_id
		JOIN sections sec ON sec.id = j.section_id
		WHERE j.id = ?`), id)
	if err != nil {
		return JournalDetail{}, notFound(fmt.Sprintf("get journal %d", id), err)
	}
	return out, nil
}

// CreateJournal validates the draft name, checks both references and inserts the
// journal in one transaction.
func (s *SQLStore) CreateJournal(ctx context.Context, d Draft) (int64, error) {
	name, err := ValidateName(d.Name)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("create journal: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var refs int
	err = tx.GetContext(ctx, &refs, tx.Rebind(`
		SELECT (SELECT COUNT(*) FROM subjects WHERE id = ?) + (SELECT COUNT(*) FROM sections WHERE id = ?)`),
		d.SubjectID, d.SectionID)
	if err != nil {
		return 0, fmt.Errorf("create journal: check references: %w", err)
	}
	if refs != 2 {
		return 0, fmt.Errorf("%w: subject %d, section %d", ErrInvalidReference, d.SubjectID, d.SectionID)
	}

	var id int64
	err = tx.GetContext(ctx, &id, tx.Rebind(`
		INSERT INTO journals (subject_id, section_id, name, image_ref, frequency,
		                      website_url, contact_link, requirements_link)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`),
		d.SubjectID, d.SectionID, name, d.ImageRef, d.Frequency,
		d.WebsiteURL, d.ContactLink, d.RequirementsLink)
	if err != nil {
		return 0, fmt.Errorf("create journal: insert: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("create journal: commit: %w", err)
	}

	logger.SVCCatalog.Info("journal created",
		slog.String("event", "catalog.create"),
		slog.Int64("journal_id", id),
		slog.Int64("subject_id", d.SubjectID),
		slog.Int64("section_id", d.SectionID),
	)
	return id, nil
}

// UpdateJournalField overwrites one field. The column name comes from the Field
// whitelist, never from input.
func (s *SQLStore) UpdateJournalField(ctx context.Context, id int64, f Field, value *string) error {
	col, err := f.Column()
	if err != nil {
		return err
	}
	if f == FieldName {
		if value == nil {
			return fmt.Errorf("%w: name", ErrEmptyValue)
		}
		name, err := ValidateName(*value)
		if err != nil {
			return err
		}
		value = &name
	}

	res, err := s.db.ExecContext(ctx, s.q(`UPDATE journals SET `+col+` = ? WHERE id = ?`), value, id)
	if err != nil {
		return fmt.Errorf("update journal %d %s: %w", id, f, err)
	}
	if err := requireRow(res, fmt.Sprintf("update journal %d", id)); err != nil {
		return err
	}

	logger.SVCCatalog.Info("journal updated",
		slog.String("event", "catalog.update"),
		slog.Int64("journal_id", id),
		slog.String("field", string(f)),
	)
	return nil
}

// DeleteJournal removes a journal.
func (s *SQLStore) DeleteJournal(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM journals WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete journal %d: %w", id, err)
	}
	if err := requireRow(res, fmt.Sprintf("delete journal %d", id)); err != nil {
		return err
	}
	logger.SVCCatalog.Info("journal deleted",
		slog.String("event", "catalog.delete"),
		slog.Int64("journal_id", id),
	)
	return nil
}

// Stats counts catalog rows and finds the subject with the most journals.
func (s *SQLStore) Stats(ctx context.Context) (Stats, error) {
	var out Stats
	err := s.db.GetContext(ctx, &out, `
		SELECT (SELECT COUNT(*) FROM subjects) AS subjects,
		       (SELECT COUNT(*) FROM sections) AS sections,
		       (SELECT COUNT(*) FROM journals) AS journals`)
	if err != nil {
		return Stats{}, fmt.Errorf("catalog stats: %w", err)
	}

	var top struct {
		Name     string `db:"name"`
		Journals int    `db:"journals"`
	}
	err = s.db.GetContext(ctx, &top, `
		SELECT s.name, COUNT(j.id) AS journals
		FROM subjects s
		JOIN journals j ON j.subject_id = s.id
		GROUP BY s.id, s.name
		ORDER BY journals DESC, s.name
		LIMIT 1`)
	switch {
	case err == nil:
		out.TopSubject = top.Name
		out.TopSubjectJournals = top.Journals
	case errors.Is(err, sql.ErrNoRows):
	default:
		return Stats{}, fmt.Errorf("catalog stats: top subject: %w", err)
	}
	return out, nil
}

func notFound(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
