package catalog

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coredatabase "github.com/m3rciful/journalbot/core/database"
	"github.com/m3rciful/journalbot/core/telegram/format"
)

func newTestStore(t *testing.T) (*SQLStore, *sqlx.DB) {
	t.Helper()
	cfg := coredatabase.Config{
		Driver:        coredatabase.DriverSQLite,
		Path:          ":memory:",
		MigrationsDir: "../../migrations",
	}
	require.NoError(t, cfg.Normalize())
	db, err := coredatabase.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, coredatabase.RunMigrations(db, cfg))
	require.NoError(t, Seed(context.Background(), db))
	return NewSQLStore(db), db
}

func TestSeedIsIdempotent(t *testing.T) {
	store, db := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, Seed(ctx, db))

	subjects, err := store.ListSubjects(ctx)
	require.NoError(t, err)
	assert.Len(t, subjects, len(SeedSubjects))

	sections, err := store.ListSections(ctx)
	require.NoError(t, err)
	require.Len(t, sections, 4)
	assert.Equal(t, "Milliy nashrlar", sections[0].Name)
	assert.Equal(t, "Amerika mamlakatlari nashrlari", sections[3].Name)
}

func TestListSubjectsAlphabetical(t *testing.T) {
	store, _ := newTestStore(t)
	subjects, err := store.ListSubjects(context.Background())
	require.NoError(t, err)
	for i := 1; i < len(subjects); i++ {
		assert.LessOrEqual(t, subjects[i-1].Name, subjects[i].Name)
	}
}

func TestCreateAndPageJournals(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	names := []string{"Zeta", "Alpha", "Mu", "Beta", "Gamma", "Delta", "Eta", "Theta", "Iota", "Kappa"}
	for _, n := range names {
		_, err := store.CreateJournal(ctx, Draft{SubjectID: 1, SectionID: 2, Name: n + " journal"})
		require.NoError(t, err)
	}

	page, err := store.ListJournalsPage(ctx, 1, 2, 1, 8)
	require.NoError(t, err)
	assert.Equal(t, 10, page.Total)
	assert.Equal(t, 2, page.TotalPages())
	require.Len(t, page.Journals, 8)
	assert.Equal(t, "Alpha journal", page.Journals[0].Name)

	second, err := store.ListJournalsPage(ctx, 1, 2, 2, 8)
	require.NoError(t, err)
	require.Len(t, second.Journals, 2)
	assert.Equal(t, "Zeta journal", second.Journals[1].Name)

	beyond, err := store.ListJournalsPage(ctx, 1, 2, 7, 8)
	require.NoError(t, err)
	assert.Empty(t, beyond.Journals)

	counts, err := store.SectionCounts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, counts, 4)
	assert.Equal(t, 0, counts[0].Journals)
	assert.Equal(t, 10, counts[1].Journals)
}

func TestCreateJournalKeepsOptionalFieldsNull(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateJournal(ctx, Draft{SubjectID: 3, SectionID: 1, Name: "  Tabiat  "})
	require.NoError(t, err)

	j, err := store.GetJournal(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Tabiat", j.Name)
	assert.Nil(t, j.ImageRef)
	assert.Nil(t, j.Frequency)
	assert.Nil(t, j.WebsiteURL)
	assert.Nil(t, j.ContactLink)
	assert.Nil(t, j.RequirementsLink)
	assert.Equal(t, "Milliy nashrlar", j.SectionName)
	assert.NotEmpty(t, j.SubjectName)
}

func TestCreateJournalRejectsMissingReferences(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.CreateJournal(ctx, Draft{SubjectID: 999, SectionID: 1, Name: "Orphan"})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = store.CreateJournal(ctx, Draft{SubjectID: 1, SectionID: 99, Name: "Orphan"})
	assert.ErrorIs(t, err, ErrInvalidReference)

	_, err = store.CreateJournal(ctx, Draft{SubjectID: 1, SectionID: 1, Name: "ab"})
	assert.ErrorIs(t, err, ErrNameTooShort)
}

func TestDeleteThenNotFound(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateJournal(ctx, Draft{SubjectID: 2, SectionID: 3, Name: "Kimyo jurnali"})
	require.NoError(t, err)
	before, err := store.CountJournals(ctx, 2, 3)
	require.NoError(t, err)

	require.NoError(t, store.DeleteJournal(ctx, id))

	_, err = store.GetJournal(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	after, err := store.CountJournals(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, before-1, after)

	assert.ErrorIs(t, store.DeleteJournal(ctx, id), ErrNotFound)
}

func TestUpdateJournalFieldLastWriteWins(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	id, err := store.CreateJournal(ctx, Draft{SubjectID: 1, SectionID: 1, Name: "Fizika"})
	require.NoError(t, err)

	require.NoError(t, store.UpdateJournalField(ctx, id, FieldWebsite, format.StringPtr("https://first.uz")))
	require.NoError(t, store.UpdateJournalField(ctx, id, FieldWebsite, format.StringPtr("https://second.uz")))

	j, err := store.GetJournal(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, j.WebsiteURL)
	assert.Equal(t, "https://second.uz", *j.WebsiteURL)

	require.NoError(t, store.UpdateJournalField(ctx, id, FieldWebsite, nil))
	j, err = store.GetJournal(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, j.WebsiteURL)

	assert.ErrorIs(t, store.UpdateJournalField(ctx, id, FieldName, format.StringPtr("x")), ErrNameTooShort)
	assert.ErrorIs(t, store.UpdateJournalField(ctx, 4242, FieldFrequency, format.StringPtr("Har oy")), ErrNotFound)
	assert.ErrorIs(t, store.UpdateJournalField(ctx, id, Field("issn"), nil), ErrUnknownField)
}

func TestStats(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	empty, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(SeedSubjects), empty.Subjects)
	assert.Equal(t, 4, empty.Sections)
	assert.Zero(t, empty.Journals)
	assert.Empty(t, empty.TopSubject)

	for i, sub := range []int64{5, 5, 2} {
		_, err := store.CreateJournal(ctx, Draft{SubjectID: sub, SectionID: 1, Name: "Journal " + string(rune('A'+i))})
		require.NoError(t, err)
	}
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Journals)
	assert.Equal(t, 2, stats.TopSubjectJournals)

	top, err := store.GetSubject(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, top.Name, stats.TopSubject)
}

func TestPostgresQueriesAreRebound(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer raw.Close()
	store := NewSQLStore(sqlx.NewDb(raw, "postgres"))

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE journals SET frequency = $1 WHERE id = $2`)).
		WithArgs("Har oy", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.UpdateJournalField(context.Background(), 7, FieldFrequency, format.StringPtr("Har oy")))

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM subjects WHERE id = $1) + (SELECT COUNT(*) FROM sections WHERE id = $2)`)).
		WithArgs(int64(1), int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"refs"}).AddRow(2))
	mock.ExpectQuery(`INSERT INTO journals .* RETURNING id`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectCommit()
	id, err := store.CreateJournal(context.Background(), Draft{SubjectID: 1, SectionID: 2, Name: "Sqlmock"})
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM journals WHERE id = $1`)).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, store.DeleteJournal(context.Background(), 3), ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
