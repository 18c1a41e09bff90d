package browser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coredatabase "github.com/m3rciful/journalbot/core/database"
	"github.com/m3rciful/journalbot/core/telegram/format"
	"github.com/m3rciful/journalbot/internal/action"
	"github.com/m3rciful/journalbot/internal/catalog"
)

func newTestBrowser(t *testing.T, pageSize int) (*Browser, *catalog.SQLStore) {
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
	require.NoError(t, catalog.Seed(context.Background(), db))
	store := catalog.NewSQLStore(db)
	return New(store, pageSize), store
}

func addJournals(t *testing.T, store *catalog.SQLStore, subject, section int64, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		id, err := store.CreateJournal(context.Background(), catalog.Draft{
			SubjectID: subject,
			SectionID: section,
			Name:      fmt.Sprintf("Journal %02d", i+1),
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestSubjectsTwoColumns(t *testing.T) {
	b, _ := newTestBrowser(t, 8)
	r, err := b.Welcome(context.Background(), "Ali <script>")
	require.NoError(t, err)
	assert.Contains(t, r.Text, "Assalomu alaykum, Ali")
	assert.NotContains(t, r.Text, "<script>")
	require.NotNil(t, r.Markup)
	for _, row := range r.Markup.InlineKeyboard {
		assert.LessOrEqual(t, len(row), 2)
	}
	assert.Len(t, r.Buttons(), len(catalog.SeedSubjects))
	assert.Equal(t, action.Subject, r.Buttons()[0].Unique)
}

func TestSectionsShowCounts(t *testing.T) {
	b, store := newTestBrowser(t, 8)
	addJournals(t, store, 1, 2, 3)

	r, err := b.Sections(context.Background(), 1)
	require.NoError(t, err)
	buttons := r.Buttons()
	require.Len(t, buttons, 5)
	assert.Equal(t, "🇺🇿 Milliy nashrlar (0)", buttons[0].Text)
	assert.Equal(t, "🤝 MDH nashrlari (3)", buttons[1].Text)
	assert.Equal(t, action.List, buttons[1].Unique)
	assert.Equal(t, "1:2:1", buttons[1].Data)
	assert.Equal(t, action.Subjects, buttons[4].Unique)

	missing, err := b.Sections(context.Background(), 999)
	require.NoError(t, err)
	assert.NotEmpty(t, missing.Alert)
	assert.Empty(t, missing.Text)
}

func TestJournalsPagination(t *testing.T) {
	b, store := newTestBrowser(t, 8)
	addJournals(t, store, 1, 1, 17)
	ctx := context.Background()

	first, err := b.Journals(ctx, action.Nav{Subject: 1, Section: 1, Page: 1})
	require.NoError(t, err)
	assert.Contains(t, first.Text, "Jurnallar (17)")
	assert.Contains(t, first.Text, "1/3")
	rows := first.Markup.InlineKeyboard
	require.Len(t, rows, 10)
	assert.Equal(t, "1. Journal 01", rows[0][0].Text)
	assert.Equal(t, action.Journal, rows[0][0].Unique)
	pager := rows[8]
	require.Len(t, pager, 2)
	assert.Equal(t, action.PageNoop, pager[0].Unique)
	assert.Equal(t, "1:1:2", pager[1].Data)

	middle, err := b.Journals(ctx, action.Nav{Subject: 1, Section: 1, Page: 2})
	require.NoError(t, err)
	pager = middle.Markup.InlineKeyboard[8]
	require.Len(t, pager, 3)
	assert.Equal(t, "1:1:1", pager[0].Data)
	assert.Equal(t, "9. Journal 09", middle.Markup.InlineKeyboard[0][0].Text)

	last, err := b.Journals(ctx, action.Nav{Subject: 1, Section: 1, Page: 3})
	require.NoError(t, err)
	require.Len(t, last.Markup.InlineKeyboard, 3)
	assert.Equal(t, "17. Journal 17", last.Markup.InlineKeyboard[0][0].Text)

	clamped, err := b.Journals(ctx, action.Nav{Subject: 1, Section: 1, Page: 40})
	require.NoError(t, err)
	assert.Contains(t, clamped.Text, "3/3")
}

func TestJournalsSinglePageHasNoPager(t *testing.T) {
	b, store := newTestBrowser(t, 8)
	addJournals(t, store, 2, 1, 3)

	r, err := b.Journals(context.Background(), action.Nav{Subject: 2, Section: 1, Page: 1})
	require.NoError(t, err)
	for _, btn := range r.Buttons() {
		assert.NotEqual(t, action.PageNoop, btn.Unique)
	}
	require.Len(t, r.Markup.InlineKeyboard, 4)
}

func TestJournalsEmptySection(t *testing.T) {
	b, _ := newTestBrowser(t, 8)
	r, err := b.Journals(context.Background(), action.Nav{Subject: 1, Section: 4, Page: 1})
	require.NoError(t, err)
	assert.Contains(t, r.Text, "Jurnallar mavjud emas")
	buttons := r.Buttons()
	require.Len(t, buttons, 1)
	assert.Equal(t, action.Subject, buttons[0].Unique)
	assert.Equal(t, "1", buttons[0].Data)
}

func TestDetailOmitsEmptyFields(t *testing.T) {
	b, store := newTestBrowser(t, 8)
	ctx := context.Background()
	id, err := store.CreateJournal(ctx, catalog.Draft{SubjectID: 1, SectionID: 1, Name: "Bare journal"})
	require.NoError(t, err)

	r, err := b.Detail(ctx, id, 2)
	require.NoError(t, err)
	assert.True(t, r.Fresh)
	assert.Empty(t, r.Photo)
	assert.NotContains(t, r.Text, "Nashr chastotasi")
	buttons := r.Buttons()
	require.Len(t, buttons, 1)
	assert.Equal(t, action.BackList, buttons[0].Unique)
	assert.Equal(t, "1:1:2", buttons[0].Data)
}

func TestDetailKeepsBracketedNames(t *testing.T) {
	b, store := newTestBrowser(t, 8)
	ctx := context.Background()
	id, err := store.CreateJournal(ctx, catalog.Draft{SubjectID: 1, SectionID: 1, Name: "<Fizika>"})
	require.NoError(t, err)

	r, err := b.Detail(ctx, id, 1)
	require.NoError(t, err)
	assert.Contains(t, r.Text, "📖 <b>&lt;Fizika&gt;</b>")
}

func TestDetailWithAllFields(t *testing.T) {
	b, store := newTestBrowser(t, 8)
	ctx := context.Background()
	id, err := store.CreateJournal(ctx, catalog.Draft{
		SubjectID:        3,
		SectionID:        2,
		Name:             "Full & complete",
		ImageRef:         format.StringPtr("AgACAgIAAxkBAAI"),
		Frequency:        format.StringPtr("Yilda 4 marta"),
		WebsiteURL:       format.StringPtr("https://journal.uz"),
		ContactLink:      format.StringPtr("mailto:editor@journal.uz"),
		RequirementsLink: format.StringPtr("https://journal.uz/req"),
	})
	require.NoError(t, err)

	r, err := b.Detail(ctx, id, 1)
	require.NoError(t, err)
	assert.Equal(t, "AgACAgIAAxkBAAI", r.Photo)
	assert.Contains(t, r.Text, "Full &amp; complete")
	assert.Contains(t, r.Text, "<b>Fan:</b>")
	assert.Contains(t, r.Text, "Yilda 4 marta")
	assert.Contains(t, r.Text, "editor@journal.uz")

	var urls []string
	for _, btn := range r.Buttons() {
		if btn.URL != "" {
			urls = append(urls, btn.URL)
		}
	}
	assert.Equal(t, []string{"https://journal.uz", "https://journal.uz/req"}, urls)

	missing, err := b.Detail(ctx, id+100, 1)
	require.NoError(t, err)
	assert.Equal(t, "Jurnal topilmadi!", missing.Alert)
}

func TestBackToListIsFresh(t *testing.T) {
	b, store := newTestBrowser(t, 8)
	addJournals(t, store, 1, 3, 2)
	r, err := b.BackToList(context.Background(), action.Nav{Subject: 1, Section: 3, Page: 1})
	require.NoError(t, err)
	assert.True(t, r.Fresh)
	assert.True(t, strings.HasPrefix(r.Text, "📚"))
}
