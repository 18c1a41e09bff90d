// Package browser renders the read-only catalog navigation: subjects, sections,
// paged journal lists and the journal detail card. All coordinates travel in
// callback payloads; the browser keeps no state between updates.
package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/m3rciful/journalbot/core/logger"
	"github.com/m3rciful/journalbot/core/telegram/format"
	"github.com/m3rciful/journalbot/core/telegram/keyboard"
	"github.com/m3rciful/journalbot/internal/action"
	"github.com/m3rciful/journalbot/internal/catalog"
	"github.com/m3rciful/journalbot/internal/view"
)

const (
	noSubjectsText = "❌ Fanlar ma'lumoti topilmadi. Iltimos, keyinroq urinib ko'ring."
	menuText       = "🎓 <b>Ilmiy jurnallar</b>\n\n📚 <b>Fanni tanlang:</b>"
	welcomeText    = "🎓 <b>Assalomu alaykum, %s!</b>\n\n" +
		"Ilmiy jurnallar botiga xush kelibsiz!\n\n" +
		"Bu bot orqali turli fanlar bo'yicha ilmiy jurnallar haqida ma'lumot olishingiz mumkin.\n\n" +
		"📚 <b>Fanni tanlang:</b>"
	// PageToast answers a press on the page indicator.
	PageToast = "📄 Joriy sahifa"
	// PhotoFailedNotice is appended when the journal image could not be sent.
	PhotoFailedNotice = "\n\n❗️ <i>Rasm yuklanmadi</i>"
)

// Browser builds catalog navigation replies.
type Browser struct {
	store    catalog.Store
	pageSize int
}

// New creates a browser. A non-positive page size falls back to catalog.DefaultPageSize.
func New(store catalog.Store, pageSize int) *Browser {
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	return &Browser{store: store, pageSize: pageSize}
}

// Welcome greets the user by name above the subject menu.
func (b *Browser) Welcome(ctx context.Context, name string) (view.Reply, error) {
	return b.subjects(ctx, fmt.Sprintf(welcomeText, format.HTML(name)))
}

// Subjects renders the subject menu.
func (b *Browser) Subjects(ctx context.Context) (view.Reply, error) {
	return b.subjects(ctx, menuText)
}

func (b *Browser) subjects(ctx context.Context, text string) (view.Reply, error) {
	subjects, err := b.store.ListSubjects(ctx)
	if err != nil {
		return view.Reply{}, err
	}
	if len(subjects) == 0 {
		return view.Reply{Text: noSubjectsText}, nil
	}
	buttons := make([]keyboard.InlineBtn, 0, len(subjects))
	for _, s := range subjects {
		buttons = append(buttons, action.IDButton(view.SubjectButton(s.Name), action.Subject, s.ID))
	}
	return view.Message(text, keyboard.Chunk(buttons, 2)...), nil
}

// Sections renders the sections of a subject with their journal counts.
func (b *Browser) Sections(ctx context.Context, subjectID int64) (view.Reply, error) {
	subject, err := b.store.GetSubject(ctx, subjectID)
	if errors.Is(err, catalog.ErrNotFound) {
		return view.AlertOnly("Fan topilmadi!"), nil
	}
	if err != nil {
		return view.Reply{}, err
	}
	counts, err := b.store.SectionCounts(ctx, subjectID)
	if err != nil {
		return view.Reply{}, err
	}

	rows := make([][]keyboard.InlineBtn, 0, len(counts)+1)
	for _, sc := range counts {
		nav := action.Nav{Subject: subjectID, Section: sc.ID, Page: 1}
		text := fmt.Sprintf("%s (%d)", view.Section(sc.Name, 20), sc.Journals)
		rows = append(rows, []keyboard.InlineBtn{action.Button(text, action.List, nav.Payload())})
	}
	rows = append(rows, []keyboard.InlineBtn{action.Button(view.BackText, action.Subjects, "")})

	text := fmt.Sprintf("📖 %s\n\nBo'limni tanlang:", format.Bold(format.Truncate(subject.Name, 30)))
	return view.Message(text, rows...), nil
}

// Journals renders one page of a section. Pages past the end are clamped to the
// last page.
func (b *Browser) Journals(ctx context.Context, nav action.Nav) (view.Reply, error) {
	subject, err := b.store.GetSubject(ctx, nav.Subject)
	if err == nil {
		var section catalog.Section
		section, err = b.store.GetSection(ctx, nav.Section)
		if err == nil {
			return b.journals(ctx, nav, subject, section)
		}
	}
	if errors.Is(err, catalog.ErrNotFound) {
		return view.AlertOnly(view.NotFoundText), nil
	}
	return view.Reply{}, err
}

func (b *Browser) journals(ctx context.Context, nav action.Nav, subject catalog.Subject, section catalog.Section) (view.Reply, error) {
	if nav.Page < 1 {
		nav.Page = 1
	}
	page, err := b.store.ListJournalsPage(ctx, nav.Subject, nav.Section, nav.Page, b.pageSize)
	if err != nil {
		return view.Reply{}, err
	}
	if len(page.Journals) == 0 && page.Total > 0 {
		nav.Page = page.TotalPages()
		if page, err = b.store.ListJournalsPage(ctx, nav.Subject, nav.Section, nav.Page, b.pageSize); err != nil {
			return view.Reply{}, err
		}
	}

	header := format.Bold(format.Truncate(subject.Name, 20))
	back := []keyboard.InlineBtn{action.IDButton(view.BackText, action.Subject, nav.Subject)}

	if page.Total == 0 {
		text := fmt.Sprintf("📚 %s\n%s\n\n❌ Jurnallar mavjud emas.", header, format.HTML(view.Section(section.Name, 15)))
		return view.Message(text, back), nil
	}

	rows := make([][]keyboard.InlineBtn, 0, len(page.Journals)+2)
	for i, j := range page.Journals {
		text := fmt.Sprintf("%d. %s", page.Number(i), format.Truncate(j.Name, 35))
		rows = append(rows, []keyboard.InlineBtn{action.Button(text, action.Journal, action.JournalPayload(j.ID, page.Page))})
	}
	rows = append(rows, Pager(page, action.List, nav))
	rows = append(rows, back)

	text := fmt.Sprintf("📚 %s\n%s\n\n📖 Jurnallar (%d)\n📄 %d/%d:",
		header, format.HTML(view.Section(section.Name, 10)), page.Total, page.Page, page.TotalPages())

	logger.SVCCatalog.Debug("journals listed",
		slog.String("event", "catalog.list"),
		slog.Int64("subject_id", nav.Subject),
		slog.Int64("section_id", nav.Section),
		slog.Int("page", page.Page),
		slog.Int("journals_shown", len(page.Journals)),
		slog.Int("journals_total", page.Total),
	)
	return view.Message(text, rows...), nil
}

// BackToList re-sends a section page in place of the detail card.
func (b *Browser) BackToList(ctx context.Context, nav action.Nav) (view.Reply, error) {
	r, err := b.Journals(ctx, nav)
	if err != nil || r.Text == "" {
		return r, err
	}
	r.Fresh = true
	return r, nil
}

// Pager returns the ‹ page/total › row, or nil when everything fits on one page.
func Pager(page catalog.Page, kind string, nav action.Nav) []keyboard.InlineBtn {
	pages := page.TotalPages()
	if pages <= 1 {
		return nil
	}
	row := make([]keyboard.InlineBtn, 0, 3)
	if page.HasPrev() {
		row = append(row, action.Button("⬅️", kind, nav.WithPage(page.Page-1).Payload()))
	}
	row = append(row, action.Button(strconv.Itoa(page.Page)+"/"+strconv.Itoa(pages), action.PageNoop, ""))
	if page.HasNext() {
		row = append(row, action.Button("➡️", kind, nav.WithPage(page.Page+1).Payload()))
	}
	return row
}

// Detail renders the journal card. Empty optional fields are omitted; the card
// replaces the list message and carries the image when one is stored.
func (b *Browser) Detail(ctx context.Context, journalID int64, fromPage int) (view.Reply, error) {
	j, err := b.store.GetJournal(ctx, journalID)
	if errors.Is(err, catalog.ErrNotFound) {
		return view.AlertOnly(view.JournalMissing), nil
	}
	if err != nil {
		return view.Reply{}, err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📖 %s\n\n", format.Bold(j.Name))
	fmt.Fprintf(&sb, "🎓 <b>Fan:</b> %s\n", format.HTML(j.SubjectName))
	fmt.Fprintf(&sb, "🏛️ <b>Bo'lim:</b> %s\n", format.HTML(j.SectionName))
	if v := format.DerefString(j.Frequency, ""); v != "" {
		fmt.Fprintf(&sb, "📅 <b>Nashr chastotasi:</b> %s\n", format.HTML(v))
	}

	var rows [][]keyboard.InlineBtn
	if v := format.DerefString(j.WebsiteURL, ""); v != "" {
		rows = append(rows, []keyboard.InlineBtn{action.Link("🌐 Saytga o'tish", v)})
	}
	var links []keyboard.InlineBtn
	if v := format.DerefString(j.ContactLink, ""); v != "" {
		if addr, ok := strings.CutPrefix(v, "mailto:"); ok {
			// Telegram refuses mailto: in URL buttons.
			fmt.Fprintf(&sb, "📧 <b>Murojaat:</b> %s\n", format.HTML(addr))
		} else {
			links = append(links, action.Link("📧 Murojaat", v))
		}
	}
	if v := format.DerefString(j.RequirementsLink, ""); v != "" {
		links = append(links, action.Link("📋 Talablar", v))
	}
	rows = append(rows, links)

	if fromPage < 1 {
		fromPage = 1
	}
	back := action.Nav{Subject: j.SubjectID, Section: j.SectionID, Page: fromPage}
	rows = append(rows, []keyboard.InlineBtn{action.Button(view.BackText, action.BackList, back.Payload())})

	r := view.Message(format.Markup(strings.TrimRight(sb.String(), "\n")), rows...)
	r.Photo = format.DerefString(j.ImageRef, "")
	r.Fresh = true
	return r, nil
}
