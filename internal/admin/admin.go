// Package admin implements the administrator flows: the panel, the add-journal
// wizard, the single-field editor and the delete flow. Every entry point checks
// the administrator set itself; sessions never cache that decision.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/journalbot/core/logger"
	"github.com/m3rciful/journalbot/core/telegram/format"
	"github.com/m3rciful/journalbot/core/telegram/keyboard"
	"github.com/m3rciful/journalbot/core/telegram/state"
	"github.com/m3rciful/journalbot/internal/action"
	"github.com/m3rciful/journalbot/internal/browser"
	"github.com/m3rciful/journalbot/internal/catalog"
	"github.com/m3rciful/journalbot/internal/view"
)

// ErrForbidden is returned to callers outside the administrator set.
var ErrForbidden = errors.New("admin: forbidden")

const (
	DeniedText  = "❌ Sizda admin huquqlari yo'q!"
	DeniedAlert = "❌ Ruxsat yo'q!"

	sessionExpired  = "⏳ Amal eskirgan. Qaytadan boshlang."
	staleButtonText = "⚠️ Bu tugma eskirgan."
	chooseSection   = "🏛️ Bo'limni tanlang:"
)

// UserCounter reports the number of registered users.
type UserCounter interface {
	Count(ctx context.Context) (int, error)
}

// Options wires a Service.
type Options struct {
	Catalog  catalog.Store
	Users    UserCounter
	Sessions SessionStore
	IsAdmin  func(userID int64) bool
	// PageSize bounds the journal lists of the edit and delete drill-downs.
	PageSize int
}

// Service runs the administrator flows.
type Service struct {
	catalog  catalog.Store
	users    UserCounter
	sessions SessionStore
	isAdmin  func(int64) bool
	pageSize int
}

// NewService builds a Service. A nil IsAdmin rejects everyone.
func NewService(opts Options) *Service {
	if opts.Sessions == nil {
		opts.Sessions = NewMemorySessions()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = catalog.DefaultPageSize
	}
	return &Service{
		catalog:  opts.Catalog,
		users:    opts.Users,
		sessions: opts.Sessions,
		isAdmin:  opts.IsAdmin,
		pageSize: opts.PageSize,
	}
}

// IsAdmin reports whether userID may use the admin flows.
func (s *Service) IsAdmin(userID int64) bool {
	return s.isAdmin != nil && s.isAdmin(userID)
}

func (s *Service) authorize(ctx context.Context, userID int64, op string) error {
	if s.IsAdmin(userID) {
		return nil
	}
	logger.SVCAdmin.Warn("admin action denied",
		slog.String("event", "admin.denied"),
		slog.Int64("user_id", userID),
		slog.String("op", op),
	)
	return ErrForbidden
}

// InProgress reports whether the user has a session that consumes messages.
func (s *Service) InProgress(ctx context.Context, userID int64) bool {
	return state.Has(ctx, s.sessions, userID)
}

// Session returns the active session of the user.
func (s *Service) Session(ctx context.Context, userID int64) (Session, error) {
	return s.sessions.Get(ctx, userID)
}

func (s *Service) discard(ctx context.Context, userID int64) {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		logger.SVCAdmin.Warn("session discard failed",
			slog.String("event", "admin.session"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}
}

// staleButton answers a button that no longer matches the active session.
func (s *Service) staleButton(userID int64, op, payload string) view.Reply {
	logger.SVCAdmin.Debug("stale button ignored",
		slog.String("event", "admin.stale"),
		slog.Int64("user_id", userID),
		slog.String("op", op),
		slog.String("payload", payload),
	)
	return view.AlertOnly(staleButtonText)
}

func (s *Service) start(ctx context.Context, userID int64, session Session) error {
	if err := s.sessions.Put(ctx, userID, session); err != nil {
		return fmt.Errorf("admin: store session: %w", err)
	}
	logger.SVCAdmin.Debug("session started",
		slog.String("event", "admin.session"),
		slog.Int64("user_id", userID),
		slog.String("flow", session.kind()),
	)
	return nil
}

// Panel discards any session and renders the admin panel with quick counts.
func (s *Service) Panel(ctx context.Context, userID int64) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "panel"); err != nil {
		return view.Reply{}, err
	}
	s.discard(ctx, userID)

	stats, users, err := s.counts(ctx)
	if err != nil {
		return view.Reply{}, err
	}
	text := fmt.Sprintf("🔧 <b>ADMIN PANEL</b>\n\n"+
		"📊 <b>Tezkor statistika:</b>\n"+
		"👥 Foydalanuvchilar: %d\n"+
		"📚 Jurnallar: %d\n"+
		"🎓 Fanlar: %d\n"+
		"🏛️ Bo'limlar: %d\n\n"+
		"Kerakli amalni tanlang:",
		users, stats.Journals, stats.Subjects, stats.Sections)

	return view.Message(text,
		[]keyboard.InlineBtn{action.Button("📊 Statistika", action.AdminStats, "")},
		[]keyboard.InlineBtn{
			action.Button("➕ Jurnal qo'shish", action.AddStart, ""),
			action.Button("✏️ Jurnal tahrirlash", action.EditStart, ""),
		},
		[]keyboard.InlineBtn{action.Button("🗑️ Jurnal o'chirish", action.DeleteStart, "")},
	), nil
}

// Stats renders the detailed statistics.
func (s *Service) Stats(ctx context.Context, userID int64) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "stats"); err != nil {
		return view.Reply{}, err
	}
	s.discard(ctx, userID)

	stats, users, err := s.counts(ctx)
	if err != nil {
		return view.Reply{}, err
	}
	top := "—"
	if stats.TopSubject != "" {
		top = fmt.Sprintf("%s (%d ta jurnal)", format.HTML(stats.TopSubject), stats.TopSubjectJournals)
	}
	text := fmt.Sprintf("📊 <b>BATAFSIL STATISTIKA</b>\n\n"+
		"👥 <b>Foydalanuvchilar:</b> %d\n"+
		"📚 <b>Jurnallar:</b> %d\n"+
		"🎓 <b>Fanlar:</b> %d\n"+
		"🏛️ <b>Bo'limlar:</b> %d\n\n"+
		"🏆 <b>Eng ko'p jurnali bo'lgan fan:</b>\n%s",
		users, stats.Journals, stats.Subjects, stats.Sections, top)
	return view.Message(text, backToPanel()), nil
}

func (s *Service) counts(ctx context.Context) (catalog.Stats, int, error) {
	stats, err := s.catalog.Stats(ctx)
	if err != nil {
		return catalog.Stats{}, 0, err
	}
	users := 0
	if s.users != nil {
		if users, err = s.users.Count(ctx); err != nil {
			return catalog.Stats{}, 0, err
		}
	}
	return stats, users, nil
}

// Cancel drops the active session and returns to the panel.
func (s *Service) Cancel(ctx context.Context, userID int64) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "cancel"); err != nil {
		return view.Reply{}, err
	}
	r, err := s.Panel(ctx, userID)
	if err != nil {
		return r, err
	}
	r.Toast = "Bekor qilindi"
	return r, nil
}

func backToPanel() []keyboard.InlineBtn {
	return []keyboard.InlineBtn{action.Button(view.BackText, action.AdminMenu, "")}
}

func cancelRow() []keyboard.InlineBtn {
	return []keyboard.InlineBtn{keyboard.CancelButton(action.AdminCancel)}
}

// subjectMenu lists subjects one per row, each bound to kind.
func (s *Service) subjectMenu(ctx context.Context, title, kind string) (view.Reply, error) {
	subjects, err := s.catalog.ListSubjects(ctx)
	if err != nil {
		return view.Reply{}, err
	}
	rows := make([][]keyboard.InlineBtn, 0, len(subjects)+1)
	for _, sub := range subjects {
		rows = append(rows, []keyboard.InlineBtn{action.IDButton(view.SubjectLine(sub.Name), kind, sub.ID)})
	}
	rows = append(rows, backToPanel())
	return view.Message(title+"\n\nFanni tanlang:", rows...), nil
}

// sectionMenu lists sections one per row; payload encodes the button data per section.
func (s *Service) sectionMenu(ctx context.Context, subjectID int64, kind string, payload func(catalog.Section) string, back keyboard.InlineBtn) (view.Reply, error) {
	if _, err := s.catalog.GetSubject(ctx, subjectID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return view.AlertOnly("Fan topilmadi!"), nil
		}
		return view.Reply{}, err
	}
	sections, err := s.catalog.ListSections(ctx)
	if err != nil {
		return view.Reply{}, err
	}
	rows := make([][]keyboard.InlineBtn, 0, len(sections)+1)
	for _, sec := range sections {
		rows = append(rows, []keyboard.InlineBtn{action.Button(view.Section(sec.Name, 25), kind, payload(sec))})
	}
	rows = append(rows, []keyboard.InlineBtn{back})
	return view.Message(chooseSection, rows...), nil
}

// journalMenu lists one page of a section's journals, each bound to kind with the
// journal id as payload, paged through pageKind.
func (s *Service) journalMenu(ctx context.Context, nav action.Nav, title, icon, kind, pageKind string, back keyboard.InlineBtn) (view.Reply, error) {
	if nav.Page < 1 {
		nav.Page = 1
	}
	page, err := s.catalog.ListJournalsPage(ctx, nav.Subject, nav.Section, nav.Page, s.pageSize)
	if err != nil {
		return view.Reply{}, err
	}
	if page.Total == 0 {
		return view.AlertOnly(view.EmptySection), nil
	}
	if len(page.Journals) == 0 {
		nav.Page = page.TotalPages()
		if page, err = s.catalog.ListJournalsPage(ctx, nav.Subject, nav.Section, nav.Page, s.pageSize); err != nil {
			return view.Reply{}, err
		}
	}
	rows := make([][]keyboard.InlineBtn, 0, len(page.Journals)+2)
	for _, j := range page.Journals {
		rows = append(rows, []keyboard.InlineBtn{action.IDButton(icon+" "+format.Truncate(j.Name, 40), kind, j.ID)})
	}
	rows = append(rows, browser.Pager(page, pageKind, nav))
	rows = append(rows, []keyboard.InlineBtn{back})
	return view.Message(title, rows...), nil
}

// journalOrAlert loads a journal, mapping not-found to an alert reply.
func (s *Service) journalOrAlert(ctx context.Context, id int64) (catalog.JournalDetail, *view.Reply, error) {
	j, err := s.catalog.GetJournal(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		r := view.AlertOnly(view.JournalMissing)
		return j, &r, nil
	}
	return j, nil, err
}
