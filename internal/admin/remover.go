package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/m3rciful/journalbot/core/logger"
	"github.com/m3rciful/journalbot/core/telegram/format"
	"github.com/m3rciful/journalbot/core/telegram/keyboard"
	"github.com/m3rciful/journalbot/internal/action"
	"github.com/m3rciful/journalbot/internal/catalog"
	"github.com/m3rciful/journalbot/internal/view"
)

const (
	deleteTitle    = "🗑️ <b>JURNAL O'CHIRISH</b>"
	deletePickText = "🗑️ O'chirish uchun jurnalni tanlang:"
	deletedText    = "✅ Jurnal muvaffaqiyatli o'chirildi!"
	deleteFailText = "❌ Jurnalni o'chirishda xatolik yuz berdi!"
	deleteCanceled = "❌ O'chirish bekor qilindi."
)

// StartDelete opens the delete drill-down at the subject list.
func (s *Service) StartDelete(ctx context.Context, userID int64) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "delete.start"); err != nil {
		return view.Reply{}, err
	}
	s.discard(ctx, userID)
	return s.subjectMenu(ctx, deleteTitle, action.DeleteSubject)
}

// DeleteSections lists the sections of a subject for deletion.
func (s *Service) DeleteSections(ctx context.Context, userID, subjectID int64) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "delete.subject"); err != nil {
		return view.Reply{}, err
	}
	return s.sectionMenu(ctx, subjectID, action.DeleteSection,
		func(sec catalog.Section) string {
			return action.Nav{Subject: subjectID, Section: sec.ID, Page: 1}.Payload()
		},
		action.Button(view.BackText, action.DeleteStart, ""))
}

// DeleteJournals lists one page of a section's journals for deletion.
func (s *Service) DeleteJournals(ctx context.Context, userID int64, nav action.Nav) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "delete.section"); err != nil {
		return view.Reply{}, err
	}
	return s.journalMenu(ctx, nav, deletePickText, "🗑️", action.DeleteJournal, action.DeleteSection,
		action.IDButton(view.BackText, action.DeleteSubject, nav.Subject))
}

// ConfirmPrompt asks for confirmation before deleting a journal.
func (s *Service) ConfirmPrompt(ctx context.Context, userID, journalID int64) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "delete.journal"); err != nil {
		return view.Reply{}, err
	}
	j, alert, err := s.journalOrAlert(ctx, journalID)
	if alert != nil || err != nil {
		return deref(alert), err
	}
	text := fmt.Sprintf("%s\n\n⚠️ <b>DIQQAT!</b> Quyidagi jurnalni o'chirishni tasdiqlaysizmi?\n\n"+
		"📖 <b>Nom:</b> %s\n🎓 <b>Fan:</b> %s\n🏛️ <b>Bo'lim:</b> %s\n\n"+
		"Bu amalni qaytarib bo'lmaydi!",
		deleteTitle, format.HTML(j.Name), format.HTML(j.SubjectName), format.HTML(j.SectionName))
	pair := action.Nav{Subject: j.SubjectID, Section: j.SectionID}
	return view.Message(text, []keyboard.InlineBtn{
		action.IDButton("✅ Ha, o'chirish", action.DeleteConfirm, journalID),
		action.Button("❌ Yo'q", action.DeleteCancel, pair.Payload()),
	}), nil
}

// Confirm re-reads the journal and deletes it.
func (s *Service) Confirm(ctx context.Context, userID, journalID int64) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "delete.confirm"); err != nil {
		return view.Reply{}, err
	}
	j, alert, err := s.journalOrAlert(ctx, journalID)
	if alert != nil || err != nil {
		return deref(alert), err
	}
	if err := s.catalog.DeleteJournal(ctx, journalID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return view.AlertOnly(view.JournalMissing), nil
		}
		logger.SVCAdmin.Error("journal delete failed",
			slog.String("event", "admin.delete.commit"),
			slog.Int64("user_id", userID),
			slog.Int64("journal_id", journalID),
			slog.String("err", err.Error()),
		)
		return view.Message(deleteFailText, backToPanel()), nil
	}
	logger.SVCAdmin.Info("journal deleted",
		slog.String("event", "admin.delete.commit"),
		slog.Int64("user_id", userID),
		slog.Int64("journal_id", journalID),
	)
	back := action.Nav{Subject: j.SubjectID, Section: j.SectionID, Page: 1}
	return view.Message(deletedText+"\n\n📖 "+format.HTML(j.Name),
		[]keyboard.InlineBtn{action.Button("🗑️ Bo'limga qaytish", action.DeleteSection, back.Payload())},
		backToPanel(),
	), nil
}

// CancelDelete rebuilds the section's journal list from the store. An emptied
// section falls back to the section menu.
func (s *Service) CancelDelete(ctx context.Context, userID int64, pair action.Nav) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "delete.cancel"); err != nil {
		return view.Reply{}, err
	}
	r, err := s.DeleteJournals(ctx, userID, pair.WithPage(1))
	if err != nil {
		return r, err
	}
	if r.Text == "" {
		if r, err = s.DeleteSections(ctx, userID, pair.Subject); err != nil {
			return r, err
		}
	}
	r.Alert = ""
	r.Toast = deleteCanceled
	return r, nil
}
