package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/journalbot/core/logger"
	"github.com/m3rciful/journalbot/core/telegram/format"
	"github.com/m3rciful/journalbot/core/telegram/keyboard"
	"github.com/m3rciful/journalbot/core/telegram/state"
	"github.com/m3rciful/journalbot/internal/action"
	"github.com/m3rciful/journalbot/internal/catalog"
	"github.com/m3rciful/journalbot/internal/view"
)

const (
	editTitle      = "✏️ <b>JURNAL TAHRIRLASH</b>"
	editPickText   = "📖 Tahrirlash uchun jurnalni tanlang:"
	pickFieldText  = "👆 Tahrirlash uchun maydonni tanlang."
	updatedText    = "✅ Jurnal muvaffaqiyatli yangilandi!"
	updateFailText = "❌ Jurnalni yangilashda xatolik yuz berdi!"
	clearText      = "🧹 Tozalash"
)

var fieldLabels = map[catalog.Field]string{
	catalog.FieldName:         "📝 Nom",
	catalog.FieldImage:        "🖼️ Rasm",
	catalog.FieldFrequency:    "📅 Nashr chastotasi",
	catalog.FieldWebsite:      "🌐 Jurnal sayti",
	catalog.FieldContact:      "📧 Murojaat link",
	catalog.FieldRequirements: "📋 Talablar link",
}

// stepOf returns the wizard step that collects f; its prompt is shared by the editor.
func stepOf(f catalog.Field) Step {
	for step, field := range stepFields {
		if field == f {
			return step
		}
	}
	return ""
}

// StartEdit opens the edit drill-down at the subject list.
func (s *Service) StartEdit(ctx context.Context, userID int64) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "edit.start"); err != nil {
		return view.Reply{}, err
	}
	s.discard(ctx, userID)
	return s.subjectMenu(ctx, editTitle, action.EditSubject)
}

// EditSections lists the sections of a subject for editing.
func (s *Service) EditSections(ctx context.Context, userID, subjectID int64) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "edit.subject"); err != nil {
		return view.Reply{}, err
	}
	s.discard(ctx, userID)
	return s.sectionMenu(ctx, subjectID, action.EditSection,
		func(sec catalog.Section) string {
			return action.Nav{Subject: subjectID, Section: sec.ID, Page: 1}.Payload()
		},
		action.Button(view.BackText, action.EditStart, ""))
}

// EditJournals lists one page of a section's journals for editing.
func (s *Service) EditJournals(ctx context.Context, userID int64, nav action.Nav) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "edit.section"); err != nil {
		return view.Reply{}, err
	}
	s.discard(ctx, userID)
	return s.journalMenu(ctx, nav, editPickText, "📖", action.EditJournal, action.EditSection,
		action.IDButton(view.BackText, action.EditSubject, nav.Subject))
}

// EditJournal shows the current values of a journal and the fields that can be changed.
func (s *Service) EditJournal(ctx context.Context, userID, journalID int64) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "edit.journal"); err != nil {
		return view.Reply{}, err
	}
	j, alert, err := s.journalOrAlert(ctx, journalID)
	if alert != nil || err != nil {
		return deref(alert), err
	}
	if err := s.start(ctx, userID, EditSession{JournalID: journalID}); err != nil {
		return view.Reply{}, err
	}

	image := view.NotSet
	if j.ImageRef != nil {
		image = "✅"
	}
	text := fmt.Sprintf("%s\n\n📖 <b>Joriy ma'lumotlar:</b>\n"+
		"Nom: %s\nFan: %s\nBo'lim: %s\nRasm: %s\n"+
		"Nashr chastotasi: %s\nJurnal sayti: %s\nMurojaat: %s\nTalablar: %s\n\n"+
		"Tahrirlash uchun maydonni tanlang:",
		editTitle,
		format.HTML(j.Name), format.HTML(j.SubjectName), format.HTML(j.SectionName), image,
		current(j.Frequency), current(j.WebsiteURL), current(j.ContactLink), current(j.RequirementsLink))

	rows := make([][]keyboard.InlineBtn, 0, len(catalog.Fields)+1)
	for _, f := range catalog.Fields {
		rows = append(rows, []keyboard.InlineBtn{action.Button(fieldLabels[f], action.EditField, action.FieldPayload(journalID, f))})
	}
	back := action.Nav{Subject: j.SubjectID, Section: j.SectionID, Page: 1}
	rows = append(rows, []keyboard.InlineBtn{action.Button(view.BackText, action.EditSection, back.Payload())})
	return view.Message(text, rows...), nil
}

func current(v *string) string {
	return format.HTML(format.DerefString(v, view.NotSet))
}

func deref(r *view.Reply) view.Reply {
	if r == nil {
		return view.Reply{}
	}
	return *r
}

// ChooseField arms the edit session with the field and prompts for the new value.
func (s *Service) ChooseField(ctx context.Context, userID, journalID int64, f catalog.Field) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "edit.field"); err != nil {
		return view.Reply{}, err
	}
	if _, alert, err := s.journalOrAlert(ctx, journalID); alert != nil || err != nil {
		return deref(alert), err
	}
	if err := s.start(ctx, userID, EditSession{JournalID: journalID, Field: f}); err != nil {
		return view.Reply{}, err
	}
	return editPrompt(journalID, f, ""), nil
}

func editPrompt(journalID int64, f catalog.Field, problem string) view.Reply {
	text := fmt.Sprintf("✏️ <b>%s</b>\n\n%s", fieldLabels[f], prompts[stepOf(f)])
	if problem != "" {
		text = problem + "\n\n" + text
	}
	rows := [][]keyboard.InlineBtn{}
	if f.Optional() {
		rows = append(rows, []keyboard.InlineBtn{action.Button(clearText, action.EditClear, action.FieldPayload(journalID, f))})
	}
	rows = append(rows, cancelRow())
	return view.Message(text, rows...)
}

// ClearField empties the field named by the button. It applies only while the
// editor waits for that same field of that same journal; any other session is
// left untouched and the press is answered with an alert.
func (s *Service) ClearField(ctx context.Context, userID, journalID int64, f catalog.Field) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "edit.clear"); err != nil {
		return view.Reply{}, err
	}
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil && !errors.Is(err, state.ErrNoSession) {
		return view.Reply{}, err
	}
	if edit, ok := sess.(EditSession); !ok || edit.JournalID != journalID || edit.Field != f {
		return s.staleButton(userID, "edit.clear", action.FieldPayload(journalID, f)), nil
	}
	return s.Handle(ctx, userID, Skip())
}

// editInput applies one value to the chosen field. Invalid input re-prompts and
// keeps the session; otherwise exactly one update runs and the session ends.
func (s *Service) editInput(ctx context.Context, userID int64, sess EditSession, in Input) (view.Reply, error) {
	if sess.Field == "" {
		return view.Message(pickFieldText), nil
	}
	value, problem := acceptInput(sess.Field, in)
	if problem != "" {
		return editPrompt(sess.JournalID, sess.Field, problem), nil
	}

	defer s.discard(ctx, userID)
	err := s.catalog.UpdateJournalField(ctx, sess.JournalID, sess.Field, value)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return view.Message(view.JournalMissing, backToPanel()), nil
	case err != nil:
		logger.SVCAdmin.Error("journal update failed",
			slog.String("event", "admin.edit.commit"),
			slog.Int64("user_id", userID),
			slog.Int64("journal_id", sess.JournalID),
			slog.String("field", string(sess.Field)),
			slog.String("err", err.Error()),
		)
		return view.Message(updateFailText, backToPanel()), nil
	}
	logger.SVCAdmin.Info("journal updated",
		slog.String("event", "admin.edit.commit"),
		slog.Int64("user_id", userID),
		slog.Int64("journal_id", sess.JournalID),
		slog.String("field", string(sess.Field)),
	)
	return view.Message(updatedText,
		[]keyboard.InlineBtn{action.IDButton("✏️ Yana tahrirlash", action.EditJournal, sess.JournalID)},
		backToPanel(),
	), nil
}

// Handle feeds a message or a skip into the active wizard or editor session.
func (s *Service) Handle(ctx context.Context, userID int64, in Input) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "input"); err != nil {
		s.discard(ctx, userID)
		return view.Reply{}, err
	}
	sess, err := s.sessions.Get(ctx, userID)
	if errors.Is(err, state.ErrNoSession) {
		if in.Kind == InputNone {
			return view.AlertOnly(sessionExpired), nil
		}
		return view.Message(sessionExpired, backToPanel()), nil
	}
	if err != nil {
		return view.Reply{}, err
	}
	if in.Kind == InputText {
		in.Value = strings.TrimSpace(in.Value)
	}
	var r view.Reply
	switch v := sess.(type) {
	case AddSession:
		r, err = s.addInput(ctx, userID, v, in)
	case EditSession:
		r, err = s.editInput(ctx, userID, v, in)
	default:
		s.discard(ctx, userID)
		return view.Message(sessionExpired, backToPanel()), nil
	}
	if err != nil {
		s.discard(ctx, userID)
	}
	return r, err
}
