package admin

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
	"github.com/m3rciful/journalbot/core/telegram/state"
	"github.com/m3rciful/journalbot/internal/action"
	"github.com/m3rciful/journalbot/internal/catalog"
	"github.com/m3rciful/journalbot/internal/view"
)

const skipText = "⏭️ O'tkazib yuborish"

var prompts = map[Step]string{
	StepName: "📝 <b>Jurnal nomini kiriting:</b>\n\n" +
		"📋 <b>Misol:</b>\n" +
		"• Fizika va matematika jurnali\n" +
		"• O'zbekiston tibbiyot jurnali\n" +
		"• Tarixiy tadqiqotlar\n\n" +
		"<i>Jurnal nomini aniq va tushunarli yozing</i>",
	StepImage: "🖼️ Jurnal rasmini yuboring (yoki o'tkazib yuboring):",
	StepFrequency: "📅 <b>Nashr chastotasini kiriting:</b>\n\n" +
		"📋 <b>Misollar:</b>\n" +
		"• Oyda bir marta\n" +
		"• Yilda 4 marta\n" +
		"• Har 3 oyda bir marta\n\n" +
		"<i>yoki o'tkazib yuboring</i>",
	StepWebsite: "🌐 <b>Jurnal saytini kiriting (URL):</b>\n\n" +
		"📋 <b>To'g'ri misollar:</b>\n" +
		"• https://journal.uz\n" +
		"• http://academy.gov.uz/journal\n\n" +
		"❌ <b>Noto'g'ri misollar:</b>\n" +
		"• journal.uz (https:// yo'q)\n" +
		"• www.jurnal.uz (https:// yo'q)\n\n" +
		"<i>URL ni to'liq kiriting yoki o'tkazib yuboring</i>",
	StepContact: "📧 <b>Murojaat havolasini kiriting:</b>\n\n" +
		"📋 <b>To'g'ri misollar:</b>\n" +
		"• https://journal.uz/contact\n" +
		"• mailto:editor@journal.uz\n" +
		"• https://t.me/journal_admin\n\n" +
		"❌ <b>Noto'g'ri misollar:</b>\n" +
		"• journal.uz/contact (https:// yo'q)\n" +
		"• editor@journal.uz (mailto: yo'q)\n\n" +
		"<i>URL yoki email ni to'liq kiriting yoki o'tkazib yuboring</i>",
	StepRequirements: "📋 <b>Jurnal talablari havolasini kiriting:</b>\n\n" +
		"📋 <b>To'g'ri misollar:</b>\n" +
		"• https://journal.uz/requirements\n" +
		"• https://docs.google.com/document/requirements\n\n" +
		"<i>Talablar sahifasining to'liq URL ini kiriting yoki o'tkazib yuboring</i>",
}

const (
	useButtonsText   = "👆 Iltimos, yuqoridagi tugmalardan birini tanlang."
	wrongTypeText    = "❌ Noto'g'ri fayl turi!"
	sendPhotoText    = "❌ Iltimos, rasm yuboring yoki o'tkazib yuboring."
	nameRequiredText = "❌ Jurnal nomini kiritish majburiy!"
	nameShortText    = "❌ Jurnal nomi kamida 3 ta belgidan iborat bo'lishi kerak!"
	nameLongText     = "❌ Jurnal nomi 200 ta belgidan oshmasligi kerak!"
	badURLText       = "❌ <b>Noto'g'ri URL format!</b>\n\nURL ni https:// yoki http:// bilan boshlang!"
	badContactText   = "❌ <b>Noto'g'ri format!</b>\n\nURL ni https:// bilan yoki email ni mailto: bilan boshlang!"
	emptyValueText   = "❌ Qiymat bo'sh bo'lmasligi kerak!"
	addFailedText    = "❌ Jurnalni qo'shishda xatolik yuz berdi!"
	addedText        = "✅ <b>Jurnal muvaffaqiyatli qo'shildi!</b>"
)

// validationText maps a validation error to the re-prompt shown to the administrator.
func validationText(err error) string {
	switch {
	case errors.Is(err, catalog.ErrNameTooShort):
		return nameShortText
	case errors.Is(err, catalog.ErrNameTooLong):
		return nameLongText
	case errors.Is(err, catalog.ErrInvalidURL):
		return badURLText
	case errors.Is(err, catalog.ErrInvalidContact):
		return badContactText
	case errors.Is(err, catalog.ErrEmptyValue):
		return emptyValueText
	case errors.Is(err, catalog.ErrImageRequired):
		return sendPhotoText
	}
	return view.ErrorText
}

// StartAdd opens the wizard, replacing any active session.
func (s *Service) StartAdd(ctx context.Context, userID int64) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "add.start"); err != nil {
		return view.Reply{}, err
	}
	if err := s.start(ctx, userID, AddSession{Step: StepChooseSubject}); err != nil {
		return view.Reply{}, err
	}
	return s.subjectMenu(ctx, "➕ <b>YANGI JURNAL QO'SHISH</b>", action.AddSubject)
}

func (s *Service) addSession(ctx context.Context, userID int64, want Step) (AddSession, bool) {
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil {
		return AddSession{}, false
	}
	add, ok := sess.(AddSession)
	if !ok || add.Step != want {
		return AddSession{}, false
	}
	return add, true
}

// AddSubject records the subject and asks for the section.
func (s *Service) AddSubject(ctx context.Context, userID, subjectID int64) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "add.subject"); err != nil {
		return view.Reply{}, err
	}
	sess, ok := s.addSession(ctx, userID, StepChooseSubject)
	if !ok {
		return view.AlertOnly(sessionExpired), nil
	}
	r, err := s.sectionMenu(ctx, subjectID, action.AddSection,
		func(sec catalog.Section) string { return strconv.FormatInt(sec.ID, 10) },
		action.Button(view.BackText, action.AddStart, ""))
	if err != nil || r.Text == "" {
		return r, err
	}
	sess.Draft.SubjectID = subjectID
	sess.Step = StepChooseSection
	if err := s.start(ctx, userID, sess); err != nil {
		return view.Reply{}, err
	}
	return r, nil
}

// AddSection records the section and asks for the name.
func (s *Service) AddSection(ctx context.Context, userID, sectionID int64) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "add.section"); err != nil {
		return view.Reply{}, err
	}
	sess, ok := s.addSession(ctx, userID, StepChooseSection)
	if !ok {
		return view.AlertOnly(sessionExpired), nil
	}
	if _, err := s.catalog.GetSection(ctx, sectionID); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return view.AlertOnly(view.NotFoundText), nil
		}
		return view.Reply{}, err
	}
	sess.Draft.SectionID = sectionID
	sess.Step = StepName
	if err := s.start(ctx, userID, sess); err != nil {
		return view.Reply{}, err
	}
	return stepPrompt(StepName, ""), nil
}

// stepPrompt renders the prompt of a value step, optionally preceded by a
// validation message.
func stepPrompt(step Step, problem string) view.Reply {
	text := prompts[step]
	if problem != "" {
		text = problem + "\n\n" + text
	}
	rows := [][]keyboard.InlineBtn{}
	if f, ok := step.Field(); ok && f.Optional() {
		rows = append(rows, []keyboard.InlineBtn{action.Button(skipText, action.AddSkip, string(step))})
	}
	rows = append(rows, cancelRow())
	return view.Message(text, rows...)
}

// SkipStep skips the optional wizard step named by the button. A button left
// over from another step or flow is answered with an alert and the session is
// kept as it is.
func (s *Service) SkipStep(ctx context.Context, userID int64, step Step) (view.Reply, error) {
	if err := s.authorize(ctx, userID, "add.skip"); err != nil {
		return view.Reply{}, err
	}
	sess, err := s.sessions.Get(ctx, userID)
	if err != nil && !errors.Is(err, state.ErrNoSession) {
		return view.Reply{}, err
	}
	if add, ok := sess.(AddSession); !ok || add.Step != step {
		return s.staleButton(userID, "add.skip", string(step)), nil
	}
	return s.Handle(ctx, userID, Skip())
}

// addInput feeds one input into the wizard. Invalid input re-prompts the same
// step and keeps the draft; the last step commits.
func (s *Service) addInput(ctx context.Context, userID int64, sess AddSession, in Input) (view.Reply, error) {
	field, ok := sess.Step.Field()
	if !ok {
		return view.Message(useButtonsText), nil
	}

	value, problem := acceptInput(field, in)
	if problem != "" {
		logger.SVCAdmin.Debug("wizard input rejected",
			slog.String("event", "admin.add.reprompt"),
			slog.Int64("user_id", userID),
			slog.String("step", string(sess.Step)),
			slog.String("input", in.Kind.String()),
		)
		return stepPrompt(sess.Step, problem), nil
	}
	if err := sess.Draft.Set(field, value); err != nil {
		return view.Reply{}, err
	}

	next := sess.Step.next()
	if next == "" {
		return s.commit(ctx, userID, sess.Draft)
	}
	sess.Step = next
	if err := s.start(ctx, userID, sess); err != nil {
		return view.Reply{}, err
	}
	return stepPrompt(next, ""), nil
}

// acceptInput checks that the input kind fits the field and validates it. A
// non-empty problem means re-prompt.
func acceptInput(f catalog.Field, in Input) (*string, string) {
	switch in.Kind {
	case InputNone:
		if !f.Optional() {
			return nil, nameRequiredText
		}
		return nil, ""
	case InputImage:
		if !f.TakesImage() {
			return nil, wrongTypeText
		}
		if ref := format.StringPtr(in.Value); ref != nil {
			return ref, ""
		}
		return nil, sendPhotoText
	case InputText:
		if f.TakesImage() {
			return nil, sendPhotoText
		}
		v, err := catalog.ValidateText(f, in.Value)
		if err != nil {
			return nil, validationText(err)
		}
		return format.StringPtr(v), ""
	case InputOther:
		return nil, wrongTypeText
	}
	return nil, view.ErrorText
}

// commit creates the journal once and releases the session whatever happens.
func (s *Service) commit(ctx context.Context, userID int64, d catalog.Draft) (view.Reply, error) {
	defer s.discard(ctx, userID)

	id, err := s.catalog.CreateJournal(ctx, d)
	if err != nil {
		logger.SVCAdmin.Error("journal create failed",
			slog.String("event", "admin.add.commit"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return view.Message(addFailedText, backToPanel()), nil
	}
	logger.SVCAdmin.Info("journal added",
		slog.String("event", "admin.add.commit"),
		slog.Int64("user_id", userID),
		slog.Int64("journal_id", id),
	)

	var sb strings.Builder
	sb.WriteString(addedText + "\n\n")
	fmt.Fprintf(&sb, "📖 <b>Nom:</b> %s\n", format.HTML(d.Name))
	fmt.Fprintf(&sb, "🆔 <b>ID:</b> %d\n", id)
	optional := []struct {
		label string
		value *string
	}{
		{"📅 <b>Nashr chastotasi:</b>", d.Frequency},
		{"🌐 <b>Sayt:</b>", d.WebsiteURL},
		{"📧 <b>Murojaat:</b>", d.ContactLink},
		{"📋 <b>Talablar:</b>", d.RequirementsLink},
	}
	for _, o := range optional {
		if v := format.DerefString(o.value, ""); v != "" {
			fmt.Fprintf(&sb, "%s %s\n", o.label, format.HTML(v))
		}
	}
	if d.ImageRef != nil {
		sb.WriteString("🖼️ <b>Rasm:</b> ✅\n")
	}
	return view.Message(strings.TrimRight(sb.String(), "\n"), backToPanel()), nil
}
