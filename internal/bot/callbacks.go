package bot

import (
	"context"

	"github.com/m3rciful/journalbot/core/telegram/callbacks"
	"github.com/m3rciful/journalbot/core/telegram/helpers"
	"github.com/m3rciful/journalbot/internal/action"
	"github.com/m3rciful/journalbot/internal/admin"
	"github.com/m3rciful/journalbot/internal/browser"
	"github.com/m3rciful/journalbot/internal/view"

	tele "gopkg.in/telebot.v4"
)

type flow func(ctx context.Context, c tele.Context, payload string) (view.Reply, error)

// bind adapts a flow to a handler. Malformed payloads answer with the error alert.
func bind(fn flow) tele.HandlerFunc {
	return func(c tele.Context) error {
		_, payload := callbacks.Parse(c.Callback())
		r, err := fn(helpers.BuildContext(c), c, payload)
		return reply(c, r, err)
	}
}

func badPayload() (view.Reply, error) {
	return view.AlertOnly(view.ErrorText), nil
}

func withID(fn func(ctx context.Context, userID, id int64) (view.Reply, error)) flow {
	return func(ctx context.Context, c tele.Context, payload string) (view.Reply, error) {
		id, err := action.ParseID(payload)
		if err != nil {
			return badPayload()
		}
		return fn(ctx, senderID(c), id)
	}
}

func withNav(fn func(ctx context.Context, userID int64, nav action.Nav) (view.Reply, error)) flow {
	return func(ctx context.Context, c tele.Context, payload string) (view.Reply, error) {
		nav, err := action.ParseNav(payload)
		if err != nil {
			return badPayload()
		}
		return fn(ctx, senderID(c), nav)
	}
}

func withUser(fn func(ctx context.Context, userID int64) (view.Reply, error)) flow {
	return func(ctx context.Context, c tele.Context, _ string) (view.Reply, error) {
		return fn(ctx, senderID(c))
	}
}

func (h *Handlers) callbacks() map[string]tele.HandlerFunc {
	b := h.browser
	a := h.admin

	browse := map[string]flow{
		action.Subjects: func(ctx context.Context, _ tele.Context, _ string) (view.Reply, error) {
			return b.Subjects(ctx)
		},
		action.Subject: withID(func(ctx context.Context, _, id int64) (view.Reply, error) {
			return b.Sections(ctx, id)
		}),
		action.List: withNav(func(ctx context.Context, _ int64, nav action.Nav) (view.Reply, error) {
			return b.Journals(ctx, nav)
		}),
		action.Journal: func(ctx context.Context, _ tele.Context, payload string) (view.Reply, error) {
			id, page, err := action.ParseJournal(payload)
			if err != nil {
				return badPayload()
			}
			return b.Detail(ctx, id, page)
		},
		action.BackList: withNav(func(ctx context.Context, _ int64, nav action.Nav) (view.Reply, error) {
			return b.BackToList(ctx, nav)
		}),
		action.PageNoop: func(context.Context, tele.Context, string) (view.Reply, error) {
			return view.Reply{Toast: browser.PageToast}, nil
		},
	}

	manage := map[string]flow{
		action.AdminMenu:   withUser(a.Panel),
		action.AdminStats:  withUser(a.Stats),
		action.AdminCancel: withUser(a.Cancel),

		action.AddStart:   withUser(a.StartAdd),
		action.AddSubject: withID(a.AddSubject),
		action.AddSection: withID(a.AddSection),
		action.AddSkip: func(ctx context.Context, c tele.Context, payload string) (view.Reply, error) {
			return a.SkipStep(ctx, senderID(c), admin.Step(payload))
		},

		action.EditStart:   withUser(a.StartEdit),
		action.EditSubject: withID(a.EditSections),
		action.EditSection: withNav(a.EditJournals),
		action.EditJournal: withID(a.EditJournal),
		action.EditField: func(ctx context.Context, c tele.Context, payload string) (view.Reply, error) {
			id, f, err := action.ParseFieldPayload(payload)
			if err != nil {
				return badPayload()
			}
			return a.ChooseField(ctx, senderID(c), id, f)
		},
		action.EditClear: func(ctx context.Context, c tele.Context, payload string) (view.Reply, error) {
			id, f, err := action.ParseFieldPayload(payload)
			if err != nil {
				return badPayload()
			}
			return a.ClearField(ctx, senderID(c), id, f)
		},

		action.DeleteStart:   withUser(a.StartDelete),
		action.DeleteSubject: withID(a.DeleteSections),
		action.DeleteSection: withNav(a.DeleteJournals),
		action.DeleteJournal: withID(a.ConfirmPrompt),
		action.DeleteConfirm: withID(a.Confirm),
		action.DeleteCancel: func(ctx context.Context, c tele.Context, payload string) (view.Reply, error) {
			pair, err := action.ParsePair(payload)
			if err != nil {
				return badPayload()
			}
			return a.CancelDelete(ctx, senderID(c), pair)
		},
	}

	out := make(map[string]tele.HandlerFunc, len(browse)+len(manage)+1)
	for key, fn := range browse {
		out[key] = h.gated(bind(fn))
	}
	for key, fn := range manage {
		out[key] = bind(fn)
	}
	out[action.CheckSub] = h.checkSubscription
	return out
}
