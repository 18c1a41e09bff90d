package bot

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/m3rciful/journalbot/core/logger"
	"github.com/m3rciful/journalbot/core/telegram/helpers"
	"github.com/m3rciful/journalbot/core/telegram/keyboard"
	"github.com/m3rciful/journalbot/internal/action"
	"github.com/m3rciful/journalbot/internal/subscription"
	"github.com/m3rciful/journalbot/internal/view"

	tele "gopkg.in/telebot.v4"
)

const (
	subscribeFirst   = "❌ Avval barcha kanallarga obuna bo'ling!"
	subscriptionOK   = "✅ Barcha obunalar tasdiqlandi!"
	checkButtonText  = "✅ Obunani tekshirish"
	subscribeHeading = "📢 <b>Botdan foydalanish uchun quyidagi kanallarga a'zo bo'ling:</b>\n\n"
	subscribeFooter  = "👆 Yuqoridagi barcha kanallarga a'zo bo'ling, so'ngra <b>'Obunani tekshirish'</b> tugmasini bosing."
)

// subscriptionPrompt lists the channels the user still has to join.
func subscriptionPrompt(res subscription.Result) view.Reply {
	var sb strings.Builder
	sb.WriteString(subscribeHeading)
	rows := make([][]keyboard.InlineBtn, 0, len(res.Missing)+1)
	for _, ch := range res.Missing {
		fmt.Fprintf(&sb, "❌ %s\n", ch.Name)
		rows = append(rows, []keyboard.InlineBtn{action.Link("🔗 "+ch.Name, ch.Link())})
	}
	sb.WriteString("\n" + subscribeFooter)
	rows = append(rows, []keyboard.InlineBtn{action.Button(checkButtonText, action.CheckSub, "")})
	return view.Message(sb.String(), rows...)
}

// gated runs next only for users subscribed to every configured channel.
func (h *Handlers) gated(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if h.gate == nil {
			return next(c)
		}
		res := h.gate.Evaluate(helpers.BuildContext(c), senderID(c))
		if res.Allowed {
			return next(c)
		}
		r := subscriptionPrompt(res)
		if c.Callback() != nil {
			r.Alert = subscribeFirst
		}
		return render(c, r)
	}
}

// checkSubscription re-evaluates the gate for the "check again" button.
func (h *Handlers) checkSubscription(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	if h.gate != nil {
		res := h.gate.Evaluate(ctx, senderID(c))
		if !res.Allowed {
			logger.SVCSubscription.Info("subscription still missing",
				slog.String("event", "subscription.recheck"),
				slog.Int64("user_id", senderID(c)),
				slog.String("missing", res.MissingNames()),
			)
			r := subscriptionPrompt(res)
			r.Alert = fmt.Sprintf("❌ Siz hali %s ga obuna bo'lmagansiz!", res.MissingNames())
			return render(c, r)
		}
	}
	r, err := h.browser.Welcome(ctx, displayName(c.Sender()))
	r.Toast = subscriptionOK
	return reply(c, r, err)
}
