package bot

import (
	"log/slog"

	"github.com/m3rciful/journalbot/core/logger"
	"github.com/m3rciful/journalbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// TrackUsers registers the sender and bumps their last activity before every
// handler. Failures are logged and never block the update.
func (h *Handlers) TrackUsers(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		u := c.Sender()
		if h.users == nil || u == nil || u.IsBot {
			return next(c)
		}
		ctx := helpers.BuildContext(c)
		if err := h.users.Register(ctx, u.ID, displayName(u), u.Username); err != nil {
			logger.Warn(ctx, "service.users", "users.track",
				slog.Int64("user_id", u.ID),
				slog.String("err", err.Error()),
			)
		}
		return next(c)
	}
}
