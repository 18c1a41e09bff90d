package middleware

import (
	"log/slog"

	"github.com/m3rciful/journalbot/core/logger"
	tghelpers "github.com/m3rciful/journalbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions configure AdminOnlyMiddleware. A nil IsAdmin rejects everyone.
type AdminOptions struct {
	IsAdmin  func(userID int64) bool
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware passes only configured administrators. Everyone else
// gets OnReject, or nothing when it is nil.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user != nil && opts.IsAdmin != nil && opts.IsAdmin(user.ID) {
				return next(c)
			}
			var uid int64
			if user != nil {
				uid = user.ID
			}
			logger.Warn(tghelpers.BuildContext(c), "tg", "admin.denied", slog.Int64("uid", uid))
			if opts.OnReject == nil {
				return nil
			}
			return opts.OnReject(c)
		}
	}
}
