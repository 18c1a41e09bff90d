package router

import (
	"log/slog"

	tg "github.com/m3rciful/journalbot/core/telegram"
	"github.com/m3rciful/journalbot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/journalbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions set the handler for callbacks with no registered key.
// The registry's own not-found handler takes precedence.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute dispatches every callback through the registry by its key.
// A callback the handler left unanswered gets an empty answer so the
// client stops its spinner.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		if c.Callback() == nil {
			return nil
		}
		defer func() {
			if !tghelpers.Answered(c) {
				_ = c.Respond()
			}
		}()

		key, _ := callbacks.Parse(c.Callback())
		name := "callback." + handlerName(key)
		extras := []slog.Attr{slog.String("cb_key", key)}

		if h, ok := reg.GetCallback(key); ok && h != nil {
			return run(c, name, h, extras...)
		}
		fallback := reg.CallbackNotFound()
		if fallback == nil {
			fallback = opts.NotFound
		}
		if fallback == nil {
			fallback = func(tele.Context) error { return nil }
		}
		return run(c, name, fallback, append(extras, slog.String("reason", "not_found"))...)
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: wrap(handler)}
}
