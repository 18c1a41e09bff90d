package router

import (
	tg "github.com/m3rciful/journalbot/core/telegram"
	"github.com/m3rciful/journalbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// FSM is a conversation manager that claims every message of users with an
// active session.
type FSM interface {
	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}

// TextOptions name the handlers for messages nobody claimed. UnknownDocument
// also answers the other uploads (video, audio, voice, stickers).
type TextOptions struct {
	UnknownText     tele.HandlerFunc
	UnknownPhoto    tele.HandlerFunc
	UnknownDocument tele.HandlerFunc
}

// TextRoutes routes text and uploads: active sessions first, then commands
// typed as text, then the unknown handlers.
func TextRoutes(fsm FSM, reg *tg.Registry, opts TextOptions) []tg.Route {
	text := func(c tele.Context) error {
		if inFSM(fsm, c) {
			return run(c, "fsm", fsm.ManagerHandler)
		}
		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil {
				return run(c, handlerName(key), cmd.Handler)
			}
		}
		return unknown(c, "unknown_text", opts.UnknownText)
	}

	routes := []tg.Route{
		{Endpoint: tele.OnText, Handler: wrap(text)},
		{Endpoint: tele.OnPhoto, Handler: wrap(mediaHandler(fsm, "photo", opts.UnknownPhoto))},
	}
	uploads := map[string]string{
		tele.OnDocument: "document",
		tele.OnVideo:    "video",
		tele.OnAudio:    "audio",
		tele.OnVoice:    "voice",
		tele.OnSticker:  "sticker",
	}
	for endpoint, kind := range uploads {
		routes = append(routes, tg.Route{
			Endpoint: endpoint,
			Handler:  wrap(mediaHandler(fsm, kind, opts.UnknownDocument)),
		})
	}
	return routes
}

func wrap(h tele.HandlerFunc) tele.HandlerFunc {
	return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
}

func mediaHandler(fsm FSM, kind string, fallback tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if inFSM(fsm, c) {
			return run(c, "fsm_"+kind, fsm.ManagerHandler)
		}
		return unknown(c, "unexpected_"+kind, fallback)
	}
}

func unknown(c tele.Context, name string, h tele.HandlerFunc) error {
	if h == nil {
		skip(c, name)
		return nil
	}
	return run(c, name, h)
}

func inFSM(fsm FSM, c tele.Context) bool {
	return fsm != nil && c.Sender() != nil && fsm.InProgress(c.Sender().ID)
}
