// Package bot binds the catalog browser, the subscription gate and the admin
// flows to telebot updates.
package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/m3rciful/journalbot/core/logger"
	tg "github.com/m3rciful/journalbot/core/telegram"
	"github.com/m3rciful/journalbot/core/telegram/commands"
	"github.com/m3rciful/journalbot/core/telegram/helpers"
	"github.com/m3rciful/journalbot/core/telegram/router"
	"github.com/m3rciful/journalbot/internal/admin"
	"github.com/m3rciful/journalbot/internal/browser"
	"github.com/m3rciful/journalbot/internal/subscription"
	"github.com/m3rciful/journalbot/internal/view"

	tele "gopkg.in/telebot.v4"
)

// UserTracker records every user that talks to the bot.
type UserTracker interface {
	Register(ctx context.Context, id int64, displayName, handle string) error
}

// Deps are the services the handlers delegate to.
type Deps struct {
	Browser *browser.Browser
	Admin   *admin.Service
	Gate    *subscription.Gate
	Users   UserTracker
}

// Handlers owns the telebot handlers of the bot.
type Handlers struct {
	browser *browser.Browser
	admin   *admin.Service
	gate    *subscription.Gate
	users   UserTracker
}

// New builds the handlers. A nil gate lets everyone through.
func New(deps Deps) *Handlers {
	return &Handlers{
		browser: deps.Browser,
		admin:   deps.Admin,
		gate:    deps.Gate,
		users:   deps.Users,
	}
}

// Register adds the commands and callbacks to reg.
func (h *Handlers) Register(reg *tg.Registry) error {
	errs := []error{
		reg.RegisterCommand("/start", commands.Command{
			Handler:     privateOnly(h.gated(h.start)),
			Description: "Botni ishga tushirish",
		}),
		reg.RegisterCommand("/help", commands.Command{
			Handler:     privateOnly(h.gated(h.help)),
			Description: "Yordam",
		}),
		reg.RegisterCommand("/admin", commands.Command{
			Handler:     privateOnly(h.panel),
			Description: "Admin panel",
			AdminOnly:   true,
		}),
	}
	for key, fn := range h.callbacks() {
		errs = append(errs, reg.RegisterCallback(key, fn))
	}
	fb := h.Fallbacks()
	reg.SetCallbackNotFound(fb.UnknownCallback())
	return errors.Join(errs...)
}

// Routes wires the registry and the admin session router into telebot routes.
// Register must run first.
func (h *Handlers) Routes(reg *tg.Registry, isAdmin func(int64) bool) []tg.Route {
	fb := h.Fallbacks()
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		IsAdmin:       isAdmin,
		OnAdminReject: privateOnly(denied),
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{NotFound: fb.UnknownCallback()}))
	routes = append(routes, router.TextRoutes(h.Sessions(), reg, router.TextOptions{
		UnknownText:     fb.UnknownText(),
		UnknownPhoto:    fb.UnknownPhoto(),
		UnknownDocument: fb.UnknownDocument(),
	})...)
	return routes
}

func (h *Handlers) start(c tele.Context) error {
	r, err := h.browser.Welcome(helpers.BuildContext(c), displayName(c.Sender()))
	return reply(c, r, err)
}

func (h *Handlers) help(c tele.Context) error {
	return helpers.SendHTML(c, helpText)
}

func (h *Handlers) panel(c tele.Context) error {
	r, err := h.admin.Panel(helpers.BuildContext(c), senderID(c))
	return reply(c, r, err)
}

func denied(c tele.Context) error {
	if c.Callback() != nil {
		return helpers.Answer(c, admin.DeniedAlert, true)
	}
	return helpers.SendHTML(c, admin.DeniedText)
}

// reply renders r, or maps err to the denial or error message.
func reply(c tele.Context, r view.Reply, err error) error {
	if errors.Is(err, admin.ErrForbidden) {
		return denied(c)
	}
	if err != nil {
		ctx := helpers.BuildContext(c)
		logger.Error(ctx, "tg", "handler.error",
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		if c.Callback() != nil {
			_ = helpers.Answer(c, view.ErrorText, true)
		} else {
			_ = helpers.SendHTML(c, view.ErrorText)
		}
		return err
	}
	return render(c, r)
}

// render shows r: it answers the callback, then edits the current message, or
// replaces it when a photo or a fresh message is required.
func render(c tele.Context, r view.Reply) error {
	switch {
	case r.Alert != "":
		_ = helpers.Answer(c, r.Alert, true)
	case r.Toast != "":
		_ = helpers.Answer(c, r.Toast, false)
	}
	if r.Text == "" {
		return nil
	}

	switch {
	case r.Photo != "":
		_ = helpers.DeleteCurrent(c)
		err := helpers.SendPhotoHTML(c, r.Photo, r.Text, r.Markup)
		if err == nil {
			return nil
		}
		logger.Warn(helpers.BuildContext(c), "tg", "photo.fallback",
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
		)
		return helpers.SendHTML(c, r.Text+browser.PhotoFailedNotice, r.Markup)
	case c.Callback() != nil && r.Fresh:
		_ = helpers.DeleteCurrent(c)
		return helpers.SendHTML(c, r.Text, r.Markup)
	case c.Callback() != nil:
		return helpers.EditOrSendHTML(c, r.Text, r.Markup)
	}
	return helpers.SendHTML(c, r.Text, r.Markup)
}

// privateOnly keeps the bot silent in group chats.
func privateOnly(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if chat := c.Chat(); chat != nil && chat.Type != tele.ChatPrivate {
			logger.Debug(helpers.BuildContext(c), "tg", "group.skip",
				slog.String("chat_type", string(chat.Type)),
			)
			return nil
		}
		return next(c)
	}
}

func senderID(c tele.Context) int64 {
	if u := c.Sender(); u != nil {
		return u.ID
	}
	return 0
}

func displayName(u *tele.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		name = u.Username
	}
	return name
}
