package bot

import (
	"context"

	"github.com/m3rciful/journalbot/core/telegram/helpers"
	"github.com/m3rciful/journalbot/core/telegram/router"
	"github.com/m3rciful/journalbot/internal/admin"

	tele "gopkg.in/telebot.v4"
)

// sessionRouter hands the messages of administrators with an open wizard or
// editor session to the admin service.
type sessionRouter struct {
	admin *admin.Service
}

// Sessions returns the message router for admin sessions.
func (h *Handlers) Sessions() router.FSM {
	if h.admin == nil {
		return nil
	}
	return sessionRouter{admin: h.admin}
}

func (s sessionRouter) InProgress(userID int64) bool {
	return s.admin.InProgress(context.Background(), userID)
}

func (s sessionRouter) ManagerHandler(c tele.Context) error {
	r, err := s.admin.Handle(helpers.BuildContext(c), senderID(c), inputOf(c.Message()))
	return reply(c, r, err)
}

// inputOf classifies a message as text, photo or an unusable upload.
func inputOf(m *tele.Message) admin.Input {
	switch {
	case m == nil:
		return admin.Other()
	case m.Photo != nil:
		return admin.Image(m.Photo.FileID)
	case m.Document != nil, m.Video != nil, m.Audio != nil, m.Voice != nil, m.Sticker != nil:
		return admin.Other()
	}
	return admin.Text(m.Text)
}
