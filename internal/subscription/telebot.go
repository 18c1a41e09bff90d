package subscription

import (
	"context"
	"strconv"

	tele "gopkg.in/telebot.v4"
)

// ChatMemberAPI is the part of the bot API used to read membership.
type ChatMemberAPI interface {
	ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error)
}

type recipient string

func (r recipient) Recipient() string { return string(r) }

// TelebotChecker asks Telegram through getChatMember.
type TelebotChecker struct {
	api ChatMemberAPI
}

// NewTelebotChecker wraps a bot.
func NewTelebotChecker(api ChatMemberAPI) *TelebotChecker {
	return &TelebotChecker{api: api}
}

// IsMember treats left and kicked as not subscribed.
func (t *TelebotChecker) IsMember(_ context.Context, ch Channel, userID int64) (bool, error) {
	m, err := t.api.ChatMemberOf(recipient(ch.Handle()), recipient(strconv.FormatInt(userID, 10)))
	if err != nil {
		return false, err
	}
	switch m.Role {
	case tele.Left, tele.Kicked:
		return false, nil
	}
	return true, nil
}
