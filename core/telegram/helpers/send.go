package helpers

import (
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/m3rciful/journalbot/core/logger"
	"github.com/m3rciful/journalbot/core/telegram/sender"

	tele "gopkg.in/telebot.v4"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by helper functions.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

func currentDispatcher() *sender.Dispatcher {
	return globalDispatcher.Load()
}

func sendAsync(c tele.Context, action, endpoint string, run func() error) error {
	disp := currentDispatcher()
	if disp == nil {
		return run()
	}

	ctx := BuildContext(c)
	if err := disp.Enqueue(ctx, action, endpoint, run); err != nil {
		if errors.Is(err, sender.ErrQueueFull) || errors.Is(err, sender.ErrQueueClosed) {
			logger.Warn(ctx, "tg.sender", "queue.fallback",
				slog.String("action", action),
				slog.String("endpoint", endpoint),
				slog.String("err", err.Error()),
			)
			return run()
		}
		return err
	}
	return nil
}

func htmlOptions(markup []*tele.ReplyMarkup) *tele.SendOptions {
	opts := &tele.SendOptions{ParseMode: tele.ModeHTML, DisableWebPagePreview: true}
	if len(markup) > 0 && markup[0] != nil {
		opts.ReplyMarkup = markup[0]
	}
	return opts
}

// fresh copies opts with a cloned inline keyboard. Telebot rewrites callback
// data in place when sending, so every attempt needs its own copy.
func fresh(opts *tele.SendOptions) *tele.SendOptions {
	if opts == nil {
		return nil
	}
	cp := *opts
	if opts.ReplyMarkup != nil {
		rm := *opts.ReplyMarkup
		if opts.ReplyMarkup.InlineKeyboard != nil {
			rm.InlineKeyboard = make([][]tele.InlineButton, len(opts.ReplyMarkup.InlineKeyboard))
			for i, row := range opts.ReplyMarkup.InlineKeyboard {
				rm.InlineKeyboard[i] = append([]tele.InlineButton(nil), row...)
			}
		}
		cp.ReplyMarkup = &rm
	}
	return &cp
}

// SendText sends raw text (no parse mode) to the current recipient.
func SendText(c tele.Context, text string, opts ...*tele.SendOptions) error {
	var sendOpts *tele.SendOptions
	if len(opts) > 0 {
		sendOpts = opts[0]
	}
	return sendAsync(c, "send.text", "sendMessage", func() error {
		if sendOpts != nil {
			return c.Send(text, fresh(sendOpts))
		}
		return c.Send(text)
	})
}

// SendHTML queues an HTML message with optional reply markup.
func SendHTML(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	return SendText(c, text, htmlOptions(markup))
}

// EditOrSendHTML edits the message behind the current callback (its caption when
// the message is a photo) and sends a fresh message when there is nothing to edit
// or the edit is rejected. Runs synchronously because the fallback depends on the
// edit outcome.
func EditOrSendHTML(c tele.Context, text string, markup ...*tele.ReplyMarkup) error {
	opts := htmlOptions(markup)
	if c.Callback() == nil || c.Message() == nil {
		return c.Send(text, fresh(opts))
	}
	var err error
	if c.Message().Photo != nil {
		_, err = c.Bot().EditCaption(c.Message(), text, fresh(opts))
	} else {
		err = c.Edit(text, fresh(opts))
	}
	if err == nil || IsNotModified(err) {
		return nil
	}
	ctx := BuildContext(c)
	logger.Debug(ctx, "tg.sender", "edit.fallback",
		slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
	)
	return c.Send(text, fresh(opts))
}

// SendPhotoHTML sends a photo by file id or URL with an HTML caption.
// Runs synchronously so callers can fall back to text when the photo is rejected.
func SendPhotoHTML(c tele.Context, ref, caption string, markup ...*tele.ReplyMarkup) error {
	photo := &tele.Photo{Caption: caption}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		photo.File = tele.FromURL(ref)
	} else {
		photo.File = tele.File{FileID: ref}
	}
	return c.Send(photo, fresh(htmlOptions(markup)))
}

// DeleteCurrent removes the message behind the current callback, if any.
func DeleteCurrent(c tele.Context) error {
	if c.Message() == nil {
		return nil
	}
	return sendAsync(c, "delete", "deleteMessage", func() error {
		return c.Delete()
	})
}

const answeredKey = "cb_answered"

// Answer responds to the current callback query with a toast or an alert.
func Answer(c tele.Context, text string, alert bool) error {
	if c.Callback() == nil {
		if text == "" {
			return nil
		}
		return SendText(c, text)
	}
	c.Set(answeredKey, true)
	return c.Respond(&tele.CallbackResponse{Text: text, ShowAlert: alert})
}

// Answered reports whether Answer was already called for the current update.
func Answered(c tele.Context) bool {
	v, _ := c.Get(answeredKey).(bool)
	return v
}

// IsNotModified reports Telegram's "message is not modified" rejection.
func IsNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}
