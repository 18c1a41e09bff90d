package router

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/m3rciful/journalbot/core/logger"
	"github.com/m3rciful/journalbot/core/metrics"
	tghelpers "github.com/m3rciful/journalbot/core/telegram/helpers"
	"github.com/m3rciful/journalbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

var timeNow = time.Now

// run calls fn as the named handler and logs one handler.handled line.
func run(c tele.Context, name string, fn tele.HandlerFunc, extras ...slog.Attr) error {
	start := timeNow()
	tghelpers.WithHandler(c, name)
	err := fn(c)
	summarize(c, name, start, err, "", extras...)
	return err
}

// skip logs an update no handler wanted.
func skip(c tele.Context, name string) {
	summarize(c, name, timeNow(), nil, "skip")
}

func summarize(c tele.Context, name string, start time.Time, err error, status string, extras ...slog.Attr) {
	ctx := tghelpers.WithHandler(c, name)
	outcome := "ok"
	if err != nil {
		outcome = "fail"
	}
	if status == "" {
		status = outcome
	}
	took := timeNow().Sub(start)
	metrics.ObserveHandler(name, outcome, took)

	replies := middleware.ReplyCounters(c)
	attrs := make([]slog.Attr, 0, 8+len(extras))
	attrs = append(attrs,
		slog.String("status", status),
		slog.String("handler", name),
		slog.String("outcome", outcome),
		slog.Int("messages", replies.Messages),
		slog.Bool("kb", replies.Keyboard),
		slog.Int64("duration_ms", logger.RoundMS(took).Milliseconds()),
	)
	if err != nil {
		attrs = append(attrs,
			slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			slog.String("err_code", errorCode(err)),
		)
	}
	attrs = append(attrs, extras...)
	logger.Info(ctx, "tg", "handler.handled", attrs...)
}

// handlerName turns a command or callback key into a metric-safe name.
func handlerName(key string) string {
	key = strings.TrimPrefix(strings.TrimSpace(key), "/")
	if key == "" {
		return "unknown"
	}
	return strings.ToLower(strings.ReplaceAll(key, " ", "_"))
}

// errorCode prefers an explicit Code() and falls back to the error's type name.
func errorCode(err error) string {
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		if code := strings.TrimSpace(coded.Code()); code != "" {
			return strings.ToUpper(strings.ReplaceAll(code, " ", "_"))
		}
	}
	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "UNKNOWN_ERROR"
	}
	return strings.ToUpper(t.Name())
}
