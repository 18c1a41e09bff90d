package middleware

import (
	"testing"
	"time"

	"github.com/m3rciful/journalbot/core/logger"
	tghelpers "github.com/m3rciful/journalbot/core/telegram/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

func newContext(t *testing.T, upd tele.Update) tele.Context {
	t.Helper()
	b, err := tele.NewBot(tele.Settings{Token: "123:test", Offline: true})
	require.NoError(t, err)
	return b.NewContext(upd)
}

func messageFrom(id int64) tele.Update {
	return tele.Update{ID: 1, Message: &tele.Message{
		Sender: &tele.User{ID: id},
		Chat:   &tele.Chat{ID: id, Type: tele.ChatPrivate},
		Text:   "hi",
	}}
}

func TestLimiterAllow(t *testing.T) {
	l := &limiter{interval: time.Second, seen: map[int64]time.Time{}}
	now := time.Now()
	assert.True(t, l.allow(1, now))
	assert.False(t, l.allow(1, now.Add(500*time.Millisecond)))
	assert.True(t, l.allow(2, now.Add(500*time.Millisecond)))
	assert.True(t, l.allow(1, now.Add(1500*time.Millisecond)))
}

func TestLimiterSweepsStaleUsers(t *testing.T) {
	l := &limiter{interval: time.Second, seen: map[int64]time.Time{}}
	now := time.Now()
	l.allow(1, now)
	l.allow(2, now.Add(2*time.Minute))
	assert.NotContains(t, l.seen, int64(1))
	assert.Contains(t, l.seen, int64(2))
}

func TestRateLimitMiddleware(t *testing.T) {
	limited := 0
	mw := RateLimitMiddleware(RateLimitOptions{
		Interval:  time.Hour,
		Exclude:   map[string]struct{}{"callback": {}},
		OnLimited: func(tele.Context) error { limited++; return nil },
	})
	calls := 0
	h := mw(func(tele.Context) error { calls++; return nil })

	require.NoError(t, h(newContext(t, messageFrom(5))))
	require.NoError(t, h(newContext(t, messageFrom(5))))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, limited)

	cb := tele.Update{ID: 2, Callback: &tele.Callback{Sender: &tele.User{ID: 5}}}
	require.NoError(t, h(newContext(t, cb)))
	assert.Equal(t, 2, calls)
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(func(tele.Context) error { panic("boom") })
	assert.NotPanics(t, func() {
		assert.NoError(t, h(newContext(t, messageFrom(1))))
	})
}

func TestAdminOnlyMiddleware(t *testing.T) {
	rejected := 0
	mw := AdminOnlyMiddleware(AdminOptions{
		IsAdmin:  func(id int64) bool { return id == 42 },
		OnReject: func(tele.Context) error { rejected++; return nil },
	})
	passed := 0
	h := mw(func(tele.Context) error { passed++; return nil })

	require.NoError(t, h(newContext(t, messageFrom(42))))
	require.NoError(t, h(newContext(t, messageFrom(7))))
	assert.Equal(t, 1, passed)
	assert.Equal(t, 1, rejected)

	none := AdminOnlyMiddleware(AdminOptions{})(func(tele.Context) error { passed++; return nil })
	require.NoError(t, none(newContext(t, messageFrom(42))))
	assert.Equal(t, 1, passed)
}

func TestMessageCounters(t *testing.T) {
	c := newContext(t, messageFrom(5))
	assert.Equal(t, Counters{}, ReplyCounters(c))

	var wrapped tele.Context
	h := MessageMetricsMiddleware(func(c tele.Context) error {
		wrapped = c
		return nil
	})
	require.NoError(t, h(c))
	cc, ok := wrapped.(countingContext)
	require.True(t, ok)

	assert.NoError(t, cc.count(nil, nil))
	assert.NoError(t, cc.count(nil, []interface{}{&tele.ReplyMarkup{}}))
	assert.Error(t, cc.count(assert.AnError, nil))

	assert.Equal(t, Counters{Messages: 2, Keyboard: true}, ReplyCounters(c))
}

func TestWithKeyboard(t *testing.T) {
	assert.False(t, withKeyboard(nil))
	assert.False(t, withKeyboard([]interface{}{&tele.SendOptions{}, tele.ModeHTML}))
	assert.True(t, withKeyboard([]interface{}{&tele.SendOptions{ReplyMarkup: &tele.ReplyMarkup{}}}))
}

func TestReceiptsFirst(t *testing.T) {
	r := &receipts{ttl: time.Second, seen: map[int]time.Time{}}
	now := time.Now()
	assert.True(t, r.first(1, now))
	assert.False(t, r.first(1, now.Add(100*time.Millisecond)))
	assert.True(t, r.first(1, now.Add(2*time.Second)))
}

func TestLoggerMiddlewareStoresContext(t *testing.T) {
	c := newContext(t, messageFrom(9))
	h := LoggerMiddleware(func(c tele.Context) error {
		_, ok := tghelpers.ContextFrom(c)
		assert.True(t, ok)
		return nil
	})
	require.NoError(t, h(c))
	assert.Equal(t, logger.BuildRID(1, 9, 9), c.Get("rid"))
	assert.Equal(t, int64(9), logger.UserIDFrom(tghelpers.BuildContext(c)))
}

func TestUpdateKind(t *testing.T) {
	assert.Equal(t, "callback", updateKind(tele.Update{Callback: &tele.Callback{}}))
	assert.Equal(t, "photo", updateKind(tele.Update{Message: &tele.Message{Photo: &tele.Photo{}}}))
	assert.Equal(t, "message", updateKind(tele.Update{Message: &tele.Message{}}))
	assert.Equal(t, "other", updateKind(tele.Update{}))
}
