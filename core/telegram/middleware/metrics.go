package middleware

import (
	"github.com/m3rciful/journalbot/core/metrics"

	tele "gopkg.in/telebot.v4"
)

const countersKey = "reply_counters"

// Counters describe what a handler sent back for one update.
type Counters struct {
	Messages int
	Keyboard bool
}

// countingContext counts successful sends and edits. Callback answers are
// not messages and pass through untouched.
type countingContext struct {
	tele.Context
	n *Counters
}

func (m countingContext) count(err error, opts []interface{}) error {
	if err != nil {
		return err
	}
	metrics.MessagesSent.Inc()
	m.n.Messages++
	if withKeyboard(opts) {
		m.n.Keyboard = true
	}
	return nil
}

func (m countingContext) Send(what interface{}, opts ...interface{}) error {
	return m.count(m.Context.Send(what, opts...), opts)
}

func (m countingContext) Reply(what interface{}, opts ...interface{}) error {
	return m.count(m.Context.Reply(what, opts...), opts)
}

func (m countingContext) Edit(what interface{}, opts ...interface{}) error {
	return m.count(m.Context.Edit(what, opts...), opts)
}

func (m countingContext) EditOrSend(what interface{}, opts ...interface{}) error {
	return m.count(m.Context.EditOrSend(what, opts...), opts)
}

func (m countingContext) EditOrReply(what interface{}, opts ...interface{}) error {
	return m.count(m.Context.EditOrReply(what, opts...), opts)
}

func withKeyboard(opts []interface{}) bool {
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			if v != nil && v.ReplyMarkup != nil {
				return true
			}
		case *tele.ReplyMarkup:
			if v != nil {
				return true
			}
		}
	}
	return false
}

// MessageMetricsMiddleware counts the replies of each update.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		n := &Counters{}
		c.Set(countersKey, n)
		return next(countingContext{Context: c, n: n})
	}
}

// ReplyCounters returns the counters of the current update; zero when the
// middleware is not installed.
func ReplyCounters(c tele.Context) Counters {
	if n, ok := c.Get(countersKey).(*Counters); ok && n != nil {
		return *n
	}
	return Counters{}
}
