// Package subscription decides whether a user may use the bot based on their
// membership in the configured channels.
package subscription

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/m3rciful/journalbot/core/logger"
)

// Channel is a Telegram channel users must join.
type Channel struct {
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	URL      string `yaml:"url"`
}

// Handle returns the @username form used by the Bot API.
func (c Channel) Handle() string {
	return "@" + strings.TrimPrefix(strings.TrimSpace(c.Username), "@")
}

// Link returns the invite URL, derived from the username when not configured.
func (c Channel) Link() string {
	if c.URL != "" {
		return c.URL
	}
	return "https://t.me/" + strings.TrimPrefix(strings.TrimSpace(c.Username), "@")
}

// MembershipChecker answers whether a user belongs to a channel.
type MembershipChecker interface {
	IsMember(ctx context.Context, ch Channel, userID int64) (bool, error)
}

// Result is the gate decision. Missing lists the channels the user has not joined.
type Result struct {
	Allowed bool
	Missing []Channel
}

// MissingNames joins the names of the missing channels.
func (r Result) MissingNames() string {
	names := make([]string, 0, len(r.Missing))
	for _, ch := range r.Missing {
		names = append(names, ch.Name)
	}
	return strings.Join(names, ", ")
}

// Gate evaluates channel membership for a user.
type Gate struct {
	channels []Channel
	checker  MembershipChecker
}

// NewGate builds a gate. With no channels every user is allowed.
func NewGate(checker MembershipChecker, channels ...Channel) *Gate {
	return &Gate{channels: channels, checker: checker}
}

// Evaluate queries every channel. A failed query counts as not subscribed.
func (g *Gate) Evaluate(ctx context.Context, userID int64) Result {
	start := time.Now()
	var missing []Channel
	for _, ch := range g.channels {
		ok, err := g.checker.IsMember(ctx, ch, userID)
		if err != nil {
			logger.SVCSubscription.Warn("membership check failed",
				slog.String("event", "subscription.check"),
				slog.Int64("user_id", userID),
				slog.String("channel", ch.Handle()),
				slog.String("err", err.Error()),
			)
			ok = false
		}
		if !ok {
			missing = append(missing, ch)
		}
	}

	res := Result{Allowed: len(missing) == 0, Missing: missing}
	logger.SVCSubscription.Debug("membership evaluated",
		slog.String("event", "subscription.evaluate"),
		slog.Int64("user_id", userID),
		slog.Int("channels_missing", len(missing)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return res
}
