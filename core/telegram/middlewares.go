package telegram

import (
	coreconfig "github.com/m3rciful/journalbot/core/config"
	"github.com/m3rciful/journalbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// DefaultMiddlewares returns the global chain: recover, then the optional
// per-user rate limit, then update logging and message metrics. onLimited
// answers updates the rate limit drops.
func DefaultMiddlewares(cfg *coreconfig.Config, onLimited func(tele.Context) error) []Middleware {
	chain := []Middleware{{Name: "recover", Use: middleware.RecoverMiddleware}}
	if rl := rateLimit(cfg, onLimited); rl != nil {
		chain = append(chain, Middleware{Name: "rate_limit", Use: rl})
	}
	return append(chain,
		Middleware{Name: "logger", Use: middleware.LoggerMiddleware},
		Middleware{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
	)
}

func rateLimit(cfg *coreconfig.Config, onLimited tele.HandlerFunc) tele.MiddlewareFunc {
	if cfg == nil || cfg.RateLimit.Interval() <= 0 {
		return nil
	}
	return middleware.RateLimitMiddleware(middleware.RateLimitOptions{
		Interval:  cfg.RateLimit.Interval(),
		Exclude:   cfg.RateLimit.Excluded(),
		OnLimited: onLimited,
	})
}
