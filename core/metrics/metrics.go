// Package metrics exposes Prometheus collectors shared by the Telegram runtime.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/m3rciful/journalbot/core/logger"
)

var (
	// UpdatesTotal counts incoming updates by kind (message, callback, other).
	UpdatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journalbot_updates_total",
		Help: "Total number of Telegram updates received by kind",
	}, []string{"kind"})

	// HandlerOutcomes counts handler completions by handler name and outcome.
	HandlerOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journalbot_handler_outcomes_total",
		Help: "Total number of handled updates by handler and outcome",
	}, []string{"handler", "outcome"})

	// HandlerDuration records handler latency in seconds.
	HandlerDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "journalbot_handler_duration_seconds",
		Help:    "Handler latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"handler"})

	// MessagesSent counts outbound messages and edits produced by handlers.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "journalbot_messages_sent_total",
		Help: "Total number of messages sent or edited by handlers",
	})

	// RateLimited counts updates dropped by the per-user rate limit.
	RateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journalbot_rate_limited_total",
		Help: "Total number of updates dropped by the rate limiter by kind",
	}, []string{"kind"})

	// Panics counts handler panics caught by the recover middleware.
	Panics = promauto.NewCounter(prometheus.CounterOpts{
		Name: "journalbot_handler_panics_total",
		Help: "Total number of recovered handler panics",
	})

	// DispatchErrors counts asynchronous send failures by classified error code.
	DispatchErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "journalbot_dispatch_errors_total",
		Help: "Total number of failed asynchronous sends by error code",
	}, []string{"code"})
)

// ObserveHandler records a completed handler invocation.
func ObserveHandler(handler, outcome string, took time.Duration) {
	if strings.TrimSpace(handler) == "" {
		handler = "unknown"
	}
	if outcome == "" {
		outcome = "ok"
	}
	HandlerOutcomes.WithLabelValues(handler, outcome).Inc()
	HandlerDuration.WithLabelValues(handler).Observe(took.Seconds())
}

// Serve exposes the default registry on listen+path until ctx is done.
// An empty listen address disables the endpoint.
func Serve(ctx context.Context, listen, path string) error {
	listen = strings.TrimSpace(listen)
	if listen == "" {
		return nil
	}
	if path == "" {
		path = "/metrics"
	}
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.Handler())
	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.TG.Info("metrics listening",
		slog.String("event", "metrics.listen"),
		slog.String("listen", listen),
		slog.String("path", path),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.TG.Error("metrics listener failed",
			slog.String("event", "metrics.listen"),
			slog.String("err", err.Error()),
		)
		return err
	}
	return nil
}
