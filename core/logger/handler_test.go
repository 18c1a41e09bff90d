package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func newTestLogger(t *testing.T, format logFormat, lvl slog.Level) (*slog.Logger, func() string) {
	t.Helper()
	buf := &bytes.Buffer{}
	s := newSink([]io.Writer{buf}, 1024)
	h := newStructuredHandler(handlerConfig{level: lvl, writer: s, format: format})
	return slog.New(h), func() string {
		if err := s.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
		return strings.TrimSpace(buf.String())
	}
}

func TestKVLineOrderAndMeta(t *testing.T) {
	log, read := newTestLogger(t, formatKV, slog.LevelInfo)
	ctx := WithRID(context.Background(), BuildRID(42, 9, 7))
	ctx = WithUpdateMeta(ctx, 42, 7, 9)
	ctx = WithHandler(ctx, "browse.list")

	LogEvent(ctx, log.With("component", "tg"), slog.LevelInfo, "handler.handled",
		slog.Int64("journal_id", 5),
		slog.String("status", "OK"),
	)
	line := read()

	keys := make([]string, 0)
	for _, tok := range strings.Split(line, " ") {
		k, _, _ := strings.Cut(tok, "=")
		keys = append(keys, k)
	}
	want := []string{"ts", "level", "component", "event", "status", "rid", "update_id", "user_id", "chat_id", "handler", "journal_id"}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Fatalf("keys = %v, want %v", keys, want)
	}
	for _, frag := range []string{"status=ok", "rid=16.9.7", "handler=browse.list", "level=INFO"} {
		if !strings.Contains(line, frag) {
			t.Errorf("line %q missing %q", line, frag)
		}
	}
}

func TestJSONLineKeepsFullRID(t *testing.T) {
	log, read := newTestLogger(t, formatJSON, slog.LevelInfo)
	ctx := WithRID(context.Background(), "100:200:300")
	log.InfoContext(ctx, "catalog.list", slog.Duration("duration", 1500*time.Microsecond))

	var rec map[string]any
	if err := json.Unmarshal([]byte(read()), &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if rec["rid"] != "2s.5k.8c" {
		t.Errorf("rid = %v", rec["rid"])
	}
	if rec["rid_full"] != "100:200:300" {
		t.Errorf("rid_full = %v", rec["rid_full"])
	}
	if rec["event"] != "catalog.list" {
		t.Errorf("event = %v", rec["event"])
	}
	if rec["component"] != "app" {
		t.Errorf("component = %v", rec["component"])
	}
	if rec["duration_ms"] != float64(2) {
		t.Errorf("duration_ms = %v", rec["duration_ms"])
	}
}

func TestHandlerDropsUnknownOutcomeAndEmptyValues(t *testing.T) {
	log, read := newTestLogger(t, formatKV, slog.LevelInfo)
	log.Info("x", slog.String("outcome", "weird"), slog.String("field", " "), slog.Any("err", errors.New("boom")))
	line := read()
	if strings.Contains(line, "outcome=") || strings.Contains(line, "field=") {
		t.Fatalf("unexpected fields in %q", line)
	}
	if !strings.Contains(line, "err=boom") {
		t.Fatalf("missing err in %q", line)
	}
}

func TestHandlerLevelAndGroups(t *testing.T) {
	log, read := newTestLogger(t, formatKV, slog.LevelWarn)
	log.Info("hidden")
	log.WithGroup("draft").Warn("shown", slog.String("name", "Fizika jurnali"))
	line := read()
	if strings.Contains(line, "hidden") {
		t.Fatalf("info line should be filtered: %q", line)
	}
	if !strings.Contains(line, `draft.name="Fizika jurnali"`) {
		t.Fatalf("group key missing: %q", line)
	}
}

func TestCompactRID(t *testing.T) {
	cases := map[string]string{
		"35:36:0": "z.10.0",
		"abc":     "abc",
		"1:x:2":   "1:x:2",
		" 1:2:3 ": "1.2.3",
	}
	for in, want := range cases {
		if got := CompactRID(in); got != want {
			t.Errorf("CompactRID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSanitizeLimit(t *testing.T) {
	if got := SanitizeLimit("a\x00b\u200bc\nd", 10); got != "abc\nd" {
		t.Fatalf("got %q", got)
	}
	if got := SanitizeLimit("жжжжж", 3); got != "жжж" {
		t.Fatalf("got %q", got)
	}
	if got := SanitizeLimit("abc", 0); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestRatio(t *testing.T) {
	var r ratio
	r.set(1, 3)
	got := []bool{r.allow(), r.allow(), r.allow(), r.allow()}
	want := []bool{true, false, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("allow #%d = %v", i, got[i])
		}
	}
	r.set(0, 0)
	if !r.allow() {
		t.Fatal("zero ratio should allow")
	}
	if n, d := parseRatio("2/10"); n != 2 || d != 10 {
		t.Fatalf("parseRatio = %d/%d", n, d)
	}
	if n, d := parseRatio("25"); n != 1 || d != 25 {
		t.Fatalf("parseRatio = %d/%d", n, d)
	}
}
