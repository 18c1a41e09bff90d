package logger

import "strings"

// Level names written to the "level" field.
const (
	LevelDebug = "DEBUG"
	LevelInfo  = "INFO"
	LevelWarn  = "WARN"
	LevelError = "ERROR"
)

// enums maps the closed-vocabulary fields to their accepted values. Unknown
// values of "outcome" are dropped; "status" keeps them lower-cased.
var enums = map[string]map[string]bool{
	"status":  {"ok": true, "fail": true, "skip": true, "retry": true, "rate_limited": true, "cancelled": true},
	"outcome": {"ok": true, "fail": true, "cancelled": true, "rate_limited": true, "denied": true},
}

func levelName(level string) string {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "", "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return strings.ToUpper(level)
}

// defaultKeyOrder puts correlation first, then the journal catalog vocabulary.
var defaultKeyOrder = []string{
	"ts",
	"level",
	"component",
	"event",
	"status",
	"rid",
	"rid_full",
	"ts_unix_nano",
	"update_id",
	"user_id",
	"chat_id",
	"chat_type",
	"handler",
	"op",
	"cb_key",
	"outcome",
	"duration_ms",
	"subject_id",
	"section_id",
	"journal_id",
	"field",
	"step",
	"page",
	"pages",
	"count",
	"channels_missing",
	"mode",
	"listen",
	"public_url",
	"db",
	"host",
	"port",
	"err",
	"error_kind",
	"attempts",
	"rate_limited",
}
