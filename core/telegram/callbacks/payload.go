package callbacks

import (
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"
)

// PayloadSep separates positional tokens inside a callback payload.
const PayloadSep = ":"

// PayloadInt64 parses callback payload as int64.
func PayloadInt64(c tele.Context) (int64, error) {
	return strconv.ParseInt(CallbackPayload(c), 10, 64)
}

// PayloadParts splits the callback payload into parts using the given separator.
func PayloadParts(c tele.Context, sep string) ([]string, error) {
	p := CallbackPayload(c)
	if p == "" {
		return nil, strconv.ErrSyntax
	}
	return strings.Split(p, sep), nil
}

// ParseInt64s decodes exactly n colon separated integers.
func ParseInt64s(payload string, n int) ([]int64, error) {
	if payload == "" {
		return nil, strconv.ErrSyntax
	}
	parts := strings.Split(payload, PayloadSep)
	if len(parts) != n {
		return nil, fmt.Errorf("payload %q: want %d tokens, got %d", payload, n, len(parts))
	}
	out := make([]int64, n)
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("payload %q token %d: %w", payload, i, err)
		}
		out[i] = v
	}
	return out, nil
}

// JoinInt64s is the inverse of ParseInt64s.
func JoinInt64s(ids ...int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, PayloadSep)
}
