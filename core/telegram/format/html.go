package format

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// telegramTags accepts the tags of Telegram's HTML parse mode and nothing else.
var telegramTags = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del",
		"code", "pre", "blockquote", "tg-spoiler")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto", "tg")
	return p
}()

// HTML escapes user text for Telegram's HTML parse mode. Angle brackets stay
// visible as text.
func HTML(s string) string {
	return html.EscapeString(s)
}

// Markup drops tags and attributes Telegram would refuse from HTML the bot
// assembled. Escaped text passes through unchanged.
func Markup(s string) string {
	return telegramTags.Sanitize(s)
}

// Bold wraps escaped text in <b> tags.
func Bold(s string) string {
	return "<b>" + HTML(s) + "</b>"
}

// Truncate shortens s to at most max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	if max == 1 {
		return string(r[:1])
	}
	return strings.TrimSpace(string(r[:max-1])) + "…"
}
