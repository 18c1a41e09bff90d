// Package view holds the rendered form of a bot reply and the display helpers
// shared by the browser and the admin flows.
package view

import (
	tele "gopkg.in/telebot.v4"

	"github.com/m3rciful/journalbot/core/telegram/format"
	"github.com/m3rciful/journalbot/core/telegram/keyboard"
)

// Reply is what a flow wants shown in response to one update.
type Reply struct {
	// Text is HTML. Empty means no message is sent or edited.
	Text   string
	Markup *tele.ReplyMarkup
	// Photo is an image reference; when set Text becomes the caption.
	Photo string
	// Fresh replaces the current message with a new one instead of editing it.
	Fresh bool
	// Alert and Toast answer the callback query.
	Alert string
	Toast string
}

// AlertOnly answers a callback with an alert and leaves the message alone.
func AlertOnly(text string) Reply { return Reply{Alert: text} }

// Message builds a plain reply.
func Message(text string, rows ...[]keyboard.InlineBtn) Reply {
	r := Reply{Text: text}
	if len(rows) > 0 {
		r.Markup = keyboard.InlineButtonsRows(rows...)
	}
	return r
}

// Buttons returns the flattened inline buttons of the reply, for inspection.
func (r Reply) Buttons() []tele.InlineButton {
	if r.Markup == nil {
		return nil
	}
	var out []tele.InlineButton
	for _, row := range r.Markup.InlineKeyboard {
		out = append(out, row...)
	}
	return out
}

const (
	BackText       = "🔙 Orqaga"
	ErrorText      = "❌ Xatolik yuz berdi!"
	NotFoundText   = "Ma'lumot topilmadi!"
	JournalMissing = "Jurnal topilmadi!"
	EmptySection   = "Bu bo'limda jurnallar mavjud emas!"
	NotSet         = "Kiritilmagan"
)

type label struct {
	emoji string
	short string
}

var subjectLabels = map[string]label{
	"Fizika-matematika fanlari":      {"🔬", "Fizika-matem..."},
	"Kimyo fanlari":                  {"⚗️", "Kimyo fanlari"},
	"Biologiya fanlari":              {"🧬", "Biologiya fanlari"},
	"Geologiya-mineralogiya fanlari": {"⛰️", "Geologiya-min..."},
	"Texnika fanlari":                {"⚙️", "Texnika fanlari"},
	"Qishloq xo'jaligi fanlari":      {"🌾", "Qishloq x..."},
	"Tarix fanlari":                  {"📜", "Tarix fanlari"},
	"Iqtisodiyot fanlari":            {"💰", "Iqtisodiyot"},
	"Falsafa fanlari":                {"🤔", "Falsafa fanlari"},
	"Filologiya fanlari":             {"📚", "Filologiya"},
	"Geografiya fanlari":             {"🌍", "Geografiya"},
	"Yuridik fanlar":                 {"⚖️", "Yuridik fanlar"},
	"Pedagogika fanlari":             {"👨‍🏫", "Pedagogika"},
	"Tibbiyot fanlari":               {"🏥", "Tibbiyot fanlari"},
	"Farmatsevtika fanlari":          {"💊", "Farmatsevtika"},
	"Veterinariya fanlari":           {"🐕‍🦺", "Veterinariya"},
	"San'atshunoslik fanlari":        {"🎨", "San'atshunoslik"},
	"Arxitektura":                    {"🏗️", "Arxitektura"},
	"Psixologiya fanlari":            {"🧠", "Psixologiya"},
	"Harbiy fanlar":                  {"🎖️", "Harbiy fanlar"},
	"Sotsiologiya fanlari":           {"👥", "Sotsiologiya"},
	"Siyosiy fanlar":                 {"🗳️", "Siyosiy fanlar"},
	"Islomshunoslik fanlari":         {"☪️", "Islomshunoslik"},
}

var sectionLabels = map[string]label{
	"Milliy nashrlar": {"🇺🇿", "Milliy nashrlar"},
	"Mustaqil davlatlar hamdo'stligi mamlakatlari nashrlari": {"🤝", "MDH nashrlari"},
	"Evropa mamlakatlari nashrlari":                          {"🇪🇺", "Evropa nashrlari"},
	"Amerika mamlakatlari nashrlari":                         {"🌎", "Amerika nashrlari"},
}

// SubjectButton is the compact subject label used on two-column keyboards.
func SubjectButton(name string) string {
	if l, ok := subjectLabels[name]; ok {
		return l.emoji + " " + l.short
	}
	return "📖 " + format.Truncate(name, 18)
}

// SubjectLine is the subject label used on one-button-per-row keyboards.
func SubjectLine(name string) string {
	emoji := "📖"
	if l, ok := subjectLabels[name]; ok {
		emoji = l.emoji
	}
	return emoji + " " + format.Truncate(name, 25)
}

// Section renders a section with its emoji, shortening unknown names to max runes.
func Section(name string, max int) string {
	if l, ok := sectionLabels[name]; ok {
		return l.emoji + " " + l.short
	}
	return "📄 " + format.Truncate(name, max)
}
