package bot

import (
	"github.com/m3rciful/journalbot/core/telegram/helpers"
	"github.com/m3rciful/journalbot/core/telegram/ui"

	tele "gopkg.in/telebot.v4"
)

const (
	helpText = "🤖 <b>Bot haqida ma'lumot:</b>\n\n" +
		"Bu bot O'zbekiston Respublikasi Vazirlar Mahkamasining ilmiy jurnallar ro'yxatini ko'rish uchun yaratilgan.\n\n" +
		"📋 <b>Buyruqlar:</b>\n" +
		"/start - Botni ishga tushirish\n" +
		"/help - Yordam\n\n" +
		"🎯 <b>Imkoniyatlar:</b>\n" +
		"• 23 ta fan bo'yicha jurnallar\n" +
		"• 4 ta bo'lim\n" +
		"• Har jurnal haqida to'liq ma'lumot\n" +
		"• Jurnal sayti va talablariga o'tish\n\n" +
		"📞 <b>Qo'llab-quvvatlash:</b>\n" +
		"Muammo bo'lsa, admin bilan bog'laning."

	unknownText = "❓ Kechirasiz, bu buyruqni tushunmadim.\n\n" +
		"Botdan foydalanish uchun /start buyrug'ini yuboring.\n\n" +
		"Yordam uchun: /help"

	unknownCallback = "❓ Bu tugma eskirgan. /start buyrug'ini yuboring."
	slowDown        = "⏳ Iltimos, biroz kuting."
)

type fallbacks struct {
	h *Handlers
}

// Fallbacks answers updates no command, callback or session claimed.
func (h *Handlers) Fallbacks() ui.FallbackProvider {
	return fallbacks{h: h}
}

func (f fallbacks) unknown(c tele.Context) error {
	return helpers.SendText(c, unknownText)
}

func (f fallbacks) UnknownText() tele.HandlerFunc {
	return privateOnly(f.h.gated(f.unknown))
}

func (f fallbacks) UnknownPhoto() tele.HandlerFunc {
	return privateOnly(f.h.gated(f.unknown))
}

func (f fallbacks) UnknownDocument() tele.HandlerFunc {
	return privateOnly(f.h.gated(f.unknown))
}

func (f fallbacks) UnknownCallback() tele.HandlerFunc {
	return func(c tele.Context) error {
		return helpers.Answer(c, unknownCallback, true)
	}
}

// OnLimited answers updates dropped by the rate limiter.
func OnLimited(c tele.Context) error {
	if c.Callback() != nil {
		return helpers.Answer(c, slowDown, false)
	}
	return nil
}
