package telegram

import (
	coreconfig "github.com/m3rciful/journalbot/core/config"

	tele "gopkg.in/telebot.v4"
)

// BuildPoller returns the update source selected by the run mode. The
// config is expected to be normalized.
func BuildPoller(cfg *coreconfig.Config) tele.Poller {
	if cfg.Telegram.RunMode == coreconfig.RunModeWebhook {
		return &tele.Webhook{
			Listen:   cfg.Webhook.Addr(),
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}
	return &tele.LongPoller{Timeout: cfg.Telegram.PollTimeout()}
}
