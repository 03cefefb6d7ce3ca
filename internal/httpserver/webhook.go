package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arzonmarket/arzon-bot/internal/bot"
	"github.com/arzonmarket/arzon-bot/internal/logging"
	"github.com/arzonmarket/arzon-bot/internal/telegram"
)

// WebhookHTTP receives updates pushed by the Bot API. The bot token in
// the path is the shared secret: only Telegram knows the full URL.
type WebhookHTTP struct {
	Bot      *bot.Bot
	BotToken string
}

func (h *WebhookHTTP) Handle(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "webhook")

	if c.Param("token") != h.BotToken {
		l.Warn("webhook_rejected", "status", 403)
		return echo.NewHTTPError(http.StatusForbidden, "unknown token")
	}

	var upd telegram.Update
	if err := c.Bind(&upd); err != nil {
		l.Warn("webhook_bad_body", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid update")
	}

	// Always 200: Telegram retries non-2xx responses and a poison update
	// would wedge the queue.
	h.Bot.HandleUpdate(ctx, upd)
	return c.NoContent(http.StatusOK)
}
