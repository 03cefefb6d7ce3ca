package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Deps struct {
	Webhook *WebhookHTTP
	Auth    *AuthHTTP
	Admin   *AdminHTTP
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/webhook/:token", d.Webhook.Handle)

	e.POST("/api/admin/login", d.Auth.LoginHandler)

	private := e.Group("/api/admin")
	private.Use(d.Auth.RequireAdmin)

	private.GET("/stats", d.Admin.Stats)
	private.GET("/orders", d.Admin.ActiveOrders)
	private.PATCH("/orders/:id/status", d.Admin.UpdateOrderStatus)
	private.POST("/broadcast", d.Admin.Broadcast)
	private.GET("/insights", d.Admin.Insights)
}
