package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/arzonmarket/arzon-bot/internal/ai"
	"github.com/arzonmarket/arzon-bot/internal/logging"
	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/notify"
	"github.com/arzonmarket/arzon-bot/internal/repo"
	"github.com/arzonmarket/arzon-bot/internal/service"
)

// AdminHTTP is the ops surface: stats, the order pipeline and broadcasts.
// The chat admin panel covers the same ground for admins on the go; this
// API exists for dashboards and scripts.
type AdminHTTP struct {
	Repo   *repo.GormRepo
	Orders *service.OrderService
	Users  *service.UserService
	Notify *notify.Notifier
	AI     *ai.Engine
}

func (h *AdminHTTP) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_stats")

	stats, err := h.Repo.GetStats(ctx)
	if err != nil {
		l.Error("stats_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "stats unavailable")
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *AdminHTTP) ActiveOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_orders")

	orders, err := h.Orders.ListActiveOrders(ctx, 100)
	if err != nil {
		l.Error("list_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "orders unavailable")
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus moves an order along the pipeline and tells the
// customer. A failed customer notification does not fail the request;
// the status change is already durable.
func (h *AdminHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_order_status")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Orders.UpdateStatus(ctx, uint(id), req.Status)
	switch {
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, "unknown status")
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "transition not allowed")
	case err != nil:
		l.Error("update_failed", "status", 500, "order_id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "update failed")
	}

	h.notifyCustomer(ctx, order)

	l.Info("status_updated", "order_id", order.ID, "new_status", order.OrderStatus)
	return c.JSON(http.StatusOK, order)
}

func (h *AdminHTTP) notifyCustomer(ctx context.Context, order *models.Order) {
	customer, err := h.Users.GetUser(ctx, order.UserID)
	if err != nil || customer == nil {
		logging.FromContext(ctx).Error("customer_lookup_failed", "order_id", order.ID, "user_id", order.UserID, "error", err)
		return
	}
	h.Notify.NotifyOrderStatus(ctx, order, customer.LanguageCode)
}

// Broadcast queues a promotional message to every active customer. The
// send loop is paced and can outlive the request, so it runs detached
// and the endpoint answers 202 right away.
func (h *AdminHTTP) Broadcast(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin_broadcast")

	var req struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&req); err != nil || req.Text == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text required")
	}

	userIDs, err := h.Repo.ListCustomerIDs(ctx)
	if err != nil {
		l.Error("list_customers_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "customers unavailable")
	}

	bg := logging.IntoContext(context.Background(), logging.FromContext(ctx))
	go h.Notify.Broadcast(bg, userIDs, req.Text)

	l.Info("broadcast_started", "recipients", len(userIDs))
	return c.JSON(http.StatusAccepted, echo.Map{"recipients": len(userIDs)})
}

func (h *AdminHTTP) Insights(c echo.Context) error {
	ctx := c.Request().Context()
	return c.JSON(http.StatusOK, echo.Map{"insights": h.AI.SalesInsights(ctx)})
}
