package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/telegram"
)

// fakeSender records sends and can fail selected chats.
type fakeSender struct {
	sent    []telegram.SendMessage
	failFor map[int64]bool
}

func (f *fakeSender) SendMessage(_ context.Context, msg telegram.SendMessage) error {
	if f.failFor[msg.ChatID] {
		return errors.New("chat blocked")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) EditMessageText(context.Context, telegram.EditMessageText) error { return nil }
func (f *fakeSender) AnswerCallback(context.Context, string, string) error            { return nil }

func TestNotifyAdminsFailureIsolation(t *testing.T) {
	s := &fakeSender{failFor: map[int64]bool{10: true}}
	n := &Notifier{Sender: s, AdminIDs: []int64{10, 20, 30}}

	n.NotifyAdmins(context.Background(), "hello")

	// The blocked admin is skipped, the rest still get the message.
	require.Len(t, s.sent, 2)
	require.Equal(t, int64(20), s.sent[0].ChatID)
	require.Equal(t, int64(30), s.sent[1].ChatID)
}

func TestNotifyNewOrder(t *testing.T) {
	s := &fakeSender{}
	n := &Notifier{Sender: s, AdminIDs: []int64{10}}

	order := &models.Order{
		ID:              7,
		TotalAmount:     75000,
		DeliveryAddress: "Chilonzor 5",
		PaymentMethod:   models.PaymentCash,
	}
	customer := &models.User{FirstName: "Aziz", Phone: "+998901234567"}

	n.NotifyNewOrder(context.Background(), order, customer)

	require.Len(t, s.sent, 1)
	require.Contains(t, s.sent[0].Text, "#7")
	require.Contains(t, s.sent[0].Text, "75 000")
	require.Contains(t, s.sent[0].Text, "Aziz")
}

func TestNotifyOrderStatusLocalized(t *testing.T) {
	s := &fakeSender{}
	n := &Notifier{Sender: s}

	order := &models.Order{ID: 3, UserID: 42, OrderStatus: models.OrderStatusDelivering}
	n.NotifyOrderStatus(context.Background(), order, models.LocaleRu)

	require.Len(t, s.sent, 1)
	require.Equal(t, int64(42), s.sent[0].ChatID)
	require.Contains(t, s.sent[0].Text, "в пути")
}

func TestBroadcastCountsAndSummary(t *testing.T) {
	s := &fakeSender{failFor: map[int64]bool{2: true}}
	n := &Notifier{Sender: s, AdminIDs: []int64{100}}

	success, failed := n.Broadcast(context.Background(), []int64{1, 2, 3}, "promo")
	require.Equal(t, 2, success)
	require.Equal(t, 1, failed)

	// Last send is the aggregate summary to the admin.
	last := s.sent[len(s.sent)-1]
	require.Equal(t, int64(100), last.ChatID)
	require.True(t, strings.Contains(last.Text, "2") && strings.Contains(last.Text, "1"))
}

func TestBroadcastStopsOnCancel(t *testing.T) {
	s := &fakeSender{}
	n := &Notifier{Sender: s, Delay: 10 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	success, failed := n.Broadcast(ctx, []int64{1, 2, 3}, "promo")
	require.Equal(t, 1, success)
	require.Zero(t, failed)
}
