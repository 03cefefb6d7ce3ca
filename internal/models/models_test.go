package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusNew, OrderStatusConfirmed, true},
		{OrderStatusNew, OrderStatusCompleted, true},
		{OrderStatusConfirmed, OrderStatusNew, false},
		{OrderStatusPreparing, OrderStatusPreparing, false},
		{OrderStatusDelivering, OrderStatusReady, false},
		{OrderStatusNew, OrderStatusCancelled, true},
		{OrderStatusDelivering, OrderStatusCancelled, true},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusNew, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		{"bogus", OrderStatusConfirmed, false},
		{OrderStatusNew, "bogus", false},
	}
	for _, c := range cases {
		require.Equal(t, c.want, CanTransition(c.from, c.to), "%s -> %s", c.from, c.to)
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{
		OrderStatusNew, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusReady, OrderStatusDelivering, OrderStatusCompleted, OrderStatusCancelled,
	} {
		require.True(t, ValidOrderStatus(s), s)
	}
	require.False(t, ValidOrderStatus("shipped"))
}

func TestValidPaymentMethod(t *testing.T) {
	for _, m := range []string{PaymentCash, PaymentPayme, PaymentClick, PaymentUzcard} {
		require.True(t, ValidPaymentMethod(m), m)
	}
	require.False(t, ValidPaymentMethod("visa"))
}

func TestLocalizedNames(t *testing.T) {
	p := Product{NameUz: "Non", NameRu: "Лепёшка", DescriptionUz: "issiq"}
	require.Equal(t, "Non", p.Name(LocaleUz))
	require.Equal(t, "Лепёшка", p.Name(LocaleRu))

	// Missing Russian falls back to Uzbek.
	require.Equal(t, "issiq", p.Description(LocaleRu))

	c := Category{NameUz: "Ichimliklar"}
	require.Equal(t, "Ichimliklar", c.Name(LocaleRu))
}
