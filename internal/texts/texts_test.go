package texts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arzonmarket/arzon-bot/internal/models"
)

func TestGetLocales(t *testing.T) {
	uz := Get("cart_empty", models.LocaleUz)
	ru := Get("cart_empty", models.LocaleRu)
	require.NotEmpty(t, uz)
	require.NotEmpty(t, ru)
	require.NotEqual(t, uz, ru)
}

func TestGetFallsBackToUzbek(t *testing.T) {
	require.Equal(t, Get("cart_empty", models.LocaleUz), Get("cart_empty", "de"))
}

func TestGetUnknownKeyVerbatim(t *testing.T) {
	require.Equal(t, "no_such_key", Get("no_such_key", models.LocaleRu))
}

func TestStatusKeysCovered(t *testing.T) {
	statuses := []string{
		models.OrderStatusNew, models.OrderStatusConfirmed, models.OrderStatusPreparing,
		models.OrderStatusReady, models.OrderStatusDelivering, models.OrderStatusCompleted,
		models.OrderStatusCancelled,
	}
	for _, s := range statuses {
		key := "status_" + s
		require.NotEqual(t, key, Get(key, models.LocaleUz), "missing text for %s", key)
	}
}

func TestPlaceholdersMatchAcrossLocales(t *testing.T) {
	for key, e := range table {
		if e.Ru == "" {
			continue
		}
		require.Equal(t,
			strings.Count(e.Uz, "%"), strings.Count(e.Ru, "%"),
			"placeholder mismatch in %q", key)
	}
}

func TestFormatPrice(t *testing.T) {
	require.Equal(t, "0", FormatPrice(0))
	require.Equal(t, "999", FormatPrice(999))
	require.Equal(t, "25 000", FormatPrice(25000))
	require.Equal(t, "1 234 567", FormatPrice(1234567))
	require.Equal(t, "-5 000", FormatPrice(-5000))
}
