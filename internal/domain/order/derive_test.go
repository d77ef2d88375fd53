package order

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wms/backend/internal/domain/shared"
)

func priceOf(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNextOrderID(t *testing.T) {
	tests := []struct {
		name   string
		orders []Order
		want   string
	}{
		{
			name:   "empty collection starts at 1",
			orders: nil,
			want:   "1",
		},
		{
			name:   "successor of the maximum, not the count",
			orders: []Order{{OrderID: "1"}, {OrderID: "7"}, {OrderID: "3"}},
			want:   "8",
		},
		{
			name:   "non-numeric ids are ignored",
			orders: []Order{{OrderID: "abc"}, {OrderID: "4"}},
			want:   "5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextOrderID(tt.orders))
		})
	}
}

func TestMaxLineItemNumber(t *testing.T) {
	orders := []Order{
		{OrderID: "1", LineItems: []LineItem{{LineItemID: "LI-5"}}},
		{OrderID: "2", LineItems: []LineItem{{LineItemID: "LI-3"}, {LineItemID: "custom"}}},
	}
	assert.Equal(t, 5, MaxLineItemNumber(orders))

	assert.Equal(t, 0, MaxLineItemNumber(nil))
	assert.Equal(t, 0, MaxLineItemNumber([]Order{
		{LineItems: []LineItem{{LineItemID: "not-conforming"}}},
	}))
}

func TestDerive_AssignsIDAndDate(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	created, err := Derive(nil, Order{LineItems: []LineItem{}}, now)
	require.NoError(t, err)

	assert.Equal(t, "1", created.OrderID)
	assert.Equal(t, "2026-03-14T09:26:53Z", created.OrderDate)
	assert.True(t, created.OrderTotal.IsZero())
}

func TestDerive_LineItemNumberingIsGlobal(t *testing.T) {
	existing := []Order{
		{OrderID: "1", LineItems: []LineItem{{LineItemID: "LI-5"}}},
		{OrderID: "2", LineItems: []LineItem{{LineItemID: "LI-3"}}},
	}
	payload := Order{LineItems: []LineItem{
		{ProductID: "WIDGET-SINGLE"},
		{ProductID: "CABLE-PACK"},
	}}

	created, err := Derive(existing, payload, time.Now())
	require.NoError(t, err)
	require.Len(t, created.LineItems, 2)
	assert.Equal(t, "LI-6", created.LineItems[0].LineItemID)
	assert.Equal(t, "LI-7", created.LineItems[1].LineItemID)
}

func TestDerive_SuppliedLineItemIDsAreKept(t *testing.T) {
	existing := []Order{
		{OrderID: "1", LineItems: []LineItem{{LineItemID: "LI-2"}}},
	}
	payload := Order{LineItems: []LineItem{
		{LineItemID: "custom-id"},
		{ProductID: "WIDGET-SINGLE"},
	}}

	created, err := Derive(existing, payload, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "custom-id", created.LineItems[0].LineItemID)
	assert.Equal(t, "LI-3", created.LineItems[1].LineItemID)
}

func TestDerive_TotalSumsPricesTreatingMissingAsZero(t *testing.T) {
	payload := Order{LineItems: []LineItem{
		{Price: priceOf("12.50")},
		{ProductID: "no-price"},
		{Price: priceOf("3.25")},
	}}

	created, err := Derive(nil, payload, time.Now())
	require.NoError(t, err)
	assert.True(t, created.OrderTotal.Equal(decimal.RequireFromString("15.75")),
		"got total %s", created.OrderTotal)
}

func TestDerive_MissingLineItemsIsMalformedInput(t *testing.T) {
	_, err := Derive(nil, Order{CustomerName: "Ada"}, time.Now())
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestDerive_DoesNotMutatePayload(t *testing.T) {
	payload := Order{LineItems: []LineItem{{ProductID: "WIDGET-SINGLE"}}}

	_, err := Derive(nil, payload, time.Now())
	require.NoError(t, err)
	assert.Empty(t, payload.LineItems[0].LineItemID)
}

func TestMerge_ShallowOverwrite(t *testing.T) {
	existing := Order{
		OrderID:       "4",
		OrderDate:     "2026-01-01T00:00:00Z",
		OrderTotal:    decimal.RequireFromString("10"),
		CustomerEmail: "old@example.com",
		LineItems:     []LineItem{{LineItemID: "LI-1"}},
	}

	email := "new@example.com"
	merged := Merge(existing, Patch{CustomerEmail: &email})

	assert.Equal(t, "new@example.com", merged.CustomerEmail)
	// Untouched fields survive, including the whole line item sequence
	assert.Equal(t, existing.LineItems, merged.LineItems)
	assert.Equal(t, existing.OrderDate, merged.OrderDate)
	assert.True(t, merged.OrderTotal.Equal(existing.OrderTotal))
}

func TestMerge_LineItemsReplaceWholesale(t *testing.T) {
	existing := Order{
		OrderID:   "4",
		LineItems: []LineItem{{LineItemID: "LI-1"}, {LineItemID: "LI-2"}},
	}
	replacement := []LineItem{{LineItemID: "LI-9"}}

	merged := Merge(existing, Patch{LineItems: &replacement})
	require.Len(t, merged.LineItems, 1)
	assert.Equal(t, "LI-9", merged.LineItems[0].LineItemID)
}

func TestMerge_ExtrasMergePerKey(t *testing.T) {
	existing := Order{
		OrderID: "4",
		Extra: map[string]json.RawMessage{
			"gift_wrap": json.RawMessage(`true`),
			"notes":     json.RawMessage(`"fragile"`),
		},
	}
	merged := Merge(existing, Patch{
		Extra: map[string]json.RawMessage{"notes": json.RawMessage(`"rush"`)},
	})

	assert.Equal(t, json.RawMessage(`true`), merged.Extra["gift_wrap"])
	assert.Equal(t, json.RawMessage(`"rush"`), merged.Extra["notes"])
	// The source order's extras must not be mutated
	assert.Equal(t, json.RawMessage(`"fragile"`), existing.Extra["notes"])
}
