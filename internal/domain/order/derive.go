package order

import (
	"encoding/json"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// lineItemIDPattern matches store-assigned line item identifiers. Ids that do
// not conform contribute nothing to the global counter and are left as-is.
var lineItemIDPattern = regexp.MustCompile(`^LI-(\d+)$`)

// NextOrderID returns the decimal-string successor of the highest numeric
// order id in the collection, or "1" when the collection is empty. Ids are
// never reused: the successor is computed from the maximum, not the count.
func NextOrderID(orders []Order) string {
	max := 0
	for _, o := range orders {
		n, err := strconv.Atoi(o.OrderID)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return strconv.Itoa(max + 1)
}

// MaxLineItemNumber scans every line item of every order and returns the
// highest LI-<n> suffix found, or 0 when none conform. The counter is global
// across the whole store, not per order.
func MaxLineItemNumber(orders []Order) int {
	max := 0
	for _, o := range orders {
		for _, li := range o.LineItems {
			m := lineItemIDPattern.FindStringSubmatch(li.LineItemID)
			if m == nil {
				continue
			}
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if n > max {
				max = n
			}
		}
	}
	return max
}

// Derive computes a fully-populated order from a candidate payload and the
// existing collection. It is pure: persistence is the caller's concern.
//
// The payload must carry a line_items field (an empty sequence is fine); its
// absence is a caller-contract violation. Every other field is optional.
func Derive(existing []Order, payload Order, now time.Time) (Order, error) {
	if payload.LineItems == nil {
		return Order{}, shared.NewDomainError("INVALID_INPUT", "order payload must contain line_items")
	}

	derived := payload
	derived.OrderID = NextOrderID(existing)
	derived.OrderDate = now.UTC().Format(time.RFC3339)

	total := decimal.Zero
	for _, li := range payload.LineItems {
		if li.Price != nil {
			total = total.Add(*li.Price)
		}
	}
	derived.OrderTotal = total

	counter := MaxLineItemNumber(existing)
	items := make([]LineItem, len(payload.LineItems))
	for i, li := range payload.LineItems {
		if li.LineItemID == "" {
			counter++
			li.LineItemID = "LI-" + strconv.Itoa(counter)
		}
		items[i] = li
	}
	derived.LineItems = items

	return derived, nil
}

// Merge applies a partial payload onto an existing order, field by field.
// A supplied line_items replaces the entire sequence; nothing is recomputed.
func Merge(existing Order, patch Patch) Order {
	merged := existing
	if patch.OrderDate != nil {
		merged.OrderDate = *patch.OrderDate
	}
	if patch.OrderTotal != nil {
		merged.OrderTotal = *patch.OrderTotal
	}
	if patch.ShippingAddress != nil {
		merged.ShippingAddress = *patch.ShippingAddress
	}
	if patch.CustomerName != nil {
		merged.CustomerName = *patch.CustomerName
	}
	if patch.CustomerEmail != nil {
		merged.CustomerEmail = *patch.CustomerEmail
	}
	if patch.LineItems != nil {
		merged.LineItems = *patch.LineItems
	}
	if len(patch.Extra) > 0 {
		extra := make(map[string]json.RawMessage, len(existing.Extra)+len(patch.Extra))
		for k, v := range existing.Extra {
			extra[k] = v
		}
		for k, v := range patch.Extra {
			extra[k] = v
		}
		merged.Extra = extra
	}
	return merged
}
