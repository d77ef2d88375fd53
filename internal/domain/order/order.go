package order

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Known JSON keys for Order and LineItem. Anything else a caller supplies is
// kept verbatim in the Extra map so records round-trip losslessly.
const (
	keyOrderID         = "order_id"
	keyOrderDate       = "order_date"
	keyOrderTotal      = "order_total"
	keyShippingAddress = "shipping_address"
	keyCustomerName    = "customer_name"
	keyCustomerEmail   = "customer_email"
	keyLineItems       = "line_items"
	keyLineItemID      = "line_item_id"
	keyProductID       = "product_id"
	keyPrice           = "price"
)

// Order is a customer purchase record.
//
// LineItems distinguishes between an absent line_items field (nil) and an
// explicitly empty one: the derivation engine rejects the former.
type Order struct {
	OrderID         string
	OrderDate       string
	OrderTotal      decimal.Decimal
	ShippingAddress string
	CustomerName    string
	CustomerEmail   string
	LineItems       []LineItem
	Extra           map[string]json.RawMessage
}

// LineItem is one purchased entry within an order. Price is a pointer so a
// caller that omitted the field is not rewritten with an explicit zero.
type LineItem struct {
	LineItemID string
	ProductID  string
	Price      *decimal.Decimal
	Extra      map[string]json.RawMessage
}

// Patch is a partial order payload for shallow-merge updates. Nil fields were
// not supplied by the caller and leave the existing value untouched. A
// supplied line_items replaces the whole sequence. order_id in the payload is
// ignored; identifiers are never rewritten through an update.
type Patch struct {
	OrderDate       *string
	OrderTotal      *decimal.Decimal
	ShippingAddress *string
	CustomerName    *string
	CustomerEmail   *string
	LineItems       *[]LineItem
	Extra           map[string]json.RawMessage
}

// UnmarshalJSON decodes an order, routing unknown keys into Extra.
func (o *Order) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if err := popString(raw, keyOrderID, &o.OrderID); err != nil {
		return err
	}
	if err := popString(raw, keyOrderDate, &o.OrderDate); err != nil {
		return err
	}
	if v, ok := raw[keyOrderTotal]; ok {
		delete(raw, keyOrderTotal)
		if err := json.Unmarshal(v, &o.OrderTotal); err != nil {
			return err
		}
	}
	if err := popString(raw, keyShippingAddress, &o.ShippingAddress); err != nil {
		return err
	}
	if err := popString(raw, keyCustomerName, &o.CustomerName); err != nil {
		return err
	}
	if err := popString(raw, keyCustomerEmail, &o.CustomerEmail); err != nil {
		return err
	}
	if v, ok := raw[keyLineItems]; ok {
		delete(raw, keyLineItems)
		var items []LineItem
		if err := json.Unmarshal(v, &items); err != nil {
			return err
		}
		if items == nil {
			items = []LineItem{}
		}
		o.LineItems = items
	} else {
		o.LineItems = nil
	}

	if len(raw) > 0 {
		o.Extra = raw
	} else {
		o.Extra = nil
	}
	return nil
}

// MarshalJSON encodes an order, folding Extra back in. Empty known string
// fields are omitted so fields the caller never supplied do not appear.
func (o Order) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(o.Extra)+7)
	for k, v := range o.Extra {
		out[k] = v
	}
	if err := putString(out, keyOrderID, o.OrderID); err != nil {
		return nil, err
	}
	if err := putString(out, keyOrderDate, o.OrderDate); err != nil {
		return nil, err
	}
	out[keyOrderTotal] = json.RawMessage(o.OrderTotal.String())
	if err := putString(out, keyShippingAddress, o.ShippingAddress); err != nil {
		return nil, err
	}
	if err := putString(out, keyCustomerName, o.CustomerName); err != nil {
		return nil, err
	}
	if err := putString(out, keyCustomerEmail, o.CustomerEmail); err != nil {
		return nil, err
	}
	if o.LineItems != nil {
		items, err := json.Marshal(o.LineItems)
		if err != nil {
			return nil, err
		}
		out[keyLineItems] = items
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a line item, routing unknown keys into Extra.
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if err := popString(raw, keyLineItemID, &li.LineItemID); err != nil {
		return err
	}
	if err := popString(raw, keyProductID, &li.ProductID); err != nil {
		return err
	}
	if v, ok := raw[keyPrice]; ok {
		delete(raw, keyPrice)
		var price decimal.Decimal
		if err := json.Unmarshal(v, &price); err != nil {
			return err
		}
		li.Price = &price
	} else {
		li.Price = nil
	}

	if len(raw) > 0 {
		li.Extra = raw
	} else {
		li.Extra = nil
	}
	return nil
}

// MarshalJSON encodes a line item, folding Extra back in.
func (li LineItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(li.Extra)+3)
	for k, v := range li.Extra {
		out[k] = v
	}
	if err := putString(out, keyLineItemID, li.LineItemID); err != nil {
		return nil, err
	}
	if err := putString(out, keyProductID, li.ProductID); err != nil {
		return nil, err
	}
	if li.Price != nil {
		out[keyPrice] = json.RawMessage(li.Price.String())
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a partial order payload, recording which known
// fields were present and routing unknown keys into Extra.
func (p *Patch) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	// Identifiers are assigned by the store and never merged from a payload.
	delete(raw, keyOrderID)

	if v, ok := raw[keyOrderDate]; ok {
		delete(raw, keyOrderDate)
		p.OrderDate = new(string)
		if err := json.Unmarshal(v, p.OrderDate); err != nil {
			return err
		}
	}
	if v, ok := raw[keyOrderTotal]; ok {
		delete(raw, keyOrderTotal)
		p.OrderTotal = new(decimal.Decimal)
		if err := json.Unmarshal(v, p.OrderTotal); err != nil {
			return err
		}
	}
	if v, ok := raw[keyShippingAddress]; ok {
		delete(raw, keyShippingAddress)
		p.ShippingAddress = new(string)
		if err := json.Unmarshal(v, p.ShippingAddress); err != nil {
			return err
		}
	}
	if v, ok := raw[keyCustomerName]; ok {
		delete(raw, keyCustomerName)
		p.CustomerName = new(string)
		if err := json.Unmarshal(v, p.CustomerName); err != nil {
			return err
		}
	}
	if v, ok := raw[keyCustomerEmail]; ok {
		delete(raw, keyCustomerEmail)
		p.CustomerEmail = new(string)
		if err := json.Unmarshal(v, p.CustomerEmail); err != nil {
			return err
		}
	}
	if v, ok := raw[keyLineItems]; ok {
		delete(raw, keyLineItems)
		var items []LineItem
		if err := json.Unmarshal(v, &items); err != nil {
			return err
		}
		if items == nil {
			items = []LineItem{}
		}
		p.LineItems = &items
	}

	if len(raw) > 0 {
		p.Extra = raw
	} else {
		p.Extra = nil
	}
	return nil
}

func popString(raw map[string]json.RawMessage, key string, dst *string) error {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	delete(raw, key)
	return json.Unmarshal(v, dst)
}

func putString(out map[string]json.RawMessage, key, value string) error {
	if value == "" {
		return nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	out[key] = encoded
	return nil
}
