package catalog

import "encoding/json"

// Product is one physical unit inside a kit decomposition. Besides
// product_name, mapping entries may carry arbitrary attributes; those are
// preserved verbatim in Extra.
type Product struct {
	ProductName string
	Extra       map[string]json.RawMessage
}

// Entry is the decomposition of one sellable identifier.
type Entry struct {
	Products []Product `json:"products"`
}

// Mapping is the static lookup from a sellable product or kit identifier to
// the physical products it decomposes into. It is loaded once at process
// start and treated as read-only for the process lifetime.
type Mapping map[string]Entry

// ProductsFor returns the ordered decomposition for a sellable identifier.
// An absent key resolves to an empty decomposition, never an error.
func (m Mapping) ProductsFor(productID string) []Product {
	entry, ok := m[productID]
	if !ok {
		return []Product{}
	}
	if entry.Products == nil {
		return []Product{}
	}
	return entry.Products
}

// UnmarshalJSON decodes a product, routing unknown keys into Extra.
func (p *Product) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["product_name"]; ok {
		delete(raw, "product_name")
		if err := json.Unmarshal(v, &p.ProductName); err != nil {
			return err
		}
	}
	if len(raw) > 0 {
		p.Extra = raw
	} else {
		p.Extra = nil
	}
	return nil
}

// MarshalJSON encodes a product, folding Extra back in.
func (p Product) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(p.Extra)+1)
	for k, v := range p.Extra {
		out[k] = v
	}
	if p.ProductName != "" {
		name, err := json.Marshal(p.ProductName)
		if err != nil {
			return nil, err
		}
		out["product_name"] = name
	}
	return json.Marshal(out)
}
