package report

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/order"
)

// PickingItem is one row of the picking list: how many units of a physical
// product are needed to fulfil every order currently in the store.
type PickingItem struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

// PackedLineItem is a line item augmented with its kit decomposition. All
// original fields are preserved; only products is added.
type PackedLineItem struct {
	order.LineItem
	Products []catalog.Product
}

// PackedOrder is an order whose line items carry their decompositions.
type PackedOrder struct {
	order.Order
	LineItems []PackedLineItem
}

// Service derives the operational warehouse views from the order collection
// and the static product mapping.
type Service struct {
	repo    order.Repository
	mapping catalog.Mapping
	logger  *zap.Logger
}

// NewService creates a new report Service.
func NewService(repo order.Repository, mapping catalog.Mapping, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		mapping: mapping,
		logger:  logger,
	}
}

// PickingList tallies physical products across every line item of every
// order: each occurrence in a decomposition counts as one unit. Line items
// without a mapping entry contribute nothing. Rows appear in order of first
// occurrence; the list is for display and carries no sort contract.
func (s *Service) PickingList(ctx context.Context) ([]PickingItem, error) {
	orders, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	names := make([]string, 0)
	for _, o := range orders {
		for _, li := range o.LineItems {
			for _, p := range s.mapping.ProductsFor(li.ProductID) {
				if _, seen := counts[p.ProductName]; !seen {
					names = append(names, p.ProductName)
				}
				counts[p.ProductName]++
			}
		}
	}

	list := make([]PickingItem, len(names))
	for i, name := range names {
		list[i] = PickingItem{ProductName: name, Quantity: counts[name]}
	}
	s.logger.Debug("Picking list computed",
		zap.Int("orders", len(orders)),
		zap.Int("products", len(list)),
	)
	return list, nil
}

// PackingView returns every order with each line item expanded into the
// physical products backing it. Unmapped line items get an empty products
// sequence rather than an error; order and line item sequences are preserved.
func (s *Service) PackingView(ctx context.Context) ([]PackedOrder, error) {
	orders, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	packed := make([]PackedOrder, len(orders))
	for i, o := range orders {
		items := make([]PackedLineItem, len(o.LineItems))
		for j, li := range o.LineItems {
			items[j] = PackedLineItem{
				LineItem: li,
				Products: s.mapping.ProductsFor(li.ProductID),
			}
		}
		packed[i] = PackedOrder{Order: o, LineItems: items}
	}
	s.logger.Debug("Packing view computed", zap.Int("orders", len(packed)))
	return packed, nil
}

// MarshalJSON folds the products field into the line item's own JSON object.
func (pli PackedLineItem) MarshalJSON() ([]byte, error) {
	base, err := pli.LineItem.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(base, &out); err != nil {
		return nil, err
	}
	products, err := json.Marshal(pli.Products)
	if err != nil {
		return nil, err
	}
	out["products"] = products
	return json.Marshal(out)
}

// MarshalJSON replaces the order's line_items with the packed ones.
func (po PackedOrder) MarshalJSON() ([]byte, error) {
	base, err := po.Order.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(base, &out); err != nil {
		return nil, err
	}
	items, err := json.Marshal(po.LineItems)
	if err != nil {
		return nil, err
	}
	out["line_items"] = items
	return json.Marshal(out)
}
