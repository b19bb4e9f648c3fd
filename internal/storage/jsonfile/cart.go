package jsonfile

import (
	"context"

	"go.uber.org/zap"

	"github.com/nmoroz/shopfile/internal/domain/cart"
)

var _ cart.Repository = (*CartStore)(nil)

// CartStore implements cart.Repository over a single JSON document.
type CartStore struct {
	col *Collection[cart.Cart]
	lg  *zap.Logger
}

// NewCartStore opens (and if needed creates) the cart collection at
// path.
func NewCartStore(path string, lg *zap.Logger) (*CartStore, error) {
	col, err := NewCollection[cart.Cart](path, lg)
	if err != nil {
		return nil, err
	}
	return &CartStore{col: col, lg: lg}, nil
}

// Ping verifies the backing document is readable and well-formed.
func (s *CartStore) Ping(ctx context.Context) error {
	_, err := s.col.Snapshot(ctx)
	return err
}

// Create inserts a new cart with a fresh id and no line items.
func (s *CartStore) Create(ctx context.Context) (*cart.Cart, error) {
	var created cart.Cart
	err := s.col.Update(ctx, func(records []cart.Cart) ([]cart.Cart, error) {
		created = cart.Cart{
			ID:       NextID(records),
			Products: []cart.LineItem{},
		}
		return append(records, created), nil
	})
	if err != nil {
		return nil, err
	}

	s.lg.Debug("cart created", zap.Int("id", created.ID))
	return &created, nil
}

// GetByID returns a single cart, or cart.ErrNotFound.
func (s *CartStore) GetByID(ctx context.Context, id int) (*cart.Cart, error) {
	records, err := s.col.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, cart.ErrNotFound
}

// AddProduct adds one unit of productID to the cart: an existing line
// item for that product has its quantity incremented, otherwise a new
// line item with quantity 1 is appended. The product id is not checked
// against the catalog.
func (s *CartStore) AddProduct(ctx context.Context, cartID, productID int) (*cart.Cart, error) {
	var updated cart.Cart
	err := s.col.Update(ctx, func(records []cart.Cart) ([]cart.Cart, error) {
		for i := range records {
			if records[i].ID != cartID {
				continue
			}

			found := false
			for j := range records[i].Products {
				if records[i].Products[j].Product == productID {
					records[i].Products[j].Quantity++
					found = true
					break
				}
			}
			if !found {
				records[i].Products = append(records[i].Products, cart.LineItem{
					Product:  productID,
					Quantity: 1,
				})
			}

			updated = records[i]
			return records, nil
		}
		return nil, cart.ErrNotFound
	})
	if err != nil {
		return nil, err
	}

	s.lg.Debug("product added to cart",
		zap.Int("cart_id", cartID),
		zap.Int("product_id", productID),
	)
	return &updated, nil
}
