package cart

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested cart does not exist.
var ErrNotFound = errors.New("cart not found")

// Cart groups product references for a single shopper.
type Cart struct {
	ID       int        `json:"id"`
	Products []LineItem `json:"products"`
}

// Key returns the collection id of the cart.
func (c Cart) Key() int { return c.ID }

// LineItem is a (product id, quantity) pair. A cart holds at most one
// line item per distinct product id; repeated additions bump the
// quantity instead of appending a duplicate.
//
// The product id is a bare reference and is never validated against the
// catalog.
type LineItem struct {
	Product  int `json:"product"`
	Quantity int `json:"quantity"`
}

// Repository defines persistence operations for carts.
type Repository interface {
	// Create inserts a new cart with a fresh id and no line items.
	Create(ctx context.Context) (*Cart, error)
	GetByID(ctx context.Context, id int) (*Cart, error)
	// AddProduct increments the quantity of an existing line item for
	// productID, or appends a new one with quantity 1.
	AddProduct(ctx context.Context, cartID, productID int) (*Cart, error)
}
