package product

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices are persisted and served as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// ErrImmutableID is returned when an update payload attempts to change
// the product id.
var ErrImmutableID = errors.New("id cannot be updated")

// MissingFieldError indicates a required creation field was not supplied.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// Product is a catalog item. The id is assigned by the store and never
// changes afterwards.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Code        string          `json:"code"`
	Price       decimal.Decimal `json:"price"`
	Status      bool            `json:"status"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Thumbnails  []string        `json:"thumbnails"`
}

// Key returns the collection id of the product.
func (p Product) Key() int { return p.ID }

// Draft holds the caller-supplied fields for creating a product. The id
// and, for plain creation, the status are assigned by the store.
type Draft struct {
	Title       string
	Description string
	Code        string
	Price       decimal.Decimal
	Status      bool
	Stock       int
	Category    string
	Thumbnails  []string
}

// Validate reports the first missing required field, if any. Thumbnails
// are optional and default to an empty list.
func (d Draft) Validate() error {
	switch {
	case d.Title == "":
		return &MissingFieldError{Field: "title"}
	case d.Description == "":
		return &MissingFieldError{Field: "description"}
	case d.Code == "":
		return &MissingFieldError{Field: "code"}
	case d.Category == "":
		return &MissingFieldError{Field: "category"}
	}
	return nil
}

// Patch lists the fields an update may change. The id is deliberately
// not a member, so it is unpatchable by construction. Nil pointers mean
// "leave the field as is".
type Patch struct {
	Title       *string
	Description *string
	Code        *string
	Price       *decimal.Decimal
	Status      *bool
	Stock       *int
	Category    *string
	Thumbnails  *[]string
}

// Apply overlays the set fields of the patch onto p.
func (pt Patch) Apply(p *Product) {
	if pt.Title != nil {
		p.Title = *pt.Title
	}
	if pt.Description != nil {
		p.Description = *pt.Description
	}
	if pt.Code != nil {
		p.Code = *pt.Code
	}
	if pt.Price != nil {
		p.Price = *pt.Price
	}
	if pt.Status != nil {
		p.Status = *pt.Status
	}
	if pt.Stock != nil {
		p.Stock = *pt.Stock
	}
	if pt.Category != nil {
		p.Category = *pt.Category
	}
	if pt.Thumbnails != nil {
		p.Thumbnails = *pt.Thumbnails
	}
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	// List returns the catalog, truncated to the first limit entries
	// when limit is positive.
	List(ctx context.Context, limit int) ([]Product, error)
	GetByID(ctx context.Context, id int) (*Product, error)
	// Create always inserts a new product with a fresh id and
	// Status forced to true, regardless of duplicate titles.
	Create(ctx context.Context, draft Draft) (*Product, error)
	// Upsert restocks the first product whose title matches exactly,
	// discarding every other supplied field; when no title matches it
	// inserts a new product carrying the draft's status.
	Upsert(ctx context.Context, draft Draft) (*Product, error)
	Update(ctx context.Context, id int, patch Patch) (*Product, error)
	// Delete reports whether a product was actually removed.
	Delete(ctx context.Context, id int) (bool, error)
}
