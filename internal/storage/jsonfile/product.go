package jsonfile

import (
	"context"

	"go.uber.org/zap"

	"github.com/nmoroz/shopfile/internal/domain/product"
)

var _ product.Repository = (*ProductStore)(nil)

// ProductStore implements product.Repository over a single JSON
// document.
type ProductStore struct {
	col *Collection[product.Product]
	lg  *zap.Logger
}

// NewProductStore opens (and if needed creates) the product collection
// at path.
func NewProductStore(path string, lg *zap.Logger) (*ProductStore, error) {
	col, err := NewCollection[product.Product](path, lg)
	if err != nil {
		return nil, err
	}
	return &ProductStore{col: col, lg: lg}, nil
}

// Ping verifies the backing document is readable and well-formed.
func (s *ProductStore) Ping(ctx context.Context) error {
	_, err := s.col.Snapshot(ctx)
	return err
}

// List returns the catalog, truncated to the first limit entries when
// limit is positive. A limit past the end returns everything available.
func (s *ProductStore) List(ctx context.Context, limit int) ([]product.Product, error) {
	records, err := s.col.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records, nil
}

// GetByID returns a single product, or product.ErrNotFound.
func (s *ProductStore) GetByID(ctx context.Context, id int) (*product.Product, error) {
	records, err := s.col.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
	}
	return nil, product.ErrNotFound
}

// Create inserts a new product with a fresh id. Status is always true
// for newly created products; duplicate titles are not merged here.
func (s *ProductStore) Create(ctx context.Context, draft product.Draft) (*product.Product, error) {
	var created product.Product
	err := s.col.Update(ctx, func(records []product.Product) ([]product.Product, error) {
		created = newProduct(NextID(records), draft)
		created.Status = true
		return append(records, created), nil
	})
	if err != nil {
		return nil, err
	}

	s.lg.Debug("product created", zap.Int("id", created.ID), zap.String("title", created.Title))
	return &created, nil
}

// Upsert adds the draft as a new product, or restocks an existing one.
// Matching is by exact title, first match wins. On a match only the
// stock is incremented; every other supplied field is discarded.
func (s *ProductStore) Upsert(ctx context.Context, draft product.Draft) (*product.Product, error) {
	var result product.Product
	err := s.col.Update(ctx, func(records []product.Product) ([]product.Product, error) {
		for i := range records {
			if records[i].Title == draft.Title {
				records[i].Stock += draft.Stock
				result = records[i]
				return records, nil
			}
		}
		result = newProduct(NextID(records), draft)
		return append(records, result), nil
	})
	if err != nil {
		return nil, err
	}

	s.lg.Debug("product upserted", zap.Int("id", result.ID), zap.String("title", result.Title))
	return &result, nil
}

// Update applies the patch to the product with the given id. The id
// itself is not patchable.
func (s *ProductStore) Update(ctx context.Context, id int, patch product.Patch) (*product.Product, error) {
	var updated product.Product
	err := s.col.Update(ctx, func(records []product.Product) ([]product.Product, error) {
		for i := range records {
			if records[i].ID == id {
				patch.Apply(&records[i])
				updated = records[i]
				return records, nil
			}
		}
		return nil, product.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the product with the given id, reporting whether a
// record was actually removed. Deleting an absent id leaves the
// collection untouched.
func (s *ProductStore) Delete(ctx context.Context, id int) (bool, error) {
	deleted := false
	err := s.col.Update(ctx, func(records []product.Product) ([]product.Product, error) {
		for i := range records {
			if records[i].ID == id {
				deleted = true
				return append(records[:i], records[i+1:]...), nil
			}
		}
		// Nothing matched; persisting the unchanged sequence is a no-op.
		return records, nil
	})
	if err != nil {
		return false, err
	}

	if deleted {
		s.lg.Debug("product deleted", zap.Int("id", id))
	}
	return deleted, nil
}

func newProduct(id int, draft product.Draft) product.Product {
	thumbnails := draft.Thumbnails
	if thumbnails == nil {
		thumbnails = []string{}
	}
	return product.Product{
		ID:          id,
		Title:       draft.Title,
		Description: draft.Description,
		Code:        draft.Code,
		Price:       draft.Price,
		Status:      draft.Status,
		Stock:       draft.Stock,
		Category:    draft.Category,
		Thumbnails:  thumbnails,
	}
}
