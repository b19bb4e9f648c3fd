package jsonfile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nmoroz/shopfile/internal/domain/product"
)

func newTestProductStore(t *testing.T) *ProductStore {
	t.Helper()
	store, err := NewProductStore(filepath.Join(t.TempDir(), "products.json"), zap.NewNop())
	require.NoError(t, err)
	return store
}

func draft(title string, price int64, stock int) product.Draft {
	return product.Draft{
		Title:       title,
		Description: "desc " + title,
		Code:        "code-" + title,
		Price:       decimal.NewFromInt(price),
		Status:      true,
		Stock:       stock,
		Category:    "test",
	}
}

func TestCreate_SequentialIDs(t *testing.T) {
	store := newTestProductStore(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		p, err := store.Create(ctx, draft("p", 10, 1))
		require.NoError(t, err)
		assert.Equal(t, i, p.ID)
	}
}

func TestCreate_AlwaysInserts(t *testing.T) {
	store := newTestProductStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, draft("same title", 10, 1))
	require.NoError(t, err)
	second, err := store.Create(ctx, draft("same title", 10, 1))
	require.NoError(t, err)

	// Duplicate titles are not merged on plain creation.
	assert.NotEqual(t, first.ID, second.ID)

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreate_ForcesStatusAndThumbnails(t *testing.T) {
	store := newTestProductStore(t)

	d := draft("p", 10, 1)
	d.Status = false
	d.Thumbnails = nil

	p, err := store.Create(context.Background(), d)
	require.NoError(t, err)
	assert.True(t, p.Status, "created products are always active")
	require.NotNil(t, p.Thumbnails)
	assert.Empty(t, p.Thumbnails)
}

func TestUpsert_RestocksExistingTitle(t *testing.T) {
	store := newTestProductStore(t)
	ctx := context.Background()

	original, err := store.Create(ctx, draft("Widget", 10, 5))
	require.NoError(t, err)

	// A matching title only bumps the stock; the rest of the call is
	// discarded.
	d := product.Draft{
		Title:       "Widget",
		Description: "completely different",
		Code:        "other-code",
		Price:       decimal.NewFromInt(999),
		Status:      false,
		Stock:       4,
		Category:    "other",
		Thumbnails:  []string{"x"},
	}
	merged, err := store.Upsert(ctx, d)
	require.NoError(t, err)

	assert.Equal(t, original.ID, merged.ID)
	assert.Equal(t, 9, merged.Stock)
	assert.Equal(t, original.Description, merged.Description)
	assert.Equal(t, original.Code, merged.Code)
	assert.True(t, original.Price.Equal(merged.Price))
	assert.Equal(t, original.Status, merged.Status)
	assert.Equal(t, original.Category, merged.Category)
	assert.Equal(t, original.Thumbnails, merged.Thumbnails)

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpsert_NewTitleInserts(t *testing.T) {
	store := newTestProductStore(t)
	ctx := context.Background()

	d := draft("Gadget", 20, 3)
	d.Status = false
	d.Thumbnails = nil

	p, err := store.Upsert(ctx, d)
	require.NoError(t, err)

	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "Gadget", p.Title)
	// Unlike plain creation, upsert keeps the supplied status.
	assert.False(t, p.Status)
	require.NotNil(t, p.Thumbnails)
	assert.Empty(t, p.Thumbnails)
}

func TestUpdate_PartialPatch(t *testing.T) {
	store := newTestProductStore(t)
	ctx := context.Background()

	created, err := store.Create(ctx, draft("p", 10, 5))
	require.NoError(t, err)

	newTitle := "renamed"
	newStock := 42
	updated, err := store.Update(ctx, created.ID, product.Patch{
		Title: &newTitle,
		Stock: &newStock,
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, 42, updated.Stock)
	// Unnamed fields stay as they were.
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Code, updated.Code)
	assert.True(t, created.Price.Equal(updated.Price))
	assert.Equal(t, created.Category, updated.Category)

	reread, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, reread)
}

func TestUpdate_NotFound(t *testing.T) {
	store := newTestProductStore(t)

	title := "x"
	_, err := store.Update(context.Background(), 99, product.Patch{Title: &title})
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestGetByID_NotFound(t *testing.T) {
	store := newTestProductStore(t)

	_, err := store.GetByID(context.Background(), 1)
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestList_Limit(t *testing.T) {
	store := newTestProductStore(t)
	ctx := context.Background()

	for range 4 {
		_, err := store.Create(ctx, draft("p", 10, 1))
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero means all", limit: 0, want: 4},
		{name: "negative means all", limit: -1, want: 4},
		{name: "truncates", limit: 2, want: 2},
		{name: "beyond length returns all", limit: 10, want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(ctx, tt.limit)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestDelete(t *testing.T) {
	store := newTestProductStore(t)
	ctx := context.Background()

	p, err := store.Create(ctx, draft("p", 10, 1))
	require.NoError(t, err)

	deleted, err := store.Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = store.GetByID(ctx, p.ID)
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestDelete_AbsentLeavesCollectionUnchanged(t *testing.T) {
	store := newTestProductStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, draft("p", 10, 1))
	require.NoError(t, err)
	before, err := store.List(ctx, 0)
	require.NoError(t, err)

	deleted, err := store.Delete(ctx, 99)
	require.NoError(t, err)
	assert.False(t, deleted)

	after, err := store.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestDelete_IDsNotReused(t *testing.T) {
	store := newTestProductStore(t)
	ctx := context.Background()

	first, err := store.Create(ctx, draft("a", 10, 1))
	require.NoError(t, err)
	second, err := store.Create(ctx, draft("b", 10, 1))
	require.NoError(t, err)

	// Removing a non-maximal id must not free it up.
	_, err = store.Delete(ctx, first.ID)
	require.NoError(t, err)

	third, err := store.Create(ctx, draft("c", 10, 1))
	require.NoError(t, err)
	assert.Equal(t, second.ID+1, third.ID)
}

func TestProductStore_Scenario(t *testing.T) {
	store := newTestProductStore(t)
	ctx := context.Background()

	widget, err := store.Create(ctx, draft("Widget", 10, 5))
	require.NoError(t, err)
	assert.Equal(t, 1, widget.ID)

	gadget, err := store.Create(ctx, draft("Gadget", 20, 3))
	require.NoError(t, err)
	assert.Equal(t, 2, gadget.ID)

	restocked, err := store.Upsert(ctx, draft("Widget", 10, 4))
	require.NoError(t, err)
	assert.Equal(t, 1, restocked.ID)
	assert.Equal(t, 9, restocked.Stock)

	deleted, err := store.Delete(ctx, 2)
	require.NoError(t, err)
	assert.True(t, deleted)

	all, err := store.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Widget", all[0].Title)
	assert.Equal(t, 9, all[0].Stock)
	assert.Equal(t, 1, all[0].ID)
}

func TestProductStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "products.json")
	ctx := context.Background()

	store, err := NewProductStore(path, zap.NewNop())
	require.NoError(t, err)
	created, err := store.Create(ctx, draft("p", 10, 5))
	require.NoError(t, err)

	reopened, err := NewProductStore(path, zap.NewNop())
	require.NoError(t, err)
	got, err := reopened.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}
