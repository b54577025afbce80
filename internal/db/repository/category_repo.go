package repository

import (
	"context"

	"github.com/gokatarajesh/trivia-api/internal/db/queries"
)

type categoryStore interface {
	ListCategories(ctx context.Context) ([]queries.Category, error)
	GetCategory(ctx context.Context, id int64) (queries.Category, error)
}

// CategoryRepository exposes the read-only category table.
type CategoryRepository struct {
	store categoryStore
}

func NewCategoryRepository(store categoryStore) *CategoryRepository {
	return &CategoryRepository{store: store}
}

// List returns all categories ordered by id.
func (r *CategoryRepository) List(ctx context.Context) ([]queries.Category, error) {
	return r.store.ListCategories(ctx)
}

// Get returns queries.ErrNoRows when id is unknown.
func (r *CategoryRepository) Get(ctx context.Context, id int64) (queries.Category, error) {
	return r.store.GetCategory(ctx, id)
}
