package queries

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// ListCategories returns every category ordered by id.
func (q *Queries) ListCategories(ctx context.Context) ([]Category, error) {
	query, args, err := q.sb.Select("id", "type").From("categories").OrderBy("id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list categories: %w", err)
	}
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Category, error) {
		var c Category
		err := row.Scan(&c.ID, &c.Type)
		return c, err
	})
}

// GetCategory fetches a single category by id.
func (q *Queries) GetCategory(ctx context.Context, id int64) (Category, error) {
	query, args, err := q.sb.Select("id", "type").From("categories").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return Category{}, fmt.Errorf("build get category: %w", err)
	}
	var c Category
	if err := q.db.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Type); err != nil {
		return Category{}, normalize(err)
	}
	return c, nil
}
