package database

import (
	"context"
	"fmt"
)

var _ LookupRepository = (*LookupRepo)(nil)

// LookupRepo serves the category and industry reference tables
type LookupRepo struct {
	db *DB
}

func NewLookupRepository(db *DB) *LookupRepo {
	return &LookupRepo{db: db}
}

func (r *LookupRepo) GetCategories(ctx context.Context) ([]Lookup, error) {
	return r.getLookups(ctx, "categories")
}

func (r *LookupRepo) GetIndustries(ctx context.Context) ([]Lookup, error) {
	return r.getLookups(ctx, "industries")
}

func (r *LookupRepo) getLookups(ctx context.Context, table string) ([]Lookup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, slug, sort_order FROM `+table+` ORDER BY sort_order
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", table, err)
	}
	defer rows.Close()

	var lookups []Lookup
	for rows.Next() {
		var l Lookup
		if err := rows.Scan(&l.ID, &l.Name, &l.Slug, &l.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		lookups = append(lookups, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", table, err)
	}

	return lookups, nil
}
