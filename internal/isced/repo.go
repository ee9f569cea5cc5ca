// Package isced serves the three-tier ISCED-F field classification used
// by the cascading field selector.
package isced

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"unihub/pkg/cache"
	"unihub/pkg/models"
)

type Repo struct {
	DB    *sqlx.DB
	Cache *cache.Cache
}

// NewRepo builds a repo; c may be nil to disable caching.
func NewRepo(db *sqlx.DB, c *cache.Cache) *Repo {
	return &Repo{DB: db, Cache: c}
}

func (r *Repo) BroadFields(ctx context.Context) ([]models.BroadField, error) {
	return cache.Remember(ctx, r.Cache, "isced:broad", func(ctx context.Context) ([]models.BroadField, error) {
		out := []models.BroadField{}
		if err := r.DB.SelectContext(ctx, &out, `
			SELECT id, code, name_en, name_zh, description
			FROM isced_broad_fields
			ORDER BY code`); err != nil {
			return nil, fmt.Errorf("broad fields: %w", err)
		}
		return out, nil
	})
}

func (r *Repo) NarrowFields(ctx context.Context, broadID int64) ([]models.NarrowField, error) {
	key := "isced:narrow:" + strconv.FormatInt(broadID, 10)
	return cache.Remember(ctx, r.Cache, key, func(ctx context.Context) ([]models.NarrowField, error) {
		out := []models.NarrowField{}
		if err := r.DB.SelectContext(ctx, &out, r.DB.Rebind(`
			SELECT id, broad_field_id, code, name_en, name_zh, description
			FROM isced_narrow_fields
			WHERE broad_field_id = ?
			ORDER BY code`), broadID); err != nil {
			return nil, fmt.Errorf("narrow fields: %w", err)
		}
		return out, nil
	})
}

func (r *Repo) DetailedFields(ctx context.Context, narrowID int64) ([]models.DetailedField, error) {
	key := "isced:detailed:" + strconv.FormatInt(narrowID, 10)
	return cache.Remember(ctx, r.Cache, key, func(ctx context.Context) ([]models.DetailedField, error) {
		out := []models.DetailedField{}
		if err := r.DB.SelectContext(ctx, &out, r.DB.Rebind(`
			SELECT id, narrow_field_id, code, name_en, name_zh, description
			FROM isced_detailed_fields
			WHERE narrow_field_id = ?
			ORDER BY code`), narrowID); err != nil {
			return nil, fmt.Errorf("detailed fields: %w", err)
		}
		return out, nil
	})
}
