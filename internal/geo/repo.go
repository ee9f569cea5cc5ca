// Package geo serves countries and their cities.
package geo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"unihub/pkg/cache"
	"unihub/pkg/models"
)

const countryColumns = `id, code, name_en, name_zh, is_eu, is_schengen, visa_info, residency_info,
	green_card_info, cost_of_living, tourist_info, official_links`

type Repo struct {
	DB    *sqlx.DB
	Cache *cache.Cache
}

func NewRepo(db *sqlx.DB, c *cache.Cache) *Repo {
	return &Repo{DB: db, Cache: c}
}

func (r *Repo) Countries(ctx context.Context) ([]models.Country, error) {
	return cache.Remember(ctx, r.Cache, "geo:countries", func(ctx context.Context) ([]models.Country, error) {
		out := []models.Country{}
		if err := r.DB.SelectContext(ctx, &out, `SELECT `+countryColumns+` FROM countries ORDER BY name_en`); err != nil {
			return nil, fmt.Errorf("countries: %w", err)
		}
		return out, nil
	})
}

// Country returns (nil, nil) when no country has the id.
func (r *Repo) Country(ctx context.Context, id int64) (*models.Country, error) {
	var c models.Country
	err := r.DB.GetContext(ctx, &c, r.DB.Rebind(`SELECT `+countryColumns+` FROM countries WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("country %d: %w", id, err)
	}
	return &c, nil
}

func (r *Repo) Cities(ctx context.Context, countryID int64) ([]models.City, error) {
	key := "geo:cities:" + strconv.FormatInt(countryID, 10)
	return cache.Remember(ctx, r.Cache, key, func(ctx context.Context) ([]models.City, error) {
		out := []models.City{}
		if err := r.DB.SelectContext(ctx, &out, r.DB.Rebind(`
			SELECT id, country_id, name_en, name_zh, latitude, longitude
			FROM cities
			WHERE country_id = ?
			ORDER BY name_en`), countryID); err != nil {
			return nil, fmt.Errorf("cities: %w", err)
		}
		return out, nil
	})
}
