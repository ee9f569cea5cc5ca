// Package universities serves university lists and profiles.
package universities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/errgroup"

	"unihub/pkg/models"
)

const universityColumns = `id, country_id, city_id, name_en, name_zh, type, qs_ranking, times_ranking,
	arwu_ranking, official_website, description, campuses, student_services, facilities`

type Repo struct {
	DB *sqlx.DB
}

func NewRepo(db *sqlx.DB) *Repo {
	return &Repo{DB: db}
}

// ByCountry lists a country's universities, best QS rank first, unranked last.
func (r *Repo) ByCountry(ctx context.Context, countryID int64) ([]models.University, error) {
	out := []models.University{}
	if err := r.DB.SelectContext(ctx, &out, r.DB.Rebind(`
		SELECT `+universityColumns+`
		FROM universities
		WHERE country_id = ?
		ORDER BY (qs_ranking IS NULL) ASC, qs_ranking ASC, id ASC`), countryID); err != nil {
		return nil, fmt.Errorf("universities by country: %w", err)
	}
	return out, nil
}

// ByID returns the university with its accommodation, scholarship and
// opportunity records, or (nil, nil) when it does not exist.
func (r *Repo) ByID(ctx context.Context, id int64) (*models.UniversityProfile, error) {
	var u models.University
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT `+universityColumns+` FROM universities WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("university %d: %w", id, err)
	}

	p := &models.UniversityProfile{
		University:     u,
		Accommodations: []models.AccommodationFee{},
		Scholarships:   []models.Scholarship{},
		Opportunities:  []models.StudentOpportunity{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.DB.SelectContext(gctx, &p.Accommodations, r.DB.Rebind(`
			SELECT id, university_id, accommodation_type, monthly_fee_min, monthly_fee_max,
			       currency_code, rmb_monthly_min, rmb_monthly_max, notes
			FROM accommodation_fees WHERE university_id = ? ORDER BY id`), id)
	})
	g.Go(func() error {
		return r.DB.SelectContext(gctx, &p.Scholarships, r.DB.Rebind(`
			SELECT id, university_id, program_id, name_en, name_zh, award_amount,
			       eligibility, application_deadline, official_url
			FROM scholarships WHERE university_id = ? AND program_id IS NULL ORDER BY id`), id)
	})
	g.Go(func() error {
		return r.DB.SelectContext(gctx, &p.Opportunities, r.DB.Rebind(`
			SELECT id, university_id, program_id, opportunity_type, title, description,
			       hourly_rate, currency_code, requirements
			FROM student_opportunities WHERE university_id = ? AND program_id IS NULL ORDER BY id`), id)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("university %d profile: %w", id, err)
	}
	return p, nil
}
