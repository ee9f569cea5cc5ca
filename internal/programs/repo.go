package programs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"unihub/pkg/database"
	"unihub/pkg/models"
)

// Repo is the SQL implementation of Store and DetailStore.
type Repo struct {
	DB *sqlx.DB
}

func NewRepo(db *sqlx.DB) *Repo {
	return &Repo{DB: db}
}

const listColumns = `
	p.id, p.university_id, p.city_id, p.detailed_field_id, p.name_en, p.name_zh,
	p.degree_type, p.university_type, p.duration_months, p.teaching_languages,
	p.admission_requirements, p.description, p.official_url,
	u.name_en, u.name_zh, u.qs_ranking, u.times_ranking, u.arwu_ranking,
	ci.name_en, ci.name_zh, co.id, co.name_en, co.name_zh,
	t.currency_code, t.annual_amount, t.is_free, t.home_annual_amount`

const listFrom = `
	FROM programs p
	JOIN universities u ON u.id = p.university_id
	JOIN cities ci ON ci.id = p.city_id
	JOIN countries co ON co.id = ci.country_id
	LEFT JOIN tuition_fees t ON t.program_id = p.id
	LEFT JOIN search_index si ON si.program_id = p.id`

// searchColumns are matched case-insensitively against the search text.
var searchColumns = []string{
	"p.name_en", "p.name_zh",
	"u.name_en", "u.name_zh",
	"ci.name_en", "ci.name_zh",
	"COALESCE(si.search_text, '')",
}

var sortColumns = map[SortKey]string{
	SortRankingQS:    "u.qs_ranking",
	SortRankingTimes: "u.times_ranking",
	SortRankingARWU:  "u.arwu_ranking",
	SortTuition:      "t.home_annual_amount",
}

const likeEscape = "!"

func escapeLike(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return r.Replace(s)
}

// whereClause renders p as a WHERE clause with "?" placeholders. Slice
// arguments are expanded later by sqlx.In. Empty families are skipped,
// which also keeps sqlx.In from seeing an empty slice. driver picks the
// lowercase function so columns fold the same way Normalize folds the
// search text.
func whereClause(p Predicate, driver string) (string, []any) {
	var where []string
	var args []any

	if len(p.DetailedFieldIDs) > 0 {
		where = append(where, "p.detailed_field_id IN (?)")
		args = append(args, p.DetailedFieldIDs)
	}
	if len(p.CityIDs) > 0 {
		where = append(where, "p.city_id IN (?)")
		args = append(args, p.CityIDs)
	}
	if len(p.UniversityIDs) > 0 {
		where = append(where, "p.university_id IN (?)")
		args = append(args, p.UniversityIDs)
	}
	if len(p.DegreeTypes) > 0 {
		vals := make([]string, len(p.DegreeTypes))
		for i, d := range p.DegreeTypes {
			vals[i] = string(d)
		}
		where = append(where, "p.degree_type IN (?)")
		args = append(args, vals)
	}
	if len(p.UniversityTypes) > 0 {
		vals := make([]string, len(p.UniversityTypes))
		for i, u := range p.UniversityTypes {
			vals[i] = string(u)
		}
		where = append(where, "p.university_type IN (?)")
		args = append(args, vals)
	}
	if p.Search != "" {
		kw := "%" + escapeLike(p.Search) + "%"
		var or []string
		for _, col := range searchColumns {
			or = append(or, database.FoldExpr(driver, col)+" LIKE ? ESCAPE '"+likeEscape+"'")
			args = append(args, kw)
		}
		where = append(where, "("+strings.Join(or, " OR ")+")")
	}

	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// orderClause puts NULL sort keys last in both directions and breaks
// ties by program id.
func orderClause(o Order) string {
	col, ok := sortColumns[o.Key]
	if !ok {
		return " ORDER BY p.id ASC"
	}
	dir := "ASC"
	if o.Desc {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY (%s IS NULL) ASC, %s %s, p.id ASC", col, col, dir)
}

// buildListSQL builds either the COUNT(*) or the page query over the same
// FROM and WHERE.
func (r *Repo) buildListSQL(p Predicate, o Order, limit, offset int, countOnly bool) (string, []any, error) {
	where, args := whereClause(p, r.DB.DriverName())

	var sqlStr string
	if countOnly {
		sqlStr = "SELECT COUNT(*)" + listFrom + where
	} else {
		sqlStr = "SELECT" + listColumns + listFrom + where + orderClause(o) + " LIMIT ? OFFSET ?"
		args = append(args, limit, offset)
	}

	sqlStr, args, err := sqlx.In(sqlStr, args...)
	if err != nil {
		return "", nil, fmt.Errorf("expand in: %w", err)
	}
	return r.DB.Rebind(sqlStr), args, nil
}

func (r *Repo) CountPrograms(ctx context.Context, p Predicate) (int, error) {
	sqlStr, args, err := r.buildListSQL(p, Order{}, 0, 0, true)
	if err != nil {
		return 0, err
	}
	var total int
	if err := r.DB.QueryRowxContext(ctx, sqlStr, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) QueryPrograms(ctx context.Context, p Predicate, o Order, limit, offset int) ([]models.ProgramListItem, error) {
	sqlStr, args, err := r.buildListSQL(p, o, limit, offset, false)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.ProgramListItem, 0, limit)
	for rows.Next() {
		item, err := scanListItem(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) GetProgram(ctx context.Context, id int64) (*models.ProgramListItem, error) {
	row := r.DB.QueryRowContext(ctx, r.DB.Rebind("SELECT"+listColumns+listFrom+" WHERE p.id = ?"), id)
	item, err := scanListItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getProgram: %w", err)
	}
	return &item, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListItem(row rowScanner) (models.ProgramListItem, error) {
	var (
		m           models.ProgramListItem
		duration    sql.NullInt64
		description sql.NullString
		officialURL sql.NullString
		qs          sql.NullInt64
		times       sql.NullInt64
		arwu        sql.NullInt64
		currency    sql.NullString
		annual      sql.NullFloat64
		isFree      sql.NullBool
		homeAnnual  sql.NullFloat64
	)

	if err := row.Scan(
		&m.ID, &m.UniversityID, &m.CityID, &m.DetailedFieldID, &m.NameEN, &m.NameZH,
		&m.DegreeType, &m.UniversityType, &duration, &m.TeachingLanguages,
		&m.AdmissionRequirements, &description, &officialURL,
		&m.UniversityNameEN, &m.UniversityNameZH, &qs, &times, &arwu,
		&m.CityNameEN, &m.CityNameZH, &m.CountryID, &m.CountryNameEN, &m.CountryNameZH,
		&currency, &annual, &isFree, &homeAnnual,
	); err != nil {
		return m, err
	}

	if duration.Valid {
		m.DurationMonths = int(duration.Int64)
	}
	m.Description = description.String
	m.OfficialURL = officialURL.String
	m.QSRanking = nullIntPtr(qs)
	m.TimesRanking = nullIntPtr(times)
	m.ARWURanking = nullIntPtr(arwu)

	if currency.Valid {
		m.Tuition = &models.TuitionSummary{
			CurrencyCode:     currency.String,
			AnnualAmount:     nullFloatPtr(annual),
			IsFree:           isFree.Bool,
			HomeAnnualAmount: nullFloatPtr(homeAnnual),
		}
	}
	if m.TeachingLanguages == nil {
		m.TeachingLanguages = models.StringList{}
	}
	return m, nil
}

func nullIntPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullFloatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func (r *Repo) TuitionFee(ctx context.Context, programID int64) (*models.TuitionFee, error) {
	var t models.TuitionFee
	err := r.DB.GetContext(ctx, &t, r.DB.Rebind(`
		SELECT id, program_id, currency_code, annual_amount, semester_amount, is_free,
		       home_exchange_rate, home_annual_amount, notes
		FROM tuition_fees WHERE program_id = ?`), programID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("tuition fee: %w", err)
	}
	return &t, nil
}

func (r *Repo) Scholarships(ctx context.Context, programID int64) ([]models.Scholarship, error) {
	out := []models.Scholarship{}
	err := r.DB.SelectContext(ctx, &out, r.DB.Rebind(`
		SELECT s.id, s.university_id, s.program_id, s.name_en, s.name_zh, s.award_amount,
		       s.eligibility, s.application_deadline, s.official_url
		FROM scholarships s
		JOIN programs p ON p.id = ?
		WHERE s.program_id = p.id OR (s.program_id IS NULL AND s.university_id = p.university_id)
		ORDER BY s.id`), programID)
	if err != nil {
		return nil, fmt.Errorf("scholarships: %w", err)
	}
	return out, nil
}

func (r *Repo) Courses(ctx context.Context, programID int64) ([]models.Course, error) {
	out := []models.Course{}
	err := r.DB.SelectContext(ctx, &out, r.DB.Rebind(`
		SELECT id, program_id, course_code, name_en, name_zh, credits, is_core_required, semester, description
		FROM courses WHERE program_id = ?
		ORDER BY (semester IS NULL) ASC, semester ASC, id ASC`), programID)
	if err != nil {
		return nil, fmt.Errorf("courses: %w", err)
	}
	return out, nil
}

func (r *Repo) Employment(ctx context.Context, programID int64) (*models.EmploymentOutcome, error) {
	var e models.EmploymentOutcome
	err := r.DB.GetContext(ctx, &e, r.DB.Rebind(`
		SELECT id, program_id, employment_rate, average_salary, currency_code,
		       top_employers, career_paths, alumni_info
		FROM employment_outcomes WHERE program_id = ?`), programID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("employment: %w", err)
	}
	return &e, nil
}

func (r *Repo) Opportunities(ctx context.Context, programID int64) ([]models.StudentOpportunity, error) {
	out := []models.StudentOpportunity{}
	err := r.DB.SelectContext(ctx, &out, r.DB.Rebind(`
		SELECT o.id, o.university_id, o.program_id, o.opportunity_type, o.title, o.description,
		       o.hourly_rate, o.currency_code, o.requirements
		FROM student_opportunities o
		JOIN programs p ON p.id = ?
		WHERE o.program_id = p.id OR (o.program_id IS NULL AND o.university_id = p.university_id)
		ORDER BY o.id`), programID)
	if err != nil {
		return nil, fmt.Errorf("opportunities: %w", err)
	}
	return out, nil
}
