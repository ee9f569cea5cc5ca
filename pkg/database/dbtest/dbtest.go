// Package dbtest opens migrated SQLite catalogs for tests and seeds them.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"unihub/pkg/database"
)

// Open returns a migrated catalog backed by a temp file. A file is used
// instead of :memory: so every pooled connection sees the same data.
func Open(t testing.TB) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := database.Open(database.Config{Driver: database.DriverSQLite, Path: path})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

type Fixture struct {
	t  testing.TB
	DB *sqlx.DB
}

func NewFixture(t testing.TB) *Fixture {
	t.Helper()
	return &Fixture{t: t, DB: Open(t)}
}

func (f *Fixture) insert(query string, args ...any) int64 {
	f.t.Helper()
	res, err := f.DB.Exec(query, args...)
	require.NoError(f.t, err)
	id, err := res.LastInsertId()
	require.NoError(f.t, err)
	return id
}

func (f *Fixture) Country(code, nameEN string) int64 {
	f.t.Helper()
	return f.insert(`INSERT INTO countries (code, name_en, name_zh, is_eu, is_schengen) VALUES (?, ?, ?, 1, 1)`,
		code, nameEN, nameEN+"-zh")
}

func (f *Fixture) City(countryID int64, nameEN string) int64 {
	f.t.Helper()
	return f.insert(`INSERT INTO cities (country_id, name_en, name_zh) VALUES (?, ?, ?)`,
		countryID, nameEN, nameEN+"-zh")
}

type UniversitySeed struct {
	CountryID int64
	CityID    int64
	NameEN    string
	Type      string
	QS        *int
	Times     *int
	ARWU      *int
}

func (f *Fixture) University(u UniversitySeed) int64 {
	f.t.Helper()
	if u.Type == "" {
		u.Type = "public"
	}
	return f.insert(`
		INSERT INTO universities (country_id, city_id, name_en, name_zh, type, qs_ranking, times_ranking, arwu_ranking)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.CountryID, u.CityID, u.NameEN, u.NameEN+"-zh", u.Type, u.QS, u.Times, u.ARWU)
}

// FieldTree inserts one broad, narrow and detailed field chained together.
func (f *Fixture) FieldTree(broadCode, narrowCode, detailedCode string) (broad, narrow, detailed int64) {
	f.t.Helper()
	broad = f.insert(`INSERT INTO isced_broad_fields (code, name_en, name_zh) VALUES (?, ?, ?)`,
		broadCode, "Broad "+broadCode, "")
	narrow = f.insert(`INSERT INTO isced_narrow_fields (broad_field_id, code, name_en, name_zh) VALUES (?, ?, ?, ?)`,
		broad, narrowCode, "Narrow "+narrowCode, "")
	detailed = f.insert(`INSERT INTO isced_detailed_fields (narrow_field_id, code, name_en, name_zh) VALUES (?, ?, ?, ?)`,
		narrow, detailedCode, "Detailed "+detailedCode, "")
	return broad, narrow, detailed
}

// DetailedField adds another detailed field under an existing narrow field.
func (f *Fixture) DetailedField(narrowID int64, code string) int64 {
	f.t.Helper()
	return f.insert(`INSERT INTO isced_detailed_fields (narrow_field_id, code, name_en, name_zh) VALUES (?, ?, ?, ?)`,
		narrowID, code, "Detailed "+code, "")
}

type ProgramSeed struct {
	UniversityID    int64
	CityID          int64
	DetailedFieldID int64
	NameEN          string
	NameZH          string
	DegreeType      string
	UniversityType  string
	SearchText      string
}

func (f *Fixture) Program(p ProgramSeed) int64 {
	f.t.Helper()
	if p.DegreeType == "" {
		p.DegreeType = "master"
	}
	if p.UniversityType == "" {
		p.UniversityType = "public"
	}
	id := f.insert(`
		INSERT INTO programs (university_id, city_id, detailed_field_id, name_en, name_zh, degree_type, university_type, duration_months, teaching_languages)
		VALUES (?, ?, ?, ?, ?, ?, ?, 24, '["en"]')`,
		p.UniversityID, p.CityID, p.DetailedFieldID, p.NameEN, p.NameZH, p.DegreeType, p.UniversityType)
	if p.SearchText != "" {
		f.insert(`INSERT INTO search_index (program_id, search_text) VALUES (?, ?)`, id, p.SearchText)
	}
	return id
}

func (f *Fixture) Tuition(programID int64, currency string, annual float64, homeAnnual *float64) int64 {
	f.t.Helper()
	return f.insert(`
		INSERT INTO tuition_fees (program_id, currency_code, annual_amount, is_free, home_annual_amount)
		VALUES (?, ?, ?, ?, ?)`,
		programID, currency, annual, annual == 0, homeAnnual)
}

// Exec runs arbitrary seed SQL and returns the last insert id.
func (f *Fixture) Exec(query string, args ...any) int64 {
	f.t.Helper()
	return f.insert(query, args...)
}

func Int(v int) *int { return &v }

func Float(v float64) *float64 { return &v }
