package models

// Program is one degree programme as stored in the catalog.
type Program struct {
	ID                    int64      `json:"id"`
	UniversityID          int64      `json:"university_id"`
	CityID                int64      `json:"city_id"`
	DetailedFieldID       int64      `json:"detailed_field_id"`
	NameEN                string     `json:"name_en"`
	NameZH                string     `json:"name_zh"`
	DegreeType            string     `json:"degree_type"`
	UniversityType        string     `json:"university_type"`
	DurationMonths        int        `json:"duration_months,omitempty"`
	TeachingLanguages     StringList `json:"teaching_languages"`
	AdmissionRequirements RawJSON    `json:"admission_requirements,omitempty"`
	Description           string     `json:"description,omitempty"`
	OfficialURL           string     `json:"official_url,omitempty"`
}

// TuitionSummary is the part of a tuition record shown in list views.
type TuitionSummary struct {
	CurrencyCode     string   `json:"currency_code"`
	AnnualAmount     *float64 `json:"annual_amount,omitempty"`
	IsFree           bool     `json:"is_free"`
	HomeAnnualAmount *float64 `json:"home_annual_amount,omitempty"`
}

// ProgramListItem is a program joined with the names and rankings
// a result list needs.
type ProgramListItem struct {
	Program
	UniversityNameEN string          `json:"university_name_en"`
	UniversityNameZH string          `json:"university_name_zh"`
	CityNameEN       string          `json:"city_name_en"`
	CityNameZH       string          `json:"city_name_zh"`
	CountryID        int64           `json:"country_id"`
	CountryNameEN    string          `json:"country_name_en"`
	CountryNameZH    string          `json:"country_name_zh"`
	QSRanking        *int            `json:"qs_ranking,omitempty"`
	TimesRanking     *int            `json:"times_ranking,omitempty"`
	ARWURanking      *int            `json:"arwu_ranking,omitempty"`
	Tuition          *TuitionSummary `json:"tuition,omitempty"`
}

// ProgramDetail is a program with all of its child records.
type ProgramDetail struct {
	ProgramListItem
	TuitionFee    *TuitionFee          `json:"tuition_fee"`
	Scholarships  []Scholarship        `json:"scholarships"`
	Courses       []Course             `json:"courses"`
	Employment    *EmploymentOutcome   `json:"employment"`
	Opportunities []StudentOpportunity `json:"opportunities"`
}
