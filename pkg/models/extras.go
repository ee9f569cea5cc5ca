package models

type TuitionFee struct {
	ID                int64    `db:"id" json:"id"`
	ProgramID         int64    `db:"program_id" json:"program_id"`
	CurrencyCode      string   `db:"currency_code" json:"currency_code"`
	AnnualFeeAmount   *float64 `db:"annual_amount" json:"annual_amount,omitempty"`
	SemesterFeeAmount *float64 `db:"semester_amount" json:"semester_amount,omitempty"`
	IsFree            bool     `db:"is_free" json:"is_free"`
	HomeExchangeRate  *float64 `db:"home_exchange_rate" json:"home_exchange_rate,omitempty"`
	HomeAnnualAmount  *float64 `db:"home_annual_amount" json:"home_annual_amount,omitempty"`
	Notes             *string  `db:"notes" json:"notes,omitempty"`
}

type Scholarship struct {
	ID                  int64   `db:"id" json:"id"`
	UniversityID        *int64  `db:"university_id" json:"university_id,omitempty"`
	ProgramID           *int64  `db:"program_id" json:"program_id,omitempty"`
	NameEN              string  `db:"name_en" json:"name_en"`
	NameZH              string  `db:"name_zh" json:"name_zh"`
	AwardAmount         *string `db:"award_amount" json:"award_amount,omitempty"`
	Eligibility         RawJSON `db:"eligibility" json:"eligibility,omitempty"`
	ApplicationDeadline *string `db:"application_deadline" json:"application_deadline,omitempty"`
	OfficialURL         *string `db:"official_url" json:"official_url,omitempty"`
}

type Course struct {
	ID             int64    `db:"id" json:"id"`
	ProgramID      int64    `db:"program_id" json:"program_id"`
	CourseCode     *string  `db:"course_code" json:"course_code,omitempty"`
	NameEN         string   `db:"name_en" json:"name_en"`
	NameZH         string   `db:"name_zh" json:"name_zh"`
	Credits        *float64 `db:"credits" json:"credits,omitempty"`
	IsCoreRequired bool     `db:"is_core_required" json:"is_core_required"`
	Semester       *int     `db:"semester" json:"semester,omitempty"`
	Description    *string  `db:"description" json:"description,omitempty"`
}

type EmploymentOutcome struct {
	ID             int64    `db:"id" json:"id"`
	ProgramID      int64    `db:"program_id" json:"program_id"`
	EmploymentRate *float64 `db:"employment_rate" json:"employment_rate,omitempty"`
	AverageSalary  *float64 `db:"average_salary" json:"average_salary,omitempty"`
	CurrencyCode   *string  `db:"currency_code" json:"currency_code,omitempty"`
	TopEmployers   RawJSON  `db:"top_employers" json:"top_employers,omitempty"`
	CareerPaths    RawJSON  `db:"career_paths" json:"career_paths,omitempty"`
	AlumniInfo     *string  `db:"alumni_info" json:"alumni_info,omitempty"`
}

// Opportunity types.
const (
	OpportunityOnCampusWork = "on_campus_work"
	OpportunityInternship   = "internship"
	OpportunityCoOp         = "co_op"
	OpportunityResearch     = "research"
)

type StudentOpportunity struct {
	ID              int64    `db:"id" json:"id"`
	UniversityID    *int64   `db:"university_id" json:"university_id,omitempty"`
	ProgramID       *int64   `db:"program_id" json:"program_id,omitempty"`
	OpportunityType string   `db:"opportunity_type" json:"opportunity_type"`
	Title           string   `db:"title" json:"title"`
	Description     *string  `db:"description" json:"description,omitempty"`
	HourlyRate      *float64 `db:"hourly_rate" json:"hourly_rate,omitempty"`
	CurrencyCode    *string  `db:"currency_code" json:"currency_code,omitempty"`
	Requirements    RawJSON  `db:"requirements" json:"requirements,omitempty"`
}
