package models

type University struct {
	ID              int64   `db:"id" json:"id"`
	CountryID       int64   `db:"country_id" json:"country_id"`
	CityID          int64   `db:"city_id" json:"city_id"`
	NameEN          string  `db:"name_en" json:"name_en"`
	NameZH          string  `db:"name_zh" json:"name_zh"`
	Type            string  `db:"type" json:"type"` // public | private
	QSRanking       *int    `db:"qs_ranking" json:"qs_ranking,omitempty"`
	TimesRanking    *int    `db:"times_ranking" json:"times_ranking,omitempty"`
	ARWURanking     *int    `db:"arwu_ranking" json:"arwu_ranking,omitempty"`
	OfficialWebsite *string `db:"official_website" json:"official_website,omitempty"`
	Description     *string `db:"description" json:"description,omitempty"`
	Campuses        RawJSON `db:"campuses" json:"campuses,omitempty"`
	StudentServices RawJSON `db:"student_services" json:"student_services,omitempty"`
	Facilities      RawJSON `db:"facilities" json:"facilities,omitempty"`
}

type AccommodationFee struct {
	ID                int64    `db:"id" json:"id"`
	UniversityID      int64    `db:"university_id" json:"university_id"`
	AccommodationType string   `db:"accommodation_type" json:"accommodation_type"`
	MonthlyFeeMin     *float64 `db:"monthly_fee_min" json:"monthly_fee_min,omitempty"`
	MonthlyFeeMax     *float64 `db:"monthly_fee_max" json:"monthly_fee_max,omitempty"`
	CurrencyCode      string   `db:"currency_code" json:"currency_code"`
	RMBMonthlyMin     *float64 `db:"rmb_monthly_min" json:"rmb_monthly_min,omitempty"`
	RMBMonthlyMax     *float64 `db:"rmb_monthly_max" json:"rmb_monthly_max,omitempty"`
	Notes             *string  `db:"notes" json:"notes,omitempty"`
}

// UniversityProfile is a university with its accommodation, scholarship
// and student-opportunity records.
type UniversityProfile struct {
	University
	Accommodations []AccommodationFee   `json:"accommodations"`
	Scholarships   []Scholarship        `json:"scholarships"`
	Opportunities  []StudentOpportunity `json:"opportunities"`
}
