package models

type Country struct {
	ID            int64   `db:"id" json:"id"`
	Code          string  `db:"code" json:"code"` // ISO 3166-1 alpha-2
	NameEN        string  `db:"name_en" json:"name_en"`
	NameZH        string  `db:"name_zh" json:"name_zh"`
	IsEU          bool    `db:"is_eu" json:"is_eu"`
	IsSchengen    bool    `db:"is_schengen" json:"is_schengen"`
	VisaInfo      RawJSON `db:"visa_info" json:"visa_info,omitempty"`
	ResidencyInfo RawJSON `db:"residency_info" json:"residency_info,omitempty"`
	GreenCardInfo RawJSON `db:"green_card_info" json:"green_card_info,omitempty"`
	CostOfLiving  RawJSON `db:"cost_of_living" json:"cost_of_living,omitempty"`
	TouristInfo   RawJSON `db:"tourist_info" json:"tourist_info,omitempty"`
	OfficialLinks RawJSON `db:"official_links" json:"official_links,omitempty"`
}

type City struct {
	ID        int64    `db:"id" json:"id"`
	CountryID int64    `db:"country_id" json:"country_id"`
	NameEN    string   `db:"name_en" json:"name_en"`
	NameZH    string   `db:"name_zh" json:"name_zh"`
	Latitude  *float64 `db:"latitude" json:"latitude,omitempty"`
	Longitude *float64 `db:"longitude" json:"longitude,omitempty"`
}
