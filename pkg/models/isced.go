package models

// ISCED-F 2013 taxonomy: broad -> narrow -> detailed.

type BroadField struct {
	ID          int64   `db:"id" json:"id"`
	Code        string  `db:"code" json:"code"`
	NameEN      string  `db:"name_en" json:"name_en"`
	NameZH      string  `db:"name_zh" json:"name_zh"`
	Description *string `db:"description" json:"description,omitempty"`
}

type NarrowField struct {
	ID           int64   `db:"id" json:"id"`
	BroadFieldID int64   `db:"broad_field_id" json:"broad_field_id"`
	Code         string  `db:"code" json:"code"`
	NameEN       string  `db:"name_en" json:"name_en"`
	NameZH       string  `db:"name_zh" json:"name_zh"`
	Description  *string `db:"description" json:"description,omitempty"`
}

type DetailedField struct {
	ID            int64   `db:"id" json:"id"`
	NarrowFieldID int64   `db:"narrow_field_id" json:"narrow_field_id"`
	Code          string  `db:"code" json:"code"`
	NameEN        string  `db:"name_en" json:"name_en"`
	NameZH        string  `db:"name_zh" json:"name_zh"`
	Description   *string `db:"description" json:"description,omitempty"`
}
