package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// RawJSON holds a JSON document stored as TEXT. It is passed through to
// API responses untouched. Text that is not valid JSON is emitted as a
// JSON string so a bad row never breaks a response.
type RawJSON []byte

func (r *RawJSON) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*r = nil
	case []byte:
		*r = append((*r)[:0], v...)
	case string:
		*r = RawJSON(v)
	default:
		return fmt.Errorf("raw json: unsupported type %T", src)
	}
	return nil
}

func (r RawJSON) Value() (driver.Value, error) {
	if len(r) == 0 {
		return nil, nil
	}
	return string(r), nil
}

func (r RawJSON) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	if !json.Valid(r) {
		return json.Marshal(string(r))
	}
	return r, nil
}

func (r *RawJSON) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*r = nil
		return nil
	}
	*r = append((*r)[:0], b...)
	return nil
}

// StringList is a JSON array of strings stored as TEXT.
type StringList []string

func (s *StringList) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("string list: unsupported type %T", src)
	}
	var out []string
	_ = json.Unmarshal(b, &out)
	*s = out
	return nil
}

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
