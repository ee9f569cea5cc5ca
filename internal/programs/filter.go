package programs

import (
	"slices"
	"strings"
)

const (
	DefaultLimit = 20
	MaxLimit     = 500
)

type DegreeType string

const (
	DegreeBachelor   DegreeType = "bachelor"
	DegreeMaster     DegreeType = "master"
	DegreePhD        DegreeType = "phd"
	DegreeFoundation DegreeType = "foundation"
	DegreeDiploma    DegreeType = "diploma"
)

var degreeTypes = []DegreeType{DegreeBachelor, DegreeMaster, DegreePhD, DegreeFoundation, DegreeDiploma}

type UniversityType string

const (
	UniversityPublic  UniversityType = "public"
	UniversityPrivate UniversityType = "private"
)

var universityTypes = []UniversityType{UniversityPublic, UniversityPrivate}

type SortKey string

const (
	SortNone         SortKey = ""
	SortRankingQS    SortKey = "rankingQS"
	SortRankingTimes SortKey = "rankingTimes"
	SortRankingARWU  SortKey = "rankingARWU"
	SortTuition      SortKey = "tuitionAmount"
)

var sortKeys = []SortKey{SortRankingQS, SortRankingTimes, SortRankingARWU, SortTuition}

// Filter is a raw filter request as it arrives from a transport.
// Nil Limit and Offset take their defaults.
type Filter struct {
	DetailedFieldIDs []int64  `json:"detailedFieldIds,omitempty"`
	CityIDs          []int64  `json:"cityIds,omitempty"`
	UniversityIDs    []int64  `json:"universityIds,omitempty"`
	DegreeTypes      []string `json:"degreeTypes,omitempty"`
	UniversityTypes  []string `json:"universityTypes,omitempty"`
	Query            string   `json:"query,omitempty"`
	SortBy           string   `json:"sortBy,omitempty"`
	SortOrder        string   `json:"sortOrder,omitempty"`
	Limit            *int     `json:"limit,omitempty"`
	Offset           *int     `json:"offset,omitempty"`
}

// Predicate is a validated conjunction of filter families. Each non-empty
// family is an OR over its members; empty families do not constrain.
type Predicate struct {
	DetailedFieldIDs []int64
	CityIDs          []int64
	UniversityIDs    []int64
	DegreeTypes      []DegreeType
	UniversityTypes  []UniversityType
	// Search is trimmed and lower-cased.
	Search string
}

// Order is a sort key plus direction. The zero Order sorts by program id.
type Order struct {
	Key  SortKey
	Desc bool
}

// Query is a Filter after validation and defaulting.
type Query struct {
	Predicate Predicate
	Order     Order
	Limit     int
	Offset    int
}

// Normalize validates f. Every error wraps ErrInvalidArgument; values are
// never clamped into range.
func (f Filter) Normalize() (Query, error) {
	q := Query{Limit: DefaultLimit}

	if f.Limit != nil {
		if *f.Limit <= 0 {
			return Query{}, invalidf("limit must be positive, got %d", *f.Limit)
		}
		if *f.Limit > MaxLimit {
			return Query{}, invalidf("limit must be at most %d, got %d", MaxLimit, *f.Limit)
		}
		q.Limit = *f.Limit
	}
	if f.Offset != nil {
		if *f.Offset < 0 {
			return Query{}, invalidf("offset must not be negative, got %d", *f.Offset)
		}
		q.Offset = *f.Offset
	}

	p := Predicate{
		DetailedFieldIDs: normalizeIDs(f.DetailedFieldIDs),
		CityIDs:          normalizeIDs(f.CityIDs),
		UniversityIDs:    normalizeIDs(f.UniversityIDs),
		Search:           strings.ToLower(strings.TrimSpace(f.Query)),
	}

	var err error
	if p.DegreeTypes, err = parseEnumSet("degreeTypes", f.DegreeTypes, degreeTypes); err != nil {
		return Query{}, err
	}
	if p.UniversityTypes, err = parseEnumSet("universityTypes", f.UniversityTypes, universityTypes); err != nil {
		return Query{}, err
	}
	q.Predicate = p

	if s := strings.TrimSpace(f.SortBy); s != "" {
		key, ok := matchFold(s, sortKeys)
		if !ok {
			return Query{}, invalidf("unknown sortBy %q", f.SortBy)
		}
		q.Order.Key = key
	}
	switch strings.ToLower(strings.TrimSpace(f.SortOrder)) {
	case "", "asc":
	case "desc":
		q.Order.Desc = true
	default:
		return Query{}, invalidf("unknown sortOrder %q", f.SortOrder)
	}

	return q, nil
}

// normalizeIDs sorts and dedupes; nil for an empty set.
func normalizeIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func parseEnumSet[T ~string](family string, raw []string, allowed []T) ([]T, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]T, 0, len(raw))
	for _, r := range raw {
		v, ok := matchFold(strings.TrimSpace(r), allowed)
		if !ok {
			return nil, invalidf("unknown value %q in %s", r, family)
		}
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func matchFold[T ~string](s string, allowed []T) (T, bool) {
	for _, a := range allowed {
		if strings.EqualFold(s, string(a)) {
			return a, true
		}
	}
	var zero T
	return zero, false
}

// Int returns a pointer to v, for building Filters.
func Int(v int) *int { return &v }
