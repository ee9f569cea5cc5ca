package programs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"unihub/pkg/database/dbtest"
	"unihub/pkg/models"
)

// catalog seeds two cities with programs across two detailed fields:
//
//	field A: 5 programs, 3 of them in city X
//	field B: 2 programs, both in city Y
type catalog struct {
	fx              *dbtest.Fixture
	repo            *Repo
	fieldA, fieldB  int64
	cityX, cityY    int64
	uniTop, uniLow  int64
	uniNone         int64
	programs        []int64
	programsByField map[int64][]int64
}

func seedCatalog(t *testing.T) *catalog {
	t.Helper()
	fx := dbtest.NewFixture(t)
	c := &catalog{fx: fx, repo: NewRepo(fx.DB), programsByField: map[int64][]int64{}}

	de := fx.Country("DE", "Germany")
	c.cityX = fx.City(de, "Berlin")
	c.cityY = fx.City(de, "Munich")

	_, narrow, fieldA := fx.FieldTree("06", "061", "0613")
	c.fieldA = fieldA
	c.fieldB = fx.DetailedField(narrow, "0612")

	c.uniTop = fx.University(dbtest.UniversitySeed{CountryID: de, CityID: c.cityX, NameEN: "Technical University", QS: dbtest.Int(10), ARWU: dbtest.Int(50)})
	c.uniLow = fx.University(dbtest.UniversitySeed{CountryID: de, CityID: c.cityY, NameEN: "Applied Arts Academy", QS: dbtest.Int(300), Type: "private"})
	c.uniNone = fx.University(dbtest.UniversitySeed{CountryID: de, CityID: c.cityX, NameEN: "Unranked College"})

	add := func(uni, city, field int64, name, degree, uniType string) int64 {
		id := fx.Program(dbtest.ProgramSeed{
			UniversityID: uni, CityID: city, DetailedFieldID: field,
			NameEN: name, DegreeType: degree, UniversityType: uniType,
		})
		c.programs = append(c.programs, id)
		c.programsByField[field] = append(c.programsByField[field], id)
		return id
	}

	// field A, city X (3)
	add(c.uniTop, c.cityX, fieldA, "Software Engineering", "master", "public")
	add(c.uniNone, c.cityX, fieldA, "Computer Science", "bachelor", "public")
	add(c.uniTop, c.cityX, fieldA, "Data Science", "phd", "public")
	// field A, city Y (2)
	add(c.uniLow, c.cityY, fieldA, "Information Systems", "master", "private")
	add(c.uniLow, c.cityY, fieldA, "Web Development", "diploma", "private")
	// field B, city Y (2)
	add(c.uniLow, c.cityY, c.fieldB, "Database Design", "master", "private")
	add(c.uniLow, c.cityY, c.fieldB, "Network Administration", "bachelor", "private")

	return c
}

func (c *catalog) list(t *testing.T, f Filter) ([]models.ProgramListItem, int) {
	t.Helper()
	q, err := f.Normalize()
	require.NoError(t, err)
	ctx := context.Background()
	total, err := c.repo.CountPrograms(ctx, q.Predicate)
	require.NoError(t, err)
	items, err := c.repo.QueryPrograms(ctx, q.Predicate, q.Order, q.Limit, q.Offset)
	require.NoError(t, err)
	return items, total
}

func ids(items []models.ProgramListItem) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestFamiliesCombineWithAnd(t *testing.T) {
	c := seedCatalog(t)

	_, total := c.list(t, Filter{DetailedFieldIDs: []int64{c.fieldA}})
	assert.Equal(t, 5, total)

	items, total := c.list(t, Filter{DetailedFieldIDs: []int64{c.fieldA}, CityIDs: []int64{c.cityX}})
	assert.Equal(t, 3, total)
	assert.Len(t, items, 3)

	_, total = c.list(t, Filter{DetailedFieldIDs: []int64{c.fieldB}, CityIDs: []int64{c.cityX}})
	assert.Equal(t, 0, total)
}

func TestMembersCombineWithOr(t *testing.T) {
	c := seedCatalog(t)

	_, total := c.list(t, Filter{DetailedFieldIDs: []int64{c.fieldA, c.fieldB}})
	assert.Equal(t, 7, total)

	_, total = c.list(t, Filter{DegreeTypes: []string{"master", "phd"}})
	assert.Equal(t, 4, total)

	_, total = c.list(t, Filter{UniversityTypes: []string{"private"}, DegreeTypes: []string{"bachelor"}})
	assert.Equal(t, 1, total)

	_, total = c.list(t, Filter{UniversityIDs: []int64{c.uniTop}})
	assert.Equal(t, 2, total)
}

func TestEmptyFamilyMatchesEverything(t *testing.T) {
	c := seedCatalog(t)

	a, totalA := c.list(t, Filter{CityIDs: []int64{}, DegreeTypes: []string{}})
	b, totalB := c.list(t, Filter{})
	assert.Equal(t, 7, totalA)
	assert.Equal(t, totalB, totalA)
	assert.Equal(t, ids(b), ids(a))
}

func TestTotalIgnoresPagination(t *testing.T) {
	c := seedCatalog(t)

	for _, limit := range []int{1, 2, 3, 50} {
		for _, offset := range []int{0, 2, 6, 10} {
			items, total := c.list(t, Filter{Limit: Int(limit), Offset: Int(offset)})
			assert.Equal(t, 7, total)
			assert.LessOrEqual(t, len(items), limit)
		}
	}

	items, total := c.list(t, Filter{Offset: Int(100)})
	assert.Equal(t, 7, total)
	assert.Empty(t, items)
}

func TestPagesConcatenateToFullOrderedList(t *testing.T) {
	c := seedCatalog(t)

	for _, order := range []Filter{
		{},
		{SortBy: "rankingQS"},
		{SortBy: "rankingQS", SortOrder: "desc"},
		{SortBy: "rankingARWU", SortOrder: "desc"},
	} {
		all := order
		all.Limit = Int(100)
		full, total := c.list(t, all)
		require.Len(t, full, total)

		var paged []int64
		for offset := 0; offset < total; offset += 3 {
			page := order
			page.Limit, page.Offset = Int(3), Int(offset)
			items, _ := c.list(t, page)
			paged = append(paged, ids(items)...)
		}
		assert.Equal(t, ids(full), paged, "sortBy=%q order=%q", order.SortBy, order.SortOrder)
	}
}

func TestDefaultOrderIsProgramID(t *testing.T) {
	c := seedCatalog(t)
	items, _ := c.list(t, Filter{Limit: Int(100)})
	assert.Equal(t, c.programs, ids(items))
}

func TestNullRankingsSortLastInBothDirections(t *testing.T) {
	c := seedCatalog(t)

	for _, dir := range []string{"asc", "desc"} {
		items, _ := c.list(t, Filter{SortBy: "rankingQS", SortOrder: dir, Limit: Int(100)})
		require.Len(t, items, 7)

		last := items[len(items)-1]
		assert.Nil(t, last.QSRanking, dir)
		assert.Equal(t, c.uniNone, last.UniversityID, dir)
		for _, it := range items[:len(items)-1] {
			assert.NotNil(t, it.QSRanking, dir)
		}
	}

	asc, _ := c.list(t, Filter{SortBy: "rankingQS", Limit: Int(100)})
	assert.Equal(t, 10, *asc[0].QSRanking)
	desc, _ := c.list(t, Filter{SortBy: "rankingQS", SortOrder: "desc", Limit: Int(100)})
	assert.Equal(t, 300, *desc[0].QSRanking)

	// equal keys fall back to ascending id
	assert.Less(t, desc[0].ID, desc[1].ID)
}

func TestTuitionSortUsesHomeAmount(t *testing.T) {
	c := seedCatalog(t)
	p := c.programs
	// local amounts order differently from the home amounts
	c.fx.Tuition(p[0], "EUR", 3000, dbtest.Float(23000))
	c.fx.Tuition(p[1], "CHF", 4000, dbtest.Float(16000))
	c.fx.Tuition(p[2], "EUR", 0, dbtest.Float(0))

	items, _ := c.list(t, Filter{SortBy: "tuitionAmount", Limit: Int(3)})
	assert.Equal(t, []int64{p[2], p[1], p[0]}, ids(items))
	require.NotNil(t, items[0].Tuition)
	assert.True(t, items[0].Tuition.IsFree)

	items, _ = c.list(t, Filter{SortBy: "tuitionAmount", SortOrder: "desc", Limit: Int(100)})
	assert.Equal(t, []int64{p[0], p[1], p[2]}, ids(items)[:3])
	for _, it := range items[3:] {
		assert.Nil(t, it.Tuition)
	}
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	c := seedCatalog(t)

	items, total := c.list(t, Filter{Query: "SCIENCE"})
	assert.Equal(t, 2, total)
	for _, it := range items {
		assert.Contains(t, it.NameEN, "Science")
	}

	// university name
	_, total = c.list(t, Filter{Query: "technical"})
	assert.Equal(t, 2, total)

	// city name
	_, total = c.list(t, Filter{Query: "munich"})
	assert.Equal(t, 4, total)

	// combined with another family
	_, total = c.list(t, Filter{Query: "science", DegreeTypes: []string{"phd"}})
	assert.Equal(t, 1, total)
}

func TestSearchUsesSearchIndexAndEscapesWildcards(t *testing.T) {
	c := seedCatalog(t)
	id := c.fx.Program(dbtest.ProgramSeed{
		UniversityID: c.uniTop, CityID: c.cityX, DetailedFieldID: c.fieldB,
		NameEN: "Robotics", SearchText: "robotics automation 100% english taught",
	})

	items, total := c.list(t, Filter{Query: "automation"})
	require.Equal(t, 1, total)
	assert.Equal(t, id, items[0].ID)

	_, total = c.list(t, Filter{Query: "100%"})
	assert.Equal(t, 1, total)

	// "%" alone must not match everything
	_, total = c.list(t, Filter{Query: "%"})
	assert.Equal(t, 1, total)

	_, total = c.list(t, Filter{Query: "_"})
	assert.Equal(t, 0, total)
}

func TestSearchFoldsAccentedLetters(t *testing.T) {
	c := seedCatalog(t)
	ch := c.fx.Country("CH", "Switzerland")
	zurich := c.fx.City(ch, "Zürich")
	uzh := c.fx.University(dbtest.UniversitySeed{CountryID: ch, CityID: zurich, NameEN: "Universität Zürich"})
	id := c.fx.Program(dbtest.ProgramSeed{
		UniversityID: uzh, CityID: zurich, DetailedFieldID: c.fieldB,
		NameEN: "Études Européennes",
	})

	for _, q := range []string{"Études", "études", "ÉTUDES", "européennes", "ZÜRICH", "universität"} {
		items, total := c.list(t, Filter{Query: q})
		require.Equal(t, 1, total, "query %q", q)
		assert.Equal(t, id, items[0].ID, "query %q", q)
	}

	_, total := c.list(t, Filter{Query: "etudes"})
	assert.Equal(t, 0, total, "accents are folded for case only")
}

func TestListItemCarriesJoinedNames(t *testing.T) {
	c := seedCatalog(t)

	items, _ := c.list(t, Filter{CityIDs: []int64{c.cityX}, Limit: Int(1)})
	require.Len(t, items, 1)
	it := items[0]
	assert.Equal(t, "Technical University", it.UniversityNameEN)
	assert.Equal(t, "Berlin", it.CityNameEN)
	assert.Equal(t, "Germany", it.CountryNameEN)
	assert.Equal(t, models.StringList{"en"}, it.TeachingLanguages)
	assert.Equal(t, 24, it.DurationMonths)
}

func TestGetProgram(t *testing.T) {
	c := seedCatalog(t)
	ctx := context.Background()

	p, err := c.repo.GetProgram(ctx, c.programs[3])
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Information Systems", p.NameEN)
	assert.Equal(t, "Applied Arts Academy", p.UniversityNameEN)

	p, err = c.repo.GetProgram(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestDetailRecords(t *testing.T) {
	c := seedCatalog(t)
	ctx := context.Background()
	pid := c.programs[0]

	c.fx.Tuition(pid, "EUR", 1500, dbtest.Float(11500))
	c.fx.Exec(`INSERT INTO courses (program_id, name_en, credits, is_core_required, semester) VALUES (?, 'Algorithms', 6, 1, 2)`, pid)
	c.fx.Exec(`INSERT INTO courses (program_id, name_en, credits, is_core_required, semester) VALUES (?, 'Compilers', 6, 0, 1)`, pid)
	c.fx.Exec(`INSERT INTO scholarships (program_id, name_en) VALUES (?, 'Program Grant')`, pid)
	c.fx.Exec(`INSERT INTO scholarships (university_id, name_en) VALUES (?, 'University Grant')`, c.uniTop)
	c.fx.Exec(`INSERT INTO scholarships (university_id, name_en) VALUES (?, 'Other Grant')`, c.uniLow)
	c.fx.Exec(`INSERT INTO employment_outcomes (program_id, employment_rate, top_employers) VALUES (?, 0.93, '["SAP","Siemens"]')`, pid)
	c.fx.Exec(`INSERT INTO student_opportunities (university_id, opportunity_type, title) VALUES (?, 'research', 'Lab assistant')`, c.uniTop)

	fee, err := c.repo.TuitionFee(ctx, pid)
	require.NoError(t, err)
	require.NotNil(t, fee)
	assert.Equal(t, "EUR", fee.CurrencyCode)
	assert.InDelta(t, 11500, *fee.HomeAnnualAmount, 0.001)

	courses, err := c.repo.Courses(ctx, pid)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "Compilers", courses[0].NameEN)
	assert.True(t, courses[1].IsCoreRequired)

	schol, err := c.repo.Scholarships(ctx, pid)
	require.NoError(t, err)
	assert.Len(t, schol, 2)

	emp, err := c.repo.Employment(ctx, pid)
	require.NoError(t, err)
	require.NotNil(t, emp)
	assert.JSONEq(t, `["SAP","Siemens"]`, string(emp.TopEmployers))

	opps, err := c.repo.Opportunities(ctx, pid)
	require.NoError(t, err)
	require.Len(t, opps, 1)
	assert.Equal(t, models.OpportunityResearch, opps[0].OpportunityType)

	none, err := c.repo.Employment(ctx, c.programs[1])
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestClosedStoreFails(t *testing.T) {
	c := seedCatalog(t)
	require.NoError(t, c.fx.DB.Close())

	_, err := c.repo.CountPrograms(context.Background(), Predicate{})
	assert.Error(t, err)
}
