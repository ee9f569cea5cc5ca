package programs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"unihub/internal/logbuf"
	"unihub/pkg/models"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CountPrograms(ctx context.Context, p Predicate) (int, error) {
	args := m.Called(ctx, p)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) QueryPrograms(ctx context.Context, p Predicate, o Order, limit, offset int) ([]models.ProgramListItem, error) {
	args := m.Called(ctx, p, o, limit, offset)
	items, _ := args.Get(0).([]models.ProgramListItem)
	return items, args.Error(1)
}

func (m *mockStore) GetProgram(ctx context.Context, id int64) (*models.ProgramListItem, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*models.ProgramListItem)
	return p, args.Error(1)
}

type stubDetails struct {
	courseErr error
}

func (s stubDetails) TuitionFee(context.Context, int64) (*models.TuitionFee, error) {
	return &models.TuitionFee{CurrencyCode: "EUR"}, nil
}

func (s stubDetails) Scholarships(context.Context, int64) ([]models.Scholarship, error) {
	return []models.Scholarship{{NameEN: "Grant"}}, nil
}

func (s stubDetails) Courses(context.Context, int64) ([]models.Course, error) {
	if s.courseErr != nil {
		return nil, s.courseErr
	}
	return []models.Course{{NameEN: "Algorithms"}, {NameEN: "Compilers"}}, nil
}

func (s stubDetails) Employment(context.Context, int64) (*models.EmploymentOutcome, error) {
	return nil, nil
}

func (s stubDetails) Opportunities(context.Context, int64) ([]models.StudentOpportunity, error) {
	return []models.StudentOpportunity{}, nil
}

func TestListInvalidFilterNeverTouchesStore(t *testing.T) {
	store := new(mockStore)
	logs := logbuf.New(10)
	svc := NewService(store, nil, logs)

	_, err := svc.List(context.Background(), Filter{Limit: Int(0)})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.List(context.Background(), Filter{DegreeTypes: []string{"astronaut"}})
	require.ErrorIs(t, err, ErrInvalidArgument)

	store.AssertNotCalled(t, "CountPrograms", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "QueryPrograms", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 2, logs.Stats().Warn)
}

func TestListPassesNormalizedQueryToStore(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, nil, logbuf.New(10))

	pred := Predicate{CityIDs: []int64{4}, DegreeTypes: []DegreeType{DegreeMaster}}
	order := Order{Key: SortRankingTimes, Desc: true}
	items := []models.ProgramListItem{{Program: models.Program{ID: 7}}}

	store.On("CountPrograms", mock.Anything, pred).Return(41, nil).Once()
	store.On("QueryPrograms", mock.Anything, pred, order, 5, 10).Return(items, nil).Once()

	page, err := svc.List(context.Background(), Filter{
		CityIDs:     []int64{4},
		DegreeTypes: []string{"MASTER"},
		SortBy:      "rankingTimes",
		SortOrder:   "desc",
		Limit:       Int(5),
		Offset:      Int(10),
	})
	require.NoError(t, err)
	assert.Equal(t, 41, page.Total)
	assert.Equal(t, items, page.Items)
	assert.Equal(t, 5, page.Limit)
	assert.Equal(t, 10, page.Offset)
	store.AssertExpectations(t)
}

func TestListNoMatchesIsEmptyNotError(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, nil, nil)

	store.On("CountPrograms", mock.Anything, mock.Anything).Return(0, nil)
	store.On("QueryPrograms", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)

	page, err := svc.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestListStoreFailureIsUnavailable(t *testing.T) {
	dbErr := errors.New("database is locked")

	t.Run("count", func(t *testing.T) {
		store := new(mockStore)
		logs := logbuf.New(10)
		store.On("CountPrograms", mock.Anything, mock.Anything).Return(0, dbErr)

		_, err := NewService(store, nil, logs).List(context.Background(), Filter{})
		require.ErrorIs(t, err, ErrStoreUnavailable)
		assert.ErrorIs(t, err, dbErr)
		assert.Equal(t, 1, logs.Stats().Error)
		store.AssertNotCalled(t, "QueryPrograms", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("page", func(t *testing.T) {
		store := new(mockStore)
		store.On("CountPrograms", mock.Anything, mock.Anything).Return(3, nil)
		store.On("QueryPrograms", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, dbErr)

		_, err := NewService(store, nil, nil).List(context.Background(), Filter{})
		require.ErrorIs(t, err, ErrStoreUnavailable)
		assert.False(t, errors.Is(err, ErrInvalidArgument))
	})
}

func TestListIsIdempotent(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, nil, nil)
	items := []models.ProgramListItem{{Program: models.Program{ID: 1}}, {Program: models.Program{ID: 2}}}
	store.On("CountPrograms", mock.Anything, mock.Anything).Return(2, nil)
	store.On("QueryPrograms", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(items, nil)

	f := Filter{Query: "data"}
	a, err := svc.List(context.Background(), f)
	require.NoError(t, err)
	b, err := svc.List(context.Background(), f)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSearchRequiresText(t *testing.T) {
	store := new(mockStore)
	svc := NewService(store, nil, nil)

	_, err := svc.Search(context.Background(), "  ", nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	store.On("CountPrograms", mock.Anything, Predicate{Search: "law"}).Return(0, nil)
	store.On("QueryPrograms", mock.Anything, Predicate{Search: "law"}, Order{}, 3, 0).Return(nil, nil)
	_, err = svc.Search(context.Background(), "Law", Int(3))
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestGet(t *testing.T) {
	store := new(mockStore)
	logs := logbuf.New(10)
	svc := NewService(store, nil, logs)

	found := &models.ProgramListItem{Program: models.Program{ID: 3}}
	store.On("GetProgram", mock.Anything, int64(3)).Return(found, nil)
	store.On("GetProgram", mock.Anything, int64(4)).Return(nil, nil)
	store.On("GetProgram", mock.Anything, int64(5)).Return(nil, errors.New("io"))

	p, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, found, p)

	p, err = svc.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.Nil(t, p)
	warns := logs.Query(logbuf.Filter{Level: logbuf.LevelWarn})
	require.Len(t, warns, 1)
	assert.Equal(t, "Program not found with ID: 4", warns[0].Message)

	_, err = svc.Get(context.Background(), 5)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestDetail(t *testing.T) {
	store := new(mockStore)
	found := &models.ProgramListItem{Program: models.Program{ID: 3, NameEN: "Law"}}
	store.On("GetProgram", mock.Anything, int64(3)).Return(found, nil)
	store.On("GetProgram", mock.Anything, int64(4)).Return(nil, nil)

	svc := NewService(store, stubDetails{}, nil)
	d, err := svc.Detail(context.Background(), 3)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "Law", d.NameEN)
	assert.Equal(t, "EUR", d.TuitionFee.CurrencyCode)
	assert.Len(t, d.Courses, 2)
	assert.Len(t, d.Scholarships, 1)
	assert.Nil(t, d.Employment)

	d, err = svc.Detail(context.Background(), 4)
	require.NoError(t, err)
	assert.Nil(t, d)

	failing := NewService(store, stubDetails{courseErr: errors.New("timeout")}, nil)
	_, err = failing.Detail(context.Background(), 3)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
