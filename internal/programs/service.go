package programs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"unihub/internal/logbuf"
	"unihub/internal/metrics"
	"unihub/pkg/models"
)

const logModule = "programs"

// Page is one page of a filtered program list. Total counts every match,
// not just the returned items.
type Page struct {
	Items  []models.ProgramListItem `json:"items"`
	Total  int                      `json:"total"`
	Limit  int                      `json:"limit"`
	Offset int                      `json:"offset"`
}

// Service composes validated filters into store queries.
type Service struct {
	store   Store
	details DetailStore
	logs    *logbuf.Buffer
}

// NewService wires the composer. details may be nil when Detail is unused.
func NewService(store Store, details DetailStore, logs *logbuf.Buffer) *Service {
	if logs == nil {
		logs = logbuf.New(logbuf.DefaultCapacity)
	}
	return &Service{store: store, details: details, logs: logs}
}

// List validates f, counts every match and loads one page. Invalid
// filters fail with ErrInvalidArgument before the store is touched.
func (s *Service) List(ctx context.Context, f Filter) (Page, error) {
	start := time.Now()

	q, err := f.Normalize()
	if err != nil {
		s.logs.Warn(logModule, "Rejected program filter", map[string]any{"error": err.Error()})
		metrics.ObserveQuery("list", metrics.OutcomeInvalid, time.Since(start))
		return Page{}, err
	}

	s.logs.Info(logModule, "Fetching programs with filters", filterData(q))

	total, err := s.store.CountPrograms(ctx, q.Predicate)
	if err != nil {
		s.logs.Error(logModule, "Failed to count programs", nil, err)
		metrics.ObserveQuery("list", metrics.OutcomeUnavailable, time.Since(start))
		return Page{}, unavailable("count programs", err)
	}

	items, err := s.store.QueryPrograms(ctx, q.Predicate, q.Order, q.Limit, q.Offset)
	if err != nil {
		s.logs.Error(logModule, "Failed to fetch programs", nil, err)
		metrics.ObserveQuery("list", metrics.OutcomeUnavailable, time.Since(start))
		return Page{}, unavailable("query programs", err)
	}
	if items == nil {
		items = []models.ProgramListItem{}
	}

	s.logs.Info(logModule, fmt.Sprintf("Successfully fetched %d programs", len(items)), map[string]any{"total": total})
	metrics.ObserveQuery("list", metrics.OutcomeOK, time.Since(start))
	return Page{Items: items, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

// Search lists programs whose names or search text contain text.
func (s *Service) Search(ctx context.Context, text string, limit *int) (Page, error) {
	if strings.TrimSpace(text) == "" {
		s.logs.Warn(logModule, "Rejected empty search", nil)
		return Page{}, invalidf("search text must not be empty")
	}
	return s.List(ctx, Filter{Query: text, Limit: limit})
}

// Get returns one program, or (nil, nil) when it does not exist.
func (s *Service) Get(ctx context.Context, id int64) (*models.ProgramListItem, error) {
	start := time.Now()
	s.logs.Info(logModule, fmt.Sprintf("Fetching program with ID: %d", id), nil)

	p, err := s.store.GetProgram(ctx, id)
	if err != nil {
		s.logs.Error(logModule, fmt.Sprintf("Failed to fetch program with ID: %d", id), nil, err)
		metrics.ObserveQuery("get", metrics.OutcomeUnavailable, time.Since(start))
		return nil, unavailable("get program", err)
	}
	if p == nil {
		s.logs.Warn(logModule, fmt.Sprintf("Program not found with ID: %d", id), nil)
		metrics.ObserveQuery("get", metrics.OutcomeNotFound, time.Since(start))
		return nil, nil
	}

	metrics.ObserveQuery("get", metrics.OutcomeOK, time.Since(start))
	return p, nil
}

// Detail returns a program with all of its child records, or (nil, nil)
// when it does not exist. Child records load concurrently.
func (s *Service) Detail(ctx context.Context, id int64) (*models.ProgramDetail, error) {
	if s.details == nil {
		return nil, errors.New("program details are not configured")
	}
	start := time.Now()

	p, err := s.store.GetProgram(ctx, id)
	if err != nil {
		s.logs.Error(logModule, fmt.Sprintf("Failed to fetch program detail for ID: %d", id), nil, err)
		metrics.ObserveQuery("detail", metrics.OutcomeUnavailable, time.Since(start))
		return nil, unavailable("get program", err)
	}
	if p == nil {
		s.logs.Warn(logModule, fmt.Sprintf("Program detail not found with ID: %d", id), nil)
		metrics.ObserveQuery("detail", metrics.OutcomeNotFound, time.Since(start))
		return nil, nil
	}

	d := &models.ProgramDetail{ProgramListItem: *p}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.TuitionFee, err = s.details.TuitionFee(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.Scholarships, err = s.details.Scholarships(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.Courses, err = s.details.Courses(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.Employment, err = s.details.Employment(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.Opportunities, err = s.details.Opportunities(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logs.Error(logModule, fmt.Sprintf("Failed to fetch program detail for ID: %d", id), nil, err)
		metrics.ObserveQuery("detail", metrics.OutcomeUnavailable, time.Since(start))
		return nil, unavailable("program detail", err)
	}

	s.logs.Info(logModule, fmt.Sprintf("Successfully fetched program detail for ID: %d", id), nil)
	metrics.ObserveQuery("detail", metrics.OutcomeOK, time.Since(start))
	return d, nil
}

func filterData(q Query) map[string]any {
	data := map[string]any{
		"limit":  q.Limit,
		"offset": q.Offset,
	}
	p := q.Predicate
	if len(p.DetailedFieldIDs) > 0 {
		data["detailedFieldIds"] = p.DetailedFieldIDs
	}
	if len(p.CityIDs) > 0 {
		data["cityIds"] = p.CityIDs
	}
	if len(p.UniversityIDs) > 0 {
		data["universityIds"] = p.UniversityIDs
	}
	if len(p.DegreeTypes) > 0 {
		data["degreeTypes"] = p.DegreeTypes
	}
	if len(p.UniversityTypes) > 0 {
		data["universityTypes"] = p.UniversityTypes
	}
	if p.Search != "" {
		data["query"] = p.Search
	}
	if q.Order.Key != SortNone {
		data["sortBy"] = q.Order.Key
		data["desc"] = q.Order.Desc
	}
	return data
}
