package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"unihub/internal/logbuf"
	"unihub/internal/programs"
	"unihub/pkg/grpc/catalogrpc"
)

type Server struct {
	catalogrpc.UnimplementedCatalogServiceServer
	catalogrpc.UnimplementedLogServiceServer
	Programs *programs.Service
	Logs     *logbuf.Buffer
}

func NewServer(svc *programs.Service, logs *logbuf.Buffer) *Server {
	return &Server{Programs: svc, Logs: logs}
}

func (s *Server) ListPrograms(ctx context.Context, req *catalogrpc.ListProgramsRequest) (*catalogrpc.ListProgramsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	f := programs.Filter{
		DetailedFieldIDs: req.DetailedFieldIDs,
		CityIDs:          req.CityIDs,
		UniversityIDs:    req.UniversityIDs,
		DegreeTypes:      req.DegreeTypes,
		UniversityTypes:  req.UniversityTypes,
		Query:            req.Query,
		SortBy:           req.SortBy,
		SortOrder:        req.SortOrder,
		Limit:            intPtr(req.Limit),
		Offset:           intPtr(req.Offset),
	}

	page, err := s.Programs.List(ctx, f)
	if err != nil {
		return nil, toStatus(err)
	}

	return &catalogrpc.ListProgramsResponse{
		Items:  page.Items,
		Total:  int32(page.Total),
		Limit:  int32(page.Limit),
		Offset: int32(page.Offset),
	}, nil
}

func (s *Server) GetProgram(ctx context.Context, req *catalogrpc.GetProgramRequest) (*catalogrpc.GetProgramResponse, error) {
	if req == nil || req.ID <= 0 {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}

	item, err := s.Programs.Get(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	if item == nil {
		return nil, status.Error(codes.NotFound, "not found")
	}

	return &catalogrpc.GetProgramResponse{Program: *item}, nil
}

func (s *Server) QueryLogs(ctx context.Context, req *catalogrpc.QueryLogsRequest) (*catalogrpc.QueryLogsResponse, error) {
	if req == nil {
		req = &catalogrpc.QueryLogsRequest{}
	}
	if req.Limit < 0 {
		return nil, status.Error(codes.InvalidArgument, "limit must be >= 0")
	}
	f := logbuf.Filter{Module: req.Module, Limit: int(req.Limit)}
	if req.Level != "" {
		level, err := logbuf.ParseLevel(req.Level)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		f.Level = level
	}

	entries := s.Logs.Query(f)
	resp := &catalogrpc.QueryLogsResponse{
		Total: int32(len(entries)),
		Items: make([]catalogrpc.LogEntry, 0, len(entries)),
	}
	for _, e := range entries {
		resp.Items = append(resp.Items, entryToMessage(e))
	}
	return resp, nil
}

func (s *Server) LogStats(ctx context.Context, _ *catalogrpc.LogStatsRequest) (*catalogrpc.LogStatsResponse, error) {
	st := s.Logs.Stats()
	return &catalogrpc.LogStatsResponse{
		Total: int32(st.Total),
		Debug: int32(st.Debug),
		Info:  int32(st.Info),
		Warn:  int32(st.Warn),
		Error: int32(st.Error),
	}, nil
}

func (s *Server) ClearLogs(ctx context.Context, _ *catalogrpc.ClearLogsRequest) (*catalogrpc.ClearLogsResponse, error) {
	s.Logs.Clear()
	return &catalogrpc.ClearLogsResponse{Success: true}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, programs.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, programs.ErrStoreUnavailable):
		return status.Error(codes.Unavailable, "catalog temporarily unavailable")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func entryToMessage(e logbuf.Entry) catalogrpc.LogEntry {
	return catalogrpc.LogEntry{
		Seq:       e.Seq,
		Timestamp: e.Timestamp,
		Level:     string(e.Level),
		Module:    e.Module,
		Message:   e.Message,
		Data:      e.Data,
		Error:     e.Error,
	}
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
