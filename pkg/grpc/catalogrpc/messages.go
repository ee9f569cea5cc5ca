package catalogrpc

import (
	"time"

	"unihub/pkg/models"
)

type ListProgramsRequest struct {
	DetailedFieldIDs []int64  `json:"detailed_field_ids,omitempty"`
	CityIDs          []int64  `json:"city_ids,omitempty"`
	UniversityIDs    []int64  `json:"university_ids,omitempty"`
	DegreeTypes      []string `json:"degree_types,omitempty"`
	UniversityTypes  []string `json:"university_types,omitempty"`
	Query            string   `json:"query,omitempty"`
	SortBy           string   `json:"sort_by,omitempty"`
	SortOrder        string   `json:"sort_order,omitempty"`
	// Nil takes the server default.
	Limit  *int32 `json:"limit,omitempty"`
	Offset *int32 `json:"offset,omitempty"`
}

type ListProgramsResponse struct {
	Items  []models.ProgramListItem `json:"items"`
	Total  int32                    `json:"total"`
	Limit  int32                    `json:"limit"`
	Offset int32                    `json:"offset"`
}

type GetProgramRequest struct {
	ID int64 `json:"id"`
}

type GetProgramResponse struct {
	Program models.ProgramListItem `json:"program"`
}

type LogEntry struct {
	Seq       uint64         `json:"seq"`
	Timestamp time.Time      `json:"timestamp"`
	Level     string         `json:"level"`
	Module    string         `json:"module"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Error     string         `json:"error,omitempty"`
}

type QueryLogsRequest struct {
	Level  string `json:"level,omitempty"`
	Module string `json:"module,omitempty"`
	Limit  int32  `json:"limit,omitempty"`
}

type QueryLogsResponse struct {
	Total int32      `json:"total"`
	Items []LogEntry `json:"items"`
}

type LogStatsRequest struct{}

type LogStatsResponse struct {
	Total int32 `json:"total"`
	Debug int32 `json:"debug"`
	Info  int32 `json:"info"`
	Warn  int32 `json:"warn"`
	Error int32 `json:"error"`
}

type ClearLogsRequest struct{}

type ClearLogsResponse struct {
	Success bool `json:"success"`
}
