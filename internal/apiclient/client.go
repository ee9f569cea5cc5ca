// Package apiclient is a small HTTP client for the catalog API used by the
// command line tools.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"unihub/internal/logbuf"
	"unihub/internal/programs"
	"unihub/pkg/models"
)

const DefaultBaseURL = "http://localhost:8080"

// APIError is a non-2xx response.
type APIError struct {
	Method     string
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed (%d): %s", e.Method, e.Endpoint, e.StatusCode, e.Message)
}

// Temporary reports whether the request may succeed if repeated.
func (e *APIError) Temporary() bool {
	return e.StatusCode == http.StatusServiceUnavailable || e.StatusCode == http.StatusTooManyRequests
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
	// MaxTries bounds attempts for temporary failures. Zero means 4.
	MaxTries uint
	// NewBackOff overrides the retry schedule, mainly for tests.
	NewBackOff func() backoff.BackOff
}

func New(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) backOff() backoff.BackOff {
	if c.NewBackOff != nil {
		return c.NewBackOff()
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 3 * time.Second
	return b
}

// doJSON sends payload (if any) and decodes the body into out. Transport
// errors and 503/429 responses are retried with exponential backoff;
// other failures return at once.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, payload, out any) error {
	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = b
	}

	tries := c.MaxTries
	if tries == 0 {
		tries = 4
	}

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := c.once(ctx, method, endpoint, body, out)
		if err == nil {
			return struct{}{}, nil
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Temporary() {
			return struct{}{}, backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		zap.L().Debug("[apiclient] retrying", zap.String("endpoint", endpoint), zap.Int("attempt", attempt), zap.Error(err))
		return struct{}{}, err
	}, backoff.WithBackOff(c.backOff()), backoff.WithMaxTries(tries))
	return err
}

func (c *Client) once(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, r)
	if err != nil {
		return backoff.Permanent(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return &APIError{
			Method:     method,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return backoff.Permanent(fmt.Errorf("decode %s: %w", endpoint, err))
	}
	return nil
}

func errorMessage(data []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(data))
}

// ListPrograms runs a filter through POST /programs/query.
func (c *Client) ListPrograms(ctx context.Context, f programs.Filter) (programs.Page, error) {
	var page programs.Page
	err := c.doJSON(ctx, http.MethodPost, "/programs/query", nil, f, &page)
	return page, err
}

func (c *Client) SearchPrograms(ctx context.Context, text string, limit int) (programs.Page, error) {
	q := url.Values{"q": {text}}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var page programs.Page
	err := c.doJSON(ctx, http.MethodGet, "/programs/search", q, nil, &page)
	return page, err
}

// GetProgram returns nil, nil when the program does not exist.
func (c *Client) GetProgram(ctx context.Context, id int64) (*models.ProgramListItem, error) {
	var p models.ProgramListItem
	if err := c.doJSON(ctx, http.MethodGet, "/programs/"+strconv.FormatInt(id, 10), nil, nil, &p); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ProgramDetail returns nil, nil when the program does not exist.
func (c *Client) ProgramDetail(ctx context.Context, id int64) (*models.ProgramDetail, error) {
	var d models.ProgramDetail
	if err := c.doJSON(ctx, http.MethodGet, "/programs/"+strconv.FormatInt(id, 10)+"/detail", nil, nil, &d); err != nil {
		if IsStatus(err, http.StatusNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

type itemsResponse[T any] struct {
	Items []T `json:"items"`
}

func getItems[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	var resp itemsResponse[T]
	if err := c.doJSON(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *Client) BroadFields(ctx context.Context) ([]models.BroadField, error) {
	return getItems[models.BroadField](ctx, c, "/isced/broad", nil)
}

func (c *Client) NarrowFields(ctx context.Context, broadID int64) ([]models.NarrowField, error) {
	return getItems[models.NarrowField](ctx, c, "/isced/broad/"+strconv.FormatInt(broadID, 10)+"/narrow", nil)
}

func (c *Client) DetailedFields(ctx context.Context, narrowID int64) ([]models.DetailedField, error) {
	return getItems[models.DetailedField](ctx, c, "/isced/narrow/"+strconv.FormatInt(narrowID, 10)+"/detailed", nil)
}

func (c *Client) Countries(ctx context.Context) ([]models.Country, error) {
	return getItems[models.Country](ctx, c, "/countries", nil)
}

func (c *Client) Cities(ctx context.Context, countryID int64) ([]models.City, error) {
	return getItems[models.City](ctx, c, "/countries/"+strconv.FormatInt(countryID, 10)+"/cities", nil)
}

func (c *Client) Universities(ctx context.Context, countryID int64) ([]models.University, error) {
	q := url.Values{"countryId": {strconv.FormatInt(countryID, 10)}}
	return getItems[models.University](ctx, c, "/universities", q)
}

type LogsResponse struct {
	Total int            `json:"total"`
	Items []logbuf.Entry `json:"items"`
}

func (c *Client) Logs(ctx context.Context, level, module string, limit int) (LogsResponse, error) {
	q := url.Values{}
	if level != "" {
		q.Set("level", level)
	}
	if module != "" {
		q.Set("module", module)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var resp LogsResponse
	err := c.doJSON(ctx, http.MethodGet, "/logs", q, nil, &resp)
	return resp, err
}

func (c *Client) LogStats(ctx context.Context) (logbuf.Stats, error) {
	var st logbuf.Stats
	err := c.doJSON(ctx, http.MethodGet, "/logs/stats", nil, nil, &st)
	return st, err
}

// ClearLogs needs an admin token.
func (c *Client) ClearLogs(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/logs", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
