package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/notioncoach/notioncoach-api/pkg/config"
)

// CallObserver receives timings for outbound directory calls.
type CallObserver interface {
	ObserveDirectoryCall(op string, duration time.Duration)
}

// HTTPClient talks to the directory's REST API with bearer authentication.
type HTTPClient struct {
	baseURL  string
	secret   string
	http     *http.Client
	logger   *zap.Logger
	observer CallObserver
}

// NewHTTPClient builds a directory client from configuration.
func NewHTTPClient(cfg config.DirectoryConfig, logger *zap.Logger, observer CallObserver) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		secret:   cfg.SecretKey,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
		observer: observer,
	}
}

type countPayload struct {
	TotalCount int `json:"total_count"`
}

// ListUsers fetches one page of records plus the directory's total count for
// the same query. The count is a second endpoint on the directory side.
func (c *HTTPClient) ListUsers(ctx context.Context, params ListParams) (*ListResult, error) {
	q := url.Values{}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q.Set("offset", strconv.Itoa(params.Offset))
	}
	if params.OrderBy != "" {
		q.Set("order_by", params.OrderBy)
	}
	if params.Query != "" {
		q.Set("query", params.Query)
	}

	var records []Record
	if err := c.get(ctx, "list_users", "/users", q, &records); err != nil {
		return nil, err
	}

	countQuery := url.Values{}
	if params.Query != "" {
		countQuery.Set("query", params.Query)
	}
	var count countPayload
	if err := c.get(ctx, "count_users", "/users/count", countQuery, &count); err != nil {
		return nil, err
	}

	return &ListResult{Records: records, TotalCount: count.TotalCount}, nil
}

// GetUser fetches a single record by its opaque ID.
func (c *HTTPClient) GetUser(ctx context.Context, id string) (*Record, error) {
	var record Record
	if err := c.get(ctx, "get_user", "/users/"+url.PathEscape(id), nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateUserRole merges the role key into the principal's custom metadata.
func (c *HTTPClient) UpdateUserRole(ctx context.Context, id, role string) error {
	body := map[string]interface{}{
		"unsafe_metadata": map[string]interface{}{"role": role},
	}
	return c.do(ctx, "update_role", http.MethodPatch, "/users/"+url.PathEscape(id)+"/metadata", body, nil)
}

// DeleteUser removes a principal from the directory.
func (c *HTTPClient) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, "delete_user", http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

func (c *HTTPClient) get(ctx context.Context, op, path string, query url.Values, dest interface{}) error {
	target := path
	if len(query) > 0 {
		target = path + "?" + query.Encode()
	}
	return c.do(ctx, op, http.MethodGet, target, nil, dest)
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, body, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("directory %s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("directory %s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if c.observer != nil {
		c.observer.ObserveDirectoryCall(op, time.Since(start))
	}
	if err != nil {
		return fmt.Errorf("directory %s: %w", op, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("directory call failed",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", snippet),
		)
		return fmt.Errorf("directory %s: unexpected status %d", op, resp.StatusCode)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("directory %s: decode response: %w", op, err)
	}
	return nil
}
