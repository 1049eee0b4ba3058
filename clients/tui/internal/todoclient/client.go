package todoclient

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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TodoItem - запись в том виде, в каком её отдаёт API
type TodoItem struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	IsCompleted bool      `json:"isCompleted"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TodoInput - тело POST и PUT
type TodoInput struct {
	Title       string `json:"title"`
	IsCompleted bool   `json:"isCompleted"`
}

// StatusError - ответ API с кодом вне 2xx
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// Client ходит в REST API списка дел. Без ретраев и кэша: каждый вызов - один запрос.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *logrus.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New принимает базовый URL ресурса, например http://localhost:5206/api/todo
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	// .../api/todo/ и .../api/todo - один и тот же ресурс
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""

	c := &Client{
		baseURL:    u,
		httpClient: http.DefaultClient,
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) List(ctx context.Context) ([]TodoItem, error) {
	var todos []TodoItem
	if err := c.do(ctx, http.MethodGet, c.baseURL, nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *Client) Get(ctx context.Context, id int64) (TodoItem, error) {
	var todo TodoItem
	err := c.do(ctx, http.MethodGet, c.itemURL(id), nil, &todo)
	return todo, err
}

func (c *Client) Create(ctx context.Context, in TodoInput) (TodoItem, error) {
	var todo TodoItem
	err := c.do(ctx, http.MethodPost, c.baseURL, in, &todo)
	return todo, err
}

func (c *Client) Update(ctx context.Context, id int64, in TodoInput) (TodoItem, error) {
	var todo TodoItem
	err := c.do(ctx, http.MethodPut, c.itemURL(id), in, &todo)
	return todo, err
}

func (c *Client) Delete(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.itemURL(id), nil, nil)
}

func (c *Client) Toggle(ctx context.Context, id int64) (TodoItem, error) {
	var todo TodoItem
	err := c.do(ctx, http.MethodPatch, c.itemURL(id).JoinPath("toggle"), struct{}{}, &todo)
	return todo, err
}

func (c *Client) itemURL(id int64) *url.URL {
	return c.baseURL.JoinPath(strconv.FormatInt(id, 10))
}

func (c *Client) do(ctx context.Context, method string, u *url.URL, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logEntry := c.logger.WithFields(logrus.Fields{
		"component":  "todo_client",
		"request_id": requestID,
		"method":     method,
		"url":        u.String(),
	})
	logEntry.Debug("calling todo api")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, u.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logEntry.WithField("status", resp.StatusCode).Debug("todo api returned error status")
		return &StatusError{Code: resp.StatusCode, Body: string(bytes.TrimSpace(raw))}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
