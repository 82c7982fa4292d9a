// Package api is the client for the remote NoteHub notes service.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/marcus/notehub/internal/metrics"
	"github.com/marcus/notehub/internal/notify"
)

const (
	// DefaultBaseURL is the public NoteHub endpoint.
	DefaultBaseURL = "https://notehub-public.goit.study/api"

	defaultTimeout  = 15 * time.Second
	maxResponseSize = 4 << 20
)

// Operation names, used for errors, logs and metrics.
const (
	OpList   = "list"
	OpGet    = "get"
	OpCreate = "create"
	OpDelete = "delete"
)

// user-facing notification text per operation
var failureText = map[string]string{
	OpList:   "Failed to fetch notes",
	OpGet:    "Failed to fetch note details",
	OpCreate: "Failed to create note",
	OpDelete: "Failed to delete note",
}

// Client talks to the notes service. It is safe for concurrent use.
type Client struct {
	baseURL   string
	token     string
	http      *http.Client
	logger    *slog.Logger
	sink      notify.Sink
	metrics   *metrics.Metrics
	requestID func() string
}

var _ Service = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithSink sets the notification sink that receives one event per failed
// call and one per successful mutation.
func WithSink(s notify.Sink) Option {
	return func(c *Client) { c.sink = s }
}

// WithMetrics records request counts and latency.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// New creates a client. token is required.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("api: bearer token is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("api: invalid base URL %q: %w", baseURL, err)
	}
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		token:     token,
		http:      &http.Client{Timeout: defaultTimeout},
		logger:    slog.Default(),
		sink:      notify.Discard,
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListNotes fetches one page of notes.
func (c *Client) ListNotes(ctx context.Context, params ListParams) (*NoteList, error) {
	if params.Page < 1 || params.PerPage < 1 {
		err := &Error{
			Kind:    KindValidation,
			Op:      OpList,
			Message: fmt.Sprintf("page and perPage must be >= 1 (got %d, %d)", params.Page, params.PerPage),
		}
		return nil, c.fail(ctx, OpList, err)
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(params.Page))
	query.Set("perPage", strconv.Itoa(params.PerPage))
	if params.Search != "" {
		query.Set("search", params.Search)
	}

	body, err := c.do(ctx, OpList, http.MethodGet, "/notes", query, nil)
	if err != nil {
		return nil, c.fail(ctx, OpList, err)
	}
	list, err := decodeList(body, params)
	if err != nil {
		return nil, c.fail(ctx, OpList, &Error{Kind: KindNetwork, Op: OpList, Err: err})
	}
	return list, nil
}

// GetNote fetches a single note.
func (c *Client) GetNote(ctx context.Context, id string) (*Note, error) {
	if id == "" {
		return nil, c.fail(ctx, OpGet, &Error{Kind: KindNotFound, Op: OpGet, Message: "empty id"})
	}
	body, err := c.do(ctx, OpGet, http.MethodGet, "/notes/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, c.fail(ctx, OpGet, err)
	}
	note, err := decodeNote(body)
	if err != nil {
		return nil, c.fail(ctx, OpGet, &Error{Kind: KindNetwork, Op: OpGet, Err: err})
	}
	return note, nil
}

// CreateNote creates a note and returns it as stored by the service.
func (c *Client) CreateNote(ctx context.Context, params CreateParams) (*Note, error) {
	body, err := c.do(ctx, OpCreate, http.MethodPost, "/notes", nil, params)
	if err != nil {
		return nil, c.fail(ctx, OpCreate, err)
	}
	note, err := decodeNote(body)
	if err != nil {
		return nil, c.fail(ctx, OpCreate, &Error{Kind: KindNetwork, Op: OpCreate, Err: err})
	}
	notify.Emit(ctx, c.sink, notify.Success("Note created successfully"))
	return note, nil
}

// DeleteNote deletes a note and returns the deleted note.
func (c *Client) DeleteNote(ctx context.Context, id string) (*Note, error) {
	if id == "" {
		return nil, c.fail(ctx, OpDelete, &Error{Kind: KindNotFound, Op: OpDelete, Message: "empty id"})
	}
	body, err := c.do(ctx, OpDelete, http.MethodDelete, "/notes/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return nil, c.fail(ctx, OpDelete, err)
	}
	note, err := decodeNote(body)
	if err != nil {
		// The deletion happened; some deployments answer with an empty body.
		c.logger.Debug("api: delete response not decodable", "id", id, "error", err)
		note = &Note{ID: id}
	}
	notify.Emit(ctx, c.sink, notify.Success("Note deleted successfully"))
	return note, nil
}

// fail emits the user notification for err and returns it unchanged.
func (c *Client) fail(ctx context.Context, op string, err error) error {
	text := failureText[op]
	if kind := KindOf(err); kind != 0 {
		text += ": " + kind.String()
	}
	notify.Emit(ctx, c.sink, notify.Error(text))
	return err
}

// do performs one HTTP exchange and classifies the outcome.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, payload any) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, &Error{Kind: KindValidation, Op: op, Err: err}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", c.requestID())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(op, "transport_error", time.Since(start))
		c.logger.Warn("api: request failed", "op", op, "method", method, "url", u, "error", err)
		return nil, &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		c.metrics.ObserveRequest(op, "transport_error", time.Since(start))
		return nil, &Error{Kind: KindNetwork, Op: op, Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := kindForStatus(resp.StatusCode)
		c.metrics.ObserveRequest(op, outcomeLabel(kind), time.Since(start))
		c.logger.Warn("api: request rejected", "op", op, "method", method, "url", u, "status", resp.StatusCode)
		return nil, &Error{
			Kind:    kind,
			Op:      op,
			Status:  resp.StatusCode,
			Message: serverMessage(body, resp.StatusCode),
		}
	}

	c.metrics.ObserveRequest(op, "ok", time.Since(start))
	c.logger.Debug("api: request ok", "op", op, "method", method, "url", u, "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}

func outcomeLabel(k Kind) string {
	switch k {
	case KindAuth:
		return "auth_error"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation_error"
	default:
		return "server_error"
	}
}

// serverMessage extracts {"message": ...} or {"error": ...} from an error body.
func serverMessage(body []byte, status int) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		var s string
		if len(payload.Message) > 0 && json.Unmarshal(payload.Message, &s) == nil && s != "" {
			return s
		}
		var list []string
		if len(payload.Message) > 0 && json.Unmarshal(payload.Message, &list) == nil && len(list) > 0 {
			return strings.Join(list, "; ")
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return http.StatusText(status)
}
