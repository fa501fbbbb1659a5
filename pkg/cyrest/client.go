package cyrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cytopush/pkg/buildinfo"
	"github.com/matzehuels/cytopush/pkg/cyjs"
	"github.com/matzehuels/cytopush/pkg/errors"
	"github.com/matzehuels/cytopush/pkg/observability"
	"github.com/matzehuels/cytopush/pkg/style"
)

const (
	// DefaultHost and DefaultPort address a local Cytoscape desktop.
	DefaultHost = "localhost"
	DefaultPort = 1234

	// maxErrorBody caps how much of a failed reply is kept for diagnostics.
	maxErrorBody = 512

	contentTypeJSON = "application/json"
)

// BaseURL builds the v1 API root for host and port.
func BaseURL(host string, port int) string {
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/v1/"
}

// Client talks to one CyREST server.
type Client struct {
	http    *http.Client
	base    *url.URL
	headers map[string]string
	logger  *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout bounds every request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.headers[key] = value }
}

// WithLogger sets the logger used for request tracing at debug level.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client for the API rooted at baseURL
// (e.g. "http://localhost:1234/v1/").
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if err := errors.ValidateBaseURL(baseURL); err != nil {
		return nil, err
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse base URL")
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	c := &Client{
		http:    &http.Client{},
		base:    base,
		headers: map[string]string{"Accept": contentTypeJSON, "User-Agent": buildinfo.UserAgent()},
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client was created with.
func (c *Client) BaseURL() string { return c.base.String() }

// =============================================================================
// Endpoints
// =============================================================================

type networkReply struct {
	NetworkSUID *int64 `json:"networkSUID"`
}

type styleReply struct {
	Title *string `json:"title"`
}

// Status is the reply of the API root.
type Status struct {
	APIVersion    string           `json:"apiVersion"`
	NumberOfCores int              `json:"numberOfCores"`
	MemoryStatus  map[string]int64 `json:"memoryStatus"`
}

// CreateNetwork posts doc and returns the server-assigned network SUID.
func (c *Client) CreateNetwork(ctx context.Context, doc *cyjs.Document) (int64, error) {
	if doc == nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "network document cannot be nil")
	}
	var reply networkReply
	if err := c.do(ctx, http.MethodPost, doc, &reply, "networks"); err != nil {
		return 0, err
	}
	if reply.NetworkSUID == nil {
		return 0, errors.New(errors.ErrCodeSchema, "POST networks: reply has no networkSUID")
	}
	return *reply.NetworkSUID, nil
}

// ApplyLayout runs the named layout algorithm on network suid.
// Layout names are server-defined and not checked locally beyond URL safety.
func (c *Client) ApplyLayout(ctx context.Context, layout string, suid int64) error {
	if err := errors.ValidateLayoutName(layout); err != nil {
		return err
	}
	return c.do(ctx, http.MethodGet, nil, nil, "apply", "layouts", layout, formatSUID(suid))
}

// DeleteStyles removes every registered visual style.
func (c *Client) DeleteStyles(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, nil, nil, "styles")
}

// CreateStyle registers a visual style and returns the title the server
// stored it under, which may differ from the submitted one.
func (c *Client) CreateStyle(ctx context.Context, s style.Document) (string, error) {
	var reply styleReply
	if err := c.do(ctx, http.MethodPost, s, &reply, "styles"); err != nil {
		return "", err
	}
	if reply.Title == nil || *reply.Title == "" {
		return "", errors.New(errors.ErrCodeSchema, "POST styles: reply has no title")
	}
	return *reply.Title, nil
}

// ApplyStyle binds the style registered as title to network suid.
func (c *Client) ApplyStyle(ctx context.Context, title string, suid int64) error {
	if title == "" {
		return errors.New(errors.ErrCodeInvalidInput, "style title cannot be empty")
	}
	if title == "." || title == ".." {
		return errors.New(errors.ErrCodeInvalidInput, "style title %q cannot be used in a URL path", title)
	}
	return c.do(ctx, http.MethodGet, nil, nil, "apply", "styles", title, formatSUID(suid))
}

// Layouts lists the layout algorithms the server offers.
func (c *Client) Layouts(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.do(ctx, http.MethodGet, nil, &names, "apply", "layouts"); err != nil {
		return nil, err
	}
	return names, nil
}

// Status fetches the API root, which doubles as a liveness check.
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var s Status
	if err := c.do(ctx, http.MethodGet, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// =============================================================================
// Transport
// =============================================================================

// endpoint appends escaped path segments to the base URL. Segments are not
// cleaned, so each one stays a single path element.
func (c *Client) endpoint(segments ...string) string {
	if len(segments) == 0 {
		return c.base.String()
	}
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u := *c.base
	u.Path = c.base.Path + strings.Join(segments, "/")
	u.RawPath = c.base.EscapedPath() + strings.Join(escaped, "/")
	return u.String()
}

// do issues one request. A non-nil body is JSON-encoded; a non-nil out
// receives the decoded reply.
func (c *Client) do(ctx context.Context, method string, body, out any, segments ...string) error {
	target := c.endpoint(segments...)
	route := method + " " + strings.Join(segments, "/")

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "%s: encode body", route)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, payload)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "%s: build request", route)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if id := RequestID(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, method, host, path)
	c.logger.Debug("cyrest request", "method", method, "url", target)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		return errors.Wrap(errors.ErrCodeNetwork, err, "%s", route)
	}
	defer resp.Body.Close()
	elapsed := time.Since(start)
	hooks.OnResponse(ctx, method, host, path, resp.StatusCode, elapsed)
	c.logger.Debug("cyrest response", "method", method, "url", target, "status", resp.StatusCode, "duration", elapsed.Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.Wrap(errors.ErrCodeHTTPStatus, &errors.StatusError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}, "%s", route)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(errors.ErrCodeSchema, err, "%s: decode reply", route)
	}
	return nil
}

func formatSUID(suid int64) string {
	return strconv.FormatInt(suid, 10)
}

// =============================================================================
// Request IDs
// =============================================================================

type ctxKey int

const requestIDKey ctxKey = 0

// WithRequestID returns a context whose requests carry id as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the id attached by [WithRequestID], or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// String implements fmt.Stringer for log output.
func (s *Status) String() string {
	return fmt.Sprintf("api %s, %d cores", s.APIVersion, s.NumberOfCores)
}
