package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"DemandCast/internal/domain/repository"
	xhttp "DemandCast/pkg/http"
	applogger "DemandCast/pkg/logger"
)

// connectErr is the error body used when no response was obtained at all.
const connectMessage = "Failed to connect to the server."

// TokenSource supplies the current bearer token, which may be empty or stale.
type TokenSource interface {
	Token() string
}

// Options holds per-request parameters. Method defaults to GET, or POST when
// a body is present.
type Options struct {
	Method string
	Body   interface{}
	Query  map[string][]string
}

// Result is the discriminated outcome of one backend call. Exactly one of
// Data and Err carries meaning: Data on 2xx, Err otherwise. Transport
// failures land in Err with Status 0.
type Result struct {
	Data   json.RawMessage
	Err    map[string]interface{}
	Status int
}

// Ok reports whether the call landed in the success branch.
func (r *Result) Ok() bool {
	return r.Err == nil && r.Status >= 200 && r.Status < 300
}

// Decode unmarshals the success body into dest. Empty bodies decode to the
// zero value.
func (r *Result) Decode(dest interface{}) error {
	if len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, dest)
}

// DetailMessage extracts a human-readable message from the error branch. A
// string `detail` is used verbatim; a sequence of {msg} objects is joined
// with ", "; anything else falls back to the given message.
func (r *Result) DetailMessage(fallback string) string {
	if len(r.Err) == 0 {
		return fallback
	}
	switch d := r.Err["detail"].(type) {
	case string:
		if d != "" {
			return d
		}
	case []interface{}:
		msgs := make([]string, 0, len(d))
		for _, item := range d {
			if obj, ok := item.(map[string]interface{}); ok {
				if msg, ok := obj["msg"].(string); ok && msg != "" {
					msgs = append(msgs, msg)
				}
			}
		}
		if len(msgs) > 0 {
			return strings.Join(msgs, ", ")
		}
	}
	if m, ok := r.Err["message"].(string); ok && m != "" {
		return m
	}
	return fallback
}

// Client is the single chokepoint for authenticated JSON calls to the
// backend. It never returns a Go error; every failure mode is captured in
// the Result's error branch.
type Client struct {
	baseURL string
	http    *xhttp.Client
	tokens  TokenSource
	metrics repository.Metrics
	log     *applogger.Logger
}

// New creates a gateway client for the given backend base URL.
func New(baseURL string, timeout time.Duration, tokens TokenSource, metrics repository.Metrics, log *applogger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
		tokens:  tokens,
		metrics: metrics,
		log:     log,
	}
}

// Do issues one call against the backend. Path is joined to the base URL
// with duplicate slashes stripped.
func (c *Client) Do(ctx context.Context, path string, opts *Options) Result {
	if opts == nil {
		opts = &Options{}
	}

	method := opts.Method
	if method == "" {
		if opts.Body != nil {
			method = xhttp.MethodPost
		} else {
			method = xhttp.MethodGet
		}
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if token := c.tokens.Token(); token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	url := c.baseURL + "/" + strings.TrimLeft(path, "/")

	start := time.Now()
	resp, err := c.http.SendRequest(ctx, &xhttp.RequestOptions{
		Method:      method,
		URL:         url,
		Headers:     headers,
		QueryParams: opts.Query,
		Body:        opts.Body,
	})
	if err != nil {
		c.log.Warn("backend unreachable",
			applogger.String("path", path),
			applogger.Error(err),
		)
		c.metrics.RecordAPIRequest(path, method, 0)
		return Result{Err: map[string]interface{}{"message": connectMessage}, Status: 0}
	}
	defer resp.Body.Close()

	c.metrics.RecordAPIRequest(path, method, resp.StatusCode)
	c.metrics.RecordLatency("api_request", time.Since(start).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Err: map[string]interface{}{"message": http.StatusText(resp.StatusCode)}, Status: resp.StatusCode}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if len(body) > 0 && !json.Valid(body) {
			// A 2xx with a non-JSON body is still a success; callers see the
			// raw text as a JSON string, mirroring header-only endpoints.
			quoted, _ := json.Marshal(string(body))
			return Result{Data: quoted, Status: resp.StatusCode}
		}
		return Result{Data: body, Status: resp.StatusCode}
	}

	errBody := map[string]interface{}{}
	if len(body) == 0 || json.Unmarshal(body, &errBody) != nil || len(errBody) == 0 {
		errBody = map[string]interface{}{"message": http.StatusText(resp.StatusCode)}
	}
	return Result{Err: errBody, Status: resp.StatusCode}
}
