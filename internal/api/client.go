package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://localhost:5000/api/v1"
	maxBodyBytes   = 10 << 20
)

// Client talks to the marketplace REST API and unwraps its response envelope.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	metrics    *Metrics
	log        *zap.Logger
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func NewClient(baseURL string, tokens TokenSource, log *zap.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if tokens == nil {
		tokens = StaticToken("")
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		tokens: tokens,
		log:    log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request describes one API call. ErrorMessage is shown when the server gives no message of its own.
type Request struct {
	Method       string
	Path         string
	Query        Query
	JSON         any
	Form         *Form
	ErrorMessage string
}

// Do performs r and decodes the envelope's data into out. Any failure is returned as *Error.
func (c *Client) Do(ctx context.Context, r Request, out any) error {
	start := time.Now()
	err := c.do(ctx, r, out)
	c.metrics.observe(r.Method, err, time.Since(start))
	if err != nil {
		c.log.Debug("api request failed",
			zap.String("method", r.Method),
			zap.String("path", r.Path),
			zap.String("kind", string(KindOf(err))),
			zap.Error(err),
		)
	}
	return err
}

func (c *Client) do(ctx context.Context, r Request, out any) error {
	url := c.baseURL + r.Path
	if len(r.Query) > 0 {
		url += "?" + r.Query.Encode()
	}

	var body io.Reader
	var contentType string
	switch {
	case r.Form != nil:
		b, ct, err := r.Form.Encode()
		if err != nil {
			return &Error{Kind: KindValidation, Message: "Invalid request payload", Err: err}
		}
		body, contentType = b, ct
	case r.JSON != nil:
		b, err := json.Marshal(r.JSON)
		if err != nil {
			return &Error{Kind: KindValidation, Message: "Invalid request payload", Err: err}
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, url, body)
	if err != nil {
		return Normalize(fmt.Errorf("build request: %w", err), r.ErrorMessage)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	reqID := RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
	}
	req.Header.Set("X-Request-ID", reqID)

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return Normalize(fmt.Errorf("token: %w", err), r.ErrorMessage)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Normalize(err, r.ErrorMessage)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Normalize(err, r.ErrorMessage)
	}

	return decodeEnvelope(resp.StatusCode, raw, out, r.ErrorMessage)
}
