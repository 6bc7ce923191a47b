package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ContentKind is how a response body was interpreted.
type ContentKind int

const (
	KindJSON ContentKind = iota
	KindBinary
	KindText
)

func (k ContentKind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindBinary:
		return "binary"
	default:
		return "text"
	}
}

// TokenSource returns the persisted bearer token, or "" when none is stored.
type TokenSource func(ctx context.Context) string

type Options struct {
	Method  string
	Headers map[string]string
	// Body is marshalled as JSON.
	Body any
	// RawBody is sent verbatim with ContentType; used for multipart uploads.
	RawBody     io.Reader
	ContentType string
}

type Result struct {
	Kind        ContentKind
	StatusCode  int
	ContentType string
	JSON        json.RawMessage
	Binary      []byte
	Text        string
	// Filename comes from Content-Disposition on binary downloads.
	Filename string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	tracer     trace.Tracer
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.token = ts }
}

func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tracer:     otel.Tracer("talentify-client/gateway"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call performs one request against the API and classifies the response by its
// declared content type. Every failure, including transport errors, is an *APIError.
func (c *Client) Call(ctx context.Context, endpoint string, opts Options) (*Result, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	ctx, span := c.tracer.Start(ctx, "gateway "+method+" "+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	res, err := c.do(ctx, method, endpoint, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("http.status_code", res.StatusCode),
		attribute.String("http.response.kind", res.Kind.String()),
	)
	return res, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, opts Options) (*Result, error) {
	var body io.Reader
	contentType := ""
	switch {
	case opts.RawBody != nil:
		body = opts.RawBody
		contentType = opts.ContentType
	case opts.Body != nil:
		payload, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, &APIError{Message: "Failed to encode request", Err: fmt.Errorf("marshal request: %w", err)}
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, &APIError{Message: networkErrorMessage, Err: fmt.Errorf("create request: %w", err)}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	if c.token != nil {
		if token := c.token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: networkErrorMessage, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: networkErrorMessage, Err: fmt.Errorf("read response: %w", err)}
	}

	res := &Result{
		Kind:        Classify(resp.Header.Get("Content-Type")),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
	}
	switch res.Kind {
	case KindJSON:
		res.JSON = raw
	case KindBinary:
		res.Binary = raw
		res.Filename = attachmentFilename(resp.Header.Get("Content-Disposition"))
	default:
		res.Text = string(raw)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newHTTPError(res)
	}
	if res.Kind == KindJSON && len(raw) > 0 && !json.Valid(raw) {
		return nil, &APIError{Status: resp.StatusCode, Message: "Invalid JSON response"}
	}
	return res, nil
}

var binaryTypes = []string{
	"application/pdf",
	"application/zip",
	"application/octet-stream",
	"application/msword",
	"application/vnd.openxmlformats-officedocument",
}

// Classify maps a Content-Type header onto the three result kinds.
func Classify(contentType string) ContentKind {
	ct := strings.ToLower(contentType)
	if strings.Contains(ct, "application/json") {
		return KindJSON
	}
	for _, t := range binaryTypes {
		if strings.Contains(ct, t) {
			return KindBinary
		}
	}
	return KindText
}

func attachmentFilename(disposition string) string {
	if disposition == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(disposition)
	if err != nil {
		return ""
	}
	return params["filename"]
}

// Decode unmarshals a JSON result into T.
func Decode[T any](res *Result) (*T, error) {
	if res == nil || res.Kind != KindJSON {
		return nil, &APIError{Message: "Unexpected response from server"}
	}
	out := new(T)
	if len(res.JSON) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(res.JSON, out); err != nil {
		return nil, &APIError{Status: res.StatusCode, Message: "Unexpected response from server", Err: err}
	}
	return out, nil
}
