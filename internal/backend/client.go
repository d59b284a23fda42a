// Package backend is the typed client for the marketplace API this gateway
// fronts. All network traffic to the backend flows through here; callers get
// domain types in and coded errors out, never raw HTTP.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/evtrading/evmarket-gateway/pkg/auth"
	"github.com/evtrading/evmarket-gateway/pkg/config"
	pkgerrors "github.com/evtrading/evmarket-gateway/pkg/errors"
	"github.com/evtrading/evmarket-gateway/pkg/logger"
	"github.com/evtrading/evmarket-gateway/pkg/metrics"
)

var (
	errBaseURLRequired = errors.New("backend base url is required")
	errLoggerRequired  = errors.New("backend logger is required")
)

// Client talks to the marketplace backend with centralized auth, logging,
// metrics, and error mapping.
type Client struct {
	baseURL    string
	httpClient *http.Client
	uploader   *http.Client
	logger     *logger.Logger
	metrics    *metrics.BackendClientMetrics
}

// NewClient initializes the backend client and validates its configuration.
func NewClient(cfg config.BackendConfig, logg *logger.Logger, m *metrics.BackendClientMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		uploader:   &http.Client{Timeout: cfg.UploadTimeout},
		logger:     logg,
		metrics:    m,
	}, nil
}

type request struct {
	method   string
	path     string
	query    url.Values
	body     any
	formBody *multipartBody
}

type multipartBody struct {
	contentType string
	payload     []byte
}

// do executes a backend call and decodes the JSON response into out. The
// session token attached to the context, if any, is replayed as a bearer
// token. Non-2xx responses come back as coded errors; out may be nil when the
// caller only needs the side effect.
func (c *Client) do(ctx context.Context, req request, out any) error {
	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var body io.Reader
	contentType := ""
	client := c.httpClient
	switch {
	case req.formBody != nil:
		body = bytes.NewReader(req.formBody.payload)
		contentType = req.formBody.contentType
		client = c.uploader
	case req.body != nil:
		payload, err := json.Marshal(req.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding backend request")
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building backend request")
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	if session, ok := auth.SessionFrom(ctx); ok && session.BackendToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+session.BackendToken)
	}

	start := time.Now()
	resp, err := client.Do(httpReq)
	if err != nil {
		c.metrics.IncFailure(req.method, req.path)
		lctx := c.logger.WithFields(ctx, map[string]any{
			"method": req.method,
			"path":   req.path,
		})
		c.logger.Error(lctx, "backend call failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "calling marketplace backend")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.IncFailure(req.method, req.path)
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading backend response")
	}
	c.metrics.ObserveRequest(req.method, req.path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapError(ctx, req, resp.StatusCode, respBody)
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding backend response")
	}
	return nil
}

// mapError converts a non-2xx backend response into the coded taxonomy.
func (c *Client) mapError(ctx context.Context, req request, status int, body []byte) error {
	upstream := &pkgerrors.UpstreamError{
		Status: status,
		Method: req.method,
		Path:   req.path,
		Body:   truncate(string(body), 2048),
	}

	message := upstreamMessage(body)
	var code pkgerrors.Code
	switch {
	case status == http.StatusUnauthorized:
		code = pkgerrors.CodeUnauthorized
		if message == "" {
			message = "session is no longer valid"
		}
	case status == http.StatusForbidden:
		code = pkgerrors.CodeForbidden
		if message == "" {
			message = "the marketplace refused this action"
		}
	case status == http.StatusNotFound:
		code = pkgerrors.CodeNotFound
		if message == "" {
			message = "not found"
		}
	case status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		code = pkgerrors.CodeStateConflict
		if message == "" {
			message = "the listing changed while you were looking at it"
		}
	case status == http.StatusBadRequest:
		code = pkgerrors.CodeValidation
		if message == "" {
			message = "the marketplace rejected the request"
		}
	default:
		code = pkgerrors.CodeDependency
		message = "marketplace backend unavailable"
	}

	lctx := c.logger.WithFields(ctx, map[string]any{
		"method": req.method,
		"path":   req.path,
		"status": status,
	})
	c.logger.Warn(lctx, "backend returned error status")
	return pkgerrors.Wrap(code, upstream, message)
}

// upstreamMessage pulls a human-readable message out of a structured error
// body, when the backend sent one.
func upstreamMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if envelope.Message != "" {
		return envelope.Message
	}
	return envelope.Error
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// newMultipartBody packages a JSON document plus image files the way the
// backend's listing endpoints expect.
func newMultipartBody(fieldName string, document any, images []ImageUpload) (*multipartBody, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	payload, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("encoding %s document: %w", fieldName, err)
	}
	if err := writer.WriteField(fieldName, string(payload)); err != nil {
		return nil, fmt.Errorf("writing %s field: %w", fieldName, err)
	}
	for i, img := range images {
		part, err := writer.CreateFormFile("images", img.Filename)
		if err != nil {
			return nil, fmt.Errorf("adding image %d: %w", i, err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, fmt.Errorf("writing image %d: %w", i, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finishing multipart body: %w", err)
	}
	return &multipartBody{
		contentType: writer.FormDataContentType(),
		payload:     buf.Bytes(),
	}, nil
}

// ImageUpload is one image file attached to a listing create or update.
type ImageUpload struct {
	Filename string
	Data     []byte
}
