// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/ZenaguiAnas/RSA-ELGAMAL-Crypto/internal/operation"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

const (
	// DefaultBaseURL is where the backend listens in a default install.
	DefaultBaseURL = "http://127.0.0.1:8000"

	// DefaultTimeout bounds a single request at the http.Client level.
	DefaultTimeout = 60 * time.Second

	// DefaultMaxResponseSize caps how much of a response body is read.
	DefaultMaxResponseSize = 4 * 1024 * 1024

	// RequestIDHeader carries the operation ID to the backend.
	RequestIDHeader = "X-Request-ID"

	userAgent = "cryptodesk/0.1.0"
)

// ClientConfig holds configuration options for the client.
type ClientConfig struct {
	// BaseURL is the service base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout for a single request (default: 60s, 0 after defaults means none)
	Timeout time.Duration

	// MaxResponseSize caps the bytes read from a response body (default: 4MB)
	MaxResponseSize int64

	// RequestsPerSecond paces outgoing requests; 0 disables pacing.
	RequestsPerSecond float64

	// Burst is the limiter burst size when pacing is enabled (default: 1)
	Burst int

	// HTTPClient overrides the underlying client (tests).
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:         DefaultBaseURL,
		Timeout:         DefaultTimeout,
		MaxResponseSize: DefaultMaxResponseSize,
		Burst:           1,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the cryptographic service.
//
// The Client is safe for concurrent use; it holds no per-operation state.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a client, filling zero values from DefaultConfig.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := *config

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxResponseSize <= 0 {
		cfg.MaxResponseSize = DefaultMaxResponseSize
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}

	c := &Client{config: cfg, httpClient: httpClient}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// REQUEST IDS
// =============================================================================

type requestIDKey struct{}

// WithRequestID attaches id to ctx; Call sends it as X-Request-ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// =============================================================================
// REQUEST BUILDING
// =============================================================================

// Endpoint returns the request path for kind under algorithm.
func Endpoint(kind operation.Kind, algorithm operation.Algorithm) (string, error) {
	if kind == operation.KindIssueCertificate {
		return "/generate-certificate", nil
	}
	if !kind.Valid() {
		return "", fmt.Errorf("unknown operation %q", kind)
	}
	if !algorithm.Valid() {
		return "", fmt.Errorf("invalid algorithm %q", algorithm)
	}
	return "/" + string(algorithm) + "/" + string(kind), nil
}

// requestBody builds the JSON body for kind from in.
func requestBody(kind operation.Kind, in operation.Input) any {
	switch kind {
	case operation.KindEncrypt, operation.KindSign:
		return MessageRequest{Message: in.Message}
	case operation.KindDecrypt:
		return CipherTextRequest{CipherText: in.CipherText}
	case operation.KindVerifySignature:
		return SignatureRequest{Message: in.Message, Signature: in.Signature}
	case operation.KindIssueCertificate:
		return in.Certificate
	}
	return nil
}

// =============================================================================
// CALL
// =============================================================================

// Call performs one operation and returns its tagged result. Any non-2xx
// status, network failure, oversize or unparseable body becomes a failed
// Result; Call never panics on backend input.
func (c *Client) Call(ctx context.Context, kind operation.Kind, algorithm operation.Algorithm, in operation.Input) Result {
	path, err := Endpoint(kind, algorithm)
	if err != nil {
		return failure(&Error{Type: ErrTypeInvalidRequest, Message: "failed to build request", Cause: err})
	}

	body, err := json.Marshal(requestBody(kind, in))
	if err != nil {
		return failure(&Error{Type: ErrTypeInvalidRequest, Message: "failed to marshal request", Cause: err})
	}

	respBody, apiErr := c.post(ctx, path, body)
	if apiErr != nil {
		return failure(apiErr)
	}

	out, apiErr := parseOutput(kind, respBody)
	if apiErr != nil {
		return failure(apiErr)
	}
	return success(out)
}

// post sends body to path and returns the response body of a 2xx response.
func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, *Error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Type: ErrTypeCanceled, Message: "request not sent", Cause: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Type: ErrTypeInvalidRequest, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(RequestIDHeader, requestIDFrom(ctx))

	logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, &Error{Type: ErrTypeCanceled, Message: "request canceled", Cause: err}
		}
		return nil, &Error{Type: ErrTypeConnection, Message: "request failed", Cause: err}
	}
	defer resp.Body.Close()
	logResponse(req, resp, time.Since(start))

	data, apiErr := c.readResponse(resp)
	if apiErr != nil {
		return nil, apiErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Type:    ErrTypeStatus,
			Status:  resp.StatusCode,
			Detail:  parseDetail(data),
			Message: "service returned " + http.StatusText(resp.StatusCode),
		}
	}
	return data, nil
}

// readResponse reads the response body with a size limit.
func (c *Client) readResponse(resp *http.Response) ([]byte, *Error) {
	limit := c.config.MaxResponseSize
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &Error{Type: ErrTypeConnection, Status: resp.StatusCode, Message: "failed to read response", Cause: err}
	}
	if int64(len(data)) > limit {
		return nil, &Error{
			Type:    ErrTypeTooLarge,
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("response exceeded maximum size of %d bytes", limit),
		}
	}
	return data, nil
}

// parseDetail extracts a string "detail" from an error body. Bodies that are
// not JSON, or whose detail is not a string, yield "".
func parseDetail(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var env errorResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if s, ok := env.Detail.(string); ok {
		return s
	}
	return ""
}

// parseOutput decodes a 2xx body into the result shape for kind.
func parseOutput(kind operation.Kind, body []byte) (operation.Output, *Error) {
	invalid := func(cause error) *Error {
		return &Error{Type: ErrTypeInvalidResponse, Message: "failed to parse response", Cause: cause}
	}
	missing := func(field string) *Error {
		return &Error{Type: ErrTypeInvalidResponse, Message: "response missing " + field}
	}

	out := operation.Output{Kind: kind}
	switch kind {
	case operation.KindEncrypt:
		var r EncryptResponse
		if err := json.Unmarshal(body, &r); err != nil {
			return out, invalid(err)
		}
		if r.EncryptedMessage == nil {
			return out, missing("encryptedMessage")
		}
		out.Text = *r.EncryptedMessage
	case operation.KindDecrypt:
		var r DecryptResponse
		if err := json.Unmarshal(body, &r); err != nil {
			return out, invalid(err)
		}
		if r.DecryptedMessage == nil {
			return out, missing("decryptedMessage")
		}
		out.Text = *r.DecryptedMessage
	case operation.KindSign:
		var r SignResponse
		if err := json.Unmarshal(body, &r); err != nil {
			return out, invalid(err)
		}
		if r.Signature == nil {
			return out, missing("signature")
		}
		out.Text = *r.Signature
	case operation.KindVerifySignature:
		var r VerifyResponse
		if err := json.Unmarshal(body, &r); err != nil {
			return out, invalid(err)
		}
		if r.IsValid == nil {
			return out, missing("isValid")
		}
		out.Valid = *r.IsValid
	case operation.KindIssueCertificate:
		var r CertificateResponse
		if err := json.Unmarshal(body, &r); err != nil {
			return out, invalid(err)
		}
		if r.Certificate == nil {
			return out, missing("certificate")
		}
		out.Text = *r.Certificate
	default:
		return out, &Error{Type: ErrTypeInvalidRequest, Message: fmt.Sprintf("unknown operation %q", kind)}
	}
	return out, nil
}

// =============================================================================
// TYPED HELPERS
// =============================================================================

// Encrypt returns the backend's encrypted message for message.
func (c *Client) Encrypt(ctx context.Context, algorithm operation.Algorithm, message string) (string, error) {
	res := c.Call(ctx, operation.KindEncrypt, algorithm, operation.Input{Message: message})
	if !res.OK() {
		return "", res.Err
	}
	return res.Output.Text, nil
}

// Decrypt returns the plaintext for cipherText.
func (c *Client) Decrypt(ctx context.Context, algorithm operation.Algorithm, cipherText string) (string, error) {
	res := c.Call(ctx, operation.KindDecrypt, algorithm, operation.Input{CipherText: cipherText})
	if !res.OK() {
		return "", res.Err
	}
	return res.Output.Text, nil
}

// Sign returns the backend's signature over message.
func (c *Client) Sign(ctx context.Context, algorithm operation.Algorithm, message string) (string, error) {
	res := c.Call(ctx, operation.KindSign, algorithm, operation.Input{Message: message})
	if !res.OK() {
		return "", res.Err
	}
	return res.Output.Text, nil
}

// VerifySignature reports whether signature is valid for message. A false
// result with a nil error is a negative verdict, not a failure.
func (c *Client) VerifySignature(ctx context.Context, algorithm operation.Algorithm, message, signature string) (bool, error) {
	res := c.Call(ctx, operation.KindVerifySignature, algorithm, operation.Input{Message: message, Signature: signature})
	if !res.OK() {
		return false, res.Err
	}
	return res.Output.Valid, nil
}

// GenerateCertificate returns a PEM certificate for the subject in req.
func (c *Client) GenerateCertificate(ctx context.Context, req operation.CertificateRequest) (string, error) {
	res := c.Call(ctx, operation.KindIssueCertificate, "", operation.Input{Certificate: req})
	if !res.OK() {
		return "", res.Err
	}
	return res.Output.Text, nil
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckRunning verifies that the service answers HTTP at its base URL.
// Any HTTP response counts as reachable; the backend has no root route.
func (c *Client) CheckRunning(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/", nil)
	if err != nil {
		return &Error{Type: ErrTypeInvalidRequest, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Type: ErrTypeConnection, Message: "service not reachable at " + c.config.BaseURL, Cause: err}
	}
	resp.Body.Close()
	return nil
}

// =============================================================================
// LOGGING
// =============================================================================

// logRequest logs an API request without its body.
func logRequest(req *http.Request) {
	log.Printf("API Request: %s %s [%s]", req.Method, req.URL.Path, req.Header.Get(RequestIDHeader))
}

// logResponse logs status and duration only.
func logResponse(req *http.Request, resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %s %s -> %d (%v)", req.Method, req.URL.Path, resp.StatusCode, duration.Round(time.Millisecond))
}
