// Package client is the Go SDK for the hd-mobile REST API. It carries the
// report types the dashboards render, attaches the caller's access token to
// every report request, and treats malformed server responses as failures so
// callers can fall back to local sample data.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrMalformedResponse is returned when the server answers with a non-2xx
// status or a body that does not carry the expected payload.
var ErrMalformedResponse = errors.New("malformed server response")

// Report is the client-side report record. Confirm is tri-state: nil means
// unconfirmed, true confirmed-hazard, false confirmed-safe. Status is a
// client-local annotation (e.g. "officers dispatched") and is never sent to
// the server.
type Report struct {
	ID          int64   `json:"report_id"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Descriptor  string  `json:"descriptor"`
	Confirm     *bool   `json:"confirm_bool"`
	Probability int     `json:"probability"`
	Status      string  `json:"-"`
}

// User is the client-side account record returned by register and login.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Client talks to the hd-mobile backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger replaces the default logger.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Client) { c.logger = log }
}

// WithToken pre-sets the access token, e.g. one restored from device storage.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for the given base URL (scheme and host, no trailing
// slash required).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logrus.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the access token attached to report requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

type reportListEnvelope struct {
	Status  string    `json:"status"`
	Reports []*Report `json:"reports"`
}

// FetchReports retrieves the current report list. A response without a
// reports array is a malformed response, not an empty list.
func (c *Client) FetchReports(ctx context.Context) ([]*Report, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/reports", nil)
	if err != nil {
		return nil, err
	}

	var envelope reportListEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if envelope.Reports == nil {
		return nil, fmt.Errorf("%w: missing reports array", ErrMalformedResponse)
	}
	return envelope.Reports, nil
}

// CreateReport submits a report and returns the server's record of it.
func (c *Client) CreateReport(ctx context.Context, report *Report) (*Report, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/reports/", report)
	if err != nil {
		return nil, err
	}

	created := &Report{}
	if err := json.Unmarshal(body, created); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return created, nil
}

// ConfirmReport marks a report as a confirmed hazard (true) or confirmed
// safe (false).
func (c *Client) ConfirmReport(ctx context.Context, id int64, confirm bool) error {
	payload := struct {
		ReportID    int64 `json:"report_id"`
		ConfirmBool bool  `json:"confirm_bool"`
	}{ReportID: id, ConfirmBool: confirm}

	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/reports/confirm/%d", id), payload)
	return err
}

// DeleteReport removes a report.
func (c *Client) DeleteReport(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/reports/%d", id), nil)
	return err
}

type authEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	User    *User  `json:"user"`
	Token   string `json:"token"`
}

// Register creates an account and remembers the returned token for
// subsequent report requests.
func (c *Client) Register(ctx context.Context, name, email, password, role string) (*User, error) {
	payload := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}{Name: name, Email: email, Password: password, Role: role}

	return c.authenticate(ctx, "/api/auth/register", payload)
}

// Login authenticates the account and remembers the returned token for
// subsequent report requests.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	payload := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{Email: email, Password: password}

	return c.authenticate(ctx, "/api/auth/login", payload)
}

func (c *Client) authenticate(ctx context.Context, path string, payload any) (*User, error) {
	body, err := c.do(ctx, http.MethodPost, path, payload)
	if err != nil {
		return nil, err
	}

	var envelope authEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if envelope.User == nil || envelope.Token == "" {
		return nil, fmt.Errorf("%w: missing user or token", ErrMalformedResponse)
	}

	c.token = envelope.Token
	return envelope.User, nil
}

// do sends one JSON request and returns the raw response body. Non-2xx
// statuses are reported as ErrMalformedResponse with the server's message
// when one is present.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope authEnvelope
		if json.Unmarshal(body, &envelope) == nil && envelope.Message != "" {
			return nil, fmt.Errorf("%w: status %d: %s", ErrMalformedResponse, resp.StatusCode, envelope.Message)
		}
		return nil, fmt.Errorf("%w: status %d", ErrMalformedResponse, resp.StatusCode)
	}

	return body, nil
}
