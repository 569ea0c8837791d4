// Package apiclient talks to the ChildGuard REST backend on behalf of the
// report flow and the terminal front-end.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"childguard/backend/internal/models"
)

// DefaultBaseURL is the backend the app talks to unless overridden.
const DefaultBaseURL = "http://localhost:5000"

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("server responded %d", e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Details != "" {
		msg += " (" + e.Details + ")"
	}
	return msg
}

// Client is a thin JSON client for the backend. It sets no timeout of its
// own; callers bound requests through the context.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	// Token is sent as a bearer token when set.
	Token string
}

func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
	}
}

// WithToken returns a copy that authenticates as token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

// SubmitReport posts one report. Any non-2xx status is an error.
func (c *Client) SubmitReport(ctx context.Context, submission models.ReportSubmission) error {
	return c.do(ctx, http.MethodPost, "/api/reports", submission, nil)
}

// GetUser fetches a profile.
func (c *Client) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/"+url.PathEscape(userID), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Signup(ctx context.Context, req models.SignupRequest) error {
	return c.do(ctx, http.MethodPost, "/signup", req, nil)
}

func (c *Client) Signout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/signout", nil, nil)
}

// Locate asks the backend for a human-readable label of a position.
func (c *Client) Locate(ctx context.Context, lat, lon float64) (string, error) {
	var resp models.LocateResponse
	if err := c.do(ctx, http.MethodPost, "/api/locate", models.LocateRequest{Lat: lat, Lon: lon}, &resp); err != nil {
		return "", err
	}
	return resp.Label, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeStatusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeStatusError(resp *http.Response) error {
	statusErr := &StatusError{StatusCode: resp.StatusCode}
	var body struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &body); err == nil {
		statusErr.Message = body.Error
		statusErr.Details = body.Details
	} else {
		statusErr.Message = strings.TrimSpace(string(raw))
	}
	return statusErr
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}
