package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPClient talks to the authgate REST API over HTTP.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a client for the API at baseURL
// (e.g. "http://127.0.0.1:8080").
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// envelope mirrors the server's response body shape.
type envelope struct {
	Status  string `json:"status"`
	Token   string `json:"token"`
	Message string `json:"message"`
	Data    struct {
		User *User `json:"user"`
	} `json:"data"`
}

func (c *HTTPClient) SignUp(ctx context.Context, username, email, password string) (*User, string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, "", err
	}
	return env.Data.User, env.Token, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*User, string, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, "", err
	}
	return env.Data.User, env.Token, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*User, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil)
	if err != nil {
		return nil, err
	}
	return env.Data.User, nil
}

func (c *HTTPClient) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/health", "", nil)
	return err
}

// do performs one request/response cycle. Transport-level failures wrap
// ErrUnavailable; a "fail" envelope becomes an *Error carrying the server's
// message.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, body any) (*envelope, error) {
	var reqBody *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(b)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &Error{StatusCode: resp.StatusCode, Message: env.Message}
	}

	return &env, nil
}
