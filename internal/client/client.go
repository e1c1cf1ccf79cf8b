// Package client is the CLI-side API client. It signs in against the
// server and keeps the resulting session in the local session slot.
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

	"github.com/mentara/apiserver/types"
)

const defaultTimeout = 30 * time.Second

// Client talks to the mentara API server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a client for the given base URL.
func New(baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api base url is required")
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

// AuthResult mirrors the server's auth entry-point response.
type AuthResult struct {
	Success bool           `json:"success"`
	Account *types.Account `json:"account"`
	Token   string         `json:"token,omitempty"`
	Message string         `json:"message,omitempty"`
	Warning string         `json:"warning,omitempty"`
}

// Login exchanges credentials for an account and API token.
func (c *Client) Login(ctx context.Context, username, password string) (AuthResult, error) {
	payload := map[string]string{"username": username, "password": password}
	result, err := c.postAuth(ctx, "/auth/login", payload)
	if err != nil {
		return AuthResult{}, err
	}
	if result.Account == nil || result.Token == "" {
		return AuthResult{}, errors.New("malformed server response: missing account or token")
	}
	return result, nil
}

// RegisterParams carries the signup form.
type RegisterParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
	NISN     string `json:"nisn,omitempty"`
	NIP      string `json:"nip,omitempty"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, params RegisterParams) (AuthResult, error) {
	return c.postAuth(ctx, "/auth/register", params)
}

func (c *Client) postAuth(ctx context.Context, path string, payload any) (AuthResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return AuthResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return AuthResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return AuthResult{}, fmt.Errorf("reach server: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return AuthResult{}, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return AuthResult{}, errors.New(apiErr.Error)
		}
		return AuthResult{}, fmt.Errorf("server returned %d", resp.StatusCode)
	}

	var result AuthResult
	if err := json.Unmarshal(data, &result); err != nil {
		return AuthResult{}, fmt.Errorf("parse response: %w", err)
	}
	return result, nil
}
