// Package ai is a thin pass-through to the content generation vendor.
// Every call is one HTTP round-trip; the vendor's error text is wrapped
// and surfaced, never retried.
package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mentara/apiserver/config"
	"github.com/mentara/apiserver/types"
)

const defaultTimeout = 120 * time.Second

// Client talks to the vendor's completion, image, and video endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a vendor client from config.
func NewClient(cfg config.AIConfig) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("ai base url is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ai api key is required")
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}, nil
}

type chatRequest struct {
	Model    string              `json:"model"`
	Messages []types.ChatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message types.ChatMessage `json:"message"`
	} `json:"choices"`
}

// Chat sends a tutor conversation and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, messages []types.ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("at least one message is required")
	}

	var resp chatResponse
	err := c.postJSON(ctx, "/v1/chat/completions", chatRequest{
		Model:    c.model,
		Messages: messages,
	}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("vendor returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Complete is the single-prompt convenience used by lesson and quiz
// generation.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.Chat(ctx, []types.ChatMessage{{Role: "user", Content: prompt}})
}

type imageRequest struct {
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// GenerateImage asks the vendor for one image and returns the decoded
// PNG bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	var resp imageResponse
	if err := c.postJSON(ctx, "/v1/images/generations", imageRequest{Prompt: prompt}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, errors.New("vendor returned no image")
	}
	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return data, nil
}

type videoSearchResponse struct {
	Results []types.VideoResult `json:"results"`
}

// SearchVideos queries the vendor's video index.
func (c *Client) SearchVideos(ctx context.Context, query string, limit int) ([]types.VideoResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query is required")
	}
	if limit < 1 {
		limit = 10
	}

	var resp videoSearchResponse
	payload := map[string]any{"query": query, "limit": limit}
	if err := c.postJSON(ctx, "/v1/videos/search", payload, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("vendor request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("vendor returned %d: %s", resp.StatusCode, strings.TrimSpace(string(message)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
