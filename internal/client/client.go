// Package client is the typed API client used by the swiper terminal
// client and the deck engine's write-through store.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"name-swiper/internal/models"
	"name-swiper/internal/services"
)

// Sentinel errors mapped from API responses.
var (
	// ErrDuplicate is returned when the server rejects a name or tag as a
	// case-insensitive duplicate.
	ErrDuplicate = errors.New("already exists")
	// ErrUnauthorized is returned when the stored token is missing or
	// rejected.
	ErrUnauthorized = errors.New("unauthorized")
)

// Client is the name-swiper API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client. token may be empty until Login.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken replaces the bearer token after a login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// LoginResult carries the session token, the configured identity pair and
// the server's deck tuning.
type LoginResult struct {
	Token             string    `json:"token"`
	User              string    `json:"user"`
	Users             [2]string `json:"users"`
	UndoWindowSeconds int       `json:"undo_window_seconds"`
}

// Login selects an identity and stores the returned token on the client.
func (c *Client) Login(ctx context.Context, user string) (*LoginResult, error) {
	var res LoginResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/session", map[string]string{"user": user}, &res); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	c.token = res.Token
	return &res, nil
}

// ListNames fetches the full catalog.
func (c *Client) ListNames(ctx context.Context) ([]models.NameRecord, error) {
	var names []models.NameRecord
	if err := c.do(ctx, http.MethodGet, "/api/v1/names", nil, &names); err != nil {
		return nil, fmt.Errorf("client.ListNames: %w", err)
	}
	return names, nil
}

// CreateNameRequest is the add-name payload.
type CreateNameRequest struct {
	Name   string        `json:"name"`
	Gender models.Gender `json:"gender"`
	Tags   []string      `json:"tags,omitempty"`
	Source string        `json:"source,omitempty"`
}

// CreateName adds a candidate name to the catalog.
func (c *Client) CreateName(ctx context.Context, req CreateNameRequest) (*models.NameRecord, error) {
	var rec models.NameRecord
	if err := c.do(ctx, http.MethodPost, "/api/v1/names", req, &rec); err != nil {
		return nil, fmt.Errorf("client.CreateName: %w", err)
	}
	return &rec, nil
}

// CastVote records the logged-in user's vote on a name.
func (c *Client) CastVote(ctx context.Context, nameID string, value models.Vote) (*models.NameRecord, error) {
	var rec models.NameRecord
	path := fmt.Sprintf("/api/v1/names/%s/vote", nameID)
	if err := c.do(ctx, http.MethodPut, path, map[string]models.Vote{"value": value}, &rec); err != nil {
		return nil, fmt.Errorf("client.CastVote: %w", err)
	}
	return &rec, nil
}

// ClearVote removes the logged-in user's vote from a name.
func (c *Client) ClearVote(ctx context.Context, nameID string) (*models.NameRecord, error) {
	var rec models.NameRecord
	path := fmt.Sprintf("/api/v1/names/%s/vote", nameID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &rec); err != nil {
		return nil, fmt.Errorf("client.ClearVote: %w", err)
	}
	return &rec, nil
}

// Profile fetches the logged-in user's vote ledger.
func (c *Client) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.do(ctx, http.MethodGet, "/api/v1/profile", nil, &p); err != nil {
		return nil, fmt.Errorf("client.Profile: %w", err)
	}
	return &p, nil
}

// Tags fetches all tags.
func (c *Client) Tags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.do(ctx, http.MethodGet, "/api/v1/tags", nil, &tags); err != nil {
		return nil, fmt.Errorf("client.Tags: %w", err)
	}
	return tags, nil
}

// CreateTag creates a tag, or returns the existing one on a name clash.
func (c *Client) CreateTag(ctx context.Context, name, description string) (*models.Tag, error) {
	var tag models.Tag
	body := map[string]string{"name": name, "description": description}
	if err := c.do(ctx, http.MethodPost, "/api/v1/tags", body, &tag); err != nil {
		return nil, fmt.Errorf("client.CreateTag: %w", err)
	}
	return &tag, nil
}

// Analytics fetches the catalog dashboard numbers.
func (c *Client) Analytics(ctx context.Context) (*services.Analytics, error) {
	var a services.Analytics
	if err := c.do(ctx, http.MethodGet, "/api/v1/analytics", nil, &a); err != nil {
		return nil, fmt.Errorf("client.Analytics: %w", err)
	}
	return &a, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return apiError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if body.Error == "" {
		body.Error = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrDuplicate, body.Error)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrUnauthorized, body.Error)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Error)
}

// VoteStore adapts the client to the deck engine's write-through store.
type VoteStore struct {
	Client *Client
}

// SetVote implements deck.Store.
func (s VoteStore) SetVote(ctx context.Context, nameID string, value *models.Vote) error {
	var err error
	if value == nil {
		_, err = s.Client.ClearVote(ctx, nameID)
	} else {
		_, err = s.Client.CastVote(ctx, nameID, *value)
	}
	return err
}
