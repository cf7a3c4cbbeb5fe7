package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ClientConfig configures the backend API client.
type ClientConfig struct {
	// BaseURL is the deployment origin, without a trailing slash.
	BaseURL string

	// Timeout bounds each request. Zero disables the timeout: a
	// stalled request stays pending until the context is cancelled.
	Timeout time.Duration

	// DeviceID is sent as X-Client-ID on every request when set.
	DeviceID string
}

// Client talks to the study platform REST API. Each call is a single
// request; there is no retry or batching.
type Client struct {
	baseURL    string
	httpClient *http.Client
	deviceID   string
	token      string
}

// NewClient creates a backend API client.
func NewClient(cfg ClientConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		deviceID:   cfg.DeviceID,
	}
}

// SetToken sets the bearer token attached to authenticated calls.
// An empty token removes the Authorization header.
func (c *Client) SetToken(token string) {
	c.token = token
}

// LoginResult is the success payload of the login endpoint.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var result LoginResult
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", body, &result); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &result, nil
}

// Register creates a new account. It never authenticates the client.
func (c *Client) Register(ctx context.Context, username, email, password string) (*User, error) {
	body := map[string]string{"username": username, "email": email, "password": password}
	var result struct {
		Message string `json:"message"`
		User    User   `json:"user"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/register", body, &result); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &result.User, nil
}

// Dashboard fetches the aggregate dashboard payload.
func (c *Client) Dashboard(ctx context.Context) (*DashboardData, error) {
	var result DashboardData
	if err := c.doRequest(ctx, http.MethodGet, "/api/dashboard", nil, &result); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return &result, nil
}

// CreateSession starts a new study session on the server.
func (c *Client) CreateSession(ctx context.Context) (*StudySession, error) {
	var result struct {
		Message string       `json:"message"`
		Session StudySession `json:"session"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/api/sessions", nil, &result); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &result.Session, nil
}

// Sessions fetches the user's session history, most recent first.
func (c *Client) Sessions(ctx context.Context) ([]StudySession, error) {
	var result struct {
		Sessions []StudySession `json:"sessions"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/api/sessions", nil, &result); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return result.Sessions, nil
}

// AddQuestion appends a question to an active session.
func (c *Client) AddQuestion(ctx context.Context, sessionID int, q QuestionRequest) error {
	path := fmt.Sprintf("/api/sessions/%d/questions", sessionID)
	if err := c.doRequest(ctx, http.MethodPost, path, q, nil); err != nil {
		return fmt.Errorf("add question: %w", err)
	}
	return nil
}

// EndSession finishes a session and returns it with the final score.
func (c *Client) EndSession(ctx context.Context, sessionID int) (*StudySession, error) {
	path := fmt.Sprintf("/api/sessions/%d/end", sessionID)
	var result struct {
		Message string       `json:"message"`
		Session StudySession `json:"session"`
	}
	if err := c.doRequest(ctx, http.MethodPut, path, nil, &result); err != nil {
		return nil, fmt.Errorf("end session: %w", err)
	}
	return &result.Session, nil
}

// Chat sends one message to the assistant endpoint.
func (c *Client) Chat(ctx context.Context, message string) (*ChatReply, error) {
	body := map[string]string{"message": message}
	var result ChatReply
	if err := c.doRequest(ctx, http.MethodPost, "/api/chat", body, &result); err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	return &result, nil
}

// AIStatus fetches availability of the backend AI services. The
// endpoint is unauthenticated.
func (c *Client) AIStatus(ctx context.Context) (map[string]AIServiceInfo, error) {
	var result struct {
		Services map[string]AIServiceInfo `json:"services"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/api/ai/status", nil, &result); err != nil {
		return nil, fmt.Errorf("ai status: %w", err)
	}
	return result.Services, nil
}

// Progress fetches the per-topic progress records.
func (c *Client) Progress(ctx context.Context) ([]TopicProgress, error) {
	var result struct {
		Progress []TopicProgress `json:"progress"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/api/progress", nil, &result); err != nil {
		return nil, fmt.Errorf("progress: %w", err)
	}
	return result.Progress, nil
}

// UpdateProgress records a score for a topic.
func (c *Client) UpdateProgress(ctx context.Context, topic string, score float64) (*TopicProgress, error) {
	body := map[string]interface{}{"topic": topic, "score": score}
	var result struct {
		Message  string        `json:"message"`
		Progress TopicProgress `json:"progress"`
	}
	if err := c.doRequest(ctx, http.MethodPost, "/api/progress", body, &result); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}
	return &result.Progress, nil
}

// doRequest performs a single HTTP round-trip and decodes the JSON
// response into result. Failures map onto the client error taxonomy:
// transport failures become ConnectionError, non-2xx responses become
// ServerError carrying the server-provided message when present.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	fullURL := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.deviceID != "" {
		req.Header.Set("X-Client-ID", c.deviceID)
	}

	LogDebug("api request: %s %s", method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &ConnectionError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ConnectionError{Err: err}
	}

	if resp.StatusCode >= 400 {
		srvErr := &ServerError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &payload); err == nil {
			srvErr.Message = payload.Error
		}
		return srvErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}
