package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/studyplatform/studyctl/testutil"
)

func TestClientRequestHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL, DeviceID: "device-123"})
	client.SetToken("token-abc")

	if _, err := client.Dashboard(context.Background()); err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}

	tests := []struct {
		header string
		want   string
	}{
		{header: "Authorization", want: "Bearer token-abc"},
		{header: "X-Client-ID", want: "device-123"},
		{header: "Content-Type", want: "application/json"},
		{header: "Accept", want: "application/json"},
	}
	for _, tt := range tests {
		if v := got.Get(tt.header); v != tt.want {
			t.Errorf("%s header = %q, want %q", tt.header, v, tt.want)
		}
	}
}

func TestClientNoAuthHeaderWhenLoggedOut(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{"services":{}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	if _, err := client.AIStatus(context.Background()); err != nil {
		t.Fatalf("AIStatus() error = %v", err)
	}

	if v := got.Get("Authorization"); v != "" {
		t.Errorf("Authorization header = %q, want empty when logged out", v)
	}
	if v := got.Get("X-Client-ID"); v != "" {
		t.Errorf("X-Client-ID header = %q, want empty when no device id", v)
	}
}

func TestClientLogin(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := NewClient(ClientConfig{BaseURL: backend.URL})

	result, err := client.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.AccessToken != backend.Token {
		t.Errorf("AccessToken = %q, want %q", result.AccessToken, backend.Token)
	}
	if result.User.Username != "alice" {
		t.Errorf("User.Username = %q, want alice", result.User.Username)
	}
}

func TestClientServerError(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.LoginStatus = http.StatusUnauthorized
	backend.LoginError = "Invalid username or password"

	client := NewClient(ClientConfig{BaseURL: backend.URL})

	_, err := client.Login(context.Background(), "alice", "wrong")
	if err == nil {
		t.Fatal("Login() succeeded against a rejecting backend")
	}

	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		t.Fatalf("Login() error = %v, want ServerError", err)
	}
	if srvErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", srvErr.StatusCode)
	}
	if srvErr.Message != "Invalid username or password" {
		t.Errorf("Message = %q, want the server-provided text", srvErr.Message)
	}
}

func TestClientConnectionError(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := NewClient(ClientConfig{BaseURL: backend.URL})
	backend.Close()

	_, err := client.Login(context.Background(), "alice", "secret")
	if err == nil {
		t.Fatal("Login() succeeded against a closed backend")
	}

	var connErr *ConnectionError
	if !errors.As(err, &connErr) {
		t.Errorf("Login() error = %v, want ConnectionError", err)
	}
}

func TestClientAuthenticatedEndpoints(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := NewClient(ClientConfig{BaseURL: backend.URL})
	client.SetToken(backend.Token)
	ctx := context.Background()

	sess, err := client.CreateSession(ctx)
	if err != nil {
		t.Fatalf("CreateSession() error = %v", err)
	}
	if sess.ID == 0 {
		t.Error("CreateSession() returned a session without an id")
	}

	if err := client.AddQuestion(ctx, sess.ID, QuestionRequest{
		QuestionText: "What is 2+2?",
		AnswerText:   "4",
		Difficulty:   DifficultyEasy,
	}); err != nil {
		t.Fatalf("AddQuestion() error = %v", err)
	}

	ended, err := client.EndSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("EndSession() error = %v", err)
	}
	if ended.Score == nil || *ended.Score != backend.EndScore {
		t.Errorf("EndSession() score = %v, want %v", ended.Score, backend.EndScore)
	}

	reply, err := client.Chat(ctx, "hello")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply.Response != backend.ChatResponse {
		t.Errorf("Chat() response = %q, want %q", reply.Response, backend.ChatResponse)
	}
	if reply.ServiceUsed != backend.ChatService {
		t.Errorf("Chat() service = %q, want %q", reply.ServiceUsed, backend.ChatService)
	}

	data, err := client.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if data.Stats.TotalSessions == 0 {
		t.Error("Dashboard() returned empty stats")
	}
}

func TestClientUnauthorizedWithoutToken(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := NewClient(ClientConfig{BaseURL: backend.URL})

	_, err := client.Dashboard(context.Background())
	var srvErr *ServerError
	if !errors.As(err, &srvErr) || srvErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Dashboard() without token error = %v, want 401 ServerError", err)
	}
}

func TestClientAIStatus(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	client := NewClient(ClientConfig{BaseURL: backend.URL})

	// No token set; the status endpoint must work anyway.
	services, err := client.AIStatus(context.Background())
	if err != nil {
		t.Fatalf("AIStatus() error = %v", err)
	}
	if !services["openai"].Available {
		t.Error("openai reported unavailable")
	}
	if services["deepseek"].Available {
		t.Error("deepseek reported available")
	}
	if services["deepseek"].Error == "" {
		t.Error("deepseek missing its error text")
	}
}

func TestClientProgress(t *testing.T) {
	backend := testutil.NewFakeBackend(t)
	backend.Progress = []map[string]interface{}{
		{"id": 1, "topic": "math", "score": 72.5},
	}

	client := NewClient(ClientConfig{BaseURL: backend.URL})
	client.SetToken(backend.Token)
	ctx := context.Background()

	progress, err := client.Progress(ctx)
	if err != nil {
		t.Fatalf("Progress() error = %v", err)
	}
	if len(progress) != 1 || progress[0].Topic != "math" || progress[0].Score != 72.5 {
		t.Errorf("Progress() = %+v, want one math record at 72.5", progress)
	}

	updated, err := client.UpdateProgress(ctx, "physics", 90)
	if err != nil {
		t.Fatalf("UpdateProgress() error = %v", err)
	}
	if updated.Topic != "physics" || updated.Score != 90 {
		t.Errorf("UpdateProgress() = %+v, want physics at 90", updated)
	}
}
