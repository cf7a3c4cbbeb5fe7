package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// FakeBackend is an in-process stand-in for the study platform REST
// API. Zero values give well-formed success responses; set the
// *Status/*Error fields to exercise rejection paths.
type FakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string

	// Token is the access token issued by login and expected on
	// authenticated calls.
	Token string

	LoginStatus int
	LoginError  string

	RegisterStatus int
	RegisterError  string

	SessionStatus int

	QuestionStatus int
	QuestionError  string
	QuestionCount  int

	EndScore float64

	ChatStatus   int
	ChatError    string
	ChatResponse string
	ChatService  string

	Dashboard map[string]interface{}
	Progress  []map[string]interface{}
}

// NewFakeBackend starts a fake backend and registers cleanup on t.
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	b := &FakeBackend{
		Token:        "test-token",
		EndScore:     85,
		ChatResponse: "Hello! How can I help you study today?",
		ChatService:  "openai",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", b.handleLogin)
	mux.HandleFunc("POST /api/auth/register", b.handleRegister)
	mux.HandleFunc("GET /api/dashboard", b.handleDashboard)
	mux.HandleFunc("POST /api/sessions", b.handleCreateSession)
	mux.HandleFunc("GET /api/sessions", b.handleListSessions)
	mux.HandleFunc("POST /api/sessions/{id}/questions", b.handleAddQuestion)
	mux.HandleFunc("PUT /api/sessions/{id}/end", b.handleEndSession)
	mux.HandleFunc("POST /api/chat", b.handleChat)
	mux.HandleFunc("GET /api/ai/status", b.handleAIStatus)
	mux.HandleFunc("GET /api/progress", b.handleProgress)
	mux.HandleFunc("POST /api/progress", b.handleUpdateProgress)

	b.Server = httptest.NewServer(b.record(mux))
	t.Cleanup(b.Server.Close)
	return b
}

func (b *FakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

// RequestCount returns how many requests matched the "METHOD /path"
// prefix.
func (b *FakeBackend) RequestCount(prefix string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, req := range b.requests {
		if strings.HasPrefix(req, prefix) {
			n++
		}
	}
	return n
}

// TotalRequests returns the number of requests received.
func (b *FakeBackend) TotalRequests() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (b *FakeBackend) authorized(r *http.Request) bool {
	return r.Header.Get("Authorization") == "Bearer "+b.Token
}

func (b *FakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	if b.LoginStatus != 0 {
		writeError(w, b.LoginStatus, b.LoginError)
		return
	}
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": b.Token,
		"user": map[string]interface{}{
			"id":       1,
			"username": req.Username,
			"email":    req.Username + "@example.com",
		},
	})
}

func (b *FakeBackend) handleRegister(w http.ResponseWriter, r *http.Request) {
	if b.RegisterStatus != 0 {
		writeError(w, b.RegisterStatus, b.RegisterError)
		return
	}
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "user registered",
		"user": map[string]interface{}{
			"id":       2,
			"username": req.Username,
			"email":    req.Email,
		},
	})
}

func (b *FakeBackend) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	if b.Dashboard != nil {
		writeJSON(w, http.StatusOK, b.Dashboard)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":           map[string]int{"total_sessions": 3, "total_questions": 12},
		"recent_sessions": []interface{}{},
		"progress":        []interface{}{},
	})
}

func (b *FakeBackend) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	if b.SessionStatus != 0 {
		writeError(w, b.SessionStatus, "session error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "session created",
		"session": map[string]interface{}{
			"id":         101,
			"user_id":    1,
			"start_time": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (b *FakeBackend) handleListSessions(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": []interface{}{},
	})
}

func (b *FakeBackend) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	if b.QuestionStatus != 0 {
		writeError(w, b.QuestionStatus, b.QuestionError)
		return
	}
	b.mu.Lock()
	b.QuestionCount++
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]string{"message": "question added"})
}

func (b *FakeBackend) handleEndSession(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	id := r.PathValue("id")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "session ended",
		"session": map[string]interface{}{
			"id":    atoiOr(id, 101),
			"score": b.EndScore,
		},
	})
}

func (b *FakeBackend) handleChat(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	if b.ChatStatus != 0 {
		writeError(w, b.ChatStatus, b.ChatError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"response":     b.ChatResponse,
		"service_used": b.ChatService,
		"success":      true,
	})
}

func (b *FakeBackend) handleAIStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"services": map[string]interface{}{
			"openai":      map[string]interface{}{"available": true},
			"deepseek":    map[string]interface{}{"available": false, "error": "no api key"},
			"huggingface": map[string]interface{}{"available": true},
		},
	})
}

func (b *FakeBackend) handleProgress(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	progress := b.Progress
	if progress == nil {
		progress = []map[string]interface{}{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"progress": progress})
}

func (b *FakeBackend) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	if !b.authorized(r) {
		writeError(w, http.StatusUnauthorized, "missing or invalid token")
		return
	}
	var req struct {
		Topic string  `json:"topic"`
		Score float64 `json:"score"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "progress updated",
		"progress": map[string]interface{}{
			"id":    1,
			"topic": req.Topic,
			"score": req.Score,
		},
	})
}

func atoiOr(s string, fallback int) int {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return fallback
	}
	return n
}
