package internal

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/studyplatform/studyctl/testutil"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return signed
}

func TestOpenSessionStoreFresh(t *testing.T) {
	path := testutil.StatePath(t)

	store, err := OpenSessionStore(path)
	if err != nil {
		t.Fatalf("OpenSessionStore() error = %v", err)
	}

	if store.IsAuthenticated() {
		t.Error("fresh store reports authenticated")
	}
	if store.User() != nil {
		t.Error("fresh store has a user")
	}
	if store.Session() != nil {
		t.Error("fresh store has a session")
	}

	deviceID := store.DeviceID()
	if deviceID == "" {
		t.Fatal("fresh store has no device id")
	}
	store.Close()

	// The device id is generated once and survives reopening.
	store, err = OpenSessionStore(path)
	if err != nil {
		t.Fatalf("OpenSessionStore() reopen error = %v", err)
	}
	defer store.Close()
	if store.DeviceID() != deviceID {
		t.Errorf("DeviceID() after reopen = %q, want %q", store.DeviceID(), deviceID)
	}
}

func TestSessionStorePersistence(t *testing.T) {
	path := testutil.StatePath(t)
	token := signedToken(t, time.Now().Add(time.Hour))

	store, err := OpenSessionStore(path)
	if err != nil {
		t.Fatalf("OpenSessionStore() error = %v", err)
	}
	if err := store.Login(token, User{ID: 1, Username: "alice"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := store.SetSession(&StudySession{ID: 101}); err != nil {
		t.Fatalf("SetSession() error = %v", err)
	}
	store.Close()

	store, err = OpenSessionStore(path)
	if err != nil {
		t.Fatalf("OpenSessionStore() reopen error = %v", err)
	}
	defer store.Close()

	if !store.IsAuthenticated() {
		t.Fatal("reopened store lost authentication")
	}
	if store.Token() != token {
		t.Errorf("Token() = %q, want the stored token", store.Token())
	}
	if user := store.User(); user == nil || user.Username != "alice" {
		t.Errorf("User() = %+v, want alice", user)
	}
	if sess := store.Session(); sess == nil || sess.ID != 101 {
		t.Errorf("Session() = %+v, want session 101", sess)
	}
}

func TestSessionStoreLogout(t *testing.T) {
	path := testutil.StatePath(t)

	store, err := OpenSessionStore(path)
	if err != nil {
		t.Fatalf("OpenSessionStore() error = %v", err)
	}
	if err := store.Login("opaque-token", User{ID: 1, Username: "alice"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := store.SetSession(&StudySession{ID: 101}); err != nil {
		t.Fatalf("SetSession() error = %v", err)
	}

	if err := store.Logout(); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if store.IsAuthenticated() || store.User() != nil || store.Session() != nil {
		t.Error("Logout() left auth state behind")
	}
	store.Close()

	store, err = OpenSessionStore(path)
	if err != nil {
		t.Fatalf("OpenSessionStore() reopen error = %v", err)
	}
	defer store.Close()
	if store.IsAuthenticated() {
		t.Error("logout did not persist")
	}
}

func TestOpenSessionStoreTokenHandling(t *testing.T) {
	tests := []struct {
		name      string
		token     func(t *testing.T) string
		wantLogin bool
	}{
		{
			name:      "live jwt kept",
			token:     func(t *testing.T) string { return signedToken(t, time.Now().Add(time.Hour)) },
			wantLogin: true,
		},
		{
			name:      "expired jwt discarded",
			token:     func(t *testing.T) string { return signedToken(t, time.Now().Add(-time.Hour)) },
			wantLogin: false,
		},
		{
			name:      "opaque token treated as live",
			token:     func(t *testing.T) string { return "opaque-session-token" },
			wantLogin: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := tt.token(t)
			path := testutil.StatePath(t)
			store, err := OpenSessionStore(path)
			if err != nil {
				t.Fatalf("OpenSessionStore() error = %v", err)
			}
			if err := store.Login(token, User{ID: 1, Username: "alice"}); err != nil {
				t.Fatalf("Login() error = %v", err)
			}
			store.Close()

			store, err = OpenSessionStore(path)
			if err != nil {
				t.Fatalf("OpenSessionStore() reopen error = %v", err)
			}
			defer store.Close()

			if got := store.IsAuthenticated(); got != tt.wantLogin {
				t.Errorf("IsAuthenticated() after reopen = %v, want %v", got, tt.wantLogin)
			}
		})
	}
}

func TestOpenSessionStoreHalfWrittenState(t *testing.T) {
	path := testutil.StatePath(t)

	// A token with no matching user record, as a crashed write would
	// leave behind.
	db, err := OpenStateDB(path)
	if err != nil {
		t.Fatalf("OpenStateDB() error = %v", err)
	}
	if err := SetState(db, "authToken", "orphan-token"); err != nil {
		t.Fatalf("SetState() error = %v", err)
	}
	db.Close()

	store, err := OpenSessionStore(path)
	if err != nil {
		t.Fatalf("OpenSessionStore() error = %v", err)
	}
	defer store.Close()

	if store.IsAuthenticated() {
		t.Error("store authenticated from a token without a user")
	}
	if store.Token() != "" || store.User() != nil {
		t.Error("half-written auth state was not dropped")
	}
}

func TestSessionStoreChangeListener(t *testing.T) {
	store, err := OpenSessionStore(testutil.StatePath(t))
	if err != nil {
		t.Fatalf("OpenSessionStore() error = %v", err)
	}
	defer store.Close()

	calls := 0
	store.SetChangeListener(func() { calls++ })

	if err := store.Login("opaque-token", User{ID: 1, Username: "alice"}); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := store.SetSession(&StudySession{ID: 101}); err != nil {
		t.Fatalf("SetSession() error = %v", err)
	}
	if err := store.ClearSession(); err != nil {
		t.Fatalf("ClearSession() error = %v", err)
	}
	if err := store.Logout(); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if calls != 4 {
		t.Errorf("change listener ran %d times, want 4", calls)
	}
}
