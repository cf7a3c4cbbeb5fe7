package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Storage keys in the clientState table.
const (
	keyAuthToken      = "authToken"
	keyCurrentUser    = "currentUser"
	keyCurrentSession = "currentSession"
	keyDeviceID       = "deviceId"
)

// SessionStore holds the client's durable state: auth token, current
// user and the active study session. Every mutation is written through
// to the state database before it is observable.
//
// Invariant: a user is set if and only if a token is set.
type SessionStore struct {
	db       *sql.DB
	token    string
	user     *User
	session  *StudySession
	deviceID string
	onChange func()
}

// OpenSessionStore opens the state database at path and loads any
// persisted state. A stored token that is already expired is discarded
// so the client starts logged out instead of failing on first use.
func OpenSessionStore(path string) (*SessionStore, error) {
	db, err := OpenStateDB(path)
	if err != nil {
		return nil, err
	}

	s := &SessionStore{db: db}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SessionStore) load() error {
	token, haveToken, err := GetState(s.db, keyAuthToken)
	if err != nil {
		return err
	}
	userJSON, haveUser, err := GetState(s.db, keyCurrentUser)
	if err != nil {
		return err
	}

	if haveToken && haveUser && !tokenExpired(token) {
		var user User
		if err := json.Unmarshal([]byte(userJSON), &user); err == nil {
			s.token = token
			s.user = &user
		}
	}
	if s.token == "" {
		// Half-written or expired auth state: drop it entirely so the
		// user-iff-token invariant holds.
		if haveToken || haveUser {
			_ = DeleteState(s.db, keyAuthToken, keyCurrentUser, keyCurrentSession)
		}
	}

	if s.token != "" {
		sessJSON, haveSess, err := GetState(s.db, keyCurrentSession)
		if err != nil {
			return err
		}
		if haveSess {
			var sess StudySession
			if err := json.Unmarshal([]byte(sessJSON), &sess); err == nil {
				s.session = &sess
			}
		}
	}

	deviceID, haveDevice, err := GetState(s.db, keyDeviceID)
	if err != nil {
		return err
	}
	if !haveDevice {
		deviceID = uuid.NewString()
		if err := SetState(s.db, keyDeviceID, deviceID); err != nil {
			return err
		}
	}
	s.deviceID = deviceID
	return nil
}

// tokenExpired inspects the JWT expiry claim without verifying the
// signature; the client has no key material and only needs to know
// whether a login round-trip is worth attempting. Opaque tokens are
// treated as live.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// SetChangeListener registers fn to run after every mutation, so
// renderers are invoked deterministically rather than by call-site
// discipline.
func (s *SessionStore) SetChangeListener(fn func()) {
	s.onChange = fn
}

func (s *SessionStore) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Login stores the auth token and user, durably, in one step.
func (s *SessionStore) Login(token string, user User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := SetState(s.db, keyAuthToken, token); err != nil {
		return err
	}
	if err := SetState(s.db, keyCurrentUser, string(userJSON)); err != nil {
		return err
	}
	s.token = token
	s.user = &user
	s.notify()
	return nil
}

// Logout clears token, user and any active study session. It is a
// purely local operation and always succeeds against the in-memory
// state even if the durable delete fails.
func (s *SessionStore) Logout() error {
	err := DeleteState(s.db, keyAuthToken, keyCurrentUser, keyCurrentSession)
	s.token = ""
	s.user = nil
	s.session = nil
	s.notify()
	return err
}

// IsAuthenticated reports whether an auth token is present.
func (s *SessionStore) IsAuthenticated() bool {
	return s.token != ""
}

// Token returns the stored auth token, empty when logged out.
func (s *SessionStore) Token() string {
	return s.token
}

// User returns the current user, nil when logged out.
func (s *SessionStore) User() *User {
	return s.user
}

// Session returns the active study session, nil when none.
func (s *SessionStore) Session() *StudySession {
	return s.session
}

// DeviceID returns the persistent client install identifier.
func (s *SessionStore) DeviceID() string {
	return s.deviceID
}

// SetSession stores the active study session.
func (s *SessionStore) SetSession(sess *StudySession) error {
	sessJSON, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := SetState(s.db, keyCurrentSession, string(sessJSON)); err != nil {
		return err
	}
	s.session = sess
	s.notify()
	return nil
}

// ClearSession removes the active study session.
func (s *SessionStore) ClearSession() error {
	if err := DeleteState(s.db, keyCurrentSession); err != nil {
		return err
	}
	s.session = nil
	s.notify()
	return nil
}

// Close closes the underlying state database.
func (s *SessionStore) Close() error {
	return s.db.Close()
}
