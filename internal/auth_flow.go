package internal

import (
	"context"
	"time"
)

// LoginPromptDelay is how long the register confirmation stays on
// screen before the login prompt appears.
const LoginPromptDelay = 2 * time.Second

// Fallback texts when the server rejects without a usable message.
const (
	LoginFailedMessage    = "Login failed"
	RegisterFailedMessage = "Registration failed"

	// RegisterSuccessMessage confirms account creation. Registration
	// never authenticates; the user logs in afterwards.
	RegisterSuccessMessage = "Account created. Log in to continue."
)

// AuthFlow implements the login, register and logout transitions.
// At most one auth request is in flight at a time; overlapping
// submissions get ErrPending and are otherwise ignored.
type AuthFlow struct {
	store   *SessionStore
	client  *Client
	router  *Router
	pending bool
}

// NewAuthFlow wires the auth transitions to the store, API client and
// view router.
func NewAuthFlow(store *SessionStore, client *Client, router *Router) *AuthFlow {
	return &AuthFlow{store: store, client: client, router: router}
}

// Login validates the credentials, performs the login request and on
// success transitions the store to authenticated and routes to the
// dashboard. On rejection no state changes.
func (f *AuthFlow) Login(ctx context.Context, username, password string) (*User, error) {
	if username == "" {
		return nil, &ValidationError{Field: "username"}
	}
	if password == "" {
		return nil, &ValidationError{Field: "password"}
	}
	if f.pending {
		return nil, ErrPending
	}
	f.pending = true
	defer func() { f.pending = false }()

	result, err := f.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}

	f.client.SetToken(result.AccessToken)
	if err := f.store.Login(result.AccessToken, result.User); err != nil {
		return nil, err
	}

	if err := f.router.Activate(ctx, SectionDashboard); err != nil {
		// Login already succeeded; a failed dashboard load must not
		// undo it.
		LogWarn("dashboard load after login failed: %v", err)
	}

	LogInfo("logged in as %s", result.User.Username)
	return &result.User, nil
}

// Register validates the fields and creates the account. It does not
// authenticate; the caller shows the confirmation and, after
// LoginPromptDelay, prompts for login.
func (f *AuthFlow) Register(ctx context.Context, username, email, password string) (*User, error) {
	if username == "" {
		return nil, &ValidationError{Field: "username"}
	}
	if email == "" {
		return nil, &ValidationError{Field: "email"}
	}
	if password == "" {
		return nil, &ValidationError{Field: "password"}
	}
	if f.pending {
		return nil, ErrPending
	}
	f.pending = true
	defer func() { f.pending = false }()

	user, err := f.client.Register(ctx, username, email, password)
	if err != nil {
		return nil, err
	}

	LogInfo("registered new account %s", user.Username)
	return user, nil
}

// Logout clears all auth state and returns to the welcome section.
// It is an unconditional local operation: no server call is made and
// it cannot fail from the user's point of view.
func (f *AuthFlow) Logout() {
	f.client.SetToken("")
	if err := f.store.Logout(); err != nil {
		LogWarn("failed to clear persisted auth state: %v", err)
	}
	// Welcome has no loader, so no network activity here.
	_ = f.router.Activate(context.Background(), SectionWelcome)
	LogInfo("logged out")
}
