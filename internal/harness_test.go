package internal

import (
	"testing"

	"github.com/studyplatform/studyctl/testutil"
)

// harness bundles a store, client and router wired against a fake
// backend, the way the commands assemble them.
type harness struct {
	store  *SessionStore
	client *Client
	router *Router
}

func newHarness(t *testing.T, backend *testutil.FakeBackend) *harness {
	t.Helper()

	store, err := OpenSessionStore(testutil.StatePath(t))
	if err != nil {
		t.Fatalf("OpenSessionStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	client := NewClient(ClientConfig{
		BaseURL:  backend.URL,
		DeviceID: store.DeviceID(),
	})

	return &harness{
		store:  store,
		client: client,
		router: NewRouter(),
	}
}

// loginHarness additionally puts the harness into the authenticated
// state without going through the login endpoint.
func loginHarness(t *testing.T, backend *testutil.FakeBackend) *harness {
	t.Helper()

	h := newHarness(t, backend)
	if err := h.store.Login(backend.Token, User{ID: 1, Username: "alice"}); err != nil {
		t.Fatalf("store.Login() error = %v", err)
	}
	h.client.SetToken(backend.Token)
	return h
}
