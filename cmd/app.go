package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/studyplatform/studyctl/internal"
)

// appContext bundles the wired client: config, durable session store,
// API client and view router. Commands build flows on top of it.
type appContext struct {
	cfg    internal.Config
	store  *internal.SessionStore
	client *internal.Client
	router *internal.Router
}

// newAppContext loads configuration, opens the state database and
// wires the API client with any persisted token.
func newAppContext() (*appContext, error) {
	path := cfgFile
	if path == "" {
		path = internal.DefaultConfigPath()
	}
	cfg, err := internal.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	internal.SetLogFile(cfg.LogFile, cfg.LogMaxSizeMB)

	store, err := internal.OpenSessionStore(cfg.StatePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open client state: %w", err)
	}

	client := internal.NewClient(internal.ClientConfig{
		BaseURL:  cfg.BaseURL,
		Timeout:  cfg.Timeout(),
		DeviceID: store.DeviceID(),
	})
	client.SetToken(store.Token())

	return &appContext{
		cfg:    cfg,
		store:  store,
		client: client,
		router: internal.NewRouter(),
	}, nil
}

func (a *appContext) Close() {
	if err := a.store.Close(); err != nil {
		internal.LogWarn("failed to close state database: %v", err)
	}
}

// requireAuth fails fast for commands behind authentication.
func (a *appContext) requireAuth() error {
	if !a.store.IsAuthenticated() {
		return fmt.Errorf("not logged in; run `studyctl login` first")
	}
	return nil
}

// dashboardLoader returns the fetch-and-render step for the dashboard
// section.
func (a *appContext) dashboardLoader() internal.Loader {
	return func(ctx context.Context) error {
		data, err := a.client.Dashboard(ctx)
		if err != nil {
			return err
		}
		fmt.Print(internal.RenderDashboard(data))
		return nil
	}
}

// progressLoader returns the fetch-and-render step for the progress
// section.
func (a *appContext) progressLoader() internal.Loader {
	return func(ctx context.Context) error {
		progress, err := a.client.Progress(ctx)
		if err != nil {
			return err
		}
		fmt.Print(internal.RenderProgressChart(progress))
		return nil
	}
}

// promptLine reads one line of input with a label.
func promptLine(label string) (string, error) {
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echoing when stdin is a
// terminal, falling back to a plain line read otherwise.
func promptPassword(label string) (string, error) {
	fmt.Printf("%s: ", label)
	if term.IsTerminal(int(syscall.Stdin)) {
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(raw)), nil
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
