package cmd

import (
	"errors"
	"fmt"
	"os"

	"mcpctl/internal/api"
	"mcpctl/internal/auth"
	"mcpctl/internal/config"
	"mcpctl/pkg/logging"
)

// loadConfigForCLI loads the layered configuration and points the logger at
// stderr so command output stays clean on stdout.
func loadConfigForCLI() (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.InitForCLI(logging.ParseLevel(cfg.LogLevel), os.Stderr)
	return cfg, nil
}

// newBackendClient builds an API client for the configured backend. The
// session may be nil for unauthenticated backends.
func newBackendClient(cfg config.Config, session *auth.Session) (api.Client, error) {
	var token api.TokenSource
	if session != nil {
		bearer := session.Token
		token = func() string { return bearer }
	}
	return api.NewClient(api.ClientOptions{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
		Token:   token,
	})
}

// requireRoles loads the stored session and checks it against the given role
// set. The returned error tells the user where the gate sends them.
func requireRoles(cfg config.Config, roles []string, returnTo string) (*auth.Session, error) {
	session, err := auth.LoadSession()
	if err != nil && !errors.Is(err, auth.ErrNotLoggedIn) {
		return nil, err
	}

	gate := auth.Gate{
		RequiredRoles:    roles,
		LoginPath:        cfg.Auth.LoginPath,
		UnauthorizedPath: cfg.Auth.UnauthorizedPath,
	}
	result := gate.Check(session, returnTo)

	switch result.Decision {
	case auth.DecisionAllow:
		return session, nil
	case auth.DecisionRedirectLogin:
		return nil, fmt.Errorf("not logged in (run 'mcpctl login'); redirect: %s", result.RedirectTo)
	default:
		return nil, fmt.Errorf("missing required role (have %v, need one of %v); redirect: %s",
			sessionRoles(session), roles, result.RedirectTo)
	}
}

func sessionRoles(session *auth.Session) []string {
	if session == nil {
		return nil
	}
	return session.Roles
}
