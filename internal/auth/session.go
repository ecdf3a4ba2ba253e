package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir

const (
	sessionDir  = ".config/mcpctl"
	sessionFile = "token"
)

// ErrNotLoggedIn is returned when no token is stored.
var ErrNotLoggedIn = errors.New("not logged in")

// Claims are the token claims this client cares about. The backend verifies
// signatures; here the token is only decoded for display and gating.
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// Session is an authenticated user as seen by this client.
type Session struct {
	Token   string
	Subject string
	Roles   []string
}

// ParseSession decodes a bearer token into a Session without verifying the
// signature.
func ParseSession(token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	return &Session{
		Token:   token,
		Subject: claims.Subject,
		Roles:   claims.Roles,
	}, nil
}

func sessionPath() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, sessionDir, sessionFile), nil
}

// LoadSession reads the stored token, preferring the MCPCTL_TOKEN environment
// variable over the token file.
func LoadSession() (*Session, error) {
	if tok := os.Getenv("MCPCTL_TOKEN"); tok != "" {
		return ParseSession(tok)
	}

	path, err := sessionPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	return ParseSession(string(data))
}

// SaveSession validates and stores a token in the session file.
func SaveSession(token string) (*Session, error) {
	session, err := ParseSession(token)
	if err != nil {
		return nil, err
	}

	path, err := sessionPath()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(session.Token+"\n"), 0o600); err != nil {
		return nil, fmt.Errorf("failed to write token file: %w", err)
	}
	return session, nil
}

// ClearSession removes the stored token. Clearing an absent session is fine.
func ClearSession() error {
	path, err := sessionPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
