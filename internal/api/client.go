package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenSource supplies the bearer token attached to backend requests.
// An empty return means no Authorization header is sent.
type TokenSource func() string

// Client issues requests against the MCP manager backend.
type Client interface {
	// ListServers returns all managed MCP servers.
	ListServers(ctx context.Context) ([]Server, error)

	// StartServer asks the backend to start the given server.
	StartServer(ctx context.Context, serverID string) (*Server, error)

	// StopServer asks the backend to stop the given server.
	StopServer(ctx context.Context, serverID string) (*Server, error)

	// ListTools returns the tools exposed by a server.
	ListTools(ctx context.Context, serverID string) ([]Tool, error)

	// ExecuteTool runs a tool on a server with the given parameters.
	ExecuteTool(ctx context.Context, serverID, toolID string, params map[string]interface{}) (*ExecutionResult, error)

	// ListRepos returns the repositories known to the backend scanner.
	ListRepos(ctx context.Context) ([]Repo, error)

	// RunScan triggers a repository scan. scanPath is optional; when empty
	// the backend scans its default root.
	RunScan(ctx context.Context, scanPath string) error

	// GetScanProgress reports the state of the current scan, if any.
	GetScanProgress(ctx context.Context) (*ScanProgress, error)
}

// ClientOptions configures a backend client.
type ClientOptions struct {
	BaseURL    string
	Timeout    time.Duration // per-request timeout, 0 means defaultTimeout
	Token      TokenSource   // optional
	HTTPClient *http.Client  // optional, for tests
}

const defaultTimeout = 15 * time.Second

type client struct {
	baseURL string
	http    *http.Client
	token   TokenSource
	timeout time.Duration
}

// NewClient creates a backend client for the given options.
func NewClient(opts ClientOptions) (Client, error) {
	if opts.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    httpClient,
		token:   opts.Token,
		timeout: timeout,
	}, nil
}

func (c *client) ListServers(ctx context.Context) ([]Server, error) {
	return doRequest[[]Server](ctx, c, http.MethodGet, "/v1/mcp/servers/", nil, nil)
}

func (c *client) StartServer(ctx context.Context, serverID string) (*Server, error) {
	path := fmt.Sprintf("/v1/mcp/servers/%s/start", url.PathEscape(serverID))
	srv, err := doRequest[Server](ctx, c, http.MethodPost, path, nil, ErrServerNotFound)
	if err != nil {
		return nil, err
	}
	return &srv, nil
}

func (c *client) StopServer(ctx context.Context, serverID string) (*Server, error) {
	path := fmt.Sprintf("/v1/mcp/servers/%s/stop", url.PathEscape(serverID))
	srv, err := doRequest[Server](ctx, c, http.MethodPost, path, nil, ErrServerNotFound)
	if err != nil {
		return nil, err
	}
	return &srv, nil
}

func (c *client) ListTools(ctx context.Context, serverID string) ([]Tool, error) {
	path := fmt.Sprintf("/v1/mcp/servers/%s/tools", url.PathEscape(serverID))
	return doRequest[[]Tool](ctx, c, http.MethodGet, path, nil, ErrServerNotFound)
}

func (c *client) ExecuteTool(ctx context.Context, serverID, toolID string, params map[string]interface{}) (*ExecutionResult, error) {
	path := fmt.Sprintf("/v1/mcp/servers/%s/tools/%s/execute",
		url.PathEscape(serverID), url.PathEscape(toolID))
	if params == nil {
		params = map[string]interface{}{}
	}
	result, err := doRequest[ExecutionResult](ctx, c, http.MethodPost, path, params, ErrToolNotFound)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *client) ListRepos(ctx context.Context) ([]Repo, error) {
	return doRequest[[]Repo](ctx, c, http.MethodGet, "/v1/repos/", nil, nil)
}

func (c *client) RunScan(ctx context.Context, scanPath string) error {
	path := "/v1/repos/run_scan"
	if scanPath != "" {
		path += "?scan_path=" + url.QueryEscape(scanPath)
	}
	_, err := doRequest[json.RawMessage](ctx, c, http.MethodPost, path, nil, nil)
	return err
}

func (c *client) GetScanProgress(ctx context.Context) (*ScanProgress, error) {
	progress, err := doRequest[ScanProgress](ctx, c, http.MethodGet, "/v1/repos/progress", nil, nil)
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// doRequest performs one backend round trip and unwraps the envelope. An
// envelope error string always wins; otherwise a 404 maps onto notFound (when
// given) and any other non-2xx status is reported as-is.
func doRequest[T any](ctx context.Context, c *client, method, path string, body interface{}, notFound error) (T, error) {
	var zero T

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return zero, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		// Backend always wraps JSON; anything else is a gateway/proxy error.
		return zero, fmt.Errorf("unexpected response from %s: %s", path, resp.Status)
	}

	value, err := decodeEnvelope[T](resp.Body)
	if err != nil {
		return zero, err
	}
	if resp.StatusCode >= 400 {
		// Failure status with an empty envelope error is still a failure.
		if resp.StatusCode == http.StatusNotFound && notFound != nil {
			return zero, notFound
		}
		return zero, fmt.Errorf("backend returned %s for %s", resp.Status, path)
	}
	return value, nil
}
