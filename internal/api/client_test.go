package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		Token:      func() string { return "test-token" },
	})
	require.NoError(t, err)
	return client
}

func writeEnvelope(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"error": msg})
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(ClientOptions{})
	assert.ErrorIs(t, err, ErrNoBaseURL)
}

func TestListServers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/mcp/servers/", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		writeEnvelope(w, []Server{
			{ID: "srv-1", Name: "kubernetes", State: ServerStateRunning},
			{ID: "srv-2", Name: "prometheus", State: ServerStateStopped},
		})
	})

	servers, err := client.ListServers(context.Background())
	require.NoError(t, err)
	require.Len(t, servers, 2)
	assert.Equal(t, "srv-1", servers[0].ID)
	assert.Equal(t, ServerStateRunning, servers[0].State)
}

func TestStartAndStopServer(t *testing.T) {
	var gotPaths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		gotPaths = append(gotPaths, r.URL.Path)
		state := ServerStateRunning
		if strings.HasSuffix(r.URL.Path, "/stop") {
			state = ServerStateStopped
		}
		writeEnvelope(w, Server{ID: "srv-1", State: state})
	})

	srv, err := client.StartServer(context.Background(), "srv-1")
	require.NoError(t, err)
	assert.Equal(t, ServerStateRunning, srv.State)

	srv, err = client.StopServer(context.Background(), "srv-1")
	require.NoError(t, err)
	assert.Equal(t, ServerStateStopped, srv.State)

	assert.Equal(t, []string{"/v1/mcp/servers/srv-1/start", "/v1/mcp/servers/srv-1/stop"}, gotPaths)
}

func TestListTools(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/mcp/servers/srv-1/tools", r.URL.Path)
		writeEnvelope(w, []Tool{{ID: "t1", Name: "get_pods"}})
	})

	tools, err := client.ListTools(context.Background(), "srv-1")
	require.NoError(t, err)
	require.Len(t, tools, 1)
	assert.Equal(t, "t1", tools[0].ID)
}

func TestExecuteTool(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/mcp/servers/srv-1/tools/t1/execute", r.URL.Path)

		var params map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&params))
		assert.Equal(t, float64(1), params["x"])

		writeEnvelope(w, ExecutionResult{
			ID:     "exec-1",
			Status: ExecutionStatusSuccess,
			Output: json.RawMessage(`"ok"`),
		})
	})

	result, err := client.ExecuteTool(context.Background(), "srv-1", "t1", map[string]interface{}{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, "exec-1", result.ID)
	assert.Equal(t, ExecutionStatusSuccess, result.Status)
}

func TestExecuteToolBackendError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusInternalServerError, "boom")
	})

	_, err := client.ExecuteTool(context.Background(), "srv-1", "t1", nil)
	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
}

func TestRunScan(t *testing.T) {
	tests := []struct {
		name      string
		scanPath  string
		wantQuery string
	}{
		{name: "default path", scanPath: "", wantQuery: ""},
		{name: "explicit path", scanPath: "/srv/repos", wantQuery: "scan_path=%2Fsrv%2Frepos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/v1/repos/run_scan", r.URL.Path)
				assert.Equal(t, tt.wantQuery, r.URL.RawQuery)
				writeEnvelope(w, map[string]string{"status": "started"})
			})

			err := client.RunScan(context.Background(), tt.scanPath)
			assert.NoError(t, err)
		})
	}
}

func TestGetScanProgress(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/repos/progress", r.URL.Path)
		writeEnvelope(w, ScanProgress{Active: true, Current: 3, Total: 10})
	})

	progress, err := client.GetScanProgress(context.Background())
	require.NoError(t, err)
	assert.True(t, progress.Active)
	assert.Equal(t, 30, progress.Percent())
}

func TestNonJSONResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html>502</html>")
	})

	_, err := client.ListServers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected response")
}

func TestScanProgressPercentClamping(t *testing.T) {
	assert.Equal(t, 0, ScanProgress{Current: 5, Total: 0}.Percent())
	assert.Equal(t, 100, ScanProgress{Current: 20, Total: 10}.Percent())
	assert.Equal(t, 50, ScanProgress{Current: 1, Total: 2}.Percent())
}

func TestFailureStatusWithEmptyEnvelopeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{"data": nil, "error": ""})
	})

	_, err := client.ListServers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestNotFoundMapsToSentinels(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"data": nil})
	})

	_, err := client.StartServer(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrServerNotFound)

	_, err = client.ListTools(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrServerNotFound)

	_, err = client.ExecuteTool(context.Background(), "srv-1", "missing", nil)
	assert.ErrorIs(t, err, ErrToolNotFound)
}

func TestNotFoundEnvelopeErrorWins(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "server srv-9 is gone")
	})

	_, err := client.StartServer(context.Background(), "srv-9")
	require.Error(t, err)
	assert.Equal(t, "server srv-9 is gone", err.Error())
	assert.NotErrorIs(t, err, ErrServerNotFound)
}
