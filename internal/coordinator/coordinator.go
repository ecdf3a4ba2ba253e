// Package coordinator translates tool intent into backend calls and tracks
// the resulting state: the cached tool list of the selected server, the last
// execution result, and a tagged state per operation. Failures surface as
// toasts; execute failures additionally propagate to the caller.
package coordinator

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"mcpctl/internal/api"
	"mcpctl/internal/history"
	"mcpctl/internal/notify"
	"mcpctl/pkg/logging"
)

// Coordinator is safe for concurrent use. Overlapping fetches or executions
// are resolved by generation tokens: a completion belonging to a superseded
// call is discarded, so the last issued call wins.
type Coordinator struct {
	client   api.Client
	notifier notify.Notifier
	history  *history.Store // optional

	mu       sync.Mutex
	serverID string

	tools      []api.Tool
	toolsState OpState
	toolsErr   string
	fetchGen   uint64

	result    *api.ExecutionResult
	execState OpState
	execGen   uint64
}

// New creates a coordinator. notifier may be nil (failures are then only
// logged); historyStore may be nil (executions are then not recorded).
func New(client api.Client, notifier notify.Notifier, historyStore *history.Store) *Coordinator {
	return &Coordinator{
		client:   client,
		notifier: notifier,
		history:  historyStore,
	}
}

// SetServer selects the server the coordinator operates on and resets all
// per-server state.
func (c *Coordinator) SetServer(serverID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.serverID = serverID
	c.tools = nil
	c.toolsState = OpIdle
	c.toolsErr = ""
	c.result = nil
	c.execState = OpIdle
	c.fetchGen++
	c.execGen++
}

// ServerID returns the currently selected server id.
func (c *Coordinator) ServerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.serverID
}

// FetchTools loads the tool list for the selected server. With no server
// selected it is a no-op. Failures are recorded, reported as a destructive
// toast, and swallowed; the tools state always leaves loading.
func (c *Coordinator) FetchTools(ctx context.Context) {
	c.mu.Lock()
	if c.serverID == "" {
		c.mu.Unlock()
		return
	}
	serverID := c.serverID
	c.fetchGen++
	gen := c.fetchGen
	c.toolsState = OpLoading
	c.mu.Unlock()

	tools, err := c.client.ListTools(ctx, serverID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.fetchGen {
		// A newer fetch or server switch superseded this call.
		logging.Debug("Coordinator", "Discarding stale tool list for %s", serverID)
		return
	}

	if err != nil {
		c.tools = nil
		c.toolsErr = err.Error()
		c.toolsState = OpError
		c.notify("Failed to load tools", err.Error())
		return
	}

	c.tools = tools
	c.toolsErr = ""
	c.toolsState = OpSuccess
}

// Tools returns the cached tool list and its operation state.
func (c *Coordinator) Tools() ([]api.Tool, OpState, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.Tool(nil), c.tools...), c.toolsState, c.toolsErr
}

// ToolByID looks up a tool in the cached list. Absence is reported through
// the second return, never as an error.
func (c *Coordinator) ToolByID(id string) (api.Tool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tool := range c.tools {
		if tool.ID == id {
			return tool, true
		}
	}
	return api.Tool{}, false
}

// ExecuteTool runs a tool on the selected server. With no server selected it
// is a no-op returning nil, nil. The prior result is cleared up front; on
// success the new result is stored and returned; on failure a destructive
// toast is raised and the error is returned to the caller. The exec state
// always leaves loading.
func (c *Coordinator) ExecuteTool(ctx context.Context, toolID string, params map[string]interface{}) (*api.ExecutionResult, error) {
	c.mu.Lock()
	if c.serverID == "" {
		c.mu.Unlock()
		return nil, nil
	}
	serverID := c.serverID
	c.execGen++
	gen := c.execGen
	c.result = nil
	c.execState = OpLoading
	c.mu.Unlock()

	startedAt := time.Now()
	result, err := c.client.ExecuteTool(ctx, serverID, toolID, params)
	finishedAt := time.Now()

	c.record(serverID, toolID, params, result, err, startedAt, finishedAt)

	c.mu.Lock()
	if gen != c.execGen {
		c.mu.Unlock()
		logging.Debug("Coordinator", "Discarding stale execution result for %s", toolID)
		return result, err
	}

	if err != nil {
		c.execState = OpError
		c.mu.Unlock()
		c.notify("Tool execution failed", err.Error())
		return nil, err
	}

	c.result = result
	c.execState = OpSuccess
	c.mu.Unlock()
	return result, nil
}

// Result returns the tracked execution result and its operation state.
func (c *Coordinator) Result() (*api.ExecutionResult, OpState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.execState
}

func (c *Coordinator) notify(title, description string) {
	if c.notifier == nil {
		logging.Error("Coordinator", nil, "%s: %s", title, description)
		return
	}
	c.notifier.Notify(title, description, notify.VariantDestructive)
}

func (c *Coordinator) record(serverID, toolID string, params map[string]interface{},
	result *api.ExecutionResult, err error, startedAt, finishedAt time.Time) {
	if c.history == nil {
		return
	}

	rec := history.Record{
		ID:         uuid.NewString(),
		ServerID:   serverID,
		ToolName:   toolID,
		Parameters: params,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
	if err != nil {
		rec.Status = api.ExecutionStatusError
		rec.Error = err.Error()
	} else {
		rec.Status = result.Status
		rec.Output = compactOutput(result.Output)
	}

	if appendErr := c.history.Append(rec); appendErr != nil {
		logging.Warn("Coordinator", "Failed to record execution: %v", appendErr)
	}
}

func compactOutput(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	return string(raw)
}
