package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"mcpctl/pkg/logging"
)

// For testing - allows injecting a custom storage path
var osUserHomeDir = os.UserHomeDir

const (
	historyDir  = ".config/mcpctl"
	historyFile = "history.yaml"
)

// Record is one tool execution as shown in the dashboard.
type Record struct {
	ID         string                 `yaml:"id"`
	ServerID   string                 `yaml:"server_id"`
	ToolName   string                 `yaml:"tool_name"`
	Parameters map[string]interface{} `yaml:"parameters,omitempty"`
	Status     string                 `yaml:"status"`
	Output     string                 `yaml:"output,omitempty"`
	Error      string                 `yaml:"error,omitempty"`
	StartedAt  time.Time              `yaml:"started_at"`
	FinishedAt time.Time              `yaml:"finished_at"`
}

// Duration returns how long the execution took.
func (r Record) Duration() time.Duration {
	if r.FinishedAt.Before(r.StartedAt) {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Store keeps execution records in memory and mirrors them to a YAML file
// under the user config dir so the dashboard survives restarts.
type Store struct {
	mu      sync.RWMutex
	path    string
	records []Record
}

// NewStore creates a store backed by the default history file and loads any
// existing records.
func NewStore() (*Store, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine home dir: %w", err)
	}
	return NewStoreAt(filepath.Join(homeDir, historyDir, historyFile))
}

// NewStoreAt creates a store backed by the given file path.
func NewStoreAt(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read history file: %w", err)
	}

	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		// A corrupt history file should not block the application.
		logging.Warn("History", "Ignoring unreadable history file %s: %v", s.path, err)
		return nil
	}
	s.records = records
	logging.Debug("History", "Loaded %d execution records", len(records))
	return nil
}

func (s *Store) saveLocked() error {
	data, err := yaml.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// Append adds a record and persists the store.
func (s *Store) Append(record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
	return s.saveLocked()
}

// All returns a snapshot of every record in insertion order.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record(nil), s.records...)
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear removes all records and persists the empty store.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	return s.saveLocked()
}

// Query applies filter, sort, and pagination and returns the page plus the
// total match count before pagination.
func (s *Store) Query(q Query) ([]Record, int) {
	return q.Apply(s.All())
}
