package config

import "time"

// Config is the top-level configuration structure for mcpctl.
type Config struct {
	Backend   BackendConfig   `yaml:"backend"`
	Auth      AuthConfig      `yaml:"auth"`
	Dashboard DashboardConfig `yaml:"dashboard"`
	LogLevel  string          `yaml:"logLevel,omitempty"` // debug, info, warn, error
}

// BackendConfig points at the MCP manager backend.
type BackendConfig struct {
	BaseURL string        `yaml:"baseURL,omitempty" env:"MCPCTL_BACKEND_URL"`
	Timeout time.Duration `yaml:"timeout,omitempty" env:"MCPCTL_BACKEND_TIMEOUT"`
}

// AuthConfig configures the protected-surface gate.
type AuthConfig struct {
	// RequiredRoles gates the dashboard; empty means any authenticated user.
	RequiredRoles []string `yaml:"requiredRoles,omitempty" env:"MCPCTL_REQUIRED_ROLES" envSeparator:","`
	// OperatorRoles gates mutating operations (start/stop/execute).
	OperatorRoles    []string `yaml:"operatorRoles,omitempty" env:"MCPCTL_OPERATOR_ROLES" envSeparator:","`
	LoginPath        string   `yaml:"loginPath,omitempty"`
	UnauthorizedPath string   `yaml:"unauthorizedPath,omitempty"`
}

// DashboardConfig tunes the TUI.
type DashboardConfig struct {
	HistoryPageSize int           `yaml:"historyPageSize,omitempty" env:"MCPCTL_HISTORY_PAGE_SIZE"`
	ToastDuration   time.Duration `yaml:"toastDuration,omitempty"`
	RefreshInterval time.Duration `yaml:"refreshInterval,omitempty"`
}
