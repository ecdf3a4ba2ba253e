package config

import "time"

// GetDefaultConfig returns the built-in defaults every other layer overlays.
func GetDefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 15 * time.Second,
		},
		Auth: AuthConfig{
			LoginPath:        "/login",
			UnauthorizedPath: "/unauthorized",
		},
		Dashboard: DashboardConfig{
			HistoryPageSize: 15,
			ToastDuration:   5 * time.Second,
			RefreshInterval: 10 * time.Second,
		},
		LogLevel: "info",
	}
}
