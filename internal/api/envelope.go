package api

import (
	"encoding/json"
	"fmt"
	"io"
)

// envelope is the uniform response shape the backend wraps every payload in.
// Exactly one of Data or Error is meaningful.
type envelope[T any] struct {
	Data  T      `json:"data"`
	Error string `json:"error,omitempty"`
}

// decodeEnvelope reads a response body and unwraps the envelope. A non-empty
// error string wins over any payload.
func decodeEnvelope[T any](r io.Reader) (T, error) {
	var env envelope[T]
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to decode response: %w", err)
	}
	if env.Error != "" {
		var zero T
		return zero, fmt.Errorf("%s", env.Error)
	}
	return env.Data, nil
}
