// Package api contains the REST client for the MCP manager backend and the
// shared data types exchanged with it. Every backend response arrives in a
// uniform envelope carrying either a data payload or an error string; the
// client unwraps the envelope and surfaces backend errors as Go errors.
package api
