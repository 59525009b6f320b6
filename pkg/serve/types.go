package serve

import (
	"encoding/json"
)

// Request represents an incoming NDJSON request
type Request struct {
	Type    string          `json:"type"` // "validate" | "validate_batch" | "close"
	Payload json.RawMessage `json:"payload"`
}

// ValidatePayload is the payload for "validate" requests
type ValidatePayload struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// ValidateBatchPayload is the payload for "validate_batch" requests
type ValidateBatchPayload struct {
	Items []ValidatePayload `json:"items"`
}

// Response represents an outgoing NDJSON response
type Response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"` // "ready" | "validate" | "validate_batch" | "error"
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ReadyData is the data field for "ready" responses
type ReadyData struct {
	Version string `json:"version"`
}
