package core

import "time"

// SystemStatus is a point-in-time snapshot of backend readiness and
// capability. It is fetched once at startup and may be re-fetched on demand;
// it is never subscribed to or polled in the background. Consumers replace
// the value wholesale on refresh.
type SystemStatus struct {
	Ready          bool      `json:"ready"`
	Version        string    `json:"version,omitempty"`
	ToolCount      int       `json:"tool_count"`
	AvailableTools []string  `json:"available_tools,omitempty"`
	RerankerModels int       `json:"reranker_models,omitempty"`
	LastError      string    `json:"last_error,omitempty"`
	CheckedAt      time.Time `json:"checked_at"`
}
