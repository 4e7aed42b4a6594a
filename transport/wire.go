package transport

import (
	"encoding/json"

	"github.com/lexchat/lexchat/core"
)

// QueryRequest is the JSON body of a submit call. Messages carries the prior
// conversation history projection; the new question travels in Question.
type QueryRequest struct {
	Question        string         `json:"question"`
	SessionID       string         `json:"session_id,omitempty"`
	IncludeEvidence bool           `json:"include_technical_details"`
	Messages        []core.Message `json:"messages"`
}

// ID is an evidence identifier, unique within one response's evidence set.
// The evolving backend schema emits both JSON numbers and strings; both
// decode to their literal text.
type ID string

// UnmarshalJSON accepts a JSON number or string.
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier text.
func (id ID) String() string { return string(id) }

// SearchResult is one candidate passage from the hybrid retrieval stage. The
// per-scheme score fields are optional pointers so absence can be
// distinguished from zero.
type SearchResult struct {
	ID            ID       `json:"id"`
	Content       string   `json:"content"`
	HybridScore   *float64 `json:"hybrid_score,omitempty"`
	EnsembleScore *float64 `json:"ensemble_score,omitempty"`
	VectorScore   *float64 `json:"vector_score,omitempty"`
	KeywordScore  *float64 `json:"keyword_score,omitempty"`
	Source        string   `json:"source,omitempty"`
}

// UsedChunk is one passage that was handed to the generation step, annotated
// with whichever scores the evolving backend schema attached to it.
type UsedChunk struct {
	ID             ID       `json:"id"`
	Content        string   `json:"content"`
	FullContent    string   `json:"full_content,omitempty"`
	RerankScore    *float64 `json:"rerank_score,omitempty"`
	Similarity     *float64 `json:"similarity,omitempty"`
	HybridScore    *float64 `json:"hybrid_score,omitempty"`
	EnsembleScore  *float64 `json:"ensemble_score,omitempty"`
	VectorScore    *float64 `json:"vector_score,omitempty"`
	KeywordScore   *float64 `json:"keyword_score,omitempty"`
	Source         string   `json:"source,omitempty"`
	UsedInResponse bool     `json:"used_in_response"`
}

// WebResult is an auxiliary external search hit.
type WebResult struct {
	Title   string  `json:"title"`
	Content string  `json:"content"`
	URL     string  `json:"url"`
	Score   float64 `json:"score,omitempty"`
}

// TokenUsage is the raw token accounting triple.
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

// TechnicalDetails is the raw evidence payload attached to a successful
// answer. It is normalized into a core.EvidencePackage by the evidence
// package before display.
type TechnicalDetails struct {
	SearchMetadata map[string]any `json:"search_metadata,omitempty"`
	HybridResults  []SearchResult `json:"hybrid_results,omitempty"`
	WebResults     []WebResult    `json:"web_results,omitempty"`
	UsedChunks     []UsedChunk    `json:"used_chunks,omitempty"`
	TokenUsage     *TokenUsage    `json:"token_usage,omitempty"`
}

// QueryResponse is the JSON body of a successful submit call.
type QueryResponse struct {
	Answer           string            `json:"answer"`
	SessionID        string            `json:"session_id"`
	Timestamp        string            `json:"timestamp"`
	TechnicalDetails *TechnicalDetails `json:"technical_details,omitempty"`
	ProcessingTime   float64           `json:"processing_time"`
}

// HealthResponse is the JSON body of the health check endpoint.
type HealthResponse struct {
	Status     string     `json:"status"`
	Timestamp  string     `json:"timestamp"`
	Version    string     `json:"version"`
	SystemInfo SystemInfo `json:"system_info"`
}

// SystemInfo is the backend capability section of the health response.
type SystemInfo struct {
	AgentInitialized bool     `json:"agent_initialized"`
	RerankerModels   int      `json:"reranker_models,omitempty"`
	AvailableTools   []string `json:"available_tools,omitempty"`
	SystemError      string   `json:"system_error,omitempty"`
}

// errorBody is the declared error shape the backend attaches to failure
// statuses.
type errorBody struct {
	Error     string `json:"error,omitempty"`
	Detail    string `json:"detail,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}
