package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexchat/lexchat/core"
)

func TestClient_SubmitQuery_Success(t *testing.T) {
	var got QueryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/query", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(QueryResponse{
			Answer:         "Overtime pay is 1.34x for the first two hours.",
			SessionID:      "s-1",
			Timestamp:      "2025-06-01T10:00:00Z",
			ProcessingTime: 3.21,
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	resp, err := c.SubmitQuery(context.Background(), "What is the overtime pay formula?", nil, true)
	require.NoError(t, err)

	assert.Equal(t, "What is the overtime pay formula?", got.Question)
	assert.NotNil(t, got.Messages)
	assert.Empty(t, got.Messages)
	assert.True(t, got.IncludeEvidence)
	assert.Equal(t, "Overtime pay is 1.34x for the first two hours.", resp.Answer)
	assert.InDelta(t, 3.21, resp.ProcessingTime, 1e-9)
}

func TestClient_SubmitQuery_MixedEvidenceIDs(t *testing.T) {
	// The backend schema emits numeric ids for retrieval results and string
	// ids (e.g. article references) for chunks; both must decode.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"answer": "Article 24 covers termination notice.",
			"session_id": "s-2",
			"technical_details": {
				"hybrid_results": [{"id": 7, "content": "candidate", "hybrid_score": 0.5}],
				"used_chunks": [{"id": "art-24", "content": "Article 24 ...", "rerank_score": 0.9, "used_in_response": true}]
			},
			"processing_time": 1.2
		}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).SubmitQuery(context.Background(), "notice period?", nil, true)
	require.NoError(t, err)
	assert.Equal(t, "Article 24 covers termination notice.", resp.Answer)
	require.NotNil(t, resp.TechnicalDetails)
	require.Len(t, resp.TechnicalDetails.HybridResults, 1)
	assert.Equal(t, "7", resp.TechnicalDetails.HybridResults[0].ID.String())
	require.Len(t, resp.TechnicalDetails.UsedChunks, 1)
	assert.Equal(t, "art-24", resp.TechnicalDetails.UsedChunks[0].ID.String())
}

func TestClient_SubmitQuery_ForwardsHistory(t *testing.T) {
	var got QueryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(QueryResponse{Answer: "ok"})
	}))
	defer srv.Close()

	history := []core.Message{
		{Role: core.RoleUser, Content: "q1"},
		{Role: core.RoleAssistant, Content: "a1"},
		{Role: core.RoleUser, Content: "q2"},
	}
	_, err := NewClient(srv.URL).SubmitQuery(context.Background(), "q2", history, false)
	require.NoError(t, err)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, core.RoleAssistant, got.Messages[1].Role)
	assert.False(t, got.IncludeEvidence)
}

func TestClient_SubmitQuery_ErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		kind   ErrorKind
		detail string
	}{
		{"service unavailable", http.StatusServiceUnavailable, errorBody{Detail: "not initialized"}, KindServiceUnavailable, "not initialized"},
		{"internal error", http.StatusInternalServerError, errorBody{Detail: "query failed"}, KindInternalServiceError, "query failed"},
		{"rejected with detail", http.StatusUnprocessableEntity, errorBody{Detail: "question too long"}, KindRejected, "question too long"},
		{"rejected without detail", http.StatusBadRequest, "not json", KindRejected, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.body)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).SubmitQuery(context.Background(), "q", nil, true)
			require.Error(t, err)
			te, ok := AsError(err)
			require.True(t, ok, "error must be classified")
			assert.Equal(t, tt.kind, te.Kind)
			assert.Equal(t, tt.detail, te.Detail)
		})
	}
}

func TestClient_SubmitQuery_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, func(o *Options) { o.Timeout = 20 * time.Millisecond })
	_, err := c.SubmitQuery(context.Background(), "q", nil, true)
	te, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindTimeout, te.Kind)
}

func TestClient_SubmitQuery_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	_, err := NewClient(srv.URL).SubmitQuery(context.Background(), "q", nil, true)
	te, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindUnreachable, te.Kind)
}

func TestClient_FetchHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status:  "healthy",
			Version: "2.0.0",
			SystemInfo: SystemInfo{
				AgentInitialized: true,
				RerankerModels:   3,
				AvailableTools:   []string{"document_search", "web_search"},
			},
		})
	}))
	defer srv.Close()

	status, err := NewClient(srv.URL).FetchHealth(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Ready)
	assert.Equal(t, "2.0.0", status.Version)
	assert.Equal(t, 2, status.ToolCount)
	assert.Equal(t, 3, status.RerankerModels)
	assert.False(t, status.CheckedAt.IsZero())
}

func TestClient_FetchHealth_Unhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(HealthResponse{
			Status:     "unhealthy",
			SystemInfo: SystemInfo{AgentInitialized: false, SystemError: "index missing"},
		})
	}))
	defer srv.Close()

	status, err := NewClient(srv.URL).FetchHealth(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Ready)
	assert.Equal(t, "index missing", status.LastError)
}

func TestError_UserMessages(t *testing.T) {
	fixed := (&Error{Kind: KindTimeout}).UserMessage()
	assert.NotEmpty(t, fixed)
	assert.Equal(t, fixed, (&Error{Kind: KindTimeout, Detail: "ignored"}).UserMessage(),
		"non-rejected kinds use a fixed message regardless of detail")

	assert.Equal(t, "question too long", (&Error{Kind: KindRejected, Detail: "question too long"}).UserMessage())
	assert.NotEmpty(t, (&Error{Kind: KindRejected}).UserMessage())
}
