package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lexchat/lexchat/core"
	"github.com/lexchat/lexchat/logging"
)

// DefaultTimeout bounds a submit call. Generation runs inside the backend
// request, so the bound is deliberately generous.
const DefaultTimeout = 60 * time.Second

// Options configure the Client.
type Options struct {
	// Timeout bounds every submit call. Health checks use a much shorter
	// internal bound.
	Timeout time.Duration
	// HTTPClient overrides the underlying client (tests, custom transports).
	// Its own Timeout is left untouched when provided.
	HTTPClient *http.Client
	// SessionID, when set, is echoed on every query request so the backend
	// can correlate a conversation.
	SessionID string
	// Logger receives request/response observability. Defaults to NoOp.
	Logger logging.Logger
}

// Client issues request/response calls to the QA backend. It is stateless
// apart from configuration and safe for concurrent use.
type Client struct {
	baseURL   string
	client    *http.Client
	sessionID string
	logger    logging.Logger
}

// NewClient creates a Client for the given base URL (e.g.
// "http://localhost:8000") with optional overrides.
func NewClient(baseURL string, optFns ...func(o *Options)) *Client {
	opts := Options{
		Timeout: DefaultTimeout,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    client,
		sessionID: opts.SessionID,
		logger:    opts.Logger,
	}
}

// SubmitQuery sends a question with its conversation history to the backend
// and returns the raw response. Every failure resolves to a classified
// *Error; raw transport errors never cross this boundary.
func (c *Client) SubmitQuery(ctx context.Context, question string, history []core.Message, includeEvidence bool) (*QueryResponse, error) {
	if history == nil {
		history = []core.Message{}
	}
	reqBody := QueryRequest{
		Question:        question,
		SessionID:       c.sessionID,
		IncludeEvidence: includeEvidence,
		Messages:        history,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling query request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	c.logger.Debug("submitting query", "history_len", len(history), "include_evidence", includeEvidence)

	resp, err := c.client.Do(req)
	if err != nil {
		cerr := classifyTransport(err)
		c.logger.Warn("query call failed", "kind", cerr.Kind.String(), "error", err)
		return nil, cerr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		cerr := classifyStatus(resp.StatusCode, readErrorDetail(resp.Body))
		c.logger.Warn("backend declared failure", "status", resp.StatusCode, "kind", cerr.Kind.String())
		return nil, cerr
	}

	var qr QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&qr); err != nil {
		return nil, &Error{Kind: KindInternalServiceError, Detail: "invalid response payload", cause: err}
	}

	c.logger.Info("query completed", "duration", time.Since(started), "processing_time", qr.ProcessingTime)
	return &qr, nil
}

// FetchHealth probes the backend health endpoint and maps the result to a
// SystemStatus snapshot. There is no retry; the caller decides whether and
// when to probe again.
func (c *Client) FetchHealth(ctx context.Context) (*core.SystemStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("creating health request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, readErrorDetail(resp.Body))
	}

	var hr HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&hr); err != nil {
		return nil, &Error{Kind: KindInternalServiceError, Detail: "invalid health payload", cause: err}
	}

	status := &core.SystemStatus{
		Ready:          hr.Status == "healthy" && hr.SystemInfo.AgentInitialized,
		Version:        hr.Version,
		ToolCount:      len(hr.SystemInfo.AvailableTools),
		AvailableTools: hr.SystemInfo.AvailableTools,
		RerankerModels: hr.SystemInfo.RerankerModels,
		LastError:      hr.SystemInfo.SystemError,
		CheckedAt:      time.Now().UTC(),
	}
	c.logger.Debug("health check completed", "ready", status.Ready, "tools", status.ToolCount)
	return status, nil
}

// readErrorDetail best-effort extracts the backend detail text from a failure
// body. A body that is not the declared error shape yields an empty detail.
func readErrorDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 1<<16))
	if err != nil {
		return ""
	}
	var eb errorBody
	if err := json.Unmarshal(data, &eb); err != nil {
		return ""
	}
	if eb.Detail != "" {
		return eb.Detail
	}
	return eb.Error
}
