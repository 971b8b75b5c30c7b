package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// Locals keys the auth middleware fills in before the transport handlers
// run.
const (
	LocalUserID = "mcp_user_id"
	LocalScopes = "mcp_scopes"
)

// JSON-RPC error codes. Scope refusals use an implementation-defined code.
const (
	codeMethodNotFound    = -32601
	codeInvalidParams     = -32602
	codeInternalError     = -32603
	codeParseError        = -32700
	codeInsufficientScope = -32001
)

const keepaliveInterval = 15 * time.Second

// GuardFunc authorizes one tool call for a grant's scopes. A non-nil error
// refuses the call before the gateway is reached.
type GuardFunc func(ctx context.Context, tool string, scopes []string) error

type rpcRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Result  any              `json:"result,omitempty"`
	Error   *rpcError        `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type session struct {
	id     string
	userID string
	scopes []string
	out    chan []byte
	done   chan struct{}
	once   sync.Once
}

func (s *session) close() {
	s.once.Do(func() { close(s.done) })
}

// SSETransport multiplexes tool invocations over long-lived SSE streams:
// GET opens a stream and announces a per-session message endpoint, POSTs to
// that endpoint carry JSON-RPC requests and responses flow back on the
// stream. Invocations on one session are independent of each other.
type SSETransport struct {
	server      *Server
	guard       GuardFunc
	messagePath string

	mu       sync.RWMutex
	sessions map[string]*session
	closed   bool
}

func NewSSETransport(server *Server, guard GuardFunc, messagePath string) *SSETransport {
	return &SSETransport{
		server:      server,
		guard:       guard,
		messagePath: messagePath,
		sessions:    map[string]*session{},
	}
}

// HandleSSE opens a streaming session. The auth middleware must have run
// first: user id and scopes are read from locals.
func (t *SSETransport) HandleSSE(c *fiber.Ctx) error {
	userID, _ := c.Locals(LocalUserID).(string)
	scopes, _ := c.Locals(LocalScopes).([]string)

	sess := &session{
		id:     uuid.NewString(),
		userID: userID,
		scopes: scopes,
		out:    make(chan []byte, 16),
		done:   make(chan struct{}),
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return fiber.NewError(fiber.StatusServiceUnavailable, "server shutting down")
	}
	t.sessions[sess.id] = sess
	t.mu.Unlock()

	slog.Info("mcp session opened", slog.String("session_id", sess.id), slog.String("user_id", userID))

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	endpoint := fmt.Sprintf("%s?sessionId=%s", t.messagePath, sess.id)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer t.unregister(sess)

		if err := writeEvent(w, "endpoint", endpoint); err != nil {
			return
		}

		keepalive := time.NewTicker(keepaliveInterval)
		defer keepalive.Stop()

		for {
			select {
			case payload := <-sess.out:
				if err := writeEvent(w, "message", string(payload)); err != nil {
					return
				}
			case <-keepalive.C:
				if _, err := w.WriteString(": keepalive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-sess.done:
				return
			}
		}
	}))

	return nil
}

// HandleMessage accepts one JSON-RPC request for an open session. The
// response is delivered on the session's stream; the POST itself only
// acknowledges receipt.
func (t *SSETransport) HandleMessage(c *fiber.Ctx) error {
	t.mu.RLock()
	sess, ok := t.sessions[c.Query("sessionId")]
	t.mu.RUnlock()
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown session")
	}

	var req rpcRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed JSON-RPC request")
	}

	if resp := t.dispatch(c.UserContext(), sess, req); resp != nil {
		payload, err := json.Marshal(resp)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "response serialization failed")
		}

		select {
		case sess.out <- payload:
		case <-sess.done:
			return fiber.NewError(fiber.StatusGone, "session closed")
		}
	}

	return c.SendStatus(fiber.StatusAccepted)
}

// dispatch runs one request and builds its response. Notifications return
// nil: nothing goes back on the stream for them.
func (t *SSETransport) dispatch(ctx context.Context, sess *session, req rpcRequest) *rpcResponse {
	if req.ID == nil {
		// notifications/initialized and friends need no reply
		return nil
	}

	resp := &rpcResponse{JSONRPC: "2.0", ID: req.ID}

	switch req.Method {
	case "initialize":
		resp.Result = map[string]any{
			"protocolVersion": ProtocolVersion,
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo": map[string]any{
				"name":    t.server.Name(),
				"version": t.server.Version(),
			},
		}

	case "ping":
		resp.Result = map[string]any{}

	case "tools/list":
		resp.Result = t.listTools()

	case "tools/call":
		resp.Result, resp.Error = t.callTool(ctx, sess, req.Params)

	default:
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: fmt.Sprintf("method %q not found", req.Method)}
	}

	return resp
}

func (t *SSETransport) listTools() map[string]any {
	type toolWire struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		InputSchema Schema `json:"inputSchema"`
	}

	tools := make([]toolWire, 0)
	for _, tool := range t.server.Tools() {
		tools = append(tools, toolWire{Name: tool.Name, Description: tool.Description, InputSchema: tool.InputSchema})
	}

	return map[string]any{"tools": tools}
}

func (t *SSETransport) callTool(ctx context.Context, sess *session, params json.RawMessage) (any, *rpcError) {
	var call struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return nil, &rpcError{Code: codeParseError, Message: "malformed tools/call params"}
	}

	if err := t.guard(ctx, call.Name, sess.scopes); err != nil {
		return nil, &rpcError{Code: codeInsufficientScope, Message: err.Error()}
	}

	result, err := t.server.Invoke(ctx, call.Name, call.Arguments)
	if err != nil {
		var unknownErr *UnknownToolError
		var validationErr *ValidationError

		switch {
		case errors.As(err, &unknownErr):
			return nil, &rpcError{Code: codeInvalidParams, Message: unknownErr.Error()}
		case errors.As(err, &validationErr):
			return nil, &rpcError{
				Code:    codeInvalidParams,
				Message: validationErr.Error(),
				Data:    map[string]any{"fields": validationErr.Fields},
			}
		default:
			return nil, &rpcError{Code: codeInternalError, Message: err.Error()}
		}
	}

	return result, nil
}

func (t *SSETransport) unregister(sess *session) {
	sess.close()

	t.mu.Lock()
	delete(t.sessions, sess.id)
	t.mu.Unlock()

	slog.Info("mcp session closed", slog.String("session_id", sess.id))
}

// Close terminates every open session. New sessions are refused afterwards.
func (t *SSETransport) Close() {
	t.mu.Lock()
	t.closed = true
	sessions := make([]*session, 0, len(t.sessions))
	for _, sess := range t.sessions {
		sessions = append(sessions, sess)
	}
	t.mu.Unlock()

	for _, sess := range sessions {
		sess.close()
	}
}

func writeEvent(w *bufio.Writer, event, data string) error {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return w.Flush()
}
