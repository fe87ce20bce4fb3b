package domain

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"
)

// Transport defines the interface for MCP transport mechanisms.
// Implementations handle communication between MCP clients and the server
// using either stdio or HTTP transport.
type Transport interface {
	// Start begins listening for incoming MCP messages.
	// Returns an error if the transport cannot be initialized.
	Start(ctx context.Context) error

	// Send transmits a JSON-RPC response to the client.
	// Returns an error if the response cannot be sent.
	Send(response *Response) error

	// Receive returns a channel for incoming JSON-RPC requests.
	// The channel is closed when the transport stops reading.
	Receive() <-chan *Request

	// Close gracefully shuts down the transport.
	// Returns an error if shutdown fails.
	Close() error
}

// maxMessageSize bounds a single newline-delimited stdio message.
const maxMessageSize = 4 * 1024 * 1024

// StdioTransport implements Transport using stdin/stdout for communication.
// It reads newline-delimited JSON-RPC messages and writes one response per line.
type StdioTransport struct {
	reader  io.Reader
	writer  *bufio.Writer
	reqChan chan *Request
	logger  *StructuredLogger
	mu      sync.Mutex
	closed  bool
}

// NewStdioTransport creates a StdioTransport over os.Stdin and os.Stdout.
func NewStdioTransport(logger *StructuredLogger) *StdioTransport {
	return NewStdioTransportWithIO(os.Stdin, os.Stdout, logger)
}

// NewStdioTransportWithIO creates a StdioTransport with custom IO streams.
func NewStdioTransportWithIO(reader io.Reader, writer io.Writer, logger *StructuredLogger) *StdioTransport {
	return &StdioTransport{
		reader:  reader,
		writer:  bufio.NewWriter(writer),
		reqChan: make(chan *Request, 10),
		logger:  logger,
	}
}

// Start begins reading JSON-RPC messages in a background goroutine.
func (t *StdioTransport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transport is closed")
	}

	go t.readLoop(ctx)
	return nil
}

// readLoop reads lines until EOF or cancellation, then closes the request channel.
// A line longer than maxMessageSize is discarded and answered with an error;
// reading continues with the next line.
func (t *StdioTransport) readLoop(ctx context.Context) {
	defer close(t.reqChan)

	reader := bufio.NewReaderSize(t.reader, 64*1024)

	for {
		line, tooLong, readErr := readLine(reader, maxMessageSize)

		if tooLong {
			t.logger.LogWarn("discarding oversized stdio message", map[string]interface{}{
				"limit_bytes": maxMessageSize,
			})
			errResp := NewErrorResponse(nil, InvalidRequest, "Invalid Request",
				fmt.Sprintf("message exceeds %d bytes", maxMessageSize))
			if err := t.Send(errResp); err != nil {
				t.logger.LogError("failed to send size error", err, nil)
			}
		} else if line = bytes.TrimSpace(line); len(line) > 0 {
			req, errResp := decodeRequest(line)
			if errResp != nil {
				if err := t.Send(errResp); err != nil {
					t.logger.LogError("failed to send decode error", err, nil)
				}
			} else {
				select {
				case t.reqChan <- req:
				case <-ctx.Done():
					return
				}
			}
		}

		if readErr != nil {
			if readErr != io.EOF {
				t.logger.LogError("stdio read failed", readErr, nil)
			}
			return
		}
	}
}

// readLine returns the next newline-terminated line. Once a line grows past
// limit its bytes are dropped and tooLong is set, but the rest of the line is
// still consumed so the next call starts on a fresh message.
func readLine(r *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	for {
		chunk, readErr := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(bytes.TrimRight(chunk, "\r\n")) > limit {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		if readErr == bufio.ErrBufferFull {
			continue
		}
		return line, tooLong, readErr
	}
}

// Send writes a JSON-RPC response as a single line.
func (t *StdioTransport) Send(response *Response) error {
	data, err := encodeResponse(response)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transport is closed")
	}

	if _, err := t.writer.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}

	if err := t.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush response: %w", err)
	}

	return nil
}

// Receive returns the channel for incoming JSON-RPC requests.
func (t *StdioTransport) Receive() <-chan *Request {
	return t.reqChan
}

// Close stops accepting sends. The request channel is closed by the reader.
func (t *StdioTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	return nil
}

// decodeRequest parses one JSON-RPC message. On failure it returns the error
// response that should be sent back instead.
func decodeRequest(data []byte) (*Request, *Response) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, NewErrorResponse(nil, ParseError, "Parse error", err.Error())
	}

	if req.JSONRPC != "2.0" {
		return nil, NewErrorResponse(req.ID, InvalidRequest, "Invalid Request", "invalid jsonrpc version")
	}

	return &req, nil
}

func encodeResponse(response *Response) ([]byte, error) {
	if response.JSONRPC == "" {
		response.JSONRPC = "2.0"
	}

	data, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return data, nil
}

// HTTPTransport implements Transport using HTTP with SSE for communication.
// It exposes two endpoints:
//  1. GET /mcp opens an SSE stream and announces the session's message endpoint
//  2. POST /mcp/message?sessionId=... delivers client-to-server messages
//
// Responses are delivered on the stream of the session that sent the request.
type HTTPTransport struct {
	host     string
	port     int
	server   *http.Server
	listener net.Listener
	reqChan  chan *Request
	logger   *StructuredLogger

	mu     sync.Mutex
	closed bool

	sessionsMu sync.RWMutex
	sessions   map[string]*sseSession
	nextID     uint64
}

// sseSession represents an active SSE connection.
type sseSession struct {
	id       string
	messages chan *Response
	done     chan struct{}
	once     sync.Once
}

func (s *sseSession) close() {
	s.once.Do(func() { close(s.done) })
}

// NewHTTPTransport creates a new HTTPTransport instance.
func NewHTTPTransport(host string, port int, logger *StructuredLogger) *HTTPTransport {
	return &HTTPTransport{
		host:     host,
		port:     port,
		reqChan:  make(chan *Request, 10),
		logger:   logger,
		sessions: make(map[string]*sseSession),
	}
}

// Handler returns the HTTP handler serving both MCP endpoints.
func (t *HTTPTransport) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", t.handleSSE)
	mux.HandleFunc("/mcp/message", t.handleMessage)
	return mux
}

// Start binds the listener and serves in the background until ctx is done.
func (t *HTTPTransport) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return fmt.Errorf("transport is closed")
	}

	addr := net.JoinHostPort(t.host, strconv.Itoa(t.port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	t.listener = listener
	t.server = &http.Server{
		Handler:           t.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := t.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.logger.LogError("http transport stopped", err, map[string]interface{}{"addr": addr})
		}
	}()

	go func() {
		<-ctx.Done()
		t.Close()
	}()

	t.logger.LogInfo("http transport listening", map[string]interface{}{"addr": listener.Addr().String()})
	return nil
}

// Addr returns the bound listener address, or nil before Start.
func (t *HTTPTransport) Addr() net.Addr {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.listener == nil {
		return nil
	}
	return t.listener.Addr()
}

// handleSSE handles SSE connections (GET requests) for server-to-client messages.
func (t *HTTPTransport) handleSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	session := t.openSession()
	if session == nil {
		http.Error(w, "Transport closed", http.StatusServiceUnavailable)
		return
	}
	defer t.closeSession(session.id)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: endpoint\ndata: /mcp/message?sessionId=%s\n\n", session.id)
	flusher.Flush()

	t.logger.LogDebug("sse session established", map[string]interface{}{"session_id": session.id})

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			t.logger.LogDebug("sse session disconnected", map[string]interface{}{"session_id": session.id})
			return
		case <-session.done:
			return
		case response := <-session.messages:
			data, err := encodeResponse(response)
			if err != nil {
				t.logger.LogError("failed to encode sse message", err, map[string]interface{}{"session_id": session.id})
				continue
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		}
	}
}

// handleMessage handles HTTP POST requests for client-to-server messages.
func (t *HTTPTransport) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "Missing sessionId parameter", http.StatusBadRequest)
		return
	}

	session := t.lookupSession(sessionID)
	if session == nil {
		http.Error(w, "Invalid session", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageSize))
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	req, errResp := decodeRequest(body)
	if errResp != nil {
		t.deliver(session, errResp)
		w.WriteHeader(http.StatusAccepted)
		return
	}
	req.SessionID = sessionID

	// reqChan is closed under mu once closed is set, so the send happens under mu too
	t.mu.Lock()
	accepted := false
	if !t.closed {
		select {
		case t.reqChan <- req:
			accepted = true
		default:
		}
	}
	t.mu.Unlock()

	if !accepted {
		t.deliver(session, NewErrorResponse(req.ID, InternalError, "Internal error", "request queue full"))
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Send delivers a response to the session that issued the request,
// or to every session when the response carries no session.
func (t *HTTPTransport) Send(response *Response) error {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return fmt.Errorf("transport is closed")
	}

	if response.SessionID != "" {
		session := t.lookupSession(response.SessionID)
		if session == nil {
			return fmt.Errorf("session %s is gone", response.SessionID)
		}
		return t.deliver(session, response)
	}

	t.sessionsMu.RLock()
	defer t.sessionsMu.RUnlock()

	if len(t.sessions) == 0 {
		return fmt.Errorf("no active sessions")
	}
	for _, session := range t.sessions {
		_ = t.deliver(session, response)
	}
	return nil
}

func (t *HTTPTransport) deliver(session *sseSession, response *Response) error {
	select {
	case session.messages <- response:
		return nil
	case <-session.done:
		return fmt.Errorf("session %s is closed", session.id)
	default:
		t.logger.LogWarn("dropping response: session queue full", map[string]interface{}{"session_id": session.id})
		return fmt.Errorf("session %s queue is full", session.id)
	}
}

func (t *HTTPTransport) openSession() *sseSession {
	t.mu.Lock()
	closed := t.closed
	t.mu.Unlock()
	if closed {
		return nil
	}

	t.sessionsMu.Lock()
	defer t.sessionsMu.Unlock()

	t.nextID++
	session := &sseSession{
		id:       fmt.Sprintf("session_%d_%d", time.Now().UnixNano(), t.nextID),
		messages: make(chan *Response, 10),
		done:     make(chan struct{}),
	}
	t.sessions[session.id] = session
	return session
}

func (t *HTTPTransport) lookupSession(id string) *sseSession {
	t.sessionsMu.RLock()
	defer t.sessionsMu.RUnlock()
	return t.sessions[id]
}

func (t *HTTPTransport) closeSession(id string) {
	t.sessionsMu.Lock()
	defer t.sessionsMu.Unlock()

	if session, ok := t.sessions[id]; ok {
		session.close()
		delete(t.sessions, id)
	}
}

// Receive returns the channel for incoming JSON-RPC requests.
func (t *HTTPTransport) Receive() <-chan *Request {
	return t.reqChan
}

// Close shuts down the HTTP server and all SSE sessions.
func (t *HTTPTransport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	server := t.server
	close(t.reqChan)
	t.mu.Unlock()

	t.sessionsMu.Lock()
	for id, session := range t.sessions {
		session.close()
		delete(t.sessions, id)
	}
	t.sessionsMu.Unlock()

	var err error
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = server.Shutdown(ctx)
	}

	return err
}
