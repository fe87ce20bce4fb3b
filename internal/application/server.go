package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"tmdb-mcp-server/internal/domain"
)

// Server identity reported by initialize.
const (
	ServerName    = "tmdb-mcp-server"
	ServerVersion = "1.0.0"
)

// Server is the main MCP server implementation.
// It reads requests from the transport, serves the MCP protocol methods
// and writes responses back. Each request is handled on its own goroutine.
type Server struct {
	transport     domain.Transport
	router        *RequestRouter
	resources     *ResourceHandler
	mapper        domain.ResponseMapper
	logger        *domain.StructuredLogger
	transportType string

	mu       sync.Mutex
	closing  bool
	inflight sync.WaitGroup
	done     chan struct{}
}

// NewServer creates a new MCP server instance.
func NewServer(
	transport domain.Transport,
	router *RequestRouter,
	resources *ResourceHandler,
	mapper domain.ResponseMapper,
	logger *domain.StructuredLogger,
	transportType string,
) *Server {
	return &Server{
		transport:     transport,
		router:        router,
		resources:     resources,
		mapper:        mapper,
		logger:        logger,
		transportType: transportType,
		done:          make(chan struct{}),
	}
}

// Start begins the server operation.
// It starts the transport layer and begins processing incoming requests.
func (s *Server) Start(ctx context.Context) error {
	if err := s.transport.Start(ctx); err != nil {
		s.logger.LogError("failed to start transport", err, map[string]interface{}{
			"transport_type": s.transportType,
		})
		return fmt.Errorf("failed to start transport: %w", err)
	}

	s.logger.LogInfo("server started", map[string]interface{}{
		"transport_type": s.transportType,
		"tools":          len(s.router.ListAllTools()),
	})

	go s.processRequests(ctx)

	return nil
}

// Done is closed once the transport stops delivering requests
// (stdin reached EOF, or the context was cancelled).
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// processRequests continuously processes incoming JSON-RPC requests.
func (s *Server) processRequests(ctx context.Context) {
	defer close(s.done)

	reqChan := s.transport.Receive()

	for {
		select {
		case <-ctx.Done():
			s.logger.LogInfo("server shutting down", nil)
			return
		case req, ok := <-reqChan:
			if !ok {
				s.logger.LogInfo("transport closed", nil)
				return
			}

			if !s.track() {
				return
			}
			go func() {
				defer s.inflight.Done()
				s.serve(ctx, req)
			}()
		}
	}
}

// track registers an in-flight request unless the server is closing.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closing {
		return false
	}
	s.inflight.Add(1)
	return true
}

func (s *Server) serve(ctx context.Context, req *domain.Request) {
	response := s.HandleRequest(ctx, req)
	if response == nil {
		return
	}

	response.SessionID = req.SessionID
	if err := s.transport.Send(response); err != nil {
		s.logger.LogError("failed to send response", err, map[string]interface{}{
			"request_id": req.ID,
		})
	}
}

// HandleRequest processes a single JSON-RPC request and returns its response.
// Notifications yield nil.
func (s *Server) HandleRequest(ctx context.Context, req *domain.Request) *domain.Response {
	s.logger.LogInfo("received request", map[string]interface{}{
		"method":     req.Method,
		"request_id": req.ID,
	})

	if req.IsNotification() {
		if req.Method != "notifications/initialized" {
			s.logger.LogDebug("ignoring notification", map[string]interface{}{"method": req.Method})
		}
		return nil
	}

	if err := s.validateRequest(req); err != nil {
		return domain.NewErrorResponse(req.ID, domain.InvalidRequest, "Invalid Request", err.Error())
	}

	var (
		result interface{}
		err    error
	)

	switch req.Method {
	case "initialize":
		result = s.handleInitialize()
	case "ping":
		result = map[string]interface{}{}
	case "tools/list":
		result = map[string]interface{}{"tools": s.router.ListAllTools()}
	case "tools/call":
		result, err = s.handleToolsCall(ctx, req)
	case "resources/list":
		result, err = s.handleResourcesList(ctx, req)
	case "resources/read":
		result, err = s.handleResourcesRead(ctx, req)
	default:
		return domain.NewErrorResponse(req.ID, domain.MethodNotFound, "Method not found", fmt.Sprintf("unknown method: %s", req.Method))
	}

	if err != nil {
		s.logger.LogError("request processing failed", err, map[string]interface{}{
			"method":     req.Method,
			"request_id": req.ID,
		})
		return &domain.Response{JSONRPC: "2.0", ID: req.ID, Error: s.mapper.MapError(err)}
	}

	return &domain.Response{JSONRPC: "2.0", ID: req.ID, Result: result}
}

// validateRequest validates the basic structure of a JSON-RPC request.
func (s *Server) validateRequest(req *domain.Request) error {
	if req.JSONRPC != "2.0" {
		return fmt.Errorf("invalid jsonrpc version: %s", req.JSONRPC)
	}

	if req.Method == "" {
		return fmt.Errorf("method is required")
	}

	return nil
}

// handleInitialize handles the MCP initialize handshake.
func (s *Server) handleInitialize() map[string]interface{} {
	return map[string]interface{}{
		"protocolVersion": domain.ProtocolVersion,
		"capabilities": map[string]interface{}{
			"tools":     map[string]interface{}{},
			"resources": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    ServerName,
			"version": ServerVersion,
		},
	}
}

// handleToolsCall executes a tool. Tool failures are reported inside the
// result (isError), never as JSON-RPC errors.
func (s *Server) handleToolsCall(ctx context.Context, req *domain.Request) (*domain.ToolResponse, error) {
	var toolReq domain.ToolRequest
	if err := decodeParams(req.Params, &toolReq); err != nil {
		return nil, invalidParams(err)
	}
	if toolReq.Name == "" {
		return nil, invalidParams(fmt.Errorf("tool name is required"))
	}

	return s.router.Execute(ctx, toolReq.Name, toolReq.Arguments), nil
}

func (s *Server) handleResourcesList(ctx context.Context, req *domain.Request) (*domain.ResourceList, error) {
	var params struct {
		Cursor string `json:"cursor"`
	}
	if req.Params != nil {
		if err := decodeParams(req.Params, &params); err != nil {
			return nil, invalidParams(err)
		}
	}

	return s.resources.ListResources(ctx, params.Cursor)
}

func (s *Server) handleResourcesRead(ctx context.Context, req *domain.Request) (*domain.ResourceReadResult, error) {
	var params struct {
		URI string `json:"uri"`
	}
	if err := decodeParams(req.Params, &params); err != nil {
		return nil, invalidParams(err)
	}
	if params.URI == "" {
		return nil, invalidParams(fmt.Errorf("uri is required"))
	}

	return s.resources.ReadResource(ctx, params.URI)
}

// decodeParams converts the generic params value into a typed struct.
func decodeParams(params interface{}, out interface{}) error {
	if params == nil {
		return fmt.Errorf("params is required")
	}

	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode params: %w", err)
	}

	return nil
}

func invalidParams(err error) *domain.Error {
	return &domain.Error{Code: domain.InvalidParams, Message: "Invalid params", Data: err.Error()}
}

// Close waits for in-flight requests to finish and shuts down the transport.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	s.inflight.Wait()

	s.logger.LogInfo("closing server", nil)
	return s.transport.Close()
}
