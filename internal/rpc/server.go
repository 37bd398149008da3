// Package rpc serves the JSON-RPC API over HTTP and WebSocket and streams
// applied transactions to WebSocket subscribers.
package rpc

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// maxRequestBody bounds a JSON-RPC request body.
const maxRequestBody = 1 << 20

// Server handles HTTP JSON-RPC requests
type Server struct {
	registry *rpc_types.MethodRegistry
	services *rpc_types.ServiceContainer
	timeout  time.Duration
	metrics  *Metrics
	log      *logrus.Entry
}

// NewServer creates a new RPC server with the given per-request timeout
func NewServer(services *rpc_types.ServiceContainer, timeout time.Duration, metrics *Metrics) *Server {
	server := &Server{
		registry: rpc_types.NewMethodRegistry(),
		services: services,
		timeout:  timeout,
		metrics:  metrics,
		log:      logrus.WithField("module", "rpc"),
	}
	registerAllMethods(server.registry)
	return server
}

// Request is a JSON-RPC request: {"method": "name", "params": [{...}]}
type Request struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params,omitempty"`
}

// ServeHTTP implements http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	requestID := uuid.NewString()
	w.Header().Set("X-Request-Id", requestID)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		s.handleGetRequest(w, r, requestID)
	case http.MethodPost:
		s.handlePostRequest(w, r, requestID)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetRequest answers GET /?command=name for methods without params
func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request, requestID string) {
	method := r.URL.Query().Get("command")
	if method == "" {
		method = "server_info"
	}

	result, rpcErr := s.execute(r, requestID, method, nil)
	s.writeResponse(w, map[string]interface{}{"command": method}, result, rpcErr)
}

// handlePostRequest processes a JSON-RPC payload
func (s *Server) handlePostRequest(w http.ResponseWriter, r *http.Request, requestID string) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	r.Body.Close()
	if err != nil {
		s.writeResponse(w, nil, nil, rpc_types.RpcErrorInternal("Failed to read request body"))
		return
	}

	var request Request
	if err := json.Unmarshal(body, &request); err != nil {
		s.writeResponse(w, nil, nil, rpc_types.RpcErrorJSONInvalid("Invalid JSON: "+err.Error()))
		return
	}
	if request.Method == "" {
		s.writeResponse(w, nil, nil, rpc_types.RpcErrorMissingCommand())
		return
	}

	// params is an array holding one object
	var params json.RawMessage
	if len(request.Params) > 0 {
		params = request.Params[0]
	}

	result, rpcErr := s.execute(r, requestID, request.Method, params)

	var requestObj interface{}
	if rpcErr != nil {
		reqMap := map[string]interface{}{}
		if params != nil {
			_ = json.Unmarshal(params, &reqMap)
		}
		reqMap["command"] = request.Method
		requestObj = reqMap
	}
	s.writeResponse(w, requestObj, result, rpcErr)
}

func (s *Server) execute(r *http.Request, requestID, method string, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	rpcCtx := &rpc_types.RpcContext{
		Context:   ctx,
		ClientIP:  getClientIP(r),
		RequestID: requestID,
		Services:  s.services,
	}
	return executeMethod(s.registry, s.metrics, s.log, "http", method, params, rpcCtx)
}

// executeMethod runs one registered method and records it.
func executeMethod(registry *rpc_types.MethodRegistry, metrics *Metrics, log *logrus.Entry, transport, method string, params json.RawMessage, ctx *rpc_types.RpcContext) (interface{}, *rpc_types.RpcError) {
	handler, exists := registry.Get(method)
	if !exists {
		metrics.observe("unknown", transport, true, 0)
		return nil, rpc_types.RpcErrorMethodNotFound(method)
	}

	start := time.Now()
	result, rpcErr := handler.Handle(ctx, params)
	elapsed := time.Since(start)
	metrics.observe(method, transport, rpcErr != nil, elapsed)

	entry := log.WithFields(logrus.Fields{
		"method":     method,
		"transport":  transport,
		"request_id": ctx.RequestID,
		"client":     ctx.ClientIP,
		"elapsed":    elapsed,
	})
	if rpcErr != nil {
		entry.WithField("error", rpcErr.ErrorString).Debug("rpc request failed")
	} else {
		entry.Debug("rpc request")
	}
	return result, rpcErr
}

// writeResponse writes {"result": {...}} with status set to success or
// error. Errors carry error, error_code and error_message inside result.
func (s *Server) writeResponse(w http.ResponseWriter, request interface{}, result interface{}, rpcErr *rpc_types.RpcError) {
	var resultObj map[string]interface{}
	if rpcErr != nil {
		resultObj = map[string]interface{}{
			"status":        "error",
			"error":         rpcErr.ErrorString,
			"error_code":    rpcErr.Code,
			"error_message": rpcErr.Message,
		}
		if request != nil {
			resultObj["request"] = request
		}
	} else if m, ok := result.(map[string]interface{}); ok {
		resultObj = m
		resultObj["status"] = "success"
	} else {
		resultObj = map[string]interface{}{
			"status": "success",
			"data":   result,
		}
	}

	responseData, err := json.Marshal(map[string]interface{}{"result": resultObj})
	if err != nil {
		s.log.WithError(err).Error("failed to marshal response")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(responseData)
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
