package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_types"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	wsSendBuffer     = 256
	wsMaxMessageSize = 512 * 1024
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = (wsPongWait * 9) / 10
	wsWriteWait      = 10 * time.Second
)

// WebSocketServer serves RPC methods and subscriptions over WebSocket
type WebSocketServer struct {
	upgrader      websocket.Upgrader
	registry      *rpc_types.MethodRegistry
	services      *rpc_types.ServiceContainer
	subscriptions *SubscriptionManager
	timeout       time.Duration
	metrics       *Metrics
	log           *logrus.Entry
}

type wsConnection struct {
	*Connection
	conn     *websocket.Conn
	clientIP string
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewWebSocketServer creates a new WebSocket server
func NewWebSocketServer(services *rpc_types.ServiceContainer, subscriptions *SubscriptionManager, timeout time.Duration, metrics *Metrics) *WebSocketServer {
	ws := &WebSocketServer{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		registry:      rpc_types.NewMethodRegistry(),
		services:      services,
		subscriptions: subscriptions,
		timeout:       timeout,
		metrics:       metrics,
		log:           logrus.WithField("module", "websocket"),
	}
	registerAllMethods(ws.registry)
	return ws
}

// ServeHTTP handles WebSocket upgrade requests
func (ws *WebSocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.log.WithError(err).Debug("websocket upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	wsConn := &wsConnection{
		Connection: NewConnection(uuid.NewString(), wsSendBuffer),
		conn:       conn,
		clientIP:   getClientIP(r),
		ctx:        ctx,
		cancel:     cancel,
	}
	ws.subscriptions.AddConnection(wsConn.Connection)
	ws.metrics.connectionOpened()
	ws.log.WithFields(logrus.Fields{"connection": wsConn.ID, "client": wsConn.clientIP}).Debug("websocket connected")

	go ws.writePump(wsConn)
	go ws.readPump(wsConn)
}

// readPump handles inbound messages until the connection fails.
func (ws *WebSocketServer) readPump(wsConn *wsConnection) {
	defer ws.closeConnection(wsConn)

	wsConn.conn.SetReadLimit(wsMaxMessageSize)
	wsConn.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	wsConn.conn.SetPongHandler(func(string) error {
		return wsConn.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, message, err := wsConn.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.log.WithError(err).WithField("connection", wsConn.ID).Debug("websocket read failed")
			}
			return
		}
		ws.handleMessage(wsConn, message)
	}
}

// writePump owns every write to the connection, pings included.
func (ws *WebSocketServer) writePump(wsConn *wsConnection) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.conn.Close()
	}()

	for {
		select {
		case <-wsConn.ctx.Done():
			wsConn.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			wsConn.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case data := <-wsConn.send:
			wsConn.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := wsConn.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				wsConn.cancel()
				return
			}
		case <-ticker.C:
			wsConn.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := wsConn.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				wsConn.cancel()
				return
			}
		}
	}
}

// handleMessage processes one command. The command name, id and params
// share the top-level object: {"id": 1, "command": "ping", ...}.
func (ws *WebSocketServer) handleMessage(wsConn *wsConnection, message []byte) {
	var cmdMap map[string]json.RawMessage
	if err := json.Unmarshal(message, &cmdMap); err != nil {
		ws.sendError(wsConn, rpc_types.RpcErrorJSONInvalid("Invalid JSON: "+err.Error()), nil)
		return
	}

	var id interface{}
	if raw, ok := cmdMap["id"]; ok {
		_ = json.Unmarshal(raw, &id)
	}

	var command string
	if raw, ok := cmdMap["command"]; ok {
		_ = json.Unmarshal(raw, &command)
	}
	if command == "" {
		ws.sendError(wsConn, rpc_types.RpcErrorMissingCommand(), id)
		return
	}

	delete(cmdMap, "command")
	delete(cmdMap, "id")
	var params json.RawMessage
	if len(cmdMap) > 0 {
		params, _ = json.Marshal(cmdMap)
	}

	switch command {
	case "subscribe", "unsubscribe":
		ws.handleSubscription(wsConn, command, id, params)
		return
	}

	ctx, cancel := context.WithTimeout(wsConn.ctx, ws.timeout)
	defer cancel()
	rpcCtx := &rpc_types.RpcContext{
		Context:   ctx,
		ClientIP:  wsConn.clientIP,
		RequestID: uuid.NewString(),
		Services:  ws.services,
	}

	result, rpcErr := executeMethod(ws.registry, ws.metrics, ws.log, "websocket", command, params, rpcCtx)
	if rpcErr != nil {
		ws.sendError(wsConn, rpcErr, id)
		return
	}
	ws.sendResult(wsConn, result, id)
}

func (ws *WebSocketServer) handleSubscription(wsConn *wsConnection, command string, id interface{}, params json.RawMessage) {
	var request SubscriptionRequest
	if len(params) > 0 {
		if err := json.Unmarshal(params, &request); err != nil {
			ws.sendError(wsConn, rpc_types.RpcErrorInvalidParams("Invalid subscription parameters"), id)
			return
		}
	}

	start := time.Now()
	var rpcErr *rpc_types.RpcError
	if command == "subscribe" {
		rpcErr = ws.subscriptions.Subscribe(wsConn.ID, request)
	} else {
		rpcErr = ws.subscriptions.Unsubscribe(wsConn.ID, request)
	}
	ws.metrics.observe(command, "websocket", rpcErr != nil, time.Since(start))

	if rpcErr != nil {
		ws.sendError(wsConn, rpcErr, id)
		return
	}
	ws.sendResult(wsConn, map[string]interface{}{}, id)
}

func (ws *WebSocketServer) sendResult(wsConn *wsConnection, result interface{}, id interface{}) {
	response := map[string]interface{}{
		"type":   "response",
		"status": "success",
		"result": result,
	}
	if id != nil {
		response["id"] = id
	}
	ws.enqueue(wsConn, response)
}

// sendError sends an error response with the error fields at top level
func (ws *WebSocketServer) sendError(wsConn *wsConnection, rpcErr *rpc_types.RpcError, id interface{}) {
	response := map[string]interface{}{
		"type":          "response",
		"status":        "error",
		"error":         rpcErr.ErrorString,
		"error_code":    rpcErr.Code,
		"error_message": rpcErr.Message,
	}
	if id != nil {
		response["id"] = id
	}
	ws.enqueue(wsConn, response)
}

func (ws *WebSocketServer) enqueue(wsConn *wsConnection, response map[string]interface{}) {
	data, err := json.Marshal(response)
	if err != nil {
		ws.log.WithError(err).Error("failed to marshal websocket response")
		return
	}

	select {
	case wsConn.send <- data:
	case <-wsConn.ctx.Done():
	default:
		ws.log.WithField("connection", wsConn.ID).Warn("websocket send queue full, closing connection")
		wsConn.cancel()
	}
}

// closeConnection unregisters the connection and stops its writer
func (ws *WebSocketServer) closeConnection(wsConn *wsConnection) {
	ws.subscriptions.RemoveConnection(wsConn.ID)
	wsConn.cancel()
	ws.metrics.connectionClosed()
	ws.log.WithField("connection", wsConn.ID).Debug("websocket disconnected")
}
