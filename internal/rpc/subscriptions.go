package rpc

import (
	"sync"

	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_types"
	"github.com/sirupsen/logrus"
)

// StreamType names a subscribable stream
type StreamType string

const (
	// StreamTransactions carries every applied transaction
	StreamTransactions StreamType = "transactions"
)

// SubscriptionRequest is the params object of subscribe and unsubscribe
type SubscriptionRequest struct {
	Streams  []string `json:"streams,omitempty"`
	Accounts []string `json:"accounts,omitempty"`
}

// Connection is one WebSocket client and what it listens to
type Connection struct {
	ID   string
	send chan []byte

	streams  map[StreamType]struct{}
	accounts map[types.Address]struct{}
}

// NewConnection creates a connection whose outbound queue holds buffer
// messages.
func NewConnection(id string, buffer int) *Connection {
	return &Connection{
		ID:       id,
		send:     make(chan []byte, buffer),
		streams:  make(map[StreamType]struct{}),
		accounts: make(map[types.Address]struct{}),
	}
}

// Send returns the outbound message queue
func (c *Connection) Send() <-chan []byte {
	return c.send
}

// SubscriptionManager tracks connections and their subscriptions
type SubscriptionManager struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	log         *logrus.Entry
}

// NewSubscriptionManager creates an empty manager
func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		connections: make(map[string]*Connection),
		log:         logrus.WithField("module", "subscriptions"),
	}
}

// AddConnection registers conn
func (sm *SubscriptionManager) AddConnection(conn *Connection) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.connections[conn.ID] = conn
}

// RemoveConnection forgets the connection. No broadcast reaches it once
// this returns, so the caller may close its queue.
func (sm *SubscriptionManager) RemoveConnection(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.connections, id)
}

// ConnectionCount returns the number of registered connections
func (sm *SubscriptionManager) ConnectionCount() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.connections)
}

// Subscribe adds the requested streams and accounts to the connection.
// Nothing is changed when any entry is invalid.
func (sm *SubscriptionManager) Subscribe(id string, req SubscriptionRequest) *rpc_types.RpcError {
	streams, accounts, rpcErr := parseSubscription(req)
	if rpcErr != nil {
		return rpcErr
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	conn, ok := sm.connections[id]
	if !ok {
		return rpc_types.RpcErrorInternal("unknown connection")
	}
	for _, s := range streams {
		conn.streams[s] = struct{}{}
	}
	for _, a := range accounts {
		conn.accounts[a] = struct{}{}
	}
	return nil
}

// Unsubscribe removes the given streams and accounts from the connection
func (sm *SubscriptionManager) Unsubscribe(id string, req SubscriptionRequest) *rpc_types.RpcError {
	streams, accounts, rpcErr := parseSubscription(req)
	if rpcErr != nil {
		return rpcErr
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()
	conn, ok := sm.connections[id]
	if !ok {
		return rpc_types.RpcErrorInternal("unknown connection")
	}
	for _, s := range streams {
		delete(conn.streams, s)
	}
	for _, a := range accounts {
		delete(conn.accounts, a)
	}
	return nil
}

func parseSubscription(req SubscriptionRequest) ([]StreamType, []types.Address, *rpc_types.RpcError) {
	if len(req.Streams) == 0 && len(req.Accounts) == 0 {
		return nil, nil, rpc_types.RpcErrorInvalidParams("streams or accounts is required")
	}

	streams := make([]StreamType, 0, len(req.Streams))
	for _, s := range req.Streams {
		switch StreamType(s) {
		case StreamTransactions:
			streams = append(streams, StreamTransactions)
		default:
			return nil, nil, rpc_types.RpcErrorStreamMalformed("Unknown stream: " + s)
		}
	}

	accounts := make([]types.Address, 0, len(req.Accounts))
	for _, a := range req.Accounts {
		addr, err := types.ParseAddress(a)
		if err != nil {
			return nil, nil, rpc_types.RpcErrorActMalformed("Account malformed: " + a)
		}
		accounts = append(accounts, addr)
	}
	return streams, accounts, nil
}

// BroadcastTransaction queues data for every connection subscribed to the
// transactions stream or to one of accounts. A connection receives the
// message at most once. Full queues drop the message. It returns the number
// of connections the message was queued for.
func (sm *SubscriptionManager) BroadcastTransaction(data []byte, accounts []types.Address) int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	delivered := 0
	for _, conn := range sm.connections {
		if !conn.wants(StreamTransactions, accounts) {
			continue
		}
		select {
		case conn.send <- data:
			delivered++
		default:
			sm.log.WithField("connection", conn.ID).Warn("subscriber queue full, dropping event")
		}
	}
	return delivered
}

func (c *Connection) wants(stream StreamType, accounts []types.Address) bool {
	if _, ok := c.streams[stream]; ok {
		return true
	}
	for _, a := range accounts {
		if _, ok := c.accounts[a]; ok {
			return true
		}
	}
	return false
}
