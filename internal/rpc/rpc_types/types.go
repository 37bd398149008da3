package rpc_types

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/service"
	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/tx/escrow"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb"
)

// RpcContext contains request-specific information
type RpcContext struct {
	Context   context.Context
	ClientIP  string
	RequestID string
	Services  *ServiceContainer
}

// Ledger returns the ledger service, or nil when none is wired.
func (c *RpcContext) Ledger() LedgerService {
	if c == nil || c.Services == nil {
		return nil
	}
	return c.Services.Ledger
}

// MethodHandler is implemented by every RPC method
type MethodHandler interface {
	Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError)
}

// MethodRegistry maps method names to handlers. It is filled at startup
// and read-only afterwards.
type MethodRegistry struct {
	methods map[string]MethodHandler
}

func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{
		methods: make(map[string]MethodHandler),
	}
}

func (r *MethodRegistry) Register(name string, handler MethodHandler) {
	r.methods[name] = handler
}

func (r *MethodRegistry) Get(name string) (MethodHandler, bool) {
	handler, exists := r.methods[name]
	return handler, exists
}

// List returns the registered method names, sorted.
func (r *MethodRegistry) List() []string {
	methods := make([]string, 0, len(r.methods))
	for name := range r.methods {
		methods = append(methods, name)
	}
	sort.Strings(methods)
	return methods
}

// ServiceContainer holds references to the services RPC handlers need
type ServiceContainer struct {
	Ledger LedgerService
}

// LedgerService is what handlers need from the node. *service.Service
// implements it.
type LedgerService interface {
	Submit(ctx context.Context, transaction tx.Transaction) (*service.SubmitResult, error)

	GetAccountInfo(addr types.Address) (*service.AccountInfo, error)
	GetOffer(addr types.Address) (*service.OfferInfo, error)
	FindOffer(offer sle.OfferDescriptor, tag types.Tag) (*service.OfferInfo, error)
	DeriveEscrow(offer sle.OfferDescriptor, tag types.Tag) (escrow.Authority, error)
	ListEscrows() ([]service.OfferInfo, error)

	GetTransaction(ctx context.Context, hash [32]byte) (*relationaldb.TransactionRecord, error)
	GetAccountTransactions(ctx context.Context, options relationaldb.AccountTxOptions) (*relationaldb.AccountTxResult, error)

	GetServerInfo() (*service.ServerInfo, error)
	EngineConfig() tx.EngineConfig
	IsRunning() bool
}

var _ LedgerService = (*service.Service)(nil)

// AccountParam names one account
type AccountParam struct {
	Account string `json:"account"`
}

// OfferParams identify an offer by its terms and tag
type OfferParams struct {
	Offer *sle.OfferDescriptor `json:"offer,omitempty"`
	Tag   *types.Tag           `json:"tag,omitempty"`
}

// PaginationParams page through long results
type PaginationParams struct {
	Limit  int    `json:"limit,omitempty"`
	Marker uint64 `json:"marker,omitempty"`
}
