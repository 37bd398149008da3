package rpc

import (
	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_handlers"
	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_types"
)

// registerAllMethods registers every RPC method on registry. Both the HTTP
// server and the WebSocket server use it.
func registerAllMethods(registry *rpc_types.MethodRegistry) {
	// Server Information Methods
	registry.Register("server_info", &rpc_handlers.ServerInfoMethod{})
	registry.Register("ping", &rpc_handlers.PingMethod{})

	// Account Methods
	registry.Register("account_info", &rpc_handlers.AccountInfoMethod{})
	registry.Register("account_tx", &rpc_handlers.AccountTxMethod{})

	// Escrow Methods
	registry.Register("offer_info", &rpc_handlers.OfferInfoMethod{})
	registry.Register("derive_escrow", &rpc_handlers.DeriveEscrowMethod{})
	registry.Register("escrow_list", &rpc_handlers.EscrowListMethod{})

	// Transaction Methods
	registry.Register("submit", &rpc_handlers.SubmitMethod{})
	registry.Register("tx", &rpc_handlers.TxMethod{})
}
