package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_types"
)

// DeriveEscrowMethod handles the derive_escrow RPC method
type DeriveEscrowMethod struct{}

func (m *DeriveEscrowMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request rpc_types.OfferParams
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	offer, tag, rpcErr := offerTerms(request)
	if rpcErr != nil {
		return nil, rpcErr
	}

	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	auth, err := ledger.DeriveEscrow(offer, tag)
	if err != nil {
		return nil, rpc_types.RpcErrorInternal("Failed to derive escrow: " + err.Error())
	}
	return map[string]interface{}{
		"escrow":  auth.Address.String(),
		"bump":    auth.Bump,
		"program": ledger.EngineConfig().EscrowProgramID.String(),
	}, nil
}
