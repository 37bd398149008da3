package rpc_handlers

import (
	"encoding/json"

	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_types"
)

// EscrowListMethod handles the escrow_list RPC method
type EscrowListMethod struct{}

func (m *EscrowListMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	list, err := ledger.ListEscrows()
	if err != nil {
		return nil, rpc_types.RpcErrorInternal("Failed to list escrows: " + err.Error())
	}

	escrows := make([]map[string]interface{}, len(list))
	for i := range list {
		escrows[i] = offerInfoJSON(&list[i])
	}
	return map[string]interface{}{
		"escrows": escrows,
	}, nil
}
