package rpc_handlers

import (
	"encoding/json"
	"errors"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/service"
	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_types"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb"
)

// TxMethod handles the tx RPC method
type TxMethod struct{}

func (m *TxMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Transaction string `json:"transaction"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	hash, rpcErr := parseHash(request.Transaction)
	if rpcErr != nil {
		return nil, rpcErr
	}

	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	rec, err := ledger.GetTransaction(ctx.Context, hash)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrHistoryDisabled):
			return nil, rpc_types.RpcErrorNotEnabled("transaction history")
		case errors.Is(err, relationaldb.ErrTransactionNotFound):
			return nil, rpc_types.RpcErrorTxnNotFound("Transaction not found.")
		}
		return nil, rpc_types.RpcErrorInternal("Failed to get transaction: " + err.Error())
	}
	return txRecordJSON(rec), nil
}
