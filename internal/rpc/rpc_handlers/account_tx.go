package rpc_handlers

import (
	"encoding/json"
	"errors"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/service"
	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_types"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb"
)

// AccountTxMethod handles the account_tx RPC method
type AccountTxMethod struct{}

func (m *AccountTxMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		rpc_types.AccountParam
		Forward bool `json:"forward,omitempty"`
		rpc_types.PaginationParams
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	addr, rpcErr := parseAccount("account", request.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if request.Limit < 0 {
		return nil, rpc_types.RpcErrorInvalidField("limit")
	}

	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	result, err := ledger.GetAccountTransactions(ctx.Context, relationaldb.AccountTxOptions{
		Account: addr,
		Marker:  request.Marker,
		Limit:   request.Limit,
		Forward: request.Forward,
	})
	if err != nil {
		if errors.Is(err, service.ErrHistoryDisabled) {
			return nil, rpc_types.RpcErrorNotEnabled("transaction history")
		}
		return nil, rpc_types.RpcErrorInternal("Failed to get account transactions: " + err.Error())
	}

	transactions := make([]map[string]interface{}, len(result.Transactions))
	for i := range result.Transactions {
		transactions[i] = txRecordJSON(&result.Transactions[i])
	}

	response := map[string]interface{}{
		"account":      addr.String(),
		"transactions": transactions,
		"limit":        result.Limit,
	}
	if result.Marker != 0 {
		response["marker"] = result.Marker
	}
	return response, nil
}
