package rpc_handlers

import (
	"encoding/json"
	"errors"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/service"
	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_types"
)

// AccountInfoMethod handles the account_info RPC method
type AccountInfoMethod struct{}

func (m *AccountInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request rpc_types.AccountParam
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}
	addr, rpcErr := parseAccount("account", request.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}

	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	info, err := ledger.GetAccountInfo(addr)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return nil, rpc_types.RpcErrorActNotFound("Account not found.")
		}
		return nil, rpc_types.RpcErrorInternal("Failed to get account info: " + err.Error())
	}

	data := map[string]interface{}{
		"Account":  info.Address.String(),
		"Lamports": info.Lamports,
		"Owner":    info.Owner.String(),
		"Sequence": info.Sequence,
		"DataLen":  info.DataLen,
	}
	switch {
	case info.Token != nil:
		data["Token"] = map[string]interface{}{
			"mint":      info.Token.Mint.String(),
			"authority": info.Token.Authority.String(),
			"amount":    info.Token.Amount,
			"state":     info.Token.State.String(),
		}
	case info.Mint != nil:
		data["Mint"] = map[string]interface{}{
			"mint_authority": info.Mint.MintAuthority.String(),
			"supply":         info.Mint.Supply,
			"decimals":       info.Mint.Decimals,
			"state":          info.Mint.State.String(),
		}
	case info.Escrow != nil:
		data["Escrow"] = info.Escrow
	}

	return map[string]interface{}{
		"account_data": data,
	}, nil
}
