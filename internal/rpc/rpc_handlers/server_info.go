package rpc_handlers

import (
	"encoding/json"
	"time"

	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_types"
)

// Version is reported by server_info. The CLI overrides it at startup.
var Version = "0.1.0-dev"

// ServerInfoMethod handles the server_info RPC method
type ServerInfoMethod struct{}

func (m *ServerInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	info, err := ledger.GetServerInfo()
	if err != nil {
		return nil, rpc_types.RpcErrorInternal("Failed to get server info: " + err.Error())
	}

	return map[string]interface{}{
		"info": map[string]interface{}{
			"build_version":   Version,
			"started_at":      info.StartedAt.UTC().Format(time.RFC3339),
			"uptime":          int64(info.Uptime / time.Second),
			"state_hash":      FormatHash(info.StateHash),
			"accounts":        info.Accounts,
			"base_fee":        info.BaseFee,
			"escrow_program":  info.EscrowProgram.String(),
			"token_program":   info.TokenProgram.String(),
			"history_enabled": info.HistoryEnabled,
		},
	}, nil
}

// PingMethod answers liveness checks over RPC. It does not touch the ledger.
type PingMethod struct{}

func (m *PingMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	return map[string]interface{}{"build_version": Version}, nil
}
