package rpc_handlers

import (
	stded25519 "crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/service"
	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/tx/escrow"
	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_types"
)

// SubmitMethod handles the submit RPC method.
//
// A transaction is given either as tx_json or as an escrow instruction
// (hex) with its ordered account list. Entries of signers are hex ed25519
// private key seeds the server signs with before applying; tx_json that is
// already signed needs none. An instruction without sequence takes the fee
// payer's current one.
type SubmitMethod struct{}

func (m *SubmitMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		TxJSON      json.RawMessage `json:"tx_json,omitempty"`
		Instruction string          `json:"instruction,omitempty"`
		Accounts    []string        `json:"accounts,omitempty"`
		FeePayer    string          `json:"fee_payer,omitempty"`
		Fee         uint64          `json:"fee,omitempty,string"`
		Sequence    uint64          `json:"sequence,omitempty"`
		Signers     []string        `json:"signers,omitempty"`
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}

	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	var transaction tx.Transaction
	switch {
	case len(request.TxJSON) > 0 && request.Instruction != "":
		return nil, rpc_types.RpcErrorInvalidParams("Specify tx_json or instruction, not both")
	case len(request.TxJSON) > 0:
		t, err := tx.FromJSON(request.TxJSON)
		if err != nil {
			return nil, rpc_types.RpcErrorInvalidField("tx_json")
		}
		transaction = t
	case request.Instruction != "":
		transaction, rpcErr = fromInstruction(request.Instruction, request.Accounts)
		if rpcErr != nil {
			return nil, rpcErr
		}
		common := transaction.GetCommon()
		if request.FeePayer != "" {
			payer, rpcErr := parseAccount("fee_payer", request.FeePayer)
			if rpcErr != nil {
				return nil, rpcErr
			}
			common.Account = payer
		}
		if request.Fee > 0 {
			common.SetFee(request.Fee)
		}
		common.Sequence = request.Sequence
		if common.Sequence == 0 {
			info, err := ledger.GetAccountInfo(common.Account)
			if err != nil {
				if errors.Is(err, service.ErrAccountNotFound) {
					return nil, rpc_types.RpcErrorActNotFound("Fee payer not found.")
				}
				return nil, rpc_types.RpcErrorInternal("Failed to read fee payer: " + err.Error())
			}
			common.Sequence = info.Sequence
		}
	default:
		return nil, rpc_types.RpcErrorMissingField("tx_json")
	}

	if len(request.Signers) > 0 {
		if rpcErr := signWith(transaction, request.Signers); rpcErr != nil {
			return nil, rpcErr
		}
	}

	res, err := ledger.Submit(ctx.Context, transaction)
	if err != nil {
		if errors.Is(err, service.ErrNotStarted) {
			return nil, rpc_types.RpcErrorNotReady("Ledger service is not running")
		}
		return nil, rpc_types.RpcErrorInternal("Failed to submit transaction: " + err.Error())
	}

	response := map[string]interface{}{
		"engine_result":         res.Result.String(),
		"engine_result_code":    int(res.Result),
		"engine_result_message": res.Result.Message(),
		"applied":               res.Applied,
		"hash":                  FormatHash(res.Hash),
		"fee":                   res.Fee,
	}
	if res.Message != "" && res.Message != res.Result.Message() {
		response["engine_result_detail"] = res.Message
	}
	if raw, err := tx.ToJSON(transaction); err == nil {
		response["tx_json"] = json.RawMessage(raw)
	}
	return response, nil
}

func fromInstruction(data string, accounts []string) (tx.Transaction, *rpc_types.RpcError) {
	raw, err := hex.DecodeString(data)
	if err != nil {
		return nil, rpc_types.RpcErrorInvalidField("instruction")
	}
	addrs, rpcErr := parseAccounts("accounts", accounts)
	if rpcErr != nil {
		return nil, rpcErr
	}
	t, err := escrow.FromInstruction(raw, addrs)
	if err != nil {
		return nil, rpc_types.RpcErrorInvalidParams("Invalid instruction: " + err.Error())
	}
	return t, nil
}

func signWith(transaction tx.Transaction, seeds []string) *rpc_types.RpcError {
	for _, s := range seeds {
		seed, err := hex.DecodeString(s)
		if err != nil || len(seed) != stded25519.SeedSize {
			return rpc_types.RpcErrorBadSeed("Signer seed must be 32 bytes of hex")
		}
		if err := tx.Sign(transaction, stded25519.NewKeyFromSeed(seed)); err != nil {
			return rpc_types.RpcErrorInternal("Failed to sign: " + err.Error())
		}
	}
	return nil
}
