package rpc_handlers

import (
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/service"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_types"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb"
)

// FormatHash formats a 32-byte hash as upper-case hex
func FormatHash(hash [32]byte) string {
	return strings.ToUpper(hex.EncodeToString(hash[:]))
}

// parseParams decodes params into request. Absent params leave request
// untouched.
func parseParams(params json.RawMessage, request interface{}) *rpc_types.RpcError {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, request); err != nil {
		return rpc_types.RpcErrorInvalidParams("Invalid parameters: " + err.Error())
	}
	return nil
}

// ledgerService returns the wired service, or the error a handler should
// return when it is missing or not started yet.
func ledgerService(ctx *rpc_types.RpcContext) (rpc_types.LedgerService, *rpc_types.RpcError) {
	ledger := ctx.Ledger()
	if ledger == nil {
		return nil, rpc_types.RpcErrorInternal("Ledger service not available")
	}
	if !ledger.IsRunning() {
		return nil, rpc_types.RpcErrorNotReady("Ledger service is not running")
	}
	return ledger, nil
}

func parseAccount(field, value string) (types.Address, *rpc_types.RpcError) {
	if value == "" {
		return types.Address{}, rpc_types.RpcErrorMissingField(field)
	}
	addr, err := types.ParseAddress(value)
	if err != nil {
		return types.Address{}, rpc_types.RpcErrorActMalformed("Account malformed: " + field)
	}
	return addr, nil
}

func parseAccounts(field string, values []string) ([]types.Address, *rpc_types.RpcError) {
	out := make([]types.Address, 0, len(values))
	for _, v := range values {
		addr, rpcErr := parseAccount(field, v)
		if rpcErr != nil {
			return nil, rpcErr
		}
		out = append(out, addr)
	}
	return out, nil
}

func parseHash(value string) ([32]byte, *rpc_types.RpcError) {
	if value == "" {
		return [32]byte{}, rpc_types.RpcErrorMissingField("transaction")
	}
	h, err := relationaldb.ParseHash(value)
	if err != nil {
		return [32]byte{}, rpc_types.RpcErrorInvalidHash("Invalid transaction hash")
	}
	return h, nil
}

// offerTerms checks that both halves of an offer identity are present.
func offerTerms(p rpc_types.OfferParams) (sle.OfferDescriptor, types.Tag, *rpc_types.RpcError) {
	if p.Offer == nil {
		return sle.OfferDescriptor{}, types.Tag{}, rpc_types.RpcErrorMissingField("offer")
	}
	if p.Tag == nil {
		return sle.OfferDescriptor{}, types.Tag{}, rpc_types.RpcErrorMissingField("tag")
	}
	return *p.Offer, *p.Tag, nil
}

func offerInfoJSON(info *service.OfferInfo) map[string]interface{} {
	return map[string]interface{}{
		"escrow":         info.Address.String(),
		"lamports":       info.Lamports,
		"seller":         info.Record.SellerMain.String(),
		"seller_temp":    info.Record.SellerTemp.String(),
		"seller_receive": info.Record.SellerReceive.String(),
		"offer":          info.Record.Offer,
	}
}

func txRecordJSON(rec *relationaldb.TransactionRecord) map[string]interface{} {
	out := map[string]interface{}{
		"hash":       rec.Hash.String(),
		"seq":        rec.Seq,
		"tx_type":    rec.Type,
		"account":    rec.Account.String(),
		"result":     rec.Result,
		"fee":        rec.Fee,
		"applied_at": rec.AppliedAt.UTC().Format(time.RFC3339Nano),
	}
	if len(rec.RawTxn) > 0 {
		out["tx_json"] = json.RawMessage(rec.RawTxn)
	}
	if len(rec.Meta) > 0 {
		out["meta"] = json.RawMessage(rec.Meta)
	}
	return out
}
