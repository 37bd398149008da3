package rpc_handlers

import (
	"encoding/json"
	"errors"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/service"
	"github.com/LeJamon/goEscrowd/internal/rpc/rpc_types"
)

// OfferInfoMethod handles the offer_info RPC method. The offer is looked up
// by escrow address, or derived from offer and tag.
type OfferInfoMethod struct{}

func (m *OfferInfoMethod) Handle(ctx *rpc_types.RpcContext, params json.RawMessage) (interface{}, *rpc_types.RpcError) {
	var request struct {
		Escrow string `json:"escrow,omitempty"`
		rpc_types.OfferParams
	}
	if rpcErr := parseParams(params, &request); rpcErr != nil {
		return nil, rpcErr
	}

	ledger, rpcErr := ledgerService(ctx)
	if rpcErr != nil {
		return nil, rpcErr
	}

	var (
		info *service.OfferInfo
		err  error
	)
	if request.Escrow != "" {
		addr, rpcErr := parseAccount("escrow", request.Escrow)
		if rpcErr != nil {
			return nil, rpcErr
		}
		info, err = ledger.GetOffer(addr)
	} else {
		offer, tag, rpcErr := offerTerms(request.OfferParams)
		if rpcErr != nil {
			return nil, rpcErr
		}
		info, err = ledger.FindOffer(offer, tag)
	}
	if err != nil {
		if errors.Is(err, service.ErrOfferNotFound) {
			return nil, rpc_types.RpcErrorObjectNotFound("Offer not found.")
		}
		return nil, rpc_types.RpcErrorInternal("Failed to read offer: " + err.Error())
	}

	return offerInfoJSON(info), nil
}
