package escrow

import (
	"errors"

	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	log "github.com/sirupsen/logrus"
)

func init() {
	tx.Register(tx.TypeOfferAccept, func() tx.Transaction {
		return &OfferAccept{BaseTx: *tx.NewBaseTx(tx.TypeOfferAccept, types.Address{})}
	})
}

// OfferAccept swaps the locked tokens against the buyer's payment and
// closes the escrow.
type OfferAccept struct {
	tx.BaseTx

	// Buyer authorizes the payment and must sign (required)
	Buyer types.Address `json:"Buyer"`

	// BuyerPayment holds at least QtyDemanded of AssetDemanded (required)
	BuyerPayment types.Address `json:"BuyerPayment"`

	// BuyerReceive receives QtyOffered of AssetOffered (required)
	BuyerReceive types.Address `json:"BuyerReceive"`

	Escrow        types.Address `json:"Escrow"`
	Seller        types.Address `json:"Seller"`
	SellerTemp    types.Address `json:"SellerTemp"`
	SellerReceive types.Address `json:"SellerReceive"`

	SystemProgram types.Address `json:"SystemProgram"`
	TokenProgram  types.Address `json:"TokenProgram"`

	Tag types.Tag `json:"Tag"`
}

// NewOfferAccept creates a new OfferAccept transaction paid by the buyer.
func NewOfferAccept(buyer, payment, receive, escrowAddr, seller, sellerTemp, sellerReceive types.Address, tag types.Tag) *OfferAccept {
	return &OfferAccept{
		BaseTx:        *tx.NewBaseTx(tx.TypeOfferAccept, buyer),
		Buyer:         buyer,
		BuyerPayment:  payment,
		BuyerReceive:  receive,
		Escrow:        escrowAddr,
		Seller:        seller,
		SellerTemp:    sellerTemp,
		SellerReceive: sellerReceive,
		Tag:           tag,
	}
}

// TxType returns the transaction type
func (o *OfferAccept) TxType() tx.Type {
	return tx.TypeOfferAccept
}

// Validate validates the OfferAccept transaction
func (o *OfferAccept) Validate() error {
	if err := o.BaseTx.Validate(); err != nil {
		return err
	}
	for _, a := range []types.Address{o.Buyer, o.BuyerPayment, o.BuyerReceive, o.Escrow, o.Seller, o.SellerTemp, o.SellerReceive} {
		if a.IsZero() {
			return errors.New("temMALFORMED: buyer, seller and escrow accounts are required")
		}
	}
	return nil
}

func (o *OfferAccept) Accounts() []types.Address {
	return tx.UniqueAccounts(o.Account, o.Buyer, o.BuyerPayment, o.BuyerReceive,
		o.Escrow, o.Seller, o.SellerTemp, o.SellerReceive)
}

func (o *OfferAccept) ProgramID(cfg *tx.EngineConfig) types.Address {
	return cfg.EscrowProgramID
}

// Apply applies an OfferAccept transaction
func (o *OfferAccept) Apply(ctx *tx.ApplyContext) tx.Result {
	if res := checkPrograms(ctx, o.SystemProgram, o.TokenProgram); !res.IsSuccess() {
		return res
	}
	if !ctx.IsSigner(o.Buyer) {
		return tx.TefMISSING_SIGNATURE
	}

	rec, auth, res := loadRecord(ctx, o.Escrow, o.Tag)
	if !res.IsSuccess() {
		return res
	}

	assets := ctx.Assets()
	mint, amount, res := assets.ReadBalanceAndType(ctx.View, o.BuyerPayment)
	if !res.IsSuccess() {
		return res
	}
	if mint != rec.Offer.AssetDemanded {
		return tx.TecPAYMENT_ASSET_MISMATCH
	}
	if amount < rec.Offer.QtyDemanded {
		return tx.TecINSUFFICIENT_PAYMENT
	}

	mint, _, res = assets.ReadBalanceAndType(ctx.View, o.BuyerReceive)
	if !res.IsSuccess() {
		return res
	}
	if mint != rec.Offer.AssetOffered {
		return tx.TecBUYER_RECEIVE_MISMATCH
	}

	if res := checkSellerAccounts(rec, o.Seller, o.SellerTemp, o.SellerReceive); !res.IsSuccess() {
		return res
	}

	seeds := auth.SignerSeeds()
	res = ctx.InvokeSigned(seeds, func() tx.Result {
		return assets.Transfer(ctx, rec.SellerTemp, o.BuyerReceive, rec.Offer.QtyOffered, o.Escrow)
	})
	if !res.IsSuccess() {
		return res
	}

	// Only QtyDemanded moves; any excess stays with the buyer.
	res = assets.Transfer(ctx, o.BuyerPayment, rec.SellerReceive, rec.Offer.QtyDemanded, o.Buyer)
	if !res.IsSuccess() {
		return res
	}

	res = ctx.InvokeSigned(seeds, func() tx.Result {
		return assets.Close(ctx, rec.SellerTemp, rec.SellerMain, o.Escrow)
	})
	if !res.IsSuccess() {
		return res
	}

	if res := ctx.CloseAccount(o.Escrow, rec.SellerMain); !res.IsSuccess() {
		return res
	}

	ctx.Log.WithFields(log.Fields{
		"escrow": o.Escrow,
		"buyer":  o.Buyer,
	}).Debug("offer accepted")
	return tx.TesSUCCESS
}
