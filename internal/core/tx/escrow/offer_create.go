package escrow

import (
	"errors"

	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	log "github.com/sirupsen/logrus"
)

func init() {
	tx.Register(tx.TypeOfferCreate, func() tx.Transaction {
		return &OfferCreate{BaseTx: *tx.NewBaseTx(tx.TypeOfferCreate, types.Address{})}
	})
}

// OfferCreate locks the seller's temp token account under the escrow
// address derived from Offer and Tag.
type OfferCreate struct {
	tx.BaseTx

	// Seller pays for the escrow account and must sign (required)
	Seller types.Address `json:"Seller"`

	// SellerTemp holds exactly QtyOffered of AssetOffered (required)
	SellerTemp types.Address `json:"SellerTemp"`

	// SellerReceive will receive AssetDemanded (required)
	SellerReceive types.Address `json:"SellerReceive"`

	// Escrow is the derived escrow address (required)
	Escrow types.Address `json:"Escrow"`

	SystemProgram types.Address `json:"SystemProgram"`
	TokenProgram  types.Address `json:"TokenProgram"`

	Offer sle.OfferDescriptor `json:"Offer"`
	Tag   types.Tag           `json:"Tag"`
}

// NewOfferCreate creates a new OfferCreate transaction paid by the seller.
// SystemProgram and TokenProgram are left for the caller to fill.
func NewOfferCreate(seller, temp, receive, escrowAddr types.Address, offer sle.OfferDescriptor, tag types.Tag) *OfferCreate {
	return &OfferCreate{
		BaseTx:        *tx.NewBaseTx(tx.TypeOfferCreate, seller),
		Seller:        seller,
		SellerTemp:    temp,
		SellerReceive: receive,
		Escrow:        escrowAddr,
		Offer:         offer,
		Tag:           tag,
	}
}

// TxType returns the transaction type
func (o *OfferCreate) TxType() tx.Type {
	return tx.TypeOfferCreate
}

// Validate validates the OfferCreate transaction
func (o *OfferCreate) Validate() error {
	if err := o.BaseTx.Validate(); err != nil {
		return err
	}
	if o.Seller.IsZero() || o.SellerTemp.IsZero() || o.SellerReceive.IsZero() || o.Escrow.IsZero() {
		return errors.New("temMALFORMED: Seller, SellerTemp, SellerReceive and Escrow are required")
	}
	return nil
}

func (o *OfferCreate) Accounts() []types.Address {
	return tx.UniqueAccounts(o.Account, o.Seller, o.SellerTemp, o.SellerReceive, o.Escrow)
}

func (o *OfferCreate) ProgramID(cfg *tx.EngineConfig) types.Address {
	return cfg.EscrowProgramID
}

// Apply applies an OfferCreate transaction
func (o *OfferCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	if res := checkPrograms(ctx, o.SystemProgram, o.TokenProgram); !res.IsSuccess() {
		return res
	}
	if !ctx.IsSigner(o.Seller) {
		return tx.TefMISSING_SIGNATURE
	}

	exists, res := ctx.AccountExists(o.Escrow)
	if !res.IsSuccess() {
		return res
	}
	if exists {
		return tx.TecALREADY_INITIALIZED
	}

	auth, err := DeriveAuthority(o.Offer, o.Tag, ctx.Program)
	if err != nil {
		ctx.Log.WithError(err).Error("escrow derivation failed")
		return tx.TefINTERNAL
	}
	if auth.Address != o.Escrow {
		return tx.TemBAD_ESCROW_ADDRESS
	}

	assets := ctx.Assets()
	mint, amount, res := assets.ReadBalanceAndType(ctx.View, o.SellerTemp)
	if !res.IsSuccess() {
		return res
	}
	if mint != o.Offer.AssetOffered {
		return tx.TecTEMP_ASSET_MISMATCH
	}
	if amount != o.Offer.QtyOffered {
		return tx.TecTEMP_BALANCE_MISMATCH
	}

	mint, _, res = assets.ReadBalanceAndType(ctx.View, o.SellerReceive)
	if !res.IsSuccess() {
		return res
	}
	if mint != o.Offer.AssetDemanded {
		return tx.TecRECEIVE_ASSET_MISMATCH
	}

	rent := ctx.Rent().MinimumBalance(sle.EscrowRecordSize)
	res = ctx.InvokeSigned(auth.SignerSeeds(), func() tx.Result {
		return ctx.System().CreateAccount(ctx, o.Seller, o.Escrow, rent, sle.EscrowRecordSize, ctx.Program)
	})
	if !res.IsSuccess() {
		return res
	}

	if res := assets.SetAuthority(ctx, o.SellerTemp, o.Escrow, o.Seller); !res.IsSuccess() {
		return res
	}

	acct, res := ctx.ReadAccount(o.Escrow)
	if !res.IsSuccess() {
		return res
	}
	acct.Data = (&sle.EscrowRecord{
		SellerMain:    o.Seller,
		SellerTemp:    o.SellerTemp,
		SellerReceive: o.SellerReceive,
		Offer:         o.Offer,
	}).Encode()
	if res := ctx.UpdateAccount(acct); !res.IsSuccess() {
		return res
	}

	ctx.Log.WithFields(log.Fields{
		"escrow": o.Escrow,
		"seller": o.Seller,
		"bump":   auth.Bump,
	}).Debug("offer created")
	return tx.TesSUCCESS
}
