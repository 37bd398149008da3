package escrow

import (
	"errors"

	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/types"
)

func init() {
	tx.Register(tx.TypeOfferCancel, func() tx.Transaction {
		return &OfferCancel{BaseTx: *tx.NewBaseTx(tx.TypeOfferCancel, types.Address{})}
	})
}

// OfferCancel returns control of the locked account to the seller and
// closes the escrow.
type OfferCancel struct {
	tx.BaseTx

	// Seller created the offer and must sign (required)
	Seller        types.Address `json:"Seller"`
	SellerTemp    types.Address `json:"SellerTemp"`
	SellerReceive types.Address `json:"SellerReceive"`
	Escrow        types.Address `json:"Escrow"`

	SystemProgram types.Address `json:"SystemProgram"`
	TokenProgram  types.Address `json:"TokenProgram"`

	Tag types.Tag `json:"Tag"`
}

// NewOfferCancel creates a new OfferCancel transaction paid by the seller.
func NewOfferCancel(seller, temp, receive, escrowAddr types.Address, tag types.Tag) *OfferCancel {
	return &OfferCancel{
		BaseTx:        *tx.NewBaseTx(tx.TypeOfferCancel, seller),
		Seller:        seller,
		SellerTemp:    temp,
		SellerReceive: receive,
		Escrow:        escrowAddr,
		Tag:           tag,
	}
}

// TxType returns the transaction type
func (o *OfferCancel) TxType() tx.Type {
	return tx.TypeOfferCancel
}

// Validate validates the OfferCancel transaction
func (o *OfferCancel) Validate() error {
	if err := o.BaseTx.Validate(); err != nil {
		return err
	}
	if o.Seller.IsZero() || o.SellerTemp.IsZero() || o.SellerReceive.IsZero() || o.Escrow.IsZero() {
		return errors.New("temMALFORMED: Seller, SellerTemp, SellerReceive and Escrow are required")
	}
	return nil
}

func (o *OfferCancel) Accounts() []types.Address {
	return tx.UniqueAccounts(o.Account, o.Seller, o.SellerTemp, o.SellerReceive, o.Escrow)
}

func (o *OfferCancel) ProgramID(cfg *tx.EngineConfig) types.Address {
	return cfg.EscrowProgramID
}

// Apply applies an OfferCancel transaction
func (o *OfferCancel) Apply(ctx *tx.ApplyContext) tx.Result {
	if res := checkPrograms(ctx, o.SystemProgram, o.TokenProgram); !res.IsSuccess() {
		return res
	}

	rec, auth, res := loadRecord(ctx, o.Escrow, o.Tag)
	if !res.IsSuccess() {
		return res
	}
	if res := checkSellerAccounts(rec, o.Seller, o.SellerTemp, o.SellerReceive); !res.IsSuccess() {
		return res
	}
	if !ctx.IsSigner(o.Seller) {
		return tx.TefMISSING_SIGNATURE
	}

	res = ctx.InvokeSigned(auth.SignerSeeds(), func() tx.Result {
		return ctx.Assets().SetAuthority(ctx, rec.SellerTemp, rec.SellerMain, o.Escrow)
	})
	if !res.IsSuccess() {
		return res
	}

	if res := ctx.CloseAccount(o.Escrow, rec.SellerMain); !res.IsSuccess() {
		return res
	}

	ctx.Log.WithField("escrow", o.Escrow).Debug("offer cancelled")
	return tx.TesSUCCESS
}
