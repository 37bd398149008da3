// Package escrow builds offer scenarios on a TestEnv: a seller holding the
// offered asset, a buyer holding the demanded one, and the transactions
// that move between them.
package escrow

import (
	"testing"

	escrowtx "github.com/LeJamon/goEscrowd/internal/core/tx/escrow"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	jtx "github.com/LeJamon/goEscrowd/internal/testing"
)

// Scenario holds every account an offer touches.
type Scenario struct {
	Env *jtx.TestEnv

	Issuer *jtx.Account
	Seller *jtx.Account
	Buyer  *jtx.Account

	// MintX is offered by the seller, MintY demanded in return.
	MintX types.Address
	MintY types.Address

	SellerTemp    types.Address
	SellerReceive types.Address
	BuyerPayment  types.Address
	BuyerReceive  types.Address

	Offer     sle.OfferDescriptor
	Tag       types.Tag
	Authority escrowtx.Authority
}

// Amounts sets up balances independently of the offer's terms.
type Amounts struct {
	SellerTemp   uint64
	BuyerPayment uint64
}

// NewScenario funds a seller holding offered units of X in a temp account
// and a buyer holding demanded units of Y, with an offer for exactly those
// quantities.
func NewScenario(t *testing.T, env *jtx.TestEnv, offered, demanded uint64, tag string) *Scenario {
	t.Helper()
	return NewScenarioWith(t, env, sle.OfferDescriptor{QtyOffered: offered, QtyDemanded: demanded},
		Amounts{SellerTemp: offered, BuyerPayment: demanded}, tag)
}

// NewScenarioWith is NewScenario with the balances chosen separately from
// the offer. The offer's asset fields are filled in with the created mints.
func NewScenarioWith(t *testing.T, env *jtx.TestEnv, offer sle.OfferDescriptor, amounts Amounts, tag string) *Scenario {
	t.Helper()

	s := &Scenario{
		Env:    env,
		Issuer: jtx.NewAccount("issuer"),
		Seller: jtx.NewAccount("seller"),
		Buyer:  jtx.NewAccount("buyer"),
	}
	env.Fund(s.Issuer, s.Seller, s.Buyer)

	s.MintX = env.CreateMint(s.Issuer, 0)
	s.MintY = env.CreateMint(s.Issuer, 0)

	s.SellerTemp = env.CreateTokenAccount(s.Seller, s.MintX)
	s.SellerReceive = env.CreateTokenAccount(s.Seller, s.MintY)
	s.BuyerPayment = env.CreateTokenAccount(s.Buyer, s.MintY)
	s.BuyerReceive = env.CreateTokenAccount(s.Buyer, s.MintX)

	if amounts.SellerTemp > 0 {
		env.MintTo(s.Issuer, s.MintX, s.SellerTemp, amounts.SellerTemp)
	}
	if amounts.BuyerPayment > 0 {
		env.MintTo(s.Issuer, s.MintY, s.BuyerPayment, amounts.BuyerPayment)
	}

	offer.AssetOffered = s.MintX
	offer.AssetDemanded = s.MintY
	s.Offer = offer

	var err error
	s.Tag, err = types.TagFromBytes([]byte(tag))
	if err != nil {
		t.Fatalf("bad tag %q: %v", tag, err)
	}
	s.Authority, err = escrowtx.DeriveAuthority(s.Offer, s.Tag, env.Config().EscrowProgramID)
	if err != nil {
		t.Fatalf("derive authority: %v", err)
	}
	return s
}

// Escrow returns the derived escrow address.
func (s *Scenario) Escrow() types.Address {
	return s.Authority.Address
}

// Create builds the seller's OfferCreate.
func (s *Scenario) Create() *escrowtx.OfferCreate {
	cfg := s.Env.Config()
	o := escrowtx.NewOfferCreate(s.Seller.Address, s.SellerTemp, s.SellerReceive, s.Escrow(), s.Offer, s.Tag)
	o.SystemProgram = cfg.SystemProgramID
	o.TokenProgram = cfg.TokenProgramID
	return o
}

// Accept builds the buyer's OfferAccept.
func (s *Scenario) Accept() *escrowtx.OfferAccept {
	cfg := s.Env.Config()
	o := escrowtx.NewOfferAccept(s.Buyer.Address, s.BuyerPayment, s.BuyerReceive, s.Escrow(),
		s.Seller.Address, s.SellerTemp, s.SellerReceive, s.Tag)
	o.SystemProgram = cfg.SystemProgramID
	o.TokenProgram = cfg.TokenProgramID
	return o
}

// Cancel builds the seller's OfferCancel.
func (s *Scenario) Cancel() *escrowtx.OfferCancel {
	cfg := s.Env.Config()
	o := escrowtx.NewOfferCancel(s.Seller.Address, s.SellerTemp, s.SellerReceive, s.Escrow(), s.Tag)
	o.SystemProgram = cfg.SystemProgramID
	o.TokenProgram = cfg.TokenProgramID
	return o
}

// MustCreate submits Create signed by the seller and fails the test on error.
func (s *Scenario) MustCreate(t *testing.T) {
	t.Helper()
	jtx.RequireTxSuccess(t, s.Env.Submit(s.Create(), s.Seller))
}
