// Package escrow_test contains integration tests for the offer state
// machine running on a real engine and account store.
package escrow_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/LeJamon/goEscrowd/internal/core/tx"
	escrowtx "github.com/LeJamon/goEscrowd/internal/core/tx/escrow"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/tx/token"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	jtx "github.com/LeJamon/goEscrowd/internal/testing"
	"github.com/LeJamon/goEscrowd/internal/testing/escrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func escrowRent(env *jtx.TestEnv) uint64 { return env.Rent(sle.EscrowRecordSize) }
func tokenRent(env *jtx.TestEnv) uint64  { return env.Rent(sle.TokenAccountSize) }

func TestOffer_CreateLocksTempAccount(t *testing.T) {
	env := jtx.NewTestEnv(t)
	s := escrow.NewScenario(t, env, 5, 5, "create")

	sellerBefore := env.Lamports(s.Seller.Address)
	s.MustCreate(t)

	jtx.RequireAccountExists(t, env, s.Escrow())
	jtx.RequireLamports(t, env, s.Escrow(), escrowRent(env))
	jtx.RequireLamports(t, env, s.Seller.Address, sellerBefore-escrowRent(env)-env.BaseFee())

	acct := env.Account(s.Escrow())
	assert.Equal(t, env.Config().EscrowProgramID, acct.Owner)
	rec, err := sle.DecodeEscrowRecord(acct.Data)
	require.NoError(t, err)
	assert.Equal(t, sle.EscrowRecord{
		SellerMain:    s.Seller.Address,
		SellerTemp:    s.SellerTemp,
		SellerReceive: s.SellerReceive,
		Offer:         s.Offer,
	}, *rec)

	assert.Equal(t, s.Escrow(), env.TokenAuthority(s.SellerTemp))
	jtx.RequireTokenBalance(t, env, s.SellerTemp, 5)
}

func TestOffer_AcceptSwapsAndCloses(t *testing.T) {
	env := jtx.NewTestEnv(t)
	s := escrow.NewScenario(t, env, 5, 5, "accept")
	s.MustCreate(t)

	sellerBefore := env.Lamports(s.Seller.Address)
	buyerBefore := env.Lamports(s.Buyer.Address)

	jtx.RequireTxSuccess(t, env.Submit(s.Accept(), s.Buyer))

	jtx.RequireTokenBalance(t, env, s.BuyerReceive, 5)
	jtx.RequireTokenBalance(t, env, s.SellerReceive, 5)
	jtx.RequireTokenBalance(t, env, s.BuyerPayment, 0)

	jtx.RequireAccountNotExists(t, env, s.Escrow())
	jtx.RequireAccountNotExists(t, env, s.SellerTemp)

	// The seller gets back the rent of both closed accounts.
	jtx.RequireLamports(t, env, s.Seller.Address, sellerBefore+escrowRent(env)+tokenRent(env))
	jtx.RequireLamports(t, env, s.Buyer.Address, buyerBefore-env.BaseFee())
}

func TestOffer_AcceptDifferentQuantities(t *testing.T) {
	env := jtx.NewTestEnv(t)
	s := escrow.NewScenario(t, env, 7, 3, "seven-for-three")
	s.MustCreate(t)

	jtx.RequireTxSuccess(t, env.Submit(s.Accept(), s.Buyer))
	jtx.RequireTokenBalance(t, env, s.BuyerReceive, 7)
	jtx.RequireTokenBalance(t, env, s.SellerReceive, 3)
}

func TestOffer_AcceptKeepsBuyerOverpayment(t *testing.T) {
	env := jtx.NewTestEnv(t)
	s := escrow.NewScenarioWith(t, env,
		sle.OfferDescriptor{QtyOffered: 5, QtyDemanded: 5},
		escrow.Amounts{SellerTemp: 5, BuyerPayment: 8}, "overpay")
	s.MustCreate(t)

	jtx.RequireTxSuccess(t, env.Submit(s.Accept(), s.Buyer))
	jtx.RequireTokenBalance(t, env, s.SellerReceive, 5)
	jtx.RequireTokenBalance(t, env, s.BuyerPayment, 3)
}

func TestOffer_CancelReturnsAuthority(t *testing.T) {
	env := jtx.NewTestEnv(t)
	s := escrow.NewScenario(t, env, 5, 5, "cancel")
	s.MustCreate(t)

	sellerBefore := env.Lamports(s.Seller.Address)
	jtx.RequireTxSuccess(t, env.Submit(s.Cancel(), s.Seller))

	assert.Equal(t, s.Seller.Address, env.TokenAuthority(s.SellerTemp))
	jtx.RequireTokenBalance(t, env, s.SellerTemp, 5)
	jtx.RequireAccountNotExists(t, env, s.Escrow())
	jtx.RequireLamports(t, env, s.Seller.Address, sellerBefore+escrowRent(env)-env.BaseFee())

	// The seller controls the tokens again.
	jtx.RequireTxSuccess(t, env.Submit(token.NewTransfer(s.Seller.Address, s.SellerTemp, s.BuyerReceive, 5), s.Seller))
	jtx.RequireTokenBalance(t, env, s.BuyerReceive, 5)
}

func TestOffer_RejectsShortTempBalance(t *testing.T) {
	env := jtx.NewTestEnv(t)
	s := escrow.NewScenarioWith(t, env,
		sle.OfferDescriptor{QtyOffered: 5, QtyDemanded: 5},
		escrow.Amounts{SellerTemp: 4, BuyerPayment: 5}, "four-of-five")

	jtx.RequireUnchanged(t, env, func() {
		jtx.RequireTxFail(t, env.Submit(s.Create(), s.Seller), "tecTEMP_BALANCE_MISMATCH")
	})
	jtx.RequireAccountNotExists(t, env, s.Escrow())
	assert.Equal(t, s.Seller.Address, env.TokenAuthority(s.SellerTemp))
}

func TestOffer_RejectsExcessTempBalance(t *testing.T) {
	env := jtx.NewTestEnv(t)
	s := escrow.NewScenarioWith(t, env,
		sle.OfferDescriptor{QtyOffered: 5, QtyDemanded: 5},
		escrow.Amounts{SellerTemp: 6, BuyerPayment: 5}, "six-of-five")

	jtx.RequireTxFail(t, env.Submit(s.Create(), s.Seller), "tecTEMP_BALANCE_MISMATCH")
}

func TestOffer_LockedAccountRejectsEveryone(t *testing.T) {
	env := jtx.NewTestEnv(t)
	s := escrow.NewScenario(t, env, 5, 5, "exclusive")
	s.MustCreate(t)

	mallory := jtx.NewAccount("mallory")
	env.Fund(mallory)

	for _, who := range []*jtx.Account{s.Seller, s.Buyer, mallory} {
		t.Run(who.Name, func(t *testing.T) {
			jtx.RequireUnchanged(t, env, func() {
				transfer := token.NewTransfer(who.Address, s.SellerTemp, s.BuyerReceive, 5)
				jtx.RequireTxFail(t, env.Submit(transfer, who), "tecNO_AUTH")

				// Naming the escrow address does not help: it cannot sign.
				transfer = token.NewTransfer(who.Address, s.SellerTemp, s.BuyerReceive, 5)
				transfer.Authority = s.Escrow()
				jtx.RequireTxFail(t, env.Submit(transfer, who), "tecNO_AUTH")

				setAuth := token.NewSetAuthority(who.Address, s.SellerTemp, who.Address)
				jtx.RequireTxFail(t, env.Submit(setAuth, who), "tecNO_AUTH")

				closeTx := token.NewAccountClose(who.Address, s.SellerTemp)
				jtx.RequireTxFail(t, env.Submit(closeTx, who), "tecNO_AUTH")
			})
		})
	}
	jtx.RequireTokenBalance(t, env, s.SellerTemp, 5)
}

func TestOffer_ClosedOfferIsGone(t *testing.T) {
	t.Run("accept twice", func(t *testing.T) {
		env := jtx.NewTestEnv(t)
		s := escrow.NewScenarioWith(t, env,
			sle.OfferDescriptor{QtyOffered: 5, QtyDemanded: 5},
			escrow.Amounts{SellerTemp: 5, BuyerPayment: 10}, "twice")
		s.MustCreate(t)
		jtx.RequireTxSuccess(t, env.Submit(s.Accept(), s.Buyer))

		jtx.RequireUnchanged(t, env, func() {
			jtx.RequireTxFail(t, env.Submit(s.Accept(), s.Buyer), "tecOFFER_NOT_FOUND")
		})
		jtx.RequireTokenBalance(t, env, s.BuyerPayment, 5)
	})

	t.Run("cancel twice", func(t *testing.T) {
		env := jtx.NewTestEnv(t)
		s := escrow.NewScenario(t, env, 5, 5, "twice")
		s.MustCreate(t)
		jtx.RequireTxSuccess(t, env.Submit(s.Cancel(), s.Seller))

		jtx.RequireUnchanged(t, env, func() {
			jtx.RequireTxFail(t, env.Submit(s.Cancel(), s.Seller), "tecOFFER_NOT_FOUND")
		})
	})

	t.Run("accept after cancel", func(t *testing.T) {
		env := jtx.NewTestEnv(t)
		s := escrow.NewScenario(t, env, 5, 5, "late")
		s.MustCreate(t)
		jtx.RequireTxSuccess(t, env.Submit(s.Cancel(), s.Seller))

		jtx.RequireUnchanged(t, env, func() {
			jtx.RequireTxFail(t, env.Submit(s.Accept(), s.Buyer), "tecOFFER_NOT_FOUND")
		})
	})

	t.Run("cancel after accept", func(t *testing.T) {
		env := jtx.NewTestEnv(t)
		s := escrow.NewScenario(t, env, 5, 5, "late")
		s.MustCreate(t)
		jtx.RequireTxSuccess(t, env.Submit(s.Accept(), s.Buyer))

		jtx.RequireUnchanged(t, env, func() {
			jtx.RequireTxFail(t, env.Submit(s.Cancel(), s.Seller), "tecOFFER_NOT_FOUND")
		})
	})
}

func TestOffer_ReofferAfterCancel(t *testing.T) {
	env := jtx.NewTestEnv(t)
	s := escrow.NewScenario(t, env, 5, 5, "again")
	s.MustCreate(t)
	jtx.RequireTxSuccess(t, env.Submit(s.Cancel(), s.Seller))

	s.MustCreate(t)
	jtx.RequireAccountExists(t, env, s.Escrow())
	assert.Equal(t, s.Escrow(), env.TokenAuthority(s.SellerTemp))

	jtx.RequireTxSuccess(t, env.Submit(s.Accept(), s.Buyer))
	jtx.RequireTokenBalance(t, env, s.BuyerReceive, 5)
}

func TestOffer_TagsSeparateIdenticalOffers(t *testing.T) {
	env := jtx.NewTestEnv(t)
	s := escrow.NewScenarioWith(t, env,
		sle.OfferDescriptor{QtyOffered: 5, QtyDemanded: 5},
		escrow.Amounts{SellerTemp: 5, BuyerPayment: 10}, "first")
	s.MustCreate(t)

	// Same terms, second temp account, different tag.
	second := *s
	second.SellerTemp = env.CreateTokenAccount(s.Seller, s.MintX)
	env.MintTo(s.Issuer, s.MintX, second.SellerTemp, 5)
	second.Tag[0] ^= 0xff
	var err error
	second.Authority, err = escrowtx.DeriveAuthority(second.Offer, second.Tag, env.Config().EscrowProgramID)
	require.NoError(t, err)
	require.NotEqual(t, s.Escrow(), second.Escrow())

	second.MustCreate(t)

	jtx.RequireTxSuccess(t, env.Submit(second.Accept(), s.Buyer))
	jtx.RequireAccountExists(t, env, s.Escrow())
	jtx.RequireTxSuccess(t, env.Submit(s.Accept(), s.Buyer))
	jtx.RequireTokenBalance(t, env, s.BuyerReceive, 10)
}

func TestOffer_ZeroQuantities(t *testing.T) {
	env := jtx.NewTestEnv(t)
	s := escrow.NewScenario(t, env, 0, 0, "free")
	s.MustCreate(t)

	jtx.RequireTxSuccess(t, env.Submit(s.Accept(), s.Buyer))
	jtx.RequireAccountNotExists(t, env, s.Escrow())
	jtx.RequireAccountNotExists(t, env, s.SellerTemp)
}

func TestOffer_EngineEnvelope(t *testing.T) {
	env := jtx.NewTestEnv(t)
	s := escrow.NewScenario(t, env, 5, 5, "envelope")

	t.Run("unsigned fee payer", func(t *testing.T) {
		jtx.RequireTxFail(t, env.Submit(s.Create()), "tefNO_FEE_PAYER_SIGNATURE")
	})

	t.Run("missing field", func(t *testing.T) {
		o := s.Create()
		o.Escrow = [32]byte{}
		jtx.RequireTxFail(t, env.Submit(o, s.Seller), "temMALFORMED")
	})

	t.Run("replay", func(t *testing.T) {
		o := s.Create()
		jtx.RequireTxSuccess(t, env.Submit(o, s.Seller))
		jtx.RequireTxFail(t, env.Apply(o), "tefALREADY")
		jtx.RequireTxSuccess(t, env.Submit(s.Cancel(), s.Seller))
	})
}

func TestOffer_WireInstructionsRoundTrip(t *testing.T) {
	env := jtx.NewTestEnv(t)
	s := escrow.NewScenario(t, env, 5, 5, "wire")

	data, accounts, err := escrowtx.EncodeInstruction(s.Create())
	require.NoError(t, err)
	create, err := escrowtx.FromInstruction(data, accounts)
	require.NoError(t, err)
	jtx.RequireTxSuccess(t, env.Submit(create, s.Seller))

	data, accounts, err = escrowtx.EncodeInstruction(s.Accept())
	require.NoError(t, err)
	accept, err := escrowtx.FromInstruction(data, accounts)
	require.NoError(t, err)
	jtx.RequireTxSuccess(t, env.Submit(accept, s.Buyer))
	jtx.RequireTokenBalance(t, env, s.BuyerReceive, 5)
}

func TestOffer_ConcurrentAcceptsHaveOneWinner(t *testing.T) {
	env := jtx.NewTestEnv(t)
	s := escrow.NewScenarioWith(t, env,
		sle.OfferDescriptor{QtyOffered: 5, QtyDemanded: 5},
		escrow.Amounts{SellerTemp: 5, BuyerPayment: 100}, "race")
	s.MustCreate(t)

	// Each buyer pays for its own accept; one payer could not submit them
	// all at once with a single sequence.
	const n = 16
	txs := make([]tx.Transaction, n)
	receives := make([]types.Address, n)
	cfg := env.Config()
	for i := range txs {
		buyer := jtx.NewAccount(fmt.Sprintf("buyer-%d", i))
		env.Fund(buyer)
		payment := env.CreateTokenAccount(buyer, s.MintY)
		receives[i] = env.CreateTokenAccount(buyer, s.MintX)
		env.MintTo(s.Issuer, s.MintY, payment, 5)

		a := escrowtx.NewOfferAccept(buyer.Address, payment, receives[i], s.Escrow(),
			s.Seller.Address, s.SellerTemp, s.SellerReceive, s.Tag)
		a.SystemProgram, a.TokenProgram = cfg.SystemProgramID, cfg.TokenProgramID
		env.Sign(a, buyer)
		txs[i] = a
	}

	res, err := tx.NewBlockProcessor(env.Engine(), 8).ApplyConcurrent(t.Context(), txs)
	require.NoError(t, err)
	assert.Equal(t, 1, res.AppliedCount)
	assert.Equal(t, n-1, res.FailedCount)
	for _, r := range res.Transactions {
		if !r.ApplyResult.Applied {
			assert.Equal(t, tx.TecOFFER_NOT_FOUND, r.ApplyResult.Result)
		}
	}

	winners := 0
	for i, r := range res.Transactions {
		if r.ApplyResult.Applied {
			winners++
			jtx.RequireTokenBalance(t, env, receives[i], 5)
		} else {
			jtx.RequireTokenBalance(t, env, receives[i], 0)
		}
	}
	assert.Equal(t, 1, winners)
	jtx.RequireTokenBalance(t, env, s.SellerReceive, 5)
}

func TestOffer_ReplayedCreateAfterCancel(t *testing.T) {
	env := jtx.NewTestEnv(t)
	s := escrow.NewScenario(t, env, 5, 5, "replay")

	create := s.Create()
	jtx.RequireTxSuccess(t, env.Submit(create, s.Seller))
	jtx.RequireTxSuccess(t, env.Submit(s.Cancel(), s.Seller))
	jtx.RequireAccountNotExists(t, env, s.Escrow())

	// The same signature bytes in lower-case hex are the same transaction.
	lower := s.Create()
	lower.Sequence = create.Sequence
	lower.Signers = []tx.Signer{{PublicKey: create.Signers[0].PublicKey, Signature: strings.ToLower(create.Signers[0].Signature)}}

	jtx.RequireUnchanged(t, env, func() {
		jtx.RequireTxFail(t, env.Apply(create), "tefALREADY")
		jtx.RequireTxFail(t, env.Apply(lower), "tefALREADY")
	})

	// After a restart only the stored sequence remembers the create.
	env.Restart()
	jtx.RequireUnchanged(t, env, func() {
		jtx.RequireTxFail(t, env.Apply(create), "tefPAST_SEQ")
		jtx.RequireTxFail(t, env.Apply(lower), "tefPAST_SEQ")
	})
	jtx.RequireAccountNotExists(t, env, s.Escrow())
	jtx.RequireTxFail(t, env.Submit(s.Accept(), s.Buyer), "tecOFFER_NOT_FOUND")
	jtx.RequireTokenBalance(t, env, s.SellerTemp, 5)
}
