package testing

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/keylet"
	"github.com/LeJamon/goEscrowd/internal/core/ledger/state"
	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/tx/all"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/tx/token"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/storage/database/memory"
)

// DefaultFunding is the lamport balance Fund gives each account.
const DefaultFunding uint64 = 10_000_000_000

// TestEnv manages a test ledger environment for transaction testing.
// It provides a simplified interface for creating accounts, funding them,
// submitting transactions, and verifying results.
type TestEnv struct {
	t      *testing.T
	store  *state.Store
	view   tx.LedgerView
	config tx.EngineConfig
	engine *tx.Engine

	created atomic.Uint64
}

// Option adjusts a TestEnv before its engine is built.
type Option func(*TestEnv)

// WithConfig edits the engine configuration.
func WithConfig(fn func(*tx.EngineConfig)) Option {
	return func(e *TestEnv) { fn(&e.config) }
}

// WithView wraps the store the engine applies to.
func WithView(wrap func(tx.LedgerView) tx.LedgerView) Option {
	return func(e *TestEnv) { e.view = wrap(e.view) }
}

// NewTestEnv creates a test environment over an empty in-memory store.
func NewTestEnv(t *testing.T, opts ...Option) *TestEnv {
	t.Helper()

	store, err := state.New(memory.NewDB(), state.Config{})
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	e := &TestEnv{
		t:      t,
		store:  store,
		view:   store,
		config: all.DefaultEngineConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.engine = tx.NewEngine(e.view, e.config)
	return e
}

// Restart replaces the engine with a fresh one over the same store, as a
// process restart would. Nothing but the store carries over.
func (e *TestEnv) Restart() {
	e.engine = tx.NewEngine(e.view, e.config)
}

// Engine returns the engine transactions are applied with.
func (e *TestEnv) Engine() *tx.Engine { return e.engine }

// Store returns the underlying account store.
func (e *TestEnv) Store() *state.Store { return e.store }

// Config returns the engine configuration.
func (e *TestEnv) Config() tx.EngineConfig { return e.engine.Config() }

// BaseFee returns the fee charged per signature.
func (e *TestEnv) BaseFee() uint64 { return e.config.BaseFee }

// Rent returns the rent-exempt minimum for space data bytes.
func (e *TestEnv) Rent(space uint64) uint64 { return e.engine.Config().Rent.MinimumBalance(space) }

// Fund gives each account DefaultFunding lamports.
func (e *TestEnv) Fund(accounts ...*Account) {
	e.t.Helper()
	for _, acc := range accounts {
		e.FundAmount(acc.Address, DefaultFunding)
	}
}

// FundAmount credits lamports to a wallet, creating it when absent. It
// writes to the store directly, as genesis funding does.
func (e *TestEnv) FundAmount(addr types.Address, lamports uint64) {
	e.t.Helper()
	k := keylet.Account(addr)
	acct, res := tx.ReadAccount(e.store, addr)
	switch {
	case res == tx.TecNO_ENTRY:
		acct = &sle.AccountRoot{Address: addr, Lamports: lamports, Owner: e.config.SystemProgramID, Sequence: sle.FirstSequence}
		if err := e.store.Insert(k, acct.Encode()); err != nil {
			e.t.Fatalf("Failed to fund %s: %v", addr, err)
		}
	case res.IsSuccess():
		acct.Lamports += lamports
		if err := e.store.Update(k, acct.Encode()); err != nil {
			e.t.Fatalf("Failed to fund %s: %v", addr, err)
		}
	default:
		e.t.Fatalf("Failed to read %s: %s", addr, res)
	}
}

// Submit signs transaction with every given signer, then applies it. The
// fee payer must be among the signers for the engine to accept it. A zero
// Sequence is replaced with the fee payer's current one.
func (e *TestEnv) Submit(transaction tx.Transaction, signers ...*Account) TxResult {
	e.t.Helper()
	e.Sign(transaction, signers...)
	return e.Apply(transaction)
}

// Sign fills the sequence and signs without submitting.
func (e *TestEnv) Sign(transaction tx.Transaction, signers ...*Account) {
	e.t.Helper()
	common := transaction.GetCommon()
	if common.Sequence == 0 {
		common.Sequence = e.Sequence(common.Account)
	}
	for _, s := range signers {
		if err := tx.Sign(transaction, s.PrivateKey); err != nil {
			e.t.Fatalf("Failed to sign with %s: %v", s.Name, err)
		}
	}
}

// Apply submits an already signed transaction unchanged.
func (e *TestEnv) Apply(transaction tx.Transaction) TxResult {
	e.t.Helper()
	return resultFrom(e.engine.Apply(transaction))
}

// NewKeypair returns a fresh deterministic account for a new on-ledger
// address such as a mint or token account.
func (e *TestEnv) NewKeypair(prefix string) *Account {
	return NewAccount(fmt.Sprintf("%s-%s-%d", e.t.Name(), prefix, e.created.Add(1)))
}

// CreateMint creates a mint whose authority and payer is authority.
func (e *TestEnv) CreateMint(authority *Account, decimals uint8) types.Address {
	e.t.Helper()
	mint := e.NewKeypair("mint")
	result := e.Submit(token.NewMintCreate(authority.Address, mint.Address, authority.Address, decimals), authority, mint)
	if !result.Success {
		e.t.Fatalf("Failed to create mint: %s", result.Code)
	}
	return mint.Address
}

// CreateTokenAccount creates a token account for mint controlled and paid
// for by owner.
func (e *TestEnv) CreateTokenAccount(owner *Account, mint types.Address) types.Address {
	e.t.Helper()
	acct := e.NewKeypair("token")
	result := e.Submit(token.NewAccountCreate(owner.Address, acct.Address, mint, owner.Address), owner, acct)
	if !result.Success {
		e.t.Fatalf("Failed to create token account: %s", result.Code)
	}
	return acct.Address
}

// MintTo issues amount tokens to dest, signed by the mint authority.
func (e *TestEnv) MintTo(authority *Account, mint, dest types.Address, amount uint64) {
	e.t.Helper()
	result := e.Submit(token.NewMintTo(authority.Address, mint, dest, amount), authority)
	if !result.Success {
		e.t.Fatalf("Failed to mint: %s", result.Code)
	}
}

// Account returns the stored account at addr, or nil.
func (e *TestEnv) Account(addr types.Address) *sle.AccountRoot {
	e.t.Helper()
	acct, res := tx.ReadAccount(e.store, addr)
	if res == tx.TecNO_ENTRY {
		return nil
	}
	if !res.IsSuccess() {
		e.t.Fatalf("Failed to read %s: %s", addr, res)
	}
	return acct
}

// Sequence returns the sequence the next transaction paid by addr must
// carry. An address with no account gets FirstSequence.
func (e *TestEnv) Sequence(addr types.Address) uint64 {
	e.t.Helper()
	if acct := e.Account(addr); acct != nil {
		return acct.Sequence
	}
	return sle.FirstSequence
}

// Exists reports whether addr holds an account.
func (e *TestEnv) Exists(addr types.Address) bool {
	e.t.Helper()
	return e.Account(addr) != nil
}

// Lamports returns the lamport balance of addr, zero when absent.
func (e *TestEnv) Lamports(addr types.Address) uint64 {
	e.t.Helper()
	if acct := e.Account(addr); acct != nil {
		return acct.Lamports
	}
	return 0
}

// TokenAccount decodes the token account at addr.
func (e *TestEnv) TokenAccount(addr types.Address) *sle.TokenAccount {
	e.t.Helper()
	acct := e.Account(addr)
	if acct == nil {
		e.t.Fatalf("Token account %s does not exist", addr)
	}
	ta, err := sle.DecodeTokenAccount(acct.Data)
	if err != nil {
		e.t.Fatalf("Account %s is not a token account: %v", addr, err)
	}
	return ta
}

// TokenBalance returns the token balance of the token account at addr.
func (e *TestEnv) TokenBalance(addr types.Address) uint64 {
	e.t.Helper()
	return e.TokenAccount(addr).Amount
}

// TokenAuthority returns the authority of the token account at addr.
func (e *TestEnv) TokenAuthority(addr types.Address) types.Address {
	e.t.Helper()
	return e.TokenAccount(addr).Authority
}

// Snapshot returns every stored entry.
func (e *TestEnv) Snapshot() map[[32]byte][]byte {
	e.t.Helper()
	snap, err := e.store.Snapshot()
	if err != nil {
		e.t.Fatalf("Failed to snapshot store: %v", err)
	}
	return snap
}
