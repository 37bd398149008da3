// Package token implements the token program: mints, token accounts and the
// transfer, set-authority and close operations the escrow relies on.
package token

import (
	"math/bits"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/entry"
	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
)

// Program implements tx.AssetSubsystem over token accounts it owns.
type Program struct {
	id types.Address
}

var _ tx.AssetSubsystem = (*Program)(nil)

// NewProgram returns the token program with the given program id.
func NewProgram(id types.Address) *Program {
	return &Program{id: id}
}

// ID returns the program id.
func (p *Program) ID() types.Address {
	return p.id
}

// loadTokenAccount reads and decodes a token account owned by this program.
func (p *Program) loadTokenAccount(view tx.LedgerView, addr types.Address) (*sle.AccountRoot, *sle.TokenAccount, tx.Result) {
	acct, res := tx.ReadAccount(view, addr)
	if !res.IsSuccess() {
		return nil, nil, res
	}
	if acct.Owner != p.id || len(acct.Data) != sle.TokenAccountSize {
		return nil, nil, tx.TecNOT_TOKEN_ACCOUNT
	}
	ta, err := sle.DecodeTokenAccount(acct.Data)
	if err != nil || ta.State == entry.TokenStateUninitialized || ta.Validate() != nil {
		return nil, nil, tx.TecNOT_TOKEN_ACCOUNT
	}
	return acct, ta, tx.TesSUCCESS
}

// loadMint reads and decodes a mint owned by this program.
func (p *Program) loadMint(view tx.LedgerView, addr types.Address) (*sle.AccountRoot, *sle.Mint, tx.Result) {
	acct, res := tx.ReadAccount(view, addr)
	if !res.IsSuccess() {
		return nil, nil, res
	}
	if acct.Owner != p.id || len(acct.Data) != sle.MintSize {
		return nil, nil, tx.TecNOT_MINT
	}
	m, err := sle.DecodeMint(acct.Data)
	if err != nil || m.State != entry.TokenStateInitialized {
		return nil, nil, tx.TecNOT_MINT
	}
	return acct, m, tx.TesSUCCESS
}

func storeTokenAccount(ctx *tx.ApplyContext, acct *sle.AccountRoot, ta *sle.TokenAccount) tx.Result {
	acct.Data = ta.Encode()
	return ctx.UpdateAccount(acct)
}

// authorize checks that authority controls ta and is authorized in ctx.
func authorize(ctx *tx.ApplyContext, ta *sle.TokenAccount, authority types.Address) tx.Result {
	if ta.Authority != authority || !ctx.IsAuthorized(authority) {
		return tx.TecNO_AUTH
	}
	if ta.State == entry.TokenStateFrozen {
		return tx.TecFROZEN
	}
	return tx.TesSUCCESS
}

// ReadBalanceAndType returns the mint and balance of a token account.
func (p *Program) ReadBalanceAndType(view tx.LedgerView, account types.Address) (types.Address, uint64, tx.Result) {
	_, ta, res := p.loadTokenAccount(view, account)
	if !res.IsSuccess() {
		return types.Address{}, 0, res
	}
	return ta.Mint, ta.Amount, tx.TesSUCCESS
}

// Transfer moves amount between two token accounts of the same mint.
func (p *Program) Transfer(ctx *tx.ApplyContext, from, to types.Address, amount uint64, authority types.Address) tx.Result {
	srcAcct, src, res := p.loadTokenAccount(ctx.View, from)
	if !res.IsSuccess() {
		return res
	}
	if res := authorize(ctx, src, authority); !res.IsSuccess() {
		return res
	}

	dstAcct, dst, res := p.loadTokenAccount(ctx.View, to)
	if !res.IsSuccess() {
		return res
	}
	if src.Mint != dst.Mint {
		return tx.TecMINT_MISMATCH
	}
	if dst.State == entry.TokenStateFrozen {
		return tx.TecFROZEN
	}
	if src.Amount < amount {
		return tx.TecUNFUNDED
	}
	if from == to {
		return tx.TesSUCCESS
	}

	sum, carry := bits.Add64(dst.Amount, amount, 0)
	if carry != 0 {
		return tx.TecOVERFLOW
	}
	src.Amount -= amount
	dst.Amount = sum

	if res := storeTokenAccount(ctx, srcAcct, src); !res.IsSuccess() {
		return res
	}
	return storeTokenAccount(ctx, dstAcct, dst)
}

// SetAuthority hands control of account to newAuthority.
func (p *Program) SetAuthority(ctx *tx.ApplyContext, account, newAuthority, authority types.Address) tx.Result {
	acct, ta, res := p.loadTokenAccount(ctx.View, account)
	if !res.IsSuccess() {
		return res
	}
	if res := authorize(ctx, ta, authority); !res.IsSuccess() {
		return res
	}
	ta.Authority = newAuthority
	return storeTokenAccount(ctx, acct, ta)
}

// Close erases an empty token account and refunds its lamports.
func (p *Program) Close(ctx *tx.ApplyContext, account, refundTo, authority types.Address) tx.Result {
	_, ta, res := p.loadTokenAccount(ctx.View, account)
	if !res.IsSuccess() {
		return res
	}
	if res := authorize(ctx, ta, authority); !res.IsSuccess() {
		return res
	}
	if ta.Amount != 0 {
		return tx.TecACCOUNT_NOT_EMPTY
	}
	return ctx.CloseAccount(account, refundTo)
}

// InitializeMint creates and initializes a mint account paid by payer.
func (p *Program) InitializeMint(ctx *tx.ApplyContext, payer, mint, mintAuthority types.Address, decimals uint8) tx.Result {
	rent := ctx.Rent().MinimumBalance(sle.MintSize)
	if res := ctx.System().CreateAccount(ctx, payer, mint, rent, sle.MintSize, p.id); !res.IsSuccess() {
		return res
	}
	acct, res := ctx.ReadAccount(mint)
	if !res.IsSuccess() {
		return res
	}
	acct.Data = (&sle.Mint{
		MintAuthority: mintAuthority,
		Decimals:      decimals,
		State:         entry.TokenStateInitialized,
	}).Encode()
	return ctx.UpdateAccount(acct)
}

// InitializeAccount creates a token account for mint controlled by authority.
func (p *Program) InitializeAccount(ctx *tx.ApplyContext, payer, account, mint, authority types.Address) tx.Result {
	if _, _, res := p.loadMint(ctx.View, mint); !res.IsSuccess() {
		return res
	}

	rent := ctx.Rent().MinimumBalance(sle.TokenAccountSize)
	if res := ctx.System().CreateAccount(ctx, payer, account, rent, sle.TokenAccountSize, p.id); !res.IsSuccess() {
		return res
	}
	acct, res := ctx.ReadAccount(account)
	if !res.IsSuccess() {
		return res
	}
	acct.Data = (&sle.TokenAccount{
		Mint:      mint,
		Authority: authority,
		State:     entry.TokenStateInitialized,
	}).Encode()
	return ctx.UpdateAccount(acct)
}

// MintTo issues amount new tokens of mint into account.
func (p *Program) MintTo(ctx *tx.ApplyContext, mint, account types.Address, amount uint64) tx.Result {
	mintAcct, m, res := p.loadMint(ctx.View, mint)
	if !res.IsSuccess() {
		return res
	}
	if !ctx.IsAuthorized(m.MintAuthority) {
		return tx.TecNO_AUTH
	}

	acct, ta, res := p.loadTokenAccount(ctx.View, account)
	if !res.IsSuccess() {
		return res
	}
	if ta.Mint != mint {
		return tx.TecMINT_MISMATCH
	}
	if ta.State == entry.TokenStateFrozen {
		return tx.TecFROZEN
	}

	supply, carry := bits.Add64(m.Supply, amount, 0)
	if carry != 0 {
		return tx.TecOVERFLOW
	}
	balance, carry := bits.Add64(ta.Amount, amount, 0)
	if carry != 0 {
		return tx.TecOVERFLOW
	}
	m.Supply = supply
	ta.Amount = balance

	mintAcct.Data = m.Encode()
	if res := ctx.UpdateAccount(mintAcct); !res.IsSuccess() {
		return res
	}
	return storeTokenAccount(ctx, acct, ta)
}

// programFrom returns the token program configured for ctx.
func programFrom(ctx *tx.ApplyContext) *Program {
	return NewProgram(ctx.Config.TokenProgramID)
}
