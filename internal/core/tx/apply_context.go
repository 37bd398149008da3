package tx

import (
	"errors"
	"math/bits"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/keylet"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	log "github.com/sirupsen/logrus"
)

// ApplyContext provides all the state and helpers needed to apply a transaction.
// It is passed to Appliable.Apply() instead of individual parameters.
type ApplyContext struct {
	// View provides read/write access to account state (the ApplyStateTable)
	View LedgerView

	// Config holds engine configuration
	Config *EngineConfig

	// TxHash is the hash of the current transaction
	TxHash [32]byte

	// Program is the program executing the transaction. Program-derived
	// addresses are computed against it.
	Program types.Address

	// FeePayer is the transaction's Account field
	FeePayer types.Address

	// Log is tagged with the transaction type and hash
	Log *log.Entry

	signers map[types.Address]struct{}
	granted []types.Address
}

// NewApplyContext builds a context over view. Exposed for subsystem tests;
// the engine builds its own.
func NewApplyContext(view LedgerView, cfg *EngineConfig, program types.Address, signers ...types.Address) *ApplyContext {
	set := make(map[types.Address]struct{}, len(signers))
	for _, s := range signers {
		set[s] = struct{}{}
	}
	return &ApplyContext{
		View:    view,
		Config:  cfg,
		Program: program,
		Log:     log.WithField("module", logModule),
		signers: set,
	}
}

// IsSigner reports whether addr signed the transaction.
func (ctx *ApplyContext) IsSigner(addr types.Address) bool {
	_, ok := ctx.signers[addr]
	return ok
}

// IsAuthorized reports whether addr may authorize an action right now: it
// signed the transaction, or it is a program-derived address granted by an
// enclosing InvokeSigned.
func (ctx *ApplyContext) IsAuthorized(addr types.Address) bool {
	if ctx.IsSigner(addr) {
		return true
	}
	for _, g := range ctx.granted {
		if g == addr {
			return true
		}
	}
	return false
}

// InvokeSigned runs fn with the address derived from seeds and the current
// program treated as authorized. The seeds must include the bump.
func (ctx *ApplyContext) InvokeSigned(seeds [][]byte, fn func() Result) Result {
	addr, err := keylet.CreateProgramAddress(seeds, ctx.Program)
	if err != nil {
		ctx.Log.WithError(err).Warn("invalid signer seeds")
		return TefINTERNAL
	}

	ctx.granted = append(ctx.granted, addr)
	defer func() { ctx.granted = ctx.granted[:len(ctx.granted)-1] }()

	return fn()
}

// Assets returns the configured asset subsystem.
func (ctx *ApplyContext) Assets() AssetSubsystem {
	return ctx.Config.Assets
}

// System returns the configured system program.
func (ctx *ApplyContext) System() SystemSubsystem {
	return ctx.Config.System
}

// Rent returns the rent parameters.
func (ctx *ApplyContext) Rent() Rent {
	return ctx.Config.Rent
}

// ReadAccount loads the account at addr. A missing account is tecNO_ENTRY.
func (ctx *ApplyContext) ReadAccount(addr types.Address) (*sle.AccountRoot, Result) {
	return ReadAccount(ctx.View, addr)
}

// AccountExists reports whether addr holds an account.
func (ctx *ApplyContext) AccountExists(addr types.Address) (bool, Result) {
	exists, err := ctx.View.Exists(keylet.Account(addr))
	if err != nil {
		ctx.Log.WithError(err).Error("account lookup failed")
		return false, TefINTERNAL
	}
	return exists, TesSUCCESS
}

// InsertAccount stores a new account.
func (ctx *ApplyContext) InsertAccount(acct *sle.AccountRoot) Result {
	if err := ctx.View.Insert(keylet.Account(acct.Address), acct.Encode()); err != nil {
		if errors.Is(err, ErrEntryExists) {
			return TecACCOUNT_EXISTS
		}
		ctx.Log.WithError(err).Error("account insert failed")
		return TefINTERNAL
	}
	return TesSUCCESS
}

// UpdateAccount writes an existing account back.
func (ctx *ApplyContext) UpdateAccount(acct *sle.AccountRoot) Result {
	if err := ctx.View.Update(keylet.Account(acct.Address), acct.Encode()); err != nil {
		ctx.Log.WithError(err).Error("account update failed")
		return TefINTERNAL
	}
	return TesSUCCESS
}

// CloseAccount erases addr and credits its lamports to refundTo. Only the
// owning program may close an account; the caller checks that.
func (ctx *ApplyContext) CloseAccount(addr, refundTo types.Address) Result {
	acct, res := ctx.ReadAccount(addr)
	if !res.IsSuccess() {
		return res
	}
	if addr == refundTo {
		return TemDST_IS_SRC
	}
	dest, res := ctx.ReadAccount(refundTo)
	if !res.IsSuccess() {
		return res
	}

	sum, carry := bits.Add64(dest.Lamports, acct.Lamports, 0)
	if carry != 0 {
		return TecOVERFLOW
	}
	dest.Lamports = sum

	if err := ctx.View.Erase(keylet.Account(addr)); err != nil {
		ctx.Log.WithError(err).Error("account erase failed")
		return TefINTERNAL
	}
	return ctx.UpdateAccount(dest)
}

// ReadAccount loads the account at addr from any view.
func ReadAccount(view LedgerView, addr types.Address) (*sle.AccountRoot, Result) {
	data, err := view.Read(keylet.Account(addr))
	if err != nil {
		log.WithFields(log.Fields{"module": logModule, "account": addr}).WithError(err).Error("account read failed")
		return nil, TefINTERNAL
	}
	if data == nil {
		return nil, TecNO_ENTRY
	}
	acct, err := sle.DecodeAccountRoot(data)
	if err != nil {
		log.WithFields(log.Fields{"module": logModule, "account": addr}).WithError(err).Error("stored account is corrupt")
		return nil, TefINTERNAL
	}
	return acct, TesSUCCESS
}
