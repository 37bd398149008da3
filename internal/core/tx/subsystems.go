package tx

//go:generate mockgen -source=subsystems.go -destination=mocks/mock_subsystems.go -package=mocks

import (
	"github.com/LeJamon/goEscrowd/internal/core/types"
)

// AssetSubsystem moves fungible balances between token accounts. Every
// mutating call authorizes the given authority through ctx.IsAuthorized.
type AssetSubsystem interface {
	// ReadBalanceAndType returns the mint and balance of a token account.
	ReadBalanceAndType(view LedgerView, account types.Address) (mint types.Address, amount uint64, result Result)

	// Transfer moves amount from one token account to another of the same mint.
	Transfer(ctx *ApplyContext, from, to types.Address, amount uint64, authority types.Address) Result

	// SetAuthority hands control of a token account to newAuthority.
	SetAuthority(ctx *ApplyContext, account, newAuthority, authority types.Address) Result

	// Close erases an empty token account and sends its lamports to refundTo.
	Close(ctx *ApplyContext, account, refundTo, authority types.Address) Result
}

// SystemSubsystem creates accounts and moves lamports between wallets.
type SystemSubsystem interface {
	// CreateAccount funds a new account of space bytes owned by owner. Both
	// payer and address must be authorized.
	CreateAccount(ctx *ApplyContext, payer, address types.Address, lamports, space uint64, owner types.Address) Result

	// TransferLamports debits a wallet and credits any account, creating a
	// wallet at to when it does not exist.
	TransferLamports(ctx *ApplyContext, from, to types.Address, lamports uint64) Result
}
