package token

import (
	"errors"

	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/types"
)

func init() {
	tx.Register(tx.TypeMintCreate, func() tx.Transaction {
		return &MintCreate{BaseTx: *tx.NewBaseTx(tx.TypeMintCreate, types.Address{})}
	})
	tx.Register(tx.TypeTokenAccountCreate, func() tx.Transaction {
		return &AccountCreate{BaseTx: *tx.NewBaseTx(tx.TypeTokenAccountCreate, types.Address{})}
	})
	tx.Register(tx.TypeMintTo, func() tx.Transaction {
		return &MintTo{BaseTx: *tx.NewBaseTx(tx.TypeMintTo, types.Address{})}
	})
	tx.Register(tx.TypeTokenTransfer, func() tx.Transaction {
		return &Transfer{BaseTx: *tx.NewBaseTx(tx.TypeTokenTransfer, types.Address{})}
	})
	tx.Register(tx.TypeTokenSetAuthority, func() tx.Transaction {
		return &SetAuthority{BaseTx: *tx.NewBaseTx(tx.TypeTokenSetAuthority, types.Address{})}
	})
	tx.Register(tx.TypeTokenAccountClose, func() tx.Transaction {
		return &AccountClose{BaseTx: *tx.NewBaseTx(tx.TypeTokenAccountClose, types.Address{})}
	})
}

// MintCreate creates a new mint. The mint address must sign.
type MintCreate struct {
	tx.BaseTx

	Mint          types.Address `json:"Mint"`
	MintAuthority types.Address `json:"MintAuthority"`
	Decimals      uint8         `json:"Decimals"`
}

// NewMintCreate creates a new MintCreate transaction
func NewMintCreate(payer, mint, mintAuthority types.Address, decimals uint8) *MintCreate {
	return &MintCreate{
		BaseTx:        *tx.NewBaseTx(tx.TypeMintCreate, payer),
		Mint:          mint,
		MintAuthority: mintAuthority,
		Decimals:      decimals,
	}
}

func (t *MintCreate) TxType() tx.Type { return tx.TypeMintCreate }

func (t *MintCreate) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Mint.IsZero() || t.MintAuthority.IsZero() {
		return errors.New("temMALFORMED: Mint and MintAuthority are required")
	}
	if t.Mint == t.Account {
		return errors.New("temDST_IS_SRC: Mint may not be the payer")
	}
	return nil
}

func (t *MintCreate) Accounts() []types.Address {
	return tx.UniqueAccounts(t.Account, t.Mint)
}

func (t *MintCreate) ProgramID(cfg *tx.EngineConfig) types.Address {
	return cfg.TokenProgramID
}

func (t *MintCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	return programFrom(ctx).InitializeMint(ctx, t.Account, t.Mint, t.MintAuthority, t.Decimals)
}

// AccountCreate creates a token account for Mint. The new account address
// must sign.
type AccountCreate struct {
	tx.BaseTx

	TokenAccount types.Address `json:"TokenAccount"`
	Mint         types.Address `json:"Mint"`

	// Authority controls the new account; defaults to the payer
	Authority types.Address `json:"Authority,omitempty"`
}

// NewAccountCreate creates a new AccountCreate transaction
func NewAccountCreate(payer, account, mint, authority types.Address) *AccountCreate {
	return &AccountCreate{
		BaseTx:       *tx.NewBaseTx(tx.TypeTokenAccountCreate, payer),
		TokenAccount: account,
		Mint:         mint,
		Authority:    authority,
	}
}

func (t *AccountCreate) TxType() tx.Type { return tx.TypeTokenAccountCreate }

func (t *AccountCreate) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.TokenAccount.IsZero() || t.Mint.IsZero() {
		return errors.New("temMALFORMED: TokenAccount and Mint are required")
	}
	if t.TokenAccount == t.Account {
		return errors.New("temDST_IS_SRC: TokenAccount may not be the payer")
	}
	return nil
}

func (t *AccountCreate) Accounts() []types.Address {
	return tx.UniqueAccounts(t.Account, t.TokenAccount, t.Mint)
}

func (t *AccountCreate) ProgramID(cfg *tx.EngineConfig) types.Address {
	return cfg.TokenProgramID
}

func (t *AccountCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	authority := t.Authority
	if authority.IsZero() {
		authority = t.Account
	}
	return programFrom(ctx).InitializeAccount(ctx, t.Account, t.TokenAccount, t.Mint, authority)
}

// MintTo issues new tokens. The mint authority must sign.
type MintTo struct {
	tx.BaseTx

	Mint        types.Address `json:"Mint"`
	Destination types.Address `json:"Destination"`
	Amount      uint64        `json:"Amount,string"`
}

// NewMintTo creates a new MintTo transaction
func NewMintTo(payer, mint, destination types.Address, amount uint64) *MintTo {
	return &MintTo{
		BaseTx:      *tx.NewBaseTx(tx.TypeMintTo, payer),
		Mint:        mint,
		Destination: destination,
		Amount:      amount,
	}
}

func (t *MintTo) TxType() tx.Type { return tx.TypeMintTo }

func (t *MintTo) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Mint.IsZero() || t.Destination.IsZero() {
		return errors.New("temMALFORMED: Mint and Destination are required")
	}
	if t.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	return nil
}

func (t *MintTo) Accounts() []types.Address {
	return tx.UniqueAccounts(t.Account, t.Mint, t.Destination)
}

func (t *MintTo) ProgramID(cfg *tx.EngineConfig) types.Address {
	return cfg.TokenProgramID
}

func (t *MintTo) Apply(ctx *tx.ApplyContext) tx.Result {
	return programFrom(ctx).MintTo(ctx, t.Mint, t.Destination, t.Amount)
}

// Transfer moves tokens between two accounts of the same mint.
type Transfer struct {
	tx.BaseTx

	Source      types.Address `json:"Source"`
	Destination types.Address `json:"Destination"`
	Amount      uint64        `json:"Amount,string"`

	// Authority controls Source; defaults to the payer
	Authority types.Address `json:"Authority,omitempty"`
}

// NewTransfer creates a new token Transfer transaction
func NewTransfer(payer, source, destination types.Address, amount uint64) *Transfer {
	return &Transfer{
		BaseTx:      *tx.NewBaseTx(tx.TypeTokenTransfer, payer),
		Source:      source,
		Destination: destination,
		Amount:      amount,
	}
}

func (t *Transfer) TxType() tx.Type { return tx.TypeTokenTransfer }

func (t *Transfer) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.Source.IsZero() || t.Destination.IsZero() {
		return errors.New("temMALFORMED: Source and Destination are required")
	}
	if t.Source == t.Destination {
		return errors.New("temDST_IS_SRC: Destination may not be Source")
	}
	if t.Amount == 0 {
		return errors.New("temBAD_AMOUNT: Amount must be positive")
	}
	return nil
}

func (t *Transfer) Accounts() []types.Address {
	return tx.UniqueAccounts(t.Account, t.Source, t.Destination)
}

func (t *Transfer) ProgramID(cfg *tx.EngineConfig) types.Address {
	return cfg.TokenProgramID
}

func (t *Transfer) Apply(ctx *tx.ApplyContext) tx.Result {
	return ctx.Assets().Transfer(ctx, t.Source, t.Destination, t.Amount, orPayer(t.Authority, t.Account))
}

// SetAuthority hands control of a token account to a new authority.
type SetAuthority struct {
	tx.BaseTx

	TokenAccount types.Address `json:"TokenAccount"`
	NewAuthority types.Address `json:"NewAuthority"`

	// Authority currently controls TokenAccount; defaults to the payer
	Authority types.Address `json:"Authority,omitempty"`
}

// NewSetAuthority creates a new SetAuthority transaction
func NewSetAuthority(payer, account, newAuthority types.Address) *SetAuthority {
	return &SetAuthority{
		BaseTx:       *tx.NewBaseTx(tx.TypeTokenSetAuthority, payer),
		TokenAccount: account,
		NewAuthority: newAuthority,
	}
}

func (t *SetAuthority) TxType() tx.Type { return tx.TypeTokenSetAuthority }

func (t *SetAuthority) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.TokenAccount.IsZero() || t.NewAuthority.IsZero() {
		return errors.New("temMALFORMED: TokenAccount and NewAuthority are required")
	}
	return nil
}

func (t *SetAuthority) Accounts() []types.Address {
	return tx.UniqueAccounts(t.Account, t.TokenAccount)
}

func (t *SetAuthority) ProgramID(cfg *tx.EngineConfig) types.Address {
	return cfg.TokenProgramID
}

func (t *SetAuthority) Apply(ctx *tx.ApplyContext) tx.Result {
	return ctx.Assets().SetAuthority(ctx, t.TokenAccount, t.NewAuthority, orPayer(t.Authority, t.Account))
}

// AccountClose erases an empty token account, refunding its lamports.
type AccountClose struct {
	tx.BaseTx

	TokenAccount types.Address `json:"TokenAccount"`

	// Destination receives the lamports; defaults to the payer
	Destination types.Address `json:"Destination,omitempty"`

	// Authority controls TokenAccount; defaults to the payer
	Authority types.Address `json:"Authority,omitempty"`
}

// NewAccountClose creates a new AccountClose transaction
func NewAccountClose(payer, account types.Address) *AccountClose {
	return &AccountClose{
		BaseTx:       *tx.NewBaseTx(tx.TypeTokenAccountClose, payer),
		TokenAccount: account,
	}
}

func (t *AccountClose) TxType() tx.Type { return tx.TypeTokenAccountClose }

func (t *AccountClose) Validate() error {
	if err := t.BaseTx.Validate(); err != nil {
		return err
	}
	if t.TokenAccount.IsZero() {
		return errors.New("temMALFORMED: TokenAccount is required")
	}
	if t.TokenAccount == t.Destination {
		return errors.New("temDST_IS_SRC: Destination may not be TokenAccount")
	}
	return nil
}

func (t *AccountClose) Accounts() []types.Address {
	return tx.UniqueAccounts(t.Account, t.TokenAccount, t.Destination)
}

func (t *AccountClose) ProgramID(cfg *tx.EngineConfig) types.Address {
	return cfg.TokenProgramID
}

func (t *AccountClose) Apply(ctx *tx.ApplyContext) tx.Result {
	return ctx.Assets().Close(ctx, t.TokenAccount, orPayer(t.Destination, t.Account), orPayer(t.Authority, t.Account))
}

func orPayer(addr, payer types.Address) types.Address {
	if addr.IsZero() {
		return payer
	}
	return addr
}
