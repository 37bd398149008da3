package tx

import (
	"github.com/LeJamon/goEscrowd/internal/core/ledger/entry"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	crypto "github.com/LeJamon/goEscrowd/internal/crypto/common"
)

// Well-known program ids. The system program owns every wallet.
var (
	SystemProgramID        = types.ZeroAddress
	TokenProgramID         = types.Address(crypto.Sha256([]byte("escrowd:program:token")))
	DefaultEscrowProgramID = types.Address(crypto.Sha256([]byte("escrowd:program:escrow")))
)

// Rent decides how many lamports an account must hold to stay alive.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionYears      uint64
}

// accountStorageOverhead is charged on top of the data length.
const accountStorageOverhead = 128

// DefaultRent returns the standard rent parameters.
func DefaultRent() Rent {
	return Rent{LamportsPerByteYear: 3480, ExemptionYears: 2}
}

// MinimumBalance returns the rent-exempt minimum for space bytes of data.
func (r Rent) MinimumBalance(space uint64) uint64 {
	return (accountStorageOverhead + space) * r.LamportsPerByteYear * r.ExemptionYears
}

// ClassifyAccount decides what an account's data holds from its owner and
// data length.
func ClassifyAccount(acct *sle.AccountRoot, cfg *EngineConfig) entry.Type {
	token, escrow := TokenProgramID, DefaultEscrowProgramID
	if cfg != nil {
		token, escrow = cfg.TokenProgramID, cfg.EscrowProgramID
	}

	switch {
	case acct.Owner == SystemProgramID && len(acct.Data) == 0:
		return entry.TypeAccountRoot
	case acct.Owner == token && len(acct.Data) == sle.TokenAccountSize:
		return entry.TypeTokenAccount
	case acct.Owner == token && len(acct.Data) == sle.MintSize:
		return entry.TypeMint
	case acct.Owner == escrow && len(acct.Data) == sle.EscrowRecordSize:
		return entry.TypeEscrowRecord
	default:
		return entry.TypeUnknown
	}
}
