package all

import (
	"testing"

	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllTypesRegistered(t *testing.T) {
	for _, typ := range []tx.Type{
		tx.TypeTransfer,
		tx.TypeMintCreate, tx.TypeTokenAccountCreate, tx.TypeMintTo,
		tx.TypeTokenTransfer, tx.TypeTokenSetAuthority, tx.TypeTokenAccountClose,
		tx.TypeOfferCreate, tx.TypeOfferAccept, tx.TypeOfferCancel,
	} {
		txn, err := tx.NewFromType(typ)
		require.NoError(t, err, typ.String())
		assert.Equal(t, typ, txn.TxType())
	}
}

func TestDefaultEngineConfigIsWired(t *testing.T) {
	cfg := DefaultEngineConfig()
	assert.NotNil(t, cfg.System)
	assert.NotNil(t, cfg.Assets)
	assert.Equal(t, tx.TokenProgramID, cfg.TokenProgramID)
}
