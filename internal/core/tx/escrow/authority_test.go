package escrow

import (
	"testing"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/keylet"
	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOffer() sle.OfferDescriptor {
	return sle.OfferDescriptor{
		AssetOffered:  types.Address{1},
		QtyOffered:    5,
		AssetDemanded: types.Address{2},
		QtyDemanded:   7,
	}
}

func testTag(t *testing.T, s string) types.Tag {
	t.Helper()
	tag, err := types.TagFromBytes([]byte(s))
	require.NoError(t, err)
	return tag
}

func TestDeriveAuthority_Deterministic(t *testing.T) {
	tag := testTag(t, "deterministic")
	a, err := DeriveAuthority(testOffer(), tag, tx.DefaultEscrowProgramID)
	require.NoError(t, err)
	b, err := DeriveAuthority(testOffer(), tag, tx.DefaultEscrowProgramID)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.False(t, a.Address.IsZero())
}

func TestDeriveAuthority_DependsOnEveryInput(t *testing.T) {
	tag := testTag(t, "inputs")
	base, err := DeriveAuthority(testOffer(), tag, tx.DefaultEscrowProgramID)
	require.NoError(t, err)

	qty := testOffer()
	qty.QtyDemanded++
	swapped := testOffer()
	swapped.AssetOffered, swapped.AssetDemanded = swapped.AssetDemanded, swapped.AssetOffered

	variants := map[string]func() (Authority, error){
		"quantity": func() (Authority, error) { return DeriveAuthority(qty, tag, tx.DefaultEscrowProgramID) },
		"assets":   func() (Authority, error) { return DeriveAuthority(swapped, tag, tx.DefaultEscrowProgramID) },
		"tag": func() (Authority, error) {
			return DeriveAuthority(testOffer(), testTag(t, "inputs2"), tx.DefaultEscrowProgramID)
		},
		"program": func() (Authority, error) { return DeriveAuthority(testOffer(), tag, tx.TokenProgramID) },
	}
	for name, derive := range variants {
		t.Run(name, func(t *testing.T) {
			other, err := derive()
			require.NoError(t, err)
			assert.NotEqual(t, base.Address, other.Address)
		})
	}
}

func TestAuthority_SignerSeedsRecreateAddress(t *testing.T) {
	auth, err := DeriveAuthority(testOffer(), testTag(t, "signer"), tx.DefaultEscrowProgramID)
	require.NoError(t, err)

	seeds := auth.SignerSeeds()
	require.Len(t, seeds, len(auth.Seeds)+1)
	assert.Equal(t, []byte{auth.Bump}, seeds[len(seeds)-1])

	addr, err := keylet.CreateProgramAddress(seeds, tx.DefaultEscrowProgramID)
	require.NoError(t, err)
	assert.Equal(t, auth.Address, addr)

	// SignerSeeds must not alias Seeds.
	seeds[0] = nil
	assert.NotNil(t, auth.Seeds[0])
}

func TestDecodeRecord(t *testing.T) {
	program := tx.DefaultEscrowProgramID
	tag := testTag(t, "record")
	auth, err := DeriveAuthority(testOffer(), tag, program)
	require.NoError(t, err)

	rec := &sle.EscrowRecord{
		SellerMain:    types.Address{10},
		SellerTemp:    types.Address{11},
		SellerReceive: types.Address{12},
		Offer:         testOffer(),
	}
	acct := &sle.AccountRoot{Address: auth.Address, Lamports: 1, Owner: program, Data: rec.Encode()}

	got, gotAuth, ok := decodeRecord(acct, tag, program)
	require.True(t, ok)
	assert.Equal(t, rec, got)
	assert.Equal(t, auth, gotAuth)

	t.Run("wrong tag", func(t *testing.T) {
		_, _, ok := decodeRecord(acct, testTag(t, "other"), program)
		assert.False(t, ok)
	})
	t.Run("wrong owner", func(t *testing.T) {
		other := *acct
		other.Owner = tx.TokenProgramID
		_, _, ok := decodeRecord(&other, tag, program)
		assert.False(t, ok)
	})
	t.Run("short data", func(t *testing.T) {
		other := *acct
		other.Data = other.Data[:sle.EscrowRecordSize-1]
		_, _, ok := decodeRecord(&other, tag, program)
		assert.False(t, ok)
	})
}

func TestCheckSellerAccounts(t *testing.T) {
	rec := &sle.EscrowRecord{
		SellerMain:    types.Address{1},
		SellerTemp:    types.Address{2},
		SellerReceive: types.Address{3},
	}
	x := types.Address{9}

	assert.Equal(t, tx.TesSUCCESS, checkSellerAccounts(rec, rec.SellerMain, rec.SellerTemp, rec.SellerReceive))
	assert.Equal(t, tx.TecSELLER_MISMATCH, checkSellerAccounts(rec, x, x, x))
	assert.Equal(t, tx.TecSELLER_TEMP_MISMATCH, checkSellerAccounts(rec, rec.SellerMain, x, x))
	assert.Equal(t, tx.TecSELLER_RECEIVE_MISMATCH, checkSellerAccounts(rec, rec.SellerMain, rec.SellerTemp, x))
}
