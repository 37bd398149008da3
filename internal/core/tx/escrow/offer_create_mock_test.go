package escrow_test

import (
	"testing"

	"github.com/LeJamon/goEscrowd/internal/core/tx"
	escrowtx "github.com/LeJamon/goEscrowd/internal/core/tx/escrow"
	"github.com/LeJamon/goEscrowd/internal/core/tx/mocks"
	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/tx/system"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	jtx "github.com/LeJamon/goEscrowd/internal/testing"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockedOffer struct {
	env    *jtx.TestEnv
	assets *mocks.MockAssetSubsystem
	system *mocks.MockSystemSubsystem

	seller  *jtx.Account
	temp    types.Address
	receive types.Address
	offer   sle.OfferDescriptor
	tag     types.Tag
	auth    escrowtx.Authority
}

// newMockedOffer builds an engine whose token and system programs are
// mocks. Only the seller wallet exists in the store.
func newMockedOffer(t *testing.T) *mockedOffer {
	ctrl := gomock.NewController(t)
	m := &mockedOffer{
		assets:  mocks.NewMockAssetSubsystem(ctrl),
		system:  mocks.NewMockSystemSubsystem(ctrl),
		seller:  jtx.NewAccount("mock-seller"),
		temp:    types.Address{0xA1},
		receive: types.Address{0xA2},
		offer: sle.OfferDescriptor{
			AssetOffered:  types.Address{0xB1},
			QtyOffered:    5,
			AssetDemanded: types.Address{0xB2},
			QtyDemanded:   9,
		},
	}
	m.env = jtx.NewTestEnv(t, jtx.WithConfig(func(cfg *tx.EngineConfig) {
		cfg.Assets = m.assets
		cfg.System = m.system
	}))
	m.env.Fund(m.seller)

	var err error
	m.tag, err = types.TagFromBytes([]byte("mocked"))
	require.NoError(t, err)
	m.auth, err = escrowtx.DeriveAuthority(m.offer, m.tag, m.env.Config().EscrowProgramID)
	require.NoError(t, err)
	return m
}

func (m *mockedOffer) create() *escrowtx.OfferCreate {
	cfg := m.env.Config()
	o := escrowtx.NewOfferCreate(m.seller.Address, m.temp, m.receive, m.auth.Address, m.offer, m.tag)
	o.SystemProgram = cfg.SystemProgramID
	o.TokenProgram = cfg.TokenProgramID
	return o
}

func TestOfferCreate_CallsCollaboratorsInOrder(t *testing.T) {
	m := newMockedOffer(t)
	cfg := m.env.Config()
	rent := m.env.Rent(sle.EscrowRecordSize)

	gomock.InOrder(
		m.assets.EXPECT().ReadBalanceAndType(gomock.Any(), m.temp).
			Return(m.offer.AssetOffered, m.offer.QtyOffered, tx.TesSUCCESS),
		m.assets.EXPECT().ReadBalanceAndType(gomock.Any(), m.receive).
			Return(m.offer.AssetDemanded, uint64(0), tx.TesSUCCESS),
		m.system.EXPECT().
			CreateAccount(gomock.Any(), m.seller.Address, m.auth.Address, rent, uint64(sle.EscrowRecordSize), cfg.EscrowProgramID).
			DoAndReturn(system.NewProgram().CreateAccount),
		m.assets.EXPECT().SetAuthority(gomock.Any(), m.temp, m.auth.Address, m.seller.Address).
			Return(tx.TesSUCCESS),
	)

	jtx.RequireTxSuccess(t, m.env.Submit(m.create(), m.seller))

	acct := m.env.Account(m.auth.Address)
	require.NotNil(t, acct)
	rec, err := sle.DecodeEscrowRecord(acct.Data)
	require.NoError(t, err)
	assert.Equal(t, m.seller.Address, rec.SellerMain)
	assert.Equal(t, m.temp, rec.SellerTemp)
	assert.Equal(t, m.receive, rec.SellerReceive)
	assert.Equal(t, m.offer, rec.Offer)
}

func TestOfferCreate_StopsAtBalanceMismatch(t *testing.T) {
	m := newMockedOffer(t)

	// No account is created and no authority moves.
	m.assets.EXPECT().ReadBalanceAndType(gomock.Any(), m.temp).
		Return(m.offer.AssetOffered, m.offer.QtyOffered-1, tx.TesSUCCESS)

	jtx.RequireTxFail(t, m.env.Submit(m.create(), m.seller), "tecTEMP_BALANCE_MISMATCH")
	jtx.RequireAccountNotExists(t, m.env, m.auth.Address)
}

func TestOfferCreate_AuthorityFailureRollsBack(t *testing.T) {
	m := newMockedOffer(t)

	m.assets.EXPECT().ReadBalanceAndType(gomock.Any(), m.temp).
		Return(m.offer.AssetOffered, m.offer.QtyOffered, tx.TesSUCCESS)
	m.assets.EXPECT().ReadBalanceAndType(gomock.Any(), m.receive).
		Return(m.offer.AssetDemanded, uint64(3), tx.TesSUCCESS)
	m.system.EXPECT().
		CreateAccount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(system.NewProgram().CreateAccount)
	m.assets.EXPECT().SetAuthority(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(tx.TecNO_AUTH)

	jtx.RequireTxFail(t, m.env.Submit(m.create(), m.seller), "tecNO_AUTH")
	jtx.RequireAccountNotExists(t, m.env, m.auth.Address)
}
