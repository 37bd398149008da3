package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/service"
	"github.com/LeJamon/goEscrowd/internal/core/ledger/state"
	"github.com/LeJamon/goEscrowd/internal/core/tx"
	"github.com/LeJamon/goEscrowd/internal/core/tx/system"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/storage/database/memory"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb/mocks"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb/sqlite"
	jtx "github.com/LeJamon/goEscrowd/internal/testing"
	"github.com/LeJamon/goEscrowd/internal/testing/escrow"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genesisLamports uint64 = 5_000_000_000

func newStore(t *testing.T) *state.Store {
	t.Helper()
	store, err := state.New(memory.NewDB(), state.Config{})
	require.NoError(t, err)
	return store
}

func newService(t *testing.T, store service.Store, edit func(*service.Config)) *service.Service {
	t.Helper()
	cfg := service.DefaultConfig()
	cfg.Registerer = prometheus.NewRegistry()
	if edit != nil {
		edit(&cfg)
	}
	svc, err := service.New(store, cfg)
	require.NoError(t, err)
	return svc
}

func startService(t *testing.T, svc *service.Service) {
	t.Helper()
	require.NoError(t, svc.Start(context.Background()))
	t.Cleanup(svc.Stop)
}

func openHistory(t *testing.T) *relationaldb.Manager {
	t.Helper()
	cfg := relationaldb.SQLiteConfig(sqlite.InMemory)
	rm, err := sqlite.NewRepositoryManager(cfg)
	require.NoError(t, err)
	m := relationaldb.NewManager(rm, cfg, relationaldb.WithHealthCheckInterval(0))
	require.NoError(t, m.Open(context.Background()))
	t.Cleanup(func() { m.Close(context.Background()) })
	return m
}

func signedTransfer(t *testing.T, from, to *jtx.Account, lamports, sequence uint64) tx.Transaction {
	t.Helper()
	transfer := system.NewTransfer(from.Address, to.Address, lamports)
	transfer.GetCommon().Sequence = sequence
	require.NoError(t, tx.Sign(transfer, from.PrivateKey))
	return transfer
}

func TestStart_FundsGenesisOnce(t *testing.T) {
	store := newStore(t)
	alice := jtx.NewAccount("alice")
	genesis := []service.GenesisAccount{{Address: alice.Address, Lamports: genesisLamports}}

	svc := newService(t, store, func(c *service.Config) { c.Genesis = genesis })
	require.NoError(t, svc.Start(context.Background()))

	info, err := svc.GetAccountInfo(alice.Address)
	require.NoError(t, err)
	assert.Equal(t, genesisLamports, info.Lamports)
	assert.Equal(t, svc.EngineConfig().SystemProgramID, info.Owner)

	// Spend some, then restart over the same store: genesis must not refund.
	bob := jtx.NewAccount("bob")
	res, err := svc.Submit(context.Background(), signedTransfer(t, alice, bob, 1_000_000, 1))
	require.NoError(t, err)
	require.True(t, res.Applied, res.Message)
	svc.Stop()

	again := newService(t, store, func(c *service.Config) { c.Genesis = genesis })
	startService(t, again)

	info, err = again.GetAccountInfo(alice.Address)
	require.NoError(t, err)
	assert.Equal(t, genesisLamports-1_000_000-res.Fee, info.Lamports)
}

func TestStart_RejectsBadGenesis(t *testing.T) {
	alice := jtx.NewAccount("alice")

	svc := newService(t, newStore(t), func(c *service.Config) {
		c.Genesis = []service.GenesisAccount{
			{Address: alice.Address, Lamports: 1},
			{Address: alice.Address, Lamports: 2},
		}
	})
	assert.Error(t, svc.Start(context.Background()))
	assert.False(t, svc.IsRunning())

	svc = newService(t, newStore(t), func(c *service.Config) {
		c.Genesis = []service.GenesisAccount{{Lamports: 1}}
	})
	assert.Error(t, svc.Start(context.Background()))
}

func TestSubmit_RequiresStart(t *testing.T) {
	svc := newService(t, newStore(t), nil)
	alice, bob := jtx.NewAccount("alice"), jtx.NewAccount("bob")

	_, err := svc.Submit(context.Background(), signedTransfer(t, alice, bob, 1, 1))
	assert.ErrorIs(t, err, service.ErrNotStarted)

	_, err = svc.Submit(context.Background(), nil)
	assert.ErrorIs(t, err, service.ErrEmptyTransaction)
}

func TestSubmit_PublishesAppliedTransactions(t *testing.T) {
	alice, bob := jtx.NewAccount("alice"), jtx.NewAccount("bob")
	reg := prometheus.NewRegistry()
	svc := newService(t, newStore(t), func(c *service.Config) {
		c.Genesis = []service.GenesisAccount{{Address: alice.Address, Lamports: genesisLamports}}
		c.Registerer = reg
	})
	startService(t, svc)

	var (
		mu     sync.Mutex
		events []service.TransactionEvent
	)
	svc.Events().SetEventHooks(&service.EventHooks{OnTransaction: func(ev service.TransactionEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
	}})
	require.True(t, svc.Events().HasSubscribers())

	res, err := svc.Submit(context.Background(), signedTransfer(t, alice, bob, 2_000_000, 1))
	require.NoError(t, err)
	require.True(t, res.Applied, res.Message)
	assert.Equal(t, tx.TesSUCCESS, res.Result)

	// A transfer from an unfunded account is rejected before it applies.
	res, err = svc.Submit(context.Background(), signedTransfer(t, jtx.NewAccount("nobody"), bob, 1, 2))
	require.NoError(t, err)
	assert.False(t, res.Applied)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, "Transfer", ev.Type)
	assert.Equal(t, alice.Address, ev.Account)
	assert.ElementsMatch(t, []types.Address{alice.Address, bob.Address}, ev.Accounts)
	assert.NotEmpty(t, ev.Transaction)

	series, err := testutil.GatherAndCount(reg, "escrowd_engine_transactions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}

func TestSubmit_RecordsHistory(t *testing.T) {
	alice, bob := jtx.NewAccount("alice"), jtx.NewAccount("bob")
	history := openHistory(t)
	svc := newService(t, newStore(t), func(c *service.Config) {
		c.Genesis = []service.GenesisAccount{{Address: alice.Address, Lamports: genesisLamports}}
		c.History = history
	})
	startService(t, svc)
	ctx := context.Background()

	var hashes [][32]byte
	for i := uint64(1); i <= 3; i++ {
		res, err := svc.Submit(ctx, signedTransfer(t, alice, bob, 1000, i))
		require.NoError(t, err)
		require.True(t, res.Applied, res.Message)
		hashes = append(hashes, res.Hash)
	}

	rec, err := svc.GetTransaction(ctx, hashes[1])
	require.NoError(t, err)
	assert.Equal(t, "Transfer", rec.Type)
	assert.Equal(t, alice.Address, rec.Account)
	assert.Equal(t, "tesSUCCESS", rec.Result)

	page, err := svc.GetAccountTransactions(ctx, relationaldb.AccountTxOptions{Account: bob.Address, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 2)
	assert.Equal(t, relationaldb.Hash(hashes[2]), page.Transactions[0].Hash)
	assert.NotZero(t, page.Marker)

	page, err = svc.GetAccountTransactions(ctx, relationaldb.AccountTxOptions{Account: bob.Address, Limit: 2, Marker: page.Marker})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 1)
	assert.Equal(t, relationaldb.Hash(hashes[0]), page.Transactions[0].Hash)
}

func TestSubmit_HistoryFailureKeepsTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	history := mocks.NewMockTransactionRepository(ctrl)
	history.EXPECT().
		SaveTransaction(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("disk full"))

	alice, bob := jtx.NewAccount("alice"), jtx.NewAccount("bob")
	svc := newService(t, newStore(t), func(c *service.Config) {
		c.Genesis = []service.GenesisAccount{{Address: alice.Address, Lamports: genesisLamports}}
		c.History = history
	})
	startService(t, svc)

	res, err := svc.Submit(context.Background(), signedTransfer(t, alice, bob, 5000, 1))
	require.NoError(t, err)
	require.True(t, res.Applied)

	info, err := svc.GetAccountInfo(bob.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), info.Lamports)
}

func TestHistoryDisabled(t *testing.T) {
	svc := newService(t, newStore(t), nil)
	startService(t, svc)
	assert.False(t, svc.HistoryEnabled())

	_, err := svc.GetTransaction(context.Background(), [32]byte{1})
	assert.ErrorIs(t, err, service.ErrHistoryDisabled)
	_, err = svc.GetAccountTransactions(context.Background(), relationaldb.AccountTxOptions{})
	assert.ErrorIs(t, err, service.ErrHistoryDisabled)
}

func TestSubmitBatch_ResultsInInputOrder(t *testing.T) {
	alice, carol, bob := jtx.NewAccount("alice"), jtx.NewAccount("carol"), jtx.NewAccount("bob")
	svc := newService(t, newStore(t), func(c *service.Config) {
		c.Genesis = []service.GenesisAccount{
			{Address: alice.Address, Lamports: genesisLamports},
			{Address: carol.Address, Lamports: genesisLamports},
		}
	})
	startService(t, svc)

	batch := []tx.Transaction{
		signedTransfer(t, alice, bob, 100, 1),
		signedTransfer(t, carol, bob, 200, 1),
		signedTransfer(t, alice, bob, 300, 2),
	}
	results, err := svc.SubmitBatch(context.Background(), batch)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.True(t, r.Applied, "tx %d: %s", i, r.Message)
	}

	info, err := svc.GetAccountInfo(bob.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), info.Lamports)

	info, err = svc.GetAccountInfo(alice.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), info.Sequence)
}

func TestSubmitBatch_DisjointPayers(t *testing.T) {
	alice, carol, bob := jtx.NewAccount("alice"), jtx.NewAccount("carol"), jtx.NewAccount("bob")
	svc := newService(t, newStore(t), func(c *service.Config) {
		c.Genesis = []service.GenesisAccount{
			{Address: alice.Address, Lamports: genesisLamports},
			{Address: carol.Address, Lamports: genesisLamports},
		}
	})
	startService(t, svc)

	results, err := svc.SubmitBatch(context.Background(), []tx.Transaction{
		signedTransfer(t, alice, bob, 100, 1),
		signedTransfer(t, carol, bob, 200, 5),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Applied, results[0].Message)
	// carol's account is still at its first sequence
	assert.Equal(t, tx.TerPRE_SEQ, results[1].Result)
	assert.True(t, results[1].Result.ShouldRetry())
}

func TestSubmit_ReplayAfterRestart(t *testing.T) {
	store := newStore(t)
	alice, bob := jtx.NewAccount("alice"), jtx.NewAccount("bob")
	genesis := []service.GenesisAccount{{Address: alice.Address, Lamports: genesisLamports}}

	svc := newService(t, store, func(c *service.Config) { c.Genesis = genesis })
	require.NoError(t, svc.Start(context.Background()))
	transfer := signedTransfer(t, alice, bob, 1_000_000, 1)
	res, err := svc.Submit(context.Background(), transfer)
	require.NoError(t, err)
	require.True(t, res.Applied, res.Message)
	svc.Stop()

	// A new service has an empty dedupe window; the stored sequence still
	// refuses the same transaction.
	again := newService(t, store, func(c *service.Config) { c.Genesis = genesis })
	startService(t, again)
	res, err = again.Submit(context.Background(), transfer)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, tx.TefPAST_SEQ, res.Result)

	info, err := again.GetAccountInfo(bob.Address)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), info.Lamports)
}

// offerService runs the service over a store already holding an offer
// scenario built with a TestEnv.
func offerService(t *testing.T) (*service.Service, *escrow.Scenario) {
	t.Helper()
	env := jtx.NewTestEnv(t)
	s := escrow.NewScenario(t, env, 5, 3, "svc")

	svc := newService(t, env.Store(), func(c *service.Config) { c.Engine = env.Config() })
	startService(t, svc)
	return svc, s
}

func TestQueries_OfferLifecycle(t *testing.T) {
	svc, s := offerService(t)
	ctx := context.Background()

	auth, err := svc.DeriveEscrow(s.Offer, s.Tag)
	require.NoError(t, err)
	assert.Equal(t, s.Escrow(), auth.Address)
	assert.Equal(t, s.Authority.Bump, auth.Bump)

	_, err = svc.FindOffer(s.Offer, s.Tag)
	assert.ErrorIs(t, err, service.ErrOfferNotFound)

	create := s.Create()
	s.Env.Sign(create, s.Seller)
	res, err := svc.Submit(ctx, create)
	require.NoError(t, err)
	require.True(t, res.Applied, res.Message)

	found, err := svc.FindOffer(s.Offer, s.Tag)
	require.NoError(t, err)
	assert.Equal(t, s.Seller.Address, found.Record.SellerMain)
	assert.Equal(t, s.SellerTemp, found.Record.SellerTemp)

	other := s.Offer
	other.QtyDemanded++
	_, err = svc.FindOffer(other, s.Tag)
	assert.ErrorIs(t, err, service.ErrOfferNotFound)

	list, err := svc.ListEscrows()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, s.Escrow(), list[0].Address)

	info, err := svc.GetAccountInfo(s.Escrow())
	require.NoError(t, err)
	require.NotNil(t, info.Escrow)
	assert.Equal(t, s.Offer, info.Escrow.Offer)

	temp, err := svc.GetAccountInfo(s.SellerTemp)
	require.NoError(t, err)
	require.NotNil(t, temp.Token)
	assert.Equal(t, s.Escrow(), temp.Token.Authority)

	mint, err := svc.GetAccountInfo(s.MintX)
	require.NoError(t, err)
	assert.NotNil(t, mint.Mint)

	cancel := s.Cancel()
	s.Env.Sign(cancel, s.Seller)
	res, err = svc.Submit(ctx, cancel)
	require.NoError(t, err)
	require.True(t, res.Applied, res.Message)

	list, err = svc.ListEscrows()
	require.NoError(t, err)
	assert.Empty(t, list)
	_, err = svc.GetOffer(s.Escrow())
	assert.ErrorIs(t, err, service.ErrOfferNotFound)
}

func TestQueries_AccountNotFound(t *testing.T) {
	svc := newService(t, newStore(t), nil)
	_, err := svc.GetAccountInfo(jtx.NewAccount("ghost").Address)
	assert.ErrorIs(t, err, service.ErrAccountNotFound)
}

func TestGetServerInfo(t *testing.T) {
	alice := jtx.NewAccount("alice")
	svc := newService(t, newStore(t), func(c *service.Config) {
		c.Genesis = []service.GenesisAccount{{Address: alice.Address, Lamports: genesisLamports}}
	})
	startService(t, svc)

	info, err := svc.GetServerInfo()
	require.NoError(t, err)
	assert.Equal(t, 1, info.Accounts)
	assert.False(t, info.StartedAt.IsZero())
	assert.False(t, info.HistoryEnabled)
	assert.Equal(t, svc.EngineConfig().EscrowProgramID, info.EscrowProgram)
	assert.NotEqual(t, [32]byte{}, info.StateHash)
}
