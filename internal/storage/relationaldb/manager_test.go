package relationaldb_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb"
	"github.com/LeJamon/goEscrowd/internal/storage/relationaldb/mocks"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSet struct {
	repos  *mocks.MockRepositoryManager
	txs    *mocks.MockTransactionRepository
	system *mocks.MockSystemRepository
}

func newMocks(t *testing.T) mockSet {
	ctrl := gomock.NewController(t)
	m := mockSet{
		repos:  mocks.NewMockRepositoryManager(ctrl),
		txs:    mocks.NewMockTransactionRepository(ctrl),
		system: mocks.NewMockSystemRepository(ctrl),
	}
	m.repos.EXPECT().Transaction().Return(m.txs).AnyTimes()
	m.repos.EXPECT().System().Return(m.system).AnyTimes()
	return m
}

func openManager(t *testing.T, m mockSet) *relationaldb.Manager {
	t.Helper()
	m.repos.EXPECT().Open(gomock.Any()).Return(nil)
	m.system.EXPECT().Ping(gomock.Any()).Return(nil)

	mgr := relationaldb.NewManager(m.repos, relationaldb.SQLiteConfig(":memory:"),
		relationaldb.WithHealthCheckInterval(0),
		relationaldb.WithRetry(2, time.Millisecond, time.Millisecond))
	require.NoError(t, mgr.Open(context.Background()))
	require.True(t, mgr.IsConnected())
	return mgr
}

func TestManagerRetriesRetryableErrors(t *testing.T) {
	m := newMocks(t)
	mgr := openManager(t, m)

	rec := &relationaldb.TransactionRecord{Type: "Transfer"}
	busy := relationaldb.NewConnectionError("save_transaction", "lost", errors.New("connection reset"))
	gomock.InOrder(
		m.txs.EXPECT().SaveTransaction(gomock.Any(), rec, gomock.Nil()).Return(busy),
		m.txs.EXPECT().SaveTransaction(gomock.Any(), rec, gomock.Nil()).Return(nil),
	)

	require.NoError(t, mgr.SaveTransaction(context.Background(), rec, nil))
}

func TestManagerDoesNotRetryPermanentErrors(t *testing.T) {
	m := newMocks(t)
	mgr := openManager(t, m)

	dup := relationaldb.NewConstraintError("save_transaction", "transaction already stored", relationaldb.ErrDuplicateEntry)
	m.txs.EXPECT().SaveTransaction(gomock.Any(), gomock.Any(), gomock.Any()).Return(dup).Times(1)

	err := mgr.SaveTransaction(context.Background(), &relationaldb.TransactionRecord{}, []types.Address{{1}})
	assert.ErrorIs(t, err, relationaldb.ErrDuplicateEntry)
}

func TestManagerGivesUpAfterMaxRetries(t *testing.T) {
	m := newMocks(t)
	mgr := openManager(t, m)

	timeout := relationaldb.NewQueryError("get_transaction", "slow", errors.New("i/o timeout"))
	m.txs.EXPECT().GetTransaction(gomock.Any(), gomock.Any()).Return(nil, timeout).Times(3)

	_, err := mgr.GetTransaction(context.Background(), relationaldb.Hash{1})
	require.Error(t, err)
	assert.True(t, relationaldb.IsQueryError(err))
}

func TestManagerClosed(t *testing.T) {
	m := newMocks(t)
	mgr := relationaldb.NewManager(m.repos, relationaldb.SQLiteConfig(":memory:"))

	_, err := mgr.GetTransaction(context.Background(), relationaldb.Hash{})
	assert.ErrorIs(t, err, relationaldb.ErrDatabaseClosed)
	assert.ErrorIs(t, mgr.HealthCheck(context.Background()), relationaldb.ErrDatabaseClosed)
	assert.NoError(t, mgr.Close(context.Background()))
}

func TestManagerOpenFailsWhenPingFails(t *testing.T) {
	m := newMocks(t)
	m.repos.EXPECT().Open(gomock.Any()).Return(nil)
	m.system.EXPECT().Ping(gomock.Any()).Return(errors.New("no route"))
	m.repos.EXPECT().Close(gomock.Any()).Return(nil)

	mgr := relationaldb.NewManager(m.repos, relationaldb.SQLiteConfig(":memory:"))
	require.Error(t, mgr.Open(context.Background()))
	assert.False(t, mgr.IsConnected())
	assert.Error(t, mgr.LastError())
}

func TestManagerCloseClosesRepositories(t *testing.T) {
	m := newMocks(t)
	mgr := openManager(t, m)

	m.repos.EXPECT().Close(gomock.Any()).Return(nil)
	require.NoError(t, mgr.Close(context.Background()))
	assert.False(t, mgr.IsConnected())

	// second close is a no-op
	require.NoError(t, mgr.Close(context.Background()))
}

func TestManagerStopsRetryingWhenCancelled(t *testing.T) {
	m := newMocks(t)
	m.repos.EXPECT().Open(gomock.Any()).Return(nil)
	m.system.EXPECT().Ping(gomock.Any()).Return(nil)
	mgr := relationaldb.NewManager(m.repos, relationaldb.SQLiteConfig(":memory:"),
		relationaldb.WithHealthCheckInterval(0),
		relationaldb.WithRetry(10, time.Hour, time.Hour))
	require.NoError(t, mgr.Open(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	locked := relationaldb.NewQueryError("transaction_count", "busy", errors.New("database is locked"))
	m.txs.EXPECT().GetTransactionCount(gomock.Any()).DoAndReturn(func(context.Context) (int64, error) {
		cancel()
		return 0, locked
	}).Times(1)

	_, err := mgr.GetTransactionCount(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryableClassification(t *testing.T) {
	assert.True(t, relationaldb.IsRetryable(relationaldb.NewConnectionError("open", "down", nil)))
	assert.True(t, relationaldb.IsRetryable(relationaldb.NewQueryError("q", "slow", errors.New("i/o timeout"))))
	assert.False(t, relationaldb.IsRetryable(relationaldb.NewQueryError("q", "bad", errors.New("syntax error"))))
	assert.False(t, relationaldb.IsRetryable(relationaldb.NewSchemaError("open", "old", relationaldb.ErrSchemaTooNew)))
	assert.True(t, relationaldb.IsRetryable(errors.New("connection reset by peer")))
	assert.Equal(t, "constraint", relationaldb.ErrorTypeConstraint.String())
}
