package testing

import (
	"testing"

	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/stretchr/testify/require"
)

// RequireTxSuccess asserts that a transaction result indicates success.
func RequireTxSuccess(t *testing.T, result TxResult) {
	t.Helper()
	require.True(t, result.Success,
		"Expected transaction success, got %s: %s", result.Code, result.Message)
	require.Equal(t, "tesSUCCESS", result.Code,
		"Expected tesSUCCESS, got %s: %s", result.Code, result.Message)
}

// RequireTxFail asserts that a transaction result indicates failure with a specific code.
func RequireTxFail(t *testing.T, result TxResult, expectedCode string) {
	t.Helper()
	require.False(t, result.Success,
		"Expected transaction failure with code %s, but transaction succeeded", expectedCode)
	require.Equal(t, expectedCode, result.Code,
		"Expected failure code %s, got %s: %s", expectedCode, result.Code, result.Message)
}

// RequireTokenBalance asserts the token balance of a token account.
func RequireTokenBalance(t *testing.T, env *TestEnv, account types.Address, expected uint64) {
	t.Helper()
	actual := env.TokenBalance(account)
	require.Equal(t, expected, actual,
		"Token account %s balance mismatch: expected %d, got %d", account, expected, actual)
}

// RequireLamports asserts the lamport balance of an account.
func RequireLamports(t *testing.T, env *TestEnv, account types.Address, expected uint64) {
	t.Helper()
	actual := env.Lamports(account)
	require.Equal(t, expected, actual,
		"Account %s lamports mismatch: expected %d, got %d", account, expected, actual)
}

// RequireAccountExists asserts that an account exists in the store.
func RequireAccountExists(t *testing.T, env *TestEnv, account types.Address) {
	t.Helper()
	require.True(t, env.Exists(account),
		"Expected account %s to exist, but it does not", account)
}

// RequireAccountNotExists asserts that an account does not exist in the store.
func RequireAccountNotExists(t *testing.T, env *TestEnv, account types.Address) {
	t.Helper()
	require.False(t, env.Exists(account),
		"Expected account %s to not exist, but it does", account)
}

// RequireUnchanged runs fn and asserts the store is byte-identical afterwards.
func RequireUnchanged(t *testing.T, env *TestEnv, fn func()) {
	t.Helper()
	before := env.Snapshot()
	fn()
	require.Equal(t, before, env.Snapshot(), "store changed")
}
