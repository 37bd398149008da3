// Package testing provides test infrastructure for transaction testing.
//
// TestEnv runs a real engine over an in-memory account store with the
// system, token and escrow programs wired in. Accounts are deterministic
// ed25519 keypairs derived from their names, and Submit signs with the
// fee payer plus any extra signers.
//
//	func TestOffer(t *testing.T) {
//	    env := testing.NewTestEnv(t)
//	    seller := testing.NewAccount("seller")
//	    env.Fund(seller)
//
//	    mint := env.CreateMint(seller, 0)
//	    temp := env.CreateTokenAccount(seller, mint)
//	    env.MintTo(seller, mint, temp, 5)
//
//	    result := env.Submit(offerCreate, seller)
//	    testing.RequireTxSuccess(t, result)
//	}
//
// Snapshot captures every stored entry so tests can assert that a
// rejected transaction left the store byte-identical.
package testing
