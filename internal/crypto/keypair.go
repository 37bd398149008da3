package crypto

import (
	stded25519 "crypto/ed25519"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/LeJamon/goEscrowd/internal/core/types"
	"github.com/LeJamon/goEscrowd/internal/crypto/algorithms/ed25519"
)

// ErrInvalidSecret is returned by ParseSecret for input that is not a
// 32-byte hex ed25519 seed.
var ErrInvalidSecret = errors.New("secret must be 64 hex characters")

// Keypair is a wallet identity: the ed25519 public key doubles as the
// account address. The private seed is erased on Close.
type Keypair struct {
	Address types.Address
	seed    *SecretKey
}

// NewKeypair derives a keypair from arbitrary seed material, the same way
// signers derive theirs from a passphrase.
func NewKeypair(material []byte) *Keypair {
	pub, priv := ed25519.DeriveKeypair(material)
	return &Keypair{
		Address: types.Address(pub),
		seed:    NewSecretKeyWithCopy(priv.Seed()),
	}
}

// RandomKeypair derives a keypair from fresh random seed material.
func RandomKeypair() (*Keypair, error) {
	material, err := RandomSeed()
	if err != nil {
		return nil, err
	}
	defer SecureErase(material)
	return NewKeypair(material), nil
}

// ParseSecret rebuilds a keypair from the hex seed printed by Secret.
func ParseSecret(s string) (*Keypair, error) {
	seed, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil || len(seed) != stded25519.SeedSize {
		return nil, ErrInvalidSecret
	}
	priv := stded25519.NewKeyFromSeed(seed)

	var kp Keypair
	copy(kp.Address[:], priv.Public().(stded25519.PublicKey))
	kp.seed = NewSecretKey(seed)
	return &kp, nil
}

// PrivateKey expands the seed. It returns nil after Close.
func (k *Keypair) PrivateKey() stded25519.PrivateKey {
	seed := k.seed.Data()
	if seed == nil {
		return nil
	}
	return stded25519.NewKeyFromSeed(seed)
}

// Secret returns the seed as upper-case hex, the form signers accept.
func (k *Keypair) Secret() string {
	return strings.ToUpper(hex.EncodeToString(k.seed.Data()))
}

// Close erases the seed.
func (k *Keypair) Close() {
	k.seed.Close()
}
