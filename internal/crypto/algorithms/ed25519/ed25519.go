package ed25519

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"strings"

	crypto "github.com/LeJamon/goEscrowd/internal/crypto/common"
	"filippo.io/edwards25519"
)

// Common error definitions
var (
	ErrInvalidPrivateKey = errors.New("invalid private key format")
	ErrInvalidPublicKey  = errors.New("invalid public key format")
	ErrInvalidSignature  = errors.New("invalid signature format")
)

// ED25519SignatureProvider implements digital signature operations for
// 32-byte ed25519 identities. Keys travel as upper-case hex without prefix.
type ED25519SignatureProvider struct{}

func NewED25519Provider() *ED25519SignatureProvider {
	return &ED25519SignatureProvider{}
}

// GenerateKeypair derives a keypair from arbitrary seed material. The private
// half is the 32-byte ed25519 seed, hex encoded.
func (p *ED25519SignatureProvider) GenerateKeypair(seed []byte) (string, string, error) {
	pub, priv := DeriveKeypair(seed)
	public := strings.ToUpper(hex.EncodeToString(pub[:]))
	private := strings.ToUpper(hex.EncodeToString(priv.Seed()))
	return private, public, nil
}

func (p *ED25519SignatureProvider) SignMessage(message []byte, privateKeyHex string) (string, error) {
	privKeyBytes, err := hex.DecodeString(privateKeyHex)
	if err != nil || len(privKeyBytes) != ed25519.SeedSize {
		return "", ErrInvalidPrivateKey
	}

	signature := ed25519.Sign(ed25519.NewKeyFromSeed(privKeyBytes), message)
	return strings.ToUpper(hex.EncodeToString(signature)), nil
}

func (p *ED25519SignatureProvider) VerifySignature(message []byte, publicKeyHex, signatureHex string) bool {
	pubKeyBytes, err := hex.DecodeString(publicKeyHex)
	if err != nil || len(pubKeyBytes) != ed25519.PublicKeySize {
		return false
	}

	sigBytes, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false
	}

	var pub [32]byte
	copy(pub[:], pubKeyBytes)
	return Verify(pub, message, sigBytes)
}

// DeriveKeypair hashes the seed material with SHA512-Half and uses the result
// as the ed25519 private seed.
func DeriveKeypair(seed []byte) ([32]byte, ed25519.PrivateKey) {
	keyMaterial := crypto.Sha512Half(seed)
	priv := ed25519.NewKeyFromSeed(keyMaterial[:])

	var pub [32]byte
	copy(pub[:], priv.Public().(ed25519.PublicKey))
	return pub, priv
}

// Sign signs msg with priv.
func Sign(priv ed25519.PrivateKey, msg []byte) []byte {
	return ed25519.Sign(priv, msg)
}

// Verify reports whether sig is a valid signature of msg by pub.
func Verify(pub [32]byte, msg, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig)
}

// IsOnCurve reports whether b is the encoding of a point on the ed25519
// curve. Addresses for which this is false have no private key.
func IsOnCurve(b [32]byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b[:])
	return err == nil
}
