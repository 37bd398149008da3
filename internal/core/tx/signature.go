package tx

import (
	"bytes"
	stded25519 "crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/LeJamon/goEscrowd/internal/core/types"
	ed25519algo "github.com/LeJamon/goEscrowd/internal/crypto/algorithms/ed25519"
	crypto "github.com/LeJamon/goEscrowd/internal/crypto/common"
)

// Signature verification errors
var (
	ErrMissingSignature = errors.New("transaction is not signed")
	ErrInvalidSignature = errors.New("signature is invalid")
	ErrMalformedSigner  = errors.New("malformed signer entry")
	ErrDuplicateSigner  = errors.New("duplicate signer in transaction")
)

var (
	// prefixSigning precedes the payload covered by signatures: "STX\0"
	prefixSigning = []byte{0x53, 0x54, 0x58, 0x00}
	// prefixTransactionID precedes the payload of the transaction id: "TXN\0"
	prefixTransactionID = []byte{0x54, 0x58, 0x4E, 0x00}
)

// canonicalJSON re-encodes the transaction through a map so keys come out
// sorted. Signers are always dropped.
func canonicalJSON(tx Transaction) ([]byte, error) {
	raw, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	delete(fields, "Signers")
	return json.Marshal(fields)
}

// SigningHash is the digest every signer signs.
func SigningHash(tx Transaction) ([32]byte, error) {
	payload, err := canonicalJSON(tx)
	if err != nil {
		return [32]byte{}, fmt.Errorf("signing payload: %w", err)
	}
	return crypto.Sha512Half(prefixSigning, payload), nil
}

// TransactionHash identifies a signed transaction. It covers the signing
// payload and the decoded signatures ordered by public key, so neither the
// hex case of a signature nor the order of Signers changes it.
func TransactionHash(tx Transaction) ([32]byte, error) {
	payload, err := canonicalJSON(tx)
	if err != nil {
		return [32]byte{}, fmt.Errorf("transaction payload: %w", err)
	}

	signers := append([]Signer(nil), tx.GetCommon().Signers...)
	sort.Slice(signers, func(i, j int) bool {
		return bytes.Compare(signers[i].PublicKey[:], signers[j].PublicKey[:]) < 0
	})

	parts := make([][]byte, 0, 2+2*len(signers))
	parts = append(parts, prefixTransactionID, payload)
	for i, s := range signers {
		sig, err := hex.DecodeString(s.Signature)
		if err != nil {
			return [32]byte{}, fmt.Errorf("%w: entry %d: %v", ErrMalformedSigner, i, err)
		}
		parts = append(parts, s.PublicKey[:], sig)
	}
	return crypto.Sha512Half(parts...), nil
}

// Sign adds (or replaces) the signature of priv's public key.
func Sign(tx Transaction, priv stded25519.PrivateKey) error {
	hash, err := SigningHash(tx)
	if err != nil {
		return err
	}

	var pub types.Address
	copy(pub[:], priv.Public().(stded25519.PublicKey))
	sig := strings.ToUpper(hex.EncodeToString(ed25519algo.Sign(priv, hash[:])))

	common := tx.GetCommon()
	for i := range common.Signers {
		if common.Signers[i].PublicKey == pub {
			common.Signers[i].Signature = sig
			return nil
		}
	}
	common.Signers = append(common.Signers, Signer{PublicKey: pub, Signature: sig})
	return nil
}

// VerifySignatures checks every Signers entry and returns the set of
// identities that signed. With skipVerify the listed keys are trusted as is.
func VerifySignatures(tx Transaction, skipVerify bool) (map[types.Address]struct{}, error) {
	common := tx.GetCommon()
	signed := make(map[types.Address]struct{}, len(common.Signers))

	var hash [32]byte
	if !skipVerify {
		h, err := SigningHash(tx)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	for i, s := range common.Signers {
		if s.PublicKey.IsZero() {
			return nil, fmt.Errorf("%w: entry %d has no public key", ErrMalformedSigner, i)
		}
		if _, dup := signed[s.PublicKey]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSigner, s.PublicKey)
		}

		if !skipVerify {
			if s.Signature == "" {
				return nil, fmt.Errorf("%w: %s", ErrMissingSignature, s.PublicKey)
			}
			sig, err := hex.DecodeString(s.Signature)
			if err != nil {
				return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedSigner, i, err)
			}
			if !ed25519algo.Verify(s.PublicKey, hash[:], sig) {
				return nil, fmt.Errorf("%w: %s", ErrInvalidSignature, s.PublicKey)
			}
		}
		signed[s.PublicKey] = struct{}{}
	}
	return signed, nil
}
