package crypto

import "crypto/sha256"

// Sha256 returns the sha256 digest of the concatenated messages.
func Sha256(msgs ...[]byte) [32]byte {
	h := sha256.New()
	for _, m := range msgs {
		h.Write(m)
	}
	var result [32]byte
	copy(result[:], h.Sum(nil))
	return result
}
