package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecureErase(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	SecureErase(data)
	assert.Equal(t, make([]byte, 5), data)

	SecureErase(nil)
	SecureErase([]byte{})
}

func TestSecretKey_OwnsOrCopies(t *testing.T) {
	owned := []byte{1, 2, 3}
	sk := NewSecretKey(owned)
	assert.Equal(t, []byte{1, 2, 3}, sk.Data())
	sk.Close()
	assert.Nil(t, sk.Data())
	assert.Equal(t, []byte{0, 0, 0}, owned, "Close zeroes the caller's slice")

	src := []byte{7, 8, 9}
	cp := NewSecretKeyWithCopy(src)
	cp.Close()
	cp.Close()
	assert.Equal(t, []byte{7, 8, 9}, src)
}

func TestSecretKey_Nil(t *testing.T) {
	var sk *SecretKey
	assert.Nil(t, sk.Data())
	sk.Close()
}
