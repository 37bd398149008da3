package crypto

import (
	"runtime"
	"sync"
)

// SecureErase overwrites b with zeros in a way the compiler keeps. Copies
// made by the runtime (stack growth, swap) are not reached.
func SecureErase(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}

// SecretKey owns secret bytes and zeroes them on Close. It is safe for
// concurrent use.
type SecretKey struct {
	mu   sync.RWMutex
	data []byte
}

// NewSecretKey takes ownership of data.
func NewSecretKey(data []byte) *SecretKey {
	return &SecretKey{data: data}
}

// NewSecretKeyWithCopy leaves data untouched and owns a copy.
func NewSecretKeyWithCopy(data []byte) *SecretKey {
	return &SecretKey{data: append([]byte(nil), data...)}
}

// Data returns the secret, or nil after Close. The slice is shared; do not
// keep it past Close.
func (sk *SecretKey) Data() []byte {
	if sk == nil {
		return nil
	}
	sk.mu.RLock()
	defer sk.mu.RUnlock()
	return sk.data
}

// Close erases the secret. Repeated calls do nothing.
func (sk *SecretKey) Close() {
	if sk == nil {
		return
	}
	sk.mu.Lock()
	defer sk.mu.Unlock()
	SecureErase(sk.data)
	sk.data = nil
}
