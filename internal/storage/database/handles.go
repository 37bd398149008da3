package database

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"
)

// Handles tracks the open databases of a file-backed Manager by name. The
// backends embed it and supply the open function.
type Handles[T io.Closer] struct {
	mu      sync.Mutex
	open    map[string]T
	backend string
	log     *logrus.Entry
}

// NewHandles returns an empty set for the named backend.
func NewHandles[T io.Closer](backend string) *Handles[T] {
	return &Handles[T]{
		open:    make(map[string]T),
		backend: backend,
		log:     logrus.WithFields(logrus.Fields{"module": "storage", "backend": backend}),
	}
}

// Get returns the handle for name, calling openFn the first time.
func (h *Handles[T]) Get(name string, openFn func() (T, error)) (T, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if v, ok := h.open[name]; ok {
		return v, nil
	}
	v, err := openFn()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("open %s database %s: %w", h.backend, name, err)
	}
	h.open[name] = v
	h.log.WithField("db", name).Debug("database opened")
	return v, nil
}

// Close closes and forgets name.
func (h *Handles[T]) Close(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	v, ok := h.open[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotOpen, name)
	}
	delete(h.open, name)
	return v.Close()
}

// CloseAll closes every open handle and reports all failures.
func (h *Handles[T]) CloseAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	var errs []error
	for name, v := range h.open {
		if err := v.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", name, err))
		}
		delete(h.open, name)
	}
	return errors.Join(errs...)
}
