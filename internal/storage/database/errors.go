package database

import "errors"

var (
	// ErrClosed is returned by a database after it, or its manager, closed
	ErrClosed = errors.New("database is closed")

	// ErrKeyNotFound is returned by Get for a missing key
	ErrKeyNotFound = errors.New("key not found")

	// ErrNotOpen is returned by CloseDB for a name the manager never opened
	ErrNotOpen = errors.New("database not open")

	// ErrUnknownBackend is returned for an unsupported backend name
	ErrUnknownBackend = errors.New("unknown database backend")
)
