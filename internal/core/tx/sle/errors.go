package sle

import "errors"

var (
	// ErrShortBuffer is returned when a decoder is handed fewer bytes than
	// the layout declares.
	ErrShortBuffer = errors.New("buffer too short")
	// ErrTrailingData is returned when an account's data length field
	// disagrees with the bytes that follow it.
	ErrTrailingData = errors.New("data length mismatch")
	// ErrIncompleteRecord is returned by EscrowRecord.Validate when an
	// address the record must name is zero.
	ErrIncompleteRecord = errors.New("incomplete escrow record")
)
