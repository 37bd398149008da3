package sle

import (
	"encoding/binary"
	"fmt"

	"github.com/LeJamon/goEscrowd/internal/core/ledger/entry"
	"github.com/LeJamon/goEscrowd/internal/core/types"
	crypto "github.com/LeJamon/goEscrowd/internal/crypto/common"
)

const (
	// OfferDescriptorSize is the encoded size of an OfferDescriptor.
	OfferDescriptorSize = 32 + 8 + 32 + 8
	// EscrowRecordSize is the encoded size of an EscrowRecord.
	EscrowRecordSize = 32*3 + OfferDescriptorSize
)

// OfferDescriptor holds the terms of a swap: what the seller locks and what
// the seller wants back. Asset identifiers are mint addresses.
type OfferDescriptor struct {
	AssetOffered  types.Address `json:"asset_offered"`
	QtyOffered    uint64        `json:"qty_offered,string"`
	AssetDemanded types.Address `json:"asset_demanded"`
	QtyDemanded   uint64        `json:"qty_demanded,string"`
}

// Encode writes the 80-byte little-endian layout.
func (o OfferDescriptor) Encode() []byte {
	buf := make([]byte, OfferDescriptorSize)
	o.put(buf)
	return buf
}

func (o OfferDescriptor) put(buf []byte) {
	copy(buf[0:32], o.AssetOffered[:])
	binary.LittleEndian.PutUint64(buf[32:40], o.QtyOffered)
	copy(buf[40:72], o.AssetDemanded[:])
	binary.LittleEndian.PutUint64(buf[72:80], o.QtyDemanded)
}

// DecodeOfferDescriptor reads the first 80 bytes of data.
func DecodeOfferDescriptor(data []byte) (OfferDescriptor, error) {
	var o OfferDescriptor
	if len(data) < OfferDescriptorSize {
		return o, fmt.Errorf("offer descriptor: %w: have %d, need %d", ErrShortBuffer, len(data), OfferDescriptorSize)
	}
	copy(o.AssetOffered[:], data[0:32])
	o.QtyOffered = binary.LittleEndian.Uint64(data[32:40])
	copy(o.AssetDemanded[:], data[40:72])
	o.QtyDemanded = binary.LittleEndian.Uint64(data[72:80])
	return o, nil
}

// Seed is the first derivation seed of the offer's escrow address.
func (o OfferDescriptor) Seed() [32]byte {
	return crypto.Sha256(o.Encode())
}

// EscrowRecord is the data of an escrow account. It names the seller's
// accounts so Accept and Cancel can check the caller supplied the same ones.
type EscrowRecord struct {
	SellerMain    types.Address   `json:"seller"`
	SellerTemp    types.Address   `json:"seller_temp"`
	SellerReceive types.Address   `json:"seller_receive"`
	Offer         OfferDescriptor `json:"offer"`
}

func (r *EscrowRecord) Type() entry.Type {
	return entry.TypeEscrowRecord
}

// Validate rejects a record with a zero seller address or asset. Every
// record Create writes names all five.
func (r *EscrowRecord) Validate() error {
	switch {
	case r.SellerMain.IsZero():
		return fmt.Errorf("%w: seller", ErrIncompleteRecord)
	case r.SellerTemp.IsZero():
		return fmt.Errorf("%w: seller temp", ErrIncompleteRecord)
	case r.SellerReceive.IsZero():
		return fmt.Errorf("%w: seller receive", ErrIncompleteRecord)
	case r.Offer.AssetOffered.IsZero(), r.Offer.AssetDemanded.IsZero():
		return fmt.Errorf("%w: asset", ErrIncompleteRecord)
	}
	return nil
}

// Encode writes the 176-byte layout.
func (r *EscrowRecord) Encode() []byte {
	buf := make([]byte, EscrowRecordSize)
	copy(buf[0:32], r.SellerMain[:])
	copy(buf[32:64], r.SellerTemp[:])
	copy(buf[64:96], r.SellerReceive[:])
	r.Offer.put(buf[96:])
	return buf
}

// DecodeEscrowRecord reads the first 176 bytes of data.
func DecodeEscrowRecord(data []byte) (*EscrowRecord, error) {
	if len(data) < EscrowRecordSize {
		return nil, fmt.Errorf("escrow record: %w: have %d, need %d", ErrShortBuffer, len(data), EscrowRecordSize)
	}
	r := &EscrowRecord{}
	copy(r.SellerMain[:], data[0:32])
	copy(r.SellerTemp[:], data[32:64])
	copy(r.SellerReceive[:], data[64:96])
	offer, err := DecodeOfferDescriptor(data[96:])
	if err != nil {
		return nil, err
	}
	r.Offer = offer
	return r, nil
}
