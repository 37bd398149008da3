// Package instruction implements the binary wire form of escrow
// instructions: a one-byte opcode followed by a fixed-width payload.
package instruction

import (
	"errors"
	"fmt"

	"github.com/LeJamon/goEscrowd/internal/core/tx/sle"
	"github.com/LeJamon/goEscrowd/internal/core/types"
)

// Opcode selects the escrow operation.
type Opcode uint8

const (
	OpOffer  Opcode = 0
	OpAccept Opcode = 1
	OpCancel Opcode = 2
)

func (o Opcode) String() string {
	switch o {
	case OpOffer:
		return "Offer"
	case OpAccept:
		return "Accept"
	case OpCancel:
		return "Cancel"
	default:
		return fmt.Sprintf("Opcode(%d)", uint8(o))
	}
}

const (
	// OfferLength is the full encoded length of an Offer instruction.
	OfferLength = 1 + sle.OfferDescriptorSize + types.TagLength
	// TagOnlyLength is the full encoded length of Accept and Cancel.
	TagOnlyLength = 1 + types.TagLength
)

var (
	ErrEmptyInstruction   = errors.New("empty instruction")
	ErrInvalidInstruction = errors.New("invalid instruction")
	ErrShortInstruction   = errors.New("instruction too short")
	ErrTrailingBytes      = errors.New("trailing bytes after instruction")
)

// Instruction is a decoded escrow instruction. Offer is only meaningful
// for OpOffer.
type Instruction struct {
	Op    Opcode
	Offer sle.OfferDescriptor
	Tag   types.Tag
}

// NewOffer builds an Offer instruction.
func NewOffer(offer sle.OfferDescriptor, tag types.Tag) Instruction {
	return Instruction{Op: OpOffer, Offer: offer, Tag: tag}
}

// NewAccept builds an Accept instruction.
func NewAccept(tag types.Tag) Instruction {
	return Instruction{Op: OpAccept, Tag: tag}
}

// NewCancel builds a Cancel instruction.
func NewCancel(tag types.Tag) Instruction {
	return Instruction{Op: OpCancel, Tag: tag}
}

// Encode returns the wire form. Unknown opcodes encode as a bare opcode byte.
func (i Instruction) Encode() []byte {
	switch i.Op {
	case OpOffer:
		buf := make([]byte, 0, OfferLength)
		buf = append(buf, byte(OpOffer))
		buf = append(buf, i.Offer.Encode()...)
		return append(buf, i.Tag[:]...)
	case OpAccept, OpCancel:
		buf := make([]byte, 0, TagOnlyLength)
		buf = append(buf, byte(i.Op))
		return append(buf, i.Tag[:]...)
	default:
		return []byte{byte(i.Op)}
	}
}

// Decode parses one instruction. The input must contain exactly one.
func Decode(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return Instruction{}, ErrEmptyInstruction
	}

	op := Opcode(data[0])
	var want int
	switch op {
	case OpOffer:
		want = OfferLength
	case OpAccept, OpCancel:
		want = TagOnlyLength
	default:
		return Instruction{}, fmt.Errorf("%w: opcode %d", ErrInvalidInstruction, data[0])
	}

	if len(data) < want {
		return Instruction{}, fmt.Errorf("%w: %s needs %d bytes, have %d", ErrShortInstruction, op, want, len(data))
	}
	if len(data) > want {
		return Instruction{}, fmt.Errorf("%w: %d extra", ErrTrailingBytes, len(data)-want)
	}

	inst := Instruction{Op: op}
	rest := data[1:]
	if op == OpOffer {
		offer, err := sle.DecodeOfferDescriptor(rest)
		if err != nil {
			return Instruction{}, fmt.Errorf("%w: %v", ErrShortInstruction, err)
		}
		inst.Offer = offer
		rest = rest[sle.OfferDescriptorSize:]
	}
	copy(inst.Tag[:], rest)
	return inst, nil
}
