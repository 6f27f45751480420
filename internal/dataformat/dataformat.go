// Package dataformat describes how bytes of data or instruction operands are
// interpreted when generating source.
package dataformat

import (
	"fmt"

	"github.com/retroenv/asmgen/internal/charenc"
	"github.com/retroenv/asmgen/internal/symbols"
)

// Type is the interpretation of a data item.
type Type uint8

// data types.
const (
	TypeUnknown Type = iota
	NumericLE
	NumericBE
	Fill
	Dense
	Junk
	StringGeneric
	StringReverse
	StringNullTerm
	StringL8
	StringL16
	StringDci
	BinaryInclude
)

// SubType refines a Type.
type SubType uint8

// data sub types.
const (
	SubTypeNone SubType = iota
	Hex
	Decimal
	Binary
	Ascii   // character literal
	Symbol  // symbolic reference through the descriptor's SymbolRef
	Address // numeric value that is shown as address operand

	// alignment of junk data, the value is the power of two
	Align2
	Align4
	Align8
	Align16
	Align32
	Align64
	Align128
	Align256
	Align512
	Align1024
	Align2048
	Align4096
	Align8192
	Align16384
	Align32768
	Align65536
)

var typeNames = map[Type]string{
	NumericLE:      "numeric-le",
	NumericBE:      "numeric-be",
	Fill:           "fill",
	Dense:          "dense",
	Junk:           "junk",
	StringGeneric:  "string",
	StringReverse:  "string-reverse",
	StringNullTerm: "string-null",
	StringL8:       "string-l8",
	StringL16:      "string-l16",
	StringDci:      "string-dci",
	BinaryInclude:  "binary-include",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// Descriptor describes the formatting of a data item or an instruction
// operand.
type Descriptor struct {
	Length    int
	Type      Type
	SubType   SubType
	SymbolRef *symbols.WeakRef
	Encoding  charenc.Encoding // for strings and character operands
	Filename  string           // for binary includes
}

// NewNumeric returns a numeric descriptor.
func NewNumeric(length int, bigEndian bool, subType SubType) *Descriptor {
	typ := NumericLE
	if bigEndian {
		typ = NumericBE
	}
	return &Descriptor{
		Length:  length,
		Type:    typ,
		SubType: subType,
	}
}

// NewSymbolRef returns a little endian numeric descriptor that references a
// symbol.
func NewSymbolRef(length int, ref symbols.WeakRef) *Descriptor {
	return &Descriptor{
		Length:    length,
		Type:      NumericLE,
		SubType:   Symbol,
		SymbolRef: &ref,
	}
}

// NewString returns a string descriptor.
func NewString(length int, typ Type, enc charenc.Encoding) *Descriptor {
	return &Descriptor{
		Length:   length,
		Type:     typ,
		Encoding: enc,
	}
}

// NewJunk returns a descriptor for unused data, optionally aligning the
// following data to a power of two.
func NewJunk(length int, align SubType) *Descriptor {
	return &Descriptor{
		Length:  length,
		Type:    Junk,
		SubType: align,
	}
}

// NewBinaryInclude returns a descriptor for data that is stored in a separate
// file.
func NewBinaryInclude(length int, filename string) *Descriptor {
	return &Descriptor{
		Length:   length,
		Type:     BinaryInclude,
		Filename: filename,
	}
}

// IsString returns whether the descriptor describes string data.
func (d *Descriptor) IsString() bool {
	switch d.Type {
	case StringGeneric, StringReverse, StringNullTerm, StringL8, StringL16, StringDci:
		return true
	default:
		return false
	}
}

// IsNumeric returns whether the descriptor describes numeric data.
func (d *Descriptor) IsNumeric() bool {
	return d.Type == NumericLE || d.Type == NumericBE
}

// HasSymbol returns whether the descriptor references a symbol. It is false
// for a nil descriptor.
func (d *Descriptor) HasSymbol() bool {
	return d != nil && d.SubType == Symbol && d.SymbolRef != nil
}

// Alignment returns the alignment of junk data in bytes, or 0 if the
// descriptor does not specify one.
func (d *Descriptor) Alignment() int {
	if d.Type != Junk || d.SubType < Align2 || d.SubType > Align65536 {
		return 0
	}
	return 1 << (int(d.SubType-Align2) + 1)
}

// AlignmentSubType returns the junk sub type for an alignment in bytes.
func AlignmentSubType(alignment int) (SubType, bool) {
	for sub := Align2; sub <= Align65536; sub++ {
		if 1<<(int(sub-Align2)+1) == alignment {
			return sub, true
		}
	}
	return SubTypeNone, false
}

// Validate checks that the descriptor is consistent.
func (d *Descriptor) Validate() error {
	if d.Length <= 0 {
		return fmt.Errorf("invalid %s length %d", d.Type, d.Length)
	}

	switch d.Type {
	case NumericLE, NumericBE:
		if d.Length > 4 {
			return fmt.Errorf("numeric length %d exceeds 4 bytes", d.Length)
		}
		if d.SubType == Symbol && d.SymbolRef == nil {
			return fmt.Errorf("symbol sub type without symbol reference")
		}
	case StringL16:
		if d.Length < 2 {
			return fmt.Errorf("16 bit length prefixed string too short")
		}
		fallthrough
	case StringGeneric, StringReverse, StringNullTerm, StringL8, StringDci:
		if d.Encoding == charenc.Unknown {
			return fmt.Errorf("%s without character encoding", d.Type)
		}
	case BinaryInclude:
		if d.Filename == "" {
			return fmt.Errorf("binary include without file name")
		}
	case Fill, Dense, Junk:
	default:
		return fmt.Errorf("unsupported data type %d", d.Type)
	}
	return nil
}

// ValidateData checks that the bytes covered by the descriptor can be
// expressed by its type.
func (d *Descriptor) ValidateData(data []byte) error {
	if len(data) != d.Length {
		return fmt.Errorf("%s covers %d bytes instead of %d", d.Type, len(data), d.Length)
	}
	if d.Type != Fill {
		return nil
	}
	for i, v := range data[1:] {
		if v != data[0] {
			return fmt.Errorf("fill value $%02x differs from $%02x at index %d", v, data[0], i+1)
		}
	}
	return nil
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s/%d", d.Type, d.Length)
}
