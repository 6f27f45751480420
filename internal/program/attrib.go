package program

import (
	"github.com/retroenv/asmgen/internal/cpudef"
	"github.com/retroenv/asmgen/internal/dataformat"
	"github.com/retroenv/asmgen/internal/symbols"
)

// AttrType defines the type of a file offset.
type AttrType uint8

// offset types.
const (
	UnknownAttr      AttrType = 0
	InstructionStart AttrType = 1 << iota // first byte of an instruction
	InstructionPart                       // any byte of an instruction
	DataStart                             // first byte of a data item
	DataPart                              // any byte of a data item
	InlineData                            // data that follows a call to a routine that reads it
)

// Anattrib holds the analyzer results for a single file offset.
type Anattrib struct {
	Type   AttrType
	Length int // length of the instruction or data item that starts here

	Address        int // address of the offset, addrmap.NonAddressable if not mapped
	OperandAddress int // resolved operand address, -1 if none
	OperandOffset  int // file offset of the operand address, -1 if outside of the file

	Symbol         *symbols.Symbol        // label at this offset
	DataDescriptor *dataformat.Descriptor // data format or instruction operand format
	StatusFlags    cpudef.StatusFlags
}

// IsType returns whether the offset is of given type.
func (a *Anattrib) IsType(typ AttrType) bool {
	return a.Type&typ != 0
}

// SetType sets the type of the offset.
func (a *Anattrib) SetType(typ AttrType) {
	a.Type |= typ
}

// ClearType unsets the type of the offset.
func (a *Anattrib) ClearType(typ AttrType) {
	a.Type &= ^typ
}

// IsInstructionStart returns whether an instruction starts at the offset.
func (a *Anattrib) IsInstructionStart() bool {
	return a.IsType(InstructionStart)
}

// IsInstruction returns whether the offset is part of an instruction.
func (a *Anattrib) IsInstruction() bool {
	return a.IsType(InstructionPart)
}

// IsDataStart returns whether a data item starts at the offset.
func (a *Anattrib) IsDataStart() bool {
	return a.IsType(DataStart)
}

// IsData returns whether the offset is part of a data item.
func (a *Anattrib) IsData() bool {
	return a.IsType(DataPart)
}

// IsInlineData returns whether the offset is part of inline data.
func (a *Anattrib) IsInlineData() bool {
	return a.IsType(InlineData)
}

// IsStart returns whether an instruction or a data item starts here.
func (a *Anattrib) IsStart() bool {
	return a.IsType(InstructionStart | DataStart)
}
