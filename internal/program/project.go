// Package program contains the read-only model of an analyzed binary that
// source is generated from.
package program

import (
	"fmt"
	"strings"

	"github.com/retroenv/asmgen/internal/addrmap"
	"github.com/retroenv/asmgen/internal/cpudef"
	"github.com/retroenv/asmgen/internal/symbols"
)

// XrefType defines where a cross reference comes from.
type XrefType uint8

// cross reference types.
const (
	XrefInstruction XrefType = iota
	XrefData
)

// Xref is a reference from the operand at Offset to a file offset.
type Xref struct {
	Offset   int
	IsByName bool // the operand names the label instead of a numeric value
	Type     XrefType
}

// Properties contains project wide settings.
type Properties struct {
	Name       string // base name of the project, used for output file names
	EntryFlags cpudef.StatusFlags
	TwoByteBrk bool
}

// Project is an analyzed binary. It is built once by the Builder and must not
// be modified afterwards.
type Project struct {
	FileData []byte
	CPU      *cpudef.Def
	Attribs  []Anattrib
	Symbols  *symbols.Table
	AddrMap  *addrmap.Map

	LvTables     map[int]*LocalVariableTable
	Comments     map[int]string
	LongComments map[int][]string
	Xrefs        map[int][]Xref // keyed by destination offset

	Properties Properties
}

// ActiveDefSymbols returns the equates referenced by the project.
func (p *Project) ActiveDefSymbols() []*symbols.DefSymbol {
	return p.Symbols.UsedDefs()
}

// GetAnattrib returns the attributes of an offset.
func (p *Project) GetAnattrib(offset int) *Anattrib {
	return &p.Attribs[offset]
}

// OpDef returns the opcode definition of the instruction at the offset.
func (p *Project) OpDef(offset int) *cpudef.OpDef {
	return p.CPU.GetOpDef(p.FileData[offset])
}

// HexCodeComment returns the bytes of an item as hex string.
func (p *Project) HexCodeComment(offset, length int) string {
	var sb strings.Builder
	for i := range length {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", p.FileData[offset+i])
	}
	return sb.String()
}

// validate checks the invariants of the analyzed model.
func (p *Project) validate() error {
	if len(p.Attribs) != len(p.FileData) {
		return fmt.Errorf("attribute count %d does not match file length %d", len(p.Attribs), len(p.FileData))
	}
	if err := p.AddrMap.Validate(); err != nil {
		return fmt.Errorf("validating address map: %w", err)
	}

	for offset := 0; offset < len(p.FileData); {
		attr := &p.Attribs[offset]
		if !attr.IsStart() || attr.Length <= 0 {
			return fmt.Errorf("offset +%06x is not the start of an item", offset)
		}
		if desc := attr.DataDescriptor; attr.IsDataStart() {
			if desc == nil {
				return fmt.Errorf("data at +%06x has no format", offset)
			}
			if desc.Length != attr.Length {
				return fmt.Errorf("format length %d at +%06x does not match item length %d",
					desc.Length, offset, attr.Length)
			}
			if err := desc.Validate(); err != nil {
				return fmt.Errorf("format at +%06x: %w", offset, err)
			}
		}
		if offset+attr.Length > len(p.FileData) {
			return fmt.Errorf("item at +%06x exceeds the file", offset)
		}
		if desc := attr.DataDescriptor; attr.IsDataStart() {
			if err := desc.ValidateData(p.FileData[offset : offset+attr.Length]); err != nil {
				return fmt.Errorf("format at +%06x: %w", offset, err)
			}
		}
		offset += p.ItemLength(offset)
	}

	for dst, refs := range p.Xrefs {
		if p.Attribs[dst].Symbol == nil {
			return fmt.Errorf("cross reference destination +%06x has no symbol", dst)
		}
		for _, ref := range refs {
			if ref.Offset < 0 || ref.Offset >= len(p.FileData) {
				return fmt.Errorf("cross reference source +%06x outside of file", ref.Offset)
			}
		}
	}
	return nil
}

// ItemLength returns the number of bytes until the next item start, which is
// shorter than the item length for instructions with embedded instructions.
func (p *Project) ItemLength(offset int) int {
	length := p.Attribs[offset].Length
	for i := 1; i < length && offset+i < len(p.Attribs); i++ {
		if p.Attribs[offset+i].IsInstructionStart() {
			return i
		}
	}
	return length
}
