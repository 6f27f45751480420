// Package cpudef contains the opcode definitions of the 6502 family CPUs that
// source can be generated for.
package cpudef

import (
	"fmt"
	"strings"
)

// Type defines a CPU of the 6502 family.
type Type uint8

// supported CPU types.
const (
	Unknown Type = iota
	CPU6502
	CPU6502Undoc // NMOS 6502 including undocumented opcodes
	CPU65C02
	CPUW65C02
	CPU65802
	CPU65816
)

var typeNames = map[Type]string{
	CPU6502:      "6502",
	CPU6502Undoc: "6502u",
	CPU65C02:     "65c02",
	CPUW65C02:    "w65c02",
	CPU65802:     "65802",
	CPU65816:     "65816",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint8(t))
}

// ParseType parses a CPU type name.
func ParseType(name string) (Type, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for typ, typName := range typeNames {
		if typName == name {
			return typ, nil
		}
	}
	return Unknown, fmt.Errorf("unsupported cpu '%s'", name)
}

// Def is the definition of a CPU with its opcode table.
type Def struct {
	Type                Type
	IncludeUndocumented bool
	TwoByteBrk          bool

	ops       [256]OpDef
	mnemonics map[string]struct{}
}

// New returns the definition of the given CPU type. If twoByteBrk is set, BRK
// is treated as a two byte instruction with a signature byte on CPUs where it
// is documented as one byte.
func New(typ Type, twoByteBrk bool) (*Def, error) {
	var table *[256]string
	switch typ {
	case CPU6502, CPU6502Undoc:
		table = &nmos6502Table
	case CPU65C02, CPUW65C02:
		table = &cmos65C02Table
	case CPU65802, CPU65816:
		table = &w65816Table
	default:
		return nil, fmt.Errorf("unsupported cpu type %d", typ)
	}

	def := &Def{
		Type:                typ,
		IncludeUndocumented: typ == CPU6502Undoc,
		TwoByteBrk:          twoByteBrk,
		mnemonics:           map[string]struct{}{},
	}

	for i, entry := range table {
		op, err := parseEntry(byte(i), entry)
		if err != nil {
			return nil, err
		}
		def.ops[i] = op
	}

	if typ == CPUW65C02 {
		def.addWDCExtensions()
	}
	if twoByteBrk && def.ops[0].AddrMode == ImpliedAddressing {
		def.ops[0].AddrMode = StackIntAddressing
	}

	for i := range def.ops {
		op := &def.ops[i]
		if op.Undocumented && !def.IncludeUndocumented {
			continue
		}
		def.mnemonics[strings.ToLower(op.BaseMnemonic())] = struct{}{}
	}
	return def, nil
}

// GetOpDef returns the opcode definition for the given opcode byte.
func (d *Def) GetOpDef(opcode byte) *OpDef {
	return &d.ops[opcode]
}

// HasEmuFlag returns whether the CPU has an emulation mode and switchable
// register widths.
func (d *Def) HasEmuFlag() bool {
	return d.Type == CPU65802 || d.Type == CPU65816
}

// HasLongAddressing returns whether the CPU supports 24 bit addresses.
func (d *Def) HasLongAddressing() bool {
	return d.Type == CPU65816
}

// IsMnemonic returns whether the given name matches an opcode mnemonic of
// this CPU, ignoring the case.
func (d *Def) IsMnemonic(name string) bool {
	_, ok := d.mnemonics[strings.ToLower(name)]
	return ok
}

// addWDCExtensions adds the Rockwell bit instructions and WAI/STP.
func (d *Def) addWDCExtensions() {
	for bit := range 8 {
		rmb := byte(bit<<4 | 0x07)
		smb := byte((bit+8)<<4 | 0x07)
		bbr := byte(bit<<4 | 0x0f)
		bbs := byte((bit+8)<<4 | 0x0f)

		d.ops[rmb] = OpDef{Opcode: rmb, Mnemonic: fmt.Sprintf("RMB%d", bit), AddrMode: DPAddressing, BitNumber: bit}
		d.ops[smb] = OpDef{Opcode: smb, Mnemonic: fmt.Sprintf("SMB%d", bit), AddrMode: DPAddressing, BitNumber: bit}
		d.ops[bbr] = OpDef{Opcode: bbr, Mnemonic: fmt.Sprintf("BBR%d", bit), AddrMode: DPPCRelAddressing,
			Flow: FlowConditionalBranch, BitNumber: bit}
		d.ops[bbs] = OpDef{Opcode: bbs, Mnemonic: fmt.Sprintf("BBS%d", bit), AddrMode: DPPCRelAddressing,
			Flow: FlowConditionalBranch, BitNumber: bit}
	}
	d.ops[0xcb] = OpDef{Opcode: 0xcb, Mnemonic: "WAI", AddrMode: ImpliedAddressing, BitNumber: -1}
	d.ops[0xdb] = OpDef{Opcode: 0xdb, Mnemonic: "STP", AddrMode: ImpliedAddressing, Flow: FlowHalt, BitNumber: -1}
}

func parseEntry(opcode byte, entry string) (OpDef, error) {
	undocumented := strings.HasPrefix(entry, "*")
	entry = strings.TrimPrefix(entry, "*")

	mnemonic, modeCode, ok := strings.Cut(entry, " ")
	if !ok {
		return OpDef{}, fmt.Errorf("invalid opcode table entry $%02x: '%s'", opcode, entry)
	}
	mode, ok := modeCodes[modeCode]
	if !ok {
		return OpDef{}, fmt.Errorf("invalid addressing mode code '%s' for opcode $%02x", modeCode, opcode)
	}

	return OpDef{
		Opcode:       opcode,
		Mnemonic:     mnemonic,
		AddrMode:     mode,
		Undocumented: undocumented,
		Flow:         flowEffects[mnemonic],
		BitNumber:    -1,
	}, nil
}
