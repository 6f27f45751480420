package generator

import (
	"github.com/retroenv/asmgen/internal/cpudef"
	"github.com/retroenv/asmgen/internal/formatter"
)

// generateInstruction writes the instruction at the offset. Instructions
// that are cut short by an embedded instruction or can not be expressed by
// the assembler are written as raw bytes.
func (b *Base) generateInstruction(gen Generator, offset, length int) {
	p := b.Project
	attr := &p.Attribs[offset]
	op := p.OpDef(offset)

	if length != attr.Length || !b.isEncodable(op) {
		gen.GenerateShortSequence(offset, length)
		return
	}

	mnemonic, ok := gen.ModifyOpcode(offset, op)
	if !ok {
		gen.GenerateShortSequence(offset, length)
		return
	}
	if mnemonic == "" {
		mnemonic = op.Mnemonic
		if op.BitNumber >= 0 && b.Quirks.BitNumberIsArg {
			mnemonic = op.BaseMnemonic()
		}
	}

	operand, width, ok := b.formatInstructionOperand(offset, op)
	if !ok {
		gen.GenerateShortSequence(offset, length)
		return
	}

	opcode := b.Formatter.FormatMnemonic(mnemonic, width)
	b.OutputLine(b.LabelAt(offset), opcode, operand, b.CommentAt(offset, length))
	b.trackSepRep(op, op.GetOperand(p.FileData, offset, attr.StatusFlags))
}

// isEncodable returns false for instructions that no assembler encodes the
// way they appear in the binary.
func (b *Base) isEncodable(op *cpudef.OpDef) bool {
	// two byte BRK is only supported by assemblers for 65816 code
	if op.Opcode == 0x00 && op.AddrMode == cpudef.StackIntAddressing && !b.Project.CPU.HasEmuFlag() {
		return false
	}
	if !op.Undocumented {
		return true
	}
	return b.Project.CPU.IncludeUndocumented && b.IsCanonicalOpcode(op)
}

type opcodeKey struct {
	mnemonic string
	mode     cpudef.AddrMode
}

// IsCanonicalOpcode returns whether an assembler picks this opcode for its
// mnemonic and addressing mode. Documented opcodes take precedence over
// undocumented duplicates, otherwise the lowest opcode is used.
func (b *Base) IsCanonicalOpcode(op *cpudef.OpDef) bool {
	if b.canonical == nil {
		b.canonical = map[opcodeKey]byte{}
		cpu := b.Project.CPU
		for _, documented := range []bool{true, false} {
			for i := range 256 {
				candidate := cpu.GetOpDef(byte(i))
				if candidate.Undocumented == documented {
					continue
				}
				key := opcodeKey{mnemonic: candidate.Mnemonic, mode: candidate.AddrMode}
				if _, ok := b.canonical[key]; !ok {
					b.canonical[key] = candidate.Opcode
				}
			}
		}
	}
	return b.canonical[opcodeKey{mnemonic: op.Mnemonic, mode: op.AddrMode}] == op.Opcode
}

// formatInstructionOperand returns the operand of an instruction and the
// width that has to be forced. It returns false if the operand can not be
// expressed.
func (b *Base) formatInstructionOperand(offset int, op *cpudef.OpDef) (string, cpudef.WidthDisambiguation, bool) {
	p := b.Project
	f := b.Formatter
	attr := &p.Attribs[offset]
	instrLen := attr.Length
	operand := op.GetOperand(p.FileData, offset, attr.StatusFlags)
	desc := attr.DataDescriptor

	switch mode := op.AddrMode; mode {
	case cpudef.ImpliedAddressing:
		return "", cpudef.WidthNone, true

	case cpudef.AccumulatorAddressing:
		if b.omitAccumulator {
			return "", cpudef.WidthNone, true
		}
		return f.FormatAccumulator(), cpudef.WidthNone, true

	case cpudef.ImmediateAddressing, cpudef.ImmediateLongAAddressing, cpudef.ImmediateLongXYAddressing:
		return "#" + b.FormatOperandValue(offset, desc, operand, instrLen-1, 0), cpudef.WidthNone, true

	case cpudef.StackIntAddressing:
		value := f.FormatHexValue(operand, 2)
		if b.Quirks.StackIntOperandIsImmediate {
			value = "#" + value
		}
		return value, cpudef.WidthNone, true

	case cpudef.BlockMoveAddressing:
		return b.formatBlockMove(operand), cpudef.WidthNone, true

	case cpudef.PCRelAddressing, cpudef.PCRelLongAddressing, cpudef.StackPCRelLongAddressing:
		target, ok := b.formatBranchTarget(offset, operand, op)
		return target, cpudef.WidthNone, ok

	case cpudef.DPPCRelAddressing:
		target, ok := b.formatBranchTarget(offset, operand, op)
		if !ok {
			return "", cpudef.WidthNone, false
		}
		text := f.FormatHexValue(operand&0xff, 2) + "," + target
		if b.Quirks.BitNumberIsArg {
			text = f.FormatDecimalValue(op.BitNumber) + "," + text
		}
		return text, cpudef.WidthNone, true
	}

	if op.AddrMode.IsDirectPage() || op.AddrMode == cpudef.StackRelAddressing ||
		op.AddrMode == cpudef.StackRelIndIndexYAddressing {

		return b.formatDirectOperand(offset, op, operand)
	}
	return b.formatAbsoluteOperand(offset, op, operand)
}

func (b *Base) formatDirectOperand(offset int, op *cpudef.OpDef, operand int) (string, cpudef.WidthDisambiguation, bool) {
	attr := &b.Project.Attribs[offset]
	desc := attr.DataDescriptor
	value := b.FormatOperandValue(offset, desc, operand, 1, 0)

	width := cpudef.WidthNone
	if b.Quirks.SinglePassAssembler && desc.HasSymbol() && !desc.SymbolRef.IsVariable &&
		b.IsForwardReference(offset, desc.SymbolRef.Label) {

		switch op.AddrMode {
		case cpudef.DPAddressing, cpudef.DPIndexXAddressing, cpudef.DPIndexYAddressing:
			width = cpudef.ForceDirect
		}
	}
	value = b.decorateOperand(op.AddrMode, b.Formatter.FormatWidthPrefix(width)+value)
	if op.BitNumber >= 0 && b.Quirks.BitNumberIsArg {
		value = b.Formatter.FormatDecimalValue(op.BitNumber) + "," + value
	}
	return value, width, true
}

func (b *Base) formatAbsoluteOperand(offset int, op *cpudef.OpDef, operand int) (string, cpudef.WidthDisambiguation, bool) {
	p := b.Project
	attr := &p.Attribs[offset]
	desc := attr.DataDescriptor
	instrLen := attr.Length

	var (
		value string
		width cpudef.WidthDisambiguation
	)

	switch {
	case op.IsAbsolutePBR():
		bank := attr.Address & 0xff0000
		if attr.Address < 0 {
			bank = 0
		}
		if b.Quirks.Need24BitsForAbsPBR {
			value = b.FormatOperandValue(offset, desc, bank|operand, 2, formatter.OperandAbsolutePBR)
		} else {
			value = b.FormatOperandValue(offset, desc, operand, 2, 0)
		}
		if bank != 0 && op.AddrMode == cpudef.AbsAddressing {
			width = cpudef.ForceAbs
		}

	default:
		value = b.FormatOperandValue(offset, desc, operand, instrLen-1, 0)
		if op.IsWidthPotentiallyAmbiguous() {
			width = cpudef.GetWidthDisambiguation(instrLen, operand)
		}
		if width == cpudef.ForceLongMaybe {
			width = cpudef.WidthNone
			singlePass := b.Quirks.SinglePassAssembler || b.Quirks.SinglePassNoLabelCorrection
			if singlePass && desc.HasSymbol() && b.IsForwardReference(offset, desc.SymbolRef.Label) {
				width = cpudef.ForceLong
			}
		}
	}

	switch op.AddrMode {
	case cpudef.AbsAddressing, cpudef.AbsIndexXAddressing, cpudef.AbsIndexYAddressing,
		cpudef.AbsLongAddressing, cpudef.AbsIndexXLongAddressing:
		value = b.Formatter.FormatWidthPrefix(width) + value
	}
	return b.decorateOperand(op.AddrMode, value), width, true
}

// formatBranchTarget formats the target address of a relative branch. It
// returns false if the branch wraps around the bank and the assembler can
// not express that.
func (b *Base) formatBranchTarget(offset, operand int, op *cpudef.OpDef) (string, bool) {
	attr := &b.Project.Attribs[offset]
	if attr.OperandAddress < 0 {
		return "", false
	}

	var displacement int
	switch op.AddrMode {
	case cpudef.PCRelAddressing:
		displacement = int(int8(operand))
	case cpudef.DPPCRelAddressing:
		displacement = int(int8(operand >> 8))
	default:
		displacement = int(int16(operand))
	}
	unwrapped := attr.Address&0xffff + attr.Length + displacement
	if (unwrapped < 0 || unwrapped > 0xffff) && b.Quirks.NoPcRelBankWrap {
		return "", false
	}

	desc := attr.DataDescriptor
	if !desc.HasSymbol() {
		desc = nil
	}
	return b.FormatOperandValue(offset, desc, attr.OperandAddress, 2, formatter.OperandPCRelative), true
}

// formatBlockMove formats the bank operands of MVN and MVP. The binary
// contains the destination bank first.
func (b *Base) formatBlockMove(operand int) string {
	f := b.Formatter
	dst := f.FormatHexValue(operand&0xff, 2)
	src := f.FormatHexValue(operand>>8, 2)
	if !b.Quirks.BlockMoveArgsNoHash {
		dst = "#" + dst
		src = "#" + src
	}
	if b.Quirks.BlockMoveArgsReversed {
		return dst + "," + src
	}
	return src + "," + dst
}

// decorateOperand adds the index registers and indirection of the
// addressing mode to an operand value.
func (b *Base) decorateOperand(mode cpudef.AddrMode, value string) string {
	x := b.Formatter.FormatRegister("x")
	y := b.Formatter.FormatRegister("y")
	s := b.Formatter.FormatRegister("s")

	switch mode {
	case cpudef.DPIndexXAddressing, cpudef.AbsIndexXAddressing, cpudef.AbsIndexXLongAddressing:
		return value + "," + x
	case cpudef.DPIndexYAddressing, cpudef.AbsIndexYAddressing:
		return value + "," + y
	case cpudef.DPIndexXIndAddressing, cpudef.AbsIndexXIndAddressing:
		return "(" + value + "," + x + ")"
	case cpudef.DPIndIndexYAddressing:
		return "(" + value + ")," + y
	case cpudef.DPIndAddressing, cpudef.AbsIndAddressing, cpudef.StackDPIndAddressing:
		return "(" + value + ")"
	case cpudef.DPIndLongAddressing, cpudef.AbsIndLongAddressing:
		return "[" + value + "]"
	case cpudef.DPIndIndexYLongAddressing:
		return "[" + value + "]," + y
	case cpudef.StackRelAddressing:
		return value + "," + s
	case cpudef.StackRelIndIndexYAddressing:
		return "(" + value + "," + s + ")," + y
	default:
		return value
	}
}
