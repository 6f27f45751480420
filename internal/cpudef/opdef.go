package cpudef

// FlowEffect describes how an instruction changes the flow of execution.
type FlowEffect uint8

// flow effects.
const (
	FlowContinue FlowEffect = iota
	FlowConditionalBranch
	FlowBranch
	FlowJump
	FlowCallSubroutine
	FlowReturn
	FlowHalt
)

// WidthDisambiguation specifies how an operand width has to be forced so that
// an assembler does not pick a shorter encoding.
type WidthDisambiguation uint8

// width disambiguation values.
const (
	WidthNone WidthDisambiguation = iota
	ForceDirect
	ForceAbs
	ForceLong
	ForceLongMaybe // long operand that may be assembled as absolute by single pass assemblers
)

// OpDef defines a single opcode of a CPU.
type OpDef struct {
	Opcode       byte
	Mnemonic     string // upper case base mnemonic, for bit instructions including the bit number
	AddrMode     AddrMode
	Undocumented bool
	Flow         FlowEffect
	BitNumber    int // bit index for RMB/SMB/BBR/BBS, -1 otherwise
}

// BaseMnemonic returns the mnemonic without the bit number of bit instructions.
func (o *OpDef) BaseMnemonic() string {
	if o.BitNumber < 0 {
		return o.Mnemonic
	}
	return o.Mnemonic[:len(o.Mnemonic)-1]
}

// GetLength returns the instruction length in bytes for the given status flags.
func (o *OpDef) GetLength(flags StatusFlags) int {
	length := o.AddrMode.baseLength()
	switch o.AddrMode {
	case ImmediateLongAAddressing:
		if !flags.IsShortM() {
			length++
		}
	case ImmediateLongXYAddressing:
		if !flags.IsShortX() {
			length++
		}
	}
	return length
}

// GetOperand returns the little endian operand value of the instruction at the
// given offset. Missing bytes at the end of the data are treated as zero.
func (o *OpDef) GetOperand(data []byte, offset int, flags StatusFlags) int {
	length := o.GetLength(flags)
	operand := 0
	for i := length - 1; i >= 1; i-- {
		operand <<= 8
		if offset+i < len(data) {
			operand |= int(data[offset+i])
		}
	}
	return operand
}

// DoesNotContinue returns whether execution never falls through to the
// following instruction.
func (o *OpDef) DoesNotContinue() bool {
	switch o.Flow {
	case FlowBranch, FlowJump, FlowReturn, FlowHalt:
		return true
	default:
		return false
	}
}

// IsAbsolutePBR returns whether the 16 bit operand uses the program bank
// instead of the data bank.
func (o *OpDef) IsAbsolutePBR() bool {
	switch o.AddrMode {
	case AbsAddressing:
		return o.Flow == FlowJump || o.Flow == FlowCallSubroutine
	case AbsIndexXIndAddressing:
		return true
	default:
		return false
	}
}

// IsWidthPotentiallyAmbiguous returns whether an assembler could choose a
// different operand width than the one in the binary for this opcode.
func (o *OpDef) IsWidthPotentiallyAmbiguous() bool {
	if o.IsAbsolutePBR() {
		return false
	}
	switch o.AddrMode {
	case AbsAddressing, AbsIndexXAddressing, AbsIndexYAddressing,
		AbsLongAddressing, AbsIndexXLongAddressing:
		return true
	default:
		return false
	}
}

// GetWidthDisambiguation returns the width forcing needed for an instruction of
// the given length whose operand has the given value.
func GetWidthDisambiguation(instrLen, operand int) WidthDisambiguation {
	switch {
	case instrLen == 3 && operand < 0x100:
		return ForceAbs
	case instrLen == 4 && operand < 0x10000:
		return ForceLong
	case instrLen == 4:
		return ForceLongMaybe
	default:
		return WidthNone
	}
}
