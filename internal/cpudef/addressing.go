package cpudef

// AddrMode defines an addressing mode of an opcode.
type AddrMode uint8

// addressing modes.
const (
	UnknownAddressing AddrMode = iota
	ImpliedAddressing
	AccumulatorAddressing
	ImmediateAddressing
	ImmediateLongAAddressing  // width follows the M flag
	ImmediateLongXYAddressing // width follows the X flag
	DPAddressing
	DPIndexXAddressing
	DPIndexYAddressing
	DPIndexXIndAddressing // (dp,x)
	DPIndIndexYAddressing // (dp),y
	DPIndAddressing       // (dp)
	DPIndLongAddressing   // [dp]
	DPIndIndexYLongAddressing
	AbsAddressing
	AbsIndexXAddressing
	AbsIndexYAddressing
	AbsIndAddressing      // (abs)
	AbsIndLongAddressing  // [abs]
	AbsIndexXIndAddressing // (abs,x)
	AbsLongAddressing
	AbsIndexXLongAddressing
	StackRelAddressing         // sr,s
	StackRelIndIndexYAddressing // (sr,s),y
	PCRelAddressing
	PCRelLongAddressing
	BlockMoveAddressing
	StackIntAddressing      // BRK/COP/WDM signature byte
	StackPCRelLongAddressing // PER
	StackAbsAddressing      // PEA
	StackDPIndAddressing    // PEI
	DPPCRelAddressing       // BBR/BBS
)

// modeCodes maps the short codes used in the opcode tables to addressing modes.
var modeCodes = map[string]AddrMode{
	"imp": ImpliedAddressing,
	"acc": AccumulatorAddressing,
	"imm": ImmediateAddressing,
	"ima": ImmediateLongAAddressing,
	"imx": ImmediateLongXYAddressing,
	"dp":  DPAddressing,
	"dpx": DPIndexXAddressing,
	"dpy": DPIndexYAddressing,
	"dxi": DPIndexXIndAddressing,
	"diy": DPIndIndexYAddressing,
	"di":  DPIndAddressing,
	"dil": DPIndLongAddressing,
	"dly": DPIndIndexYLongAddressing,
	"abs": AbsAddressing,
	"abx": AbsIndexXAddressing,
	"aby": AbsIndexYAddressing,
	"ai":  AbsIndAddressing,
	"ail": AbsIndLongAddressing,
	"axi": AbsIndexXIndAddressing,
	"al":  AbsLongAddressing,
	"alx": AbsIndexXLongAddressing,
	"sr":  StackRelAddressing,
	"sry": StackRelIndIndexYAddressing,
	"rel": PCRelAddressing,
	"rll": PCRelLongAddressing,
	"bm":  BlockMoveAddressing,
	"si":  StackIntAddressing,
	"per": StackPCRelLongAddressing,
	"pea": StackAbsAddressing,
	"pei": StackDPIndAddressing,
	"dpr": DPPCRelAddressing,
}

// baseLength returns the instruction length for a mode, not including the extra
// byte that 16-bit immediates take.
func (m AddrMode) baseLength() int {
	switch m {
	case ImpliedAddressing, AccumulatorAddressing:
		return 1

	case ImmediateAddressing, ImmediateLongAAddressing, ImmediateLongXYAddressing,
		DPAddressing, DPIndexXAddressing, DPIndexYAddressing,
		DPIndexXIndAddressing, DPIndIndexYAddressing, DPIndAddressing,
		DPIndLongAddressing, DPIndIndexYLongAddressing,
		StackRelAddressing, StackRelIndIndexYAddressing,
		PCRelAddressing, StackIntAddressing, StackDPIndAddressing:
		return 2

	case AbsAddressing, AbsIndexXAddressing, AbsIndexYAddressing,
		AbsIndAddressing, AbsIndLongAddressing, AbsIndexXIndAddressing,
		PCRelLongAddressing, BlockMoveAddressing, StackPCRelLongAddressing,
		StackAbsAddressing, DPPCRelAddressing:
		return 3

	case AbsLongAddressing, AbsIndexXLongAddressing:
		return 4

	default:
		return 1
	}
}

// IsDirectPage returns whether the mode takes a single direct page operand byte.
func (m AddrMode) IsDirectPage() bool {
	switch m {
	case DPAddressing, DPIndexXAddressing, DPIndexYAddressing,
		DPIndexXIndAddressing, DPIndIndexYAddressing, DPIndAddressing,
		DPIndLongAddressing, DPIndIndexYLongAddressing, StackDPIndAddressing:
		return true
	default:
		return false
	}
}

// IsImmediate returns whether the operand is an immediate value.
func (m AddrMode) IsImmediate() bool {
	return m == ImmediateAddressing || m == ImmediateLongAAddressing || m == ImmediateLongXYAddressing
}

// IsPCRelative returns whether the operand is a relative branch target.
func (m AddrMode) IsPCRelative() bool {
	switch m {
	case PCRelAddressing, PCRelLongAddressing, StackPCRelLongAddressing, DPPCRelAddressing:
		return true
	default:
		return false
	}
}
