package cpudef

// TriState is a processor flag whose value may not be known.
type TriState int8

// tri-state values.
const (
	Indeterminate TriState = iota
	Clear
	Set
)

// StatusFlags holds the register width related processor status flags that
// are known at an instruction.
type StatusFlags struct {
	M TriState // accumulator width, set means 8 bit
	X TriState // index register width, set means 8 bit
	E TriState // emulation mode
}

// ShortFlags returns the status used for 6502 family code: 8 bit registers
// in emulation mode.
func ShortFlags() StatusFlags {
	return StatusFlags{M: Set, X: Set, E: Set}
}

// LongFlags returns native mode flags with 16 bit registers.
func LongFlags() StatusFlags {
	return StatusFlags{M: Clear, X: Clear, E: Clear}
}

// IsEmulationMode returns whether the CPU is known to be in emulation mode.
func (f StatusFlags) IsEmulationMode() bool {
	return f.E == Set
}

// IsShortM returns whether the accumulator is 8 bit wide. An undetermined
// flag is treated as short.
func (f StatusFlags) IsShortM() bool {
	return f.E == Set || f.M != Clear
}

// IsShortX returns whether the index registers are 8 bit wide.
func (f StatusFlags) IsShortX() bool {
	return f.E == Set || f.X != Clear
}

// WidthBits returns 1 for a short and 0 for a long register for M and X.
func (f StatusFlags) WidthBits() (m, x int) {
	if f.IsShortM() {
		m = 1
	}
	if f.IsShortX() {
		x = 1
	}
	return m, x
}
