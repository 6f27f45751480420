package assembler

// Quirks are the deviations of an assembler from the behavior that the
// generator assumes by default.
type Quirks struct {
	// BlockMoveArgsReversed writes MVN/MVP operands in binary order,
	// destination bank first.
	BlockMoveArgsReversed bool
	// BlockMoveArgsNoHash omits the immediate marker on block move banks.
	BlockMoveArgsNoHash bool
	// NoPcRelBankWrap means that branches that wrap around the end of a
	// bank can not be expressed.
	NoPcRelBankWrap bool
	// SinglePassAssembler assumes 16 bit widths for labels that are not
	// defined yet, direct page forward references need an explicit width.
	SinglePassAssembler bool
	// SinglePassNoLabelCorrection means that long operands referencing
	// forward labels are not widened once the label is known.
	SinglePassNoLabelCorrection bool
	// BitNumberIsArg passes the bit number of RMB/SMB/BBR/BBS as first
	// operand instead of as part of the mnemonic.
	BitNumberIsArg bool
	// StackIntOperandIsImmediate writes the BRK/COP signature byte as
	// immediate operand.
	StackIntOperandIsImmediate bool
	// TracksSepRepNotEmu means that the assembler updates the register
	// widths by itself when it assembles SEP and REP.
	TracksSepRepNotEmu bool
	// Need24BitsForAbsPBR requires the program bank in the operand of
	// JMP/JSR with 16 bit operands outside of bank 0.
	Need24BitsForAbsPBR bool
	// VariablesEndScope ends the local label scope at local variable
	// definitions.
	VariablesEndScope bool
	// NoOpcodeMnemonicLabels forbids labels that are named like opcodes.
	NoOpcodeMnemonicLabels bool
}

// Quirks returns the quirks of the assembler in the given version.
func (id ID) Quirks(version Version) Quirks {
	switch id {
	case Tass64:
		return Quirks{
			StackIntOperandIsImmediate: true,
			Need24BitsForAbsPBR:        true,
			NoOpcodeMnemonicLabels:     true,
		}

	case Acme:
		return Quirks{
			BlockMoveArgsNoHash:    true,
			NoPcRelBankWrap:        true,
			NoOpcodeMnemonicLabels: true,
		}

	case Cc65:
		return Quirks{
			BlockMoveArgsReversed: !version.AtLeast(2, 18, 0),
			SinglePassAssembler:   true,
			VariablesEndScope:     true,
		}

	case Merlin32:
		return Quirks{
			BlockMoveArgsReversed:       true,
			BlockMoveArgsNoHash:         true,
			NoPcRelBankWrap:             true,
			SinglePassNoLabelCorrection: true,
			BitNumberIsArg:              true,
			TracksSepRepNotEmu:          true,
		}

	default:
		return Quirks{}
	}
}
