package generator

import (
	"context"
	"fmt"

	"github.com/retroenv/asmgen/internal/cpudef"
	"github.com/retroenv/asmgen/internal/symbols"
)

const progressSteps = 10

// Generate walks the project once and writes the source using the hooks of
// the generator. Cancellation of the context is checked in 10 coarse steps,
// at the same points the progress is reported.
func Generate(ctx context.Context, gen Generator, progress ProgressFunc) error {
	b := gen.Base()
	p := b.Project
	fileLen := len(p.FileData)

	if err := ctx.Err(); err != nil {
		return err
	}

	b.outputIdentComment()
	gen.OutputAsmConfig()
	b.outputEquates(gen)

	changes := p.AddrMap.Changes()
	nextChange := 0
	step := max(fileLen/progressSteps, 1)
	nextProgress := step
	lastWasData := false

	offset := 0
	for offset < fileLen {
		if offset >= nextProgress {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := b.Writer.Err(); err != nil {
				return err
			}
			if progress != nil {
				progress(offset * 100 / fileLen)
			}
			nextProgress += step
		}

		if nextChange < len(changes) && changes[nextChange].Offset < offset {
			return fmt.Errorf("%w: address region change at +%06x is inside of an item",
				ErrInternal, changes[nextChange].Offset)
		}

		attr := &p.Attribs[offset]
		isCode := attr.IsInstructionStart()
		if isCode && lastWasData {
			b.OutputBlankLine()
		}

		for _, line := range p.LongComments[offset] {
			b.OutputFullLineComment(line)
		}

		started := false
		for nextChange < len(changes) && changes[nextChange].IsStart && changes[nextChange].Offset == offset {
			gen.OutputArDirective(changes[nextChange])
			nextChange++
			started = true
		}
		if started {
			gen.FlushArDirectives()
		}

		if table, ok := b.LvLookup.TableAt(offset); ok && (len(table.Variables) > 0 || table.ClearPrevious) {
			gen.OutputLocalVariableTable(offset, table.Variables, table.ClearPrevious)
		}

		var length int
		switch {
		case isCode:
			b.updateRegWidths(gen, offset, attr.StatusFlags)
			length = p.ItemLength(offset)
			b.generateInstruction(gen, offset, length)
			if p.OpDef(offset).DoesNotContinue() {
				b.OutputBlankLine()
			}
			lastWasData = false

		case attr.IsDataStart():
			if err := gen.OutputDataOp(offset); err != nil {
				return fmt.Errorf("writing data at +%06x: %w", offset, err)
			}
			length = attr.Length
			lastWasData = !attr.IsInlineData()

		default:
			return fmt.Errorf("%w: offset +%06x is neither an instruction nor data", ErrInternal, offset)
		}
		if length <= 0 {
			return fmt.Errorf("%w: item at +%06x has length %d", ErrInternal, offset, length)
		}

		last := offset + length - 1
		for nextChange < len(changes) && !changes[nextChange].IsStart && changes[nextChange].Offset <= last {
			if changes[nextChange].Offset != last {
				return fmt.Errorf("%w: address region ending at +%06x splits the item at +%06x",
					ErrInternal, changes[nextChange].Offset, offset)
			}
			gen.OutputArDirective(changes[nextChange])
			nextChange++
		}

		offset += length
	}

	if offset != fileLen {
		return fmt.Errorf("%w: generation ended at +%06x instead of +%06x", ErrInternal, offset, fileLen)
	}
	if nextChange != len(changes) {
		return fmt.Errorf("%w: %d address region changes were not processed", ErrInternal, len(changes)-nextChange)
	}
	if err := gen.Finish(); err != nil {
		return err
	}
	if err := b.Writer.Err(); err != nil {
		return err
	}
	if progress != nil {
		progress(100)
	}
	return nil
}

func (b *Base) outputIdentComment() {
	if !b.Settings.IdentComment {
		return
	}
	version := b.Settings.ToolVersion
	if version == "" {
		version = "dev"
	}
	b.OutputFullLineComment(fmt.Sprintf("Generated by asmgen %s", version))
	target := b.Info.Name
	if !b.Settings.AssemblerVersion.IsZero() {
		target += " v" + b.Settings.AssemblerVersion.String()
	}
	b.OutputFullLineComment("Assembler: " + target)
	b.OutputBlankLine()
}

// outputEquates writes the constants followed by the address equates.
func (b *Base) outputEquates(gen Generator) {
	defs := b.Project.ActiveDefSymbols()
	if len(defs) == 0 {
		return
	}

	var previous *symbols.DefSymbol
	for _, def := range defs {
		if previous != nil && previous.IsConstant() != def.IsConstant() {
			b.OutputBlankLine()
		}
		gen.OutputEquDirective(def)
		previous = def
	}
	b.OutputBlankLine()
}

// updateRegWidths writes a register width directive if the widths of the
// instruction differ from the widths the assembler assumes.
func (b *Base) updateRegWidths(gen Generator, offset int, flags cpudef.StatusFlags) {
	if !b.Project.CPU.HasEmuFlag() {
		return
	}

	m, x := flags.WidthBits()
	asmM, asmX := b.asmFlags.WidthBits()
	if m == asmM && x == asmX {
		return
	}
	gen.OutputRegWidthDirective(offset, b.asmFlags, flags)
	b.asmFlags = widthFlags(m, x)
}

// trackSepRep updates the register widths the assembler assumes after it
// assembled a SEP or REP instruction, for assemblers that track them.
func (b *Base) trackSepRep(op *cpudef.OpDef, operand int) {
	if !b.Quirks.TracksSepRepNotEmu || !b.Project.CPU.HasEmuFlag() {
		return
	}

	m, x := b.asmFlags.WidthBits()
	switch op.Mnemonic {
	case "REP":
		if operand&0x20 != 0 {
			m = 0
		}
		if operand&0x10 != 0 {
			x = 0
		}
	case "SEP":
		if operand&0x20 != 0 {
			m = 1
		}
		if operand&0x10 != 0 {
			x = 1
		}
	default:
		return
	}
	b.asmFlags = widthFlags(m, x)
}

// widthFlags returns native mode flags for the register width bits.
func widthFlags(m, x int) cpudef.StatusFlags {
	flags := cpudef.StatusFlags{M: cpudef.Clear, X: cpudef.Clear, E: cpudef.Clear}
	if m != 0 {
		flags.M = cpudef.Set
	}
	if x != 0 {
		flags.X = cpudef.Set
	}
	return flags
}
