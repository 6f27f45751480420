// Package labels decides which labels can be emitted as assembler local
// labels and renames labels to fit the rules of the target assembler.
package labels

import (
	"strconv"
	"strings"

	"github.com/retroenv/asmgen/internal/program"
	"github.com/retroenv/asmgen/internal/symbols"
	"github.com/retroenv/retrogolib/set"
)

// offsetPair is a by-name reference from the operand at src to the label at
// dst.
type offsetPair struct {
	src int
	dst int
}

// Localizer analyzes the cross references of a project and creates the
// label map for a target assembler.
type Localizer struct {
	// LocalPrefix is prepended to local labels, for example "@" or "_".
	LocalPrefix string
	// QuirkVariablesEndScope ends the local label scope at every non-empty
	// local variable table.
	QuirkVariablesEndScope bool
	// QuirkNoOpcodeMnemonics forbids labels that match an opcode mnemonic.
	QuirkNoOpcodeMnemonics bool

	project *program.Project

	globalFlags []bool
	globals     []int
	pairs       []offsetPair
	labelMap    map[string]string
}

// New returns a new localizer for the project.
func New(project *program.Project) *Localizer {
	return &Localizer{
		project:  project,
		labelMap: map[string]string{},
	}
}

// Analyze runs the analysis and builds the label map.
func (l *Localizer) Analyze() {
	l.globalFlags = make([]bool, len(l.project.Attribs))
	l.globals = nil
	l.pairs = nil
	l.labelMap = map[string]string{}

	l.collect()
	l.promote()
	taken := l.renameGlobals()
	l.renameLocals(taken)
}

// LabelMap returns the map of original labels to the labels to emit. It
// only contains labels that change.
func (l *Localizer) LabelMap() map[string]string {
	return l.labelMap
}

// ConvLabel returns the label to emit for an original label.
func (l *Localizer) ConvLabel(label string) string {
	if mapped, ok := l.labelMap[label]; ok {
		return mapped
	}
	return label
}

// IsGlobal returns whether the label at the offset is global, or whether the
// offset starts a new local label scope.
func (l *Localizer) IsGlobal(offset int) bool {
	return l.globalFlags[offset]
}

// collect marks all labels that have to be global and gathers the references
// to local label candidates.
func (l *Localizer) collect() {
	first := true
	for offset := range l.project.Attribs {
		if l.QuirkVariablesEndScope {
			if table, ok := l.project.LvTables[offset]; ok && len(table.Variables) > 0 {
				l.markGlobal(offset)
			}
		}

		sym := l.project.Attribs[offset].Symbol
		if sym == nil {
			continue
		}
		if first || !sym.CanBeLocal() {
			first = false
			l.markGlobal(offset)
			continue
		}

		for _, ref := range l.project.Xrefs[offset] {
			if ref.IsByName {
				l.pairs = append(l.pairs, offsetPair{src: ref.Offset, dst: offset})
			}
		}
	}
}

// promote makes every local candidate global whose reference straddles a
// global label. Newly promoted labels are appended to the list of globals
// that is being iterated, so the loop runs until no more labels change.
func (l *Localizer) promote() {
	for i := 0; i < len(l.globals); i++ {
		global := l.globals[i]
		for _, pair := range l.pairs {
			if l.globalFlags[pair.dst] {
				continue
			}
			if straddles(pair, global) {
				l.markGlobal(pair.dst)
			}
		}
	}
}

// straddles returns whether a global label at the given offset lies between
// the source and the destination of a reference. A global label on the
// referencing line only counts for backward references, as it starts the
// scope that the reference is made from.
func straddles(pair offsetPair, global int) bool {
	if pair.src < pair.dst {
		return pair.src < global && global <= pair.dst
	}
	return pair.dst <= global && global <= pair.src
}

// renameGlobals renames global labels that would be misinterpreted by the
// assembler. It returns the set of labels that are in use.
func (l *Localizer) renameGlobals() set.Set[string] {
	taken := set.New[string]()
	for _, sym := range l.project.Symbols.Symbols() {
		taken.Add(sym.Label)
	}
	isTaken := func(label string) bool {
		if taken.Contains(label) {
			return true
		}
		return l.QuirkNoOpcodeMnemonics && l.project.CPU.IsMnemonic(label)
	}

	for offset, isGlobal := range l.globalFlags {
		sym := l.project.Attribs[offset].Symbol
		if !isGlobal || sym == nil {
			continue
		}

		label := sym.Label
		newLabel := label
		if sym.IsNonUnique() {
			newLabel = symbols.TrimTag(label)
		}
		if l.LocalPrefix == "_" && strings.HasPrefix(newLabel, "_") {
			newLabel = "X" + newLabel
		}

		collides := l.QuirkNoOpcodeMnemonics && l.project.CPU.IsMnemonic(newLabel)
		if newLabel == label && !collides {
			continue
		}
		if collides || taken.Contains(newLabel) {
			newLabel = uniquify(newLabel, isTaken)
		}
		taken.Add(newLabel)
		l.labelMap[label] = newLabel
	}
	return taken
}

// renameLocals prefixes all local labels, making them unique within the
// scope between two global labels.
func (l *Localizer) renameLocals(taken set.Set[string]) {
	scope := set.New[string]()
	isTaken := func(label string) bool {
		return scope.Contains(label) || taken.Contains(label)
	}

	for offset, isGlobal := range l.globalFlags {
		if isGlobal {
			scope = set.New[string]()
			continue
		}
		sym := l.project.Attribs[offset].Symbol
		if sym == nil {
			continue
		}

		newLabel := uniquify(l.LocalPrefix+symbols.TrimTag(sym.Label), isTaken)
		scope.Add(newLabel)
		l.labelMap[sym.Label] = newLabel
	}
}

func (l *Localizer) markGlobal(offset int) {
	if l.globalFlags[offset] {
		return
	}
	l.globalFlags[offset] = true
	l.globals = append(l.globals, offset)
}

// uniquify appends the smallest positive number to the label that makes it
// unused.
func uniquify(label string, isTaken func(string) bool) string {
	if !isTaken(label) {
		return label
	}
	for i := 1; ; i++ {
		candidate := label + strconv.Itoa(i)
		if !isTaken(candidate) {
			return candidate
		}
	}
}
