package program

import (
	"errors"
	"fmt"
	"sort"

	"github.com/retroenv/asmgen/internal/addrmap"
	"github.com/retroenv/asmgen/internal/cpudef"
	"github.com/retroenv/asmgen/internal/dataformat"
	"github.com/retroenv/asmgen/internal/symbols"
	"github.com/retroenv/retrogolib/set"
)

// minFillRun is the minimum number of identical bytes in uncategorized data
// that are grouped as fill item.
const minFillRun = 8

var errItemConflict = errors.New("item conflicts with existing item")

type label struct {
	name string
	typ  symbols.Type
	src  symbols.Source
}

// Builder creates a Project from a binary and the information about it. It
// stands in for a full code analyzer: code ranges are decoded linearly and
// operand targets inside the file get auto labels.
type Builder struct {
	data  []byte
	cpu   *cpudef.Def
	props Properties

	addrMap      *addrmap.Map
	instructions map[int]cpudef.StatusFlags
	formats      map[int]*dataformat.Descriptor
	operands     map[int]*dataformat.Descriptor
	inline       map[int]bool
	labels       map[int]label
	defs         []*symbols.DefSymbol
	lvTables     map[int]*LocalVariableTable
	comments     map[int]string
	longComments map[int][]string
}

// NewBuilder returns a new builder for the given file data.
func NewBuilder(data []byte, cpu *cpudef.Def, props Properties) *Builder {
	return &Builder{
		data:         data,
		cpu:          cpu,
		props:        props,
		addrMap:      addrmap.New(len(data)),
		instructions: map[int]cpudef.StatusFlags{},
		formats:      map[int]*dataformat.Descriptor{},
		operands:     map[int]*dataformat.Descriptor{},
		inline:       map[int]bool{},
		labels:       map[int]label{},
		lvTables:     map[int]*LocalVariableTable{},
		comments:     map[int]string{},
		longComments: map[int][]string{},
	}
}

// AddRegion adds an address region.
func (b *Builder) AddRegion(offset, length, address int, isRelative bool) error {
	if err := b.addrMap.AddRegion(offset, length, address, isRelative); err != nil {
		return fmt.Errorf("adding address region: %w", err)
	}
	return nil
}

// MarkCode decodes the instructions from start up to end linearly, tracking
// the register width changes of REP, SEP and XCE. An instruction that does
// not fit before end ends the code range.
func (b *Builder) MarkCode(start, end int, flags cpudef.StatusFlags) error {
	if start < 0 || end > len(b.data) || start >= end {
		return fmt.Errorf("invalid code range +%06x to +%06x", start, end)
	}
	if !b.cpu.HasEmuFlag() {
		flags = cpudef.ShortFlags()
	}

	carry := cpudef.Indeterminate
	for offset := start; offset < end; {
		op := b.cpu.GetOpDef(b.data[offset])
		length := op.GetLength(flags)
		if offset+length > end {
			break
		}
		b.instructions[offset] = flags
		operand := op.GetOperand(b.data, offset, flags)
		flags, carry = b.nextFlags(op, operand, flags, carry)
		offset += length
	}
	return nil
}

// AddInstruction marks a single instruction. It may overlap other
// instructions, which makes it an embedded instruction.
func (b *Builder) AddInstruction(offset int, flags cpudef.StatusFlags) error {
	if offset < 0 || offset >= len(b.data) {
		return fmt.Errorf("instruction offset +%06x outside of file", offset)
	}
	if !b.cpu.HasEmuFlag() {
		flags = cpudef.ShortFlags()
	}
	b.instructions[offset] = flags
	return nil
}

// SetLabel sets a label at an offset.
func (b *Builder) SetLabel(offset int, name string, typ symbols.Type) error {
	if offset < 0 || offset >= len(b.data) {
		return fmt.Errorf("label '%s' offset +%06x outside of file", name, offset)
	}
	if !symbols.IsValidLabel(name) {
		return fmt.Errorf("invalid label '%s'", name)
	}
	if existing, ok := b.labels[offset]; ok {
		return fmt.Errorf("offset +%06x already has label '%s'", offset, existing.name)
	}
	b.labels[offset] = label{name: name, typ: typ, src: symbols.SourceUser}
	return nil
}

// AddDefSymbol adds an equate that is emitted when an operand references it.
func (b *Builder) AddDefSymbol(def *symbols.DefSymbol) error {
	if def.Type != symbols.Constant && def.Type != symbols.ExternalAddr {
		return fmt.Errorf("definition symbol '%s' must be a constant or external address", def.Label)
	}
	b.defs = append(b.defs, def)
	return nil
}

// SetDataFormat sets the format of a data item. Inline data follows a call
// to a routine that reads it.
func (b *Builder) SetDataFormat(offset int, desc *dataformat.Descriptor, inline bool) error {
	if offset < 0 || offset+desc.Length > len(b.data) {
		return fmt.Errorf("data format +%06x length %d outside of file", offset, desc.Length)
	}
	if err := desc.Validate(); err != nil {
		return fmt.Errorf("data format at +%06x: %w", offset, err)
	}
	b.formats[offset] = desc
	if inline {
		b.inline[offset] = true
	}
	return nil
}

// SetOperandFormat sets the format of an instruction operand.
func (b *Builder) SetOperandFormat(offset int, desc *dataformat.Descriptor) error {
	if offset < 0 || offset >= len(b.data) {
		return fmt.Errorf("operand format offset +%06x outside of file", offset)
	}
	b.operands[offset] = desc
	return nil
}

// AddComment sets the end of line comment of an offset.
func (b *Builder) AddComment(offset int, comment string) {
	b.comments[offset] = comment
}

// AddLongComment sets a multi line comment that is emitted before the offset.
func (b *Builder) AddLongComment(offset int, lines ...string) {
	b.longComments[offset] = lines
}

// AddLocalVariableTable adds a local variable table.
func (b *Builder) AddLocalVariableTable(table *LocalVariableTable) error {
	if table.Offset < 0 || table.Offset >= len(b.data) {
		return fmt.Errorf("local variable table offset +%06x outside of file", table.Offset)
	}
	b.lvTables[table.Offset] = table
	return nil
}

// Build creates the project. The builder must not be used afterwards.
func (b *Builder) Build() (*Project, error) {
	p := &Project{
		FileData:     b.data,
		CPU:          b.cpu,
		Attribs:      make([]Anattrib, len(b.data)),
		Symbols:      symbols.NewTable(),
		AddrMap:      b.addrMap,
		LvTables:     b.lvTables,
		Comments:     b.comments,
		LongComments: b.longComments,
		Xrefs:        map[int][]Xref{},
		Properties:   b.props,
	}
	if err := b.addrMap.Validate(); err != nil {
		return nil, fmt.Errorf("validating address map: %w", err)
	}

	for offset := range p.Attribs {
		attr := &p.Attribs[offset]
		attr.Address = b.addrMap.OffsetToAddress(offset)
		attr.OperandAddress = -1
		attr.OperandOffset = -1
	}

	if err := b.applyInstructions(p); err != nil {
		return nil, err
	}
	if err := b.applyFormats(p); err != nil {
		return nil, err
	}
	for _, def := range b.defs {
		if err := p.Symbols.AddDef(def); err != nil {
			return nil, fmt.Errorf("adding definition symbol: %w", err)
		}
	}

	res := newResolver(b, p)
	if err := res.resolveOperands(); err != nil {
		return nil, err
	}
	if err := b.applyLabels(p); err != nil {
		return nil, err
	}
	b.groupUncategorized(p)
	if err := res.addXrefs(); err != nil {
		return nil, err
	}

	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("validating project: %w", err)
	}
	return p, nil
}

func (b *Builder) applyInstructions(p *Project) error {
	for _, offset := range sortedKeys(b.instructions) {
		flags := b.instructions[offset]
		op := b.cpu.GetOpDef(b.data[offset])
		length := op.GetLength(flags)
		if offset+length > len(b.data) {
			return fmt.Errorf("instruction at +%06x exceeds the file", offset)
		}

		attr := &p.Attribs[offset]
		attr.SetType(InstructionStart | InstructionPart)
		attr.Length = length
		attr.StatusFlags = flags
		for i := 1; i < length; i++ {
			p.Attribs[offset+i].SetType(InstructionPart)
		}
		if desc, ok := b.operands[offset]; ok {
			attr.DataDescriptor = desc
		}
	}
	return nil
}

func (b *Builder) applyFormats(p *Project) error {
	for _, offset := range sortedKeys(b.formats) {
		desc := b.formats[offset]
		for i := range desc.Length {
			attr := &p.Attribs[offset+i]
			if attr.IsInstruction() || attr.IsData() {
				return fmt.Errorf("%w: data at +%06x", errItemConflict, offset+i)
			}
			attr.SetType(DataPart)
			if b.inline[offset] {
				attr.SetType(InlineData)
			}
		}

		attr := &p.Attribs[offset]
		attr.SetType(DataStart)
		attr.Length = desc.Length
		attr.DataDescriptor = desc
	}
	return nil
}

func (b *Builder) applyLabels(p *Project) error {
	for _, offset := range sortedKeys(b.labels) {
		lbl := b.labels[offset]
		attr := &p.Attribs[offset]
		if (attr.IsInstruction() || attr.IsData()) && !attr.IsStart() {
			return fmt.Errorf("label '%s' at +%06x is inside of an item", lbl.name, offset)
		}
		if attr.Address == addrmap.NonAddressable {
			return fmt.Errorf("label '%s' at +%06x is in a non addressable region", lbl.name, offset)
		}

		sym := &symbols.Symbol{
			Label:  lbl.name,
			Value:  attr.Address,
			Source: lbl.src,
			Type:   lbl.typ,
		}
		if err := p.Symbols.Add(sym); err != nil {
			return fmt.Errorf("adding label at +%06x: %w", offset, err)
		}
		attr.Symbol = sym
	}
	return nil
}

// groupUncategorized creates data items for all bytes that are not part of
// an item yet. Runs of identical bytes become fill items, everything else
// dense hex items. Items do not cross labels or address region changes.
func (b *Builder) groupUncategorized(p *Project) {
	boundaries := map[int]struct{}{}
	for _, reg := range b.addrMap.Regions() {
		boundaries[reg.Offset] = struct{}{}
		boundaries[reg.Offset+reg.Length] = struct{}{}
	}
	for offset := range b.labels {
		boundaries[offset] = struct{}{}
	}
	for offset := range b.longComments {
		boundaries[offset] = struct{}{}
	}
	for offset := range b.lvTables {
		boundaries[offset] = struct{}{}
	}

	for offset := 0; offset < len(b.data); {
		if p.Attribs[offset].IsInstruction() || p.Attribs[offset].IsData() {
			offset++
			continue
		}

		end := offset + 1
		for end < len(b.data) {
			if _, ok := boundaries[end]; ok {
				break
			}
			if p.Attribs[end].IsInstruction() || p.Attribs[end].IsData() {
				break
			}
			end++
		}

		b.groupRun(p, offset, end)
		offset = end
	}
}

// groupRun splits an uncategorized run into fill and dense items.
func (b *Builder) groupRun(p *Project, start, end int) {
	denseStart := start
	for offset := start; offset < end; {
		run := 1
		for offset+run < end && b.data[offset+run] == b.data[offset] {
			run++
		}
		if run < minFillRun {
			offset += run
			continue
		}

		if denseStart < offset {
			setItem(p, denseStart, &dataformat.Descriptor{Length: offset - denseStart, Type: dataformat.Dense})
		}
		setItem(p, offset, &dataformat.Descriptor{Length: run, Type: dataformat.Fill})
		offset += run
		denseStart = offset
	}
	if denseStart < end {
		setItem(p, denseStart, &dataformat.Descriptor{Length: end - denseStart, Type: dataformat.Dense})
	}
}

func setItem(p *Project, offset int, desc *dataformat.Descriptor) {
	for i := range desc.Length {
		p.Attribs[offset+i].SetType(DataPart)
	}
	attr := &p.Attribs[offset]
	attr.SetType(DataStart)
	attr.Length = desc.Length
	attr.DataDescriptor = desc
}

// nextFlags returns the status flags after the execution of an instruction.
// The carry is tracked to know the mode that XCE switches to.
func (b *Builder) nextFlags(op *cpudef.OpDef, operand int, flags cpudef.StatusFlags,
	carry cpudef.TriState) (cpudef.StatusFlags, cpudef.TriState) {

	if !b.cpu.HasEmuFlag() {
		return flags, cpudef.Indeterminate
	}

	switch op.Mnemonic {
	case "CLC":
		return flags, cpudef.Clear
	case "SEC":
		return flags, cpudef.Set
	case "XCE":
		newCarry := flags.E
		flags.E = carry
		if flags.E == cpudef.Set {
			flags.M = cpudef.Set
			flags.X = cpudef.Set
		}
		return flags, newCarry
	case "REP", "SEP":
		state := cpudef.Clear
		if op.Mnemonic == "SEP" {
			state = cpudef.Set
		}
		if operand&0x20 != 0 {
			flags.M = state
		}
		if operand&0x10 != 0 {
			flags.X = state
		}
		if operand&0x01 != 0 {
			carry = state
		}
		return flags, carry
	case "PLP", "RTI":
		flags.M = cpudef.Indeterminate
		flags.X = cpudef.Indeterminate
		return flags, cpudef.Indeterminate
	}

	if carryModifiers.Contains(op.Mnemonic) {
		return flags, cpudef.Indeterminate
	}
	return flags, carry
}

// instructions that change the carry or call code that might change it
var carryModifiers = set.NewFromSlice([]string{
	"ADC", "SBC", "ASL", "LSR", "ROL", "ROR", "CMP", "CPX", "CPY",
	"ALR", "ANC", "ARR", "DCP", "ISC", "RLA", "RRA", "SBX", "SLO", "SRE",
	"JSR", "JSL", "BRK", "COP",
})

func sortedKeys[T any](m map[int]T) []int {
	keys := make([]int, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Ints(keys)
	return keys
}
