package program

import (
	"fmt"

	"github.com/retroenv/asmgen/internal/addrmap"
	"github.com/retroenv/asmgen/internal/cpudef"
	"github.com/retroenv/asmgen/internal/dataformat"
	"github.com/retroenv/asmgen/internal/symbols"
)

type symbolRef struct {
	src   int
	label string
	typ   XrefType
}

// resolver resolves operand addresses to labels and equates.
type resolver struct {
	b *Builder
	p *Project

	lvLookup *LocalVariableLookup
	names    map[string]struct{}
	refs     []symbolRef
}

func newResolver(b *Builder, p *Project) *resolver {
	r := &resolver{
		b:        b,
		p:        p,
		lvLookup: NewLocalVariableLookup(b.lvTables),
		names:    map[string]struct{}{},
	}
	for _, lbl := range b.labels {
		r.names[lbl.name] = struct{}{}
	}
	for _, def := range b.defs {
		r.names[def.Label] = struct{}{}
	}
	return r
}

func (r *resolver) resolveOperands() error {
	for _, offset := range sortedKeys(r.b.instructions) {
		if err := r.resolveInstruction(offset); err != nil {
			return err
		}
	}
	for _, offset := range sortedKeys(r.b.formats) {
		r.resolveData(offset)
	}
	return nil
}

func (r *resolver) resolveInstruction(offset int) error {
	attr := &r.p.Attribs[offset]
	op := r.p.OpDef(offset)
	operand := op.GetOperand(r.p.FileData, offset, attr.StatusFlags)

	addr := operandAddress(op, attr.Address, operand)
	attr.OperandAddress = addr
	if addr >= 0 {
		attr.OperandOffset = r.p.AddrMap.AddressToOffset(offset, addr)
	}

	if desc := attr.DataDescriptor; desc != nil {
		if desc.Length != attr.Length-1 {
			return fmt.Errorf("operand format length %d at +%06x does not match operand length %d",
				desc.Length, offset, attr.Length-1)
		}
		if desc.HasSymbol() {
			r.refs = append(r.refs, symbolRef{src: offset, label: desc.SymbolRef.Label, typ: XrefInstruction})
		}
		return nil
	}

	if isVariableMode(op.AddrMode) {
		value := operand & 0xff
		if def, ok := r.lvLookup.GetSymbolByValue(offset, value); ok {
			ref := symbols.WeakRef{Label: def.Label, IsVariable: true}
			attr.DataDescriptor = dataformat.NewSymbolRef(attr.Length-1, ref)
			return nil
		}
	}
	if addr < 0 {
		return nil
	}

	name, ok := r.labelFor(attr.OperandOffset, addr)
	if !ok {
		return nil
	}
	attr.DataDescriptor = dataformat.NewSymbolRef(attr.Length-1, symbols.WeakRef{Label: name})
	r.refs = append(r.refs, symbolRef{src: offset, label: name, typ: XrefInstruction})
	return nil
}

// resolveData resolves address data items to labels.
func (r *resolver) resolveData(offset int) {
	attr := &r.p.Attribs[offset]
	desc := attr.DataDescriptor

	switch {
	case desc.HasSymbol():
		r.refs = append(r.refs, symbolRef{src: offset, label: desc.SymbolRef.Label, typ: XrefData})

	case desc.Type == dataformat.NumericLE && desc.SubType == dataformat.Address && desc.Length >= 2:
		value := 0
		for i := desc.Length - 1; i >= 0; i-- {
			value = value<<8 | int(r.p.FileData[offset+i])
		}
		if desc.Length == 2 && attr.Address != addrmap.NonAddressable {
			value |= attr.Address & 0xff0000
		}

		targetOffset := r.p.AddrMap.AddressToOffset(offset, value)
		name, ok := r.labelFor(targetOffset, value)
		if !ok {
			return
		}
		attr.DataDescriptor = dataformat.NewSymbolRef(desc.Length, symbols.WeakRef{Label: name})
		r.refs = append(r.refs, symbolRef{src: offset, label: name, typ: XrefData})
	}
}

// labelFor returns the label to reference an address with. Addresses in the
// file reference the label at the start of the containing item, creating an
// auto label if needed. Other addresses use a matching external equate.
func (r *resolver) labelFor(targetOffset, addr int) (string, bool) {
	if targetOffset < 0 {
		for _, def := range r.b.defs {
			if def.Type == symbols.ExternalAddr && addr >= def.Value && addr < def.Value+max(def.Width, 1) {
				return def.Label, true
			}
		}
		return "", false
	}

	targetOffset = r.itemStart(targetOffset)
	if lbl, ok := r.b.labels[targetOffset]; ok {
		return lbl.name, true
	}

	name := r.autoLabelName(r.p.Attribs[targetOffset].Address)
	r.b.labels[targetOffset] = label{name: name, typ: symbols.LocalOrGlobalAddr, src: symbols.SourceAuto}
	r.names[name] = struct{}{}
	return name, true
}

// itemStart returns the start offset of the item that contains the offset.
func (r *resolver) itemStart(offset int) int {
	for offset > 0 {
		attr := &r.p.Attribs[offset]
		if attr.IsStart() || (!attr.IsInstruction() && !attr.IsData()) {
			return offset
		}
		offset--
	}
	return offset
}

func (r *resolver) autoLabelName(addr int) string {
	name := fmt.Sprintf("L%04X", addr)
	if addr > 0xffff {
		name = fmt.Sprintf("L%06X", addr)
	}
	base := name
	for i := 1; ; i++ {
		if _, ok := r.names[name]; !ok {
			return name
		}
		name = fmt.Sprintf("%s_%d", base, i)
	}
}

// addXrefs records the by-name references to labels in the file and marks
// the referenced equates as used.
func (r *resolver) addXrefs() error {
	offsets := map[string]int{}
	for offset := range r.p.Attribs {
		if sym := r.p.Attribs[offset].Symbol; sym != nil {
			offsets[sym.Label] = offset
		}
	}

	for _, ref := range r.refs {
		if dst, ok := offsets[ref.label]; ok {
			r.p.Xrefs[dst] = append(r.p.Xrefs[dst], Xref{Offset: ref.src, IsByName: true, Type: ref.typ})
			continue
		}
		if _, ok := r.p.Symbols.GetDef(ref.label); ok {
			r.p.Symbols.MarkUsed(ref.label)
		}
	}
	return nil
}

// operandAddress returns the address that an instruction operand refers to,
// or -1 for operands that are not addresses. The data bank is assumed to be
// the program bank and the direct page to be at 0.
func operandAddress(op *cpudef.OpDef, addr, operand int) int {
	if addr == addrmap.NonAddressable {
		return -1
	}
	bank := addr & 0xff0000

	switch op.AddrMode {
	case cpudef.DPAddressing, cpudef.DPIndexXAddressing, cpudef.DPIndexYAddressing,
		cpudef.DPIndexXIndAddressing, cpudef.DPIndIndexYAddressing, cpudef.DPIndAddressing,
		cpudef.DPIndLongAddressing, cpudef.DPIndIndexYLongAddressing, cpudef.StackDPIndAddressing:
		return operand & 0xff

	case cpudef.AbsAddressing, cpudef.AbsIndexXAddressing, cpudef.AbsIndexYAddressing,
		cpudef.AbsIndexXIndAddressing:
		return bank | operand

	case cpudef.AbsIndAddressing, cpudef.AbsIndLongAddressing:
		return operand

	case cpudef.AbsLongAddressing, cpudef.AbsIndexXLongAddressing:
		return operand

	case cpudef.PCRelAddressing:
		return bank | (addr+2+int(int8(operand)))&0xffff

	case cpudef.DPPCRelAddressing:
		return bank | (addr+3+int(int8(operand>>8)))&0xffff

	case cpudef.PCRelLongAddressing, cpudef.StackPCRelLongAddressing:
		return bank | (addr+3+int(int16(operand)))&0xffff

	default:
		return -1
	}
}

func isVariableMode(mode cpudef.AddrMode) bool {
	return mode.IsDirectPage() || mode == cpudef.StackRelAddressing || mode == cpudef.StackRelIndIndexYAddressing
}
