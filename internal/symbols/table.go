package symbols

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

// ErrDuplicateLabel is returned when a label is added twice.
var ErrDuplicateLabel = errors.New("duplicate label")

// Table contains all symbols of a project, indexed by label.
type Table struct {
	symbols *Manager[string, *Symbol]
	defs    *Manager[string, *DefSymbol]
}

// NewTable returns a new empty symbol table.
func NewTable() *Table {
	return &Table{
		symbols: NewManager[string, *Symbol](),
		defs:    NewManager[string, *DefSymbol](),
	}
}

// Add adds an address label of the file.
func (t *Table) Add(sym *Symbol) error {
	if sym.Label == "" {
		return errors.New("empty label")
	}
	if t.symbols.Has(sym.Label) {
		return fmt.Errorf("%w '%s'", ErrDuplicateLabel, sym.Label)
	}
	t.symbols.Set(sym.Label, sym)
	return nil
}

// AddDef adds a definition symbol that is emitted as equate when used.
func (t *Table) AddDef(def *DefSymbol) error {
	if err := t.Add(&def.Symbol); err != nil {
		return err
	}
	t.defs.Set(def.Label, def)
	return nil
}

// Get returns the symbol with the given label.
func (t *Table) Get(label string) (*Symbol, bool) {
	return t.symbols.Get(label)
}

// GetDef returns the definition symbol with the given label.
func (t *Table) GetDef(label string) (*DefSymbol, bool) {
	return t.defs.Get(label)
}

// Len returns the number of symbols.
func (t *Table) Len() int {
	return t.symbols.Len()
}

// Symbols returns all symbols sorted by label.
func (t *Table) Symbols() []*Symbol {
	return lo.Map(t.symbols.Keys(), func(label string, _ int) *Symbol {
		sym, _ := t.symbols.Get(label)
		return sym
	})
}

// MarkUsed marks a definition symbol as referenced by an operand.
func (t *Table) MarkUsed(label string) {
	t.defs.MarkUsed(label)
}

// UsedDefs returns the referenced definition symbols, constants first and
// ordered by value and label inside each group.
func (t *Table) UsedDefs() []*DefSymbol {
	all := t.defs.SortedBy(func(a, b *DefSymbol) bool {
		if a.IsConstant() != b.IsConstant() {
			return a.IsConstant()
		}
		return a.Value < b.Value
	})

	return lo.Filter(all, func(def *DefSymbol, _ int) bool {
		return t.defs.IsUsed(def.Label)
	})
}
