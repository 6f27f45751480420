package program

import (
	"sort"

	"github.com/retroenv/asmgen/internal/symbols"
)

// LocalVariableTable defines local variables starting at an offset.
type LocalVariableTable struct {
	Offset        int
	ClearPrevious bool // discard all variables defined by earlier tables
	Variables     []*symbols.DefSymbol
}

// LocalVariableLookup resolves the local variables that are active at an
// offset.
type LocalVariableLookup struct {
	tables []*LocalVariableTable
}

// NewLocalVariableLookup returns a lookup for the tables of a project.
func NewLocalVariableLookup(tables map[int]*LocalVariableTable) *LocalVariableLookup {
	l := &LocalVariableLookup{
		tables: make([]*LocalVariableTable, 0, len(tables)),
	}
	for _, table := range tables {
		l.tables = append(l.tables, table)
	}
	sort.Slice(l.tables, func(i, j int) bool {
		return l.tables[i].Offset < l.tables[j].Offset
	})
	return l
}

// Tables returns the tables ordered by offset.
func (l *LocalVariableLookup) Tables() []*LocalVariableTable {
	return l.tables
}

// GetVariablesDefinedAtOffset returns the variables of the table at the
// offset, or nil if there is no table.
func (l *LocalVariableLookup) GetVariablesDefinedAtOffset(offset int) []*symbols.DefSymbol {
	table, ok := l.TableAt(offset)
	if !ok {
		return nil
	}
	return table.Variables
}

// TableAt returns the table defined at the offset.
func (l *LocalVariableLookup) TableAt(offset int) (*LocalVariableTable, bool) {
	idx := sort.Search(len(l.tables), func(i int) bool {
		return l.tables[i].Offset >= offset
	})
	if idx == len(l.tables) || l.tables[idx].Offset != offset {
		return nil, false
	}
	return l.tables[idx], true
}

// GetSymbol returns the variable with the given label that is active at the
// offset.
func (l *LocalVariableLookup) GetSymbol(offset int, label string) (*symbols.DefSymbol, bool) {
	def, ok := l.Active(offset)[label]
	return def, ok
}

// GetSymbolByValue returns the active variable that covers the value.
func (l *LocalVariableLookup) GetSymbolByValue(offset, value int) (*symbols.DefSymbol, bool) {
	for _, def := range l.Active(offset) {
		if value >= def.Value && value < def.Value+def.Width {
			return def, true
		}
	}
	return nil, false
}

// Active returns all variables that are active at the offset. A new variable
// replaces earlier ones with the same label or an overlapping value range.
func (l *LocalVariableLookup) Active(offset int) map[string]*symbols.DefSymbol {
	active := map[string]*symbols.DefSymbol{}
	for _, table := range l.tables {
		if table.Offset > offset {
			break
		}
		if table.ClearPrevious {
			clear(active)
		}
		for _, def := range table.Variables {
			for label, existing := range active {
				if label == def.Label || overlaps(existing, def) {
					delete(active, label)
				}
			}
			active[def.Label] = def
		}
	}
	return active
}

func overlaps(a, b *symbols.DefSymbol) bool {
	return a.Value < b.Value+b.Width && b.Value < a.Value+a.Width
}
