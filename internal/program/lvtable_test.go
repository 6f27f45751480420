package program

import (
	"testing"

	"github.com/retroenv/asmgen/internal/symbols"
	"github.com/retroenv/retrogolib/assert"
)

func TestLocalVariableLookup(t *testing.T) {
	ptr := symbols.NewVariable("PTR", 0x10, 2)
	count := symbols.NewVariable("COUNT", 0x12, 1)
	tmp := symbols.NewVariable("TMP", 0x11, 1)
	other := symbols.NewVariable("OTHER", 0x20, 1)

	lookup := NewLocalVariableLookup(map[int]*LocalVariableTable{
		0x20: {Offset: 0x20, Variables: []*symbols.DefSymbol{tmp}},
		0x00: {Offset: 0x00, Variables: []*symbols.DefSymbol{ptr, count}},
		0x40: {Offset: 0x40, ClearPrevious: true, Variables: []*symbols.DefSymbol{other}},
	})

	assert.Equal(t, 3, len(lookup.Tables()))
	assert.Equal(t, 0x00, lookup.Tables()[0].Offset)

	assert.Equal(t, 2, len(lookup.GetVariablesDefinedAtOffset(0)))
	assert.Nil(t, lookup.GetVariablesDefinedAtOffset(1))

	def, ok := lookup.GetSymbol(0x10, "PTR")
	assert.True(t, ok)
	assert.Equal(t, 0x10, def.Value)

	def, ok = lookup.GetSymbolByValue(0x10, 0x11)
	assert.True(t, ok)
	assert.Equal(t, "PTR", def.Label)

	// TMP overlaps the second byte of PTR and replaces it
	_, ok = lookup.GetSymbol(0x20, "PTR")
	assert.False(t, ok)
	def, ok = lookup.GetSymbolByValue(0x20, 0x11)
	assert.True(t, ok)
	assert.Equal(t, "TMP", def.Label)
	_, ok = lookup.GetSymbol(0x20, "COUNT")
	assert.True(t, ok)

	active := lookup.Active(0x40)
	assert.Equal(t, 1, len(active))
	_, ok = active["OTHER"]
	assert.True(t, ok)
}
