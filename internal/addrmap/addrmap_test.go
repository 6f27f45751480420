package addrmap

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestAddRegion(t *testing.T) {
	tests := []struct {
		name    string
		offset  int
		length  int
		address int
		wantErr bool
	}{
		{name: "nested", offset: 0x10, length: 0x10, address: 0x2000},
		{name: "same range", offset: 0, length: 0x100, address: 0x3000},
		{name: "partial overlap", offset: 0xf0, length: 0x20, address: 0x4000, wantErr: true},
		{name: "outside file", offset: 0x100, length: 0x10, address: 0x4000, wantErr: true},
		{name: "empty", offset: 0x20, length: 0, address: 0x4000, wantErr: true},
		{name: "address overflow", offset: 0x20, length: 0x10, address: 0xfffff8, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(0x100)
			assert.NoError(t, m.AddRegion(0, 0x100, 0x1000, false))

			err := m.AddRegion(tt.offset, tt.length, tt.address, false)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	m := New(0x100)
	assert.NoError(t, m.AddRegion(0, 0x80, 0x1000, false))
	assert.Error(t, m.Validate())

	assert.NoError(t, m.AddRegion(0x80, 0x80, 0x8000, false))
	assert.NoError(t, m.Validate())

	gap := New(0x100)
	assert.NoError(t, gap.AddRegion(0x10, 0xf0, 0x1000, false))
	assert.ErrorContains(t, gap.Validate(), "not covered")
}

func TestOffsetToAddress(t *testing.T) {
	m := New(0x100)
	assert.NoError(t, m.AddRegion(0, 0x100, 0x1000, false))
	assert.NoError(t, m.AddRegion(0x40, 0x20, 0x0300, false))
	assert.NoError(t, m.AddRegion(0x80, 0x10, NonAddressable, false))

	assert.Equal(t, 0x1000, m.OffsetToAddress(0))
	assert.Equal(t, 0x0300, m.OffsetToAddress(0x40))
	assert.Equal(t, 0x031f, m.OffsetToAddress(0x5f))
	assert.Equal(t, 0x1060, m.OffsetToAddress(0x60))
	assert.Equal(t, NonAddressable, m.OffsetToAddress(0x85))
	assert.Equal(t, NonAddressable, m.OffsetToAddress(0x200))
}

func TestAddressToOffset(t *testing.T) {
	m := New(0x100)
	assert.NoError(t, m.AddRegion(0, 0x100, 0x1000, false))
	assert.NoError(t, m.AddRegion(0x40, 0x20, 0x1000, false))

	// the outer region address $1040 is remapped by the nested region
	assert.Equal(t, -1, m.AddressToOffset(0, 0x1040))
	assert.Equal(t, 0x10, m.AddressToOffset(0, 0x1010))
	assert.Equal(t, 0x50, m.AddressToOffset(0x41, 0x1010))
	assert.Equal(t, 0x60, m.AddressToOffset(0x41, 0x1060))
	assert.Equal(t, -1, m.AddressToOffset(0, 0x2000))
}

func TestChanges(t *testing.T) {
	m := New(0x100)
	assert.NoError(t, m.AddRegion(0x80, 0x80, 0x8000, false))
	assert.NoError(t, m.AddRegion(0, 0x80, 0x1000, false))
	assert.NoError(t, m.AddRegion(0x10, 0x10, 0x0300, false))
	assert.NoError(t, m.AddRegion(0x10, 0x01, 0x0400, false))

	changes := m.Changes()
	expected := []struct {
		offset  int
		isStart bool
		address int
	}{
		{0x00, true, 0x1000},
		{0x10, true, 0x0300},
		{0x10, true, 0x0400},
		{0x10, false, 0x0400},
		{0x1f, false, 0x0300},
		{0x7f, false, 0x1000},
		{0x80, true, 0x8000},
		{0xff, false, 0x8000},
	}

	assert.Equal(t, len(expected), len(changes))
	for i, exp := range expected {
		assert.Equal(t, exp.offset, changes[i].Offset)
		assert.Equal(t, exp.isStart, changes[i].IsStart)
		assert.Equal(t, exp.address, changes[i].Region.Address)
	}
}

func TestParentAddress(t *testing.T) {
	m := New(0x100)
	assert.NoError(t, m.AddRegion(0, 0x100, 0x1000, false))
	assert.NoError(t, m.AddRegion(0x40, 0x20, 0x0300, false))

	inner := m.RegionAt(0x40)
	assert.Equal(t, 0x0300, inner.Address)
	assert.Equal(t, 0x1060, m.ParentAddress(inner, 0x60))
	assert.Equal(t, NonAddressable, m.ParentAddress(inner.Parent(), 0x60))
}
