// Package addrmap maps file offsets to CPU addresses.
package addrmap

import (
	"errors"
	"fmt"
	"sort"
)

// NonAddressable is the address of regions that are not mapped into the
// address space of the CPU, like file headers.
const NonAddressable = -1

var errOverlap = errors.New("regions overlap")

// Region maps a range of file offsets to a range of addresses.
type Region struct {
	Offset     int
	Length     int
	Address    int
	IsRelative bool // prefer a PC relative operand for the start directive

	parent *Region
	order  int
}

// LastOffset returns the offset of the last byte of the region.
func (r *Region) LastOffset() int {
	return r.Offset + r.Length - 1
}

// Contains returns whether the offset is part of the region.
func (r *Region) Contains(offset int) bool {
	return offset >= r.Offset && offset < r.Offset+r.Length
}

// Parent returns the region that contains this region or nil for top level
// regions.
func (r *Region) Parent() *Region {
	return r.parent
}

// AddressOf returns the address of the offset inside the region.
func (r *Region) AddressOf(offset int) int {
	if r.Address == NonAddressable {
		return NonAddressable
	}
	return r.Address + offset - r.Offset
}

// Change is a region start or end event.
type Change struct {
	Offset  int // first byte for starts, last byte for ends
	IsStart bool
	Region  *Region
}

// Map is an ordered set of possibly nested regions.
type Map struct {
	fileLen int
	regions []*Region
	sorted  bool
}

// New returns a new empty address map for a file of the given length.
func New(fileLen int) *Map {
	return &Map{
		fileLen: fileLen,
	}
}

// FileLength returns the length of the mapped file.
func (m *Map) FileLength() int {
	return m.fileLen
}

// AddRegion adds a new region. Regions may nest but not partially overlap.
// A region with the same range as an existing one is nested inside of it.
func (m *Map) AddRegion(offset, length, address int, isRelative bool) error {
	if length <= 0 {
		return fmt.Errorf("invalid region length %d", length)
	}
	if offset < 0 || offset+length > m.fileLen {
		return fmt.Errorf("region +%06x length %d exceeds file length %d", offset, length, m.fileLen)
	}
	if address < NonAddressable || address+length > 0x1000000 {
		return fmt.Errorf("invalid region address $%x", address)
	}

	reg := &Region{
		Offset:     offset,
		Length:     length,
		Address:    address,
		IsRelative: isRelative,
		order:      len(m.regions),
	}
	for _, existing := range m.regions {
		if disjoint(reg, existing) || contains(existing, reg) || contains(reg, existing) {
			continue
		}
		return fmt.Errorf("%w: +%06x/%d and +%06x/%d", errOverlap,
			offset, length, existing.Offset, existing.Length)
	}

	m.regions = append(m.regions, reg)
	m.sorted = false
	return nil
}

// Regions returns all regions, outer regions before the regions they contain.
func (m *Map) Regions() []*Region {
	m.sort()
	return m.regions
}

// Validate checks that the top level regions cover the whole file without
// gaps.
func (m *Map) Validate() error {
	m.sort()
	next := 0
	for _, reg := range m.regions {
		if reg.parent != nil {
			continue
		}
		if reg.Offset != next {
			return fmt.Errorf("offsets +%06x to +%06x are not covered by a region", next, reg.Offset-1)
		}
		next = reg.Offset + reg.Length
	}
	if next != m.fileLen {
		return fmt.Errorf("offsets +%06x to +%06x are not covered by a region", next, m.fileLen-1)
	}
	return nil
}

// RegionAt returns the innermost region that contains the offset.
func (m *Map) RegionAt(offset int) *Region {
	m.sort()
	var found *Region
	for _, reg := range m.regions {
		if reg.Offset > offset {
			break
		}
		if reg.Contains(offset) {
			found = reg
		}
	}
	return found
}

// OffsetToAddress returns the address of an offset or NonAddressable.
func (m *Map) OffsetToAddress(offset int) int {
	reg := m.RegionAt(offset)
	if reg == nil {
		return NonAddressable
	}
	return reg.AddressOf(offset)
}

// AddressToOffset returns the offset of an address that is mapped inside the
// region containing srcOffset, looking into outer regions and finally the
// whole map. It returns -1 if the address is not part of the file.
func (m *Map) AddressToOffset(srcOffset, address int) int {
	for reg := m.RegionAt(srcOffset); reg != nil; reg = reg.parent {
		if offset, ok := m.regionOffset(reg, address); ok {
			return offset
		}
	}
	m.sort()
	for i := len(m.regions) - 1; i >= 0; i-- {
		if offset, ok := m.regionOffset(m.regions[i], address); ok {
			return offset
		}
	}
	return -1
}

// ParentAddress returns the address that the offset has in the region that
// contains the given region, or NonAddressable if there is none.
func (m *Map) ParentAddress(reg *Region, offset int) int {
	if reg.parent == nil || !reg.parent.Contains(offset) {
		return NonAddressable
	}
	return reg.parent.AddressOf(offset)
}

// Changes returns the ordered stream of region start and end events. Outer
// regions start before and end after the regions they contain.
func (m *Map) Changes() []Change {
	m.sort()
	var changes []Change
	var open []*Region

	closeUntil := func(offset int) {
		for len(open) > 0 {
			top := open[len(open)-1]
			if top.Offset+top.Length > offset {
				return
			}
			changes = append(changes, Change{Offset: top.LastOffset(), Region: top})
			open = open[:len(open)-1]
		}
	}

	for _, reg := range m.regions {
		closeUntil(reg.Offset)
		changes = append(changes, Change{Offset: reg.Offset, IsStart: true, Region: reg})
		open = append(open, reg)
	}
	closeUntil(m.fileLen + 1)
	return changes
}

// sort orders the regions and assigns the parents.
func (m *Map) sort() {
	if m.sorted {
		return
	}
	sort.SliceStable(m.regions, func(i, j int) bool {
		a, b := m.regions[i], m.regions[j]
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		if a.Length != b.Length {
			return a.Length > b.Length
		}
		return a.order < b.order
	})

	var stack []*Region
	for _, reg := range m.regions {
		for len(stack) > 0 && !contains(stack[len(stack)-1], reg) {
			stack = stack[:len(stack)-1]
		}
		reg.parent = nil
		if len(stack) > 0 {
			reg.parent = stack[len(stack)-1]
		}
		stack = append(stack, reg)
	}
	m.sorted = true
}

// regionOffset returns the offset of the address inside the region, unless a
// nested region remaps that offset.
func (m *Map) regionOffset(reg *Region, address int) (int, bool) {
	if reg.Address == NonAddressable || address < reg.Address || address >= reg.Address+reg.Length {
		return 0, false
	}
	offset := reg.Offset + address - reg.Address
	if m.RegionAt(offset) != reg {
		return 0, false
	}
	return offset, true
}

func disjoint(a, b *Region) bool {
	return a.Offset+a.Length <= b.Offset || b.Offset+b.Length <= a.Offset
}

func contains(outer, inner *Region) bool {
	return inner.Offset >= outer.Offset && inner.Offset+inner.Length <= outer.Offset+outer.Length
}
