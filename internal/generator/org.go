package generator

import (
	"fmt"

	"github.com/retroenv/asmgen/internal/addrmap"
)

// OrgTracker maps address region changes to program counter assignments
// for assemblers that have no block structure for regions. A region start
// sets its address, the end of a nested region restores the address that
// the following byte has in the containing region.
type OrgTracker struct {
	Map *addrmap.Map

	pending []addrmap.Change
	starts  int
	ends    int
}

// Change handles a region change. For region ends it returns the address
// to assign, if one is needed.
func (o *OrgTracker) Change(change addrmap.Change) (int, bool) {
	if change.IsStart {
		o.pending = append(o.pending, change)
		return 0, false
	}

	o.ends++
	reg := change.Region
	if reg.Address == addrmap.NonAddressable {
		return 0, false
	}
	address := o.Map.ParentAddress(reg, reg.LastOffset()+1)
	return address, address != addrmap.NonAddressable
}

// Flush returns the address of the innermost region of the queued starts.
// Non addressable regions keep the current program counter.
func (o *OrgTracker) Flush() (int, bool) {
	if len(o.pending) == 0 {
		return 0, false
	}
	o.starts += len(o.pending)
	reg := o.pending[len(o.pending)-1].Region
	o.pending = o.pending[:0]
	return reg.Address, reg.Address != addrmap.NonAddressable
}

// Err returns an error if region starts and ends are not balanced.
func (o *OrgTracker) Err() error {
	if o.starts != o.ends || len(o.pending) != 0 {
		return fmt.Errorf("%w: %d regions started but %d ended", ErrInternal, o.starts+len(o.pending), o.ends)
	}
	return nil
}
