package session

import (
	"fmt"
	"sync"

	"github.com/voxboxor/voxboxor/internal/protocol/schema"
)

// PeerAllocator hands out client peer ids in [min, max], skipping ids in
// use and wrapping at max. Ids below PeerIDCltMin are never issued.
type PeerAllocator struct {
	mu    sync.Mutex
	min   schema.PeerID
	max   schema.PeerID
	next  schema.PeerID
	inUse map[schema.PeerID]struct{}
}

func NewPeerAllocator(min, max schema.PeerID) *PeerAllocator {
	if min < schema.PeerIDCltMin {
		min = schema.PeerIDCltMin
	}
	if max < min {
		max = min
	}
	return &PeerAllocator{
		min:   min,
		max:   max,
		next:  min,
		inUse: make(map[schema.PeerID]struct{}),
	}
}

// Allocate reserves the next free id.
func (a *PeerAllocator) Allocate() (schema.PeerID, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	span := int(a.max) - int(a.min) + 1
	for i := 0; i < span; i++ {
		id := a.next
		if a.next == a.max {
			a.next = a.min
		} else {
			a.next++
		}
		if _, used := a.inUse[id]; !used {
			a.inUse[id] = struct{}{}
			return id, nil
		}
	}
	return schema.PeerIDNil, fmt.Errorf("%w: %d ids in use", ErrOutOfPeerIDs, len(a.inUse))
}

// Release frees id. It reports false if id was not allocated.
func (a *PeerAllocator) Release(id schema.PeerID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.inUse[id]; !ok {
		return false
	}
	delete(a.inUse, id)
	return true
}

func (a *PeerAllocator) Allocated(id schema.PeerID) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.inUse[id]
	return ok
}

// InUse returns the number of allocated ids.
func (a *PeerAllocator) InUse() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.inUse)
}
