// Package idalloc finds the smallest unused uid/gid within a configured
// range. Callers supply the set of ids currently in use; the allocator
// itself holds no state beyond the configured bounds.
package idalloc

import (
	"github.com/accountd/accountd/pkg/accounterr"
)

// Range bounds an id search, inclusive on both ends.
type Range struct {
	Min uint32
	Max uint32
}

// Allocator picks the smallest free id in a Range.
type Allocator struct {
	r Range
}

// New builds an Allocator over [min, max].
func New(min, max uint32) *Allocator {
	return &Allocator{r: Range{Min: min, Max: max}}
}

// Next returns the smallest id in the configured range not present in
// inUse. preferred, when non-zero and within range and free, is returned
// instead of scanning, matching preferred-gid behavior for
// group creation.
func (a *Allocator) Next(inUse map[uint32]bool, preferred uint32) (uint32, error) {
	if preferred != 0 && preferred >= a.r.Min && preferred <= a.r.Max && !inUse[preferred] {
		return preferred, nil
	}
	for id := a.r.Min; id <= a.r.Max; id++ {
		if !inUse[id] {
			return id, nil
		}
		if id == a.r.Max {
			break
		}
	}
	return 0, accounterr.Newf(accounterr.IdExhausted, "no free id available in range [%d, %d]", a.r.Min, a.r.Max)
}
