// Package bloom provides a probabilistic URL set used as a negative cache
// in front of slower membership lookups.
package bloom

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// Filter is a Bloom filter over URLs. It is safe for concurrent use.
type Filter struct {
	mu       sync.RWMutex
	f        *bloom.BloomFilter
	capacity uint
}

// NewFilter creates a filter sized for capacity URLs at the given false
// positive rate.
func NewFilter(capacity uint, fpRate float64) *Filter {
	return &Filter{
		f:        bloom.NewWithEstimates(capacity, fpRate),
		capacity: capacity,
	}
}

// Add records url.
func (f *Filter) Add(url string) {
	f.mu.Lock()
	f.f.AddString(url)
	f.mu.Unlock()
}

// Test reports whether url may have been added. A false result is exact.
func (f *Filter) Test(url string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.f.TestString(url)
}

// EstimatedCount returns the approximate number of distinct URLs added.
func (f *Filter) EstimatedCount() uint {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return uint(f.f.ApproximatedSize())
}

// Saturated reports whether more URLs were added than the filter was sized
// for, after which the false positive rate exceeds the requested one.
func (f *Filter) Saturated() bool {
	return f.EstimatedCount() > f.capacity
}
