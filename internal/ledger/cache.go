package ledger

import (
	"encoding/binary"
	"math"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DefaultCacheSize is used when NewCache is given a non-positive size.
const DefaultCacheSize = 128

// Cache memoizes ledger reports keyed by a digest of the ledger content.
// Any change to members or expenses produces a different key, so entries
// never need explicit invalidation. When full, the oldest entry is evicted.
//
// Returned reports share slices with the cache and must not be modified.
type Cache struct {
	mu      sync.Mutex
	size    int
	entries map[uint64]Report
	order   []uint64
}

// NewCache creates a cache holding at most size reports.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &Cache{
		size:    size,
		entries: make(map[uint64]Report, size),
	}
}

// Report returns the report for l, computing it on a miss.
// The boolean reports whether the result came from the cache.
func (c *Cache) Report(l *Ledger) (Report, bool) {
	key := l.Digest()

	c.mu.Lock()
	if r, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return r, true
	}
	c.mu.Unlock()

	// Compute outside the lock; a concurrent miss on the same key computes the same value
	r := l.Report()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		if len(c.order) >= c.size {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.entries[key] = r
		c.order = append(c.order, key)
	}
	return r, false
}

// Len returns the number of cached reports.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Digest hashes the ledger content. Order matters: the same data in a
// different order yields a different digest.
func (l *Ledger) Digest() uint64 {
	d := xxhash.New()
	var buf [8]byte

	writeString := func(s string) {
		binary.LittleEndian.PutUint64(buf[:], uint64(len(s)))
		d.Write(buf[:])
		d.WriteString(s)
	}
	writeUint := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		d.Write(buf[:])
	}

	writeUint(uint64(len(l.members)))
	for _, m := range l.members {
		writeString(m.Name)
	}

	writeUint(uint64(len(l.expenses)))
	for _, e := range l.expenses {
		writeUint(math.Float64bits(e.Amount))
		writeString(e.PaidBy)
		writeString(e.Category)
		writeUint(uint64(len(e.Participants)))
		for _, p := range e.Participants {
			writeString(p)
		}
	}

	return d.Sum64()
}
