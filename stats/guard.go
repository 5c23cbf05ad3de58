package stats

import (
	"fmt"
	"sync/atomic"
)

// accessGuard is a development-mode diagnostic that detects overlapping
// read/write access. The store's real exclusivity comes from the
// RWMutex and the deferred dependency chain; the guard only makes a
// locking mistake loud during development instead of silently
// corrupting aggregates.
type accessGuard struct {
	enabled bool
	readers atomic.Int64
	writers atomic.Int64
}

func (g *accessGuard) beginRead() {
	if !g.enabled {
		return
	}
	g.readers.Add(1)
	if g.writers.Load() > 0 {
		panic(fmt.Sprintf("stats: read overlaps active write (writers=%d)", g.writers.Load()))
	}
}

func (g *accessGuard) endRead() {
	if !g.enabled {
		return
	}
	g.readers.Add(-1)
}

func (g *accessGuard) beginWrite() {
	if !g.enabled {
		return
	}
	if g.writers.Add(1) > 1 {
		panic("stats: overlapping writes detected")
	}
	if g.readers.Load() > 0 {
		panic(fmt.Sprintf("stats: write overlaps active read (readers=%d)", g.readers.Load()))
	}
}

func (g *accessGuard) endWrite() {
	if !g.enabled {
		return
	}
	g.writers.Add(-1)
}
