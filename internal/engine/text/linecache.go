package text

import "sync"

// lineCacheSize is the number of resolved lines kept per document root.
const lineCacheSize = 8

// lineCache is a small direct-mapped cache of resolved lines, slotted by line
// number. It belongs to a single document root and only speeds up repeated
// nearby lookups.
type lineCache struct {
	mu    sync.Mutex
	slots [lineCacheSize]Line
	used  [lineCacheSize]bool
}

func newLineCache() *lineCache {
	return &lineCache{}
}

// byNumber returns the cached line with the given number.
func (c *lineCache) byNumber(n int) (Line, bool) {
	if c == nil {
		return Line{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	slot := n % lineCacheSize
	if c.used[slot] && c.slots[slot].Number == n {
		return c.slots[slot], true
	}
	return Line{}, false
}

// byPos returns a cached line containing pos.
func (c *lineCache) byPos(pos int) (Line, bool) {
	if c == nil {
		return Line{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.slots {
		if c.used[i] && c.slots[i].Start <= pos && c.slots[i].End >= pos {
			return c.slots[i], true
		}
	}
	return Line{}, false
}

func (c *lineCache) add(l Line) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	slot := l.Number % lineCacheSize
	c.slots[slot] = l
	c.used[slot] = true
}
