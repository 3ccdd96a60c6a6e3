package wx

import "fmt"

// GustWindow is a fixed-size ring of wind readings covering the trailing
// ten minutes. Capacity is the next power of two above the slot count so
// the write index wraps with a mask.
type GustWindow struct {
	slots  []WindVector
	idx    int
	tenmin int
}

// NewGustWindow sizes a window for the given number of seconds between
// samples.
func NewGustWindow(interval int) (*GustWindow, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("gust window: interval %d must be positive", interval)
	}
	tenmin := 10*60/interval + 1
	n := 1
	for i := tenmin; i > 0; i >>= 1 {
		n <<= 1
	}
	return &GustWindow{slots: make([]WindVector, n), tenmin: tenmin}, nil
}

// Push records the current wind and returns the strongest reading in the
// trailing ten minutes, the new reading included. Ties keep the earliest
// reading.
func (g *GustWindow) Push(w WindVector) WindVector {
	mask := len(g.slots) - 1
	g.slots[g.idx] = w
	g.idx = (g.idx + 1) & mask

	f := (g.idx + len(g.slots) - g.tenmin) & mask
	best := g.slots[f]
	for i := 1; i < g.tenmin; i++ {
		if s := g.slots[(f+i)&mask]; s.Speed > best.Speed {
			best = s
		}
	}
	return best
}
