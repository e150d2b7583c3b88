package mapdoc

import (
	"sync/atomic"
	"time"
)

// Stamp is a modification time that strictly increases across all
// components of all documents in the process.
type Stamp int64

var lastStamp atomic.Int64

// touch returns a stamp later than every stamp handed out before.
func touch() Stamp {
	for {
		prev := lastStamp.Load()
		next := time.Now().UnixNano()
		if next <= prev {
			next = prev + 1
		}
		if lastStamp.CompareAndSwap(prev, next) {
			return Stamp(next)
		}
	}
}

// After reports whether s is later than other.
func (s Stamp) After(other Stamp) bool {
	return s > other
}

// Time converts the stamp to wall clock time.
func (s Stamp) Time() time.Time {
	if s == 0 {
		return time.Time{}
	}
	return time.Unix(0, int64(s))
}
