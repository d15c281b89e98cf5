// Package snowflake generates time-ordered, process-unique identifiers.
//
// An identifier packs a millisecond timestamp relative to a fixed epoch
// into the high bits and a per-millisecond sequence counter into the low
// 12 bits, so identifiers sort by creation time and never repeat as long
// as the wall clock does not move backwards.
package snowflake

import (
	"errors"
	"sync"
	"time"
)

// Epoch is the generator's reference point, 2021-01-01T00:00:00Z in
// milliseconds. Changing it breaks compatibility with stored identifiers.
const Epoch = 1609459200000

const (
	sequenceBits = 12
	maxSequence  = -1 ^ (-1 << sequenceBits)
)

// ErrClockRegression is returned when the wall clock reads earlier than
// the timestamp of the previous identifier. The request fails; the caller
// decides whether to retry.
var ErrClockRegression = errors.New("clock moved backwards, refusing to generate id")

// Node is a single identifier generator. All methods are safe for
// concurrent use. The zero value is not usable; construct with NewNode.
type Node struct {
	mu            sync.Mutex
	sequence      int64
	lastTimestamp int64
	now           func() int64
}

// NewNode returns a generator reading the system clock.
func NewNode() *Node {
	return &Node{
		lastTimestamp: -1,
		now:           func() int64 { return time.Now().UnixMilli() },
	}
}

// NewNodeWithClock returns a generator reading millisecond timestamps from
// clock instead of the system clock.
func NewNodeWithClock(clock func() int64) *Node {
	return &Node{
		lastTimestamp: -1,
		now:           clock,
	}
}

// Generate returns the next identifier. Within a single millisecond up to
// 4096 identifiers are issued; once the sequence is exhausted Generate
// spins until the clock reaches the next millisecond.
func (n *Node) Generate() (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ts := n.now()
	if ts < n.lastTimestamp {
		return 0, ErrClockRegression
	}

	if ts == n.lastTimestamp {
		n.sequence = (n.sequence + 1) & maxSequence
		if n.sequence == 0 {
			ts = n.waitNextMillis(n.lastTimestamp)
		}
	} else {
		n.sequence = 0
	}

	n.lastTimestamp = ts

	return (ts-Epoch)<<sequenceBits | n.sequence, nil
}

func (n *Node) waitNextMillis(last int64) int64 {
	ts := n.now()
	for ts <= last {
		ts = n.now()
	}
	return ts
}
