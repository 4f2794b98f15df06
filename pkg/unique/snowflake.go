// Package unique generates snowflake IDs. The collector stamps one on every
// ingested event so downstream sinks can dedupe and order without
// coordinating.
package unique

import (
	"sync"

	"github.com/huynhanx03/go-telebuf/pkg/settings"
	"github.com/huynhanx03/go-telebuf/pkg/timer"
)

const (
	defaultEpoch     = 1704067200000 // 2024-01-01T00:00:00Z in millis
	defaultNodeBits  = 10
	defaultStepBits  = 12
	defaultTotalBits = 63

	// Below this bit budget millisecond timestamps overflow within years,
	// so Generate falls back to second resolution.
	coarseBitsThreshold = 50
)

// Node is one snowflake worker. IDs combine a timestamp relative to the
// configured epoch, the worker ID and a per-tick sequence, packed into the
// configured width. Generate is safe for concurrent use.
type Node struct {
	mu        sync.Mutex
	timestamp int64
	node      int64
	step      int64

	epoch     int64
	stepMax   int64
	timeShift uint8
	nodeShift uint8
	limitMask int64
	coarse    bool // second-resolution timestamps for narrow layouts

	clock timer.Timer
}

// NewNode builds a snowflake node from cfg. Zero bit fields take the classic
// layout (10 node bits, 12 step bits, 63 total). A nil clock reads the
// system clock. The worker ID must fit in the node bits.
func NewNode(cfg settings.SnowflakeNode, clock timer.Timer) (*Node, error) {
	setDefaultConfig(&cfg.Config)
	if clock == nil {
		clock = timer.NewReal()
	}

	nodeMax := int64(-1 ^ (-1 << cfg.Config.Node))
	if cfg.WorkerID < 0 || cfg.WorkerID > nodeMax {
		return nil, ErrWorkerIDOutOfRange
	}

	totalBits := cfg.Config.TotalBits
	if totalBits <= cfg.Config.Node+cfg.Config.Step {
		return nil, ErrBitLayoutInvalid
	}

	limitMask := int64(1)<<totalBits - 1
	if totalBits >= 63 {
		limitMask = int64(^uint64(0) >> 1)
	}

	coarse := totalBits < coarseBitsThreshold
	epoch := cfg.Config.Epoch
	if epoch == 0 {
		// The default epoch has to match the resolution the bit budget
		// selects; a caller-supplied epoch is taken as already matching.
		epoch = defaultEpoch
		if coarse {
			epoch = defaultEpoch / 1000
		}
	}

	return &Node{
		node: cfg.WorkerID,

		epoch:     epoch,
		stepMax:   int64(-1 ^ (-1 << cfg.Config.Step)),
		timeShift: cfg.Config.Node + cfg.Config.Step,
		nodeShift: cfg.Config.Step,
		limitMask: limitMask,
		coarse:    coarse,

		clock: clock,
	}, nil
}

// Generate returns the next ID. IDs from one node are strictly increasing:
// a clock that reads earlier than the last issued timestamp is clamped
// forward, and a sequence that wraps within one tick spins until the clock
// advances.
func (n *Node) Generate() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	now := n.read()
	if now < n.timestamp {
		now = n.timestamp
	}

	if now == n.timestamp {
		n.step = (n.step + 1) & n.stepMax
		if n.step == 0 {
			for now <= n.timestamp {
				now = n.read()
			}
		}
	} else {
		n.step = 0
	}

	n.timestamp = now

	id := ((now - n.epoch) << n.timeShift) | (n.node << n.nodeShift) | n.step
	return id & n.limitMask
}

// read returns the clock in the unit the layout affords. The epoch must be
// expressed in the same unit.
func (n *Node) read() int64 {
	if n.coarse {
		return n.clock.Now().Unix()
	}
	return n.clock.Now().UnixMilli()
}

func setDefaultConfig(cfg *settings.Snowflake) {
	if cfg.Node == 0 {
		cfg.Node = defaultNodeBits
	}
	if cfg.Step == 0 {
		cfg.Step = defaultStepBits
	}
	if cfg.TotalBits == 0 {
		cfg.TotalBits = defaultTotalBits
	}
}
