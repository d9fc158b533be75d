package checkout

import (
	"strconv"
	"sync"
	"time"
)

// IDGenerator issues "ORD-<unix millis>" ids. Two ids requested within the same
// millisecond get consecutive values, so ids never repeat within a process.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return "ORD-" + strconv.FormatInt(ms, 10)
}
