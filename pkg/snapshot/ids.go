package snapshot

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator hands out snapshot ids unique within a process run. Ids share a
// random per-generator prefix followed by a counter.
type IDGenerator struct {
	prefix string
	next   atomic.Uint64
}

// NewIDGenerator creates a generator with a fresh prefix.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{prefix: uuid.NewString()[:8]}
}

// Next returns the next id.
func (g *IDGenerator) Next() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.next.Add(1))
}
