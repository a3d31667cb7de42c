package parking

import (
	"fmt"
	"sync/atomic"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// idAlphabet avoids visually ambiguous characters, matching the short opaque
// ids this codebase generates elsewhere with go-nanoid.
const idAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// IDGenerator produces the core-generated, prefixed ids described in the
// design doc: a recognizable prefix, a monotonic counter, and a random
// suffix. Only stability and uniqueness are contractual; callers must not
// parse these ids for meaning.
type IDGenerator struct {
	prefix  string
	counter uint64
}

// NewIDGenerator returns a generator that stamps every id with prefix.
func NewIDGenerator(prefix string) *IDGenerator {
	return &IDGenerator{prefix: prefix}
}

// Next returns the next id, e.g. "REQ-000001-7F3KQ2".
func (g *IDGenerator) Next() string {
	n := atomic.AddUint64(&g.counter, 1)
	suffix, err := gonanoid.Generate(idAlphabet, 6)
	if err != nil {
		// gonanoid only fails on a broken entropy source; fall back to the
		// counter alone rather than panic inside a core operation.
		suffix = fmt.Sprintf("%06d", n)
	}
	return fmt.Sprintf("%s-%06d-%s", g.prefix, n, suffix)
}
