package id

import (
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Generator mints prefixed ULIDs, e.g. "usr_01J8ZQ5W9G...". ULIDs sort by
// creation time, which keeps "order by id" listings deterministic and
// roughly chronological.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (g *Generator) Generate(prefix string) string {
	g.mu.Lock()
	defer g.mu.Unlock()

	u := ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
	if prefix == "" {
		return u.String()
	}
	return prefix + "_" + u.String()
}

// Prefix extracts the type prefix from a generated id, or "" if none.
func Prefix(id string) string {
	i := strings.IndexByte(id, '_')
	if i < 0 {
		return ""
	}
	return id[:i]
}
