// Package workload generates reproducible sequences of changes and applies them
// to ordered maps, tracking usage and verifying the consistency of the map
// along the way.
package workload

import (
	"encoding/hex"
	"fmt"
	"math/rand"
)

// Op is the type of a change.
type Op int

const (
	OpInsert Op = iota
	OpUpdate
	OpDelete
	OpLookup
)

func (op Op) String() string {
	switch op {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	case OpLookup:
		return "lookup"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// Change is a single operation to apply to a map. Value is nil for deletes and
// lookups.
type Change struct {
	Op    Op
	Key   string
	Value []byte
}

// Generator produces a deterministic sequence of changes. It keeps track of
// the keys that are live after each change so updates, deletes and lookups
// always target existing keys.
type Generator struct {
	config  Config
	rand    *rand.Rand
	live    []string
	index   map[string]int
	emitted int
	seq     int
}

// NewGenerator constructs a generator from config.
func NewGenerator(config Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		config: config,
		rand:   rand.New(rand.NewSource(config.Seed)),
		live:   make([]string, 0, config.InitialSize),
		index:  make(map[string]int, config.InitialSize),
	}, nil
}

// Len returns the total number of changes the generator produces.
func (g *Generator) Len() int { return g.config.InitialSize + g.config.Changes }

// Live returns the number of keys expected to be in the map after applying
// every change emitted so far.
func (g *Generator) Live() int { return len(g.live) }

// Next returns the next change, or false when the sequence is exhausted.
func (g *Generator) Next() (Change, bool) {
	if g.emitted >= g.Len() {
		return Change{}, false
	}
	g.emitted++

	if g.emitted <= g.config.InitialSize || len(g.live) == 0 {
		return g.insert(), true
	}

	c := g.config
	switch r := g.rand.Float64(); {
	case r < c.DeleteFraction:
		key := g.pick()
		g.remove(key)
		return Change{Op: OpDelete, Key: key}, true
	case r < c.DeleteFraction+c.UpdateFraction:
		return Change{Op: OpUpdate, Key: g.pick(), Value: g.value()}, true
	case r < c.DeleteFraction+c.UpdateFraction+c.LookupFraction:
		return Change{Op: OpLookup, Key: g.pick()}, true
	default:
		return g.insert(), true
	}
}

func (g *Generator) insert() Change {
	key := g.key()
	g.index[key] = len(g.live)
	g.live = append(g.live, key)
	return Change{Op: OpInsert, Key: key, Value: g.value()}
}

func (g *Generator) pick() string {
	return g.live[g.rand.Intn(len(g.live))]
}

func (g *Generator) remove(key string) {
	i := g.index[key]
	last := len(g.live) - 1
	g.live[i] = g.live[last]
	g.index[g.live[i]] = i
	g.live = g.live[:last]
	delete(g.index, key)
}

func (g *Generator) key() string {
	g.seq++
	if g.config.Sorted {
		return fmt.Sprintf("key-%012d", g.seq)
	}

	b := make([]byte, g.config.KeyLength)
	g.rand.Read(b)
	key := hex.EncodeToString(b)
	if _, exists := g.index[key]; exists {
		// Hex never contains '-', so suffixed keys cannot collide with random
		// ones, and the sequence number keeps them unique among themselves.
		key = fmt.Sprintf("%s-%d", key, g.seq)
	}
	return key
}

func (g *Generator) value() []byte {
	b := make([]byte, g.config.ValueLength)
	g.rand.Read(b)
	return b
}
