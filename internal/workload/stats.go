package workload

import "github.com/segmentio/orderedmap/container/tree"

// Stats contains counters tracking usage of a map.
type Stats struct {
	Inserts int64
	Updates int64
	Deletes int64
	Lookups int64
	Hits    int64
}

// Total returns the number of operations counted in s.
func (s Stats) Total() int64 {
	return s.Inserts + s.Updates + s.Deletes + s.Lookups
}

// Counter wraps a tree.Map, adding measures of usage.
type Counter[K, V any] struct {
	inserts int64
	updates int64
	deletes int64
	lookups int64
	hits    int64
	backend *tree.Map[K, V]
}

func (c *Counter[K, V]) Init(backend *tree.Map[K, V]) {
	c.inserts = 0
	c.updates = 0
	c.deletes = 0
	c.lookups = 0
	c.hits = 0
	c.backend = backend
}

func (c *Counter[K, V]) Len() int {
	if c.backend != nil {
		return c.backend.Len()
	}
	return 0
}

func (c *Counter[K, V]) Insert(key K, value V) (replaced bool) {
	replaced = c.backend.Insert(key, value)
	if replaced {
		c.updates++
	} else {
		c.inserts++
	}
	return replaced
}

func (c *Counter[K, V]) Lookup(key K) (value V, found bool) {
	if c.backend != nil {
		value, found = c.backend.Lookup(key)
		c.lookups++
		if found {
			c.hits++
		}
	}
	return value, found
}

func (c *Counter[K, V]) Delete(key K) (value V, deleted bool) {
	if c.backend != nil {
		value, deleted = c.backend.Delete(key)
		if deleted {
			c.deletes++
		}
	}
	return value, deleted
}

func (c *Counter[K, V]) Stats() Stats {
	return Stats{
		Inserts: c.inserts,
		Updates: c.updates,
		Deletes: c.deletes,
		Lookups: c.lookups,
		Hits:    c.hits,
	}
}
