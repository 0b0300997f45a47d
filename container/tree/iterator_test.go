package tree

import (
	"reflect"
	"testing"
	"testing/quick"

	"github.com/cockroachdb/errors"

	"github.com/segmentio/orderedmap/compare"
)

func TestIterator(t *testing.T) {
	tests := []struct {
		scenario string
		function func(*testing.T, *Map[string, int])
	}{
		{
			scenario: "an iterator over an empty map is immediately at the end",
			function: testIteratorEmpty,
		},

		{
			scenario: "iterating presents keys in ascending order",
			function: testIteratorOrder,
		},

		{
			scenario: "iterators can be paused between lookups on the map",
			function: testIteratorPause,
		},

		{
			scenario: "replacing values does not invalidate iterators",
			function: testIteratorReplace,
		},

		{
			scenario: "inserting keys invalidates iterators",
			function: testIteratorInvalidatedByInsert,
		},

		{
			scenario: "deleting keys invalidates iterators",
			function: testIteratorInvalidatedByDelete,
		},

		{
			scenario: "closing an iterator does not modify the map",
			function: testIteratorClose,
		},
	}

	for _, test := range tests {
		t.Run(test.scenario, func(t *testing.T) {
			m := NewMap[string, int](compare.Strings)
			test.function(t, m)
			m.checkInvariants(t)
		})
	}
}

func testIteratorEmpty(t *testing.T, m *Map[string, int]) {
	it := m.Iter()
	defer it.Close()

	if !it.Done() {
		t.Error("iterator over an empty map is not at the end")
	}
	if k, ok := it.Current(); ok {
		t.Errorf("iterator over an empty map returned key=%q", k)
	}
	if it.Next() {
		t.Error("advancing an iterator at the end returned true")
	}
	if err := it.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func testIteratorOrder(t *testing.T, m *Map[string, int]) {
	for i, k := range []string{"b", "a", "d", "c", "e"} {
		m.Insert(k, i)
	}

	want := []string{"a", "b", "c", "d", "e"}
	if got := collect(m.Iter()); !reflect.DeepEqual(got, want) {
		t.Errorf("wrong keys: got=%v want=%v", got, want)
	}

	m.Delete("b")

	want = []string{"a", "c", "d", "e"}
	if got := collect(m.Iter()); !reflect.DeepEqual(got, want) {
		t.Errorf("wrong keys after deletion: got=%v want=%v", got, want)
	}
}

func testIteratorPause(t *testing.T, m *Map[string, int]) {
	for i, k := range []string{"m", "f", "t", "a", "h", "p", "z"} {
		m.Insert(k, i)
	}

	it := m.Iter()
	defer it.Close()

	var keys []string
	for !it.Done() {
		k, _ := it.Current()
		v, _ := it.Value()

		if lookup, found := m.Lookup(k); !found || lookup != v {
			t.Errorf("iterator value mismatch for key=%q: got=%d want=%d", k, v, lookup)
		}
		m.Range(func(string, int) bool { return false })

		keys = append(keys, k)
		if !it.Next() {
			t.Fatalf("advancing returned false while positioned on key=%q", k)
		}
	}

	if want := []string{"a", "f", "h", "m", "p", "t", "z"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("wrong keys: got=%v want=%v", keys, want)
	}
	if err := it.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func testIteratorReplace(t *testing.T, m *Map[string, int]) {
	m.Insert("a", 1)
	m.Insert("b", 2)

	it := m.Iter()
	m.Insert("a", 10)

	if v, ok := it.Value(); !ok || v != 10 {
		t.Errorf("wrong value after replacement: got=%d,%t want=10,true", v, ok)
	}
	if err := it.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func testIteratorInvalidatedByInsert(t *testing.T, m *Map[string, int]) {
	m.Insert("a", 1)
	m.Insert("c", 3)

	it := m.Iter()
	m.Insert("b", 2)

	assertInvalidated(t, it)
}

func testIteratorInvalidatedByDelete(t *testing.T, m *Map[string, int]) {
	m.Insert("a", 1)
	m.Insert("c", 3)

	it := m.Iter()
	it.Next()
	m.Delete("a")

	assertInvalidated(t, it)

	// Deleting a key which does not exist is not a modification.
	it = m.Iter()
	m.Delete("x")
	if err := it.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func testIteratorClose(t *testing.T, m *Map[string, int]) {
	m.Insert("a", 1)
	m.Insert("b", 2)

	it := m.Iter()
	it.Close()

	if !it.Done() {
		t.Error("closed iterator is not at the end")
	}
	if _, ok := it.Current(); ok {
		t.Error("closed iterator returned a key")
	}
	if it.Next() {
		t.Error("advancing a closed iterator returned true")
	}
	if err := it.Err(); err != nil {
		t.Errorf("unexpected error from closed iterator: %v", err)
	}
	if n := m.Len(); n != 2 {
		t.Errorf("wrong number of entries after closing iterator: got=%d want=2", n)
	}
}

func TestIteratorMatchesRange(t *testing.T) {
	m := NewMap[int32, int64](compare.Function[int32])

	f := func(keys map[int32]int64, deletes []int32) bool {
		m.Init(compare.Function[int32])

		for k, v := range keys {
			m.Insert(k, v)
		}
		for _, k := range deletes {
			m.Delete(k)
		}

		var ranged []int32
		m.Range(func(k int32, _ int64) bool {
			ranged = append(ranged, k)
			return true
		})

		iterated := collect(m.Iter())
		if !reflect.DeepEqual(iterated, ranged) {
			t.Errorf("iterator and range disagree: iterator=%v range=%v", iterated, ranged)
			return false
		}

		for i := 1; i < len(iterated); i++ {
			if iterated[i-1] >= iterated[i] {
				t.Errorf("keys not in strictly ascending order at index %d: %d >= %d", i, iterated[i-1], iterated[i])
				return false
			}
		}
		return len(iterated) == m.Len()
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func assertInvalidated[K, V any](t *testing.T, it *Iterator[K, V]) {
	t.Helper()

	if !it.Done() {
		t.Error("invalidated iterator is not at the end")
	}
	if k, ok := it.Current(); ok {
		t.Errorf("invalidated iterator returned key=%v", k)
	}
	if it.Next() {
		t.Error("advancing an invalidated iterator returned true")
	}
	if err := it.Err(); !errors.Is(err, ErrMapModified) {
		t.Errorf("wrong error from invalidated iterator: got=%v want=%v", err, ErrMapModified)
	}
}

func collect[K, V any](it *Iterator[K, V]) []K {
	defer it.Close()

	var keys []K
	for ; !it.Done(); it.Next() {
		k, _ := it.Current()
		keys = append(keys, k)
	}
	return keys
}

func BenchmarkIterator(b *testing.B) {
	m := NewMap[int, int](compare.Function[int])
	for i := 0; i < 1024; i++ {
		m.Insert((i*7919)%1024, i)
	}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for it := m.Iter(); !it.Done(); it.Next() {
		}
	}
}
