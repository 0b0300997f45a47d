package workload

import (
	"context"
	"runtime"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/segmentio/orderedmap/compare"
	"github.com/segmentio/orderedmap/container/tree"
)

// ErrInconsistent is returned when the map does not hold the entries the
// generator expects it to hold.
var ErrInconsistent = errors.New("map is inconsistent with the workload")

// DefaultReportEvery is the default number of changes between progress
// reports.
const DefaultReportEvery = 100_000

// How often the runner checks whether its context was canceled.
const checkEvery = 1024

// Runner applies the changes produced by a Generator to a map.
type Runner struct {
	Log         zerolog.Logger
	Metrics     *Metrics
	ReportEvery int
}

// NewRunner constructs a runner logging to log. Metrics are not collected
// unless the Metrics field is set.
func NewRunner(log zerolog.Logger) *Runner {
	return &Runner{Log: log, ReportEvery: DefaultReportEvery}
}

// Run applies every change of gen to m, then verifies that the map holds
// exactly the keys the generator expects, in order. The returned stats count
// the operations applied, including when an error interrupted the run.
func (r *Runner) Run(ctx context.Context, m *tree.Map[string, []byte], gen *Generator) (Stats, error) {
	var counter Counter[string, []byte]
	counter.Init(m)

	start := time.Now()
	since := start
	total := gen.Len()
	r.Log.Info().
		Int("changes", total).
		Int("start_size", m.Len()).
		Msg("starting workload")

	for i := 1; ; i++ {
		change, ok := gen.Next()
		if !ok {
			break
		}

		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return counter.Stats(), errors.Wrapf(err, "workload interrupted after %d changes", i-1)
			}
		}

		if err := apply(&counter, change); err != nil {
			return counter.Stats(), errors.Wrapf(err, "change %d", i)
		}
		r.Metrics.observe(change.Op)

		if r.ReportEvery > 0 && i%r.ReportEvery == 0 {
			height := m.Height()
			r.Metrics.observeShape(m.Len(), height)
			r.Log.Info().Msgf("applied %s of %s changes in %s; %s changes/s; size %s; height %s",
				humanize.Comma(int64(i)),
				humanize.Comma(int64(total)),
				time.Since(start).Round(time.Millisecond),
				humanize.Comma(int64(float64(r.ReportEvery)/time.Since(since).Seconds())),
				humanize.Comma(int64(m.Len())),
				humanize.Comma(int64(height)))
			since = time.Now()
		}
	}

	duration := time.Since(start)
	height := m.Height()
	r.Metrics.observeShape(m.Len(), height)

	if err := Verify(m, gen.Live()); err != nil {
		return counter.Stats(), err
	}

	stats := counter.Stats()
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	r.Log.Info().
		Dur("duration", duration).
		Float64("ops_per_sec", float64(stats.Total())/duration.Seconds()).
		Int64("inserts", stats.Inserts).
		Int64("updates", stats.Updates).
		Int64("deletes", stats.Deletes).
		Int64("lookups", stats.Lookups).
		Int("size", m.Len()).
		Int("height", height).
		Str("mem_alloc", humanize.Bytes(memStats.Alloc)).
		Str("mem_sys", humanize.Bytes(memStats.Sys)).
		Msg("workload complete")

	return stats, nil
}

func apply(c *Counter[string, []byte], change Change) error {
	switch change.Op {
	case OpInsert:
		if c.Insert(change.Key, change.Value) {
			return errors.Wrapf(ErrInconsistent, "insert of new key %q replaced a value", change.Key)
		}
	case OpUpdate:
		if !c.Insert(change.Key, change.Value) {
			return errors.Wrapf(ErrInconsistent, "update of key %q inserted a new entry", change.Key)
		}
	case OpDelete:
		if _, deleted := c.Delete(change.Key); !deleted {
			return errors.Wrapf(ErrInconsistent, "failed to remove key %q", change.Key)
		}
	case OpLookup:
		if _, found := c.Lookup(change.Key); !found {
			return errors.Wrapf(ErrInconsistent, "key %q not found", change.Key)
		}
	default:
		return errors.Newf("unknown operation: %s", change.Op)
	}
	return nil
}

// Verify checks that m holds size entries, that ranging over the map presents
// keys in strictly ascending order, and that iterating the map presents the
// same keys as ranging over it.
func Verify(m *tree.Map[string, []byte], size int) error {
	if n := m.Len(); n != size {
		return errors.Wrapf(ErrInconsistent, "wrong number of entries: got=%d want=%d", n, size)
	}

	keys := make([]string, 0, size)
	var err error
	m.Range(func(key string, _ []byte) bool {
		if n := len(keys); n > 0 && compare.Strings(keys[n-1], key) >= 0 {
			err = errors.Wrapf(ErrInconsistent, "key %q ranged after key %q", key, keys[n-1])
			return false
		}
		keys = append(keys, key)
		return true
	})
	if err != nil {
		return err
	}
	if len(keys) != size {
		return errors.Wrapf(ErrInconsistent, "wrong number of entries ranged: got=%d want=%d", len(keys), size)
	}

	it := m.Iter()
	defer it.Close()

	i := 0
	for ; !it.Done(); it.Next() {
		key, _ := it.Current()
		if i >= len(keys) || key != keys[i] {
			return errors.Wrapf(ErrInconsistent, "iterator presented key %q at index %d", key, i)
		}
		i++
	}
	if err := it.Err(); err != nil {
		return err
	}
	if i != len(keys) {
		return errors.Wrapf(ErrInconsistent, "wrong number of entries iterated: got=%d want=%d", i, len(keys))
	}
	return nil
}
