package workload

import (
	"github.com/cockroachdb/errors"
)

const (
	// DefaultInitialSize is the number of keys inserted before mixed changes
	// start being generated.
	DefaultInitialSize = 10_000

	// DefaultChanges is the number of mixed changes generated after the
	// initial inserts.
	DefaultChanges = 100_000

	// DefaultDeleteFraction is the share of mixed changes deleting a live key.
	DefaultDeleteFraction = 0.2

	// DefaultUpdateFraction is the share of mixed changes replacing the value
	// of a live key.
	DefaultUpdateFraction = 0.3

	// DefaultLookupFraction is the share of mixed changes looking up a live
	// key.
	DefaultLookupFraction = 0.2

	// DefaultKeyLength is the number of random bytes in generated keys. Keys
	// are hex encoded, so their length in characters is twice this value.
	DefaultKeyLength = 16

	// DefaultValueLength is the size of generated values in bytes.
	DefaultValueLength = 64
)

// Config carries the configuration of a workload.
type Config struct {
	Seed           int64
	InitialSize    int
	Changes        int
	DeleteFraction float64
	UpdateFraction float64
	LookupFraction float64
	KeyLength      int
	ValueLength    int
	// When true, new keys are generated in ascending order, which degrades
	// the unbalanced tree into a linked list.
	Sorted bool
}

// DefaultConfig constructs a new Config instance initialized with the default
// configuration.
func DefaultConfig() *Config {
	return &Config{
		InitialSize:    DefaultInitialSize,
		Changes:        DefaultChanges,
		DeleteFraction: DefaultDeleteFraction,
		UpdateFraction: DefaultUpdateFraction,
		LookupFraction: DefaultLookupFraction,
		KeyLength:      DefaultKeyLength,
		ValueLength:    DefaultValueLength,
	}
}

// Apply applies the list of options passed as arguments to c.
func (c *Config) Apply(options ...Option) {
	for _, opt := range options {
		opt.Configure(c)
	}
}

// Validate returns an error if the configuration cannot be used to generate a
// workload.
func (c *Config) Validate() error {
	switch {
	case c.InitialSize < 0:
		return errors.Newf("initial size must not be negative: %d", c.InitialSize)
	case c.Changes < 0:
		return errors.Newf("change count must not be negative: %d", c.Changes)
	case c.KeyLength < 1:
		return errors.Newf("key length must be at least 1: %d", c.KeyLength)
	case c.ValueLength < 0:
		return errors.Newf("value length must not be negative: %d", c.ValueLength)
	}

	for _, f := range []struct {
		name  string
		value float64
	}{
		{"delete", c.DeleteFraction},
		{"update", c.UpdateFraction},
		{"lookup", c.LookupFraction},
	} {
		if f.value < 0 || f.value > 1 {
			return errors.Newf("%s fraction must be between 0 and 1: %g", f.name, f.value)
		}
	}

	if sum := c.DeleteFraction + c.UpdateFraction + c.LookupFraction; sum > 1 {
		return errors.Newf("sum of delete, update and lookup fractions must not exceed 1: %g", sum)
	}
	return nil
}

// Option is an interface implemented by options allowing configuration of
// workloads.
type Option interface {
	Configure(*Config)
}

type option func(*Config)

func (opt option) Configure(config *Config) { opt(config) }

// Seed sets the seed of the random source, workloads with the same
// configuration and seed generate the same sequence of changes.
//
// Default: 0
func Seed(seed int64) Option {
	return option(func(config *Config) { config.Seed = seed })
}

// InitialSize sets the number of keys inserted before mixed changes start.
//
// Default: 10000
func InitialSize(size int) Option {
	return option(func(config *Config) { config.InitialSize = size })
}

// Changes sets the number of mixed changes generated after the initial
// inserts.
//
// Default: 100000
func Changes(count int) Option {
	return option(func(config *Config) { config.Changes = count })
}

// DeleteFraction sets the share of mixed changes deleting a live key.
//
// Default: 0.2
func DeleteFraction(fraction float64) Option {
	return option(func(config *Config) { config.DeleteFraction = fraction })
}

// UpdateFraction sets the share of mixed changes replacing the value of a live
// key.
//
// Default: 0.3
func UpdateFraction(fraction float64) Option {
	return option(func(config *Config) { config.UpdateFraction = fraction })
}

// LookupFraction sets the share of mixed changes looking up a live key.
//
// Default: 0.2
func LookupFraction(fraction float64) Option {
	return option(func(config *Config) { config.LookupFraction = fraction })
}

// KeyLength sets the number of random bytes in generated keys.
//
// Default: 16
func KeyLength(length int) Option {
	return option(func(config *Config) { config.KeyLength = length })
}

// ValueLength sets the size of generated values.
//
// Default: 64
func ValueLength(length int) Option {
	return option(func(config *Config) { config.ValueLength = length })
}

// Sorted makes the generator produce new keys in ascending order.
//
// Default: false
func Sorted(sorted bool) Option {
	return option(func(config *Config) { config.Sorted = sorted })
}
