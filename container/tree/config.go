package tree

// Config carries the configuration of a Map.
type Config[V any] struct {
	// Destroy is called with values evicted from the map, either when they are
	// replaced by Insert or when the map is torn down by Destroy. When nil,
	// evicted values are simply dropped.
	Destroy func(V)
}

// Apply applies the list of options passed as arguments to c.
func (c *Config[V]) Apply(options ...Option[V]) {
	for _, opt := range options {
		opt.Configure(c)
	}
}

// Option is an interface implemented by options allowing configuration of new
// Map instances.
type Option[V any] interface {
	Configure(*Config[V])
}

type option[V any] func(*Config[V])

func (opt option[V]) Configure(config *Config[V]) { opt(config) }

// Destructor is a map configuration option installing a function which takes
// ownership of values evicted from the map.
//
// Values removed by Delete are handed back to the caller and never passed to
// the destructor.
//
// Default: none
func Destructor[V any](destroy func(V)) Option[V] {
	return option[V](func(config *Config[V]) { config.Destroy = destroy })
}
