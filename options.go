package phamt

// Option configures trie construction, following the functional-options
// pattern used throughout the corpus (e.g. funvibe-funxy's
// internal/ext.BuilderOption).
type Option func(*config)

type config struct {
	promote int
	demote  int
}

// WithDensityThresholds sets the array-node promotion/demotion thresholds.
// The setting is process-wide (it configures the same global
// tunables SetDensityThresholds does — see bitmap_node.go; thresholds are
// not threaded per-Map), but is exposed as a
// construction-time Option so the common case ("build this Map with a
// denser root") reads naturally at the call site.
func WithDensityThresholds(promote, demote int) Option {
	return func(c *config) {
		c.promote = promote
		c.demote = demote
	}
}

func applyOptions(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	if c.promote > 0 || c.demote > 0 {
		SetDensityThresholds(c.promote, c.demote)
	}
	return c
}
