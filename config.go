package skiplist

import "github.com/pkg/errors"

// Less reports whether a orders before b. It must define a strict total
// order over K; equal keys are the ones for which neither Less(a, b) nor
// Less(b, a) holds.
type Less[K any] func(a, b K) bool

const (
	// DefaultMaxLevel is the structural ceiling on node heights.
	DefaultMaxLevel = 32
	// DefaultProbability is the level promotion bias.
	DefaultProbability = 0.5
)

// ErrInvalidConfig is returned by New when the supplied options cannot
// produce a structure with the expected probabilistic guarantees.
var ErrInvalidConfig = errors.New("skiplist: invalid configuration")

// Config holds the construction parameters of a SkipListMap.
type Config struct {
	maxLevel int
	p        float64
}

// Option mutates a Config before validation.
type Option func(*Config)

// WithMaxLevel sets the maximum height of the skip list.
func WithMaxLevel(maxLevel int) Option {
	return func(c *Config) { c.maxLevel = maxLevel }
}

// WithProbability sets the probability for skip list level promotion.
func WithProbability(p float64) Option {
	return func(c *Config) { c.p = p }
}

func defaultConfig() Config {
	return Config{
		maxLevel: DefaultMaxLevel,
		p:        DefaultProbability,
	}
}

func (c Config) validate() error {
	if c.maxLevel < 1 {
		return errors.Wrapf(ErrInvalidConfig, "max level must be at least 1, got %d", c.maxLevel)
	}
	if c.p <= 0 || c.p >= 1 {
		return errors.Wrapf(ErrInvalidConfig, "promotion probability must be in (0, 1), got %v", c.p)
	}
	return nil
}
