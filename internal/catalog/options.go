package catalog

import (
	"github.com/ytget/learnsync/internal/logging"
	"github.com/ytget/learnsync/internal/model"
)

// Option configures a Catalog
type Option func(*Catalog)

// WithProber sets the backing-store existence probe used for completion
func WithProber(p model.Prober) Option {
	return func(c *Catalog) {
		if p != nil {
			c.prober = p
		}
	}
}

// WithStore sets where the catalog document is persisted after each mutation
func WithStore(s Store) Option {
	return func(c *Catalog) {
		c.store = s
	}
}

// WithPolicies sets the per-level overwrite policies
func WithPolicies(p model.Policies) Option {
	return func(c *Catalog) {
		c.policies = p.WithDefaults()
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.log = l
		}
	}
}

// WithExpectedCourses sets how many courses the job is expected to contain
func WithExpectedCourses(n int) Option {
	return func(c *Catalog) {
		c.expectedCourses = max(n, 0)
	}
}
