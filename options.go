package corpora

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

type config struct {
	locator      Locator
	archiveFirst bool
	logger       *zap.Logger
}

func defaultConfig() config {
	return config{
		locator: NewPathLocator(afero.NewOsFs(), DefaultSearchPath()),
		logger:  zap.NewNop(),
	}
}

// Option configures a Handle at construction time.
type Option func(*config)

// WithLocator replaces the default path locator.
func WithLocator(l Locator) Option {
	return func(c *config) {
		c.locator = l
	}
}

// WithFS keeps the default path locator but resolves against the given
// filesystem. Useful with afero.NewMemMapFs in tests.
func WithFS(fsys afero.Fs) Option {
	return func(c *config) {
		c.locator = NewPathLocator(fsys, DefaultSearchPath())
	}
}

// WithSearchPath keeps the default path locator but searches only the given
// directories, in order.
func WithSearchPath(fsys afero.Fs, dirs ...string) Option {
	return func(c *config) {
		c.locator = NewPathLocator(fsys, dirs)
	}
}

// ArchiveFirst makes the handle try the packaged archive candidate before
// (in fact, instead of falling back to) the plain directory candidate.
func ArchiveFirst() Option {
	return func(c *config) {
		c.archiveFirst = true
	}
}

// WithLogger attaches a logger for load and unload events. The default is a
// no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
