package listing

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hugr-lab/listing/filter"
)

// Config contains configuration of the listing engine.
// A Config is a value: once handed to NewService it is never modified.
type Config struct {
	// Operators is the filter operator table.
	// OPTIONAL: DefaultConfig() uses filter.DefaultOperators().
	Operators filter.Operators

	// DefaultIndex is the index used when neither index nor page is given.
	DefaultIndex int

	// DefaultPage is the page used when no page can be derived.
	DefaultPage int

	// DefaultLimit is the limit used when none is given.
	// A limit of 0 given explicitly means no limit.
	DefaultLimit int

	// MaxBackoff caps the number of pages the empty-page backoff steps back.
	// OPTIONAL: If 0, the backoff is disabled.
	MaxBackoff int

	// Location is the zone filter dates are interpreted in.
	// OPTIONAL: Uses time.Local if nil.
	Location *time.Location

	// Logger for internal logging.
	// OPTIONAL: Uses slog.Default() if nil.
	// Note: If LogLevel is specified, a new logger will be created with that level.
	Logger *slog.Logger

	// LogLevel sets the logging level.
	// OPTIONAL: If nil, uses Info level.
	// If Logger is also provided, LogLevel is ignored (use pre-configured logger).
	LogLevel *slog.Level
}

// DefaultConfig returns the default configuration:
// index 0, page 1, limit 10, backoff over at most 1000 pages.
func DefaultConfig() Config {
	return Config{
		Operators:    filter.DefaultOperators(),
		DefaultIndex: 0,
		DefaultPage:  1,
		DefaultLimit: 10,
		MaxBackoff:   1000,
	}
}

// Validate checks the configuration.
// Returns an error wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	if err := c.Operators.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.DefaultIndex < 0 {
		return fmt.Errorf("%w: negative default index %d", ErrInvalidConfig, c.DefaultIndex)
	}
	if c.DefaultPage < 1 {
		return fmt.Errorf("%w: default page %d is less than 1", ErrInvalidConfig, c.DefaultPage)
	}
	if c.DefaultLimit < 0 {
		return fmt.Errorf("%w: negative default limit %d", ErrInvalidConfig, c.DefaultLimit)
	}
	if c.MaxBackoff < 0 {
		return fmt.Errorf("%w: negative max backoff %d", ErrInvalidConfig, c.MaxBackoff)
	}
	return nil
}

// NewParameters returns empty parameters that fall back to the defaults of c.
func (c Config) NewParameters() *Parameters {
	return &Parameters{defaults: &defaults{
		index: c.DefaultIndex,
		page:  c.DefaultPage,
		limit: c.DefaultLimit,
		ops:   c.Operators,
	}}
}

func (c Config) location() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.Local
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if c.LogLevel != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: *c.LogLevel}))
	}
	return slog.Default()
}

// Standard errors returned by listing package.
var (
	// ErrInvalidConfig indicates Config validation failed.
	ErrInvalidConfig = errors.New("invalid listing config")

	// ErrNilStore indicates a listing was requested without a store.
	ErrNilStore = errors.New("nil listing store")

	// ErrNilCatalog indicates a service was created without a field catalog.
	ErrNilCatalog = errors.New("nil field catalog")

	// ErrEntityNotFound indicates the catalog does not know the listed entity.
	ErrEntityNotFound = errors.New("listing entity not found")
)
