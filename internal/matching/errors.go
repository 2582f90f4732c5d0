package matching

import "errors"

var (
	// ErrDeadlineExceeded is returned when a search runs past its deadline.
	// Callers can distinguish it from an empty result set and offer a retry.
	ErrDeadlineExceeded = errors.New("search deadline exceeded")

	// ErrCatalogUnavailable is returned when the ingredient, recipe or
	// inventory catalog cannot be read. Scoring without a catalog is
	// meaningless, so this fails the whole query.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
