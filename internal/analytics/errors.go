package analytics

import "errors"

var (
	// ErrIndexOutOfRange is returned by RollingAverage when the fallback
	// index used to fill the leading positions lies outside the input.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidWindow is returned for a rolling window smaller than 1.
	ErrInvalidWindow = errors.New("rolling window must be at least 1")

	// ErrUnknownSortKey is returned for a sort key outside supplier/year/amount.
	ErrUnknownSortKey = errors.New("unknown sort key")

	// ErrInvalidLimit is returned for a negative ranking limit.
	ErrInvalidLimit = errors.New("limit must not be negative")
)
