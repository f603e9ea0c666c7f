package imports

import "errors"

var (
	// ErrRunInProgress is returned when another run holds the profile's table.
	ErrRunInProgress = errors.New("an import is already running for this table")
	// ErrNoInput is returned when a run has neither a body nor a storage object.
	ErrNoInput = errors.New("no csv input")
	// ErrDatabaseUnavailable is returned when no database connection was established.
	ErrDatabaseUnavailable = errors.New("database unavailable")
	// ErrStorageUnavailable is returned when object storage is not configured.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
