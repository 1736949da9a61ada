package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrSessionNotFound indicates that a session with the given ID does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrDatasetNotLoaded indicates that no base dataset has been generated or loaded yet.
	ErrDatasetNotLoaded = errors.New("dataset not loaded")

	// ErrEmptyDataset indicates that the dataset has no records to work with.
	ErrEmptyDataset = errors.New("dataset is empty")

	// ErrCacheMiss indicates that a cache lookup found no entry for the key.
	ErrCacheMiss = errors.New("cache miss")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrUnknownMetric indicates that a metric name is not part of the metric policy table.
	ErrUnknownMetric = errors.New("unknown metric")

	// ErrUnknownPeriod indicates that a period label is not among the enumerated options.
	ErrUnknownPeriod = errors.New("unknown period")

	// ErrInvalidPeriodType indicates an unsupported period type.
	ErrInvalidPeriodType = errors.New("invalid period type")

	// ErrInvalidCalendar indicates an unsupported calendar type.
	ErrInvalidCalendar = errors.New("invalid calendar")

	// ErrNoDataBeforeDate indicates that a requested period boundary predates every dataset date.
	ErrNoDataBeforeDate = errors.New("no data on or before requested date")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrInvalidExportFormat indicates an export format other than csv or xlsx.
	ErrInvalidExportFormat = errors.New("invalid export format")

	ErrInvalidDate = errors.New("invalid date")

	// ErrDefaultSession indicates an operation that is not allowed on the default session.
	ErrDefaultSession = errors.New("operation not allowed on the default session")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// Dataset operation errors
	ErrFailedToLoadDataset     = errors.New("failed to load dataset")
	ErrFailedToGenerateDataset = errors.New("failed to generate dataset")
	ErrFailedToStoreDataset    = errors.New("failed to store dataset")

	// Export operation errors
	ErrFailedToExport = errors.New("failed to export")

	// System operation errors
	ErrFailedToGetVersionInfo = errors.New("failed to get version information")
)

// Data integrity errors represent inconsistencies or corruption in the data.
var (
	// ErrDataInconsistency indicates that a record violates a dataset invariant
	// (e.g., properties is not leases plus vacancies).
	ErrDataInconsistency = errors.New("data inconsistency detected")
)
