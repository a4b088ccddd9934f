package config

import "errors"

// Validation errors returned when a configuration group is incomplete.
var (
	// ErrInvalidAdapterConfigs indicates a missing server address or timeout
	// on the client.
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates a missing DSN or journal path.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidAppConfigs indicates missing keys or token settings.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidServerConfigs indicates a missing address or timeout.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidLimiterConfigs indicates a redis limiter without limits.
	ErrInvalidLimiterConfigs = errors.New("invalid limiter configuration")
	// ErrInvalidWorkerConfigs indicates a zero worker interval.
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
)
