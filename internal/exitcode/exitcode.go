// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown ref, ambiguous ref).
	UserError = 1

	// ConfigError indicates an unreadable settings file or unknown backend.
	ConfigError = 2

	// BackendError indicates the storage backend could not be opened.
	BackendError = 3
)
