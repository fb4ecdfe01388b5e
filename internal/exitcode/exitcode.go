// Package exitcode defines the error taxonomy of a report run and the
// process exit code each error class maps to. The codes are part of the
// tool's documented interface and are relied on by wrapper scripts.
package exitcode

import "errors"

// Process exit codes, one per error class.
const (
	Success          = 0
	GenericError     = 1
	ExcelWriteError  = 2
	CommandError     = 3
	CredentialsError = 4
	RoleError        = 5
	UnreachableError = 6
	ModelLoadError   = 7
)

// Sentinel errors carried (via %w wrapping) by everything that can fail a
// run. Callers classify with errors.Is and FromError.
var (
	ErrExcelWrite  = errors.New("cannot write workbook")
	ErrCommand     = errors.New("command failed")
	ErrCredentials = errors.New("credentials rejected")
	ErrRole        = errors.New("insufficient role")
	ErrUnreachable = errors.New("management API unreachable")
	ErrModelLoad   = errors.New("cannot load data model")
)

// FromError maps an error to its process exit code. A nil error maps to
// Success, an unclassified error to GenericError.
func FromError(err error) int {
	switch {
	case err == nil:
		return Success
	case errors.Is(err, ErrExcelWrite):
		return ExcelWriteError
	case errors.Is(err, ErrCommand):
		return CommandError
	case errors.Is(err, ErrCredentials):
		return CredentialsError
	case errors.Is(err, ErrRole):
		return RoleError
	case errors.Is(err, ErrUnreachable):
		return UnreachableError
	case errors.Is(err, ErrModelLoad):
		return ModelLoadError
	default:
		return GenericError
	}
}
