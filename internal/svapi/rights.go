package svapi

import (
	"fmt"
	"strings"

	"github.com/IBM/SVCheck/internal/exitcode"
)

// Role groups as the management API enforces them. This is not an exact map
// of reality: some commands can be delegated to specific users and will
// still be rejected by the array even when the gate passes.
var (
	copyOperatorRoles = []string{"Administrator", "SecurityAdmin", "CopyOperator"}
	adminRoles        = []string{"Administrator", "SecurityAdmin"}
)

// checkRights gates a command against the session's user role before it is
// sent. List commands are open to every role. Unknown verbs are let through
// and left for the array to reject.
func checkRights(role, command string) error {
	switch {
	case strings.HasPrefix(command, "ls"):
		return nil
	case strings.HasPrefix(command, "start"),
		strings.HasPrefix(command, "stop"),
		strings.HasPrefix(command, "prestart"),
		strings.HasPrefix(command, "prestop"):
		if containsRole(copyOperatorRoles, role) {
			return nil
		}
		return fmt.Errorf("role %s cannot run %s: %w", role, command, exitcode.ErrRole)
	case strings.HasPrefix(command, "add"),
		strings.HasPrefix(command, "ch"),
		strings.HasPrefix(command, "mk"),
		strings.HasPrefix(command, "rm"),
		command == "expandvdisksize",
		command == "movevdisk":
		if containsRole(adminRoles, role) {
			return nil
		}
		return fmt.Errorf("role %s cannot run %s: %w", role, command, exitcode.ErrRole)
	default:
		return nil
	}
}

func containsRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
