package access

import (
	"fmt"

	"github.com/attune-labs/attune/internal/domain/user"
)

// ErrUnknownCapability marks a capability name no entry in the permission
// table: a bug in the calling endpoint, not a user error. The gate fails
// closed and the middleware logs it distinctly from a legitimate Forbidden.
type ErrUnknownCapability struct {
	Capability string
}

func (e *ErrUnknownCapability) Error() string {
	return fmt.Sprintf("unknown capability %q", e.Capability)
}

// Gate decides whether a resolved identity may use a named capability. It is
// a pure function of its inputs: no side effects, no I/O.
type Gate struct {
	table *PermissionTable
}

// NewGate creates a gate over the given permission table
func NewGate(table *PermissionTable) *Gate {
	return &Gate{table: table}
}

// Authorize returns whether (role, tier) may use the capability. The admin
// role allows unconditionally. A non-nil error means the capability does not
// exist; allowed is false in that case.
func (g *Gate) Authorize(role, tier, capability string) (bool, error) {
	if role == user.RoleAdmin {
		return true, nil
	}
	if !g.table.Known(capability) {
		return false, &ErrUnknownCapability{Capability: capability}
	}
	return g.table.Allows(capability, tier), nil
}

// Table returns the gate's permission table
func (g *Gate) Table() *PermissionTable {
	return g.table
}
