// Package auth defines the closed set of caller roles and the
// capability table consulted at operation boundaries.
package auth

// Role is a closed enum. Unknown role strings parse to RoleUnknown,
// which holds no capabilities.
type Role string

const (
	RoleUnknown  Role = ""
	RoleViewer   Role = "viewer"
	RoleAnalyst  Role = "analyst"
	RoleOperator Role = "operator"
)

// Operation identifies a capability-gated action.
type Operation string

const (
	OpListWorkflows   Operation = "list_workflows"
	OpTriggerWorkflow Operation = "trigger_workflow"
	OpCancelWorkflow  Operation = "cancel_workflow"
	OpSessionStatus   Operation = "session_status"
	OpQueryLayers     Operation = "query_layers"
)

// capabilities is the single source of truth for role permissions.
// Triggering and cancelling workflows require the elevated operator
// role; everything else is open to any authenticated role.
var capabilities = map[Role]map[Operation]bool{
	RoleViewer: {
		OpListWorkflows: true,
		OpSessionStatus: true,
		OpQueryLayers:   true,
	},
	RoleAnalyst: {
		OpListWorkflows: true,
		OpSessionStatus: true,
		OpQueryLayers:   true,
	},
	RoleOperator: {
		OpListWorkflows:   true,
		OpTriggerWorkflow: true,
		OpCancelWorkflow:  true,
		OpSessionStatus:   true,
		OpQueryLayers:     true,
	},
}

// ParseRole maps a raw claim string onto the closed enum.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleViewer, RoleAnalyst, RoleOperator:
		return Role(s)
	default:
		return RoleUnknown
	}
}

// Can reports whether the role is allowed to perform the operation.
func Can(role Role, op Operation) bool {
	ops, ok := capabilities[role]
	if !ok {
		return false
	}
	return ops[op]
}
