package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnlyOperatorCanTriggerAndCancel(t *testing.T) {
	for _, role := range []Role{RoleViewer, RoleAnalyst} {
		assert.False(t, Can(role, OpTriggerWorkflow), "role %s", role)
		assert.False(t, Can(role, OpCancelWorkflow), "role %s", role)
	}
	assert.True(t, Can(RoleOperator, OpTriggerWorkflow))
	assert.True(t, Can(RoleOperator, OpCancelWorkflow))
}

func TestEveryKnownRoleCanListAndQuery(t *testing.T) {
	for _, role := range []Role{RoleViewer, RoleAnalyst, RoleOperator} {
		assert.True(t, Can(role, OpListWorkflows), "role %s", role)
		assert.True(t, Can(role, OpQueryLayers), "role %s", role)
		assert.True(t, Can(role, OpSessionStatus), "role %s", role)
	}
}

func TestUnknownRoleHasNoCapabilities(t *testing.T) {
	assert.False(t, Can(RoleUnknown, OpListWorkflows))
	assert.False(t, Can(Role("superuser"), OpTriggerWorkflow))
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleOperator, ParseRole("operator"))
	assert.Equal(t, RoleAnalyst, ParseRole("analyst"))
	assert.Equal(t, RoleViewer, ParseRole("viewer"))
	assert.Equal(t, RoleUnknown, ParseRole("root"))
	assert.Equal(t, RoleUnknown, ParseRole(""))
}
