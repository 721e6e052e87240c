package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRUDScopes_IDsAndOrder(t *testing.T) {
	scopes := CRUDScopes("fleet", "")
	require.Len(t, scopes, 4)

	ids := make([]string, 0, 4)
	for _, s := range scopes {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"fleet:read", "fleet:write", "fleet:delete", "fleet:admin"}, ids)
	assert.Equal(t, "Read fleet", scopes[0].Name)
	assert.Equal(t, "View fleet data", scopes[0].Description)
	assert.Equal(t, "fleet", scopes[0].Resource)
	assert.Equal(t, "read", scopes[0].Action)
}

func TestCRUDScopes_DisplayName(t *testing.T) {
	scopes := CRUDScopes("fleet", "Fleet Ops")
	require.Len(t, scopes, 4)
	assert.Equal(t, "Read Fleet Ops", scopes[0].Name)
	assert.Equal(t, "Write Fleet Ops", scopes[1].Name)
	assert.Equal(t, "Delete Fleet Ops", scopes[2].Name)
	assert.Equal(t, "Admin Fleet Ops", scopes[3].Name)
	assert.Equal(t, "Create and update Fleet Ops data", scopes[1].Description)
	assert.Equal(t, "Full administrative access to Fleet Ops", scopes[3].Description)
}

func TestTribalScopes_IDsAndOrder(t *testing.T) {
	scopes := TribalScopes("warehouse", "")
	require.Len(t, scopes, 4)

	ids := make([]string, 0, 4)
	for _, s := range scopes {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"warehouse:member", "warehouse:officer", "warehouse:director", "warehouse:ceo"}, ids)
	assert.Equal(t, "warehouse Member", scopes[0].Name)
}

func TestTribalScopes_DisplayName(t *testing.T) {
	scopes := TribalScopes("warehouse", "Warehouse")
	assert.Equal(t, "Warehouse Member", scopes[0].Name)
	assert.Equal(t, "Warehouse Officer", scopes[1].Name)
	assert.Equal(t, "Warehouse Director", scopes[2].Name)
	assert.Equal(t, "Warehouse CEO", scopes[3].Name)
}
