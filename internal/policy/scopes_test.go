package policy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildclub/mcp-server/internal/policy"
)

func TestAllow(t *testing.T) {
	engine := policy.NewEngine()
	ctx := context.Background()

	cases := []struct {
		name    string
		tool    string
		scopes  []string
		allowed bool
	}{
		{"list with read_data", "list_events", []string{"read_data"}, true},
		{"get with read_data", "get_event", []string{"read_data"}, true},
		{"register with write_data", "event_registration", []string{"write_data"}, true},
		{"register with full grant", "event_registration", []string{"read_profile", "read_data", "write_data"}, true},
		{"register with read only", "event_registration", []string{"read_data"}, false},
		{"list with profile only", "list_events", []string{"read_profile"}, false},
		{"no scopes at all", "list_events", nil, false},
		{"unknown tool", "drop_tables", []string{"write_data"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, err := engine.Allow(ctx, tc.tool, tc.scopes)
			require.NoError(t, err)
			assert.Equal(t, tc.allowed, allowed)
		})
	}
}

func TestRequiredScope(t *testing.T) {
	engine := policy.NewEngine()
	ctx := context.Background()

	scope, ok := engine.RequiredScope(ctx, "event_registration")
	require.True(t, ok)
	assert.Equal(t, "write_data", scope)

	_, ok = engine.RequiredScope(ctx, "drop_tables")
	assert.False(t, ok)
}
