package shared_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chancery-dms/chancery/internal/shared"
)

func TestCoreScopesCoverTheCatalogue(t *testing.T) {
	scopes := shared.CoreScopes()
	require.NotEmpty(t, scopes)

	seen := make(map[string]bool, len(scopes))
	for _, name := range scopes {
		require.False(t, seen[name], "duplicate scope %q", name)
		seen[name] = true
	}
	require.Contains(t, scopes, shared.PermUserImpersonate)
	require.Contains(t, scopes, shared.PermProceedingAttachBox)
}
