// internal/service/auth/auth_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateResetCodeFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := generateResetCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "code %q contains non-digit", code)
		}
		seen[code] = true
	}
	// 50 draws from a million values colliding every time would mean the
	// generator is broken.
	assert.Greater(t, len(seen), 1)
}

func TestDefaultLanguage(t *testing.T) {
	assert.Equal(t, "fr", defaultLanguage(""))
	assert.Equal(t, "ar", defaultLanguage("ar"))
	assert.Equal(t, "fr", defaultLanguage("fr"))
}
