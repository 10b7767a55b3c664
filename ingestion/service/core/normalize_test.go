package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tenlog/internal/models"
)

func TestNormalizeJSONValid(t *testing.T) {
	body := []byte(`{"tenant_id":"acme","log_id":"123","text":"User 555-0199 accessed the dashboard"}`)

	env, err := NormalizeJSON(body)
	require.NoError(t, err)
	assert.Equal(t, "acme", env.TenantID)
	assert.Equal(t, "123", env.LogID)
	assert.Equal(t, "User 555-0199 accessed the dashboard", env.Text)
	assert.Equal(t, models.SourceJSONUpload, env.Source)
}

func TestNormalizeJSONGeneratesLogID(t *testing.T) {
	body := []byte(`{"tenant_id":"acme","text":"hello"}`)

	env, err := NormalizeJSON(body)
	require.NoError(t, err)
	assert.NotEmpty(t, env.LogID)
}

func TestNormalizeJSONFailures(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", `this is not json`},
		{"missing tenant_id", `{"text":"hello"}`},
		{"empty tenant_id", `{"tenant_id":"","text":"hello"}`},
		{"non-string tenant_id", `{"tenant_id":42,"text":"hello"}`},
		{"missing text", `{"tenant_id":"acme"}`},
		{"empty text", `{"tenant_id":"acme","text":""}`},
		{"non-string text", `{"tenant_id":"acme","text":false}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env, err := NormalizeJSON([]byte(tc.body))
			assert.Nil(t, env)
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestNormalizeText(t *testing.T) {
	env, err := NormalizeText("beta_inc", []byte("User 555-0199 accessed the dashboard via text upload"))
	require.NoError(t, err)
	assert.Equal(t, "beta_inc", env.TenantID)
	assert.NotEmpty(t, env.LogID)
	assert.Equal(t, "User 555-0199 accessed the dashboard via text upload", env.Text)
	assert.Equal(t, models.SourceTextUpload, env.Source)
}

func TestNormalizeTextMissingTenant(t *testing.T) {
	env, err := NormalizeText("", []byte("some text"))
	assert.Nil(t, env)
	assert.ErrorIs(t, err, ErrMissingTenant)
}

func TestGeneratedLogIDsAreUnique(t *testing.T) {
	const n = 10000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		env, err := NormalizeText("acme", []byte("x"))
		require.NoError(t, err)
		_, dup := seen[env.LogID]
		require.False(t, dup, "duplicate generated log_id: %s", env.LogID)
		seen[env.LogID] = struct{}{}
	}
}
