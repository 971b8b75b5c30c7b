package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildclub/mcp-server/internal/models"
	"github.com/buildclub/mcp-server/internal/render"
)

func TestConsentLoggedIn_EmbedsRequestForRoundTrip(t *testing.T) {
	request := &models.AuthRequest{
		ClientID:    "client-1",
		RedirectURI: "https://client.example/cb",
		Scope:       []string{"read_data"},
		State:       "xyz",
	}

	page, err := render.New(2000).ConsentLoggedIn(models.OAuthScopes, request, "user@example.com", "password")
	require.NoError(t, err)

	// the hidden field carries the serialized request (HTML-escaped quotes)
	assert.Contains(t, page, "&#34;clientId&#34;:&#34;client-1&#34;")
	assert.Contains(t, page, `value="user@example.com"`)
	assert.Contains(t, page, `value="approve"`)
	assert.Contains(t, page, `value="reject"`)

	for _, scope := range models.OAuthScopes {
		assert.Contains(t, page, scope.Name)
		assert.Contains(t, page, scope.Description)
	}
}

func TestConsentLoggedOut_RequiresLogin(t *testing.T) {
	request := &models.AuthRequest{ClientID: "client-1"}

	page, err := render.New(2000).ConsentLoggedOut(models.OAuthScopes, request)
	require.NoError(t, err)

	assert.Contains(t, page, `name="email"`)
	assert.Contains(t, page, `name="password"`)
	assert.Contains(t, page, `value="login_approve"`)
}

func TestOutcome_SuccessWithDelayedRedirect(t *testing.T) {
	page, err := render.New(2000).Outcome("Authorization approved!", "success", "https://client.example/cb?code=abc")
	require.NoError(t, err)

	assert.Contains(t, page, "Authorization approved!")
	assert.Contains(t, page, "badge-success")
	assert.Contains(t, page, `"https://client.example/cb?code=abc"`)
	assert.Contains(t, page, "2000")
}

func TestOutcome_ErrorVariant(t *testing.T) {
	page, err := render.New(1500).Outcome("Authorization rejected.", "error", "/")
	require.NoError(t, err)

	assert.Contains(t, page, "badge-error")
	assert.Contains(t, page, "1500")
	assert.NotContains(t, page, "badge-success")
}
