package handlers_test

import (
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildclub/mcp-server/internal/auth"
	"github.com/buildclub/mcp-server/internal/handlers"
	"github.com/buildclub/mcp-server/internal/models"
	"github.com/buildclub/mcp-server/internal/render"
	"github.com/buildclub/mcp-server/internal/util"
)

type spyProvider struct {
	completeCalls int
}

func (s *spyProvider) ParseAuthRequest(query map[string]string) (*models.AuthRequest, error) {
	if query["client_id"] == "" {
		return nil, auth.ErrMissingClientID
	}
	return &models.AuthRequest{
		ClientID:    query["client_id"],
		RedirectURI: query["redirect_uri"],
		Scope:       strings.Fields(query["scope"]),
		State:       query["state"],
	}, nil
}

func (s *spyProvider) CompleteAuthorization(ctx context.Context, opts auth.CompleteOptions) (*auth.CompleteResult, error) {
	s.completeCalls++
	return &auth.CompleteResult{RedirectTo: "https://client.example/cb?code=abc"}, nil
}

func newConsentApp(provider auth.Provider, loggedIn bool) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: util.CustomErrorHandler})

	routes := handlers.OAuthRoutes{
		Provider:       provider,
		Flow:           auth.NewFlow(provider, auth.StaticCredentials("user@example.com", "password"), time.Second),
		Renderer:       render.New(2000),
		AssumeLoggedIn: loggedIn,
		DemoEmail:      "user@example.com",
		DemoPassword:   "password",
	}

	app.Get("/", routes.Home)
	app.Get("/authorize", routes.Authorize)
	app.Post("/approve", routes.Approve)
	return app
}

func postForm(t *testing.T, app *fiber.App, path string, values url.Values) (int, string) {
	t.Helper()

	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthorize_LoggedInVariantEmbedsRequest(t *testing.T) {
	app := newConsentApp(&spyProvider{}, true)

	req := httptest.NewRequest("GET", "/authorize?client_id=client-1&redirect_uri=https%3A%2F%2Fclient.example%2Fcb&scope=read_data&state=xyz", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	page := string(body)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, page, `name="oauthReqInfo"`)
	assert.Contains(t, page, `value="approve"`)
	assert.NotContains(t, page, `type="password" id="password"`)
	// all three scopes are listed
	assert.Contains(t, page, "read_profile")
	assert.Contains(t, page, "read_data")
	assert.Contains(t, page, "write_data")
}

func TestAuthorize_LoggedOutVariantAsksForCredentials(t *testing.T) {
	app := newConsentApp(&spyProvider{}, false)

	req := httptest.NewRequest("GET", "/authorize?client_id=client-1", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	page := string(body)

	assert.Contains(t, page, `value="login_approve"`)
	assert.Contains(t, page, `name="password"`)
}

func TestAuthorize_MissingClientIDIsBadRequest(t *testing.T) {
	app := newConsentApp(&spyProvider{}, true)

	req := httptest.NewRequest("GET", "/authorize", nil)
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestApprove_MalformedRequestIsInvalidLogin(t *testing.T) {
	provider := &spyProvider{}
	app := newConsentApp(provider, true)

	status, body := postForm(t, app, "/approve", url.Values{
		"action":       {"approve"},
		"oauthReqInfo": {"{not-json"},
	})

	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Contains(t, body, "INVALID LOGIN")
	assert.Zero(t, provider.completeCalls)
}

func TestApprove_RejectRendersErrorOutcome(t *testing.T) {
	provider := &spyProvider{}
	app := newConsentApp(provider, true)

	request := &models.AuthRequest{ClientID: "client-1", RedirectURI: "https://client.example/cb"}
	encoded, err := request.Encode()
	require.NoError(t, err)

	status, body := postForm(t, app, "/approve", url.Values{
		"action":       {"reject"},
		"oauthReqInfo": {encoded},
	})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Authorization rejected.")
	assert.Contains(t, body, "badge-error")
	assert.Zero(t, provider.completeCalls)
}

func TestApprove_ApproveRendersSuccessAndRedirect(t *testing.T) {
	provider := &spyProvider{}
	app := newConsentApp(provider, true)

	request := &models.AuthRequest{
		ClientID:    "client-1",
		RedirectURI: "https://client.example/cb",
		Scope:       []string{"read_data"},
	}
	encoded, err := request.Encode()
	require.NoError(t, err)

	status, body := postForm(t, app, "/approve", url.Values{
		"action":       {"approve"},
		"email":        {"user@example.com"},
		"password":     {"password"},
		"oauthReqInfo": {encoded},
	})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Authorization approved!")
	assert.Contains(t, body, "https://client.example/cb?code=abc")
	assert.Equal(t, 1, provider.completeCalls)
}

func TestApprove_FailedLoginRendersRejection(t *testing.T) {
	provider := &spyProvider{}
	app := newConsentApp(provider, false)

	request := &models.AuthRequest{ClientID: "client-1", RedirectURI: "https://client.example/cb"}
	encoded, err := request.Encode()
	require.NoError(t, err)

	status, body := postForm(t, app, "/approve", url.Values{
		"action":       {"login_approve"},
		"email":        {"user@example.com"},
		"password":     {"wrong"},
		"oauthReqInfo": {encoded},
	})

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Authorization rejected.")
	assert.Zero(t, provider.completeCalls)
}
