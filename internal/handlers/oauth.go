package handlers

import (
	"errors"

	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/buildclub/mcp-server/internal/auth"
	"github.com/buildclub/mcp-server/internal/models"
	"github.com/buildclub/mcp-server/internal/render"
)

// OAuthRoutes serves the consent flow: the authorization screen and the
// form submission that resolves it.
type OAuthRoutes struct {
	Provider auth.Provider
	Flow     *auth.Flow
	Renderer *render.Renderer

	// AssumeLoggedIn selects the consent variant; there is no session
	// system, so the logged-in variant carries the demo credentials as
	// hidden fields.
	AssumeLoggedIn bool
	DemoEmail      string
	DemoPassword   string
}

func (r *OAuthRoutes) Home(c *fiber.Ctx) error {
	page, err := r.Renderer.Home()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return sendHTML(c, fiber.StatusOK, page)
}

// Authorize renders the consent screen for a pending authorization request.
func (r *OAuthRoutes) Authorize(c *fiber.Ctx) error {
	request, err := r.Provider.ParseAuthRequest(authorizeQuery(c))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var page string
	if r.AssumeLoggedIn {
		page, err = r.Renderer.ConsentLoggedIn(models.OAuthScopes, request, r.DemoEmail, r.DemoPassword)
	} else {
		page, err = r.Renderer.ConsentLoggedOut(models.OAuthScopes, request)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return sendHTML(c, fiber.StatusOK, page)
}

// Approve resolves a consent submission to its outcome page.
func (r *OAuthRoutes) Approve(c *fiber.Ctx) error {
	decision := models.DecodeConsentForm(map[string]string{
		"action":       c.FormValue("action"),
		"email":        c.FormValue("email"),
		"password":     c.FormValue("password"),
		"oauthReqInfo": c.FormValue("oauthReqInfo"),
	})

	outcome, err := r.Flow.Decide(c.UserContext(), decision)
	if errors.Is(err, auth.ErrInvalidRequest) {
		return sendHTML(c, fiber.StatusUnauthorized, "INVALID LOGIN")
	}
	if err != nil {
		slog.Error("authorization completion failed", slog.String("error", err.Error()))
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	page, err := r.Renderer.Outcome(outcome.Message, outcome.Status, outcome.RedirectURL)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return sendHTML(c, fiber.StatusOK, page)
}

func authorizeQuery(c *fiber.Ctx) map[string]string {
	query := map[string]string{}
	for _, key := range []string{
		"response_type", "client_id", "redirect_uri", "scope", "state",
		"code_challenge", "code_challenge_method",
	} {
		query[key] = c.Query(key)
	}
	return query
}

func sendHTML(c *fiber.Ctx, status int, body string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(status).SendString(body)
}
