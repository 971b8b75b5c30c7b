package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/buildclub/mcp-server/internal/auth"
	"github.com/buildclub/mcp-server/internal/util"
)

// ProviderRoutes serves the provider-managed OAuth endpoints (/token,
// /register). They sit outside the consent core and talk straight to the
// demo provider.
type ProviderRoutes struct {
	Provider *auth.DemoProvider
}

// Token exchanges an authorization code for a bearer token.
func (r *ProviderRoutes) Token(c *fiber.Ctx) error {
	if c.FormValue("grant_type") != "authorization_code" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported_grant_type"})
	}

	token, grant, err := r.Provider.ExchangeCode(c.FormValue("code"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_grant"})
	}

	return c.JSON(fiber.Map{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(r.Provider.TokenTTL().Seconds()),
		"scope":        strings.Join(grant.Scope, " "),
	})
}

type clientRegistration struct {
	ClientName   string   `json:"client_name" validate:"required"`
	RedirectURIs []string `json:"redirect_uris" validate:"required,min=1,dive,uri"`
}

// Register performs dynamic client registration.
func (r *ProviderRoutes) Register(c *fiber.Ctx) error {
	req, valErrs := util.ReadAndValidate[clientRegistration](c)
	if valErrs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(valErrs)
	}

	clientID, clientSecret := r.Provider.RegisterClient(req.ClientName, req.RedirectURIs)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"client_id":     clientID,
		"client_secret": clientSecret,
		"client_name":   req.ClientName,
		"redirect_uris": req.RedirectURIs,
	})
}

// RequireBearer rejects tool-endpoint requests without a valid bearer token
// and stashes the resolved grant for the transport.
func RequireBearer(authenticate func(token string) (*auth.Grant, bool), userLocal, scopesLocal string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if !ok || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		grant, ok := authenticate(token)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals(userLocal, grant.UserID)
		c.Locals(scopesLocal, grant.Scope)
		return c.Next()
	}
}
