package render

import (
	"encoding/json"
	"fmt"

	"github.com/cbroglie/mustache"

	"github.com/buildclub/mcp-server/internal/models"
)

// Renderer produces the consent-flow pages. It is a pure function of its
// inputs; the only state is the configured redirect delay.
type Renderer struct {
	redirectDelayMs int
}

func New(redirectDelayMs int) *Renderer {
	return &Renderer{redirectDelayMs: redirectDelayMs}
}

func (r *Renderer) Home() (string, error) {
	return mustache.RenderInLayout(homeTemplate, layoutTemplate, nil)
}

// ConsentLoggedIn renders the consent screen without login fields. The
// stored credentials ride along as hidden inputs so the approve submission
// stays a single form post.
func (r *Renderer) ConsentLoggedIn(scopes []models.Scope, request *models.AuthRequest, email, password string) (string, error) {
	encoded, err := request.Encode()
	if err != nil {
		return "", fmt.Errorf("encode authorization request: %w", err)
	}

	return mustache.RenderInLayout(loggedInConsentTemplate, layoutTemplate, map[string]any{
		"scopes":       scopeContext(scopes),
		"oauthReqInfo": encoded,
		"email":        email,
		"password":     password,
	})
}

// ConsentLoggedOut renders the consent screen with email and password
// inputs; submitting approves via the login_approve action.
func (r *Renderer) ConsentLoggedOut(scopes []models.Scope, request *models.AuthRequest) (string, error) {
	encoded, err := request.Encode()
	if err != nil {
		return "", fmt.Errorf("encode authorization request: %w", err)
	}

	return mustache.RenderInLayout(loggedOutConsentTemplate, layoutTemplate, map[string]any{
		"scopes":       scopeContext(scopes),
		"oauthReqInfo": encoded,
	})
}

// Outcome renders the terminal page: message, success/error badge and a
// delayed client-side redirect.
func (r *Renderer) Outcome(message, status, redirectURL string) (string, error) {
	// JSON-encode the URL so it embeds safely inside the redirect script
	urlJSON, err := json.Marshal(redirectURL)
	if err != nil {
		return "", err
	}

	return mustache.RenderInLayout(outcomeTemplate, layoutTemplate, map[string]any{
		"message":         message,
		"success":         status == "success",
		"redirectUrlJson": string(urlJSON),
		"delayMs":         r.redirectDelayMs,
	})
}

func scopeContext(scopes []models.Scope) []map[string]string {
	context := make([]map[string]string, 0, len(scopes))
	for _, scope := range scopes {
		context = append(context, map[string]string{
			"name":        scope.Name,
			"description": scope.Description,
		})
	}
	return context
}
