package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/buildclub/mcp-server/internal/models"
)

// ErrInvalidRequest means the round-tripped authorization request could not
// be reconstructed. Fatal for the submission; the flow must restart.
var ErrInvalidRequest = errors.New("missing or malformed authorization request")

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Outcome is what the outcome screen renders: a message, a status and where
// to send the user agent afterwards.
type Outcome struct {
	Message     string
	Status      string
	RedirectURL string
}

// Flow drives a consent submission to its terminal outcome. A rejected
// login renders an error outcome without mutating anything, so the user can
// simply navigate back to /authorize and resubmit.
type Flow struct {
	provider        Provider
	validate        CredentialValidator
	providerTimeout time.Duration
}

func NewFlow(provider Provider, validate CredentialValidator, providerTimeout time.Duration) *Flow {
	return &Flow{
		provider:        provider,
		validate:        validate,
		providerTimeout: providerTimeout,
	}
}

// Decide consumes a ConsentDecision exactly once.
//
// Rejections (explicit or failed login) redirect to the homepage: no grant
// was completed, so there is no provider redirect to trust at that point.
func (f *Flow) Decide(ctx context.Context, decision models.ConsentDecision) (*Outcome, error) {
	if decision.Request == nil {
		return nil, ErrInvalidRequest
	}

	if decision.Action == models.ActionReject {
		return &Outcome{
			Message:     "Authorization rejected.",
			Status:      OutcomeError,
			RedirectURL: "/",
		}, nil
	}

	if decision.Action == models.ActionLoginApprove {
		if !f.validate(decision.Email, decision.Password) {
			slog.Info("login rejected", slog.String("email", decision.Email))
			return &Outcome{
				Message:     "Authorization rejected.",
				Status:      OutcomeError,
				RedirectURL: "/",
			}, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, f.providerTimeout)
	defer cancel()

	result, err := f.provider.CompleteAuthorization(ctx, CompleteOptions{
		Request:  decision.Request,
		UserID:   decision.Email,
		Scope:    decision.Request.Scope,
		Metadata: map[string]string{"label": "Test User"},
		Props:    map[string]string{"userEmail": decision.Email},
	})
	if err != nil {
		return nil, fmt.Errorf("complete authorization: %w", err)
	}

	slog.Info("authorization approved",
		slog.String("client_id", decision.Request.ClientID),
		slog.String("user_id", decision.Email),
	)

	return &Outcome{
		Message:     "Authorization approved!",
		Status:      OutcomeSuccess,
		RedirectURL: result.RedirectTo,
	}, nil
}
