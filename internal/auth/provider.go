package auth

import (
	"context"
	"errors"

	"github.com/buildclub/mcp-server/internal/models"
)

var (
	ErrMissingClientID = errors.New("authorization request missing client_id")
	ErrUnknownCode     = errors.New("unknown or expired authorization code")
)

// CompleteOptions carries everything the provider needs to finish an
// approved grant. Props are attached to tokens later issued for the grant.
type CompleteOptions struct {
	Request  *models.AuthRequest
	UserID   string
	Scope    []string
	Metadata map[string]string
	Props    map[string]string
}

type CompleteResult struct {
	RedirectTo string
}

// Provider is the external OAuth engine. Both operations can fail and may
// run out of process; callers must treat them as network calls.
type Provider interface {
	// ParseAuthRequest builds a pending grant from /authorize query values.
	ParseAuthRequest(query map[string]string) (*models.AuthRequest, error)

	// CompleteAuthorization finishes an approved grant and returns where to
	// send the user agent.
	CompleteAuthorization(ctx context.Context, opts CompleteOptions) (*CompleteResult, error)
}
