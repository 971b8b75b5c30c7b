package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buildclub/mcp-server/internal/auth"
	"github.com/buildclub/mcp-server/internal/models"
)

// spyProvider records completion calls so tests can assert the flow never
// contacts the provider on rejection paths.
type spyProvider struct {
	completeCalls int
	lastOpts      auth.CompleteOptions
	result        *auth.CompleteResult
	err           error
}

func (s *spyProvider) ParseAuthRequest(query map[string]string) (*models.AuthRequest, error) {
	return &models.AuthRequest{ClientID: query["client_id"]}, nil
}

func (s *spyProvider) CompleteAuthorization(ctx context.Context, opts auth.CompleteOptions) (*auth.CompleteResult, error) {
	s.completeCalls++
	s.lastOpts = opts
	return s.result, s.err
}

func demoFlow(provider auth.Provider) *auth.Flow {
	validate := auth.StaticCredentials("user@example.com", "password")
	return auth.NewFlow(provider, validate, time.Second)
}

func pendingRequest() *models.AuthRequest {
	return &models.AuthRequest{
		ClientID:    "client-1",
		RedirectURI: "https://client.example/callback",
		Scope:       []string{"read_profile", "read_data"},
		State:       "abc",
	}
}

func TestDecide_MissingRequestIsFatal(t *testing.T) {
	provider := &spyProvider{}

	outcome, err := demoFlow(provider).Decide(context.Background(), models.ConsentDecision{
		Action: models.ActionApprove,
		Email:  "user@example.com",
	})

	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, auth.ErrInvalidRequest)
	assert.Zero(t, provider.completeCalls)
}

func TestDecide_RejectNeverCallsProvider(t *testing.T) {
	provider := &spyProvider{}

	outcome, err := demoFlow(provider).Decide(context.Background(), models.ConsentDecision{
		Action:  models.ActionReject,
		Request: pendingRequest(),
	})

	require.NoError(t, err)
	assert.Equal(t, auth.OutcomeError, outcome.Status)
	assert.Equal(t, "/", outcome.RedirectURL)
	assert.Zero(t, provider.completeCalls)
}

func TestDecide_BadCredentialsRejected(t *testing.T) {
	provider := &spyProvider{}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong email", "other@example.com", "password"},
		{"wrong password", "user@example.com", "hunter2"},
		{"both empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			outcome, err := demoFlow(provider).Decide(context.Background(), models.ConsentDecision{
				Action:   models.ActionLoginApprove,
				Email:    tc.email,
				Password: tc.password,
				Request:  pendingRequest(),
			})

			require.NoError(t, err)
			assert.Equal(t, auth.OutcomeError, outcome.Status)
			assert.Zero(t, provider.completeCalls)
		})
	}
}

func TestDecide_ApproveCompletesOnceWithOriginalScope(t *testing.T) {
	provider := &spyProvider{
		result: &auth.CompleteResult{RedirectTo: "https://client.example/callback?code=abc"},
	}
	request := pendingRequest()

	outcome, err := demoFlow(provider).Decide(context.Background(), models.ConsentDecision{
		Action:  models.ActionApprove,
		Email:   "user@example.com",
		Request: request,
	})

	require.NoError(t, err)
	assert.Equal(t, auth.OutcomeSuccess, outcome.Status)
	assert.Equal(t, "https://client.example/callback?code=abc", outcome.RedirectURL)

	assert.Equal(t, 1, provider.completeCalls)
	assert.Equal(t, request.Scope, provider.lastOpts.Scope)
	assert.Equal(t, "user@example.com", provider.lastOpts.UserID)
	assert.Equal(t, "user@example.com", provider.lastOpts.Props["userEmail"])
}

func TestDecide_LoginApproveWithValidCredentials(t *testing.T) {
	provider := &spyProvider{result: &auth.CompleteResult{RedirectTo: "https://client.example/cb"}}

	outcome, err := demoFlow(provider).Decide(context.Background(), models.ConsentDecision{
		Action:   models.ActionLoginApprove,
		Email:    "user@example.com",
		Password: "password",
		Request:  pendingRequest(),
	})

	require.NoError(t, err)
	assert.Equal(t, auth.OutcomeSuccess, outcome.Status)
	assert.Equal(t, 1, provider.completeCalls)
}

func TestDecide_ProviderFailurePropagates(t *testing.T) {
	provider := &spyProvider{err: errors.New("provider unavailable")}

	outcome, err := demoFlow(provider).Decide(context.Background(), models.ConsentDecision{
		Action:  models.ActionApprove,
		Email:   "user@example.com",
		Request: pendingRequest(),
	})

	assert.Nil(t, outcome)
	assert.ErrorContains(t, err, "provider unavailable")
}
