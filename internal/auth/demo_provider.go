package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/buildclub/mcp-server/internal/models"
)

const (
	codeTTL  = 5 * time.Minute
	tokenTTL = time.Hour
)

// Grant is what a bearer token resolves to on the tool endpoint.
type Grant struct {
	UserID string
	Scope  []string
	Props  map[string]string
}

type pendingCode struct {
	grant    Grant
	clientID string
	expires  time.Time
}

type issuedToken struct {
	grant   Grant
	expires time.Time
}

type registeredClient struct {
	secret       string
	name         string
	redirectURIs []string
}

// DemoProvider is an in-memory OAuth engine: authorization codes, bearer
// tokens and dynamic client registration, nothing persisted. It stands in
// for a real token service behind the Provider interface.
type DemoProvider struct {
	mu      sync.RWMutex
	codes   map[string]pendingCode
	tokens  map[string]issuedToken
	clients map[string]registeredClient
	now     func() time.Time
}

func NewDemoProvider() *DemoProvider {
	return &DemoProvider{
		codes:   map[string]pendingCode{},
		tokens:  map[string]issuedToken{},
		clients: map[string]registeredClient{},
		now:     time.Now,
	}
}

func (p *DemoProvider) ParseAuthRequest(query map[string]string) (*models.AuthRequest, error) {
	if query["client_id"] == "" {
		return nil, ErrMissingClientID
	}

	return &models.AuthRequest{
		ResponseType:        query["response_type"],
		ClientID:            query["client_id"],
		RedirectURI:         query["redirect_uri"],
		Scope:               strings.Fields(query["scope"]),
		State:               query["state"],
		CodeChallenge:       query["code_challenge"],
		CodeChallengeMethod: query["code_challenge_method"],
	}, nil
}

func (p *DemoProvider) CompleteAuthorization(ctx context.Context, opts CompleteOptions) (*CompleteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	code := uuid.NewString()

	p.mu.Lock()
	p.codes[code] = pendingCode{
		grant: Grant{
			UserID: opts.UserID,
			Scope:  opts.Scope,
			Props:  opts.Props,
		},
		clientID: opts.Request.ClientID,
		expires:  p.now().Add(codeTTL),
	}
	p.mu.Unlock()

	redirect, err := url.Parse(opts.Request.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect_uri: %w", err)
	}

	values := redirect.Query()
	values.Set("code", code)
	if opts.Request.State != "" {
		values.Set("state", opts.Request.State)
	}
	redirect.RawQuery = values.Encode()

	return &CompleteResult{RedirectTo: redirect.String()}, nil
}

// ExchangeCode redeems a one-time authorization code for a bearer token.
func (p *DemoProvider) ExchangeCode(code string) (token string, grant Grant, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pending, ok := p.codes[code]
	if !ok || p.now().After(pending.expires) {
		return "", Grant{}, ErrUnknownCode
	}
	delete(p.codes, code)

	token = uuid.NewString()
	p.tokens[token] = issuedToken{grant: pending.grant, expires: p.now().Add(tokenTTL)}
	return token, pending.grant, nil
}

// Authenticate resolves a bearer token into its grant.
func (p *DemoProvider) Authenticate(token string) (*Grant, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	issued, ok := p.tokens[token]
	if !ok || p.now().After(issued.expires) {
		return nil, false
	}

	grant := issued.grant
	return &grant, true
}

// RegisterClient performs dynamic client registration and returns the
// generated client id and secret.
func (p *DemoProvider) RegisterClient(name string, redirectURIs []string) (clientID, clientSecret string) {
	clientID = uuid.NewString()
	clientSecret = uuid.NewString()

	p.mu.Lock()
	p.clients[clientID] = registeredClient{
		secret:       clientSecret,
		name:         name,
		redirectURIs: redirectURIs,
	}
	p.mu.Unlock()

	return clientID, clientSecret
}

// TokenTTL reports the lifetime advertised in token responses.
func (p *DemoProvider) TokenTTL() time.Duration {
	return tokenTTL
}
