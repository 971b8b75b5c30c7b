package buildclub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/buildclub/mcp-server/internal/util"
)

// APIError is a non-2xx response from the backend, surfaced as a value so
// the tool gateway decides how to present it.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.StatusCode, e.Body)
}

// Client talks to the BuildClub REST API. Every method performs exactly one
// outbound request, never retries, and returns the response body verbatim.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout int) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: defaultRoundTripperClient(timeout),
	}
}

// ListEvents fetches all published events.
func (c *Client) ListEvents(ctx context.Context) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, util.JoinURL(c.baseURL, "events")+"?published=true", nil)
}

// GetEvent fetches a single event by UUID.
func (c *Client) GetEvent(ctx context.Context, uuid string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, util.JoinURL(c.baseURL, "events", uuid), nil)
}

// RegisterForEvent posts a registration. Registrations made through this
// server are always guest registrations.
func (c *Client) RegisterForEvent(ctx context.Context, reg RegistrationRequest) (json.RawMessage, error) {
	reg.IsGuest = true

	body, err := json.Marshal(reg)
	if err != nil {
		return nil, err
	}

	return c.do(ctx, http.MethodPost, util.JoinURL(c.baseURL, "events", "register"), body)
}

// Ping checks that the backend answers at all. Used as a startup probe;
// tool calls do not depend on it.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListEvents(ctx)
	return err
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	request, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}

	if body != nil {
		request.Header.Add("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer closeHttp(resp)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("backend response read failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	if !json.Valid(data) {
		return nil, fmt.Errorf("backend returned invalid JSON")
	}

	return json.RawMessage(data), nil
}

func defaultRoundTripperClient(timeout int) *http.Client {
	// Ensure we use a http.Transport with proper settings: the zero values are not
	// a good choice, as they cause leaking connections:
	// https://github.com/golang/go/issues/19620

	// copy, we don't want to alter the default client's Transport
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.ResponseHeaderTimeout = time.Duration(timeout) * time.Second

	c := *http.DefaultClient
	c.Transport = tr
	return &c
}

func closeHttp(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			return
		}
		resp.Body.Close()
	}
}
