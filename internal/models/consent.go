package models

import "encoding/json"

// AuthRequest is the pending grant issued by the OAuth provider. It is
// treated as an opaque value: rendered into the consent form as a hidden
// JSON field and round-tripped back byte-for-byte on submission. Field names
// match the provider's wire format.
type AuthRequest struct {
	ResponseType        string   `json:"responseType"`
	ClientID            string   `json:"clientId"`
	RedirectURI         string   `json:"redirectUri"`
	Scope               []string `json:"scope"`
	State               string   `json:"state"`
	CodeChallenge       string   `json:"codeChallenge,omitempty"`
	CodeChallengeMethod string   `json:"codeChallengeMethod,omitempty"`
}

// Encode serializes the request for the hidden form field.
func (r *AuthRequest) Encode() (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Scope is a named permission a client can request. The set is fixed by the
// server's capability surface, not per-user.
type Scope struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// OAuthScopes is the full scope surface advertised on the consent screen.
var OAuthScopes = []Scope{
	{Name: "read_profile", Description: "Read your basic profile information"},
	{Name: "read_data", Description: "Access your stored data"},
	{Name: "write_data", Description: "Create and modify your data"},
}

const (
	ActionApprove      = "approve"
	ActionReject       = "reject"
	ActionLoginApprove = "login_approve"
)

// ConsentDecision is a single consent-form submission. Request is nil when
// the oauthReqInfo field was missing or failed to parse; the consent flow is
// responsible for rejecting that case.
type ConsentDecision struct {
	Action   string
	Email    string
	Password string
	Request  *AuthRequest
}

// DecodeConsentForm builds a ConsentDecision from submitted form values.
// Absent fields yield empty strings and a malformed oauthReqInfo yields a
// nil Request; decoding never fails.
func DecodeConsentForm(form map[string]string) ConsentDecision {
	decision := ConsentDecision{
		Action:   form["action"],
		Email:    form["email"],
		Password: form["password"],
	}

	// a JSON "null" unmarshals cleanly into a nil pointer, which is still an
	// absent request
	var request *AuthRequest
	if err := json.Unmarshal([]byte(form["oauthReqInfo"]), &request); err == nil && request != nil {
		decision.Request = request
	}

	return decision
}
