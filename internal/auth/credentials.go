package auth

import "crypto/subtle"

// CredentialValidator reports whether a login is accepted. Implementations
// must not log the password.
type CredentialValidator func(email, password string) bool

// StaticCredentials accepts exactly one email/password pair. It is the demo
// default; replace it with a real identity check without touching callers.
func StaticCredentials(email, password string) CredentialValidator {
	return func(gotEmail, gotPassword string) bool {
		emailOK := subtle.ConstantTimeCompare([]byte(gotEmail), []byte(email)) == 1
		passwordOK := subtle.ConstantTimeCompare([]byte(gotPassword), []byte(password)) == 1
		return emailOK && passwordOK
	}
}
