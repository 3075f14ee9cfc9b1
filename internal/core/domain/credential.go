package domain

import "errors"

// ErrNoCredential is returned by a credential store that holds no token.
var ErrNoCredential = errors.New("no credential stored")

// Credential is an opaque bearer token. The client never inspects its shape
// to decide authorization; any non-empty value counts as present.
type Credential string

// Present reports whether the credential carries a token.
func (c Credential) Present() bool {
	return c != ""
}
