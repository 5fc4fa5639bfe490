package login

import (
	"crypto/rand"
	"encoding/base64"
)

// newSessionToken returns a 256-bit random session identifier. The value
// goes straight into the session cookie, so it stays URL-safe.
func newSessionToken() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}
