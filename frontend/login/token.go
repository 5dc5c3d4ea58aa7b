package login

import "crypto/rand"

// newSessionToken returns 128 random bits as base32 text.
func newSessionToken() string {
	return rand.Text()
}
