package server

import "github.com/google/uuid"

// newPingCookie generates the random token sent with each idle-triggered
// PING. Any PONG clears the pending cookie, whether it echoes the token or
// not.
func newPingCookie() string {
	return uuid.New().String()
}
