package server

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RegState is a user's position in the registration lifecycle.
type RegState int

const (
	// AwaitingPass is the state of every freshly accepted connection. When
	// no server password is configured, registration completes from this
	// state without PASS.
	AwaitingPass RegState = iota

	// AwaitingNickUser is the state once PASS has been accepted but NICK and
	// USER have not both been seen.
	AwaitingNickUser

	// Registered is the state once NICK and USER have both landed and the
	// welcome numerics have been sent.
	Registered

	// QuittingSoon means teardown has been scheduled; the connection is
	// being flushed and will close.
	QuittingSoon
)

// MaxSendQueue is the per-user output buffer cap in bytes. Exceeding it is
// a session-fatal error.
const MaxSendQueue = 64 * 1024

// MaxNickLength is the longest nickname this server accepts (RFC 1459 caps
// it at 9).
const MaxNickLength = 9

// User is the per-connection session. A User exists from accept until the
// socket closes, QUIT completes, or a fatal protocol error tears the
// connection down.
type User struct {
	ID uint64

	Host string

	State        RegState
	PassAccepted bool

	Nick     string
	Username string
	RealName string

	// Modes holds the user's own mode set (i/s/w/o). 'o' is server-grant only.
	Modes map[byte]struct{}

	// Channels is the set of canonicalized channel names this user is a
	// member of. The authoritative member list lives on the Channel; this is
	// the user-side half of the symmetric membership invariant.
	Channels map[string]struct{}

	LastActivity time.Time
	LastPing     time.Time
	PingCookie   string

	out *outBuffer

	limiter      *rate.Limiter
	floodStrikes int

	quitReason  string
	teardown    bool
	teardownErr error
}

// NewUser creates a User for a freshly accepted connection.
func NewUser(id uint64, host string) *User {
	now := time.Now()
	return &User{
		ID:           id,
		Host:         host,
		State:        AwaitingPass,
		Modes:        make(map[byte]struct{}),
		Channels:     make(map[string]struct{}),
		LastActivity: now,
		LastPing:     now,
		out:          newOutBuffer(MaxSendQueue),
		// 4 messages/sec sustained, burst of 10 — generous for interactive use,
		// tight enough to stop a single connection from saturating the loop's
		// write side.
		limiter: rate.NewLimiter(rate.Limit(4), 10),
	}
}

func (u *User) String() string {
	if u.Nick == "" {
		return fmt.Sprintf("user#%d (unregistered)", u.ID)
	}
	return fmt.Sprintf("%s (user#%d)", u.Nick, u.ID)
}

// Prefix returns the nick!user@host form used as the origin of messages
// relayed on this user's behalf.
func (u *User) Prefix() string {
	return fmt.Sprintf("%s!%s@%s", u.Nick, u.Username, u.Host)
}

func (u *User) isOperator() bool {
	_, ok := u.Modes['o']
	return ok
}

// userModeString renders the user's mode set, e.g. "+iw".
func (u *User) userModeString() string {
	s := "+"
	for _, letter := range "iosw" {
		if _, ok := u.Modes[byte(letter)]; ok {
			s += string(letter)
		}
	}
	return s
}

// markForTeardown records that the connection should close after its output
// buffer flushes, with the given QUIT reason broadcast to peers.
func (u *User) markForTeardown(reason string, err error) {
	if u.teardown {
		return
	}
	u.teardown = true
	u.quitReason = reason
	u.teardownErr = err
	u.State = QuittingSoon
}
