package server

import (
	"github.com/hatch-irc/ircd/internal/ircerr"
	"github.com/hatch-irc/ircd/internal/message"
)

// ReplyStream assembles well-formed reply lines and appends them to a
// User's output buffer. It is the only thing in this package that knows how
// to turn a numeric or relayed command into wire bytes.
type ReplyStream struct {
	serverName string
}

// NewReplyStream creates a ReplyStream that stamps every numeric with the
// given server name prefix.
func NewReplyStream(serverName string) *ReplyStream {
	return &ReplyStream{serverName: serverName}
}

// Numeric enqueues a server numeric reply addressed to u. Per convention,
// the recipient nick is "*" until u has registered one.
func (rs *ReplyStream) Numeric(u *User, code string, params []string, trailing string, hasTrailing bool) {
	nick := u.Nick
	if nick == "" {
		nick = "*"
	}

	allParams := make([]string, 0, len(params)+1)
	allParams = append(allParams, nick)
	allParams = append(allParams, params...)

	rs.enqueue(u, message.Message{
		Prefix:      rs.serverName,
		Command:     code,
		Params:      allParams,
		Trailing:    trailing,
		HasTrailing: hasTrailing,
	})
}

// Error renders a closed-taxonomy protocol error to its offending user.
func (rs *ReplyStream) Error(u *User, err *ircerr.Error) {
	code, params, trailing := err.Render()
	rs.Numeric(u, code, params, trailing, true)
	if err.Fatal {
		u.markForTeardown(trailing, err)
	}
}

// FromServer enqueues a command (not a numeric) whose origin is the server
// itself, e.g. PING, ERROR.
func (rs *ReplyStream) FromServer(u *User, command string, params []string, trailing string, hasTrailing bool) {
	rs.enqueue(u, message.Message{
		Prefix:      rs.serverName,
		Command:     command,
		Params:      params,
		Trailing:    trailing,
		HasTrailing: hasTrailing,
	})
}

// FromUser enqueues a command whose origin is another user, e.g. relayed
// JOIN/PART/PRIVMSG/NICK/QUIT/KICK/TOPIC/MODE/INVITE lines.
func (rs *ReplyStream) FromUser(u *User, origin *User, command string, params []string, trailing string, hasTrailing bool) {
	rs.enqueue(u, message.Message{
		Prefix:      origin.Prefix(),
		Command:     command,
		Params:      params,
		Trailing:    trailing,
		HasTrailing: hasTrailing,
	})
}

// FromPrefix enqueues a command whose origin prefix is given explicitly,
// for cases like NICK where the broadcasting user's own prefix has already
// changed by the time peers are notified.
func (rs *ReplyStream) FromPrefix(u *User, prefix string, command string, params []string, trailing string, hasTrailing bool) {
	rs.enqueue(u, message.Message{
		Prefix:      prefix,
		Command:     command,
		Params:      params,
		Trailing:    trailing,
		HasTrailing: hasTrailing,
	})
}

func (rs *ReplyStream) enqueue(u *User, m message.Message) {
	line, err := m.Encode()
	if err != nil {
		// A malformed outbound message is a bug in a handler, not a client
		// error. Drop it rather than corrupt the stream.
		return
	}
	if pushErr := u.out.push(line); pushErr != nil {
		u.markForTeardown("SendQ exceeded", pushErr)
	}
}
