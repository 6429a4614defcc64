package server

import (
	"strings"
	"testing"

	"github.com/hatch-irc/ircd/internal/ircerr"
	"github.com/stretchr/testify/require"
)

func TestReplyNumericUsesStarBeforeRegistration(t *testing.T) {
	rs := NewReplyStream("irc.example.net")
	u := NewUser(1, "example.com")

	rs.Numeric(u, "001", nil, "Welcome", true)

	lines := u.out.drain()
	require.Len(t, lines, 1)
	require.True(t, strings.HasPrefix(lines[0], ":irc.example.net 001 * :Welcome\r\n"))
}

func TestReplyNumericUsesNickAfterRegistration(t *testing.T) {
	rs := NewReplyStream("irc.example.net")
	u := NewUser(1, "example.com")
	u.Nick = "alice"

	rs.Numeric(u, "221", []string{"+i"}, "", false)

	lines := u.out.drain()
	require.Len(t, lines, 1)
	require.Equal(t, ":irc.example.net 221 alice +i\r\n", lines[0])
}

func TestReplyErrorMarksFatal(t *testing.T) {
	rs := NewReplyStream("irc.example.net")
	u := NewUser(1, "example.com")

	rs.Error(u, ircerr.PasswdMismatch())

	require.True(t, u.teardown, "a fatal ircerr should mark the user for teardown")
	lines := u.out.drain()
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "464")
}

func TestReplyErrorNonFatalDoesNotTeardown(t *testing.T) {
	rs := NewReplyStream("irc.example.net")
	u := NewUser(1, "example.com")

	rs.Error(u, ircerr.NoSuchNick("bob"))

	require.False(t, u.teardown)
}

func TestReplyFromUserUsesOriginPrefix(t *testing.T) {
	rs := NewReplyStream("irc.example.net")
	from := NewUser(2, "other.example.com")
	from.Nick = "bob"
	from.Username = "bobw"

	to := NewUser(1, "example.com")
	to.Nick = "alice"

	rs.FromUser(to, from, "PRIVMSG", []string{"alice"}, "hi", true)

	lines := to.out.drain()
	require.Len(t, lines, 1)
	require.Equal(t, ":bob!bobw@other.example.com PRIVMSG alice :hi\r\n", lines[0])
}

func TestReplyOverflowMarksTeardown(t *testing.T) {
	rs := NewReplyStream("irc.example.net")
	u := NewUser(1, "example.com")
	u.out = newOutBuffer(4)

	rs.FromServer(u, "PING", nil, "cookie", true)

	require.True(t, u.teardown)
}
