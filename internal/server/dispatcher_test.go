package server

import (
	"testing"

	"github.com/hatch-irc/ircd/internal/message"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	cfg := DefaultConfig()
	cfg.ServerName = "irc.example.net"
	return New(cfg)
}

func TestDispatchUnknownCommandBeforeRegistration(t *testing.T) {
	s := newTestServer()
	u := NewUser(1, "example.com")
	s.Registry.AddUser(u)

	s.dispatcher.Dispatch(u, message.Message{Command: "FROBNICATE"})

	lines := u.out.drain()
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "451")
}

func TestDispatchUnknownCommandAfterRegistration(t *testing.T) {
	s := newTestServer()
	u := NewUser(1, "example.com")
	u.State = Registered
	u.Nick = "alice"
	s.Registry.AddUser(u)

	s.dispatcher.Dispatch(u, message.Message{Command: "FROBNICATE"})

	lines := u.out.drain()
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "421")
}

func TestDispatchRejectsPreRegisteredCommand(t *testing.T) {
	s := newTestServer()
	u := NewUser(1, "example.com")
	s.Registry.AddUser(u)

	s.dispatcher.Dispatch(u, message.Message{Command: "JOIN", Params: []string{"#dev"}})

	lines := u.out.drain()
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "451")
}

func TestDispatchEnforcesArity(t *testing.T) {
	s := newTestServer()
	u := NewUser(1, "example.com")
	s.Registry.AddUser(u)

	s.dispatcher.Dispatch(u, message.Message{Command: "USER", Params: []string{"a", "b"}})

	lines := u.out.drain()
	require.Len(t, lines, 1)
	require.Contains(t, lines[0], "461")
}

func TestDispatchAllowsPreRegCommandAndInvokesHandler(t *testing.T) {
	s := newTestServer()
	u := NewUser(1, "example.com")
	s.Registry.AddUser(u)

	s.dispatcher.Dispatch(u, message.Message{Command: "NICK", Params: []string{"alice"}})

	require.Equal(t, "alice", u.Nick)
}

func TestSplitCSV(t *testing.T) {
	require.Equal(t, []string{"#a", "#b"}, splitCSV("#a,#b"))
	require.Equal(t, []string{"#a"}, splitCSV("#a,,"))
	require.Empty(t, splitCSV(""))
}
