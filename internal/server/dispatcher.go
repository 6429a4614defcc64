package server

import (
	"strings"

	"github.com/hatch-irc/ircd/internal/ircerr"
	"github.com/hatch-irc/ircd/internal/message"
)

// handlerFunc is the signature every command handler implements: it
// consumes a Message and the acting User, mutates Registry/Channel/User
// state, and enqueues replies via s.Reply.
type handlerFunc func(s *Server, u *User, m message.Message)

// commandSpec declares a handler's arity and registration requirement. The
// dispatcher enforces both before ever calling Handler.
type commandSpec struct {
	MinParams   int
	PreRegAllow bool
	Handler     handlerFunc
}

// Dispatcher maps command tokens to their handlers (case-insensitive
// lookup — the parser already uppercases Command, so the table keys are
// simply uppercase).
type Dispatcher struct {
	server   *Server
	commands map[string]commandSpec
}

// NewDispatcher builds the command table for s.
func NewDispatcher(s *Server) *Dispatcher {
	d := &Dispatcher{server: s, commands: make(map[string]commandSpec)}
	d.register()
	return d
}

func (d *Dispatcher) add(name string, minParams int, preRegAllow bool, h handlerFunc) {
	d.commands[name] = commandSpec{MinParams: minParams, PreRegAllow: preRegAllow, Handler: h}
}

// Dispatch performs the registration-gate check, the arity check, and then
// invokes the handler.
func (d *Dispatcher) Dispatch(u *User, m message.Message) {
	spec, known := d.commands[m.Command]

	if !known {
		if u.State != Registered {
			d.server.Reply.Error(u, ircerr.NotRegistered())
			return
		}
		d.server.Reply.Error(u, ircerr.UnknownCommand(m.Command))
		return
	}

	if !spec.PreRegAllow && u.State != Registered {
		d.server.Reply.Error(u, ircerr.NotRegistered())
		return
	}

	if len(m.AllParams()) < spec.MinParams {
		d.server.Reply.Error(u, ircerr.NeedMoreParams(m.Command))
		return
	}

	spec.Handler(d.server, u, m)
}

// splitCSV splits a comma-separated parameter list the way JOIN/PART/
// PRIVMSG targets do, discarding empty entries produced by doubled commas.
func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (d *Dispatcher) register() {
	d.add("PASS", 1, true, handlePass)
	d.add("NICK", 1, true, handleNick)
	d.add("USER", 4, true, handleUser)
	d.add("CAP", 1, true, handleCap)
	d.add("QUIT", 0, true, handleQuit)
	d.add("PING", 1, true, handlePing)
	d.add("PONG", 0, true, handlePong)

	d.add("JOIN", 1, false, handleJoin)
	d.add("PART", 1, false, handlePart)
	d.add("KICK", 2, false, handleKick)
	d.add("INVITE", 2, false, handleInvite)
	d.add("TOPIC", 1, false, handleTopic)
	d.add("MODE", 1, false, handleMode)

	d.add("PRIVMSG", 0, false, handlePrivmsgOrNotice)
	d.add("NOTICE", 0, false, handlePrivmsgOrNotice)

	d.add("WHO", 0, false, handleWho)
	d.add("WHOIS", 1, false, handleWhois)
	d.add("LIST", 0, false, handleList)
	d.add("NAMES", 0, false, handleNames)
	d.add("MOTD", 0, false, handleMotd)
	d.add("LUSERS", 0, false, handleLusers)
	d.add("INFO", 0, false, handleInfo)
	d.add("VERSION", 0, false, handleVersion)
}
