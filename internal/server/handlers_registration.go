package server

import (
	"strings"

	"github.com/hatch-irc/ircd/internal/ircerr"
	"github.com/hatch-irc/ircd/internal/message"
)

func handlePass(s *Server, u *User, m message.Message) {
	if u.State != AwaitingPass {
		s.Reply.Error(u, ircerr.AlreadyRegistered())
		return
	}

	pw := m.AllParams()[0]
	if s.Config.Password != "" && pw != s.Config.Password {
		s.Reply.Error(u, ircerr.PasswdMismatch())
		return
	}

	u.PassAccepted = true
	u.State = AwaitingNickUser
	maybeCompleteRegistration(s, u)
}

func handleNick(s *Server, u *User, m message.Message) {
	nick := m.AllParams()[0]

	if !isValidNick(nick, MaxNickLength) {
		s.Reply.Error(u, ircerr.ErroneousNickname(nick))
		return
	}

	if existing, ok := s.Registry.UserByNick(nick); ok && existing.ID != u.ID {
		s.Reply.Error(u, ircerr.NicknameInUse(nick))
		return
	}

	wasRegistered := u.State == Registered
	oldPrefix := u.Prefix()

	s.Registry.SetNick(u, nick)

	if wasRegistered {
		s.Reply.FromPrefix(u, oldPrefix, "NICK", nil, nick, true)
		for _, peer := range s.peersAcrossChannels(u) {
			s.Reply.FromPrefix(peer, oldPrefix, "NICK", nil, nick, true)
		}
		return
	}

	maybeCompleteRegistration(s, u)
}

func handleUser(s *Server, u *User, m message.Message) {
	if u.State == Registered {
		s.Reply.Error(u, ircerr.AlreadyRegistered())
		return
	}

	params := m.AllParams()
	username := params[0]
	if len(username) > 10 {
		username = username[:10]
	}
	u.Username = username
	u.RealName = params[3]

	maybeCompleteRegistration(s, u)
}

func handleCap(s *Server, u *User, m message.Message) {
	sub := strings.ToUpper(m.AllParams()[0])
	switch sub {
	case "LS":
		s.Reply.FromServer(u, "CAP", []string{"*", "LS"}, "", true)
	case "END":
		// No-op: we never put the connection into capability-negotiation
		// limbo, so END just lets registration proceed as normal.
	}
}

func handleQuit(s *Server, u *User, m message.Message) {
	reason := "Client Quit"
	if p := m.AllParams(); len(p) > 0 {
		reason = p[0]
	}
	u.markForTeardown(reason, nil)
}

func handlePing(s *Server, u *User, m message.Message) {
	token := m.AllParams()[0]
	s.Reply.FromServer(u, "PONG", []string{s.Config.ServerName}, token, true)
}

func handlePong(s *Server, u *User, m message.Message) {
	u.PingCookie = ""
}

// maybeCompleteRegistration transitions a user to Registered once PASS (if
// required), NICK, and USER have all landed, then sends the welcome
// numerics.
func maybeCompleteRegistration(s *Server, u *User) {
	if u.State == Registered {
		return
	}
	if s.Config.Password != "" && !u.PassAccepted {
		return
	}
	if u.Nick == "" || u.Username == "" {
		return
	}

	u.State = Registered
	sendWelcome(s, u)
}

func sendWelcome(s *Server, u *User) {
	cfg := s.Config

	s.Reply.Numeric(u, "001", nil,
		"Welcome to the Internet Relay Network "+u.Prefix(), true)
	s.Reply.Numeric(u, "002", nil,
		"Your host is "+cfg.ServerName+", running version "+cfg.Version, true)
	s.Reply.Numeric(u, "003", nil,
		"This server was created "+cfg.CreatedAt, true)
	s.Reply.Numeric(u, "004",
		[]string{cfg.ServerName, cfg.Version, "iosw", "itklnso"}, "", false)
	s.Reply.Numeric(u, "005",
		[]string{"CHANTYPES=#&", "PREFIX=(o)@", "CHANMODES=,k,l,itns", "NICKLEN=9"},
		"are supported by this server", true)

	handleLusers(s, u, message.Message{Command: "LUSERS"})
	handleMotd(s, u, message.Message{Command: "MOTD"})
}
