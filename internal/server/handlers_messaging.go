package server

import (
	"github.com/hatch-irc/ircd/internal/ircerr"
	"github.com/hatch-irc/ircd/internal/message"
)

// maxFloodStrikes is how many consecutive rate-limited sends a user can
// rack up before the connection is deemed abusive and torn down.
const maxFloodStrikes = 20

func handlePrivmsgOrNotice(s *Server, u *User, m message.Message) {
	quiet := m.Command == "NOTICE"
	params := m.AllParams()

	if len(params) == 0 {
		if !quiet {
			s.Reply.Error(u, ircerr.NoRecipient(m.Command))
		}
		return
	}
	if len(params) == 1 {
		if !quiet {
			s.Reply.Error(u, ircerr.NoTextToSend())
		}
		return
	}

	if !u.limiter.Allow() {
		u.floodStrikes++
		if u.floodStrikes > maxFloodStrikes {
			u.markForTeardown("Excess Flood", nil)
		}
		return
	}
	u.floodStrikes = 0

	text := params[1]
	for _, target := range splitCSV(params[0]) {
		deliverMessage(s, u, m.Command, target, text, quiet)
	}
}

func deliverMessage(s *Server, u *User, command, target, text string, quiet bool) {
	if isValidChannelName(target) {
		c, exists := s.Registry.Channel(target)
		if !exists {
			if !quiet {
				s.Reply.Error(u, ircerr.NoSuchChannel(target))
			}
			return
		}
		if !c.hasMember(u.ID) {
			if !quiet {
				s.Reply.Error(u, ircerr.CannotSendToChan(c.Name))
			}
			return
		}

		s.broadcastToChannel(c, u, false, command, []string{c.Name}, text, true)
		return
	}

	targetUser, ok := s.Registry.UserByNick(target)
	if !ok {
		if !quiet {
			s.Reply.Error(u, ircerr.NoSuchNick(target))
		}
		return
	}

	s.Reply.FromUser(targetUser, u, command, []string{targetUser.Nick}, text, true)
}
