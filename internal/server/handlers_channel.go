package server

import (
	"strings"
	"time"

	"github.com/hatch-irc/ircd/internal/ircerr"
	"github.com/hatch-irc/ircd/internal/message"
)

func handleJoin(s *Server, u *User, m message.Message) {
	params := m.AllParams()

	if len(params) == 1 && params[0] == "0" {
		for chanName := range u.Channels {
			partOne(s, u, chanName, "")
		}
		return
	}

	channels := splitCSV(params[0])
	var keys []string
	if len(params) > 1 {
		keys = splitCSV(params[1])
	}

	for i, raw := range channels {
		key := ""
		if i < len(keys) {
			key = keys[i]
		}
		joinOne(s, u, raw, key)
	}
}

func joinOne(s *Server, u *User, rawName, key string) {
	name := Casefold(rawName)
	if !isValidChannelName(rawName) {
		s.Reply.Error(u, ircerr.NoSuchChannel(rawName))
		return
	}

	if _, already := u.Channels[name]; already {
		return
	}

	c, exists := s.Registry.Channel(rawName)
	firstJoiner := !exists
	if !exists {
		c = s.Registry.CreateChannel(rawName)
	} else {
		if c.hasMode(ModeKeyed) && c.Key != key {
			s.Reply.Error(u, ircerr.BadChannelKey(c.Name))
			return
		}
		if c.hasMode(ModeLimited) && c.Limit > 0 && len(c.Members) >= c.Limit {
			s.Reply.Error(u, ircerr.ChannelIsFull(c.Name))
			return
		}
		if c.hasMode(ModeInviteOnly) {
			if _, invited := c.Invited[Casefold(u.Nick)]; !invited {
				s.Reply.Error(u, ircerr.InviteOnlyChan(c.Name))
				return
			}
		}
	}

	c.addMember(u.ID)
	u.Channels[name] = struct{}{}
	delete(c.Invited, Casefold(u.Nick))

	if firstJoiner {
		c.Ops[u.ID] = struct{}{}
	}

	s.broadcastToChannel(c, u, true, "JOIN", nil, c.Name, true)

	if c.Topic != "" {
		s.Reply.Numeric(u, "332", []string{c.Name}, c.Topic, true)
	} else {
		s.Reply.Numeric(u, "331", []string{c.Name}, "No topic is set", true)
	}

	sendNames(s, u, c)
}

func sendNames(s *Server, u *User, c *Channel) {
	var nicks []string
	for memberID := range c.Members {
		member, ok := s.Registry.UserByID(memberID)
		if !ok {
			continue
		}
		prefix := ""
		if c.hasOp(memberID) {
			prefix = "@"
		}
		nicks = append(nicks, prefix+member.Nick)
	}

	s.Reply.Numeric(u, "353", []string{"=", c.Name}, strings.Join(nicks, " "), true)
	s.Reply.Numeric(u, "366", []string{c.Name}, "End of NAMES list", true)
}

func handlePart(s *Server, u *User, m message.Message) {
	params := m.AllParams()
	reason := ""
	if len(params) > 1 {
		reason = params[1]
	}
	for _, raw := range splitCSV(params[0]) {
		partOne(s, u, Casefold(raw), reason)
	}
}

// partOne takes the already-canonicalized channel name.
func partOne(s *Server, u *User, name, reason string) {
	c, exists := s.Registry.Channel(name)
	if !exists {
		s.Reply.Error(u, ircerr.NoSuchChannel(name))
		return
	}
	if !c.hasMember(u.ID) {
		s.Reply.Error(u, ircerr.NotOnChannel(c.Name))
		return
	}

	s.broadcastToChannel(c, u, true, "PART", []string{c.Name}, reason, true)

	c.removeMember(u.ID)
	delete(u.Channels, name)
	s.Registry.DestroyChannelIfEmpty(c)
}

func handleKick(s *Server, u *User, m message.Message) {
	params := m.AllParams()
	chanName := params[0]
	targetNick := params[1]
	reason := u.Nick
	if len(params) > 2 {
		reason = params[2]
	}

	c, exists := s.Registry.Channel(chanName)
	if !exists {
		s.Reply.Error(u, ircerr.NoSuchChannel(chanName))
		return
	}
	if !c.hasMember(u.ID) {
		s.Reply.Error(u, ircerr.NotOnChannel(c.Name))
		return
	}
	if !c.hasOp(u.ID) {
		s.Reply.Error(u, ircerr.ChanOPrivsNeeded(c.Name))
		return
	}

	target, ok := s.Registry.UserByNick(targetNick)
	if !ok || !c.hasMember(target.ID) {
		s.Reply.Error(u, ircerr.UserNotInChannel(targetNick, c.Name))
		return
	}

	s.broadcastToChannel(c, u, true, "KICK", []string{c.Name, target.Nick}, reason, true)

	c.removeMember(target.ID)
	delete(target.Channels, Casefold(c.Name))
	s.Registry.DestroyChannelIfEmpty(c)
}

func handleInvite(s *Server, u *User, m message.Message) {
	params := m.AllParams()
	targetNick := params[0]
	chanName := params[1]

	target, ok := s.Registry.UserByNick(targetNick)
	if !ok {
		s.Reply.Error(u, ircerr.NoSuchNick(targetNick))
		return
	}

	c, exists := s.Registry.Channel(chanName)
	if exists {
		if !c.hasMember(u.ID) {
			s.Reply.Error(u, ircerr.NotOnChannel(c.Name))
			return
		}
		if c.hasMode(ModeInviteOnly) && !c.hasOp(u.ID) {
			s.Reply.Error(u, ircerr.ChanOPrivsNeeded(c.Name))
			return
		}
		c.Invited[Casefold(target.Nick)] = struct{}{}
	}

	s.Reply.FromUser(target, u, "INVITE", []string{target.Nick}, chanName, true)
	s.Reply.Numeric(u, "341", []string{target.Nick, chanName}, "", false)
}

func handleTopic(s *Server, u *User, m message.Message) {
	params := m.AllParams()
	chanName := params[0]

	c, exists := s.Registry.Channel(chanName)
	if !exists {
		s.Reply.Error(u, ircerr.NoSuchChannel(chanName))
		return
	}
	if !c.hasMember(u.ID) {
		s.Reply.Error(u, ircerr.NotOnChannel(c.Name))
		return
	}

	if len(params) == 1 {
		if c.Topic != "" {
			s.Reply.Numeric(u, "332", []string{c.Name}, c.Topic, true)
		} else {
			s.Reply.Numeric(u, "331", []string{c.Name}, "No topic is set", true)
		}
		return
	}

	if c.hasMode(ModeTopicLocked) && !c.hasOp(u.ID) {
		s.Reply.Error(u, ircerr.ChanOPrivsNeeded(c.Name))
		return
	}

	c.Topic = params[1]
	c.TopicSetter = u.Prefix()
	c.TopicTime = time.Now()

	s.broadcastToChannel(c, u, true, "TOPIC", []string{c.Name}, c.Topic, true)
}
