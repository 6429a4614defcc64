package server

import (
	"strconv"
	"time"

	"github.com/hatch-irc/ircd/internal/ircerr"
	"github.com/hatch-irc/ircd/internal/message"
)

func handleWho(s *Server, u *User, m message.Message) {
	params := m.AllParams()

	var members []*User
	mask := "*"
	if len(params) > 0 {
		mask = params[0]
	}

	if mask != "" && isValidChannelName(mask) {
		if c, exists := s.Registry.Channel(mask); exists {
			for id := range c.Members {
				if peer, ok := s.Registry.UserByID(id); ok {
					members = append(members, peer)
				}
			}
		}
	} else {
		members = s.Registry.Users()
	}

	for _, peer := range members {
		if peer.State != Registered {
			continue
		}
		flags := "H"
		if peer.isOperator() {
			flags += "*"
		}
		s.Reply.Numeric(u, "352",
			[]string{mask, peer.Username, peer.Host, s.Config.ServerName, peer.Nick, flags},
			"0 "+peer.RealName, true)
	}

	s.Reply.Numeric(u, "315", []string{mask}, "End of WHO list", true)
}

func handleWhois(s *Server, u *User, m message.Message) {
	nick := m.AllParams()[0]

	target, ok := s.Registry.UserByNick(nick)
	if !ok {
		s.Reply.Error(u, ircerr.NoSuchNick(nick))
		return
	}

	s.Reply.Numeric(u, "311",
		[]string{target.Nick, target.Username, target.Host, "*"}, target.RealName, true)

	var chans []string
	for chanName := range target.Channels {
		if c, exists := s.Registry.Channel(chanName); exists {
			prefix := ""
			if c.hasOp(target.ID) {
				prefix = "@"
			}
			chans = append(chans, prefix+c.Name)
		}
	}
	if len(chans) > 0 {
		names := chans[0]
		for _, c := range chans[1:] {
			names += " " + c
		}
		s.Reply.Numeric(u, "319", []string{target.Nick}, names, true)
	}

	s.Reply.Numeric(u, "312", []string{target.Nick, s.Config.ServerName}, s.Config.ServerInfo, true)

	idle := int(targetIdleSeconds(target))
	s.Reply.Numeric(u, "317", []string{target.Nick, strconv.Itoa(idle)}, "seconds idle", true)

	s.Reply.Numeric(u, "318", []string{target.Nick}, "End of WHOIS list", true)
}

func handleList(s *Server, u *User, m message.Message) {
	s.Reply.Numeric(u, "321", []string{"Channel", "Users", "Name"}, "", false)
	for _, c := range s.allChannels() {
		if c.hasMode(ModeSecret) && !c.hasMember(u.ID) {
			continue
		}
		s.Reply.Numeric(u, "322",
			[]string{c.Name, strconv.Itoa(len(c.Members))}, c.Topic, true)
	}
	s.Reply.Numeric(u, "323", nil, "End of LIST", true)
}

func handleNames(s *Server, u *User, m message.Message) {
	params := m.AllParams()
	if len(params) == 0 {
		for _, c := range s.allChannels() {
			sendNames(s, u, c)
		}
		return
	}
	for _, raw := range splitCSV(params[0]) {
		if c, exists := s.Registry.Channel(raw); exists {
			sendNames(s, u, c)
		}
	}
}

func handleMotd(s *Server, u *User, m message.Message) {
	if len(s.Config.MOTD) == 0 {
		s.Reply.Numeric(u, "422", nil, "MOTD File is missing", true)
		return
	}
	s.Reply.Numeric(u, "375", nil, "- "+s.Config.ServerName+" Message of the day -", true)
	for _, line := range s.Config.MOTD {
		s.Reply.Numeric(u, "372", nil, "- "+line, true)
	}
	s.Reply.Numeric(u, "376", nil, "End of MOTD command", true)
}

func handleLusers(s *Server, u *User, m message.Message) {
	total := len(s.Registry.Users())
	s.Reply.Numeric(u, "251", nil,
		"There are "+strconv.Itoa(total)+" users and 0 services on 1 servers", true)
	s.Reply.Numeric(u, "255", nil,
		"I have "+strconv.Itoa(total)+" clients and 1 servers", true)
}

func handleInfo(s *Server, u *User, m message.Message) {
	s.Reply.Numeric(u, "371", nil, s.Config.ServerInfo, true)
	s.Reply.Numeric(u, "374", nil, "End of INFO list", true)
}

func handleVersion(s *Server, u *User, m message.Message) {
	s.Reply.Numeric(u, "351",
		[]string{s.Config.Version, s.Config.ServerName}, s.Config.ServerInfo, true)
}

func (s *Server) allChannels() []*Channel {
	return s.Registry.Channels()
}

func targetIdleSeconds(u *User) float64 {
	return time.Since(u.LastActivity).Seconds()
}
