package server

// peersAcrossChannels returns the set of users sharing at least one channel
// with u, each appearing exactly once even if multiple channels are shared.
// This is what makes QUIT/NICK fan-out dedup correctly instead of sending a
// peer the same notification once per shared channel.
func (s *Server) peersAcrossChannels(u *User) []*User {
	seen := map[uint64]struct{}{u.ID: {}}
	var peers []*User

	for chanName := range u.Channels {
		c, ok := s.Registry.Channel(chanName)
		if !ok {
			continue
		}
		for memberID := range c.Members {
			if _, dup := seen[memberID]; dup {
				continue
			}
			seen[memberID] = struct{}{}
			if peer, ok := s.Registry.UserByID(memberID); ok {
				peers = append(peers, peer)
			}
		}
	}

	return peers
}

// broadcastToChannel sends a command, originating from `from`, to every
// member of c. If includeOrigin is false, the origin itself is skipped.
func (s *Server) broadcastToChannel(c *Channel, from *User, includeOrigin bool, command string, params []string, trailing string, hasTrailing bool) {
	for memberID := range c.Members {
		if !includeOrigin && memberID == from.ID {
			continue
		}
		member, ok := s.Registry.UserByID(memberID)
		if !ok {
			continue
		}
		s.Reply.FromUser(member, from, command, params, trailing, hasTrailing)
	}
}

// broadcastQuit tells every peer of u across every channel it shares that it
// has quit. Each peer observes exactly one QUIT line regardless of how many
// channels it shares with u. It does not remove u from those channels; call
// removeFromAllChannels afterwards. A user with no nickname broadcasts
// nothing.
func (s *Server) broadcastQuit(u *User, reason string) {
	if u.Nick == "" {
		return
	}
	for _, peer := range s.peersAcrossChannels(u) {
		s.Reply.FromUser(peer, u, "QUIT", nil, reason, true)
	}
}

// removeFromAllChannels removes u from every channel it belongs to,
// destroying any channel left with no members. It does not broadcast; call
// broadcastQuit or the relevant PART/KICK broadcast first.
func (s *Server) removeFromAllChannels(u *User) {
	for chanName := range u.Channels {
		c, ok := s.Registry.Channel(chanName)
		if !ok {
			continue
		}
		c.removeMember(u.ID)
		s.Registry.DestroyChannelIfEmpty(c)
	}
	u.Channels = make(map[string]struct{})
}
