package server

import (
	"strconv"
	"strings"

	"github.com/hatch-irc/ircd/internal/ircerr"
	"github.com/hatch-irc/ircd/internal/message"
)

// modeChange is one applied +/- letter, recorded so the broadcast line
// summarizes only changes that actually took effect.
type modeChange struct {
	add    bool
	letter byte
	arg    string
}

func handleMode(s *Server, u *User, m message.Message) {
	params := m.AllParams()
	target := params[0]

	if isValidChannelName(target) {
		handleChannelMode(s, u, target, params[1:])
		return
	}

	handleUserMode(s, u, target, params[1:])
}

func handleChannelMode(s *Server, u *User, chanName string, args []string) {
	c, exists := s.Registry.Channel(chanName)
	if !exists {
		s.Reply.Error(u, ircerr.NoSuchChannel(chanName))
		return
	}

	if len(args) == 0 {
		modeStr, modeArgs := c.modeString()
		allParams := append([]string{c.Name, modeStr}, modeArgs...)
		s.Reply.Numeric(u, "324", allParams, "", false)
		s.Reply.Numeric(u, "329", []string{c.Name, strconv.FormatInt(c.Created.Unix(), 10)}, "", false)
		return
	}

	if args[0] == "b" {
		s.Reply.Numeric(u, "368", []string{c.Name}, "End of Channel Ban List", true)
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

	modeStr := args[0]
	extra := args[1:]
	argIdx := 0
	nextArg := func() (string, bool) {
		if argIdx >= len(extra) {
			return "", false
		}
		v := extra[argIdx]
		argIdx++
		return v, true
	}

	var changes []modeChange
	adding := true
	for i := 0; i < len(modeStr); i++ {
		letter := modeStr[i]
		switch letter {
		case '+':
			adding = true
			continue
		case '-':
			adding = false
			continue
		}

		switch letter {
		case ModeInviteOnly, ModeTopicLocked, ModeSecret:
			if applyFlagMode(c, letter, adding) {
				changes = append(changes, modeChange{add: adding, letter: letter})
			}

		case ModeKeyed:
			if adding {
				key, ok := nextArg()
				if !ok || key == "" {
					continue
				}
				if !c.hasMode(ModeKeyed) || c.Key != key {
					c.Modes[ModeKeyed] = struct{}{}
					c.Key = key
					changes = append(changes, modeChange{add: true, letter: ModeKeyed, arg: key})
				}
			} else {
				if c.hasMode(ModeKeyed) {
					delete(c.Modes, ModeKeyed)
					c.Key = ""
					changes = append(changes, modeChange{add: false, letter: ModeKeyed})
				}
			}

		case ModeLimited:
			if adding {
				raw, ok := nextArg()
				limit, err := strconv.Atoi(raw)
				if !ok || err != nil || limit <= 0 {
					continue
				}
				c.Modes[ModeLimited] = struct{}{}
				c.Limit = limit
				changes = append(changes, modeChange{add: true, letter: ModeLimited, arg: raw})
			} else {
				if c.hasMode(ModeLimited) {
					delete(c.Modes, ModeLimited)
					c.Limit = 0
					changes = append(changes, modeChange{add: false, letter: ModeLimited})
				}
			}

		case 'o':
			nick, ok := nextArg()
			if !ok {
				s.Reply.Error(u, ircerr.NeedMoreParams("MODE"))
				continue
			}
			target, ok := s.Registry.UserByNick(nick)
			if !ok || !c.hasMember(target.ID) {
				s.Reply.Error(u, ircerr.UserNotInChannel(nick, c.Name))
				continue
			}
			if adding {
				if !c.hasOp(target.ID) {
					c.Ops[target.ID] = struct{}{}
					changes = append(changes, modeChange{add: true, letter: 'o', arg: target.Nick})
				}
			} else {
				if c.hasOp(target.ID) {
					delete(c.Ops, target.ID)
					changes = append(changes, modeChange{add: false, letter: 'o', arg: target.Nick})
				}
			}

		case ModeNoExternal:
			// Always on; +n and -n change nothing.

		case ModeBan:
			// Ban lists aren't tracked; accept the letter but apply no state
			// change so it never appears in the broadcast summary.
			nextArg()

		default:
			s.Reply.Error(u, ircerr.UnknownMode(letter))
		}
	}

	if len(changes) == 0 {
		return
	}

	modeStr2, params := summarizeModeChanges(changes)
	allParams := append([]string{c.Name, modeStr2}, params...)
	s.broadcastToChannel(c, u, true, "MODE", allParams, "", false)
}

func applyFlagMode(c *Channel, letter byte, add bool) bool {
	if add {
		if c.hasMode(letter) {
			return false
		}
		c.Modes[letter] = struct{}{}
		return true
	}
	if !c.hasMode(letter) {
		return false
	}
	delete(c.Modes, letter)
	return true
}

// summarizeModeChanges renders a single normalized "+xy-z arg1 arg2" string
// covering only the changes that actually applied.
func summarizeModeChanges(changes []modeChange) (string, []string) {
	var b strings.Builder
	var args []string
	lastAdd := -1 // -1 none, 0 minus, 1 plus

	for _, ch := range changes {
		want := 0
		if ch.add {
			want = 1
		}
		if want != lastAdd {
			if ch.add {
				b.WriteByte('+')
			} else {
				b.WriteByte('-')
			}
			lastAdd = want
		}
		b.WriteByte(ch.letter)
		if ch.arg != "" {
			args = append(args, ch.arg)
		}
	}

	return b.String(), args
}

func handleUserMode(s *Server, u *User, nick string, args []string) {
	if !EqualFold(nick, u.Nick) {
		s.Reply.Error(u, ircerr.UsersDontMatch())
		return
	}

	if len(args) > 0 {
		modeStr := args[0]
		adding := true
		for i := 0; i < len(modeStr); i++ {
			letter := modeStr[i]
			switch letter {
			case '+':
				adding = true
			case '-':
				adding = false
			case 'i', 's', 'w':
				if adding {
					u.Modes[letter] = struct{}{}
				} else {
					delete(u.Modes, letter)
				}
			case 'o':
				// +o from a user is silently dropped (server-grant only); -o is
				// permitted.
				if !adding {
					delete(u.Modes, 'o')
				}
			default:
				s.Reply.Error(u, ircerr.UnknownMode(letter))
			}
		}
	}

	s.Reply.Numeric(u, "221", []string{u.userModeString()}, "", false)
}
