package server

import (
	"strconv"
	"time"
)

// The channel mode letters this server recognizes.
const (
	ModeInviteOnly  = 'i'
	ModeTopicLocked = 't'
	ModeKeyed       = 'k'
	ModeLimited     = 'l'
	ModeNoExternal  = 'n'
	ModeSecret      = 's'
	ModeBan         = 'b'
)

// Channel is a named group of users. Member/operator sets hold user IDs,
// not pointers, so a Channel never reaches back into a *User directly —
// destruction order between Channel and User is never a dangling-pointer
// hazard.
type Channel struct {
	Name string

	Members map[uint64]struct{}
	Ops     map[uint64]struct{}

	// Invited holds casefolded nicknames currently permitted to bypass
	// invite-only (+i). Entries are consumed on JOIN or dropped when the
	// channel is destroyed.
	Invited map[string]struct{}

	Topic       string
	TopicSetter string
	TopicTime   time.Time

	Modes map[byte]struct{}
	Key   string
	Limit int

	Created time.Time
}

// NewChannel creates an empty channel. The caller is responsible for adding
// the first joiner and granting them ops.
func NewChannel(name string) *Channel {
	return &Channel{
		Name:    name,
		Members: make(map[uint64]struct{}),
		Ops:     make(map[uint64]struct{}),
		Invited: make(map[string]struct{}),
		Modes:   map[byte]struct{}{ModeNoExternal: {}},
		Created: time.Now(),
	}
}

func (c *Channel) hasMember(id uint64) bool {
	_, ok := c.Members[id]
	return ok
}

func (c *Channel) hasOp(id uint64) bool {
	_, ok := c.Ops[id]
	return ok
}

func (c *Channel) hasMode(m byte) bool {
	_, ok := c.Modes[m]
	return ok
}

func (c *Channel) addMember(id uint64) {
	c.Members[id] = struct{}{}
}

func (c *Channel) removeMember(id uint64) {
	delete(c.Members, id)
	delete(c.Ops, id)
}

func (c *Channel) empty() bool {
	return len(c.Members) == 0
}

// modeString renders the channel's current modes, e.g. "+tn" or
// "+kl key 10".
func (c *Channel) modeString() (string, []string) {
	s := "+"
	var args []string
	for _, letter := range "itklns" {
		if _, ok := c.Modes[byte(letter)]; !ok {
			continue
		}
		s += string(letter)
		switch letter {
		case ModeKeyed:
			args = append(args, c.Key)
		case ModeLimited:
			args = append(args, strconv.Itoa(c.Limit))
		}
	}
	return s, args
}
