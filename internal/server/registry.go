package server

// Registry holds the two process-wide indices: nickname to User and
// channel name to Channel. Both are keyed by their RFC 1459 casefolded
// form, so lookups and uniqueness checks are case-insensitive.
//
// A Registry is only ever touched from the connection loop goroutine — see
// server.go — so it needs no locking of its own.
type Registry struct {
	usersByID map[uint64]*User
	nicksToID map[string]uint64
	channels  map[string]*Channel
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		usersByID: make(map[uint64]*User),
		nicksToID: make(map[string]uint64),
		channels:  make(map[string]*Channel),
	}
}

// AddUser registers a newly accepted connection under its id. It has no
// nickname yet, so it isn't reachable by nick lookup until SetNick succeeds.
func (r *Registry) AddUser(u *User) {
	r.usersByID[u.ID] = u
}

// UserByID resolves a stable id to its User, if still connected.
func (r *Registry) UserByID(id uint64) (*User, bool) {
	u, ok := r.usersByID[id]
	return u, ok
}

// UserByNick resolves a nickname (any case) to its User.
func (r *Registry) UserByNick(nick string) (*User, bool) {
	id, ok := r.nicksToID[Casefold(nick)]
	if !ok {
		return nil, false
	}
	return r.UserByID(id)
}

// NickAvailable reports whether nick is free to claim.
func (r *Registry) NickAvailable(nick string) bool {
	_, taken := r.nicksToID[Casefold(nick)]
	return !taken
}

// SetNick claims nick for u, releasing any nickname u previously held. The
// caller must have already checked NickAvailable.
func (r *Registry) SetNick(u *User, nick string) {
	if u.Nick != "" {
		delete(r.nicksToID, Casefold(u.Nick))
	}
	u.Nick = nick
	r.nicksToID[Casefold(nick)] = u.ID
}

// Channel resolves a channel name (any case) to its Channel.
func (r *Registry) Channel(name string) (*Channel, bool) {
	c, ok := r.channels[Casefold(name)]
	return c, ok
}

// CreateChannel registers a brand new channel. The caller must have checked
// it doesn't already exist.
func (r *Registry) CreateChannel(name string) *Channel {
	c := NewChannel(name)
	r.channels[Casefold(name)] = c
	return c
}

// DestroyChannelIfEmpty removes c from the registry once its member set is
// empty, satisfying the invariant that no channel with zero members exists
// in the registry.
func (r *Registry) DestroyChannelIfEmpty(c *Channel) {
	if c.empty() {
		delete(r.channels, Casefold(c.Name))
	}
}

// RemoveUser deletes u from every index: its nickname, and the user table
// itself. Callers are responsible for first scrubbing u from every channel
// it belongs to (see Server.removeFromAllChannels) — memberships go first,
// then the id is released.
func (r *Registry) RemoveUser(u *User) {
	if u.Nick != "" {
		delete(r.nicksToID, Casefold(u.Nick))
	}
	delete(r.usersByID, u.ID)
}

// Channels returns every channel currently in the registry.
func (r *Registry) Channels() []*Channel {
	out := make([]*Channel, 0, len(r.channels))
	for _, c := range r.channels {
		out = append(out, c)
	}
	return out
}

// Users returns every currently connected user. Order is unspecified and
// may differ between calls (Go randomizes map iteration order each time), so
// callers that need a stable order across a single operation should capture
// this slice once.
func (r *Registry) Users() []*User {
	out := make([]*User, 0, len(r.usersByID))
	for _, u := range r.usersByID {
		out = append(out, u)
	}
	return out
}
