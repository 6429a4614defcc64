package server

import "testing"

func TestRegistryNickLifecycle(t *testing.T) {
	r := NewRegistry()
	u := NewUser(1, "host1")
	r.AddUser(u)

	if !r.NickAvailable("alice") {
		t.Fatal("expected alice to be available")
	}

	r.SetNick(u, "alice")
	if r.NickAvailable("Alice") {
		t.Error("expected Alice to be unavailable after casefold match")
	}

	got, ok := r.UserByNick("ALICE")
	if !ok || got.ID != u.ID {
		t.Error("expected case-insensitive nick lookup to find u")
	}

	r.SetNick(u, "alice2")
	if r.NickAvailable("alice2") != false {
		t.Error("expected alice2 to be claimed")
	}
	if !r.NickAvailable("alice") {
		t.Error("expected old nick alice to be released on rename")
	}
}

func TestRegistryChannelLifecycle(t *testing.T) {
	r := NewRegistry()

	if _, ok := r.Channel("#dev"); ok {
		t.Fatal("expected #dev to not yet exist")
	}

	c := r.CreateChannel("#dev")
	c.addMember(1)

	got, ok := r.Channel("#DEV")
	if !ok || got != c {
		t.Error("expected case-insensitive channel lookup to find c")
	}

	r.DestroyChannelIfEmpty(c)
	if _, ok := r.Channel("#dev"); !ok {
		t.Error("channel with a member should not be destroyed")
	}

	c.removeMember(1)
	r.DestroyChannelIfEmpty(c)
	if _, ok := r.Channel("#dev"); ok {
		t.Error("expected empty channel to be destroyed")
	}
}

func TestRegistryRemoveUser(t *testing.T) {
	r := NewRegistry()
	u := NewUser(1, "host1")
	r.AddUser(u)
	r.SetNick(u, "alice")

	r.RemoveUser(u)

	if _, ok := r.UserByID(1); ok {
		t.Error("expected user to be gone by id")
	}
	if _, ok := r.UserByNick("alice"); ok {
		t.Error("expected user to be gone by nick")
	}
	if !r.NickAvailable("alice") {
		t.Error("expected nick to be released")
	}
}

func TestRegistryUsersAndChannels(t *testing.T) {
	r := NewRegistry()
	r.AddUser(NewUser(1, "h1"))
	r.AddUser(NewUser(2, "h2"))
	r.CreateChannel("#a")
	r.CreateChannel("#b")

	if len(r.Users()) != 2 {
		t.Errorf("expected 2 users, got %d", len(r.Users()))
	}
	if len(r.Channels()) != 2 {
		t.Errorf("expected 2 channels, got %d", len(r.Channels()))
	}
}
