package ircerr

import "testing"

func TestRenderKnownNumerics(t *testing.T) {
	tests := []struct {
		err  *Error
		code string
	}{
		{NoSuchNick("bob"), "401"},
		{NoSuchChannel("#dev"), "403"},
		{CannotSendToChan("#dev"), "404"},
		{NoRecipient("PRIVMSG"), "411"},
		{NoTextToSend(), "412"},
		{UnknownCommand("FROB"), "421"},
		{ErroneousNickname("0bob"), "432"},
		{NicknameInUse("bob"), "433"},
		{UserNotInChannel("bob", "#dev"), "441"},
		{NotOnChannel("#dev"), "442"},
		{NotRegistered(), "451"},
		{NeedMoreParams("JOIN"), "461"},
		{AlreadyRegistered(), "462"},
		{PasswdMismatch(), "464"},
		{ChannelIsFull("#dev"), "471"},
		{UnknownMode('z'), "472"},
		{InviteOnlyChan("#dev"), "473"},
		{BadChannelKey("#dev"), "475"},
		{BadChanMask("#dev"), "476"},
		{ChanOPrivsNeeded("#dev"), "482"},
		{UsersDontMatch(), "502"},
	}

	for _, tt := range tests {
		code, _, _ := tt.err.Render()
		if code != tt.code {
			t.Errorf("Render() code = %s, want %s", code, tt.code)
		}
	}
}

func TestPasswdMismatchIsFatal(t *testing.T) {
	if !PasswdMismatch().Fatal {
		t.Fatal("PasswdMismatch() should be marked Fatal")
	}
	if NoSuchNick("bob").Fatal {
		t.Fatal("NoSuchNick() should not be Fatal")
	}
}
