// Package ircerr implements the closed taxonomy of RFC 1459 protocol-error
// numerics a command handler can raise.
//
// The upstream design (one exception subclass per numeric, each with a
// virtual render method) is reimplemented here as a single tagged union: one
// Kind per numeric, carrying only the fields that numeric's reply line
// needs, rendered by one switch. This keeps the set closed without
// per-numeric types or vtables; a Kind with no case renders as a generic 400.
package ircerr

import "fmt"

// Kind identifies one RFC numeric in the closed error taxonomy.
type Kind int

const (
	ErrNoSuchNick        Kind = iota // 401
	ErrNoSuchChannel                 // 403
	ErrCannotSendToChan              // 404
	ErrNoRecipient                   // 411
	ErrNoTextToSend                  // 412
	ErrUnknownCommand                // 421
	ErrErroneousNickname             // 432
	ErrNicknameInUse                 // 433
	ErrUserNotInChannel              // 441
	ErrNotOnChannel                  // 442
	ErrNotRegistered                 // 451
	ErrNeedMoreParams                // 461
	ErrAlreadyRegistered             // 462
	ErrPasswdMismatch                // 464
	ErrChannelIsFull                 // 471
	ErrUnknownMode                   // 472
	ErrInviteOnlyChan                // 473
	ErrBadChannelKey                 // 475
	ErrBadChanMask                   // 476
	ErrChanOPrivsNeeded              // 482
	ErrUsersDontMatch                // 502 (MODE on another user's nick)
	ErrNoPrivileges                  // 501 (reserved for future use; unused)
)

// Error is a single rendered protocol error. It knows its own numeric and
// carries exactly the data that numeric's reply needs.
type Error struct {
	Kind Kind

	// Generic slots. Not every numeric uses every slot; see Render.
	Command string
	Channel string
	Nick    string
	Reason  string

	// Fatal marks that, beyond rendering the numeric, the dispatcher should
	// also schedule the connection for teardown after the reply flushes.
	Fatal bool
}

func (e *Error) Error() string {
	code, _, _ := e.Render()
	return fmt.Sprintf("%s %s", code, e.Reason)
}

// Render returns the numeric code, the reply's ordered parameters (not
// including the recipient nick, which the reply stream prepends), and the
// trailing (colon-prefixed) text.
func (e *Error) Render() (code string, params []string, trailing string) {
	switch e.Kind {
	case ErrNoSuchNick:
		return "401", []string{e.Nick}, "No such nick/channel"
	case ErrNoSuchChannel:
		return "403", []string{e.Channel}, "No such channel"
	case ErrCannotSendToChan:
		return "404", []string{e.Channel}, "Cannot send to channel"
	case ErrNoRecipient:
		return "411", nil, fmt.Sprintf("No recipient given (%s)", e.Command)
	case ErrNoTextToSend:
		return "412", nil, "No text to send"
	case ErrUnknownCommand:
		return "421", []string{e.Command}, "Unknown command"
	case ErrErroneousNickname:
		return "432", []string{e.Nick}, "Erroneous nickname"
	case ErrNicknameInUse:
		return "433", []string{e.Nick}, "Nickname is already in use"
	case ErrUserNotInChannel:
		return "441", []string{e.Nick, e.Channel}, "They aren't on that channel"
	case ErrNotOnChannel:
		return "442", []string{e.Channel}, "You're not on that channel"
	case ErrNotRegistered:
		return "451", nil, "You have not registered"
	case ErrNeedMoreParams:
		return "461", []string{e.Command}, "Not enough parameters"
	case ErrAlreadyRegistered:
		return "462", nil, "Unauthorized command (already registered)"
	case ErrPasswdMismatch:
		return "464", nil, "Password incorrect"
	case ErrChannelIsFull:
		return "471", []string{e.Channel}, "Cannot join channel (+l)"
	case ErrUnknownMode:
		return "472", []string{e.Reason}, "is unknown mode char to me"
	case ErrInviteOnlyChan:
		return "473", []string{e.Channel}, "Cannot join channel (+i)"
	case ErrBadChannelKey:
		return "475", []string{e.Channel}, "Cannot join channel (+k)"
	case ErrBadChanMask:
		return "476", []string{e.Channel}, "Bad Channel Mask"
	case ErrChanOPrivsNeeded:
		return "482", []string{e.Channel}, "You're not channel operator"
	case ErrUsersDontMatch:
		return "502", nil, "Cannot change mode for other users"
	case ErrNoPrivileges:
		return "501", nil, "Permission Denied- You're not an IRC operator"
	default:
		return "400", nil, "Unknown error"
	}
}

// The constructors below build an Error of each kind with its fields. Kept
// as small free-function constructors rather than struct literals
// throughout the handlers, so call sites read like the numeric they raise.
func NoSuchNick(nick string) *Error        { return &Error{Kind: ErrNoSuchNick, Nick: nick} }
func NoSuchChannel(ch string) *Error       { return &Error{Kind: ErrNoSuchChannel, Channel: ch} }
func CannotSendToChan(ch string) *Error    { return &Error{Kind: ErrCannotSendToChan, Channel: ch} }
func NoRecipient(cmd string) *Error        { return &Error{Kind: ErrNoRecipient, Command: cmd} }
func NoTextToSend() *Error                 { return &Error{Kind: ErrNoTextToSend} }
func UnknownCommand(cmd string) *Error     { return &Error{Kind: ErrUnknownCommand, Command: cmd} }
func ErroneousNickname(nick string) *Error { return &Error{Kind: ErrErroneousNickname, Nick: nick} }
func NicknameInUse(nick string) *Error     { return &Error{Kind: ErrNicknameInUse, Nick: nick} }
func UserNotInChannel(nick, ch string) *Error {
	return &Error{Kind: ErrUserNotInChannel, Nick: nick, Channel: ch}
}
func NotOnChannel(ch string) *Error    { return &Error{Kind: ErrNotOnChannel, Channel: ch} }
func NotRegistered() *Error            { return &Error{Kind: ErrNotRegistered} }
func NeedMoreParams(cmd string) *Error { return &Error{Kind: ErrNeedMoreParams, Command: cmd} }
func AlreadyRegistered() *Error        { return &Error{Kind: ErrAlreadyRegistered} }
func PasswdMismatch() *Error           { return &Error{Kind: ErrPasswdMismatch, Fatal: true} }
func ChannelIsFull(ch string) *Error   { return &Error{Kind: ErrChannelIsFull, Channel: ch} }
func UnknownMode(letter byte) *Error {
	return &Error{Kind: ErrUnknownMode, Reason: string(letter)}
}
func InviteOnlyChan(ch string) *Error   { return &Error{Kind: ErrInviteOnlyChan, Channel: ch} }
func BadChannelKey(ch string) *Error    { return &Error{Kind: ErrBadChannelKey, Channel: ch} }
func BadChanMask(ch string) *Error      { return &Error{Kind: ErrBadChanMask, Channel: ch} }
func ChanOPrivsNeeded(ch string) *Error { return &Error{Kind: ErrChanOPrivsNeeded, Channel: ch} }
func UsersDontMatch() *Error            { return &Error{Kind: ErrUsersDontMatch} }
