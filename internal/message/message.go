// Package message implements the IRC line protocol: parsing raw bytes into
// Messages and serializing Messages back to the wire.
//
// See RFC 1459 section 2.3.1 for the grammar this follows.
package message

import (
	"fmt"
	"strings"
)

// MaxLineLength is the maximum protocol message length, including the
// trailing CRLF.
const MaxLineLength = 512

// Message is an immutable parsed IRC line.
type Message struct {
	// Prefix is the optional origin of the message. Blank if absent.
	Prefix string

	// Command is the IRC command or three-digit numeric, uppercased.
	Command string

	// Params holds the middle parameters, in order. Does not include
	// Trailing.
	Params []string

	// Trailing is the final parameter, introduced by a leading ':'. HasTrailing
	// distinguishes "no trailing parameter" from "trailing parameter is the
	// empty string".
	Trailing    string
	HasTrailing bool
}

// AllParams returns each parameter and the trailing together, in wire order.
// Used by callers that want to iterate parameters without caring whether a
// given one came from Params or Trailing.
func (m Message) AllParams() []string {
	if !m.HasTrailing {
		return m.Params
	}
	out := make([]string, len(m.Params)+1)
	copy(out, m.Params)
	out[len(m.Params)] = m.Trailing
	return out
}

func (m Message) String() string {
	return fmt.Sprintf("Prefix[%s] Command[%s] Params%q Trailing[%q]",
		m.Prefix, m.Command, m.Params, m.Trailing)
}

// Encode serializes m into a CRLF-terminated wire line.
//
// It does not enforce command-specific semantics, only the generic grammar:
// prefix, a non-empty command, middle params that are non-empty and hold no
// space or ':', and an optional trailing param. The number of middle params
// is not checked.
func (m Message) Encode() (string, error) {
	if m.Command == "" {
		return "", fmt.Errorf("message has no command")
	}

	var b strings.Builder

	if m.Prefix != "" {
		b.WriteByte(':')
		b.WriteString(m.Prefix)
		b.WriteByte(' ')
	}

	b.WriteString(m.Command)

	for _, p := range m.Params {
		if p == "" || strings.ContainsAny(p, " :") {
			return "", fmt.Errorf("middle parameter %q requires trailing form", p)
		}
		b.WriteByte(' ')
		b.WriteString(p)
	}

	if m.HasTrailing {
		b.WriteString(" :")
		b.WriteString(m.Trailing)
	}

	line := b.String()
	if len(line)+2 > MaxLineLength {
		line = line[:MaxLineLength-2]
	}

	return line + "\r\n", nil
}

// Parse parses a single line (without its terminator) into a Message.
//
// Empty commands are not an error here; callers should silently discard a
// Message with an empty Command.
func Parse(line string) (Message, error) {
	if len(line) > MaxLineLength-2 {
		line = line[:MaxLineLength-2]
	}

	var m Message
	pos := 0

	if len(line) > 0 && line[0] == ':' {
		sp := strings.IndexByte(line, ' ')
		if sp == -1 {
			return Message{}, fmt.Errorf("malformed message: prefix with no command")
		}
		m.Prefix = line[1:sp]
		pos = sp + 1
	}

	// Skip any run of extra spaces before the command, tolerated the way
	// ircd-ratbox is in the wild.
	for pos < len(line) && line[pos] == ' ' {
		pos++
	}

	cmdStart := pos
	for pos < len(line) && line[pos] != ' ' {
		pos++
	}
	m.Command = strings.ToUpper(line[cmdStart:pos])

	for pos < len(line) {
		for pos < len(line) && line[pos] == ' ' {
			pos++
		}
		if pos >= len(line) {
			break
		}

		if line[pos] == ':' {
			m.Trailing = line[pos+1:]
			m.HasTrailing = true
			break
		}

		if len(m.Params) == 14 {
			m.Trailing = line[pos:]
			m.HasTrailing = true
			break
		}

		start := pos
		for pos < len(line) && line[pos] != ' ' {
			pos++
		}
		m.Params = append(m.Params, line[start:pos])
	}

	return m, nil
}
