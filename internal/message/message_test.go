package message

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		prefix   string
		command  string
		params   []string
		trailing string
		has      bool
	}{
		{
			input:   "NICK alice",
			command: "NICK",
			params:  []string{"alice"},
		},
		{
			input:    "USER alice 0 * :Alice Liddell",
			command:  "USER",
			params:   []string{"alice", "0", "*"},
			trailing: "Alice Liddell",
			has:      true,
		},
		{
			input:    ":alice!alice@host PRIVMSG #chat :hi there",
			prefix:   "alice!alice@host",
			command:  "PRIVMSG",
			params:   []string{"#chat"},
			trailing: "hi there",
			has:      true,
		},
		{
			input:   "ping",
			command: "PING",
		},
		{
			input:   "",
			command: "",
		},
	}

	for _, tt := range tests {
		m, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) returned error: %s", tt.input, err)
			continue
		}
		if m.Prefix != tt.prefix {
			t.Errorf("Parse(%q).Prefix = %q, want %q", tt.input, m.Prefix, tt.prefix)
		}
		if m.Command != tt.command {
			t.Errorf("Parse(%q).Command = %q, want %q", tt.input, m.Command, tt.command)
		}
		if len(m.Params) != len(tt.params) {
			t.Errorf("Parse(%q).Params = %q, want %q", tt.input, m.Params, tt.params)
		} else {
			for i := range tt.params {
				if m.Params[i] != tt.params[i] {
					t.Errorf("Parse(%q).Params[%d] = %q, want %q", tt.input, i, m.Params[i], tt.params[i])
				}
			}
		}
		if m.Trailing != tt.trailing || m.HasTrailing != tt.has {
			t.Errorf("Parse(%q) trailing = (%q,%v), want (%q,%v)",
				tt.input, m.Trailing, m.HasTrailing, tt.trailing, tt.has)
		}
	}
}

func TestParseFifteenthParamAbsorbsRemainder(t *testing.T) {
	// 14 middle params then remainder becomes trailing even without ':'.
	input := "CMD a b c d e f g h i j k l m n o p"
	m, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse returned error: %s", err)
	}
	if len(m.Params) != 14 {
		t.Fatalf("len(Params) = %d, want 14", len(m.Params))
	}
	if !m.HasTrailing || m.Trailing != "o p" {
		t.Fatalf("Trailing = (%q,%v), want (%q,true)", m.Trailing, m.HasTrailing, "o p")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	m := Message{
		Prefix:      "server.example",
		Command:     "PRIVMSG",
		Params:      []string{"#chat"},
		Trailing:    "hello there",
		HasTrailing: true,
	}

	line, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %s", err)
	}

	want := ":server.example PRIVMSG #chat :hello there\r\n"
	if line != want {
		t.Fatalf("Encode() = %q, want %q", line, want)
	}

	parsed, err := Parse(line[:len(line)-2])
	if err != nil {
		t.Fatalf("Parse returned error: %s", err)
	}
	if parsed.Prefix != m.Prefix || parsed.Command != m.Command ||
		parsed.Trailing != m.Trailing || parsed.HasTrailing != m.HasTrailing {
		t.Fatalf("round trip mismatch: got %+v, want %+v", parsed, m)
	}
}

func TestEncodeRejectsUnsafeMiddleParam(t *testing.T) {
	m := Message{Command: "PRIVMSG", Params: []string{"has space"}}
	if _, err := m.Encode(); err == nil {
		t.Fatalf("Encode() with unsafe middle param did not error")
	}
}

func TestEncodeTruncatesOversizedLine(t *testing.T) {
	long := make([]byte, 600)
	for i := range long {
		long[i] = 'x'
	}
	m := Message{Command: "PRIVMSG", Params: []string{"#chat"}, Trailing: string(long), HasTrailing: true}
	line, err := m.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %s", err)
	}
	if len(line) != MaxLineLength {
		t.Fatalf("len(line) = %d, want %d", len(line), MaxLineLength)
	}
	if line[len(line)-2:] != "\r\n" {
		t.Fatalf("line does not end with CRLF: %q", line)
	}
}
