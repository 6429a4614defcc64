package message

import "testing"

func TestFramerSplitsOnCRLF(t *testing.T) {
	var f Framer

	lines, err := f.Feed([]byte("NICK alice\r\nUSER a 0 *"))
	if err != nil {
		t.Fatalf("Feed returned error: %s", err)
	}
	if len(lines) != 1 || lines[0] != "NICK alice" {
		t.Fatalf("lines = %q, want [%q]", lines, "NICK alice")
	}

	lines, err = f.Feed([]byte(" :Alice\r\n"))
	if err != nil {
		t.Fatalf("Feed returned error: %s", err)
	}
	if len(lines) != 1 || lines[0] != "USER a 0 * :Alice" {
		t.Fatalf("lines = %q, want [%q]", lines, "USER a 0 * :Alice")
	}
}

func TestFramerToleratesBareLF(t *testing.T) {
	var f Framer
	lines, err := f.Feed([]byte("PING x\n"))
	if err != nil {
		t.Fatalf("Feed returned error: %s", err)
	}
	if len(lines) != 1 || lines[0] != "PING x" {
		t.Fatalf("lines = %q", lines)
	}
}

func TestFramerTruncatesOversizedLine(t *testing.T) {
	var f Framer
	body := make([]byte, 600)
	for i := range body {
		body[i] = 'a'
	}
	lines, err := f.Feed(append(body, '\r', '\n'))
	if err != nil {
		t.Fatalf("Feed returned error: %s", err)
	}
	if len(lines) != 1 {
		t.Fatalf("len(lines) = %d, want 1", len(lines))
	}
	if len(lines[0]) != MaxLineLength-2 {
		t.Fatalf("len(lines[0]) = %d, want %d", len(lines[0]), MaxLineLength-2)
	}
}

func TestFramerOverflowWithoutTerminator(t *testing.T) {
	var f Framer
	junk := make([]byte, MaxReadBuffer+1)
	for i := range junk {
		junk[i] = 'z'
	}
	_, err := f.Feed(junk)
	if err != ErrBufferOverflow {
		t.Fatalf("Feed() error = %v, want ErrBufferOverflow", err)
	}
}
