package server

import (
	"bufio"
	"net"
	"time"

	"github.com/pkg/errors"
)

// ioTimeout bounds individual socket reads/writes so a stalled peer cannot
// wedge the connection's goroutines indefinitely.
const ioTimeout = 5 * time.Minute

// Conn wraps a TCP connection with buffered, deadline-bounded I/O.
type Conn struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer
}

// NewConn wraps an accepted net.Conn.
func NewConn(conn net.Conn) *Conn {
	return &Conn{
		conn: conn,
		r:    bufio.NewReader(conn),
		w:    bufio.NewWriter(conn),
	}
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// RemoteHost returns the remote address's host portion.
func (c *Conn) RemoteHost() string {
	addr, ok := c.conn.RemoteAddr().(*net.TCPAddr)
	if !ok {
		return c.conn.RemoteAddr().String()
	}
	return addr.IP.String()
}

// ReadChunk reads whatever bytes are currently available, up to a small
// buffer, blocking until at least one byte arrives or the deadline expires.
func (c *Conn) ReadChunk() ([]byte, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(ioTimeout)); err != nil {
		return nil, errors.Wrap(err, "error setting read deadline")
	}

	buf := make([]byte, 4096)
	n, err := c.r.Read(buf)
	if err != nil {
		return nil, errors.Wrap(err, "error reading")
	}
	return buf[:n], nil
}

// WriteLine writes a single CRLF-terminated line to the connection.
func (c *Conn) WriteLine(line string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(ioTimeout)); err != nil {
		return errors.Wrap(err, "error setting write deadline")
	}

	if _, err := c.w.WriteString(line); err != nil {
		return errors.Wrap(err, "error writing")
	}

	return errors.Wrap(c.w.Flush(), "flush error")
}
