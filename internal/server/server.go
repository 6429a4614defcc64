// Package server implements the session/command/channel state machine: the
// per-connection registration lifecycle, line protocol parsing, command
// dispatch, channel model, and fan-out semantics. Everything here runs on a
// single goroutine (the event loop); acceptance and socket I/O run on their
// own goroutines purely as producers/consumers of byte and lifecycle events
// feeding that loop.
package server

import (
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/hatch-irc/ircd/internal/message"
	"github.com/pkg/errors"
)

// eventType distinguishes what a connection goroutine is telling the loop.
type eventType int

const (
	evNewConn eventType = iota
	evData
	evDead
	evWakeUp
)

type event struct {
	typ    eventType
	connID uint64
	data   []byte

	// Only set for evNewConn.
	user      *User
	conn      *Conn
	writeChan chan string
}

// connState is the loop-owned bookkeeping for one live connection: its
// socket, its framer (partial-read buffer), and a channel to the writer
// goroutine.
type connState struct {
	conn      *Conn
	framer    message.Framer
	writeChan chan string
}

// Server holds all process-wide state. Once Start has begun, the registry,
// connection table and reply stream are touched only from the event loop
// goroutine; nextID and listener are used by the accept loop.
type Server struct {
	Config   Config
	Registry *Registry
	Reply    *ReplyStream

	dispatcher *Dispatcher

	conns map[uint64]*connState

	nextID uint64

	listener net.Listener

	events         chan event
	shutdownChan   chan struct{}
	shutdownOnce   sync.Once
	shutdownReason string

	listenerReady chan struct{}

	wg sync.WaitGroup
}

// New creates a Server ready to Start.
func New(cfg Config) *Server {
	s := &Server{
		Config:        cfg,
		Registry:      NewRegistry(),
		Reply:         NewReplyStream(cfg.ServerName),
		conns:         make(map[uint64]*connState),
		events:        make(chan event),
		shutdownChan:  make(chan struct{}),
		listenerReady: make(chan struct{}),
	}
	s.dispatcher = NewDispatcher(s)
	return s
}

// Addr returns the listener's bound address. Only valid after ListenerReady
// has been closed.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// ListenerReady is closed once Start has successfully bound its listener,
// letting tests dial in without racing the bind.
func (s *Server) ListenerReady() <-chan struct{} {
	return s.listenerReady
}

// Start binds the listener, launches the accept and alarm goroutines, and
// runs the event loop until shutdown. It returns once the loop has drained
// and every goroutine has exited.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.Config.ListenHost, s.Config.ListenPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "unable to listen on %s", addr)
	}
	s.listener = ln
	close(s.listenerReady)

	s.wg.Add(1)
	go s.acceptLoop()

	s.wg.Add(1)
	go s.alarmLoop()

	s.eventLoop()

	s.wg.Wait()
	return nil
}

// Shutdown initiates orderly server shutdown: every connected user is torn
// down with the given reason as its QUIT reason, output is flushed, and the
// loop exits. Each QUIT line reaches only the channel peers of the departing
// user that are still connected; a user is not sent a QUIT of its own.
func (s *Server) Shutdown(reason string) {
	s.shutdownOnce.Do(func() {
		s.shutdownReason = reason
		close(s.shutdownChan)
	})
}

func (s *Server) isShuttingDown() bool {
	select {
	case <-s.shutdownChan:
		return true
	default:
		return false
	}
}

// acceptLoop accepts TCP connections and hands each to the event loop,
// spinning up a reader/writer goroutine pair per connection.
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isShuttingDown() {
				break
			}
			log.Printf("accept error: %s", err)
			continue
		}

		if s.isShuttingDown() {
			_ = conn.Close()
			break
		}

		c := NewConn(conn)
		id := s.nextConnID()
		u := NewUser(id, c.RemoteHost())
		writeChan := make(chan string, 64)

		s.sendEvent(event{typ: evNewConn, connID: id, user: u, conn: c, writeChan: writeChan})

		s.wg.Add(2)
		go s.readLoop(id, c)
		go s.writeLoop(id, c, writeChan)
	}

	log.Printf("accept loop shutting down")
}

// nextConnID hands out unique connection ids. Only called from
// acceptLoop, which is single-goroutine, so no atomics are needed.
func (s *Server) nextConnID() uint64 {
	s.nextID++
	return s.nextID
}

func (s *Server) readLoop(id uint64, c *Conn) {
	defer s.wg.Done()

	for {
		if s.isShuttingDown() {
			break
		}

		chunk, err := c.ReadChunk()
		if err != nil {
			s.sendEvent(event{typ: evDead, connID: id})
			break
		}

		s.sendEvent(event{typ: evData, connID: id, data: chunk})
	}
}

func (s *Server) writeLoop(id uint64, c *Conn, writeChan chan string) {
	defer s.wg.Done()

	for line := range writeChan {
		if err := c.WriteLine(line); err != nil {
			s.sendEvent(event{typ: evDead, connID: id})
			break
		}
	}
}

// alarmLoop periodically wakes the event loop to run idle/ping bookkeeping.
func (s *Server) alarmLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.Config.AlarmInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sendEvent(event{typ: evWakeUp})
		case <-s.shutdownChan:
			return
		}
	}
}

// sendEvent delivers an event to the loop. It never blocks past shutdown.
func (s *Server) sendEvent(e event) {
	select {
	case s.events <- e:
	case <-s.shutdownChan:
	}
}

// eventLoop is the single place all shared state is mutated. It processes
// one event at a time: accept, inbound bytes, dead connection, or the
// periodic wakeup.
func (s *Server) eventLoop() {
	for {
		select {
		case e := <-s.events:
			s.handleEvent(e)

		case <-s.shutdownChan:
			s.doShutdown()
			return
		}
	}
}

func (s *Server) handleEvent(e event) {
	switch e.typ {
	case evNewConn:
		s.conns[e.connID] = &connState{conn: e.conn, writeChan: e.writeChan}
		s.Registry.AddUser(e.user)

	case evData:
		s.handleData(e.connID, e.data)

	case evDead:
		s.handleDeadConn(e.connID)

	case evWakeUp:
		s.checkIdleUsers()
	}

	s.flushAll()
}

// handleData frames newly arrived bytes into lines and dispatches each.
func (s *Server) handleData(connID uint64, data []byte) {
	cs, ok := s.conns[connID]
	if !ok {
		return
	}

	u, ok := s.Registry.UserByID(connID)
	if !ok {
		return
	}

	lines, err := cs.framer.Feed(data)
	for _, line := range lines {
		s.handleLine(u, line)
		if u.teardown {
			break
		}
	}

	if err != nil && !u.teardown {
		u.markForTeardown("SendQ exceeded", err)
	}
}

func (s *Server) handleLine(u *User, line string) {
	m, err := message.Parse(line)
	if err != nil || m.Command == "" {
		return
	}
	u.LastActivity = time.Now()
	s.dispatcher.Dispatch(u, m)
}

func (s *Server) handleDeadConn(connID uint64) {
	u, ok := s.Registry.UserByID(connID)
	if !ok {
		delete(s.conns, connID)
		return
	}
	if !u.teardown {
		u.markForTeardown("Connection reset", nil)
	}
	s.destroyUser(u)
}

// checkIdleUsers pings clients who've been quiet past PingInterval, and
// drops those past PingTimeout since their last PING without a PONG.
func (s *Server) checkIdleUsers() {
	now := time.Now()
	for _, u := range s.Registry.Users() {
		if u.teardown {
			continue
		}

		idle := now.Sub(u.LastActivity)

		if u.PingCookie != "" {
			if now.Sub(u.LastPing) > s.Config.PingTimeout {
				u.markForTeardown("Ping timeout", nil)
				s.destroyUser(u)
			}
			continue
		}

		if idle >= s.Config.PingInterval {
			s.sendPing(u)
		}
	}
}

// flushAll drains every connection's output buffer to its writer goroutine,
// and tears down any connection marked for teardown. This is the single
// place writes reach the socket layer, keeping "originating reply enqueued
// before broadcast, broadcast observed in one pass" order automatic: we
// only drain after a whole event (and everything it triggered) has run.
func (s *Server) flushAll() {
	for id, cs := range s.conns {
		u, ok := s.Registry.UserByID(id)
		if !ok {
			continue
		}

		for _, line := range u.out.drain() {
			cs.writeChan <- line
		}

		if u.teardown {
			s.destroyUser(u)
		}
	}
}

// destroyUser removes u from every channel, the registry, flushes any
// remaining output, and closes its connection. Idempotent.
func (s *Server) destroyUser(u *User) {
	cs, stillTracked := s.conns[u.ID]
	if !stillTracked {
		return
	}

	s.broadcastQuit(u, u.quitReason)
	s.removeFromAllChannels(u)
	s.Registry.RemoveUser(u)

	for _, line := range u.out.drain() {
		cs.writeChan <- line
	}
	close(cs.writeChan)
	_ = cs.conn.Close()
	delete(s.conns, u.ID)
}

func (s *Server) sendPing(u *User) {
	u.PingCookie = newPingCookie()
	u.LastPing = time.Now()
	s.Reply.FromServer(u, "PING", nil, u.PingCookie, true)
}
