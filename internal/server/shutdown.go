package server

import "log"

// doShutdown marks every connected user for teardown with the shutdown
// reason ("Server shutting down" if none was given), then destroys each one:
// its QUIT goes to the channel peers not yet destroyed, its output is
// flushed, and its connection is closed. The listener is closed first. The
// last user destroyed, and any user with no channel peers, receives no QUIT
// line.
func (s *Server) doShutdown() {
	log.Printf("server shutdown initiated")

	if err := s.listener.Close(); err != nil {
		log.Printf("error closing listener: %s", err)
	}

	reason := s.shutdownReason
	if reason == "" {
		reason = "Server shutting down"
	}
	for _, u := range s.Registry.Users() {
		u.markForTeardown(reason, nil)
	}

	for _, u := range s.Registry.Users() {
		s.destroyUser(u)
	}
}
