// Command ircd runs the RFC 1459 server.
//
// Usage: ircd <port> <password>
//
// PORT and PASSWORD environment variables may substitute for the
// positional arguments when they are absent.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hatch-irc/ircd/internal/config"
	"github.com/hatch-irc/ircd/internal/server"
)

func main() {
	log.SetFlags(0)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("fatal: %v", r)
			os.Exit(3)
		}
	}()

	args, err := config.ParseArgs(os.Args[1:], os.Getenv)
	if err != nil {
		log.Printf("%s", err)
		os.Exit(1)
	}

	cfg, err := config.Resolve(args)
	if err != nil {
		log.Printf("%s", err)
		os.Exit(1)
	}

	s := server.New(cfg)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Printf("received %s, shutting down", sig)
		s.Shutdown("Server shutting down")
	}()

	if err := s.Start(); err != nil {
		log.Printf("%s", err)
		os.Exit(2)
	}

	log.Printf("server shut down cleanly")
}
