// Package config resolves the server's startup configuration from its CLI
// contract (`server <port> <password>`, with PORT/PASSWORD environment
// fallback), plus an optional config file for the handful of settings that
// aren't part of that contract (server name, MOTD, timers).
package config

import (
	"bufio"
	"os"
	"strconv"
	"time"

	horghconfig "github.com/horgh/config"
	"github.com/pkg/errors"

	"github.com/hatch-irc/ircd/internal/server"
)

// Args are the resolved startup arguments: port and password from CLI or
// environment, plus an optional path to an extra settings file.
type Args struct {
	Port       string
	Password   string
	ConfigFile string
	MOTDFile   string
}

// ParseArgs resolves positional CLI args, falling back to PORT/PASSWORD
// environment variables when absent.
func ParseArgs(argv []string, getenv func(string) string) (Args, error) {
	var a Args

	var positional []string
	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "-config":
			i++
			if i >= len(argv) {
				return Args{}, errors.New("-config requires a file argument")
			}
			a.ConfigFile = argv[i]
		case "-motd":
			i++
			if i >= len(argv) {
				return Args{}, errors.New("-motd requires a file argument")
			}
			a.MOTDFile = argv[i]
		default:
			positional = append(positional, argv[i])
		}
	}

	switch len(positional) {
	case 0:
		a.Port = getenv("PORT")
		a.Password = getenv("PASSWORD")
	case 2:
		a.Port = positional[0]
		a.Password = positional[1]
	default:
		return Args{}, errors.New("usage: server <port> <password>")
	}

	if a.Port == "" {
		return Args{}, errors.New("you must provide a port (CLI argument or PORT environment variable)")
	}

	port, err := strconv.Atoi(a.Port)
	if err != nil || port < 1 || port > 65535 {
		return Args{}, errors.Errorf("port must be 1-65535: %s", a.Port)
	}

	return a, nil
}

// Resolve builds a server.Config from the resolved Args, applying defaults
// and then overlaying anything found in an optional config file/MOTD file.
func Resolve(a Args) (server.Config, error) {
	cfg := server.DefaultConfig()
	cfg.ListenPort = a.Port
	cfg.Password = a.Password

	if a.ConfigFile != "" {
		settings, err := horghconfig.ReadStringMap(a.ConfigFile)
		if err != nil {
			return server.Config{}, errors.Wrap(err, "unable to load config file")
		}
		applySettings(&cfg, settings)
	}

	motdPath := a.MOTDFile
	if motdPath == "" {
		motdPath = cfg.MOTDFile
	}
	if motdPath != "" {
		lines, err := readLines(motdPath)
		if err != nil {
			return server.Config{}, errors.Wrap(err, "unable to load MOTD file")
		}
		cfg.MOTD = lines
	}

	return cfg, nil
}

func applySettings(cfg *server.Config, settings map[string]string) {
	if v, ok := settings["server-name"]; ok && v != "" {
		cfg.ServerName = v
	}
	if v, ok := settings["server-info"]; ok && v != "" {
		cfg.ServerInfo = v
	}
	if v, ok := settings["version"]; ok && v != "" {
		cfg.Version = v
	}
	if v, ok := settings["ping-interval"]; ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.PingInterval = d
		}
	}
	if v, ok := settings["ping-timeout"]; ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.PingTimeout = d
		}
	}
	if v, ok := settings["motd-file"]; ok {
		cfg.MOTDFile = v
	}
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}
