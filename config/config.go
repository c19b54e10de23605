// Package config defines the runtime configuration for netbat and the
// port parsing shared by the CLI.
package config

import (
	"fmt"
	"strconv"
	"time"

	nberrors "netbat/internal/errors"
)

// Role selects how the connection is established.
type Role int

const (
	// RoleServer listens on Port and accepts one connection.
	RoleServer Role = iota
	// RoleClient dials Host:Port.
	RoleClient
)

func (r Role) String() string {
	if r == RoleClient {
		return "client"
	}
	return "server"
}

// Config holds every tuneable for a single netbat run.
type Config struct {
	// ── Connection ───────────────────────────────────────────────────
	Host    string // empty → server role
	Port    int
	NoDNS   bool
	Timeout time.Duration // connect/accept; 0 = none

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
}

// Role reports whether the config describes the server or client role.
func (c *Config) Role() Role {
	if c.Host == "" {
		return RoleServer
	}
	return RoleClient
}

// ParsePort accepts a decimal port number in 1–65535.
func ParsePort(spec string) (int, error) {
	port, err := strconv.Atoi(spec)
	if err != nil {
		return 0, &nberrors.ArgumentError{
			Arg:     spec,
			Message: "port is not a number",
		}
	}
	if port < 1 || port > 65535 {
		return 0, &nberrors.ArgumentError{
			Arg:     spec,
			Message: fmt.Sprintf("port %d out of range", port),
			Hint:    "use a port between 1 and 65535",
		}
	}
	return port, nil
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return &nberrors.ArgumentError{
			Message: fmt.Sprintf("port %d out of range", c.Port),
			Hint:    "use a port between 1 and 65535",
		}
	}
	if c.Timeout < 0 {
		return &nberrors.ArgumentError{
			Message: "timeout must not be negative",
			Hint:    "use -w 0 to wait indefinitely",
		}
	}
	return nil
}
