package config

import "time"

// ── Default values ───────────────────────────────────────────────────

const (
	// ProgramName is used in usage and version output.
	ProgramName = "netbat"

	// Authors is printed by --version.
	Authors = "Damian Jason Lapidge <grey@greydamian.org>"

	// DefaultListenBacklog is the pending-connection queue length for
	// the server role.  Only one connection is ever accepted.
	DefaultListenBacklog = 1

	// DefaultTimeout applies to connect and accept.  Zero leaves both
	// to the operating system, i.e. accept waits forever and connect
	// uses the kernel's SYN retry limit.
	DefaultTimeout time.Duration = 0
)
