package core

import "os"

// Mode selects which engine drives rendering. It is fixed for the lifetime
// of the process: exactly one of build and server mode is ever active.
type Mode int

const (
	ModeBuild Mode = iota
	ModeServer
)

func (m Mode) String() string {
	if m == ModeServer {
		return "server"
	}
	return "build"
}

// DetectMode reads the process-level mode signal. VERSO_DEV=1 selects
// server mode; anything else selects build mode.
func DetectMode() Mode {
	if os.Getenv("VERSO_DEV") == "1" {
		return ModeServer
	}
	return ModeBuild
}
