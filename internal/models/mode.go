package models

// Mode is one of the five workflow labels attached to projects and chat messages.
type Mode string

const (
	ModePlanner   Mode = "planner"
	ModeArchitect Mode = "architect"
	ModeCoder     Mode = "coder"
	ModeAuto      Mode = "auto"
	ModeDebug     Mode = "debug"
)

// Modes lists every workflow mode in display order.
var Modes = []Mode{ModePlanner, ModeArchitect, ModeCoder, ModeAuto, ModeDebug}

// Valid reports whether m is a known workflow mode.
func (m Mode) Valid() bool {
	for _, k := range Modes {
		if k == m {
			return true
		}
	}
	return false
}

// Project status values.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusPaused    = "paused"
)

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
