package conversation

import (
	"fmt"
	"strings"
)

// ClearPolicy selects which slots are emptied when the requested window conflicts.
type ClearPolicy int

const (
	ClearVehicle ClearPolicy = iota
	ClearWindow
)

func (p ClearPolicy) String() string {
	switch p {
	case ClearVehicle:
		return "vehicle"
	case ClearWindow:
		return "time"
	}
	return fmt.Sprintf("ClearPolicy(%d)", int(p))
}

// ParseClearPolicy accepts "vehicle" or "time"; empty means vehicle.
func ParseClearPolicy(name string) (ClearPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "vehicle":
		return ClearVehicle, nil
	case "time", "window":
		return ClearWindow, nil
	}
	return ClearVehicle, fmt.Errorf("unknown conflict clear policy %q", name)
}

// Policy holds the tunable parts of the machine.
type Policy struct {
	// MaxUnknownTurns is how many consecutive unusable turns are tolerated before ERROR.
	MaxUnknownTurns int
	OnConflict      ClearPolicy
}

// DefaultPolicy tolerates three unusable turns and clears the vehicle on conflict.
func DefaultPolicy() Policy {
	return Policy{MaxUnknownTurns: 3, OnConflict: ClearVehicle}
}
