package models

import "fmt"

// Status is the conversational status of a reservation session.
type Status int

const (
	StatusContinue Status = iota
	StatusReservationComplete
	StatusUserCancelled
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusContinue:
		return "CONTINUE"
	case StatusReservationComplete:
		return "RESERVATION_COMPLETE"
	case StatusUserCancelled:
		return "USER_CANCELLED"
	case StatusError:
		return "ERROR"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// IsTerminal reports whether no further slot-filling is permitted.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusContinue:
		return false
	case StatusReservationComplete, StatusUserCancelled, StatusError:
		return true
	}
	return true
}

func (s Status) MarshalText() ([]byte, error) {
	switch s {
	case StatusContinue, StatusReservationComplete, StatusUserCancelled, StatusError:
		return []byte(s.String()), nil
	}
	return nil, fmt.Errorf("invalid session status %d", int(s))
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus converts the wire name of a status back to its value.
func ParseStatus(name string) (Status, error) {
	switch name {
	case "CONTINUE":
		return StatusContinue, nil
	case "RESERVATION_COMPLETE":
		return StatusReservationComplete, nil
	case "USER_CANCELLED":
		return StatusUserCancelled, nil
	case "ERROR":
		return StatusError, nil
	}
	return StatusContinue, fmt.Errorf("unknown session status %q", name)
}

// Intent is the classified purpose of one inbound message.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentProvideInfo
	IntentCancel
)

func (i Intent) String() string {
	switch i {
	case IntentUnknown:
		return "unknown"
	case IntentProvideInfo:
		return "provide_info"
	case IntentCancel:
		return "cancel"
	}
	return fmt.Sprintf("Intent(%d)", int(i))
}

func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText maps unrecognised names to IntentUnknown rather than failing,
// since classification is owned by the upstream language component.
func (i *Intent) UnmarshalText(text []byte) error {
	switch string(text) {
	case "provide_info":
		*i = IntentProvideInfo
	case "cancel":
		*i = IntentCancel
	default:
		*i = IntentUnknown
	}
	return nil
}
