package models

// ChatIn is one conversational turn as produced by the upstream intent extractor.
type ChatIn struct {
	SessionID string    `json:"session_id" binding:"required"`
	Intent    Intent    `json:"intent"`            // "provide_info", "cancel" or anything else for unknown
	Slots     SlotDelta `json:"slots"`             // partial slot values; nulls are ignored
	Message   string    `json:"message,omitempty"` // raw user text, recorded in the turn history
}

// ChatOut is the structured result of a turn.
type ChatOut struct {
	SessionID     string     `json:"session_id"`
	Status        Status     `json:"status"`
	MissingSlots  []SlotName `json:"missing_info"`
	Response      string     `json:"response"`
	Reason        string     `json:"reason,omitempty"`        // why slots were cleared or the turn stalled
	ClearedSlots  []SlotName `json:"cleared_slots,omitempty"` // slots emptied by this turn
	Slots         Slots      `json:"slots"`
	UserID        string     `json:"user_id,omitempty"`
	ReservationID string     `json:"reservation_id,omitempty"` // set when the turn committed a reservation
}
