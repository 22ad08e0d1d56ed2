package responder

import (
	"fmt"
	"strings"
	"time"

	"carbook/models"
	"carbook/services/conversation"
)

// Prompt is the structured state a responder turns into text.
type Prompt struct {
	Status        models.Status
	Missing       []models.SlotName
	Slots         models.Slots
	Reason        string
	ReservationID string
}

// Responder produces user-facing text for a turn.
type Responder interface {
	Respond(p Prompt) string
}

var slotQuestions = map[models.SlotName]string{
	models.SlotVehicleID: "Which vehicle would you like to reserve?",
	models.SlotStartAt:   "When should the reservation start?",
	models.SlotEndAt:     "When should the reservation end?",
	models.SlotUserID:    "Who is the reservation for?",
}

// TemplateResponder answers with fixed sentences.
type TemplateResponder struct{}

func (TemplateResponder) Respond(p Prompt) string {
	switch p.Status {
	case models.StatusReservationComplete:
		return fmt.Sprintf("Your reservation %s for %s is confirmed from %s to %s.",
			p.ReservationID, p.Slots.VehicleID, formatTime(p.Slots.StartAt), formatTime(p.Slots.EndAt))
	case models.StatusUserCancelled:
		return "Okay, I have cancelled this reservation request."
	case models.StatusError:
		return "Sorry, something went wrong with this request. Please start a new session."
	}

	var b strings.Builder
	switch p.Reason {
	case conversation.ReasonConflict:
		b.WriteString("That vehicle is already reserved for the requested time. ")
	case conversation.ReasonVehicleNotFound:
		b.WriteString("I couldn't find that vehicle. ")
	case conversation.ReasonVehicleUnavailable:
		b.WriteString("That vehicle cannot be reserved right now. ")
	case conversation.ReasonInvalidWindow:
		b.WriteString("The end time must be after the start time. ")
	case conversation.ReasonStorageUnavailable:
		b.WriteString("I couldn't complete the reservation just now. Please try again. ")
	case conversation.ReasonUnrecognized:
		b.WriteString("Sorry, I didn't catch that. ")
	}
	if len(p.Missing) > 0 {
		b.WriteString(slotQuestions[p.Missing[0]])
	}
	return strings.TrimSpace(b.String())
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "?"
	}
	return t.Format("2006-01-02 15:04 MST")
}
