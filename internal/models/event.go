// internal/models/event.go
package models

import "time"

// EventType names something that happened inside a wizard session.
type EventType string

const (
	EventAdvanced           EventType = "advanced"
	EventRetreated          EventType = "retreated"
	EventDraftLoaded        EventType = "draft_loaded"
	EventDraftSaved         EventType = "draft_saved"
	EventDraftSaveFailed    EventType = "draft_save_failed"
	EventDraftCleared       EventType = "draft_cleared"
	EventSubmitted          EventType = "submitted"
	EventSubmissionFailed   EventType = "submission_failed"
	EventCancelled          EventType = "cancelled"
	EventAttachmentRejected EventType = "attachment_rejected"
)

// WizardEvent is emitted to recorders (metrics, audit log).
type WizardEvent struct {
	Flow      string        `json:"flow"`
	SessionID string        `json:"sessionId"`
	UserID    string        `json:"userId"`
	Type      EventType     `json:"type"`
	Step      int           `json:"step"`
	Substep   int           `json:"substep"`
	Detail    string        `json:"detail,omitempty"`
	Duration  time.Duration `json:"duration,omitempty"`
	At        time.Time     `json:"at"`
}
