package entity

import "time"

// ActionType classifies an outreach action.
type ActionType string

const (
	ActionTypeEmail   ActionType = "email"
	ActionTypeCall    ActionType = "call"
	ActionTypeMeeting ActionType = "meeting"
	ActionTypeNote    ActionType = "note"
)

// ActionStatusSent marks an action as delivered and therefore eligible for
// CRM sync.
const ActionStatusSent = "sent"

// Action is one outbound communication event against a lead. Read-only to
// this subsystem.
type Action struct {
	ID      string     `json:"id"`
	LeadID  string     `json:"lead_id"`
	Type    ActionType `json:"type"`
	Subject string     `json:"subject"`
	Body    string     `json:"body,omitempty"`
	SentAt  *time.Time `json:"sent_at,omitempty"`
	Status  string     `json:"status"`
	// Outcome is optional feedback recorded after the action was sent
	// (e.g. "replied", "bounced").
	Outcome string `json:"outcome,omitempty"`
}

// Sent reports whether the action is eligible for CRM sync.
func (a *Action) Sent() bool {
	return a.Status == ActionStatusSent
}
