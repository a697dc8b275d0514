package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventContract is the contract generated for one event. Content is always
// fully resolved text; CustomTemplateContent, when set, retains
// placeholders so the document can be re-rendered later.
type EventContract struct {
	ID                    uuid.UUID
	EventID               uuid.UUID
	TemplateID            *uuid.UUID
	Content               string
	CustomTemplateContent *string
	Status                ContractStatus
	Version               int64
	SignedAt              *time.Time
	SignatureRef          *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NewEventContract builds a DRAFT version-1 contract from resolved content.
func NewEventContract(eventID uuid.UUID, templateID *uuid.UUID, content string) EventContract {
	now := time.Now()
	return EventContract{
		ID:         uuid.New(),
		EventID:    eventID,
		TemplateID: templateID,
		Content:    content,
		Status:     StatusDraft,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
