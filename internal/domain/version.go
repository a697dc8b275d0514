package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChangeType classifies why a contract version snapshot was taken.
type ChangeType string

const (
	ChangeAutoRegenerate ChangeType = "AUTO_REGENERATE"
	ChangeManualEdit     ChangeType = "MANUAL_EDIT"
	ChangeTemplateUpdate ChangeType = "TEMPLATE_UPDATE"
)

// ContractVersion is an immutable snapshot of a contract's content and
// status. (ContractID, Version) is unique.
type ContractVersion struct {
	ID           uuid.UUID
	ContractID   uuid.UUID
	Version      int64
	Content      string
	Status       ContractStatus
	ChangeType   ChangeType
	ChangeReason *string
	Author       *string
	CreatedAt    time.Time
}

// NewContractVersion snapshots the given contract state.
func NewContractVersion(contractID uuid.UUID, version int64, content string, status ContractStatus, changeType ChangeType, reason, author *string) ContractVersion {
	return ContractVersion{
		ID:           uuid.New(),
		ContractID:   contractID,
		Version:      version,
		Content:      content,
		Status:       status,
		ChangeType:   changeType,
		ChangeReason: reason,
		Author:       author,
		CreatedAt:    time.Now(),
	}
}
