package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContractTemplate is an owner-authored document template whose content
// still carries placeholders. Slug is unique per owner.
type ContractTemplate struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Slug        string
	Content     string
	EventTypeID *uuid.UUID
	IsDefault   bool
	IsActive    bool
	Version     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewContractTemplate builds an active version-1 template.
func NewContractTemplate(ownerID uuid.UUID, name, content string, eventTypeID *uuid.UUID) ContractTemplate {
	now := time.Now()
	return ContractTemplate{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Slug:        Slugify(name),
		Content:     content,
		EventTypeID: eventTypeID,
		IsActive:    true,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Slugify lowers a name into a URL-safe slug.
func Slugify(name string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		case r == 'á':
			b.WriteRune('a')
			prevDash = false
		case r == 'é':
			b.WriteRune('e')
			prevDash = false
		case r == 'í':
			b.WriteRune('i')
			prevDash = false
		case r == 'ó':
			b.WriteRune('o')
			prevDash = false
		case r == 'ú', r == 'ü':
			b.WriteRune('u')
			prevDash = false
		case r == 'ñ':
			b.WriteRune('n')
			prevDash = false
		default:
			if !prevDash && b.Len() > 0 {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
