// Package notify delivers outbound contract lifecycle events. Delivery is
// fire-and-forget: a failed notification is logged and swallowed, never
// rolled back into the operation that triggered it.
package notify

import (
	"context"

	"github.com/google/uuid"
)

// CancellationOrigin says which party asked to cancel.
type CancellationOrigin string

const (
	CancellationByStudio CancellationOrigin = "studio"
	CancellationByClient CancellationOrigin = "client"
)

// Notifier receives lifecycle transitions the studio should hear about.
type Notifier interface {
	ContractPublished(ctx context.Context, contractID uuid.UUID, version int64)
	ContractSigned(ctx context.Context, contractID uuid.UUID, version int64)
	CancellationRequested(ctx context.Context, contractID uuid.UUID, version int64, origin CancellationOrigin)
	ContractCancelled(ctx context.Context, contractID uuid.UUID, version int64)
}

// Nop discards every notification; the default when no channel is
// configured.
type Nop struct{}

func (Nop) ContractPublished(context.Context, uuid.UUID, int64)                          {}
func (Nop) ContractSigned(context.Context, uuid.UUID, int64)                             {}
func (Nop) CancellationRequested(context.Context, uuid.UUID, int64, CancellationOrigin) {}
func (Nop) ContractCancelled(context.Context, uuid.UUID, int64)                          {}
