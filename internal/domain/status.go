package domain

// ContractStatus is the lifecycle state of an EventContract.
type ContractStatus string

const (
	StatusDraft                         ContractStatus = "DRAFT"
	StatusPublished                     ContractStatus = "PUBLISHED"
	StatusSigned                        ContractStatus = "SIGNED"
	StatusCancellationRequestedByStudio ContractStatus = "CANCELLATION_REQUESTED_BY_STUDIO"
	StatusCancellationRequestedByClient ContractStatus = "CANCELLATION_REQUESTED_BY_CLIENT"
	StatusCancelled                     ContractStatus = "CANCELLED"
)

// allowedTransitions is the single source of truth for the state machine.
var allowedTransitions = map[ContractStatus][]ContractStatus{
	StatusDraft:                         {StatusPublished},
	StatusPublished:                     {StatusSigned, StatusCancellationRequestedByStudio, StatusCancellationRequestedByClient},
	StatusCancellationRequestedByStudio: {StatusCancelled},
	StatusCancellationRequestedByClient: {StatusCancelled},
	StatusSigned:                        {},
	StatusCancelled:                     {},
}

// CanTransition reports whether the state machine permits from -> to.
func CanTransition(from, to ContractStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status admits no further transitions.
func (s ContractStatus) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0 && (s == StatusSigned || s == StatusCancelled)
}

// IsEditable reports whether contract content may still change. Editing a
// PUBLISHED contract never regresses it to DRAFT.
func (s ContractStatus) IsEditable() bool {
	return s == StatusDraft || s == StatusPublished
}

// IsDeletable reports whether the contract may be hard-removed.
func (s ContractStatus) IsDeletable() bool {
	return s == StatusDraft || s == StatusPublished
}

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s ContractStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}
