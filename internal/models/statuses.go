package models

type UserType string
type RequestStatus string
type ProposalStatus string

const (
	UserTypeClient   UserType = "cliente"
	UserTypeProvider UserType = "prestador"

	RequestStatusPending    RequestStatus = "pending"
	RequestStatusInProgress RequestStatus = "in_progress"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusCancelled  RequestStatus = "cancelled"

	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// IsTerminal - из завершенной или отмененной заявки выхода нет.
func (s RequestStatus) IsTerminal() bool {
	return s == RequestStatusCompleted || s == RequestStatusCancelled
}

// CanTransitionTo описывает допустимые ребра автомата заявки.
// Только вперед: pending -> in_progress -> completed, либо pending -> cancelled.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case RequestStatusPending:
		return next == RequestStatusInProgress || next == RequestStatusCancelled
	case RequestStatusInProgress:
		return next == RequestStatusCompleted
	default:
		return false
	}
}

func (s ProposalStatus) IsTerminal() bool {
	return s == ProposalStatusAccepted || s == ProposalStatusRejected
}

func (t UserType) IsValid() bool {
	return t == UserTypeClient || t == UserTypeProvider
}
