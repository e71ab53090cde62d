package models

// RequestStatus is the decision status of a membership or certification
// request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDENTE"
	RequestApproved RequestStatus = "APROVADO"
	RequestRejected RequestStatus = "REPROVADO"
)

// MembershipRequest is a user's request for the ID Norte credential.
// A user may accumulate several over time; the most recent one by
// DataSolicitacao is the current request.
type MembershipRequest struct {
	ID              string        `json:"id"`
	UserID          string        `json:"userId"`
	DataSolicitacao string        `json:"dataSolicitacao"`
	Status          RequestStatus `json:"status"`
	ObservacaoAdmin string        `json:"observacaoAdmin,omitempty"`
}
