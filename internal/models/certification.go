package models

// DocumentType distinguishes the organizing institution's legal document.
type DocumentType string

const (
	DocumentCPF  DocumentType = "CPF"
	DocumentCNPJ DocumentType = "CNPJ"
)

// ResponsiblePerson is one of the people responsible for a prospective event.
type ResponsiblePerson struct {
	ID       string `json:"id"`
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
	Funcao   string `json:"funcao,omitempty"`
}

// UploadFile is the metadata and (optionally inlined) payload of an uploaded
// attachment.
type UploadFile struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Mime    string `json:"mime"`
	Size    int64  `json:"size"`
	DataURL string `json:"dataUrl,omitempty"`
}

// CertificationRequest is a draft event submitted for federation
// certification. Approval is a one-way transition that materializes exactly
// one CertifiedEvent and records its identity in EventID.
type CertificationRequest struct {
	ID                string        `json:"id"`
	Status            RequestStatus `json:"status"`
	RequestedAt       string        `json:"requestedAt"`
	RequestedByUserID string        `json:"requestedByUserId"`
	RequestedByEmail  string        `json:"requestedByEmail"`

	// Event draft.
	LogoDataURL string     `json:"logoDataUrl,omitempty"`
	NomeEvento  string     `json:"nomeEvento"`
	DataInicio  string     `json:"dataInicio"`
	DataFim     string     `json:"dataFim"`
	Descricao   string     `json:"descricao,omitempty"`
	Categorias  []Category `json:"categorias"`
	Cidade      string     `json:"cidade"`
	Estado      string     `json:"estado"`

	// Organization.
	InstituicaoNome string              `json:"instituicaoNome"`
	Documento       string              `json:"documento"`
	DocumentoTipo   DocumentType        `json:"documentoTipo"`
	Responsaveis    []ResponsiblePerson `json:"responsaveis"`
	Anexos          []UploadFile        `json:"anexos"`

	// Decision.
	ApprovedAt   string `json:"approvedAt,omitempty"`
	ApprovedBy   string `json:"approvedBy,omitempty"`
	RejectedAt   string `json:"rejectedAt,omitempty"`
	RejectedBy   string `json:"rejectedBy,omitempty"`
	RejectReason string `json:"rejectReason,omitempty"`
	EventID      string `json:"eventId,omitempty"`
}

// HasCategory reports whether the draft includes the given category.
func (r *CertificationRequest) HasCategory(c Category) bool {
	for _, cat := range r.Categorias {
		if cat == c {
			return true
		}
	}
	return false
}
