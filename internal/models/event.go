package models

// Category is a competition category offered by a certified event.
type Category string

const (
	CategoryCaiaque   Category = "CAIAQUE"
	CategoryEmbarcado Category = "EMBARCADO"
	CategoryArremesso Category = "ARREMESSO"
	CategoryBarranco  Category = "BARRANCO"
)

// Categories lists every competition category in display order.
var Categories = []Category{CategoryCaiaque, CategoryEmbarcado, CategoryArremesso, CategoryBarranco}

// IsValidCategory reports whether c is one of the known categories.
func IsValidCategory(c Category) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CertifiedEvent is an event certified by the federation.
type CertifiedEvent struct {
	ID                      string `json:"id"`
	NomeEvento              string `json:"nomeEvento"`
	Descricao               string `json:"descricao"`
	InstituicaoOrganizadora string `json:"instituicaoOrganizadora"`
	Responsaveis            string `json:"responsaveis"`
	Cidade                  string `json:"cidade"`
	Estado                  string `json:"estado"`
	DataEvento              string `json:"dataEvento"`
	TemCaiaque              bool   `json:"temCaiaque"`
	TemEmbarcado            bool   `json:"temEmbarcado"`
	TemArremesso            bool   `json:"temArremesso"`
	TemBarranco             bool   `json:"temBarranco,omitempty"`
	LogoDataURL             string `json:"logoDataUrl,omitempty"`
	ContactPhone            string `json:"contactPhone,omitempty"`
	CreatedAt               string `json:"createdAt,omitempty"`
	UpdatedAt               string `json:"updatedAt,omitempty"`
}

// Offers reports whether the event runs the given category.
func (e *CertifiedEvent) Offers(c Category) bool {
	switch c {
	case CategoryCaiaque:
		return e.TemCaiaque
	case CategoryEmbarcado:
		return e.TemEmbarcado
	case CategoryArremesso:
		return e.TemArremesso
	case CategoryBarranco:
		return e.TemBarranco
	}
	return false
}

// EventResult is a scored result within one (event, category) bucket.
//
// Colocacao may be present in stored documents but is never authoritative:
// placements are always re-derived from scores (see the ranking package).
type EventResult struct {
	ID            string   `json:"id"`
	EventID       string   `json:"eventId"`
	Categoria     Category `json:"categoria"`
	IDNorteNumero string   `json:"idNorteNumero"`
	UserID        string   `json:"userId"`
	Pontuacao     float64  `json:"pontuacao"`
	Colocacao     int      `json:"colocacao,omitempty"`
	CreatedAt     string   `json:"createdAt,omitempty"`
}
