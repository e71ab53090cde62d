// Package models defines the federation document model: the single JSON
// document holding users, events, results, requests and settings, plus the
// snapshot type used for backups.
//
// Timestamps are stored as RFC3339 strings and event dates as "2006-01-02"
// strings, exactly as they appear on the wire; the document is replaced
// wholesale on every mutation and must round-trip through JSON unchanged.
package models

import "time"

// UserLevel is the role of a federation user.
type UserLevel string

const (
	LevelAdmin    UserLevel = "ADMIN"
	LevelPescador UserLevel = "PESCADOR"
	LevelAtleta   UserLevel = "ATLETA"
)

// CredentialStatus is the lifecycle status of a user's ID Norte credential.
type CredentialStatus string

const (
	CredentialNotRequested CredentialStatus = "NAO_SOLICITADO"
	CredentialPending      CredentialStatus = "PENDENTE"
	CredentialApproved     CredentialStatus = "APROVADO"
	CredentialRejected     CredentialStatus = "REPROVADO"
)

// User is a federation member.
type User struct {
	ID             string           `json:"id"`
	Email          string           `json:"email"`
	NomeCompleto   string           `json:"nomeCompleto"`
	CPF            string           `json:"cpf,omitempty"`
	DataNascimento string           `json:"dataNascimento,omitempty"`
	Telefone       string           `json:"telefone,omitempty"`
	Cidade         string           `json:"cidade,omitempty"`
	Estado         string           `json:"estado,omitempty"`
	FotoURL        string           `json:"fotoUrl,omitempty"`
	Nivel          UserLevel        `json:"nivel"`
	IDNorteStatus  CredentialStatus `json:"idNorteStatus"`

	// Credential fields, populated on approval.
	IDNorteNumero     string `json:"idNorteNumero,omitempty"`
	IDNortePDFLink    string `json:"idNortePdfLink,omitempty"`
	IDNorteAprovadoEm string `json:"idNorteAprovadoEm,omitempty"`
	IDNorteAdesao     string `json:"idNorteAdesao,omitempty"`
	IDNorteValidade   string `json:"idNorteValidade,omitempty"`

	CreatedAt string `json:"createdAt,omitempty"`
}

// NowISO returns the current UTC time as an RFC3339 string, the timestamp
// format used throughout the document.
func NowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// DateOnly is the layout for event dates.
const DateOnly = "2006-01-02"
