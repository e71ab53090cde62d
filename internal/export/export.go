// Package export renders read-only projections of the document for download:
// CSV reports and pretty-printed JSON. Rendering never touches the document.
package export

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/WilliamRochafnpe/FNPE/internal/apperrors"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
	"github.com/WilliamRochafnpe/FNPE/internal/ranking"
)

// Field is one named CSV cell. Rows carry their fields in column order, so
// the header comes from the first row's keys.
type Field struct {
	Key   string
	Value string
}

// Row is an ordered record.
type Row []Field

// CSV renders rows with a header line from the first row's keys. Every value
// is quoted; quotes inside values are doubled. An empty input yields an empty
// string.
func CSV(rows []Row) string {
	if len(rows) == 0 {
		return ""
	}

	var b strings.Builder
	for i, f := range rows[0] {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(f.Key))
	}
	b.WriteByte('\n')

	for _, row := range rows {
		for i, f := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(quote(f.Value))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// JSON renders v as indented JSON, the download format for backups and
// collection exports.
func JSON(v interface{}) ([]byte, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return raw, nil
}

// Collection names the exportable document collections.
const (
	CollectionUsers    = "users"
	CollectionEvents   = "events"
	CollectionResults  = "results"
	CollectionRequests = "requests"
)

// CollectionRows projects a named collection into CSV rows. Unknown names
// return a validation error.
func CollectionRows(db *models.Database, collection string) ([]Row, error) {
	switch collection {
	case CollectionUsers:
		return UserRows(db), nil
	case CollectionEvents:
		return EventRows(db), nil
	case CollectionResults:
		return ResultRows(db), nil
	case CollectionRequests:
		return RequestRows(db), nil
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown collection %q", collection))
	}
}

// CollectionData returns a named collection for JSON export.
func CollectionData(db *models.Database, collection string) (interface{}, error) {
	switch collection {
	case CollectionUsers:
		return db.Users, nil
	case CollectionEvents:
		return db.Events, nil
	case CollectionResults:
		return db.Results, nil
	case CollectionRequests:
		return db.Requests, nil
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown collection %q", collection))
	}
}

// UserRows projects the user collection.
func UserRows(db *models.Database) []Row {
	rows := make([]Row, 0, len(db.Users))
	for _, u := range db.Users {
		rows = append(rows, Row{
			{"id", u.ID},
			{"nomeCompleto", u.NomeCompleto},
			{"email", u.Email},
			{"cpf", u.CPF},
			{"nivel", string(u.Nivel)},
			{"idNorteStatus", string(u.IDNorteStatus)},
			{"idNorteNumero", u.IDNorteNumero},
			{"cidade", u.Cidade},
			{"estado", u.Estado},
			{"createdAt", u.CreatedAt},
		})
	}
	return rows
}

// EventRows projects the event collection.
func EventRows(db *models.Database) []Row {
	rows := make([]Row, 0, len(db.Events))
	for _, e := range db.Events {
		rows = append(rows, Row{
			{"id", e.ID},
			{"nomeEvento", e.NomeEvento},
			{"instituicaoOrganizadora", e.InstituicaoOrganizadora},
			{"cidade", e.Cidade},
			{"estado", e.Estado},
			{"dataEvento", e.DataEvento},
			{"categorias", categoriesLabel(&e)},
			{"createdAt", e.CreatedAt},
		})
	}
	return rows
}

func categoriesLabel(e *models.CertifiedEvent) string {
	var out []string
	for _, c := range models.Categories {
		if e.Offers(c) {
			out = append(out, string(c))
		}
	}
	return strings.Join(out, " | ")
}

// ResultRows projects the result collection with derived placements.
func ResultRows(db *models.Database) []Row {
	rows := make([]Row, 0, len(db.Results))
	for _, r := range db.Results {
		event := db.EventByID(r.EventID)
		eventName := ""
		if event != nil {
			eventName = event.NomeEvento
		}
		user := db.UserByID(r.UserID)
		userName := ""
		if user != nil {
			userName = user.NomeCompleto
		}
		rows = append(rows, Row{
			{"id", r.ID},
			{"evento", eventName},
			{"categoria", string(r.Categoria)},
			{"atleta", userName},
			{"idNorteNumero", r.IDNorteNumero},
			{"pontuacao", formatScore(r.Pontuacao)},
			{"colocacao", fmt.Sprintf("%d", ranking.Placement(db.Results, r))},
		})
	}
	return rows
}

// RequestRows projects the membership-request collection.
func RequestRows(db *models.Database) []Row {
	rows := make([]Row, 0, len(db.Requests))
	for _, r := range db.Requests {
		user := db.UserByID(r.UserID)
		userName := ""
		if user != nil {
			userName = user.NomeCompleto
		}
		rows = append(rows, Row{
			{"id", r.ID},
			{"usuario", userName},
			{"dataSolicitacao", r.DataSolicitacao},
			{"status", string(r.Status)},
			{"observacaoAdmin", r.ObservacaoAdmin},
		})
	}
	return rows
}

// LeaderboardRows projects a state leaderboard for download.
func LeaderboardRows(db *models.Database, entries []ranking.Entry) []Row {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		name, numero := "", ""
		if user := db.UserByID(e.UserID); user != nil {
			name = user.NomeCompleto
			numero = user.IDNorteNumero
		}
		rows = append(rows, Row{
			{"colocacao", fmt.Sprintf("%d", e.Placement)},
			{"atleta", name},
			{"idNorteNumero", numero},
			{"pontuacao", formatScore(e.Score)},
		})
	}
	return rows
}

func formatScore(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
