package store

import (
	"time"

	"github.com/WilliamRochafnpe/FNPE/internal/models"
)

func daysAgo(days int) string {
	return time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
}

func dateDaysAgo(days int) string {
	return time.Now().UTC().AddDate(0, 0, -days).Format(models.DateOnly)
}

// SeedData returns a fresh copy of the demo document used when storage is
// absent or structurally invalid.
func SeedData() *models.Database {
	return &models.Database{
		Settings: models.Settings{
			AppBranding: models.Branding{
				AppName: "FNPE - Federação Norte de Pesca Esportiva",
			},
			AppSupport: models.Support{
				SupportWhatsApp: "5596999999999",
				SupportEmail:    "suporte@fnpe.com.br",
			},
			RankingsCovers: map[string]string{},
		},
		Users: []models.User{
			{
				ID:            "pescador-demo",
				Email:         "pescador@demo.com",
				NomeCompleto:  "João Pescador",
				Nivel:         models.LevelPescador,
				IDNorteStatus: models.CredentialNotRequested,
				Estado:        "PA",
				Cidade:        "Belém",
				CreatedAt:     daysAgo(10),
			},
			{
				ID:                "atleta-demo",
				Email:             "atleta@demo.com",
				NomeCompleto:      "Maria Atleta",
				Nivel:             models.LevelAtleta,
				IDNorteStatus:     models.CredentialApproved,
				IDNorteNumero:     "ID-00001",
				IDNortePDFLink:    "https://example.com/id-norte-mock.pdf",
				IDNorteAprovadoEm: daysAgo(45),
				Estado:            "AM",
				Cidade:            "Manaus",
				CreatedAt:         daysAgo(100),
			},
		},
		Requests:              []models.MembershipRequest{},
		CertificationRequests: []models.CertificationRequest{},
		Events: []models.CertifiedEvent{
			{
				ID:                      "event-1",
				NomeEvento:              "1º Torneio Tucunaré Master",
				Descricao:               "Grande torneio de pesca esportiva no Rio Negro.",
				InstituicaoOrganizadora: "Associação de Pesca AM",
				Responsaveis:            "Carlos Silva",
				Cidade:                  "Manaus",
				Estado:                  "AM",
				DataEvento:              dateDaysAgo(15),
				TemCaiaque:              true,
				TemEmbarcado:            true,
				TemArremesso:            false,
				CreatedAt:               daysAgo(20),
			},
		},
		Results: []models.EventResult{
			{
				ID:            "res-1",
				EventID:       "event-1",
				Categoria:     models.CategoryEmbarcado,
				IDNorteNumero: "ID-00001",
				UserID:        "atleta-demo",
				Pontuacao:     1250.5,
				CreatedAt:     daysAgo(14),
			},
		},
	}
}
