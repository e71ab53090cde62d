package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WilliamRochafnpe/FNPE/internal/apperrors"
	"github.com/WilliamRochafnpe/FNPE/internal/models"
)

func membershipFixture() *fakeState {
	return newFakeState(&models.Database{
		Users: []models.User{
			{ID: "u1", Email: "ana@example.com", NomeCompleto: "Ana", Nivel: models.LevelPescador,
				IDNorteStatus: models.CredentialNotRequested},
			{ID: "u2", Email: "bia@example.com", NomeCompleto: "Bia", Nivel: models.LevelAtleta,
				IDNorteStatus: models.CredentialApproved, IDNorteNumero: "ID-00001"},
		},
	})
}

func TestMembershipRequest(t *testing.T) {
	state := membershipFixture()
	svc := NewMembershipService(state, testLogger(t))

	request, err := svc.Request(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, models.RequestPending, request.Status)
	assert.Equal(t, "u1", request.UserID)
	assert.NotEmpty(t, request.DataSolicitacao)

	require.Len(t, state.db.Requests, 1)
	assert.Equal(t, models.CredentialPending, state.db.UserByID("u1").IDNorteStatus)
}

func TestMembershipRequestAlreadyPending(t *testing.T) {
	state := membershipFixture()
	svc := NewMembershipService(state, testLogger(t))

	_, err := svc.Request(context.Background(), "u1")
	require.NoError(t, err)

	_, err = svc.Request(context.Background(), "u1")
	assert.Equal(t, apperrors.CategoryConflict, apperrors.AsError(err).Category)
}

func TestMembershipRequestUnknownUser(t *testing.T) {
	svc := NewMembershipService(membershipFixture(), testLogger(t))
	_, err := svc.Request(context.Background(), "ninguem")
	assert.Equal(t, apperrors.CategoryNotFound, apperrors.AsError(err).Category)
}

func TestMembershipApprove(t *testing.T) {
	state := membershipFixture()
	svc := NewMembershipService(state, testLogger(t))
	ctx := context.Background()

	request, err := svc.Request(ctx, "u1")
	require.NoError(t, err)

	user, err := svc.Approve(ctx, request.ID)
	require.NoError(t, err)

	// u2 already holds ID-00001, so the next number is ID-00002.
	assert.Equal(t, "ID-00002", user.IDNorteNumero)
	assert.Equal(t, models.LevelAtleta, user.Nivel)
	assert.Equal(t, models.CredentialApproved, user.IDNorteStatus)
	assert.Contains(t, user.IDNortePDFLink, "ID-00002")
	assert.NotEmpty(t, user.IDNorteAdesao)
	assert.NotEmpty(t, user.IDNorteValidade)
	assert.NotEmpty(t, user.IDNorteAprovadoEm)

	stored := state.db.Requests[0]
	assert.Equal(t, models.RequestApproved, stored.Status)
}

func TestMembershipApprovePreservesExistingCredential(t *testing.T) {
	state := membershipFixture()
	u := state.db.UserByID("u1")
	u.IDNorteNumero = "ID-00042"
	u.IDNortePDFLink = "https://example.com/carteirinha-ID-00042.pdf"
	u.IDNorteAdesao = "2020-01-01T00:00:00Z"
	u.IDNorteValidade = "2021-01-01T00:00:00Z"

	svc := NewMembershipService(state, testLogger(t))
	ctx := context.Background()

	request, err := svc.Request(ctx, "u1")
	require.NoError(t, err)

	user, err := svc.Approve(ctx, request.ID)
	require.NoError(t, err)

	assert.Equal(t, "ID-00042", user.IDNorteNumero)
	assert.Equal(t, "2020-01-01T00:00:00Z", user.IDNorteAdesao)
	assert.Equal(t, "2021-01-01T00:00:00Z", user.IDNorteValidade)
}

func TestMembershipApproveTwice(t *testing.T) {
	state := membershipFixture()
	svc := NewMembershipService(state, testLogger(t))
	ctx := context.Background()

	request, err := svc.Request(ctx, "u1")
	require.NoError(t, err)
	_, err = svc.Approve(ctx, request.ID)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, request.ID)
	assert.Equal(t, apperrors.CategoryConflict, apperrors.AsError(err).Category)
}

func TestMembershipReject(t *testing.T) {
	state := membershipFixture()
	svc := NewMembershipService(state, testLogger(t))
	ctx := context.Background()

	request, err := svc.Request(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, svc.Reject(ctx, request.ID, "documentação incompleta"))

	stored := state.db.Requests[0]
	assert.Equal(t, models.RequestRejected, stored.Status)
	assert.Equal(t, "documentação incompleta", stored.ObservacaoAdmin)
	assert.Equal(t, models.CredentialRejected, state.db.UserByID("u1").IDNorteStatus)
}

func TestMembershipRejectRequiresReason(t *testing.T) {
	state := membershipFixture()
	svc := NewMembershipService(state, testLogger(t))
	ctx := context.Background()

	request, err := svc.Request(ctx, "u1")
	require.NoError(t, err)

	err = svc.Reject(ctx, request.ID, "")
	assert.Equal(t, "MISSING_FIELD", apperrors.AsError(err).Code)

	// Nothing was decided.
	assert.Equal(t, models.RequestPending, state.db.Requests[0].Status)
}

func TestMembershipListOrdering(t *testing.T) {
	state := newFakeState(&models.Database{
		Users: []models.User{{ID: "u1", Email: "ana@example.com"}},
		Requests: []models.MembershipRequest{
			{ID: "r1", UserID: "u1", DataSolicitacao: "2024-01-01T00:00:00Z", Status: models.RequestApproved},
			{ID: "r2", UserID: "u1", DataSolicitacao: "2024-06-01T00:00:00Z", Status: models.RequestPending},
		},
	})
	svc := NewMembershipService(state, testLogger(t))

	list := svc.List(context.Background())
	require.Len(t, list, 2)
	assert.Equal(t, "r2", list[0].ID)

	own := svc.ListForUser(context.Background(), "u1")
	assert.Len(t, own, 2)
	assert.Empty(t, svc.ListForUser(context.Background(), "u2"))
}
