package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WilliamRochafnpe/FNPE/internal/logging"
)

func setupRecovery(t *testing.T) *Recovery {
	t.Helper()
	r := NewRecovery(logging.NewLogger(logging.LevelError, logging.FormatText))
	r.makeCode = func() string { return "654321" }
	return r
}

func TestRecoveryHappyPath(t *testing.T) {
	r := setupRecovery(t)
	db := testUsersDB()

	masked, err := r.Request(db, "527.857.852-15")
	require.NoError(t, err)
	assert.Equal(t, "an***@e***.com", masked)

	email, err := r.Verify("52785785215", "654321")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)

	// Single use.
	_, err = r.Verify("52785785215", "654321")
	assert.Equal(t, "OTP_NOT_REQUESTED", errCode(t, err))
}

func TestRecoveryUnknownCPF(t *testing.T) {
	r := setupRecovery(t)

	_, err := r.Request(testUsersDB(), "529.982.247-25")
	assert.Equal(t, "NOT_FOUND", errCode(t, err))
}

func TestRecoveryCPFMismatch(t *testing.T) {
	r := setupRecovery(t)
	db := testUsersDB()

	_, err := r.Request(db, "52785785215")
	require.NoError(t, err)

	_, err = r.Verify("529.982.247-25", "654321")
	assert.Equal(t, "OTP_CPF_MISMATCH", errCode(t, err))

	// The mismatch does not consume the request.
	email, err := r.Verify("52785785215", "654321")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)
}

func TestRecoveryExpiry(t *testing.T) {
	r := setupRecovery(t)
	db := testUsersDB()

	now := time.Now()
	r.now = func() time.Time { return now }
	_, err := r.Request(db, "52785785215")
	require.NoError(t, err)

	r.now = func() time.Time { return now.Add(6 * time.Minute) }
	_, err = r.Verify("52785785215", "654321")
	assert.Equal(t, "OTP_EXPIRED", errCode(t, err))

	_, err = r.Verify("52785785215", "654321")
	assert.Equal(t, "OTP_NOT_REQUESTED", errCode(t, err))
}

func TestRecoveryAttemptsExceeded(t *testing.T) {
	r := setupRecovery(t)
	db := testUsersDB()

	_, err := r.Request(db, "52785785215")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = r.Verify("52785785215", "000000")
		assert.Equal(t, "OTP_INVALID_CODE", errCode(t, err))
	}

	_, err = r.Verify("52785785215", "654321")
	assert.Equal(t, "OTP_ATTEMPTS_EXCEEDED", errCode(t, err))
}

func TestRecoveryIndependentOfLoginSlot(t *testing.T) {
	r := setupRecovery(t)
	s := setupLocal(t)
	db := testUsersDB()

	_, err := r.Request(db, "52785785215")
	require.NoError(t, err)

	// A login request does not disturb the recovery slot.
	_, err = s.RequestOTP(context.Background(), "bia@example.com")
	require.NoError(t, err)

	email, err := r.Verify("52785785215", "654321")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)
}
