package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcsmart/surgimart-api/pkg/jwt"
)

func TestGenerateYParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-7", "admin", "surgimart-api", 30)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, role, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "user-7", userID)
	assert.Equal(t, "admin", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secreto-a", "user-7", "cajero", "surgimart-api", 30)
	require.NoError(t, err)

	_, _, err = jwt.Parse("secreto-b", token)
	assert.Error(t, err, "un token firmado con otro secreto debe rechazarse")
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-7", "cajero", "surgimart-api", -1)
	require.NoError(t, err)

	_, _, err = jwt.Parse("secreto", token)
	assert.Error(t, err, "un token vencido debe rechazarse")
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "user-7", "admin", "surgimart-api", 30)
	assert.Error(t, err)
}

func TestParse_Basura(t *testing.T) {
	_, _, err := jwt.Parse("secreto", "no-es-un-jwt")
	assert.Error(t, err)
}
