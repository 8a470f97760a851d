package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/gainscan/backend/src/config"
)

// setTestConfig swaps the global configuration for one test and restores it
// afterwards. These tests never call LoadConfig; it terminates the process
// when required variables are missing.
func setTestConfig(t *testing.T, cfg *config.AppConfig) {
	t.Helper()
	previous := config.Cfg
	config.Cfg = cfg
	t.Cleanup(func() { config.Cfg = previous })
}

func TestVerifyAPIKey_HashedKey(t *testing.T) {
	service := NewAuthService("test-secret")

	hash, err := service.HashAPIKey("the-api-key")
	require.NoError(t, err)
	setTestConfig(t, &config.AppConfig{APIKeyHash: hash})

	assert.NoError(t, service.VerifyAPIKey("the-api-key"))
	assert.ErrorIs(t, service.VerifyAPIKey("wrong-key"), ErrInvalidAPIKey)
}

func TestVerifyAPIKey_PlainKey(t *testing.T) {
	service := NewAuthService("test-secret")
	setTestConfig(t, &config.AppConfig{APIKey: "plain-key"})

	assert.NoError(t, service.VerifyAPIKey("plain-key"))
	assert.ErrorIs(t, service.VerifyAPIKey("other"), ErrInvalidAPIKey)
}

// When both credentials are configured the hash decides; the plaintext key
// is ignored.
func TestVerifyAPIKey_HashTakesPrecedence(t *testing.T) {
	service := NewAuthService("test-secret")

	hash, err := service.HashAPIKey("hashed-key")
	require.NoError(t, err)
	setTestConfig(t, &config.AppConfig{APIKey: "plain-key", APIKeyHash: hash})

	assert.NoError(t, service.VerifyAPIKey("hashed-key"))
	assert.ErrorIs(t, service.VerifyAPIKey("plain-key"), ErrInvalidAPIKey)
}

func TestVerifyAPIKey_NoConfig(t *testing.T) {
	setTestConfig(t, nil)

	assert.Error(t, NewAuthService("s").VerifyAPIKey("anything"))
}

func TestTokenRoundTrip(t *testing.T) {
	service := NewAuthService("test-secret")
	setTestConfig(t, &config.AppConfig{AccessTokenExpiry: time.Hour})

	token, err := service.GenerateToken("api-client")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "api-client", subject)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	setTestConfig(t, &config.AppConfig{AccessTokenExpiry: time.Hour})

	token, err := NewAuthService("secret-one").GenerateToken("api-client")
	require.NoError(t, err)

	_, err = NewAuthService("secret-two").ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Expired(t *testing.T) {
	service := NewAuthService("test-secret")
	setTestConfig(t, &config.AppConfig{AccessTokenExpiry: -time.Hour})

	token, err := service.GenerateToken("api-client")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := NewAuthService("test-secret").ValidateToken("not.a.jwt")
	assert.Error(t, err)
}
