package security

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/username/gainscan/backend/src/config"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

var ErrInvalidAPIKey = errors.New("invalid api key")

type AuthService struct {
	JWTSecret string
}

func NewAuthService(secret string) *AuthService {
	return &AuthService{
		JWTSecret: secret,
	}
}

// HashAPIKey produces the bcrypt hash to put in API_KEY_HASH. Exposed so the
// server binary can mint hashes for deployment without a separate tool.
func (a *AuthService) HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyAPIKey checks a presented key against the configured credential.
// When a bcrypt hash is configured it wins over the plaintext key.
func (a *AuthService) VerifyAPIKey(presented string) error {
	if config.Cfg == nil {
		return errors.New("configuration not loaded, cannot verify API key")
	}
	if config.Cfg.APIKeyHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(config.Cfg.APIKeyHash), []byte(presented)); err != nil {
			return ErrInvalidAPIKey
		}
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(config.Cfg.APIKey), []byte(presented)) == 1 {
		return nil
	}
	return ErrInvalidAPIKey
}

func (a *AuthService) GenerateToken(subject string) (string, error) {
	if config.Cfg == nil {
		// This should ideally not happen if LoadConfig is called at startup
		// But as a safeguard:
		return "", errors.New("configuration not loaded, cannot determine token expiry")
	}
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(config.Cfg.AccessTokenExpiry).Unix(), // Use configured expiry
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.JWTSecret))
}

func (a *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.JWTSecret), nil
	})

	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		// Ensure 'sub' claim exists and is a string
		sub, ok := claims["sub"].(string)
		if !ok {
			return "", errors.New("invalid token: 'sub' claim missing or not a string")
		}
		return sub, nil
	}

	return "", errors.New("invalid token")
}
