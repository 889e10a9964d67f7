package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/maxaizer/vacancy-service/internal/apperrors"
	"github.com/maxaizer/vacancy-service/internal/config"
)

// PasswordHelper hashes and verifies passwords with bcrypt. Each hash
// carries its own random salt; verification is constant-time.
type PasswordHelper struct{}

func (PasswordHelper) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}
	return string(hash), nil
}

func (PasswordHelper) VerifyPassword(password string, hashedPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
}

type TokenClaims struct {
	Username  string    `json:"sub"`
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"exp"`
}

// JWTHelper creates and validates signed, time-limited tokens. Access
// and refresh tokens differ only in lifetime.
type JWTHelper struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewJWTHelper(cfg config.AuthConfig) *JWTHelper {
	return &JWTHelper{
		secretKey:  []byte(cfg.SecretKey),
		accessTTL:  time.Duration(cfg.AccessTokenExpireMinutes) * time.Minute,
		refreshTTL: time.Duration(cfg.RefreshTokenExpireMinutes) * time.Minute,
	}
}

func (h *JWTHelper) CreateAccessToken(username string, userID int) (string, error) {
	return h.createToken(username, userID, h.accessTTL)
}

func (h *JWTHelper) CreateRefreshToken(username string, userID int) (string, error) {
	return h.createToken(username, userID, h.refreshTTL)
}

func (h *JWTHelper) CreatePairTokens(username string, userID int) (TokenPair, error) {

	accessToken, err := h.CreateAccessToken(username, userID)
	if err != nil {
		return TokenPair{}, err
	}

	refreshToken, err := h.CreateRefreshToken(username, userID)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// DecodeToken validates the signature and expiry. Any failure is
// normalized to an unauthorized error, never a crash.
func (h *JWTHelper) DecodeToken(tokenString string) (*TokenClaims, error) {

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return h.secretKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apperrors.Unauthorized("could not validate credentials")
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.Unauthorized("could not validate credentials")
	}

	claims := &TokenClaims{}
	claims.Username, _ = claimsMap["sub"].(string)
	if userID, ok := claimsMap["user_id"].(float64); ok {
		claims.UserID = int(userID)
	}
	if exp, ok := claimsMap["exp"].(float64); ok {
		claims.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return claims, nil
}

func (h *JWTHelper) createToken(username string, userID int, ttl time.Duration) (string, error) {

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":     username,
		"user_id": userID,
		"exp":     time.Now().UTC().Add(ttl).Unix(),
	})

	signed, err := token.SignedString(h.secretKey)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}
