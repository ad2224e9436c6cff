package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/convoisukraine/convoysbackend/apierrors"
	"github.com/convoisukraine/convoysbackend/config"
)

// SessionTTL is the lifetime of a session token and of a password reset link.
const SessionTTL = 3 * time.Hour

const resetTokenBytes = 20

// Claims carried by a session token.
type Claims struct {
	UserID string `json:"_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies session tokens, and mints password reset
// tokens. The signing secret is fixed at construction.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{secret: []byte(cfg.Secret), now: time.Now}
}

// IssueSession signs a token identifying userID, valid for SessionTTL.
func (s *TokenService) IssueSession(userID string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifySession returns the user id encoded in a valid token. Expired,
// malformed and badly signed tokens all fail the same way.
func (s *TokenService) VerifySession(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return "", apierrors.ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return "", apierrors.ErrInvalidToken
	}
	return claims.UserID, nil
}

// NewResetToken returns a hex-encoded random token for password reset links.
// It is validated by store lookup, not by signature.
func NewResetToken() (string, error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
