package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/biztime"
)

// clockSkew tolerates drift between this API and the account service that
// also mints tokens for the same secret.
const clockSkew = 30 * time.Second

var ErrNoSubject = errors.New("token has no subject")

// Claims identifies the principal by its public UUID. Tokens from the
// account service carry only sub; Verify copies it into UserUUID.
type Claims struct {
	UserUUID string `json:"user_uuid,omitempty"`
	jwt.RegisteredClaims
}

// JWTService signs and checks HMAC access tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

func NewJWTService(secret string, accessExpMinutes int) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    time.Duration(accessExpMinutes) * time.Minute,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(clockSkew),
		),
	}
}

func (s *JWTService) Generate(userUUID string) (string, error) {
	if userUUID == "" {
		return "", ErrNoSubject
	}
	issued := biztime.NowUTC()
	claims := Claims{
		UserUUID: userUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userUUID,
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

func (s *JWTService) Verify(raw string) (*Claims, error) {
	claims := new(Claims)
	if _, err := s.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}); err != nil {
		return nil, fmt.Errorf("verify access token: %w", err)
	}
	if claims.UserUUID == "" {
		claims.UserUUID = claims.Subject
	}
	if claims.UserUUID == "" {
		return nil, ErrNoSubject
	}
	return claims, nil
}

func (s *JWTService) TTL() time.Duration {
	return s.ttl
}
