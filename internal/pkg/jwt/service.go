package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims carries the requester identity minted by the external
// identity provider. User ids are opaque strings, not UUIDs.
type Claims struct {
	UserID string `json:"user_id"`

	jwtlib.RegisteredClaims
}

type Service interface {
	GenerateToken(userID string, expiresIn time.Duration) (string, error)
	ValidateToken(tokenString string) (Claims, error)
}

type HMACService struct {
	secret []byte

	now func() time.Time
}

func NewHMACService(secret string) *HMACService {
	return &HMACService{secret: []byte(secret), now: time.Now}
}

func (s *HMACService) GenerateToken(userID string, expiresIn time.Duration) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(expiresIn)),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *HMACService) ValidateToken(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwtlib.ParseWithClaims(tokenString, &claims, func(t *jwtlib.Token) (any, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !token.Valid {
		return Claims{}, ErrTokenInvalid
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return Claims{}, ErrTokenInvalid
	}
	return claims, nil
}
