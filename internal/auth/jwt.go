package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/agamariel/clickqueue/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenIssuer - значение iss во всех выпускаемых токенах.
// Токены без него (в том числе чужие) отклоняются при разборе.
const tokenIssuer = "clickqueue"

// OwnerClaims - полезная нагрузка токена владельца.
type OwnerClaims struct {
	OwnerID uuid.UUID `json:"owner_id"`
	Login   string    `json:"login"`
	jwt.RegisteredClaims
}

// ErrInvalidToken возвращается, когда токен не проходит проверку.
var ErrInvalidToken = errors.New("invalid token")

// NewOwnerToken выпускает подписанный токен для владельца на срок ttl.
func NewOwnerToken(owner *models.Owner, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := OwnerClaims{
		OwnerID: owner.ID,
		Login:   owner.Login,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   owner.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseOwnerToken проверяет подпись, срок действия и издателя токена.
// Допускается только HS256: токен с другим алгоритмом отклоняется ещё
// до проверки подписи.
func ParseOwnerToken(tokenString, secret string) (*OwnerClaims, error) {
	claims := &OwnerClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(*jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
