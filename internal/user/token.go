package user

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const accessTokenType = "access"

type accessClaims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
}

// TokenIssuer signs HS256 access tokens whose subject is the user id.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (i *TokenIssuer) Issue(userID int64) (string, error) {
	if len(i.secret) == 0 {
		return "", errors.New("token secret is empty")
	}

	now := i.now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Type: accessTokenType,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// SigningKey is the key the verifying middleware must be configured with.
func (i *TokenIssuer) SigningKey() []byte {
	return i.secret
}

// UserIDFromCtx reads the subject of the token that jwtware stored in
// c.Locals("user") after verifying its signature and expiry.
func UserIDFromCtx(c *fiber.Ctx) (int64, error) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok || tok == nil {
		return 0, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	if typ, ok := claims["type"].(string); ok && typ != accessTokenType {
		return 0, fiber.ErrUnauthorized
	}

	// Issue always writes the subject as a decimal string.
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, fiber.ErrUnauthorized
	}
	return id, nil
}
