package security

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrJWTSecretMissing = errors.New("JWT_SECRET is not set")

// DefaultTTL 令牌默认有效期。
const DefaultTTL = 24 * time.Hour

// Claims 玩家身份令牌；PlayerID 与对局中的玩家 id 一致。
type Claims struct {
	PlayerID string `json:"pid"`
	jwt.RegisteredClaims
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, ErrJWTSecretMissing
	}
	return []byte(secret), nil
}

// Award 为玩家签发令牌，ttl<=0 时使用 DefaultTTL。
func Award(playerID string, ttl time.Duration) (string, error) {
	key, err := jwtSecret()
	if err != nil {
		return "", err
	}
	if playerID == "" {
		return "", jwt.ErrTokenInvalidSubject
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	now := time.Now()
	claims := &Claims{
		PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// ParseToken 解析并验证令牌，只接受 HS256。
func ParseToken(tokenStr string) (*Claims, error) {
	key, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	if token == nil || !token.Valid || claims.PlayerID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
