package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	jwt.RegisteredClaims
}

// JWTer 无状态签发/校验；Subject 为用户数字 ID。
type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration // 为零时默认 7 天
}

const DefaultTTL = 7 * 24 * time.Hour

func (j *JWTer) Issue(userID uint) (string, error) {
	ttl := j.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// Parse 校验签名/过期并返回 Subject 中的用户 ID。
func (j *JWTer) Parse(tokenStr string) (uint, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg")
		}
		return j.Secret, nil
	}, jwt.WithLeeway(60*time.Second))
	if err != nil {
		return 0, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return 0, errors.New("invalid token")
	}
	uid, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, errors.New("invalid subject")
	}
	return uint(uid), nil
}
