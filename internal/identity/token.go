package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionClaims はセッショントークンのJWTクレーム。
// 標準クレームに加えてuserIdを保持する自己完結型クレームで、
// 検証時にストアへの問い合わせを必要としない。
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// TokenIssuer はHMAC-SHA256署名付きセッショントークンの発行と検証を行う。
// 署名鍵は起動時に確定しプロセス全体で共有する（起動後は読み取り専用）。
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer はTokenIssuerを生成する。
func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl}
}

// Issue は指定ユーザーIDを主張するセッショントークンを発行する。
// 有効期限は発行時刻からTTL後に設定される。
func (t *TokenIssuer) Issue(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, nil
}

// Verify はトークンの署名と有効期限を検証し、主張されたユーザーIDを返す。
// 署名不正・期限切れ・不正形式のいずれもエラーとなる。
func (t *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(tok *jwt.Token) (interface{}, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to parse session token: %w", err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", fmt.Errorf("invalid session token")
	}

	return claims.UserID, nil
}
