// Package auth mints and verifies the signed tokens that prove identity on
// protected routes. Access tokens are short-lived; refresh tokens live longer
// and are persisted on the user record (last issued wins).
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/joblink/joblink/pkg/apperr"
)

type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (t *TokenIssuer) AccessToken(userID int64) (string, error) {
	return t.sign(userID, "access", t.accessTTL)
}

func (t *TokenIssuer) RefreshToken(userID int64) (string, error) {
	return t.sign(userID, "refresh", t.refreshTTL)
}

func (t *TokenIssuer) sign(userID int64, kind string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"kind":    kind,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// VerifyAccess parses an access token and returns the user id it encodes.
// Any defect (bad signature, expiry, wrong algorithm, wrong kind, missing
// claim) is an auth failure, never a distinguishable one.
func (t *TokenIssuer) VerifyAccess(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, apperr.Auth("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, apperr.Auth("Invalid or expired token")
	}
	if kind, _ := claims["kind"].(string); kind != "access" {
		return 0, apperr.Auth("Invalid or expired token")
	}
	id, ok := claims["user_id"].(float64)
	if !ok || id <= 0 {
		return 0, apperr.Auth("Invalid or expired token")
	}
	return int64(id), nil
}
