// Package auth implements the credential codec: issuing and verifying the
// signed bearer token that carries identity claims across requests.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/myumkm/myumkm/internal/common"
)

// Claims is the token payload: registered claims plus the identity fields
// the application needs without a database lookup.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}

// GenerateToken issues a signed HS256 token for the given identity.
// Issuer, audience and lifetime are fixed; issuedAt is the current time.
func GenerateToken(userID, email, name string, secretKey []byte) (string, error) {
	if len(secretKey) == 0 {
		return "", errors.New("empty signing secret")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    common.TokenIssuer,
			Audience:  jwt.ClaimStrings{common.TokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(common.TokenValidityDuration)),
		},
		UserID: userID,
		Email:  email,
		Name:   name,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// VerifyToken checks signature, signing method, issuer, audience and expiry
// and returns the embedded claims. Every failure mode collapses to
// common.ErrInvalidToken so callers cannot be used as a validity oracle;
// expiry is additionally matchable as common.ErrTokenExpired for logging.
func VerifyToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return secretKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(common.TokenIssuer),
		jwt.WithAudience(common.TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Join(common.ErrInvalidToken, common.ErrTokenExpired)
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
