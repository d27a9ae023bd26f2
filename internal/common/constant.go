// Package common contains shared constants and sentinel errors used across
// my-umkm components.
package common

import "time"

// TokenCookieName is the cookie used to carry the access token between
// the browser-style client and the server.
const TokenCookieName = "token"

// AuthHeaderName is the HTTP header carrying the bearer token on
// outbound API requests.
const AuthHeaderName = "Authorization"

// BearerPrefix is the scheme prefix expected in AuthHeaderName.
const BearerPrefix = "Bearer "

// TokenIssuer and TokenAudience are fixed claim values stamped into every
// issued token and required during verification.
const (
	TokenIssuer   = "my-umkm"
	TokenAudience = "user"
)

// TokenValidityDuration is the fixed credential lifetime. Tokens are not
// refreshable; they die by expiry or client-side deletion.
const TokenValidityDuration = 30 * 24 * time.Hour
