package utils

import (
	"os"
	"strings"
	"time"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

// SessionMaxAge keeps sessions effectively persistent; revocation via
// /logout is the real end of life.
const SessionMaxAge = 365 * 24 * time.Hour

const SessionCookieName = "token"

type SessionToken struct {
	Email string `json:"email"`
}

func CreateSessionToken(email string) (string, error) {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), SessionMaxAge)

	claims := SessionToken{
		Email: strings.ToLower(email),
	}

	token, err := signer.Sign(claims)
	if err != nil {
		return "", err
	}

	return string(token), nil
}

// RawSessionToken returns the credential exactly as presented: the session
// cookie first, then a bearer header. Empty string when absent.
func RawSessionToken(ctx iris.Context) string {
	if cookie := ctx.GetCookie(SessionCookieName); cookie != "" {
		return cookie
	}
	header := ctx.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// RevocationKey namespaces blocklisted tokens in Redis.
func RevocationKey(token string) string {
	return "revoked:" + token
}
