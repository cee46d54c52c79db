package utils

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/prosenjithdash/rentwheels-bd-server/models"

	"github.com/go-redis/redis/v8"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var bgContext = context.Background()

// Gate is the authorization chain in front of every protected route:
// Verify, then SessionAlive, then an optional RequireRole/RequireSelf.
// Authentication always runs before any role check, and every check
// fails closed.
type Gate struct {
	DB    *gorm.DB
	Redis *redis.Client

	verify iris.Handler
}

func NewGate(db *gorm.DB, rds *redis.Client) *Gate {
	verifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	verifier.Extractors = append(verifier.Extractors, func(ctx iris.Context) string {
		return ctx.GetCookie(SessionCookieName)
	})
	verifier.ErrorHandler = func(ctx iris.Context, err error) {
		// An absent credential and a broken credential are distinct outcomes.
		if errors.Is(err, jwt.ErrMissing) {
			CreateUnauthenticated(ctx)
			return
		}
		CreateForbidden(ctx, "invalid or expired session")
	}

	g := &Gate{DB: db, Redis: rds}
	g.verify = verifier.Verify(func() interface{} {
		return new(SessionToken)
	})
	return g
}

// Verify authenticates the request credential. It must be the first
// handler on every protected route.
func (g *Gate) Verify() iris.Handler {
	return g.verify
}

// SessionAlive rejects verified tokens that were revoked by logout.
// Without Redis the check degrades open; the token still expires on its
// own schedule.
func (g *Gate) SessionAlive() iris.Handler {
	return func(ctx iris.Context) {
		if g.Redis != nil {
			if token := jwt.GetVerifiedToken(ctx); token != nil {
				n, err := g.Redis.Exists(bgContext, RevocationKey(string(token.Token))).Result()
				if err == nil && n > 0 {
					CreateForbidden(ctx, "session revoked")
					return
				}
			}
		}
		ctx.Next()
	}
}

// RequireRole re-reads the principal's stored role; the token only
// carries identity. A missing principal and a role mismatch both fail
// closed with the same outcome.
func (g *Gate) RequireRole(roles ...string) iris.Handler {
	return func(ctx iris.Context) {
		claims, ok := jwt.Get(ctx).(*SessionToken)
		if !ok || claims.Email == "" {
			CreateForbidden(ctx, "role access required")
			return
		}

		var user models.User
		err := g.DB.Where("lower(email) = lower(?)", claims.Email).First(&user).Error
		if err != nil || !slices.Contains(roles, user.Role) {
			CreateForbidden(ctx, strings.Join(roles, " or ")+" access required")
			return
		}

		ctx.Values().Set("email", strings.ToLower(user.Email))
		ctx.Values().Set("role", user.Role)
		ctx.Next()
	}
}

// RequireSelf matches the {param} path segment against the token identity.
func (g *Gate) RequireSelf(param string) iris.Handler {
	return func(ctx iris.Context) {
		claims, ok := jwt.Get(ctx).(*SessionToken)
		if !ok || !strings.EqualFold(claims.Email, ctx.Params().Get(param)) {
			CreateForbidden(ctx, "identity mismatch")
			return
		}
		ctx.Next()
	}
}

// IdentityEmail returns the authenticated email, lowercased. Only valid
// after Verify has run.
func IdentityEmail(ctx iris.Context) string {
	if claims, ok := jwt.Get(ctx).(*SessionToken); ok {
		return strings.ToLower(claims.Email)
	}
	return ""
}
