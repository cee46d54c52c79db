package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/prosenjithdash/rentwheels-bd-server/utils"

	"github.com/go-redis/redis/v8"
	"github.com/kataras/iris/v12"
)

var bgContext = context.Background()

type AuthHandler struct {
	Redis *redis.Client
}

func NewAuthHandler(rds *redis.Client) *AuthHandler {
	return &AuthHandler{Redis: rds}
}

type SessionInput struct {
	Email string `json:"email" validate:"required,email"`
}

// POST /jwt
// Exchanges asserted identity claims for a signed session token, handed
// back both in the body and as an http-only cookie.
func (h *AuthHandler) CreateSession(ctx iris.Context) {
	var input SessionInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	token, err := utils.CreateSessionToken(input.Email)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.SetCookie(&http.Cookie{
		Name:     utils.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		Expires:  time.Now().Add(utils.SessionMaxAge),
	})
	ctx.JSON(iris.Map{"success": true, "token": token})
}

// GET /logout
// Clears the cookie and blocklists the presented token until it would
// have expired anyway, so a copied cookie dies with the session.
func (h *AuthHandler) DestroySession(ctx iris.Context) {
	if token := utils.RawSessionToken(ctx); token != "" && h.Redis != nil {
		h.Redis.Set(bgContext, utils.RevocationKey(token), "true", utils.SessionMaxAge)
	}

	ctx.SetCookie(&http.Cookie{
		Name:     utils.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   -1,
	})
	ctx.JSON(iris.Map{"success": true})
}
