package utils

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	ctx.JSON(iris.Map{
		"data":  data,
		"meta":  PageMeta{Page: page, PerPage: perPage, Total: total},
		"links": iris.Map{},
	})
}

// CreateError writes the uniform failure body. The code is the stable,
// machine-checkable half; the message is for humans. Nothing from the
// persistence or payment drivers may pass through here.
func CreateError(status int, code, message string, ctx iris.Context) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": code, "message": message})
}

func CreateUnauthenticated(ctx iris.Context) {
	CreateError(iris.StatusUnauthorized, "unauthenticated", "no credential supplied", ctx)
}

func CreateForbidden(ctx iris.Context, message string) {
	CreateError(iris.StatusForbidden, "forbidden", message, ctx)
}

func CreateNotFound(ctx iris.Context) {
	CreateError(iris.StatusNotFound, "not_found", "no matching record", ctx)
}

func CreateInvalidID(ctx iris.Context) {
	CreateError(iris.StatusBadRequest, "invalid_id", "malformed identifier", ctx)
}

func CreateInvalidAmount(ctx iris.Context) {
	CreateError(iris.StatusBadRequest, "invalid_amount", "amount must be greater than zero", ctx)
}

func CreateInternalServerError(ctx iris.Context) {
	CreateError(iris.StatusInternalServerError, "internal_failure", "something went wrong", ctx)
}

func HandleValidationErrors(err error, ctx iris.Context) {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		fields := make([]iris.Map, 0, len(errs))
		for _, fieldErr := range errs {
			fields = append(fields, iris.Map{"field": fieldErr.Field(), "rule": fieldErr.Tag()})
		}
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{"error": "validation_error", "message": "invalid request body", "fields": fields})
		return
	}
	CreateError(iris.StatusBadRequest, "bad_request", "malformed request body", ctx)
}
