package routes

import (
	"strings"

	"github.com/prosenjithdash/rentwheels-bd-server/models"
	"github.com/prosenjithdash/rentwheels-bd-server/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

type UserHandler struct {
	DB *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{DB: db}
}

type UpsertUserInput struct {
	Name   string `json:"name"`
	Email  string `json:"email" validate:"required,email"`
	Photo  string `json:"photo"`
	Status string `json:"status" validate:"omitempty,oneof=none requested"`
}

// PUT /user
// Creates the principal on first identity assertion; afterwards only the
// host-request status may advance. Resubmitting the same payload never
// duplicates the creation timestamp and never touches the stored role.
func (h *UserHandler) UpsertUser(ctx iris.Context) {
	var input UpsertUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	email := strings.ToLower(input.Email)
	if utils.IdentityEmail(ctx) != email {
		utils.CreateForbidden(ctx, "can only upsert your own record")
		return
	}

	var existing models.User
	err := h.DB.Where("email = ?", email).First(&existing).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			utils.CreateInternalServerError(ctx)
			return
		}
		user := models.User{
			Name:   input.Name,
			Email:  email,
			Photo:  input.Photo,
			Role:   models.RoleUnset,
			Status: models.StatusNone,
		}
		if err := h.DB.Create(&user).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		ctx.StatusCode(iris.StatusCreated)
		ctx.JSON(iris.Map{"user": user})
		return
	}

	if input.Status == models.StatusRequested && existing.Status != models.StatusRequested {
		if err := h.DB.Model(&existing).Update("status", models.StatusRequested).Error; err != nil {
			utils.CreateInternalServerError(ctx)
			return
		}
		ctx.JSON(iris.Map{"user": existing})
		return
	}

	// no write: role, status and CreatedAt stay exactly as stored
	ctx.JSON(iris.Map{"message": "already registered", "user": existing})
}

// GET /users (admin)
func (h *UserHandler) GetUsers(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	perPage := ctx.URLParamIntDefault("per_page", 50)
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 || perPage > 200 {
		perPage = 50
	}

	var total int64
	h.DB.Model(&models.User{}).Count(&total)

	var users []models.User
	if err := h.DB.Order("id ASC").Limit(perPage).Offset((page - 1) * perPage).Find(&users).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	utils.JSONPage(ctx, users, page, perPage, total)
}

// GET /user/{email}
// Public read-only role lookup.
func (h *UserHandler) GetUserByEmail(ctx iris.Context) {
	email := ctx.Params().Get("email")

	var user models.User
	if err := h.DB.Where("lower(email) = lower(?)", email).First(&user).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(user)
}

type PromoteUserInput struct {
	Role string `json:"role" validate:"required,oneof=render host admin"`
}

// PATCH /users/update/{email} (admin)
// Grants a role and resolves any pending host request.
func (h *UserHandler) PromoteUser(ctx iris.Context) {
	var input PromoteUserInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	if err := h.DB.Where("lower(email) = lower(?)", ctx.Params().Get("email")).First(&user).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	before := user
	updates := map[string]interface{}{"role": input.Role, "status": models.StatusNone}
	if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, h.DB, "user.promote", "user", user.ID, before, user)
	ctx.JSON(iris.Map{"user": user})
}

// DELETE /users/{email} (admin)
// The row is removed for real, not tombstoned: the email carries a
// unique index, and a deleted principal must be able to register afresh.
func (h *UserHandler) DeleteUser(ctx iris.Context) {
	var user models.User
	if err := h.DB.Where("lower(email) = lower(?)", ctx.Params().Get("email")).First(&user).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	if err := h.DB.Unscoped().Delete(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, h.DB, "user.delete", "user", user.ID, user, nil)
	ctx.JSON(iris.Map{"success": true})
}

// isAdmin re-reads the stored role; unknown principals are not admins.
func isAdmin(db *gorm.DB, email string) bool {
	var user models.User
	if err := db.Where("lower(email) = lower(?)", email).First(&user).Error; err != nil {
		return false
	}
	return user.Role == models.RoleAdmin
}
