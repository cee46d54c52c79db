package routes

import (
	"encoding/json"
	"strconv"

	"github.com/prosenjithdash/rentwheels-bd-server/models"
	"github.com/prosenjithdash/rentwheels-bd-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VehicleHandler struct {
	DB *gorm.DB
}

func NewVehicleHandler(db *gorm.DB) *VehicleHandler {
	return &VehicleHandler{DB: db}
}

type VehicleInput struct {
	Name        string          `json:"name" validate:"required"`
	Category    string          `json:"category" validate:"required"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Price       decimal.Decimal `json:"price" validate:"required"`
	Image       string          `json:"image"`
	Features    []string        `json:"features"`
	HostName    string          `json:"hostName"`
}

func vehicleIDParam(ctx iris.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Params().Get("id"), 10, 64)
	if err != nil {
		utils.CreateInvalidID(ctx)
		return 0, false
	}
	return uint(id), true
}

// GET /vehicles?category=&limit=
// Empty or "all" category returns everything, newest first.
func (h *VehicleHandler) GetVehicles(ctx iris.Context) {
	category := ctx.URLParamDefault("category", "")
	limit := ctx.URLParamIntDefault("limit", 0)

	query := h.DB.Order("id DESC")
	if category != "" && category != "all" {
		query = query.Where("category = ?", category)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var vehicles []models.Vehicle
	if err := query.Find(&vehicles).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(vehicles)
}

// GET /vehicle/{id}
func (h *VehicleHandler) GetVehicle(ctx iris.Context) {
	id, ok := vehicleIDParam(ctx)
	if !ok {
		return
	}

	var vehicle models.Vehicle
	if err := h.DB.First(&vehicle, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	ctx.JSON(&vehicle)
}

// POST /vehicle (host)
// Ownership is fixed here: the host email comes from the verified
// identity, never from the payload.
func (h *VehicleHandler) CreateVehicle(ctx iris.Context) {
	var input VehicleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	features, _ := json.Marshal(input.Features)
	vehicle := models.Vehicle{
		HostEmail:   utils.IdentityEmail(ctx),
		HostName:    input.HostName,
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		Location:    input.Location,
		Price:       input.Price,
		Image:       input.Image,
		Features:    datatypes.JSON(features),
	}

	if err := h.DB.Create(&vehicle).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&vehicle)
}

// PUT /vehicle/update/{id} (host + owner)
// Full replace of the descriptive fields. Booked and the host
// back-reference are deliberately out of reach here.
func (h *VehicleHandler) UpdateVehicle(ctx iris.Context) {
	id, ok := vehicleIDParam(ctx)
	if !ok {
		return
	}

	var vehicle models.Vehicle
	if err := h.DB.First(&vehicle, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if vehicle.HostEmail != utils.IdentityEmail(ctx) {
		utils.CreateForbidden(ctx, "not the listing host")
		return
	}

	var input VehicleInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	features, _ := json.Marshal(input.Features)
	vehicle.Name = input.Name
	vehicle.Category = input.Category
	vehicle.Description = input.Description
	vehicle.Location = input.Location
	vehicle.Price = input.Price
	vehicle.Image = input.Image
	vehicle.Features = datatypes.JSON(features)
	vehicle.HostName = input.HostName

	if err := h.DB.Save(&vehicle).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(&vehicle)
}

type VehicleStatusInput struct {
	Booked *bool `json:"booked" validate:"required"`
}

// PATCH /vehicle/status/{id} (owner or admin)
func (h *VehicleHandler) SetVehicleStatus(ctx iris.Context) {
	id, ok := vehicleIDParam(ctx)
	if !ok {
		return
	}

	var input VehicleStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var vehicle models.Vehicle
	if err := h.DB.First(&vehicle, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	email := utils.IdentityEmail(ctx)
	if vehicle.HostEmail != email && !isAdmin(h.DB, email) {
		utils.CreateForbidden(ctx, "not the listing host")
		return
	}

	if err := SetAvailability(h.DB, &vehicle, *input.Booked); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, h.DB, "vehicle.availability", "vehicle", vehicle.ID, nil, iris.Map{"booked": *input.Booked})
	ctx.JSON(&vehicle)
}

// DELETE /vehicle/{id} (owner)
func (h *VehicleHandler) DeleteVehicle(ctx iris.Context) {
	id, ok := vehicleIDParam(ctx)
	if !ok {
		return
	}

	var vehicle models.Vehicle
	if err := h.DB.First(&vehicle, id).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}
	if vehicle.HostEmail != utils.IdentityEmail(ctx) {
		utils.CreateForbidden(ctx, "not the listing host")
		return
	}

	if err := h.DB.Delete(&vehicle).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}

// GET /my_listings/{email} (self)
// An empty result reads as not-found; clients show "no listings yet".
func (h *VehicleHandler) GetVehiclesByHost(ctx iris.Context) {
	email := ctx.Params().Get("email")

	var vehicles []models.Vehicle
	if err := h.DB.Where("lower(host_email) = lower(?)", email).Order("id DESC").Find(&vehicles).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if len(vehicles) == 0 {
		utils.CreateError(iris.StatusNotFound, "not_found", "no listings yet for this host", ctx)
		return
	}
	ctx.JSON(vehicles)
}

// SetAvailability is the single sanctioned mutation of the booked flag,
// shared by the status endpoint and the booking flow. Repeating a call
// with the same value is a no-op.
func SetAvailability(db *gorm.DB, vehicle *models.Vehicle, booked bool) error {
	if vehicle.Booked == booked {
		return nil
	}
	return db.Model(vehicle).Update("booked", booked).Error
}
