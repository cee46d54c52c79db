package routes

import (
	"log"
	"strconv"
	"strings"

	"github.com/prosenjithdash/rentwheels-bd-server/models"
	"github.com/prosenjithdash/rentwheels-bd-server/services"
	"github.com/prosenjithdash/rentwheels-bd-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingHandler struct {
	DB       *gorm.DB
	Payments services.PaymentProvider
	Mailer   services.Notifier
}

func NewBookingHandler(db *gorm.DB, payments services.PaymentProvider, mailer services.Notifier) *BookingHandler {
	return &BookingHandler{DB: db, Payments: payments, Mailer: mailer}
}

type PaymentIntentInput struct {
	Price    decimal.Decimal `json:"price" validate:"required"`
	Currency string          `json:"currency"`
}

// POST /create-payment-intent
// Mints the payment handle the client completes the charge with. Runs
// logically before booking persistence.
func (h *BookingHandler) CreatePaymentIntent(ctx iris.Context) {
	var input PaymentIntentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	amount, err := services.MinorUnits(input.Price)
	if err != nil {
		utils.CreateInvalidAmount(ctx)
		return
	}

	currency := strings.ToLower(input.Currency)
	if currency == "" {
		currency = "usd"
	}

	id, clientSecret, err := h.Payments.CreateIntent(amount, currency)
	if err != nil {
		log.Printf("payment intent for %d %s failed: %v", amount, currency, err)
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"transactionId": id, "clientSecret": clientSecret})
}

type BookingInput struct {
	VehicleID     uint            `json:"vehicleId" validate:"required"`
	VehicleName   string          `json:"vehicleName"`
	HostEmail     string          `json:"hostEmail" validate:"required,email"`
	Price         decimal.Decimal `json:"price" validate:"required"`
	Date          string          `json:"date" validate:"required"`
	TransactionID string          `json:"transactionId" validate:"required"`
}

// POST /booking (render)
// The record persists verbatim after required-field checks; richer
// validation is the client's responsibility, a documented trust
// boundary. The confirmation mail is best-effort, and the availability
// flag write that follows is an independent, non-transactional second
// write; the booking row is the source of truth, the flag a cache.
func (h *BookingHandler) CreateBooking(ctx iris.Context) {
	var input BookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	booking := models.Booking{
		VehicleID:     input.VehicleID,
		VehicleName:   input.VehicleName,
		RenderEmail:   utils.IdentityEmail(ctx),
		HostEmail:     strings.ToLower(input.HostEmail),
		Price:         input.Price,
		Date:          input.Date,
		TransactionID: input.TransactionID,
	}
	if err := h.DB.Create(&booking).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if err := h.Mailer.BookingConfirmed(booking.RenderEmail, booking.TransactionID); err != nil {
		log.Printf("booking %d: confirmation mail failed: %v", booking.ID, err)
	}

	var vehicle models.Vehicle
	if err := h.DB.First(&vehicle, booking.VehicleID).Error; err != nil {
		log.Printf("booking %d: vehicle %d missing for availability sync: %v", booking.ID, booking.VehicleID, err)
	} else if err := SetAvailability(h.DB, &vehicle, true); err != nil {
		log.Printf("booking %d: availability sync failed: %v", booking.ID, err)
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(booking)
}

// GET /my_bookings/{email} (self)
func (h *BookingHandler) GetBookingsByRender(ctx iris.Context) {
	var bookings []models.Booking
	if err := h.DB.Where("lower(render_email) = lower(?)", ctx.Params().Get("email")).
		Order("id ASC").Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(bookings)
}

// GET /manage_bookings/{email} (host + self)
func (h *BookingHandler) GetBookingsByHost(ctx iris.Context) {
	var bookings []models.Booking
	if err := h.DB.Where("lower(host_email) = lower(?)", ctx.Params().Get("email")).
		Order("id ASC").Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(bookings)
}

// DELETE /booking/{id}
// Stricter than the observed design: only the booking's render or an
// admin may cancel.
func (h *BookingHandler) DeleteBooking(ctx iris.Context) {
	id, err := strconv.ParseUint(ctx.Params().Get("id"), 10, 64)
	if err != nil {
		utils.CreateInvalidID(ctx)
		return
	}

	var booking models.Booking
	if err := h.DB.First(&booking, uint(id)).Error; err != nil {
		utils.CreateNotFound(ctx)
		return
	}

	email := utils.IdentityEmail(ctx)
	if !strings.EqualFold(booking.RenderEmail, email) && !isAdmin(h.DB, email) {
		utils.CreateForbidden(ctx, "not your booking")
		return
	}

	if err := h.DB.Delete(&booking).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(iris.Map{"success": true})
}
