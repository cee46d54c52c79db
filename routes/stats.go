package routes

import (
	"fmt"
	"time"

	"github.com/prosenjithdash/rentwheels-bd-server/models"
	"github.com/prosenjithdash/rentwheels-bd-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StatsHandler struct {
	DB *gorm.DB
}

func NewStatsHandler(db *gorm.DB) *StatsHandler {
	return &StatsHandler{DB: db}
}

// chartSeries builds the charting payload: a header pair followed by one
// (day/month, price) row per booking, in insertion order.
func chartSeries(bookings []models.Booking) [][]interface{} {
	series := [][]interface{}{{"Day", "Sales"}}
	for _, booking := range bookings {
		series = append(series, []interface{}{dayBucket(booking.Date), booking.Price})
	}
	return series
}

func dayBucket(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d/%d", t.Day(), int(t.Month()))
}

// sumPrices accumulates decimals, never floats.
func sumPrices(bookings []models.Booking) decimal.Decimal {
	total := decimal.Zero
	for _, booking := range bookings {
		total = total.Add(booking.Price)
	}
	return total
}

// GET /admin_stat (admin)
func (h *StatsHandler) AdminStats(ctx iris.Context) {
	var bookings []models.Booking
	if err := h.DB.Order("id ASC").Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var totalUsers, totalVehicles int64
	h.DB.Model(&models.User{}).Count(&totalUsers)
	h.DB.Model(&models.Vehicle{}).Count(&totalVehicles)

	ctx.JSON(iris.Map{
		"totalBookings": len(bookings),
		"totalSales":    sumPrices(bookings),
		"totalUsers":    totalUsers,
		"totalVehicles": totalVehicles,
		"chartData":     chartSeries(bookings),
	})
}

// GET /host_stat (host)
func (h *StatsHandler) HostStats(ctx iris.Context) {
	email := utils.IdentityEmail(ctx)

	var bookings []models.Booking
	if err := h.DB.Where("lower(host_email) = lower(?)", email).Order("id ASC").Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var totalVehicles int64
	h.DB.Model(&models.Vehicle{}).Where("lower(host_email) = lower(?)", email).Count(&totalVehicles)

	var hostSince interface{}
	var host models.User
	if err := h.DB.Where("lower(email) = lower(?)", email).First(&host).Error; err == nil {
		hostSince = host.CreatedAt
	}

	ctx.JSON(iris.Map{
		"totalBookings": len(bookings),
		"totalSales":    sumPrices(bookings),
		"totalVehicles": totalVehicles,
		"hostSince":     hostSince,
		"chartData":     chartSeries(bookings),
	})
}

// GET /render_stat (any authenticated)
func (h *StatsHandler) RenderStats(ctx iris.Context) {
	email := utils.IdentityEmail(ctx)

	var bookings []models.Booking
	if err := h.DB.Where("lower(render_email) = lower(?)", email).Order("id ASC").Find(&bookings).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var renderSince interface{}
	var render models.User
	if err := h.DB.Where("lower(email) = lower(?)", email).First(&render).Error; err == nil {
		renderSince = render.CreatedAt
	}

	ctx.JSON(iris.Map{
		"totalBookings": len(bookings),
		"totalSales":    sumPrices(bookings),
		"renderSince":   renderSince,
		"chartData":     chartSeries(bookings),
	})
}
