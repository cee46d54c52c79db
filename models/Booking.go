package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Booking is a confirmed rental. Render and host emails are denormalized
// at creation for cheap filtering; the row itself is the source of truth
// that the listed vehicle is unavailable for its date. Immutable after
// creation except for deletion.
type Booking struct {
	gorm.Model
	VehicleID     uint            `json:"vehicleId" gorm:"index"`
	VehicleName   string          `json:"vehicleName"`
	RenderEmail   string          `json:"renderEmail" gorm:"index"`
	HostEmail     string          `json:"hostEmail" gorm:"index"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	Date          string          `json:"date"`
	TransactionID string          `json:"transactionId"`
}
