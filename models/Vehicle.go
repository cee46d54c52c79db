package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Vehicle is a rentable listing. HostEmail is a denormalized lookup
// relation, captured once at creation and never re-derived; there is no
// foreign key to the users table on purpose.
type Vehicle struct {
	gorm.Model
	HostEmail   string          `json:"hostEmail" gorm:"index"`
	HostName    string          `json:"hostName"`
	Name        string          `json:"name"`
	Category    string          `json:"category" gorm:"type:varchar(40);index"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2)"`
	Image       string          `json:"image"`
	Features    datatypes.JSON  `json:"features"`
	// Booked mirrors whether an active booking exists. Only the
	// availability transition may write it.
	Booked bool `json:"booked" gorm:"default:false"`
}

// Custom JSON marshaling so Features always renders as a string array
func (v *Vehicle) MarshalJSON() ([]byte, error) {
	type Alias Vehicle
	aux := &struct {
		Features []string `json:"features"`
		*Alias
	}{
		Features: []string{},
		Alias:    (*Alias)(v),
	}

	if v.Features != nil {
		var features []string
		if err := json.Unmarshal(v.Features, &features); err == nil {
			aux.Features = features
		}
	}

	return json.Marshal(aux)
}
