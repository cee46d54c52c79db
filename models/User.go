package models

import (
	"gorm.io/gorm"
)

// Roles a principal may hold. A fresh signup carries no role until it is
// granted one; hosts own listings, renders book them.
const (
	RoleUnset  = "unset"
	RoleRender = "render"
	RoleHost   = "host"
	RoleAdmin  = "admin"
)

// Status tracks the host-promotion request flow.
const (
	StatusNone      = "none"
	StatusRequested = "requested"
)

type User struct {
	gorm.Model
	Name   string `json:"name"`
	Email  string `json:"email" gorm:"uniqueIndex"`
	Photo  string `json:"photo"`
	Role   string `json:"role" gorm:"type:varchar(20);default:unset;index"`  // unset, render, host, admin
	Status string `json:"status" gorm:"type:varchar(20);default:none;index"` // none, requested
}
