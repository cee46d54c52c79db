package utils

import (
	"encoding/json"
	"net"

	"github.com/prosenjithdash/rentwheels-bd-server/models"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// Audit records an admin mutation. Failures are ignored; the audit trail
// never blocks the operation it describes.
func Audit(ctx iris.Context, db *gorm.DB, action, resourceType string, resourceID uint, before interface{}, after interface{}) {
	var beforeStr, afterStr string
	if before != nil {
		if b, err := json.Marshal(before); err == nil {
			beforeStr = string(b)
		}
	}
	if after != nil {
		if a, err := json.Marshal(after); err == nil {
			afterStr = string(a)
		}
	}

	entry := models.AuditLog{
		ActorEmail:   IdentityEmail(ctx),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		BeforeJSON:   beforeStr,
		AfterJSON:    afterStr,
		IPAddress:    clientIP(ctx),
	}
	db.Create(&entry)
}

func clientIP(ctx iris.Context) string {
	if ip := ctx.GetHeader("X-Forwarded-For"); ip != "" {
		return ip
	}
	addr := ctx.RemoteAddr()
	if ip, _, err := net.SplitHostPort(addr); err == nil {
		return ip
	}
	return addr
}
