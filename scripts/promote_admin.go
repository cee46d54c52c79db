package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/prosenjithdash/rentwheels-bd-server/models"
	"github.com/prosenjithdash/rentwheels-bd-server/storage"
)

// Promotes an account to admin from the command line. Role changes
// normally go through the admin API, which needs an existing admin;
// this bootstraps the first one.
func main() {
	if len(os.Args) != 2 {
		log.Fatal("usage: promote_admin <email>")
	}
	email := strings.ToLower(os.Args[1])

	db := storage.InitializeDB()

	var user models.User
	if err := db.Where("lower(email) = ?", email).First(&user).Error; err != nil {
		log.Fatalf("no account for %s: %v", email, err)
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"role":   models.RoleAdmin,
		"status": models.StatusNone,
	}).Error; err != nil {
		log.Fatalf("promotion failed: %v", err)
	}

	fmt.Printf("%s is now an admin\n", email)
}
