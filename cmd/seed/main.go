// Command seed bootstraps the single admin account. It is idempotent and the
// only way an AdminUser is ever created.
package main

import (
	"errors"
	"log"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/Yardanz/tutor-site/config"
	"github.com/Yardanz/tutor-site/models"
	"github.com/Yardanz/tutor-site/utils"
)

func main() {
	config.Load()

	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("set ADMIN_EMAIL and ADMIN_PASSWORD before seeding")
	}

	db := config.InitDatabase(&models.AdminUser{})

	var existing models.AdminUser
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Printf("admin already exists: %s", email)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("admin lookup failed: %v", err)
	}

	hash, err := utils.HashPassword(password, utils.SeedBcryptCost)
	if err != nil {
		log.Fatalf("password hashing failed: %v", err)
	}

	if err := db.Create(&models.AdminUser{Email: email, PasswordHash: hash}).Error; err != nil {
		log.Fatalf("admin creation failed: %v", err)
	}
	log.Printf("admin created: %s", email)
}
