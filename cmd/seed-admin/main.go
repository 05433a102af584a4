// Provisioning script to create the initial admin account and the
// role table rows.
// cmd/seed-admin/main.go
package main

import (
	"flag"
	"log"
	"strings"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password")
	firstName := flag.String("first-name", "System", "admin first name")
	lastName := flag.String("last-name", "Administrator", "admin last name")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("Usage: seed-admin -email admin@example.org -password <password>")
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize database
	config.InitDB()

	// Make sure the role rows exist
	roles := []models.Role{
		{RoleID: models.RoleAuthor, Role: "author"},
		{RoleID: models.RoleReviewer, Role: "reviewer"},
		{RoleID: models.RoleEditor, Role: "editor"},
		{RoleID: models.RoleAdmin, Role: "admin"},
	}
	for _, role := range roles {
		var existing models.Role
		if err := config.DB.Where("role_id = ?", role.RoleID).First(&existing).Error; err == nil {
			continue
		}
		if err := config.DB.Create(&role).Error; err != nil {
			log.Fatalf("Failed to create role %s: %v", role.Role, err)
		}
		log.Printf("Created role %s", role.Role)
	}

	normalized := strings.ToLower(strings.TrimSpace(*email))

	var existing models.User
	if err := config.DB.Where("email = ? AND delete_at IS NULL", normalized).First(&existing).Error; err == nil {
		log.Fatalf("User %s already exists", normalized)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	now := time.Now()
	admin := models.User{
		FirstName: *firstName,
		LastName:  *lastName,
		Email:     normalized,
		Password:  string(hashed),
		RoleID:    models.RoleAdmin,
		CreateAt:  &now,
		UpdateAt:  &now,
	}
	if err := config.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Printf("Admin account %s created successfully", normalized)
}
