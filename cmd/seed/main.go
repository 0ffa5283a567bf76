package main

import (
	"log"
	"os"

	"ai-therapy-be/internal/model"
	"ai-therapy-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	color.Cyan("🌱 Seeding demo data...")

	demoEmail := "demo@example.com"

	var existing model.User
	if err := db.Where("email = ?", demoEmail).First(&existing).Error; err == nil {
		color.Yellow("Demo user '%s' already exists, skipping...", demoEmail)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Error: Failed to hash demo password:", err)
	}

	user := model.User{
		Email:        demoEmail,
		PasswordHash: string(hash),
		FullName:     "Demo User",
	}
	if err := db.Create(&user).Error; err != nil {
		color.Red("Failed to create demo user: %v", err)
		os.Exit(1)
	}

	color.Green("Created demo user: %s (password: demo-password)", demoEmail)
	color.Cyan("✅ Seeding completed")
}
