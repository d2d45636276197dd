package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"lexcase_app_go/config"
	"lexcase_app_go/db"
	"lexcase_app_go/docstore"
	"lexcase_app_go/models"
	"lexcase_app_go/services"

	"golang.org/x/term"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.TursoDatabaseURL, cfg.TursoAuthToken, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(&models.Account{}, &models.Session{}, &docstore.Document{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	docs := docstore.New(db.DB)
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Firm ===")
	fmt.Println()

	fmt.Print("Firm name: ")
	firmName, _ := reader.ReadString('\n')
	firmName = strings.TrimSpace(firmName)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	password := string(passwordBytes)
	fmt.Println()

	if firmName == "" || email == "" || password == "" {
		log.Fatal("Firm name, email, and password are required")
	}
	if len(password) < 8 {
		log.Fatal("Password must be at least 8 characters long")
	}

	var existing models.Account
	if err := db.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Fatalf("An account with email %s already exists", email)
	}

	user, err := services.Register(db.DB, docs, email, password, firmName)
	if err != nil {
		log.Fatalf("Failed to create firm: %v", err)
	}

	fmt.Println()
	fmt.Println("✓ Firm created successfully!")
	fmt.Printf("  ID: %s\n", user.UID)
	fmt.Printf("  Firm: %s\n", user.FirmName)
	fmt.Printf("  Email: %s\n", user.Email)
	fmt.Println()
	fmt.Printf("Sign in at %s\n", cfg.AppURL)
}
