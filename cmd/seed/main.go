package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/Baaaki/planogram-backoffice/internal/config"
	"github.com/Baaaki/planogram-backoffice/internal/database"
	"github.com/Baaaki/planogram-backoffice/internal/email"
	"github.com/Baaaki/planogram-backoffice/internal/models"
	"github.com/Baaaki/planogram-backoffice/internal/repository"
	"github.com/Baaaki/planogram-backoffice/internal/service"
	"github.com/Baaaki/planogram-backoffice/internal/storage"
)

func main() {
	cfg := config.Load()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_EMAIL, ADMIN_PASSWORD")
	}

	db := database.NewManager(database.MySQLOpener(cfg.Database), database.PoolConfigFrom(cfg.Database))
	defer db.Close()

	files, err := storage.NewLocal(cfg.Storage.UploadDir, cfg.Storage.PublicPrefix)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}
	mailer, err := email.NewFromConfig(cfg)
	if err != nil {
		log.Fatal("Failed to initialize email:", err)
	}
	users := service.NewUserService(repository.NewUserRepository(db), files, mailer, cfg.JWTSecret, cfg.EmailConfirmationExpiry)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Check if admin with this email already exists
	existing, err := users.FindByEmail(ctx, adminEmail)
	if err != nil {
		log.Fatal("Failed to look up admin:", err)
	}
	if existing != nil {
		log.Println("✅ Admin user already exists:", existing.Email)
		return
	}

	admin, err := users.Create(ctx, service.UserInput{
		Email:    adminEmail,
		Password: adminPassword,
		Role:     models.RoleAdmin,
	}, "")
	if err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Println("✅ Admin user created successfully!")
	log.Println("   ID:", admin.ID)
	log.Println("   Email:", admin.Email)
}
