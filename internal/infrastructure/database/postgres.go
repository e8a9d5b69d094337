package database

import (
	"fmt"
	"log"

	"github.com/acampos/tiendita-api/internal/config"
	"github.com/acampos/tiendita-api/internal/domain/entity"
	"github.com/acampos/tiendita-api/internal/domain/enum"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Category{},
		&entity.Product{},
		&entity.Sale{},
		&entity.SaleItem{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with a default admin user and starter categories
func SeedDefaultData(db *gorm.DB, cfg *config.SeedConfig) error {
	log.Println("Seeding default data...")

	var admin entity.User
	if err := db.Where("username = ?", cfg.AdminUsername).First(&admin).Error; err != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}

		admin = entity.User{
			Username: cfg.AdminUsername,
			FullName: "Administrator",
			Email:    cfg.AdminEmail,
			Password: string(hashed),
			Role:     enum.RoleAdmin,
			IsActive: true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		log.Printf("Created default admin user %q", cfg.AdminUsername)
	}

	for _, name := range []string{"General", "Bebidas", "Abarrotes"} {
		var existing entity.Category
		if err := db.Where("name = ?", name).First(&existing).Error; err != nil {
			if err := db.Create(&entity.Category{Name: name}).Error; err != nil {
				log.Printf("Warning: failed to create category %s: %v", name, err)
			}
		}
	}

	return nil
}
