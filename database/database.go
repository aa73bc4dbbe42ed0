package database

import (
	"fmt"
	"log"
	"os"
	"taxifleet/config"
	"taxifleet/models"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB() *gorm.DB {
	databaseURL := config.AppConfig.DatabaseURL

	// GORM logger configuration
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             time.Second, // Slow SQL threshold
			LogLevel:                  logger.Warn, // Log level (Silent, Error, Warn, Info)
			IgnoreRecordNotFoundError: true,        // Ignore ErrRecordNotFound error for logger
			ParameterizedQueries:      false,       // Don't include params in the SQL log
			Colorful:                  true,        // Enable color
		},
	)

	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		panic(fmt.Errorf("failed to connect database: %w", err))
	}

	if err := Migrate(db); err != nil {
		panic(fmt.Errorf("failed to migrate database: %w", err))
	}

	DB = db
	fmt.Println("Database connection successful and migrations complete.")

	SeedInitialData(DB)
	return db
}

// Migrate creates or updates the schema for every entity type plus the
// session table and the car_drivers join table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Manufacturer{},
		&models.Car{},
		&models.Driver{},
		&models.Session{},
	)
}

// SeedInitialData creates an initial admin driver if no drivers exist, so a
// fresh deployment has a credential that can reach the protected routes.
func SeedInitialData(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.Driver{}).Count(&count).Error; err != nil {
		log.Printf("Failed to check for existing drivers: %v\n", err)
		return
	}
	if count > 0 {
		return
	}

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("adminpassword"), bcrypt.DefaultCost)
	admin := models.Driver{
		Username:      "admin",
		Password:      string(hashedPassword),
		FirstName:     "Fleet",
		LastName:      "Admin",
		LicenseNumber: "ADM00000",
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to create initial admin driver: %v\n", err)
	} else {
		log.Println("Created initial admin driver.")
	}
}
