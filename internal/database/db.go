package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"webscan/internal/config"
	"webscan/internal/models"
)

var DB *gorm.DB

// InitDB opens the scan archive database and migrates the scan and finding
// tables. Archive writes are best effort at runtime, but a missing database
// at startup is fatal.
func InitDB(cfg *config.Config) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logrus.Fatalf("Failed to connect to scan archive database: %v", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		logrus.Fatalf("Failed to access database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := DB.AutoMigrate(&models.ScanRecord{}, &models.FindingRecord{}); err != nil {
		logrus.Fatalf("Failed to migrate scan archive schema: %v", err)
	}

	logrus.Info("Scan archive database connected and migrated")
}
