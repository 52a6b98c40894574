package config

import (
	"fmt"
	"os"
	"strings"

	"market/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// getDBConfigByEnv builds the DSN from <ENV>_DB_* variables (DEV_DB_HOST,
// QC_DB_HOST, PROD_DB_HOST, ...).
func getDBConfigByEnv(env string) string {
	prefix := strings.ToUpper(env) + "_DB_"
	get := func(key, def string) string {
		if v := os.Getenv(prefix + key); v != "" {
			return v
		}
		return def
	}

	sslmode := "require"
	if env == "dev" {
		sslmode = "disable"
	}

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		get("HOST", "localhost"),
		get("USER", "postgres"),
		get("PASSWORD", ""),
		get("NAME", "market"),
		get("PORT", "5432"),
		get("SSLMODE", sslmode),
		get("TIMEZONE", "UTC"),
	)
}

func ConnectDB(cfg *DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Error),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// AutoMigrate creates or updates every table of the marketplace.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
