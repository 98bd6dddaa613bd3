package config

import (
	"fmt"
	"log"
	"time"

	"purchase-orders-backend/db/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// allModels lists every model auto-migrated at startup.
var allModels = []interface{}{
	&models.User{},
	&models.Customer{},
	&models.PurchaseOrder{},
	&models.BulkImportRun{},
	&models.EmailLog{},
}

// DSN builds the postgres connection string from the environment.
func DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		GetEnvOrDefault("DB_HOST", "localhost"),
		GetEnv("POSTGRES_USER"),
		GetEnv("POSTGRES_PASSWORD"),
		GetEnv("POSTGRES_DB"),
		GetEnvOrDefault("DB_PORT", "5432"),
		GetEnvOrDefault("DB_SSLMODE", "disable"),
		GetEnvOrDefault("DB_TIMEZONE", "UTC"),
	)
}

func ConfigureDatabase() *gorm.DB {
	db, err := gorm.Open(postgres.Open(DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("[DB-CONNECT] Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(allModels...)
	if err != nil {
		log.Fatalf("failed to migrate tables: %v", err)
	} else {
		log.Println("Tables migrated successfully")
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("[DB-POOL] Failed to get underlying DB connection: %v", err)
	}
	sqlDB.SetMaxOpenConns(GetEnvInt("DB_MAX_OPEN_CONNS", 30))
	sqlDB.SetMaxIdleConns(GetEnvInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	log.Println("[DB-POOL] Connection pool configured")
	log.Println("[DB-STATUS] Database setup complete")
	return db
}
