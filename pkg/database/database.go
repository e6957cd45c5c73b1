package database

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"farmconnect/pkg/config"
	"farmconnect/pkg/models"
)

func InitMarketplaceDB(cfg *config.Config) *gorm.DB {
	log.Printf("Connecting to marketplace database: host=%s, port=%s", cfg.Database.Host, cfg.Database.Port)
	return initDB(cfg,
		&models.Profile{}, &models.Listing{}, &models.Booking{},
		&models.Message{}, &models.Favorite{}, &models.Review{})
}

func InitJobsDB(cfg *config.Config) *gorm.DB {
	log.Printf("Connecting to jobs database: host=%s, port=%s", cfg.Database.Host, cfg.Database.Port)
	return initDB(cfg,
		&models.Farmer{}, &models.Worker{}, &models.JobListing{},
		&models.Collaboration{}, &models.Feedback{})
}

func InitAssistantDB(cfg *config.Config) *gorm.DB {
	log.Printf("Connecting to assistant database: host=%s, port=%s", cfg.Database.Host, cfg.Database.Port)
	return initDB(cfg,
		&models.Conversation{}, &models.ChatMessage{},
		&models.Scheme{}, &models.Tip{})
}

func initDB(cfg *config.Config, entities ...interface{}) *gorm.DB {
	dsn := cfg.Database.DSN()

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= 10; attempt++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		log.Printf("Database not ready (attempt %d/10): %v", attempt, err)
		time.Sleep(5 * time.Second)
	}
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := db.AutoMigrate(entities...); err != nil {
		log.Fatal("Database migration failed:", err)
	}

	log.Println("Database connection established successfully")
	return db
}
