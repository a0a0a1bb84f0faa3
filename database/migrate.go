package database

import (
	"fmt"
	"time"

	"onversed_backend/internal/config"
	"onversed_backend/internal/logger"
	"onversed_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectGorm открывает пул Postgres с настройками из конфига
func ConnectGorm(cfg *config.Config) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Minute)

	return db, nil
}

// Models - все таблицы в порядке зависимостей
func Models() []interface{} {
	return []interface{}{
		&models.Company{},
		&models.User{},
		&models.Permission{},
		&models.Role{},
		&models.Profile{},
		&models.Token{},
		&models.CodeVerification{},
		&models.ItemType{},
		&models.ItemSize{},
		&models.ItemCategory{},
		&models.ItemCountryStandard{},
		&models.ItemFile{},
		&models.ItemUse{},
		&models.Collection{},
		&models.Item{},
		&models.Blob{},
		&models.Activity{},
		&models.OutboxMessage{},
	}
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	logger.Info("AutoMigrate completed", "tables", len(Models()))
	return nil
}

// SeedLookups создает пустые наборы справочников factory, asset и other
func SeedLookups(db *gorm.DB) error {
	uses := []models.ItemUse{
		{LookupValue: models.LookupValue{Name: models.ItemUseFactory, Label: "Factory"}},
		{LookupValue: models.LookupValue{Name: models.ItemUseAsset, Label: "Digital asset"}},
		{LookupValue: models.LookupValue{Name: models.ItemUseOther, Label: "Other"}},
	}
	for i := range uses {
		if err := db.Where(models.ItemUse{LookupValue: models.LookupValue{Name: uses[i].Name}}).
			FirstOrCreate(&uses[i]).Error; err != nil {
			return fmt.Errorf("failed to seed item use %s: %w", uses[i].Name, err)
		}
	}
	return nil
}
