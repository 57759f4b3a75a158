package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Abbrahem/GIVENTO/configs"
	"github.com/Abbrahem/GIVENTO/internal/models"
)

// Open connects to Postgres and runs migrations. The returned handle owns the
// process-wide connection pool and is passed into handlers explicitly.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port,
	)

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if err := Migrate(gormDB); err != nil {
		return nil, err
	}

	return gormDB, nil
}

func Migrate(gormDB *gorm.DB) error {
	err := gormDB.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.User{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate DB: %w", err)
	}
	return nil
}
