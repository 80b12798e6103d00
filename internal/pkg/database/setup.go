package database

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/mandi2mandi/marketguard/app/models"
	"github.com/mandi2mandi/marketguard/internal/pkg/config"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

// DSN builds the go-sql-driver DSN used by gorm.
func DSN(cfg config.Database) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// MigrateURL is the golang-migrate URL for the same database.
func MigrateURL(cfg config.Database) string {
	return fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s?multiStatements=true",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
}

// SetupDatabase connects with retries. When autoMigrate is set (dev only)
// the schema is synced from the models; otherwise cmd/migrate owns it.
func SetupDatabase(cfg config.Database, autoMigrate bool) (*gorm.DB, error) {
	var err error
	for i := 0; i < maxRetries; i++ {
		var db *gorm.DB
		db, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                       DSN(cfg),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		}), &gorm.Config{})
		if err == nil {
			if autoMigrate {
				if err := db.AutoMigrate(
					&models.SubscriptionActivation{},
					&models.InquiryMessage{},
				); err != nil {
					return nil, fmt.Errorf("auto migrate: %w", err)
				}
			}
			return db, nil
		}

		log.Warnf("[Database] Failed to connect (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	return nil, err
}
