package sqlite

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"slotly/cmd/internal/domain/entity"
)

// MemoryDSN keeps the whole database inside the process. It lives exactly as
// long as the single pooled connection does.
const MemoryDSN = ":memory:"

func Init(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// One connection, never recycled: recycling an in-memory connection drops
	// every table with it.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	err = db.AutoMigrate(&entity.User{}, &entity.Appointment{})
	if err != nil {
		return nil, err
	}
	return db, nil
}
