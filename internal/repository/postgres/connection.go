package postgres

import (
	"time"

	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/dom/nonprofit-site/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table owned by the API, in migration order.
var Models = []interface{}{
	&domain.User{},
	&domain.Event{},
	&domain.Project{},
	&domain.Contact{},
}

// Now is the clock used for every stored timestamp: UTC at the microsecond
// precision postgres keeps, so a written value equals the one read back.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Config is the gorm configuration shared by the server and the test harness.
func Config(logLevel logger.LogLevel) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		NowFunc:        Now,
		TranslateError: true,
	}
}

func NewConnection(databaseURL string, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), Config(logLevel))
	if err != nil {
		return nil, err
	}

	// Auto-migrate tables
	if err := db.AutoMigrate(Models...); err != nil {
		return nil, err
	}

	return db, nil
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:    NewUserRepository(db),
		Event:   NewEventRepository(db),
		Project: NewProjectRepository(db),
		Contact: NewContactRepository(db),
	}
}
