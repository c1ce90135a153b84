package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/apex/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kofimuad/galamsay-analysis/models"
)

// Open connects to the database named by databaseURL and migrates the
// schema. URLs with a postgres scheme use the Postgres driver; anything else
// is treated as a sqlite file path.
func Open(databaseURL string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	}

	var (
		db     *gorm.DB
		driver string
		err    error
	)
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		driver = "postgres"
		db, err = gorm.Open(postgres.Open(databaseURL), cfg)
	} else {
		driver = "sqlite"
		db, err = gorm.Open(sqlite.Open(sqliteDSN(databaseURL)), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	err = db.AutoMigrate(&models.AnalysisRun{}, &models.CityData{}, &models.CityExceedsThreshold{})
	if err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	log.WithField("driver", driver).Info("database connected")
	return db, nil
}

// sqliteDSN turns on foreign key enforcement, which sqlite leaves off by
// default. The cascade constraints depend on it.
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path + "&_fk=1"
	}
	return path + "?_fk=1"
}
