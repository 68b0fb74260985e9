package db

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruuAmorim/eva-agendmento-sub000/internal/models"
)

// noOverlapConstraint backs the per-date lock at the storage level: two
// non-cancelled rows on one date may not share a minute.
const noOverlapConstraint = `
DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap') THEN
		ALTER TABLE appointments
			ADD CONSTRAINT appointments_no_overlap
			EXCLUDE USING gist (
				"date" WITH =,
				int4range(start_minute, end_minute) WITH &&
			) WHERE (status <> 'cancelled');
	END IF;
END $$;
`

func NewDB(dsn string, log *logrus.Entry) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB, log *logrus.Entry) error {
	if err := db.AutoMigrate(
		&models.Appointment{},
		&models.EventLog{},
	); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// sem btree_gist seguimos só com o lock por data
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		log.WithError(err).Warn("btree_gist unavailable, overlap constraint not installed")
		return nil
	}
	if err := db.Exec(noOverlapConstraint).Error; err != nil {
		log.WithError(err).Warn("overlap constraint not installed")
	}
	return nil
}

// Pinger exposes the pool's reachability for the health check.
type Pinger struct {
	db *gorm.DB
}

func NewPinger(db *gorm.DB) Pinger {
	return Pinger{db: db}
}

func (p Pinger) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
