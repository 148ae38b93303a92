package database

import (
	"fmt"
	"time"

	"github.com/SeakMengs/SecCert/internal/config"
	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func DSN(cfg config.DatabaseConfig) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DB_HOST, cfg.DB_USERNAME, cfg.DB_PASSWORD, cfg.DB_DATABASE, cfg.DB_PORT)
}

// ConnectReturnGormDB opens the postgres connection, retrying while the database is not reachable yet.
// Driver errors are translated so unique and foreign key violations surface as gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func ConnectReturnGormDB(cfg config.DatabaseConfig, logger *zap.SugaredLogger) (*gorm.DB, error) {
	var db *gorm.DB

	err := retry.Do(
		func() error {
			conn, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
				TranslateError: true,
				Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
			})
			if err != nil {
				return err
			}

			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.Ping(); err != nil {
				return err
			}

			db = conn
			return nil
		},
		retry.Attempts(cfg.ConnectAttempts),
		retry.Delay(cfg.ConnectDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warnf("Database connection attempt %d/%d failed: %v", n+1, cfg.ConnectAttempts, err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	idle, err := time.ParseDuration(cfg.MaxIdleTime)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_IDLE_TIME: %w", err)
	}
	sqlDB.SetConnMaxIdleTime(idle)

	return db, nil
}
