package main

import (
	"github.com/SeakMengs/SecCert/internal/config"
	"github.com/SeakMengs/SecCert/internal/database"
	"github.com/SeakMengs/SecCert/internal/env"
	"github.com/SeakMengs/SecCert/internal/model"
	"go.uber.org/zap"
)

func init() {
	env.LoadEnv(".env")
}

func main() {
	logger := zap.Must(zap.NewDevelopment()).Sugar()
	defer logger.Sync()
	cfg := config.GetConfig()

	if cfg.DB.Driver != config.DBDriverPostgres {
		logger.Fatalf("Migrations only apply to the postgres driver, got %q", cfg.DB.Driver)
	}

	logger.Infof("Migrating database %s on %s:%s", cfg.DB.DB_DATABASE, cfg.DB.DB_HOST, cfg.DB.DB_PORT)

	db, err := database.ConnectReturnGormDB(cfg.DB, logger)
	if err != nil {
		logger.Panic(err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS citext`).Error; err != nil {
		logger.Panic(err)
	}

	migrateErr := db.AutoMigrate(&model.Customer{}, &model.Template{}, &model.Certificate{})
	if migrateErr != nil {
		logger.Panic(migrateErr)
	}

	logger.Info("Migration completed")
}
