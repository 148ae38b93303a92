package main

import (
	"context"
	"path/filepath"

	appcontext "github.com/SeakMengs/SecCert/internal/app_context"
	"github.com/SeakMengs/SecCert/internal/auth"
	"github.com/SeakMengs/SecCert/internal/config"
	"github.com/SeakMengs/SecCert/internal/database"
	"github.com/SeakMengs/SecCert/internal/env"
	filestorage "github.com/SeakMengs/SecCert/internal/file_storage"
	ratelimiter "github.com/SeakMengs/SecCert/internal/rate_limiter"
	"github.com/SeakMengs/SecCert/internal/repository"
	"github.com/SeakMengs/SecCert/internal/repository/memory"
	"github.com/SeakMengs/SecCert/internal/route"
	"github.com/SeakMengs/SecCert/internal/service"
	"github.com/SeakMengs/SecCert/internal/util"
	"github.com/SeakMengs/SecCert/pkg/certgen"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()

	logger := util.NewLogger(cfg.ENV)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	stores, closeStores := mustOpenStores(cfg, logger)
	defer closeStores()

	storage, outputDir := mustOpenStorage(cfg, logger)

	renderer, err := certgen.NewRenderer(&certgen.Config{
		OutputDir:        outputDir,
		TmpDir:           filepath.Join(util.GetTempDir(), "render"),
		EmbedQRCode:      cfg.Certificate.EmbedQRCode,
		VerifyURLPattern: cfg.Certificate.VerifyURLPattern,
	})
	if err != nil {
		logger.Fatalf("Failed to initialize renderer: %v", err)
	}

	signer, err := certgen.NewSigner(cfg.Auth.SIGNING_SECRET)
	if err != nil {
		logger.Fatalf("Failed to initialize signer: %v", err)
	}

	if err := util.RegisterValidators(); err != nil {
		logger.Fatalf("Failed to register validators: %v", err)
	}

	jwtService := auth.NewJwt(cfg.Auth, logger)
	svc := service.NewService(service.Dependencies{
		Stores:   stores,
		JWT:      jwtService,
		Signer:   signer,
		Renderer: renderer,
		Storage:  storage,
		Logger:   logger,
	}, cfg.Auth.BcryptCost, service.CertificateServiceConfig{
		BatchMaxWorkers:   cfg.Certificate.BatchMaxWorkers,
		NumberMaxAttempts: cfg.Certificate.NumberMaxAttempts,
	})

	app := appcontext.Application{
		Config:     &cfg,
		Logger:     logger,
		Service:    svc,
		JWTService: jwtService,
	}

	if cfg.IsProduction() {
		logger.Info("Running in production mode")
		gin.SetMode(gin.ReleaseMode)
	}

	rateLimiter := ratelimiter.NewRateLimiter(cfg.RateLimiter, logger)
	r := route.NewRouter(&app, rateLimiter)

	logger.Infof("%s listening on port %s", util.GetAppName(), cfg.Port)
	if err := r.Run("0.0.0.0:" + cfg.Port); err != nil {
		logger.Panicf("Error running server: %v", err)
	}
}

func mustOpenStores(cfg config.Config, logger *zap.SugaredLogger) (service.Stores, func()) {
	if cfg.DB.Driver == config.DBDriverMemory {
		logger.Warn("Using in-memory database, data is lost on restart")
		store := memory.NewStore()
		return service.Stores{
			Customers:    store.Customer,
			Templates:    store.Template,
			Certificates: store.Certificate,
		}, func() {}
	}

	db, err := database.ConnectReturnGormDB(cfg.DB, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		logger.Fatalf("Failed to get database handle: %v", err)
	}
	logger.Info("Database connected")

	repo := repository.NewRepository(db, logger)
	return service.Stores{
		Customers:    repo.Customer,
		Templates:    repo.Template,
		Certificates: repo.Certificate,
	}, func() { sqlDb.Close() }
}

// mustOpenStorage returns the file store and the directory the renderer writes into.
// With minio the directory only holds files until they are uploaded.
func mustOpenStorage(cfg config.Config, logger *zap.SugaredLogger) (filestorage.Store, string) {
	if cfg.Storage.Driver == config.StorageDriverMinio {
		s3, err := filestorage.NewMinioClient(&cfg.Minio)
		if err != nil {
			logger.Fatalf("Error connecting to minio: %v", err)
		}

		store, err := filestorage.NewMinioStore(context.Background(), s3, cfg.Minio.BUCKET, logger)
		if err != nil {
			logger.Fatalf("Failed to initialize minio storage: %v", err)
		}
		return store, filepath.Join(util.GetTempDir(), "certificates")
	}

	store, err := filestorage.NewLocalStore(cfg.Storage.LocalDir)
	if err != nil {
		logger.Fatalf("Failed to initialize local storage: %v", err)
	}
	return store, cfg.Storage.LocalDir
}
