package appcontext

import (
	"github.com/SeakMengs/SecCert/internal/auth"
	"github.com/SeakMengs/SecCert/internal/config"
	"github.com/SeakMengs/SecCert/internal/service"
	"go.uber.org/zap"
)

// Application contains core dependencies for the app.
type Application struct {
	// Config holds application settings provided from .env file.
	Config *config.Config

	Logger *zap.SugaredLogger

	// Service holds the business operations, backed by postgres or the in-memory store.
	Service *service.Service

	// JWTService signs and verifies session tokens.
	JWTService auth.JWTInterface
}
