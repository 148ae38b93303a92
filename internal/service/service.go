package service

import (
	"context"
	"time"

	"github.com/SeakMengs/SecCert/internal/auth"
	filestorage "github.com/SeakMengs/SecCert/internal/file_storage"
	"github.com/SeakMengs/SecCert/internal/model"
	"github.com/SeakMengs/SecCert/internal/repository"
	"github.com/SeakMengs/SecCert/pkg/certgen"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// The stores below are satisfied by the postgres repositories and by the in-memory store.
// A nil tx runs outside of any transaction.

type CustomerStore interface {
	GetById(ctx context.Context, tx *gorm.DB, id string) (*model.Customer, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.Customer, error)
	GetByAPIKey(ctx context.Context, tx *gorm.DB, apiKey string) (*model.Customer, error)
	CheckDupAndCreate(ctx context.Context, tx *gorm.DB, customer *model.Customer) error
	Update(ctx context.Context, tx *gorm.DB, customer *model.Customer) error
}

type TemplateStore interface {
	Create(ctx context.Context, tx *gorm.DB, template *model.Template) error
	GetByCustomerId(ctx context.Context, tx *gorm.DB, customerId string) ([]model.Template, error)
	GetByIdAndCustomerId(ctx context.Context, tx *gorm.DB, id, customerId string) (*model.Template, error)
	Update(ctx context.Context, tx *gorm.DB, template *model.Template) error
	Delete(ctx context.Context, tx *gorm.DB, id, customerId string) error
}

type CertificateStore interface {
	Create(ctx context.Context, tx *gorm.DB, certificate *model.Certificate) error
	List(ctx context.Context, tx *gorm.DB, customerId string, filter repository.CertificateFilter) ([]model.Certificate, int64, error)
	GetByIdAndCustomerId(ctx context.Context, tx *gorm.DB, id, customerId string) (*model.Certificate, error)
	GetByVerificationToken(ctx context.Context, tx *gorm.DB, token string) (*model.Certificate, error)
	Revoke(ctx context.Context, tx *gorm.DB, id, customerId string, at time.Time) (*model.Certificate, error)
}

// Renderer writes a certificate document and returns the local path of the file.
type Renderer interface {
	Render(ctx context.Context, tpl certgen.Template, data map[string]any, certificateNumber, verificationToken string) (string, error)
}

// Stores groups the three stores so both backends can be handed over at once.
type Stores struct {
	Customers    CustomerStore
	Templates    TemplateStore
	Certificates CertificateStore
}

type Service struct {
	Customer    *CustomerService
	Template    *TemplateService
	Certificate *CertificateService
}

type Dependencies struct {
	Stores   Stores
	JWT      auth.JWTInterface
	Signer   *certgen.Signer
	Renderer Renderer
	Storage  filestorage.Store
	Logger   *zap.SugaredLogger
}

func NewService(deps Dependencies, bcryptCost int, cfg CertificateServiceConfig) *Service {
	return &Service{
		Customer: NewCustomerService(deps.Stores.Customers, deps.JWT, bcryptCost, deps.Logger),
		Template: NewTemplateService(deps.Stores.Templates, deps.Logger),
		Certificate: NewCertificateService(
			deps.Stores.Templates,
			deps.Stores.Certificates,
			deps.Signer,
			deps.Renderer,
			deps.Storage,
			deps.Logger,
			cfg,
		),
	}
}
