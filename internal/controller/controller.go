package controller

import (
	"errors"
	"net/http"

	appcontext "github.com/SeakMengs/SecCert/internal/app_context"
	"github.com/SeakMengs/SecCert/internal/constant"
	"github.com/SeakMengs/SecCert/internal/model"
	"github.com/SeakMengs/SecCert/internal/service"
	"github.com/SeakMengs/SecCert/internal/util"
	"github.com/gin-gonic/gin"
)

type baseController struct {
	app *appcontext.Application
}

type Controller struct {
	Health      *HealthController
	Auth        *AuthController
	Customer    *CustomerController
	Template    *TemplateController
	Certificate *CertificateController
}

func newBaseController(app *appcontext.Application) *baseController {
	return &baseController{app: app}
}

func NewController(app *appcontext.Application) *Controller {
	bc := newBaseController(app)

	return &Controller{
		Health:      &HealthController{baseController: bc},
		Auth:        &AuthController{baseController: bc},
		Customer:    &CustomerController{baseController: bc},
		Template:    &TemplateController{baseController: bc},
		Certificate: &CertificateController{baseController: bc},
	}
}

var errCustomerNotInContext = errors.New("customer not found in context")

// getAuthCustomer returns the principal set by either auth middleware.
func (b *baseController) getAuthCustomer(ctx *gin.Context) (*model.Customer, error) {
	value, exists := ctx.Get(constant.CtxCustomerKey)
	if !exists {
		return nil, errCustomerNotInContext
	}

	customer, ok := value.(*model.Customer)
	if !ok || customer == nil {
		return nil, errCustomerNotInContext
	}

	return customer, nil
}

// mustAuthCustomer writes a 401 and returns false when no principal is present.
func (b *baseController) mustAuthCustomer(ctx *gin.Context) (*model.Customer, bool) {
	customer, err := b.getAuthCustomer(ctx)
	if err != nil {
		b.app.Logger.Error(err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Authentication required", util.GenerateErrorMessages(err, "authorization"), nil)
		return nil, false
	}
	return customer, true
}

func (b *baseController) bindFailed(ctx *gin.Context, err error) {
	b.app.Logger.Debugf("Invalid request: %v", err)
	util.ResponseFailed(ctx, http.StatusBadRequest, "Invalid request", util.GenerateErrorMessages(err), nil)
}

// respondError maps service errors to status codes. Unexpected errors only expose their text outside production.
func (b *baseController) respondError(ctx *gin.Context, err error, field string) {
	var missing *service.MissingFieldsError
	if errors.As(err, &missing) {
		util.ResponseFailed(ctx, http.StatusBadRequest, "Missing required fields", util.GenerateErrorMessages(err, "data"), gin.H{
			"missingFields": missing.Fields,
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrCertificateNotFound),
		errors.Is(err, service.ErrCertificateFileNotFound),
		errors.Is(err, service.ErrCustomerNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrEmptyBatch),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrTemplateInUse),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrCustomerExists),
		errors.Is(err, service.ErrInvalidSignature):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidAuthToken),
		errors.Is(err, service.ErrAPICredentialsRequired),
		errors.Is(err, service.ErrInvalidAPICredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrAccountInactive):
		status = http.StatusForbidden
	}

	if status != http.StatusInternalServerError {
		util.ResponseFailed(ctx, status, err.Error(), util.GenerateErrorMessages(err, field), nil)
		return
	}

	b.app.Logger.Errorf("Unexpected error: %v", err)
	if b.app.Config.IsProduction() {
		util.ResponseFailed(ctx, status, "Internal server error", nil, nil)
		return
	}
	util.ResponseFailed(ctx, status, "Internal server error", util.GenerateErrorMessages(err, field), nil)
}
