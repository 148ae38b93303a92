package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SeakMengs/SecCert/internal/auth"
	"github.com/SeakMengs/SecCert/internal/model"
	"github.com/SeakMengs/SecCert/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CustomerService struct {
	customers  CustomerStore
	jwt        auth.JWTInterface
	bcryptCost int
	logger     *zap.SugaredLogger
}

func NewCustomerService(customers CustomerStore, jwt auth.JWTInterface, bcryptCost int, logger *zap.SugaredLogger) *CustomerService {
	return &CustomerService{customers: customers, jwt: jwt, bcryptCost: bcryptCost, logger: logger}
}

type RegisterInput struct {
	CompanyName   string
	Email         string
	Password      string
	ContactPerson string
	Phone         string
}

// RegisterResult carries the plain api secret, the only time it is ever available.
type RegisterResult struct {
	Customer  *model.Customer
	APISecret string
	Token     string
}

func (cs *CustomerService) Register(ctx context.Context, in RegisterInput) (*RegisterResult, error) {
	creds, err := auth.GenerateAPICredentials()
	if err != nil {
		return nil, err
	}

	passwordHash, err := auth.HashSecret(in.Password, cs.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	secretHash, err := auth.HashSecret(creds.Secret, cs.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash api secret: %w", err)
	}

	customer := &model.Customer{
		CompanyName:   strings.TrimSpace(in.CompanyName),
		Email:         strings.TrimSpace(in.Email),
		Password:      passwordHash,
		APIKey:        creds.Key,
		APISecret:     secretHash,
		IsActive:      true,
		ContactPerson: strings.TrimSpace(in.ContactPerson),
		Phone:         strings.TrimSpace(in.Phone),
	}

	if err := cs.customers.CheckDupAndCreate(ctx, nil, customer); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailAlreadyExists):
			return nil, ErrEmailTaken
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrCustomerExists
		}
		return nil, err
	}

	token, err := cs.sessionToken(customer)
	if err != nil {
		return nil, err
	}

	cs.logger.Infof("Registered customer %s", customer.ID)
	return &RegisterResult{Customer: customer, APISecret: creds.Secret, Token: token}, nil
}

// Login checks the password before the active flag, a wrong password never reveals the account state.
func (cs *CustomerService) Login(ctx context.Context, email, password string) (*model.Customer, string, error) {
	customer, err := cs.customers.GetByEmail(ctx, nil, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !auth.CompareSecret(customer.Password, password) {
		return nil, "", ErrInvalidCredentials
	}
	if !customer.IsActive {
		return nil, "", ErrAccountInactive
	}

	token, err := cs.sessionToken(customer)
	if err != nil {
		return nil, "", err
	}

	return customer, token, nil
}

func (cs *CustomerService) sessionToken(customer *model.Customer) (string, error) {
	token, err := cs.jwt.GenerateSessionToken(auth.JWTPayload{ID: customer.ID, Email: customer.Email})
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return token, nil
}

func (cs *CustomerService) Profile(ctx context.Context, id string) (*model.Customer, error) {
	customer, err := cs.customers.GetById(ctx, nil, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

// AuthenticateSession treats the token as a claim of identity and re-checks the account on every call.
// Every failure is reported as ErrInvalidAuthToken.
func (cs *CustomerService) AuthenticateSession(ctx context.Context, token string) (*model.Customer, error) {
	claims, err := cs.jwt.VerifyJwtToken(token)
	if err != nil {
		return nil, ErrInvalidAuthToken
	}

	customer, err := cs.customers.GetById(ctx, nil, claims.Customer.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			cs.logger.Errorf("Failed to resolve session customer %s: %v", claims.Customer.ID, err)
		}
		return nil, ErrInvalidAuthToken
	}
	if !customer.IsActive {
		return nil, ErrInvalidAuthToken
	}

	return customer, nil
}

// AuthenticateAPIKey looks the key up directly and compares the secret against its hash.
func (cs *CustomerService) AuthenticateAPIKey(ctx context.Context, apiKey, apiSecret string) (*model.Customer, error) {
	if apiKey == "" || apiSecret == "" {
		return nil, ErrAPICredentialsRequired
	}

	customer, err := cs.customers.GetByAPIKey(ctx, nil, apiKey)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			cs.logger.Errorf("Failed to resolve api key: %v", err)
		}
		return nil, ErrInvalidAPICredentials
	}
	if !customer.IsActive || !auth.CompareSecret(customer.APISecret, apiSecret) {
		return nil, ErrInvalidAPICredentials
	}

	return customer, nil
}

// RegenerateCredentials replaces the api key pair, the previous pair stops working immediately.
func (cs *CustomerService) RegenerateCredentials(ctx context.Context, customerID string) (auth.APICredentials, error) {
	customer, err := cs.Profile(ctx, customerID)
	if err != nil {
		return auth.APICredentials{}, err
	}

	creds, err := auth.GenerateAPICredentials()
	if err != nil {
		return auth.APICredentials{}, err
	}
	secretHash, err := auth.HashSecret(creds.Secret, cs.bcryptCost)
	if err != nil {
		return auth.APICredentials{}, fmt.Errorf("failed to hash api secret: %w", err)
	}

	customer.APIKey = creds.Key
	customer.APISecret = secretHash
	if err := cs.customers.Update(ctx, nil, customer); err != nil {
		return auth.APICredentials{}, err
	}

	cs.logger.Infof("Regenerated api credentials of customer %s", customer.ID)
	return creds, nil
}

type CustomerPatch struct {
	CompanyName   *string
	ContactPerson *string
	Phone         *string
	IsActive      *bool
}

// UpdateProfile only lets customers edit their own record, anything else is not found.
func (cs *CustomerService) UpdateProfile(ctx context.Context, callerID, targetID string, patch CustomerPatch) (*model.Customer, error) {
	if callerID != targetID {
		return nil, ErrCustomerNotFound
	}

	customer, err := cs.Profile(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if patch.CompanyName != nil {
		customer.CompanyName = strings.TrimSpace(*patch.CompanyName)
	}
	if patch.ContactPerson != nil {
		customer.ContactPerson = strings.TrimSpace(*patch.ContactPerson)
	}
	if patch.Phone != nil {
		customer.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.IsActive != nil {
		customer.IsActive = *patch.IsActive
	}

	if err := cs.customers.Update(ctx, nil, customer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCustomerExists
		}
		return nil, err
	}

	return customer, nil
}
