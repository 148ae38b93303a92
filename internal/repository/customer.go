package repository

import (
	"context"
	"errors"

	"github.com/SeakMengs/SecCert/internal/constant"
	"github.com/SeakMengs/SecCert/internal/model"
	"gorm.io/gorm"
)

type CustomerRepository struct {
	*baseRepository
}

func (cr CustomerRepository) GetById(ctx context.Context, tx *gorm.DB, id string) (*model.Customer, error) {
	cr.logger.Debugf("Get customer by id: %s", id)

	db := cr.getDB(tx)
	var customer *model.Customer

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.Customer{}).Where("id = ?", id).First(&customer).Error; err != nil {
		return nil, err
	}

	return customer, nil
}

func (cr CustomerRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.Customer, error) {
	cr.logger.Debugf("Get customer by email: %s", email)

	db := cr.getDB(tx)
	var customer *model.Customer

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	// email is citext, the comparison is case insensitive
	if err := db.WithContext(ctx).Model(&model.Customer{}).Where("email = ?", email).First(&customer).Error; err != nil {
		return nil, err
	}

	return customer, nil
}

func (cr CustomerRepository) GetByAPIKey(ctx context.Context, tx *gorm.DB, apiKey string) (*model.Customer, error) {
	cr.logger.Debug("Get customer by api key")

	db := cr.getDB(tx)
	var customer *model.Customer

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.Customer{}).Where("api_key = ?", apiKey).First(&customer).Error; err != nil {
		return nil, err
	}

	return customer, nil
}

func (cr CustomerRepository) Create(ctx context.Context, tx *gorm.DB, customer *model.Customer) error {
	cr.logger.Debugf("Create customer: %s", customer.Email)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return db.WithContext(ctx).Create(customer).Error
}

// CheckDupAndCreate creates the customer unless the email is already registered.
// Other unique violations (company name, api key) surface as gorm.ErrDuplicatedKey.
func (cr CustomerRepository) CheckDupAndCreate(ctx context.Context, tx *gorm.DB, customer *model.Customer) error {
	cr.logger.Debugf("Check duplicate and create customer (Transaction): %s", customer.Email)

	db := cr.getDB(tx)
	return cr.withTx(db, func(tx *gorm.DB) error {
		_, err := cr.GetByEmail(ctx, tx, customer.Email)
		if err == nil {
			return ErrEmailAlreadyExists
		}
		// Since not found is not an error, we can ignore it
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return cr.Create(ctx, tx, customer)
	})
}

// Update writes every column of the customer, zero values included.
func (cr CustomerRepository) Update(ctx context.Context, tx *gorm.DB, customer *model.Customer) error {
	cr.logger.Debugf("Update customer: %s", customer.ID)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return db.WithContext(ctx).Save(customer).Error
}
