package repository

import (
	"context"
	"time"

	"github.com/SeakMengs/SecCert/internal/constant"
	"github.com/SeakMengs/SecCert/internal/model"
	"gorm.io/gorm"
)

type CertificateRepository struct {
	*baseRepository
}

type CertificateFilter struct {
	Status constant.CertificateStatus
	Page   int
	Limit  int
}

func (f CertificateFilter) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

func templateSummary(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "description")
}

func (cr CertificateRepository) Create(ctx context.Context, tx *gorm.DB, certificate *model.Certificate) error {
	cr.logger.Debugf("Create certificate: %s", certificate.CertificateNumber)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	// the template association is only used for reads
	return db.WithContext(ctx).Omit("Template").Create(certificate).Error
}

// List returns one page of the customer's certificates, newest first, and the total matching the filter.
func (cr CertificateRepository) List(ctx context.Context, tx *gorm.DB, customerId string, filter CertificateFilter) ([]model.Certificate, int64, error) {
	cr.logger.Debugf("List certificates of customer: %s with filter: %+v", customerId, filter)

	db := cr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	query := db.WithContext(ctx).Model(&model.Certificate{}).Where("customer_id = ?", customerId)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	// the same conditions are used for count and find
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var certificates []model.Certificate
	if err := query.
		Preload("Template", templateSummary).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&certificates).Error; err != nil {
		return nil, 0, err
	}

	return certificates, total, nil
}

func (cr CertificateRepository) GetByIdAndCustomerId(ctx context.Context, tx *gorm.DB, id, customerId string) (*model.Certificate, error) {
	cr.logger.Debugf("Get certificate by id: %s and customer id: %s", id, customerId)

	db := cr.getDB(tx)
	var certificate *model.Certificate

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.Certificate{}).
		Preload("Template", templateSummary).
		Where("id = ? AND customer_id = ?", id, customerId).
		First(&certificate).Error; err != nil {
		return nil, err
	}

	return certificate, nil
}

// GetByVerificationToken is intentionally not scoped to a customer.
func (cr CertificateRepository) GetByVerificationToken(ctx context.Context, tx *gorm.DB, token string) (*model.Certificate, error) {
	cr.logger.Debug("Get certificate by verification token")

	db := cr.getDB(tx)
	var certificate *model.Certificate

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.Certificate{}).
		Preload("Template", templateSummary).
		Where("verification_token = ?", token).
		First(&certificate).Error; err != nil {
		return nil, err
	}

	return certificate, nil
}

// Revoke marks the certificate revoked. Revoking twice keeps the first revocation time.
func (cr CertificateRepository) Revoke(ctx context.Context, tx *gorm.DB, id, customerId string, at time.Time) (*model.Certificate, error) {
	cr.logger.Debugf("Revoke certificate: %s of customer: %s", id, customerId)

	var revoked *model.Certificate
	err := cr.withTx(cr.getDB(tx), func(tx *gorm.DB) error {
		certificate, err := cr.GetByIdAndCustomerId(ctx, tx, id, customerId)
		if err != nil {
			return err
		}

		if certificate.Status != constant.CertificateStatusRevoked {
			ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
			defer cancel()

			if err := tx.WithContext(ctx).Model(&model.Certificate{}).
				Where("id = ? AND customer_id = ?", id, customerId).
				Updates(map[string]any{
					"status":     constant.CertificateStatusRevoked,
					"revoked_at": at,
				}).Error; err != nil {
				return err
			}

			certificate.Status = constant.CertificateStatusRevoked
			certificate.RevokedAt = &at
		}

		revoked = certificate
		return nil
	})
	if err != nil {
		return nil, err
	}

	return revoked, nil
}
