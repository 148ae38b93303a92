package repository

import (
	"context"

	"github.com/SeakMengs/SecCert/internal/constant"
	"github.com/SeakMengs/SecCert/internal/model"
	"gorm.io/gorm"
)

type TemplateRepository struct {
	*baseRepository
}

func (tr TemplateRepository) Create(ctx context.Context, tx *gorm.DB, template *model.Template) error {
	tr.logger.Debugf("Create template %s for customer: %s", template.Name, template.CustomerID)

	db := tr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return db.WithContext(ctx).Create(template).Error
}

func (tr TemplateRepository) GetByCustomerId(ctx context.Context, tx *gorm.DB, customerId string) ([]model.Template, error) {
	tr.logger.Debugf("Get templates by customer id: %s", customerId)

	db := tr.getDB(tx)
	var templates []model.Template

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.Template{}).Where("customer_id = ?", customerId).Order("created_at DESC").Find(&templates).Error; err != nil {
		return nil, err
	}

	return templates, nil
}

// GetByIdAndCustomerId scopes the lookup to the owner, another customer's template is simply not found.
func (tr TemplateRepository) GetByIdAndCustomerId(ctx context.Context, tx *gorm.DB, id, customerId string) (*model.Template, error) {
	tr.logger.Debugf("Get template by id: %s and customer id: %s", id, customerId)

	db := tr.getDB(tx)
	var template *model.Template

	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := db.WithContext(ctx).Model(&model.Template{}).Where("id = ? AND customer_id = ?", id, customerId).First(&template).Error; err != nil {
		return nil, err
	}

	return template, nil
}

func (tr TemplateRepository) Update(ctx context.Context, tx *gorm.DB, template *model.Template) error {
	tr.logger.Debugf("Update template: %s", template.ID)

	db := tr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	return db.WithContext(ctx).Save(template).Error
}

// Delete fails with gorm.ErrForeignKeyViolated while certificates still reference the template.
func (tr TemplateRepository) Delete(ctx context.Context, tx *gorm.DB, id, customerId string) error {
	tr.logger.Debugf("Delete template: %s of customer: %s", id, customerId)

	db := tr.getDB(tx)
	ctx, cancel := context.WithTimeout(ctx, constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	result := db.WithContext(ctx).Where("id = ? AND customer_id = ?", id, customerId).Delete(&model.Template{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
