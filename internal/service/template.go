package service

import (
	"context"
	"errors"
	"strings"

	"github.com/SeakMengs/SecCert/internal/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TemplateService struct {
	templates TemplateStore
	logger    *zap.SugaredLogger
}

func NewTemplateService(templates TemplateStore, logger *zap.SugaredLogger) *TemplateService {
	return &TemplateService{templates: templates, logger: logger}
}

type CreateTemplateInput struct {
	Name        string
	Description string
	Content     model.TemplateContent
	// Derived from the content field keys when nil
	Placeholders []string
	Styling      model.JSONMap
}

// DerivePlaceholders returns the content field keys in order, duplicates included.
func DerivePlaceholders(content model.TemplateContent) []string {
	return content.FieldKeys()
}

func (ts *TemplateService) Create(ctx context.Context, customerID string, in CreateTemplateInput) (*model.Template, error) {
	placeholders := in.Placeholders
	if placeholders == nil {
		placeholders = DerivePlaceholders(in.Content)
	}

	template := &model.Template{
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Content:      in.Content,
		Placeholders: placeholders,
		Styling:      in.Styling,
		CustomerID:   customerID,
		IsActive:     true,
	}

	if err := ts.templates.Create(ctx, nil, template); err != nil {
		return nil, err
	}

	return template, nil
}

func (ts *TemplateService) List(ctx context.Context, customerID string) ([]model.Template, error) {
	return ts.templates.GetByCustomerId(ctx, nil, customerID)
}

func (ts *TemplateService) Get(ctx context.Context, id, customerID string) (*model.Template, error) {
	template, err := ts.templates.GetByIdAndCustomerId(ctx, nil, id, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return template, nil
}

// TemplatePatch holds the fields to change, nil means keep the current value.
type TemplatePatch struct {
	Name         *string
	Description  *string
	Content      *model.TemplateContent
	Placeholders *[]string
	Styling      model.JSONMap
	IsActive     *bool
}

// Update merges the patch into the template. New content without explicit placeholders re-derives them.
func (ts *TemplateService) Update(ctx context.Context, id, customerID string, patch TemplatePatch) (*model.Template, error) {
	template, err := ts.Get(ctx, id, customerID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		template.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		template.Description = *patch.Description
	}
	if patch.Content != nil {
		template.Content = *patch.Content
		if patch.Placeholders == nil {
			template.Placeholders = DerivePlaceholders(*patch.Content)
		}
	}
	if patch.Placeholders != nil {
		template.Placeholders = *patch.Placeholders
	}
	if patch.Styling != nil {
		template.Styling = patch.Styling
	}
	if patch.IsActive != nil {
		template.IsActive = *patch.IsActive
	}

	if err := ts.templates.Update(ctx, nil, template); err != nil {
		return nil, err
	}

	return template, nil
}

// Delete refuses to remove a template that certificates still point to.
func (ts *TemplateService) Delete(ctx context.Context, id, customerID string) error {
	err := ts.templates.Delete(ctx, nil, id, customerID)
	switch {
	case err == nil:
		ts.logger.Infof("Deleted template %s of customer %s", id, customerID)
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrTemplateNotFound
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrTemplateInUse
	}
	return err
}
