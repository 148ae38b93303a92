package service

import (
	"context"
	"testing"

	"github.com/SeakMengs/SecCert/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatePlaceholders(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, CertificateServiceConfig{})
	acme := env.register(t, "acme")

	derived := env.createTemplate(t, acme.Customer.ID)
	assert.Equal(t, []string{"name", "course"}, []string(derived.Placeholders))

	explicit, err := env.svc.Template.Create(ctx, acme.Customer.ID, CreateTemplateInput{
		Name:         "Explicit",
		Content:      model.TemplateContent{Fields: []model.TemplateField{{Key: "name", Label: "Name"}}},
		Placeholders: []string{"name", "date"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "date"}, []string(explicit.Placeholders))

	t.Run("new content re-derives placeholders", func(t *testing.T) {
		content := model.TemplateContent{Fields: []model.TemplateField{{Key: "fullName", Label: "Full name"}}}
		updated, err := env.svc.Template.Update(ctx, explicit.ID, acme.Customer.ID, TemplatePatch{Content: &content})
		require.NoError(t, err)
		assert.Equal(t, []string{"fullName"}, []string(updated.Placeholders))
		assert.Equal(t, "Explicit", updated.Name)
	})

	t.Run("explicit placeholders win", func(t *testing.T) {
		content := model.TemplateContent{Fields: []model.TemplateField{{Key: "a", Label: "A"}}}
		placeholders := []string{"b"}
		updated, err := env.svc.Template.Update(ctx, explicit.ID, acme.Customer.ID, TemplatePatch{Content: &content, Placeholders: &placeholders})
		require.NoError(t, err)
		assert.Equal(t, []string{"b"}, []string(updated.Placeholders))
	})

	t.Run("omitted fields are kept", func(t *testing.T) {
		inactive := false
		updated, err := env.svc.Template.Update(ctx, derived.ID, acme.Customer.ID, TemplatePatch{IsActive: &inactive})
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
		assert.Equal(t, derived.Content, updated.Content)

		got, err := env.svc.Template.Get(ctx, derived.ID, acme.Customer.ID)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	})

	list, err := env.svc.Template.List(ctx, acme.Customer.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	require.NoError(t, env.svc.Template.Delete(ctx, explicit.ID, acme.Customer.ID))
	assert.ErrorIs(t, env.svc.Template.Delete(ctx, explicit.ID, acme.Customer.ID), ErrTemplateNotFound)
}

func TestInactiveTemplateStillIssues(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, CertificateServiceConfig{})
	acme := env.register(t, "acme")
	template := env.createTemplate(t, acme.Customer.ID)

	inactive := false
	_, err := env.svc.Template.Update(ctx, template.ID, acme.Customer.ID, TemplatePatch{IsActive: &inactive})
	require.NoError(t, err)

	_, err = env.svc.Certificate.Generate(ctx, template.ID, map[string]any{"name": "Ada", "course": "Go"}, acme.Customer.ID)
	assert.NoError(t, err)
}
