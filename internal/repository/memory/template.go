package memory

import (
	"context"
	"time"

	"github.com/SeakMengs/SecCert/internal/model"
	"gorm.io/gorm"
)

type TemplateStore struct {
	s *Store
}

func copyTemplate(t *model.Template) *model.Template {
	out := *t
	out.BaseModel = copyBase(t.BaseModel)
	out.Content.Fields = append([]model.TemplateField(nil), t.Content.Fields...)
	if t.Content.Layout != nil {
		layout := *t.Content.Layout
		out.Content.Layout = &layout
	}
	out.Placeholders = append([]string(nil), t.Placeholders...)
	if styling, err := t.Styling.Clone(); err == nil {
		out.Styling = styling
	}
	out.Certificates = nil
	return &out
}

func (ts *TemplateStore) Create(ctx context.Context, tx *gorm.DB, template *model.Template) error {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	if _, ok := ts.s.customers[template.CustomerID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if _, exists := ts.s.templates[template.ID]; exists && template.ID != "" {
		return gorm.ErrDuplicatedKey
	}
	if _, err := template.Styling.Clone(); err != nil {
		return err
	}

	ts.s.stamp(&template.BaseModel)
	ts.s.templates[template.ID] = copyTemplate(template)
	return nil
}

func (ts *TemplateStore) GetByCustomerId(ctx context.Context, tx *gorm.DB, customerId string) ([]model.Template, error) {
	ts.s.mu.RLock()
	defer ts.s.mu.RUnlock()

	ids := []string{}
	for id, t := range ts.s.templates {
		if t.CustomerID == customerId {
			ids = append(ids, id)
		}
	}
	ts.s.newestFirst(ids, func(id string) *time.Time { return ts.s.templates[id].CreatedAt })

	out := make([]model.Template, 0, len(ids))
	for _, id := range ids {
		out = append(out, *copyTemplate(ts.s.templates[id]))
	}
	return out, nil
}

func (ts *TemplateStore) GetByIdAndCustomerId(ctx context.Context, tx *gorm.DB, id, customerId string) (*model.Template, error) {
	ts.s.mu.RLock()
	defer ts.s.mu.RUnlock()

	t, ok := ts.s.templates[id]
	if !ok || t.CustomerID != customerId {
		return nil, gorm.ErrRecordNotFound
	}
	return copyTemplate(t), nil
}

func (ts *TemplateStore) Update(ctx context.Context, tx *gorm.DB, template *model.Template) error {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	existing, ok := ts.s.templates[template.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if _, ok := ts.s.customers[template.CustomerID]; !ok {
		return gorm.ErrForeignKeyViolated
	}

	template.CreatedAt = copyTime(existing.CreatedAt)
	ts.s.touch(&template.BaseModel)
	ts.s.templates[template.ID] = copyTemplate(template)
	return nil
}

func (ts *TemplateStore) Delete(ctx context.Context, tx *gorm.DB, id, customerId string) error {
	ts.s.mu.Lock()
	defer ts.s.mu.Unlock()

	t, ok := ts.s.templates[id]
	if !ok || t.CustomerID != customerId {
		return gorm.ErrRecordNotFound
	}

	// ON DELETE RESTRICT
	for _, c := range ts.s.certificates {
		if c.TemplateID == id {
			return gorm.ErrForeignKeyViolated
		}
	}

	delete(ts.s.templates, id)
	delete(ts.s.order, id)
	return nil
}
