package memory

import (
	"context"
	"time"

	"github.com/SeakMengs/SecCert/internal/constant"
	"github.com/SeakMengs/SecCert/internal/model"
	"github.com/SeakMengs/SecCert/internal/repository"
	"gorm.io/gorm"
)

type CertificateStore struct {
	s *Store
}

func copyCertificate(c *model.Certificate) *model.Certificate {
	out := *c
	out.BaseModel = copyBase(c.BaseModel)
	out.IssuedAt = copyTime(c.IssuedAt)
	out.RevokedAt = copyTime(c.RevokedAt)
	// jsonb round trip, numbers come back as float64 like they do from postgres
	if data, err := c.Data.Clone(); err == nil {
		out.Data = data
	}
	if metadata, err := c.Metadata.Clone(); err == nil {
		out.Metadata = metadata
	}
	out.Template = nil
	return &out
}

// withTemplate attaches the template summary the postgres repository preloads. Callers hold the lock.
func (cs *CertificateStore) withTemplate(c *model.Certificate) *model.Certificate {
	out := copyCertificate(c)
	if t, ok := cs.s.templates[c.TemplateID]; ok {
		out.Template = &model.Template{
			BaseModel:   model.BaseModel{ID: t.ID},
			Name:        t.Name,
			Description: t.Description,
		}
	}
	return out
}

func (cs *CertificateStore) Create(ctx context.Context, tx *gorm.DB, certificate *model.Certificate) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	if _, ok := cs.s.customers[certificate.CustomerID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if _, ok := cs.s.templates[certificate.TemplateID]; !ok {
		return gorm.ErrForeignKeyViolated
	}
	if _, exists := cs.s.certificates[certificate.ID]; exists && certificate.ID != "" {
		return gorm.ErrDuplicatedKey
	}
	for _, other := range cs.s.certificates {
		if other.CertificateNumber == certificate.CertificateNumber ||
			other.Signature == certificate.Signature ||
			other.VerificationToken == certificate.VerificationToken {
			return gorm.ErrDuplicatedKey
		}
	}
	if _, err := certificate.Data.Clone(); err != nil {
		return err
	}
	if certificate.Status == "" {
		certificate.Status = constant.CertificateStatusDraft
	}

	cs.s.stamp(&certificate.BaseModel)
	cs.s.certificates[certificate.ID] = copyCertificate(certificate)
	return nil
}

func (cs *CertificateStore) List(ctx context.Context, tx *gorm.DB, customerId string, filter repository.CertificateFilter) ([]model.Certificate, int64, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	ids := []string{}
	for id, c := range cs.s.certificates {
		if c.CustomerID != customerId {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		ids = append(ids, id)
	}
	cs.s.newestFirst(ids, func(id string) *time.Time { return cs.s.certificates[id].CreatedAt })

	total := int64(len(ids))
	start := min(filter.Offset(), len(ids))
	end := len(ids)
	if filter.Limit > 0 {
		end = min(start+filter.Limit, len(ids))
	}

	out := make([]model.Certificate, 0, end-start)
	for _, id := range ids[start:end] {
		out = append(out, *cs.withTemplate(cs.s.certificates[id]))
	}
	return out, total, nil
}

func (cs *CertificateStore) GetByIdAndCustomerId(ctx context.Context, tx *gorm.DB, id, customerId string) (*model.Certificate, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	c, ok := cs.s.certificates[id]
	if !ok || c.CustomerID != customerId {
		return nil, gorm.ErrRecordNotFound
	}
	return cs.withTemplate(c), nil
}

func (cs *CertificateStore) GetByVerificationToken(ctx context.Context, tx *gorm.DB, token string) (*model.Certificate, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	for _, c := range cs.s.certificates {
		if c.VerificationToken == token {
			return cs.withTemplate(c), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (cs *CertificateStore) Revoke(ctx context.Context, tx *gorm.DB, id, customerId string, at time.Time) (*model.Certificate, error) {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	c, ok := cs.s.certificates[id]
	if !ok || c.CustomerID != customerId {
		return nil, gorm.ErrRecordNotFound
	}

	if c.Status != constant.CertificateStatusRevoked {
		c.Status = constant.CertificateStatusRevoked
		c.RevokedAt = copyTime(&at)
		cs.s.touch(&c.BaseModel)
	}

	return cs.withTemplate(c), nil
}

// Tamper overwrites the stored data payload without touching the signature.
// It exists to exercise verification of corrupted rows in tests.
func (cs *CertificateStore) Tamper(id string, data model.JSONMap) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	c, ok := cs.s.certificates[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	clone, err := data.Clone()
	if err != nil {
		return err
	}
	c.Data = clone
	return nil
}
