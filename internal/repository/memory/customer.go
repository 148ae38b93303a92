package memory

import (
	"context"

	"github.com/SeakMengs/SecCert/internal/model"
	"github.com/SeakMengs/SecCert/internal/repository"
	"gorm.io/gorm"
)

type CustomerStore struct {
	s *Store
}

func copyCustomer(c *model.Customer) *model.Customer {
	out := *c
	out.BaseModel = copyBase(c.BaseModel)
	out.Templates = nil
	out.Certificates = nil
	return &out
}

func (cs *CustomerStore) GetById(ctx context.Context, tx *gorm.DB, id string) (*model.Customer, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	c, ok := cs.s.customers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return copyCustomer(c), nil
}

func (cs *CustomerStore) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*model.Customer, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	for _, c := range cs.s.customers {
		if equalFold(c.Email, email) {
			return copyCustomer(c), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (cs *CustomerStore) GetByAPIKey(ctx context.Context, tx *gorm.DB, apiKey string) (*model.Customer, error) {
	cs.s.mu.RLock()
	defer cs.s.mu.RUnlock()

	for _, c := range cs.s.customers {
		if c.APIKey == apiKey {
			return copyCustomer(c), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// conflicts checks the unique columns against every other customer. Callers hold the lock.
func (cs *CustomerStore) conflicts(c *model.Customer) bool {
	for id, other := range cs.s.customers {
		if id == c.ID {
			continue
		}
		if equalFold(other.Email, c.Email) || other.CompanyName == c.CompanyName || other.APIKey == c.APIKey {
			return true
		}
	}
	return false
}

func (cs *CustomerStore) Create(ctx context.Context, tx *gorm.DB, customer *model.Customer) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	return cs.create(customer)
}

func (cs *CustomerStore) create(customer *model.Customer) error {
	if _, exists := cs.s.customers[customer.ID]; exists && customer.ID != "" {
		return gorm.ErrDuplicatedKey
	}
	if cs.conflicts(customer) {
		return gorm.ErrDuplicatedKey
	}

	cs.s.stamp(&customer.BaseModel)
	cs.s.customers[customer.ID] = copyCustomer(customer)
	return nil
}

func (cs *CustomerStore) CheckDupAndCreate(ctx context.Context, tx *gorm.DB, customer *model.Customer) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	for _, c := range cs.s.customers {
		if equalFold(c.Email, customer.Email) {
			return repository.ErrEmailAlreadyExists
		}
	}
	return cs.create(customer)
}

func (cs *CustomerStore) Update(ctx context.Context, tx *gorm.DB, customer *model.Customer) error {
	cs.s.mu.Lock()
	defer cs.s.mu.Unlock()

	existing, ok := cs.s.customers[customer.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if cs.conflicts(customer) {
		return gorm.ErrDuplicatedKey
	}

	customer.CreatedAt = copyTime(existing.CreatedAt)
	cs.s.touch(&customer.BaseModel)
	cs.s.customers[customer.ID] = copyCustomer(customer)
	return nil
}
