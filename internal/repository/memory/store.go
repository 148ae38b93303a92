// Package memory is an in-memory implementation of the repositories for development and testing.
// It mirrors the constraints of the postgres schema and reports violations with the same gorm errors.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SeakMengs/SecCert/internal/model"
	"github.com/google/uuid"
)

// Store holds all tables behind one lock, so constraint checks across tables are consistent.
type Store struct {
	mu  sync.RWMutex
	seq int64
	now func() time.Time

	customers    map[string]*model.Customer
	templates    map[string]*model.Template
	certificates map[string]*model.Certificate
	// insertion order, used as the created_at tie breaker
	order map[string]int64

	Customer    *CustomerStore
	Template    *TemplateStore
	Certificate *CertificateStore
}

func NewStore() *Store {
	s := &Store{
		now:          time.Now,
		customers:    make(map[string]*model.Customer),
		templates:    make(map[string]*model.Template),
		certificates: make(map[string]*model.Certificate),
		order:        make(map[string]int64),
	}
	s.Customer = &CustomerStore{s: s}
	s.Template = &TemplateStore{s: s}
	s.Certificate = &CertificateStore{s: s}
	return s
}

// stamp assigns id and timestamps the way the database defaults would. Callers hold the write lock.
func (s *Store) stamp(bm *model.BaseModel) {
	if bm.ID == "" {
		bm.ID = uuid.NewString()
	}
	now := s.now()
	if bm.CreatedAt == nil {
		bm.CreatedAt = &now
	}
	bm.UpdatedAt = &now
	s.seq++
	s.order[bm.ID] = s.seq
}

func (s *Store) touch(bm *model.BaseModel) {
	now := s.now()
	bm.UpdatedAt = &now
}

// newestFirst sorts ids by creation time, newest first.
func (s *Store) newestFirst(ids []string, createdAt func(id string) *time.Time) {
	sort.SliceStable(ids, func(i, j int) bool {
		ci, cj := createdAt(ids[i]), createdAt(ids[j])
		if ci != nil && cj != nil && !ci.Equal(*cj) {
			return ci.After(*cj)
		}
		return s.order[ids[i]] > s.order[ids[j]]
	})
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func copyBase(bm model.BaseModel) model.BaseModel {
	return model.BaseModel{ID: bm.ID, CreatedAt: copyTime(bm.CreatedAt), UpdatedAt: copyTime(bm.UpdatedAt)}
}

func equalFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
