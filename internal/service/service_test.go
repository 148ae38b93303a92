package service

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/SeakMengs/SecCert/internal/auth"
	"github.com/SeakMengs/SecCert/internal/config"
	filestorage "github.com/SeakMengs/SecCert/internal/file_storage"
	"github.com/SeakMengs/SecCert/internal/model"
	"github.com/SeakMengs/SecCert/internal/repository/memory"
	"github.com/SeakMengs/SecCert/pkg/certgen"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var errRenderFailed = errors.New("render failed")

// fakeRenderer writes a small placeholder file instead of drawing a PDF.
// Items whose data has "fail": true are rejected.
type fakeRenderer struct {
	dir string

	mu    sync.Mutex
	calls int
}

func (r *fakeRenderer) Render(ctx context.Context, tpl certgen.Template, data map[string]any, certificateNumber, verificationToken string) (string, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	if fail, _ := data["fail"].(bool); fail {
		return "", errRenderFailed
	}

	f, err := os.CreateTemp(r.dir, certificateNumber+"-*.pdf")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.WriteString("%PDF-1.4 " + certificateNumber); err != nil {
		return "", err
	}
	return f.Name(), nil
}

func (r *fakeRenderer) files(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(r.dir)
	require.NoError(t, err)

	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

type testEnv struct {
	store    *memory.Store
	svc      *Service
	renderer *fakeRenderer
}

func newTestEnv(t *testing.T, cfg CertificateServiceConfig) *testEnv {
	t.Helper()

	dir := t.TempDir()
	storage, err := filestorage.NewLocalStore(dir)
	require.NoError(t, err)

	signer, err := certgen.NewSigner("test-signing-secret")
	require.NoError(t, err)

	if cfg.NumberMaxAttempts == 0 {
		cfg.NumberMaxAttempts = 3
	}

	store := memory.NewStore()
	renderer := &fakeRenderer{dir: dir}
	svc := NewService(Dependencies{
		Stores: Stores{
			Customers:    store.Customer,
			Templates:    store.Template,
			Certificates: store.Certificate,
		},
		JWT:      auth.NewJwt(config.AuthConfig{JWT_SECRET: "test-jwt-secret", SessionTTL: time.Hour}, nil),
		Signer:   signer,
		Renderer: renderer,
		Storage:  storage,
		Logger:   zap.NewNop().Sugar(),
	}, bcrypt.MinCost, cfg)

	return &testEnv{store: store, svc: svc, renderer: renderer}
}

func (e *testEnv) register(t *testing.T, company string) *RegisterResult {
	t.Helper()
	result, err := e.svc.Customer.Register(context.Background(), RegisterInput{
		CompanyName: company,
		Email:       company + "@example.com",
		Password:    "password123",
	})
	require.NoError(t, err)
	return result
}

func (e *testEnv) createTemplate(t *testing.T, customerID string) *model.Template {
	t.Helper()
	template, err := e.svc.Template.Create(context.Background(), customerID, CreateTemplateInput{
		Name: "Course completion",
		Content: model.TemplateContent{
			Title: "Certificate of Completion",
			Fields: []model.TemplateField{
				{Key: "name", Label: "Name", Type: "text"},
				{Key: "course", Label: "Course", Type: "text"},
			},
		},
	})
	require.NoError(t, err)
	return template
}
