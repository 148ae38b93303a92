package route

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appcontext "github.com/SeakMengs/SecCert/internal/app_context"
	"github.com/SeakMengs/SecCert/internal/auth"
	"github.com/SeakMengs/SecCert/internal/config"
	filestorage "github.com/SeakMengs/SecCert/internal/file_storage"
	ratelimiter "github.com/SeakMengs/SecCert/internal/rate_limiter"
	"github.com/SeakMengs/SecCert/internal/repository/memory"
	"github.com/SeakMengs/SecCert/internal/service"
	"github.com/SeakMengs/SecCert/internal/util"
	"github.com/SeakMengs/SecCert/pkg/certgen"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  []util.ApiError `json:"errors"`
	Data    map[string]any  `json:"data"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
}

func newTestServer(t *testing.T, limiter config.RateLimiterConfig) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, util.RegisterValidators())

	cfg := config.Config{
		ENV:  "test",
		Auth: config.AuthConfig{JWT_SECRET: "test-jwt-secret", SIGNING_SECRET: "test-signing-secret", SessionTTL: time.Hour, BcryptCost: bcrypt.MinCost},
		Cors: config.CorsConfig{AllowOrigins: []string{"*"}},
	}
	logger := zap.NewNop().Sugar()

	dir := t.TempDir()
	storage, err := filestorage.NewLocalStore(dir)
	require.NoError(t, err)
	renderer, err := certgen.NewRenderer(&certgen.Config{OutputDir: dir, VerifyURLPattern: "http://localhost/verify/%s"})
	require.NoError(t, err)
	signer, err := certgen.NewSigner(cfg.Auth.SIGNING_SECRET)
	require.NoError(t, err)

	store := memory.NewStore()
	jwtService := auth.NewJwt(cfg.Auth, logger)
	svc := service.NewService(service.Dependencies{
		Stores:   service.Stores{Customers: store.Customer, Templates: store.Template, Certificates: store.Certificate},
		JWT:      jwtService,
		Signer:   signer,
		Renderer: renderer,
		Storage:  storage,
		Logger:   logger,
	}, cfg.Auth.BcryptCost, service.CertificateServiceConfig{NumberMaxAttempts: 3})

	app := &appcontext.Application{Config: &cfg, Logger: logger, Service: svc, JWTService: jwtService}
	return &testServer{t: t, router: NewRouter(app, ratelimiter.NewRateLimiter(limiter, logger))}
}

func (s *testServer) do(method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var res envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &res))
	}
	return w, res
}

type account struct {
	id      string
	token   string
	key     string
	secret  string
	session map[string]string
	apiKey  map[string]string
}

func (s *testServer) register(company string) account {
	s.t.Helper()
	w, res := s.do(http.MethodPost, "/api/auth/register", map[string]any{
		"companyName": company,
		"email":       company + "@example.com",
		"password":    "password123",
	}, nil)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())

	customer := res.Data["customer"].(map[string]any)
	a := account{
		id:     customer["id"].(string),
		token:  res.Data["token"].(string),
		key:    customer["apiKey"].(string),
		secret: customer["apiSecret"].(string),
	}
	a.session = map[string]string{"Authorization": "Bearer " + a.token}
	a.apiKey = map[string]string{"X-API-Key": a.key, "X-API-Secret": a.secret}
	return a
}

func (s *testServer) createTemplate(a account) string {
	s.t.Helper()
	w, res := s.do(http.MethodPost, "/api/templates", map[string]any{
		"name": "Course completion",
		"content": map[string]any{
			"title": "Certificate of Completion",
			"fields": []map[string]any{
				{"key": "name", "label": "Name", "type": "text"},
				{"key": "course", "label": "Course", "type": "text"},
			},
		},
	}, a.session)
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return res.Data["template"].(map[string]any)["id"].(string)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, config.RateLimiterConfig{})
	w, res := s.do(http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, res.Success)
	assert.Equal(t, "ok", res.Data["status"])
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t, config.RateLimiterConfig{})
	acme := s.register("acme")
	assert.Len(t, acme.secret, 128)

	t.Run("duplicate email", func(t *testing.T) {
		w, res := s.do(http.MethodPost, "/api/auth/register", map[string]any{
			"companyName": "Another",
			"email":       "acme@example.com",
			"password":    "password123",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, res.Success)
	})

	t.Run("validation", func(t *testing.T) {
		w, res := s.do(http.MethodPost, "/api/auth/register", map[string]any{"companyName": "  ", "email": "bad"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, res.Errors)
	})

	t.Run("login", func(t *testing.T) {
		w, _ := s.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "acme@example.com", "password": "nope"}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w, res := s.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "acme@example.com", "password": "password123"}, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, res.Data["token"])
	})

	t.Run("profile", func(t *testing.T) {
		w, res := s.do(http.MethodGet, "/api/auth/profile", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Authentication required", res.Message)

		w, res = s.do(http.MethodGet, "/api/auth/profile", nil, map[string]string{"Authorization": "Bearer garbage"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid authentication token", res.Message)

		w, res = s.do(http.MethodGet, "/api/auth/profile", nil, acme.session)
		require.Equal(t, http.StatusOK, w.Code)
		customer := res.Data["customer"].(map[string]any)
		assert.Equal(t, acme.id, customer["id"])
		assert.NotContains(t, customer, "password")
		assert.NotContains(t, customer, "apiSecret")
	})

	t.Run("deactivation revokes access", func(t *testing.T) {
		other := s.register("globex")

		w, _ := s.do(http.MethodPut, "/api/customers/"+acme.id, map[string]any{"isActive": false}, other.session)
		assert.Equal(t, http.StatusNotFound, w.Code, "customers only edit themselves")

		w, _ = s.do(http.MethodPut, "/api/customers/"+other.id, map[string]any{"isActive": false}, other.session)
		require.Equal(t, http.StatusOK, w.Code)

		w, _ = s.do(http.MethodGet, "/api/auth/profile", nil, other.session)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		w, _ = s.do(http.MethodPost, "/api/auth/login", map[string]any{"email": "globex@example.com", "password": "password123"}, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCertificateRoutes(t *testing.T) {
	s := newTestServer(t, config.RateLimiterConfig{})
	acme := s.register("acme")
	globex := s.register("globex")
	templateID := s.createTemplate(acme)

	t.Run("api credentials", func(t *testing.T) {
		body := map[string]any{"templateId": templateID, "data": map[string]any{"name": "Ada", "course": "Go"}}

		w, res := s.do(http.MethodPost, "/api/certificates/generate", body, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "API credentials required", res.Message)

		w, res = s.do(http.MethodPost, "/api/certificates/generate", body, map[string]string{"X-API-Key": acme.key, "X-API-Secret": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid API credentials", res.Message)

		w, _ = s.do(http.MethodPost, "/api/certificates/generate", body, acme.session)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "sessions are not api credentials")
	})

	t.Run("missing fields", func(t *testing.T) {
		w, res := s.do(http.MethodPost, "/api/certificates/generate", map[string]any{
			"templateId": templateID,
			"data":       map[string]any{"name": "Ada"},
		}, acme.apiKey)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []any{"course"}, res.Data["missingFields"])
	})

	t.Run("simulate", func(t *testing.T) {
		w, res := s.do(http.MethodPost, "/api/certificates/simulate", map[string]any{
			"templateId": templateID,
			"data":       map[string]any{"name": "Ada", "course": "Go"},
		}, acme.session)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, true, res.Data["preview"])
		assert.Equal(t, "Course completion", res.Data["templateName"])
	})

	w, res := s.do(http.MethodPost, "/api/certificates/generate", map[string]any{
		"templateId": templateID,
		"data":       map[string]any{"name": "Ada Lovelace", "course": "Analytical Engines"},
	}, acme.apiKey)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	issued := res.Data["certificate"].(map[string]any)
	certificateID := issued["id"].(string)
	number := issued["certificateNumber"].(string)
	token := issued["verificationToken"].(string)
	assert.Equal(t, "generated", issued["status"])

	t.Run("verify", func(t *testing.T) {
		w, res := s.do(http.MethodGet, "/api/certificates/verify/"+token, nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, res.Data["valid"])
		certificate := res.Data["certificate"].(map[string]any)
		assert.Equal(t, number, certificate["certificateNumber"])
		assert.Equal(t, "Ada Lovelace", certificate["data"].(map[string]any)["name"])

		w, res = s.do(http.MethodGet, "/api/certificates/verify/unknown", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, false, res.Data["valid"])
	})

	t.Run("download", func(t *testing.T) {
		w, _ := s.do(http.MethodGet, "/api/certificates/"+certificateID+"/download", nil, acme.session)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, fmt.Sprintf(`attachment; filename="%s.pdf"`, number), w.Header().Get("Content-Disposition"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("cross tenant", func(t *testing.T) {
		for _, path := range []string{
			"/api/certificates/" + certificateID,
			"/api/certificates/" + certificateID + "/download",
			"/api/templates/" + templateID,
		} {
			w, _ := s.do(http.MethodGet, path, nil, globex.session)
			assert.Equal(t, http.StatusNotFound, w.Code, path)
		}
		w, _ := s.do(http.MethodPost, "/api/certificates/generate", map[string]any{
			"templateId": templateID,
			"data":       map[string]any{"name": "Eve", "course": "Go"},
		}, globex.apiKey)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("batch", func(t *testing.T) {
		w, res := s.do(http.MethodPost, "/api/certificates/batch-generate", map[string]any{
			"templateId":   templateID,
			"certificates": []map[string]any{},
		}, acme.apiKey)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "certificates array is required", res.Message)

		w, res = s.do(http.MethodPost, "/api/certificates/batch-generate", map[string]any{
			"templateId": templateID,
			"certificates": []map[string]any{
				{"name": "Grace", "course": "Go"},
				{"name": "Linus"},
			},
		}, acme.apiKey)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "Batch generation completed. 1 successful, 1 failed", res.Message)
		assert.Len(t, res.Data["results"], 1)
		batchErrors := res.Data["errors"].([]any)
		require.Len(t, batchErrors, 1)
		assert.EqualValues(t, 1, batchErrors[0].(map[string]any)["index"])
	})

	t.Run("list", func(t *testing.T) {
		w, res := s.do(http.MethodGet, "/api/certificates?page=1&limit=1", nil, acme.session)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, res.Data["certificates"], 1)
		pagination := res.Data["pagination"].(map[string]any)
		assert.EqualValues(t, 2, pagination["total"])
		assert.EqualValues(t, 2, pagination["totalPages"])

		w, _ = s.do(http.MethodGet, "/api/certificates?status=expired", nil, acme.session)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("revoke", func(t *testing.T) {
		w, res := s.do(http.MethodPut, "/api/certificates/"+certificateID+"/revoke", nil, acme.session)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "revoked", res.Data["certificate"].(map[string]any)["status"])

		w, res = s.do(http.MethodGet, "/api/certificates/verify/"+token, nil, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "revoked", res.Data["certificate"].(map[string]any)["status"])
	})

	t.Run("template in use", func(t *testing.T) {
		w, _ := s.do(http.MethodDelete, "/api/templates/"+templateID, nil, acme.session)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	s := newTestServer(t, config.RateLimiterConfig{RequestsPerTimeFrame: 2, TimeFrame: time.Minute, Enabled: true})

	for i := 0; i < 2; i++ {
		w, _ := s.do(http.MethodGet, "/api/health", nil, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w, _ := s.do(http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}
