package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/SeakMengs/SecCert/internal/constant"
	filestorage "github.com/SeakMengs/SecCert/internal/file_storage"
	"github.com/SeakMengs/SecCert/internal/model"
	"github.com/SeakMengs/SecCert/internal/repository"
	"github.com/SeakMengs/SecCert/internal/util"
	"github.com/SeakMengs/SecCert/pkg/certgen"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

type CertificateServiceConfig struct {
	// Upper bound of concurrent issuances in a batch, 0 picks a default from GOMAXPROCS
	BatchMaxWorkers int
	// How many numbers to try when the database reports a duplicate
	NumberMaxAttempts int
	Now               func() time.Time
	NewNumber         certgen.NumberGenerator
}

type CertificateService struct {
	templates      TemplateStore
	certificates   CertificateStore
	signer         *certgen.Signer
	renderer       Renderer
	storage        filestorage.Store
	logger         *zap.SugaredLogger
	now            func() time.Time
	newNumber      certgen.NumberGenerator
	maxWorkers     int
	numberAttempts int
}

func NewCertificateService(
	templates TemplateStore,
	certificates CertificateStore,
	signer *certgen.Signer,
	renderer Renderer,
	storage filestorage.Store,
	logger *zap.SugaredLogger,
	cfg CertificateServiceConfig,
) *CertificateService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.NewNumber == nil {
		cfg.NewNumber = certgen.NewNumberGenerator(cfg.Now)
	}
	if cfg.NumberMaxAttempts < 1 {
		cfg.NumberMaxAttempts = 1
	}

	return &CertificateService{
		templates:      templates,
		certificates:   certificates,
		signer:         signer,
		renderer:       renderer,
		storage:        storage,
		logger:         logger,
		now:            cfg.Now,
		newNumber:      cfg.NewNumber,
		maxWorkers:     cfg.BatchMaxWorkers,
		numberAttempts: cfg.NumberMaxAttempts,
	}
}

type PreviewField struct {
	Label string `json:"label"`
	Value any    `json:"value"`
}

type EstimatedOutput struct {
	Title  string         `json:"title"`
	Fields []PreviewField `json:"fields"`
}

type Preview struct {
	TemplateName    string          `json:"templateName"`
	Data            map[string]any  `json:"data"`
	Preview         bool            `json:"preview"`
	EstimatedOutput EstimatedOutput `json:"estimatedOutput"`
}

type IssuedCertificate struct {
	ID                string                     `json:"id"`
	CertificateNumber string                     `json:"certificateNumber"`
	VerificationToken string                     `json:"verificationToken"`
	Status            constant.CertificateStatus `json:"status"`
	IssuedAt          *time.Time                 `json:"issuedAt"`
}

type BatchItemResult struct {
	Index             int    `json:"index"`
	CertificateID     string `json:"certificateId"`
	CertificateNumber string `json:"certificateNumber"`
}

type BatchItemError struct {
	Index int
	Err   error
}

type BatchResult struct {
	Results []BatchItemResult
	Errors  []BatchItemError
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type Verification struct {
	CertificateNumber string                     `json:"certificateNumber"`
	TemplateName      string                     `json:"templateName"`
	IssuedAt          *time.Time                 `json:"issuedAt"`
	Status            constant.CertificateStatus `json:"status"`
	Data              map[string]any             `json:"data"`
}

// lookupTemplate enforces ownership through the lookup itself.
func (s *CertificateService) lookupTemplate(ctx context.Context, templateID, ownerID string) (*model.Template, error) {
	template, err := s.templates.GetByIdAndCustomerId(ctx, nil, templateID, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}
	return template, nil
}

func checkFields(template *model.Template, data map[string]any) error {
	if missing := certgen.MissingFields(template.Placeholders, data); len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}

// Simulate validates the data against the template and returns what would be printed, nothing is stored.
func (s *CertificateService) Simulate(ctx context.Context, templateID string, data map[string]any, ownerID string) (*Preview, error) {
	template, err := s.lookupTemplate(ctx, templateID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := checkFields(template, data); err != nil {
		return nil, err
	}

	fields := make([]PreviewField, 0, len(template.Content.Fields))
	for _, f := range template.Content.Fields {
		var value any = ""
		if v, ok := data[f.Key]; ok && !certgen.IsFalsy(v) {
			value = v
		}
		fields = append(fields, PreviewField{Label: f.Label, Value: value})
	}

	return &Preview{
		TemplateName: template.Name,
		Data:         data,
		Preview:      true,
		EstimatedOutput: EstimatedOutput{
			Title:  template.Content.Title,
			Fields: fields,
		},
	}, nil
}

func (s *CertificateService) Generate(ctx context.Context, templateID string, data map[string]any, ownerID string) (*IssuedCertificate, error) {
	template, err := s.lookupTemplate(ctx, templateID, ownerID)
	if err != nil {
		return nil, err
	}
	if err := checkFields(template, data); err != nil {
		return nil, err
	}

	certificate, err := s.issue(ctx, template, data, ownerID)
	if err != nil {
		return nil, err
	}

	return &IssuedCertificate{
		ID:                certificate.ID,
		CertificateNumber: certificate.CertificateNumber,
		VerificationToken: certificate.VerificationToken,
		Status:            certificate.Status,
		IssuedAt:          certificate.IssuedAt,
	}, nil
}

// BatchGenerate issues every item concurrently and reports each outcome by index.
// A failing item never stops the others, so len(Results)+len(Errors) always equals len(items).
func (s *CertificateService) BatchGenerate(ctx context.Context, templateID string, items []map[string]any, ownerID string) (*BatchResult, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBatch
	}

	template, err := s.lookupTemplate(ctx, templateID, ownerID)
	if err != nil {
		return nil, err
	}

	workers := util.DetermineWorkers(len(items))
	if s.maxWorkers > 0 {
		workers = min(s.maxWorkers, len(items))
	}

	type outcome struct {
		certificate *model.Certificate
		err         error
	}
	outcomes := make([]outcome, len(items))

	// tasks never return an error, Wait is a join over all of them
	var g errgroup.Group
	g.SetLimit(workers)
	for i, data := range items {
		g.Go(func() error {
			if err := checkFields(template, data); err != nil {
				outcomes[i] = outcome{err: err}
				return nil
			}
			certificate, err := s.issue(ctx, template, data, ownerID)
			outcomes[i] = outcome{certificate: certificate, err: err}
			return nil
		})
	}
	_ = g.Wait()

	result := &BatchResult{
		Results: []BatchItemResult{},
		Errors:  []BatchItemError{},
	}
	for i, o := range outcomes {
		if o.err != nil {
			s.logger.Debugf("Batch item %d failed: %v", i, o.err)
			result.Errors = append(result.Errors, BatchItemError{Index: i, Err: o.err})
			continue
		}
		result.Results = append(result.Results, BatchItemResult{
			Index:             i,
			CertificateID:     o.certificate.ID,
			CertificateNumber: o.certificate.CertificateNumber,
		})
	}

	s.logger.Infof("Batch generation for template %s completed. %d successful, %d failed", template.ID, len(result.Results), len(result.Errors))
	return result, nil
}

// issue mints, signs, renders, stores and persists one certificate.
// A duplicate number reported by the database is retried with a fresh number.
func (s *CertificateService) issue(ctx context.Context, template *model.Template, data map[string]any, ownerID string) (*model.Certificate, error) {
	// sign exactly what will be read back from the database
	normalized, err := model.JSONMap(data).Clone()
	if err != nil {
		return nil, fmt.Errorf("invalid certificate data: %w", err)
	}
	if normalized == nil {
		normalized = model.JSONMap{}
	}

	for attempt := 1; ; attempt++ {
		number, err := s.newNumber()
		if err != nil {
			return nil, fmt.Errorf("failed to generate certificate number: %w", err)
		}

		signature, err := s.signer.Sign(certgen.Payload{
			TemplateID:        template.ID,
			Data:              normalized,
			CertificateNumber: number,
			CustomerID:        ownerID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to sign certificate: %w", err)
		}
		token := certgen.MakeToken(number, signature)

		path, err := s.renderer.Render(ctx, template.ToCertgenTemplate(), normalized, number, token)
		if err != nil {
			if errors.Is(err, certgen.ErrOutputExists) && attempt < s.numberAttempts {
				s.logger.Warnf("Certificate file for %s already exists, retrying (%d/%d)", number, attempt, s.numberAttempts)
				continue
			}
			return nil, fmt.Errorf("failed to render certificate: %w", err)
		}

		ref, err := s.storage.Put(ctx, path)
		if err != nil {
			os.Remove(path)
			if errors.Is(err, filestorage.ErrFileExists) && attempt < s.numberAttempts {
				s.logger.Warnf("Stored file for %s already exists, retrying (%d/%d)", number, attempt, s.numberAttempts)
				continue
			}
			return nil, fmt.Errorf("failed to store certificate file: %w", err)
		}

		issuedAt := s.now()
		certificate := &model.Certificate{
			CertificateNumber: number,
			TemplateID:        template.ID,
			CustomerID:        ownerID,
			Data:              normalized,
			Signature:         signature,
			VerificationToken: token,
			FilePath:          ref,
			Status:            constant.CertificateStatusGenerated,
			IssuedAt:          &issuedAt,
		}

		err = s.certificates.Create(ctx, nil, certificate)
		if err == nil {
			return certificate, nil
		}

		s.discard(ref)
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < s.numberAttempts {
			s.logger.Warnf("Certificate number %s collided, retrying (%d/%d)", number, attempt, s.numberAttempts)
			continue
		}
		return nil, fmt.Errorf("failed to persist certificate: %w", err)
	}
}

// discard removes a stored file whose record could not be written.
func (s *CertificateService) discard(ref string) {
	// the request context may already be cancelled, cleanup still has to happen
	ctx, cancel := context.WithTimeout(context.Background(), constant.QUERY_TIMEOUT_DURATION)
	defer cancel()

	if err := s.storage.Remove(ctx, ref); err != nil {
		s.logger.Errorf("Failed to remove orphaned certificate file %s: %v", ref, err)
	}
}

type ListCertificatesInput struct {
	Status string
	Page   int
	Limit  int
}

func (s *CertificateService) List(ctx context.Context, ownerID string, in ListCertificatesInput) ([]model.Certificate, Pagination, error) {
	filter := repository.CertificateFilter{
		Status: constant.CertificateStatus(in.Status),
		Page:   max(in.Page, 1),
		Limit:  in.Limit,
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, Pagination{}, ErrInvalidStatus
	}
	if filter.Limit < 1 {
		filter.Limit = constant.DefaultPageSize
	}
	filter.Limit = min(filter.Limit, constant.MaxPageSize)

	certificates, total, err := s.certificates.List(ctx, nil, ownerID, filter)
	if err != nil {
		return nil, Pagination{}, err
	}

	return certificates, Pagination{
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: util.CalculateTotalPage(total, filter.Limit),
	}, nil
}

func (s *CertificateService) Get(ctx context.Context, id, ownerID string) (*model.Certificate, error) {
	certificate, err := s.certificates.GetByIdAndCustomerId(ctx, nil, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return certificate, nil
}

// Open returns the rendered document of an owned certificate. The caller closes the reader.
func (s *CertificateService) Open(ctx context.Context, id, ownerID string) (io.ReadCloser, int64, *model.Certificate, error) {
	certificate, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, 0, nil, err
	}
	if certificate.FilePath == "" {
		return nil, 0, nil, ErrCertificateFileNotFound
	}

	rc, size, err := s.storage.Open(ctx, certificate.FilePath)
	if err != nil {
		if errors.Is(err, filestorage.ErrFileNotFound) {
			return nil, 0, nil, ErrCertificateFileNotFound
		}
		return nil, 0, nil, err
	}

	return rc, size, certificate, nil
}

// Verify is public. It finds the certificate by token and recomputes the signature from the stored fields.
func (s *CertificateService) Verify(ctx context.Context, token string) (*Verification, error) {
	certificate, err := s.certificates.GetByVerificationToken(ctx, nil, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}

	valid := s.signer.Verify(certgen.Payload{
		TemplateID:        certificate.TemplateID,
		Data:              certificate.Data,
		CertificateNumber: certificate.CertificateNumber,
		CustomerID:        certificate.CustomerID,
	}, certificate.Signature)
	if !valid {
		s.logger.Warnf("Signature mismatch for certificate %s", certificate.CertificateNumber)
		return nil, ErrInvalidSignature
	}

	templateName := ""
	if certificate.Template != nil {
		templateName = certificate.Template.Name
	}

	return &Verification{
		CertificateNumber: certificate.CertificateNumber,
		TemplateName:      templateName,
		IssuedAt:          certificate.IssuedAt,
		Status:            certificate.Status,
		Data:              certificate.Data,
	}, nil
}

// Revoke is terminal, there is no way back to generated.
func (s *CertificateService) Revoke(ctx context.Context, id, ownerID string) (*model.Certificate, error) {
	certificate, err := s.certificates.Revoke(ctx, nil, id, ownerID, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificateNotFound
		}
		return nil, err
	}
	return certificate, nil
}
