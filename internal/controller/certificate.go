package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SeakMengs/SecCert/internal/service"
	"github.com/SeakMengs/SecCert/internal/util"
	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	*baseController
}

type generateRequest struct {
	TemplateID string         `json:"templateId" binding:"required,strNotEmpty"`
	Data       map[string]any `json:"data"`
}

func (cc CertificateController) Simulate(ctx *gin.Context) {
	var body generateRequest

	customer, ok := cc.mustAuthCustomer(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		cc.bindFailed(ctx, err)
		return
	}

	preview, err := cc.app.Service.Certificate.Simulate(ctx, body.TemplateID, body.Data, customer.ID)
	if err != nil {
		cc.respondError(ctx, err, "templateId")
		return
	}

	util.ResponseSuccess(ctx, preview)
}

// Generate serves both the api key route and the dashboard route, only the auth middleware differs.
func (cc CertificateController) Generate(ctx *gin.Context) {
	var body generateRequest

	customer, ok := cc.mustAuthCustomer(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		cc.bindFailed(ctx, err)
		return
	}

	certificate, err := cc.app.Service.Certificate.Generate(ctx, body.TemplateID, body.Data, customer.ID)
	if err != nil {
		cc.respondError(ctx, err, "templateId")
		return
	}

	util.ResponseCreated(ctx, "Certificate generated successfully", gin.H{
		"certificate": certificate,
	})
}

func (cc CertificateController) BatchGenerate(ctx *gin.Context) {
	type Request struct {
		TemplateID   string           `json:"templateId" binding:"required,strNotEmpty"`
		Certificates []map[string]any `json:"certificates"`
	}
	var body Request

	customer, ok := cc.mustAuthCustomer(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		cc.bindFailed(ctx, err)
		return
	}

	result, err := cc.app.Service.Certificate.BatchGenerate(ctx, body.TemplateID, body.Certificates, customer.ID)
	if err != nil {
		cc.respondError(ctx, err, "certificates")
		return
	}

	type itemError struct {
		Index int    `json:"index"`
		Error string `json:"error"`
	}
	errs := make([]itemError, 0, len(result.Errors))
	for _, e := range result.Errors {
		errs = append(errs, itemError{Index: e.Index, Error: e.Err.Error()})
	}

	util.ResponseCreated(ctx,
		fmt.Sprintf("Batch generation completed. %d successful, %d failed", len(result.Results), len(result.Errors)),
		gin.H{
			"results": result.Results,
			"errors":  errs,
		})
}

func (cc CertificateController) List(ctx *gin.Context) {
	type Request struct {
		Status string `form:"status" binding:"omitempty,oneof=draft generated issued revoked"`
		Page   int    `form:"page" binding:"omitempty,gte=1"`
		Limit  int    `form:"limit" binding:"omitempty,gte=1"`
	}
	var query Request

	customer, ok := cc.mustAuthCustomer(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBindQuery(&query); err != nil {
		cc.bindFailed(ctx, err)
		return
	}

	certificates, pagination, err := cc.app.Service.Certificate.List(ctx, customer.ID, service.ListCertificatesInput{
		Status: query.Status,
		Page:   query.Page,
		Limit:  query.Limit,
	})
	if err != nil {
		cc.respondError(ctx, err, "status")
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"certificates": certificates,
		"pagination":   pagination,
	})
}

func (cc CertificateController) Get(ctx *gin.Context) {
	customer, ok := cc.mustAuthCustomer(ctx)
	if !ok {
		return
	}

	certificate, err := cc.app.Service.Certificate.Get(ctx, ctx.Param("id"), customer.ID)
	if err != nil {
		cc.respondError(ctx, err, "id")
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"certificate": certificate,
	})
}

func (cc CertificateController) Download(ctx *gin.Context) {
	customer, ok := cc.mustAuthCustomer(ctx)
	if !ok {
		return
	}

	rc, size, certificate, err := cc.app.Service.Certificate.Open(ctx, ctx.Param("id"), customer.ID)
	if err != nil {
		cc.respondError(ctx, err, "id")
		return
	}
	defer rc.Close()

	ctx.DataFromReader(http.StatusOK, size, "application/pdf", rc, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s.pdf"`, certificate.CertificateNumber),
	})
}

func (cc CertificateController) Revoke(ctx *gin.Context) {
	customer, ok := cc.mustAuthCustomer(ctx)
	if !ok {
		return
	}

	certificate, err := cc.app.Service.Certificate.Revoke(ctx, ctx.Param("id"), customer.ID)
	if err != nil {
		cc.respondError(ctx, err, "id")
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"message":     "Certificate revoked successfully",
		"certificate": certificate,
	})
}

// Verify is public, every response carries the valid flag.
func (cc CertificateController) Verify(ctx *gin.Context) {
	verification, err := cc.app.Service.Certificate.Verify(ctx, ctx.Param("verificationToken"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCertificateNotFound):
			util.ResponseFailed(ctx, http.StatusNotFound, "Certificate not found", util.GenerateErrorMessages(err, "verificationToken"), gin.H{
				"valid": false,
			})
		case errors.Is(err, service.ErrInvalidSignature):
			util.ResponseFailed(ctx, http.StatusBadRequest, "Certificate signature is invalid", util.GenerateErrorMessages(err, "verificationToken"), gin.H{
				"valid": false,
			})
		default:
			cc.respondError(ctx, err, "verificationToken")
		}
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"valid":       true,
		"certificate": verification,
	})
}
