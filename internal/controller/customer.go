package controller

import (
	"github.com/SeakMengs/SecCert/internal/service"
	"github.com/SeakMengs/SecCert/internal/util"
	"github.com/gin-gonic/gin"
)

type CustomerController struct {
	*baseController
}

func (cc CustomerController) Update(ctx *gin.Context) {
	type Request struct {
		CompanyName   *string `json:"companyName" binding:"omitempty,strNotEmpty,cmax=255"`
		ContactPerson *string `json:"contactPerson" binding:"omitempty,cmax=255"`
		Phone         *string `json:"phone" binding:"omitempty,cmax=50"`
		IsActive      *bool   `json:"isActive"`
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

	updated, err := cc.app.Service.Customer.UpdateProfile(ctx, customer.ID, ctx.Param("id"), service.CustomerPatch{
		CompanyName:   body.CompanyName,
		ContactPerson: body.ContactPerson,
		Phone:         body.Phone,
		IsActive:      body.IsActive,
	})
	if err != nil {
		cc.respondError(ctx, err, "id")
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"customer": customerView(updated),
	})
}

// RegenerateCredentials returns the new secret once, only its hash is stored.
func (cc CustomerController) RegenerateCredentials(ctx *gin.Context) {
	customer, ok := cc.mustAuthCustomer(ctx)
	if !ok {
		return
	}

	creds, err := cc.app.Service.Customer.RegenerateCredentials(ctx, customer.ID)
	if err != nil {
		cc.respondError(ctx, err, "id")
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"apiKey":    creds.Key,
		"apiSecret": creds.Secret,
	})
}
