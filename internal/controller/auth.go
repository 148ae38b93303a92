package controller

import (
	"github.com/SeakMengs/SecCert/internal/model"
	"github.com/SeakMengs/SecCert/internal/service"
	"github.com/SeakMengs/SecCert/internal/util"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	*baseController
}

func (ac AuthController) Register(ctx *gin.Context) {
	type Request struct {
		CompanyName   string `json:"companyName" binding:"required,strNotEmpty,cmax=255"`
		Email         string `json:"email" binding:"required,email,max=255"`
		Password      string `json:"password" binding:"required,min=8,max=128"`
		ContactPerson string `json:"contactPerson" binding:"omitempty,cmax=255"`
		Phone         string `json:"phone" binding:"omitempty,cmax=50"`
	}
	var body Request

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ac.bindFailed(ctx, err)
		return
	}

	result, err := ac.app.Service.Customer.Register(ctx, service.RegisterInput{
		CompanyName:   body.CompanyName,
		Email:         body.Email,
		Password:      body.Password,
		ContactPerson: body.ContactPerson,
		Phone:         body.Phone,
	})
	if err != nil {
		ac.respondError(ctx, err, "email")
		return
	}

	util.ResponseCreated(ctx, "Customer registered successfully", gin.H{
		"customer": gin.H{
			"id":          result.Customer.ID,
			"companyName": result.Customer.CompanyName,
			"email":       result.Customer.Email,
			"apiKey":      result.Customer.APIKey,
			"apiSecret":   result.APISecret,
		},
		"token": result.Token,
	})
}

func (ac AuthController) Login(ctx *gin.Context) {
	type Request struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	var body Request

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ac.bindFailed(ctx, err)
		return
	}

	customer, token, err := ac.app.Service.Customer.Login(ctx, body.Email, body.Password)
	if err != nil {
		ac.respondError(ctx, err, "email")
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"customer": customerView(customer),
		"token":    token,
	})
}

func (ac AuthController) Profile(ctx *gin.Context) {
	customer, ok := ac.mustAuthCustomer(ctx)
	if !ok {
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"customer": customerView(customer),
	})
}

// customerView is the public shape of a customer, secrets never leave through it.
func customerView(c *model.Customer) gin.H {
	return gin.H{
		"id":            c.ID,
		"companyName":   c.CompanyName,
		"email":         c.Email,
		"apiKey":        c.APIKey,
		"isActive":      c.IsActive,
		"contactPerson": c.ContactPerson,
		"phone":         c.Phone,
	}
}
