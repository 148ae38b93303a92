package controller

import (
	"github.com/SeakMengs/SecCert/internal/model"
	"github.com/SeakMengs/SecCert/internal/service"
	"github.com/SeakMengs/SecCert/internal/util"
	"github.com/gin-gonic/gin"
)

type TemplateController struct {
	*baseController
}

func (tc TemplateController) Create(ctx *gin.Context) {
	type Request struct {
		Name        string                `json:"name" binding:"required,strNotEmpty,cmax=255"`
		Description string                `json:"description"`
		Content     model.TemplateContent `json:"content"`
		// Omit to derive from content.fields
		Placeholders []string      `json:"placeholders" binding:"omitempty,dive,strNotEmpty"`
		Styling      model.JSONMap `json:"styling"`
	}
	var body Request

	customer, ok := tc.mustAuthCustomer(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		tc.bindFailed(ctx, err)
		return
	}

	template, err := tc.app.Service.Template.Create(ctx, customer.ID, service.CreateTemplateInput{
		Name:         body.Name,
		Description:  body.Description,
		Content:      body.Content,
		Placeholders: body.Placeholders,
		Styling:      body.Styling,
	})
	if err != nil {
		tc.respondError(ctx, err, "template")
		return
	}

	util.ResponseCreated(ctx, "Template created successfully", gin.H{
		"template": template,
	})
}

func (tc TemplateController) List(ctx *gin.Context) {
	customer, ok := tc.mustAuthCustomer(ctx)
	if !ok {
		return
	}

	templates, err := tc.app.Service.Template.List(ctx, customer.ID)
	if err != nil {
		tc.respondError(ctx, err, "template")
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"templates": templates,
	})
}

func (tc TemplateController) Get(ctx *gin.Context) {
	customer, ok := tc.mustAuthCustomer(ctx)
	if !ok {
		return
	}

	template, err := tc.app.Service.Template.Get(ctx, ctx.Param("id"), customer.ID)
	if err != nil {
		tc.respondError(ctx, err, "id")
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"template": template,
	})
}

func (tc TemplateController) Update(ctx *gin.Context) {
	type Request struct {
		Name         *string                `json:"name" binding:"omitempty,strNotEmpty,cmax=255"`
		Description  *string                `json:"description"`
		Content      *model.TemplateContent `json:"content"`
		Placeholders *[]string              `json:"placeholders" binding:"omitempty,dive,strNotEmpty"`
		Styling      model.JSONMap          `json:"styling"`
		IsActive     *bool                  `json:"isActive"`
	}
	var body Request

	customer, ok := tc.mustAuthCustomer(ctx)
	if !ok {
		return
	}

	if err := ctx.ShouldBindJSON(&body); err != nil {
		tc.bindFailed(ctx, err)
		return
	}

	template, err := tc.app.Service.Template.Update(ctx, ctx.Param("id"), customer.ID, service.TemplatePatch{
		Name:         body.Name,
		Description:  body.Description,
		Content:      body.Content,
		Placeholders: body.Placeholders,
		Styling:      body.Styling,
		IsActive:     body.IsActive,
	})
	if err != nil {
		tc.respondError(ctx, err, "id")
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"template": template,
	})
}

func (tc TemplateController) Delete(ctx *gin.Context) {
	customer, ok := tc.mustAuthCustomer(ctx)
	if !ok {
		return
	}

	if err := tc.app.Service.Template.Delete(ctx, ctx.Param("id"), customer.ID); err != nil {
		tc.respondError(ctx, err, "id")
		return
	}

	util.ResponseSuccess(ctx, gin.H{
		"message": "Template deleted successfully",
	})
}
