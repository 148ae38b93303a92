package controller

import (
	"github.com/SeakMengs/SecCert/internal/util"
	"github.com/gin-gonic/gin"
)

type HealthController struct {
	*baseController
}

func (hc HealthController) Health(ctx *gin.Context) {
	util.ResponseSuccess(ctx, gin.H{
		"status":  "ok",
		"service": util.GetAppName(),
	})
}
