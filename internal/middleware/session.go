package middleware

import (
	"errors"
	"net/http"

	"github.com/SeakMengs/SecCert/internal/constant"
	"github.com/SeakMengs/SecCert/internal/service"
	"github.com/SeakMengs/SecCert/internal/util"
	"github.com/gin-gonic/gin"
)

// SessionAuthMiddleware accepts a bearer session token. The account is looked up again on every request,
// so deactivation takes effect before the token expires.
func (m Middleware) SessionAuthMiddleware(ctx *gin.Context) {
	token, err := util.ReadBearerToken(ctx)
	if err != nil {
		message := "Invalid authentication token"
		if errors.Is(err, util.ErrNoAuthorizationHeader) {
			message = "Authentication required"
		}
		m.app.Logger.Debugf("Failed to read token: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, message, util.GenerateErrorMessages(err, "authorization"), nil)
		return
	}

	customer, err := m.app.Service.Customer.AuthenticateSession(ctx, token)
	if err != nil {
		m.app.Logger.Debugf("Failed to authenticate session: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, "Invalid authentication token", util.GenerateErrorMessages(err, "authorization"), nil)
		return
	}

	ctx.Set(constant.CtxCustomerKey, customer)
	ctx.Next()
}

// APIKeyAuthMiddleware authenticates machine clients with the X-API-Key and X-API-Secret headers.
func (m Middleware) APIKeyAuthMiddleware(ctx *gin.Context) {
	key, secret := util.ReadAPICredentials(ctx)

	customer, err := m.app.Service.Customer.AuthenticateAPIKey(ctx, key, secret)
	if err != nil {
		message := "Invalid API credentials"
		if errors.Is(err, service.ErrAPICredentialsRequired) {
			message = "API credentials required"
		}
		m.app.Logger.Debugf("Failed to authenticate api key: %v", err)
		util.ResponseFailed(ctx, http.StatusUnauthorized, message, util.GenerateErrorMessages(err, "apiKey"), nil)
		return
	}

	ctx.Set(constant.CtxCustomerKey, customer)
	ctx.Next()
}
