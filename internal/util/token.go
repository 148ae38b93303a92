package util

import (
	"errors"
	"strings"

	"github.com/SeakMengs/SecCert/internal/constant"
	"github.com/gin-gonic/gin"
)

var ErrNoAuthorizationHeader = errors.New("no authorization header specified")

// Read Authorization header from the request and return the token type and token
func ReadAuthorizationHeader(ctx *gin.Context) (string, string, error) {
	header := ctx.GetHeader("Authorization")
	if header == "" {
		return "", "", ErrNoAuthorizationHeader
	}

	headerParts := strings.SplitN(header, " ", 2)
	if len(headerParts) != 2 {
		return "", "", errors.New("wrong authorization header format")
	}

	tokenType := strings.ToUpper(headerParts[0])
	token := strings.TrimSpace(headerParts[1])

	if token == "" {
		return "", "", errors.New("token is empty")
	}

	return tokenType, token, nil
}

// Read Bearer token from the request Authorization header and return the token
func ReadBearerToken(ctx *gin.Context) (string, error) {
	tokenType, token, err := ReadAuthorizationHeader(ctx)
	if err != nil {
		return "", err
	}

	if !strings.EqualFold(tokenType, "BEARER") {
		return "", errors.New("invalid token type; expected 'Bearer'")
	}

	return token, nil
}

// ReadAPICredentials returns the X-API-Key and X-API-Secret headers.
func ReadAPICredentials(ctx *gin.Context) (string, string) {
	return strings.TrimSpace(ctx.GetHeader(constant.HeaderAPIKey)), strings.TrimSpace(ctx.GetHeader(constant.HeaderAPISecret))
}
