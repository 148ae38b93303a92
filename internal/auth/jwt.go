package auth

import (
	"errors"
	"time"

	"github.com/SeakMengs/SecCert/internal/config"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var ErrMalformedClaims = errors.New("invalid token: customer field is missing or malformed")

type JWT struct {
	logger    *zap.SugaredLogger
	jwtSecret string
	ttl       time.Duration
	now       func() time.Time
}

type JWTInterface interface {
	GenerateSessionToken(payload JWTPayload) (string, error)
	VerifyJwtToken(token string) (*JWTClaims, error)
}

func NewJwt(cfg config.AuthConfig, logger *zap.SugaredLogger) *JWT {
	// For unit test
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	return &JWT{
		jwtSecret: cfg.JWT_SECRET,
		logger:    logger,
		ttl:       ttl,
		now:       time.Now,
	}
}

// JWTPayload is a claim of identity only, account state is checked against the store on every request.
type JWTPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type JWTClaims struct {
	Customer JWTPayload `json:"customer"`
	IAT      int64      `json:"iat"`
	EXP      int64      `json:"exp"`
}

func (j JWT) GenerateSessionToken(payload JWTPayload) (string, error) {
	j.logger.Debugf("Generate session token for customer: %s", payload.ID)

	now := j.now()
	claims := jwt.MapClaims{
		"customer": payload,
		"iat":      now.Unix(),
		"exp":      now.Add(j.ttl).Unix(),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(j.jwtSecret))
}

func (j JWT) VerifyJwtToken(token string) (*JWTClaims, error) {
	claims := jwt.MapClaims{}
	parsedToken, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(j.jwtSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		j.logger.Debugf("Failed to verify jwt token. Error: %v", err)
		return nil, err
	}

	if !parsedToken.Valid {
		j.logger.Debug("Jwt token is not valid")
		return nil, errors.New("jwt token is not valid")
	}

	customer, ok := claims["customer"].(map[string]interface{})
	if !ok {
		return nil, ErrMalformedClaims
	}

	id, ok := customer["id"].(string)
	if !ok || id == "" {
		return nil, ErrMalformedClaims
	}
	email, _ := customer["email"].(string)
	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)

	return &JWTClaims{
		Customer: JWTPayload{
			ID:    id,
			Email: email,
		},
		IAT: int64(iat),
		EXP: int64(exp),
	}, nil
}
