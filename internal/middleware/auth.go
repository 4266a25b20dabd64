package middleware

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"go.uber.org/zap"

	"Sator.eden/internal/models"
	"Sator.eden/internal/utils"
)

// Auth0Config stores necessary Auth0 details for token validation.
type Auth0Config struct {
	Issuer   string
	Audience string
}

// NewAuth0Middleware validates RS256 bearer tokens issued by the Auth0
// tenant. Signing keys are fetched from the issuer's JWKS and cached.
func NewAuth0Middleware(cfg Auth0Config, logger *zap.Logger) (func(http.Handler) http.Handler, error) {
	issuerURL, err := url.Parse(cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("invalid Auth0 issuer %q: %w", cfg.Issuer, err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)
	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{cfg.Audience},
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the JWT validator: %w", err)
	}

	mw := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn("JWT authentication failed",
				zap.String("path", r.URL.Path),
				zap.String("request_id", w.Header().Get(utils.RequestIDHeader)),
				zap.Error(err),
			)
			utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeUnauthorized, "Invalid or missing bearer token", nil, http.StatusUnauthorized))
		}),
	)
	return mw.CheckJWT, nil
}
