package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tradebridge/tradebridge-backend/internal/http/response"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/apperr"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/logger"
	"github.com/tradebridge/tradebridge-backend/internal/pkg/principal"
)

// authClaims is the payload issued by the external auth system. The
// negotiation backend verifies the signature but never issues tokens.
type authClaims struct {
	Role            string `json:"role"`
	BusinessOwnerID uint   `json:"businessOwnerId"`
	BuyerID         uint   `json:"buyerId,omitempty"`
	BusinessName    string `json:"businessName"`
	Email           string `json:"email"`
	jwt.RegisteredClaims
}

// Auth verifies the bearer token and installs the principal into the
// request context.
func Auth(secret string, baseLog *logger.Logger) gin.HandlerFunc {
	log := baseLog.With("middleware", "auth")
	key := []byte(secret)
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Fail(c, apperr.Authorization("missing_token", "missing bearer token"))
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return key, nil
		})
		if err != nil || !token.Valid {
			log.Warn("token rejected", "path", c.FullPath(), "error", err)
			response.Fail(c, apperr.Authorization("invalid_token", "invalid or expired token"))
			return
		}

		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			response.Fail(c, apperr.Authorization("invalid_token", "token subject is not a user id"))
			return
		}

		p := &principal.Principal{
			UserID:          userID,
			Role:            claims.Role,
			BusinessOwnerID: claims.BusinessOwnerID,
			BuyerID:         claims.BuyerID,
			BusinessName:    claims.BusinessName,
			Email:           claims.Email,
		}
		c.Request = c.Request.WithContext(principal.With(c.Request.Context(), p))
		c.Next()
	}
}

// RequireRole gates a route group to specific roles after Auth ran.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principal.Get(c.Request.Context())
		if p == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		for _, role := range roles {
			if p.Role == role {
				c.Next()
				return
			}
		}
		response.Fail(c, apperr.Authorization("role_not_allowed", "role %q may not access this resource", p.Role))
	}
}
