package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go-resume-backend/config"
	"go-resume-backend/internal/delivery/http/response"
	"go-resume-backend/internal/domain"
	"go-resume-backend/pkg/auth"
	"go-resume-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware verifies the Supabase access token and installs the caller
// identity plus the raw token into the request context. The token is kept so
// store sessions can be scoped to the caller's row-level access policy.
func AuthMiddleware(jwksProvider *auth.Provider, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header required", nil)
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); ok {
				// HS256 - Use Secret
				if cfg.SupabaseJWTSecret == "" {
					return nil, fmt.Errorf("HS256 token received but SUPABASE_JWT_SECRET is not configured")
				}
				return []byte(cfg.SupabaseJWTSecret), nil
			}
			if _, ok := token.Method.(*jwt.SigningMethodRSA); ok {
				// RS256 - Use JWKS
				return jwksProvider.KeyFunc(token)
			}
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		})
		if err != nil || !token.Valid {
			logger.Log.Warn("Token validation failed", "error", err)
			response.Error(c, http.StatusUnauthorized, "Invalid token", nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Invalid claims", nil)
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			response.Error(c, http.StatusUnauthorized, "Token has no subject", nil)
			c.Abort()
			return
		}
		email, _ := claims["email"].(string)

		// Install identity on the request context so it survives the handoff
		// from gin handlers into usecases that only see context.Context.
		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, domain.KeyUserID, sub)
		ctx = context.WithValue(ctx, domain.KeyUserEmail, email)
		ctx = context.WithValue(ctx, domain.KeyAccessToken, tokenString)
		ctx = context.WithValue(ctx, domain.KeyClaims, map[string]interface{}(claims))
		c.Request = c.Request.WithContext(ctx)

		// Mirror into gin keys for handlers that use GetString
		c.Set(string(domain.KeyUserID), sub)
		c.Set(string(domain.KeyUserEmail), email)
		c.Set(string(domain.KeyAccessToken), tokenString)

		c.Next()
	}
}

// CredentialFromContext rebuilds the caller's store credential from what
// AuthMiddleware installed. Missing values yield an empty credential, which
// runs store sessions under the service role.
func CredentialFromContext(ctx context.Context) domain.Credential {
	cred := domain.Credential{}
	if token, ok := ctx.Value(domain.KeyAccessToken).(string); ok {
		cred.Token = token
	}
	if claims, ok := ctx.Value(domain.KeyClaims).(map[string]interface{}); ok {
		cred.Claims = claims
	}
	return cred
}
