package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/infrastructure/auth"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/utils"
)

const (
	AuthViaAPIKey = "api_key"
	AuthViaJWT    = "jwt"
)

type principalStore interface {
	GetByAPIKeyHash(ctx context.Context, keyHash string) (*user.User, error)
	GetByUUID(ctx context.Context, uuid string) (*user.User, error)
}

type tokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware resolves the principal from an X-API-Key header or, failing
// that, a bearer token.
type AuthMiddleware struct {
	users    principalStore
	verifier tokenVerifier
	logger   logger.Interface
}

func NewAuthMiddleware(users principalStore, verifier tokenVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		users:    users,
		verifier: verifier,
		logger:   logger,
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, via, err := m.resolve(c)
		if err != nil {
			m.logger.Errorw("failed to resolve principal", "error", err)
			utils.ErrorResponse(c, http.StatusInternalServerError, constants.ErrMsgInternalServerError)
			c.Abort()
			return
		}
		if principal == nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthorized)
			c.Abort()
			return
		}

		setPrincipal(c, principal, via)
		c.Next()
	}
}

// OptionalAuth attaches a principal when the credentials check out and lets
// the request through anonymously otherwise.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, via, err := m.resolve(c)
		if err != nil {
			m.logger.Errorw("failed to resolve principal", "error", err)
			utils.ErrorResponse(c, http.StatusInternalServerError, constants.ErrMsgInternalServerError)
			c.Abort()
			return
		}
		if principal != nil {
			setPrincipal(c, principal, via)
		}

		c.Next()
	}
}

// resolve returns a nil principal for missing or invalid credentials. The
// error is reserved for lookup failures.
func (m *AuthMiddleware) resolve(c *gin.Context) (*user.User, string, error) {
	ctx := c.Request.Context()

	if key := strings.TrimSpace(c.GetHeader(constants.HeaderXAPIKey)); key != "" {
		u, err := m.users.GetByAPIKeyHash(ctx, auth.HashAPIKey(key))
		if err != nil {
			return nil, "", err
		}
		if u != nil && u.IsActive() {
			return u, AuthViaAPIKey, nil
		}
		m.logger.Debugw("api key rejected", "client_ip", c.ClientIP())
	}

	token := bearerToken(c.GetHeader(constants.HeaderAuthorization))
	if token == "" {
		return nil, "", nil
	}

	claims, err := m.verifier.Verify(token)
	if err != nil {
		m.logger.Debugw("failed to verify token", "error", err)
		return nil, "", nil
	}

	u, err := m.users.GetByUUID(ctx, claims.UserUUID)
	if err != nil {
		return nil, "", err
	}
	if u == nil || !u.IsActive() {
		return nil, "", nil
	}

	return u, AuthViaJWT, nil
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func setPrincipal(c *gin.Context, principal *user.User, via string) {
	c.Set(constants.ContextKeyPrincipal, principal)
	c.Set(constants.ContextKeyUserID, principal.ID())
	c.Set(constants.ContextKeyAuthVia, via)
}
