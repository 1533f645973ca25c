package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/logger"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/utils"
)

type featureResolver interface {
	HasFeature(ctx context.Context, principal *user.User, feature string) (bool, error)
}

// FeatureMiddleware gates routes on a resolved entitlement. It must run after
// RequireAuth.
type FeatureMiddleware struct {
	entitlements featureResolver
	logger       logger.Interface
}

func NewFeatureMiddleware(entitlements featureResolver, logger logger.Interface) *FeatureMiddleware {
	return &FeatureMiddleware{
		entitlements: entitlements,
		logger:       logger,
	}
}

func (m *FeatureMiddleware) RequireFeature(feature string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := c.Get(constants.ContextKeyPrincipal)
		u, _ := principal.(*user.User)
		if !ok || u == nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthorized)
			c.Abort()
			return
		}

		granted, err := m.entitlements.HasFeature(c.Request.Context(), u, feature)
		if err != nil {
			m.logger.Errorw("failed to resolve feature", "user_id", u.ID(), "feature", feature, "error", err)
			utils.ErrorResponse(c, http.StatusInternalServerError, constants.ErrMsgInternalServerError)
			c.Abort()
			return
		}
		if !granted {
			m.logger.Infow("principal lacks required feature",
				"user_id", u.ID(),
				"required_feature", feature,
			)
			utils.ErrorResponse(c, http.StatusForbidden, fmt.Sprintf("feature not available: %s", feature))
			c.Abort()
			return
		}

		c.Next()
	}
}
