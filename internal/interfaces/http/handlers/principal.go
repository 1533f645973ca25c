package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/lukekerwin/the-spreadsheet-backend/internal/domain/user"
	"github.com/lukekerwin/the-spreadsheet-backend/internal/shared/constants"
)

// principalFrom returns the user the auth middleware resolved, or nil for an
// anonymous request.
func principalFrom(c *gin.Context) *user.User {
	v, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return nil
	}
	principal, _ := v.(*user.User)
	return principal
}
