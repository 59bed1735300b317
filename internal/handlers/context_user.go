package handlers

import (
	"net/http"

	"github.com/ememohq/ememo_backend/internal/core/domain"
	portssvc "github.com/ememohq/ememo_backend/internal/core/ports/services"
	"github.com/ememohq/ememo_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// currentUser resolves the authenticated user's full record. On failure it
// writes the error response and returns false; callers just return.
func currentUser(c *gin.Context, userService portssvc.UserSvcFacade) (*domain.User, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return nil, false
	}

	user, err := userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		// The token subject no longer resolves to an active user.
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return nil, false
	}
	return user, true
}
