package handlers

import (
	"net/http"

	"github.com/ememohq/ememo_backend/internal/core/domain"
	portssvc "github.com/ememohq/ememo_backend/internal/core/ports/services"
	"github.com/ememohq/ememo_backend/internal/dto"

	"github.com/gin-gonic/gin"
)

// permissionHandler reports the caller's role and effective permissions.
type permissionHandler struct {
	userService portssvc.UserSvcFacade
}

func newPermissionHandler(us portssvc.UserSvcFacade) *permissionHandler {
	return &permissionHandler{userService: us}
}

// registerPermissionRoutes registers the permissions route.
func registerPermissionRoutes(rg *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newPermissionHandler(userService)
	rg.GET("/permissions", h.getPermissions)
}

// getPermissions godoc
// @Summary Get the caller's permissions
// @Description Returns the caller's role and the permissions it grants
// @Tags permissions
// @Produce  json
// @Success 200 {object} dto.PermissionsResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /permissions [get]
func (h *permissionHandler) getPermissions(c *gin.Context) {
	user, ok := currentUser(c, h.userService)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.PermissionsResponse{
		Role:        user.Role,
		Permissions: domain.PermissionsForRole(user.Role),
	})
}
