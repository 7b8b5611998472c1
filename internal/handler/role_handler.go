package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/notioncoach/notioncoach-api/internal/middleware"
	"github.com/notioncoach/notioncoach-api/internal/service"
	appErrors "github.com/notioncoach/notioncoach-api/pkg/errors"
	"github.com/notioncoach/notioncoach-api/pkg/response"
)

// RoleHandler serves the self-service role selection endpoint.
type RoleHandler struct {
	service   *service.RoleService
	validator *validator.Validate
}

// NewRoleHandler creates a new role handler.
func NewRoleHandler(svc *service.RoleService, validate *validator.Validate) *RoleHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &RoleHandler{service: svc, validator: validate}
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// SetRole godoc
// @Summary Choose account role
// @Description Set the caller's role once; a role already chosen cannot be changed
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body setRoleRequest true "Role payload"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /api/me/role [put]
func (h *RoleHandler) SetRole(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "role is required"))
		return
	}

	meta := service.AuditMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
	if err := h.service.SetRole(c.Request.Context(), claims.PrincipalID(), req.Role, meta); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"success": true})
}
