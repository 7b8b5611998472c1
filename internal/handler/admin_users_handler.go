package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/notioncoach/notioncoach-api/internal/middleware"
	"github.com/notioncoach/notioncoach-api/internal/models"
	"github.com/notioncoach/notioncoach-api/internal/service"
	appErrors "github.com/notioncoach/notioncoach-api/pkg/errors"
	"github.com/notioncoach/notioncoach-api/pkg/response"
)

// AdminUsersHandler serves the admin user-directory endpoints.
type AdminUsersHandler struct {
	service   *service.AdminUsersService
	validator *validator.Validate
}

// NewAdminUsersHandler creates a new admin users handler.
func NewAdminUsersHandler(svc *service.AdminUsersService, validate *validator.Validate) *AdminUsersHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &AdminUsersHandler{service: svc, validator: validate}
}

// List godoc
// @Summary List users
// @Description Paginated, sorted, filtered directory listing with population statistics
// @Tags Admin
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param sortBy query string false "Sort field (name, email, created_at, last_sign_in)"
// @Param sortOrder query string false "Sort direction (asc, desc)"
// @Param role query string false "Role filter"
// @Param search query string false "Search term"
// @Success 200 {object} models.AdminUsersResponse
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /api/admin/users [get]
func (h *AdminUsersHandler) List(c *gin.Context) {
	if _, err := h.requireAdmin(c); err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.service.List(c.Request.Context(), parseListQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, resp)
}

// deleteUserRequest is the delete endpoint payload.
type deleteUserRequest struct {
	UserIDToDelete string `json:"userIdToDelete" validate:"required"`
}

// Delete godoc
// @Summary Delete user
// @Description Delete a principal from the directory; admin accounts are protected
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body deleteUserRequest true "Deletion payload"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /api/admin/users [delete]
func (h *AdminUsersHandler) Delete(c *gin.Context) {
	claims, err := h.requireAdmin(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	var req deleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "userIdToDelete is required"))
		return
	}

	meta := service.AuditMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
	if err := h.service.Delete(c.Request.Context(), claims.PrincipalID(), req.UserIDToDelete, meta); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"success": true})
}

// Export godoc
// @Summary Export users
// @Description Download the current listing as CSV or PDF
// @Tags Admin
// @Produce octet-stream
// @Param format query string true "Export format (csv, pdf)"
// @Success 200 {file} binary
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /api/admin/users/export [get]
func (h *AdminUsersHandler) Export(c *gin.Context) {
	if _, err := h.requireAdmin(c); err != nil {
		response.Error(c, err)
		return
	}

	format := c.DefaultQuery("format", "csv")
	result, err := h.service.Export(c.Request.Context(), parseListQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Bytes)
}

// requireAdmin runs the endpoint-level authorization: a valid session, then
// an allow-list re-check through the directory.
func (h *AdminUsersHandler) requireAdmin(c *gin.Context) (*models.SessionClaims, error) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := h.service.AuthorizeAdmin(c.Request.Context(), claims.PrincipalID()); err != nil {
		return nil, err
	}
	return claims, nil
}

// parseListQuery reads the query spec from the URL, leaving bound
// enforcement to the service.
func parseListQuery(c *gin.Context) models.ListQuery {
	q := models.ListQuery{
		SortBy:     c.DefaultQuery("sortBy", "created_at"),
		SortOrder:  c.DefaultQuery("sortOrder", "desc"),
		RoleFilter: c.Query("role"),
		Search:     c.Query("search"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		q.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil {
		q.Limit = limit
	}
	return q
}
