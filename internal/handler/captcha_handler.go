package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/notioncoach/notioncoach-api/internal/captcha"
	appErrors "github.com/notioncoach/notioncoach-api/pkg/errors"
	"github.com/notioncoach/notioncoach-api/pkg/response"
)

// CaptchaHandler verifies reCAPTCHA tokens submitted by the signup flow.
type CaptchaHandler struct {
	verifier  captcha.Verifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCaptchaHandler creates a new captcha handler.
func NewCaptchaHandler(verifier captcha.Verifier, validate *validator.Validate, logger *zap.Logger) *CaptchaHandler {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaptchaHandler{verifier: verifier, validator: validate, logger: logger}
}

type verifyCaptchaRequest struct {
	Token string `json:"token" validate:"required"`
}

// Verify godoc
// @Summary Verify captcha token
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body verifyCaptchaRequest true "Captcha payload"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} response.ErrorBody
// @Router /api/verify-recaptcha [post]
func (h *CaptchaHandler) Verify(c *gin.Context) {
	var req verifyCaptchaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	ok, err := h.verifier.Verify(c.Request.Context(), req.Token)
	if err != nil {
		h.logger.Error("captcha verification failed", zap.Error(err))
		response.Error(c, appErrors.Upstream(err))
		return
	}
	// A rejected token is a clean answer, not an error.
	response.OK(c, gin.H{"success": ok})
}
