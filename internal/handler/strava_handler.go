package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/notioncoach/notioncoach-api/internal/strava"
	appErrors "github.com/notioncoach/notioncoach-api/pkg/errors"
	"github.com/notioncoach/notioncoach-api/pkg/response"
)

// StravaHandler completes the Strava OAuth redirect flow.
type StravaHandler struct {
	exchanger strava.TokenExchanger
	logger    *zap.Logger
}

// NewStravaHandler creates a new Strava callback handler.
func NewStravaHandler(exchanger strava.TokenExchanger, logger *zap.Logger) *StravaHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StravaHandler{exchanger: exchanger, logger: logger}
}

// Callback godoc
// @Summary Strava OAuth callback
// @Description Exchange the authorization code and forward the token to the success page
// @Tags Integrations
// @Param code query string true "Authorization code"
// @Success 302
// @Failure 400 {object} response.ErrorBody
// @Router /api/strava/callback [get]
func (h *StravaHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "Missing authorization code"))
		return
	}

	token, err := h.exchanger.Exchange(c.Request.Context(), code)
	if err != nil {
		h.logger.Error("strava token exchange failed", zap.Error(err))
		response.Error(c, appErrors.Upstream(err))
		return
	}

	target := "/strava/success?access_token=" + url.QueryEscape(token.AccessToken)
	c.Redirect(http.StatusFound, target)
}
