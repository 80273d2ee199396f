package v1

import (
	"net/http"

	"github.com/billforge/billforge/internal/api/dto"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/service"
	"github.com/gin-gonic/gin"
)

type SettingsHandler struct {
	service service.SettingsService
	logger  *logger.Logger
}

func NewSettingsHandler(service service.SettingsService, logger *logger.Logger) *SettingsHandler {
	return &SettingsHandler{service: service, logger: logger}
}

// GetInvoiceSettings godoc
// GET /v1/settings/invoice
func (h *SettingsHandler) GetInvoiceSettings(c *gin.Context) {
	resp, err := h.service.GetInvoiceSettings(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateInvoiceSettings godoc
// PUT /v1/settings/invoice
func (h *SettingsHandler) UpdateInvoiceSettings(c *gin.Context) {
	var req dto.UpdateInvoiceSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateInvoiceSettings(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetCompanySettings godoc
// GET /v1/settings/company
func (h *SettingsHandler) GetCompanySettings(c *gin.Context) {
	resp, err := h.service.GetCompanySettings(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateCompanySettings godoc
// PUT /v1/settings/company
func (h *SettingsHandler) UpdateCompanySettings(c *gin.Context) {
	var req dto.UpdateCompanySettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateCompanySettings(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetEmailSettings godoc
// GET /v1/settings/email
func (h *SettingsHandler) GetEmailSettings(c *gin.Context) {
	resp, err := h.service.GetEmailSettings(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateEmailSettings godoc
// PUT /v1/settings/email
func (h *SettingsHandler) UpdateEmailSettings(c *gin.Context) {
	var req dto.UpdateEmailSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("invalid request payload").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateEmailSettings(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
