package v1

import (
	"net/http"

	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/service"
	"github.com/billforge/billforge/internal/types"
	"github.com/gin-gonic/gin"
)

type ReceiptHandler struct {
	service service.ReceiptService
	logger  *logger.Logger
}

func NewReceiptHandler(service service.ReceiptService, logger *logger.Logger) *ReceiptHandler {
	return &ReceiptHandler{service: service, logger: logger}
}

// Get godoc
// GET /v1/receipts/:id
func (h *ReceiptHandler) Get(c *gin.Context) {
	resp, err := h.service.GetReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// GET /v1/receipts
func (h *ReceiptHandler) List(c *gin.Context) {
	var filter types.ReceiptFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListReceipts(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
