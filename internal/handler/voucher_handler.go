package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillport/institute-api/internal/service"
	"github.com/skillport/institute-api/pkg/response"
)

// VoucherHandler exposes the payment-voucher endpoints (wizard step 2).
type VoucherHandler struct {
	vouchers *service.VoucherService
	metrics  *service.MetricsService
}

// NewVoucherHandler constructs VoucherHandler.
func NewVoucherHandler(vouchers *service.VoucherService, metrics *service.MetricsService) *VoucherHandler {
	return &VoucherHandler{vouchers: vouchers, metrics: metrics}
}

// View godoc
// @Summary View the payment voucher for an enrollment
// @Tags Vouchers
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/{id}/voucher [get]
func (h *VoucherHandler) View(c *gin.Context) {
	view, err := h.vouchers.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Confirm godoc
// @Summary Confirm the voucher and advance to the upload step
// @Tags Vouchers
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /enrollments/{id}/voucher/confirm [post]
func (h *VoucherHandler) Confirm(c *gin.Context) {
	view, err := h.vouchers.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordStageTransition(string(view.Stage))
	response.JSON(c, http.StatusOK, view, nil)
}

// PDF godoc
// @Summary Download the printable voucher slip
// @Tags Vouchers
// @Produce application/pdf
// @Param id path string true "Enrollment ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /enrollments/{id}/voucher/pdf [get]
func (h *VoucherHandler) PDF(c *gin.Context) {
	pdf, err := h.vouchers.RenderPDF(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="voucher-%s.pdf"`, c.Param("id")))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
