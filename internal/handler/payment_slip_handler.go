package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skillport/institute-api/internal/service"
	appErrors "github.com/skillport/institute-api/pkg/errors"
	"github.com/skillport/institute-api/pkg/response"
)

// PaymentSlipHandler exposes slip upload (wizard step 3) and the admin
// review/download endpoints.
type PaymentSlipHandler struct {
	slips   *service.PaymentSlipService
	metrics *service.MetricsService
}

// NewPaymentSlipHandler constructs PaymentSlipHandler.
func NewPaymentSlipHandler(slips *service.PaymentSlipService, metrics *service.MetricsService) *PaymentSlipHandler {
	return &PaymentSlipHandler{slips: slips, metrics: metrics}
}

// Upload godoc
// @Summary Upload a proof-of-payment slip
// @Tags Payment Slips
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param file formData file true "Slip file (JPG, PNG or PDF, max 5MB)"
// @Param remarks formData string false "Optional remarks"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /enrollments/{id}/payment-slip [post]
func (h *PaymentSlipHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	upload := service.SlipUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Content:  file,
		Remarks:  c.PostForm("remarks"),
	}
	result, err := h.slips.Upload(c.Request.Context(), c.Param("id"), upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordStageTransition(string(result.Stage))
	response.Created(c, result)
}

// List godoc
// @Summary List uploaded slips for verification (admin)
// @Tags Payment Slips
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/payment-slips [get]
func (h *PaymentSlipHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	slips, pagination, err := h.slips.List(c.Request.Context(), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slips, pagination)
}

// DownloadURL godoc
// @Summary Issue a signed download link for a slip (admin)
// @Tags Payment Slips
// @Produce json
// @Param id path string true "Slip ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/payment-slips/{id}/download-url [get]
func (h *PaymentSlipHandler) DownloadURL(c *gin.Context) {
	token, expiresAt, err := h.slips.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"token": token, "expires_at": expiresAt}, nil)
}

// Download godoc
// @Summary Stream a slip file using a signed token
// @Tags Payment Slips
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Router /payment-slips/download [get]
func (h *PaymentSlipHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	download, err := h.slips.Download(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, download.Filename))
	c.DataFromReader(http.StatusOK, download.Size, download.MimeType, download.File, nil)
}
