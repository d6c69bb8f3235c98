package handler

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillport/institute-api/internal/models"
	"github.com/skillport/institute-api/internal/service"
	"github.com/skillport/institute-api/pkg/storage"
)

type slipStoreStub struct {
	slips map[string]models.PaymentSlip
}

func (s *slipStoreStub) Create(ctx context.Context, slip *models.PaymentSlip) error {
	if s.slips == nil {
		s.slips = make(map[string]models.PaymentSlip)
	}
	slip.ID = fmt.Sprintf("slip-%d", len(s.slips)+1)
	s.slips[slip.ID] = *slip
	return nil
}

func (s *slipStoreStub) FindByID(ctx context.Context, id string) (*models.PaymentSlip, error) {
	if slip, ok := s.slips[id]; ok {
		return &slip, nil
	}
	return nil, sql.ErrNoRows
}

func (s *slipStoreStub) FindByEnrollment(ctx context.Context, enrollmentID string) (*models.PaymentSlip, error) {
	for _, slip := range s.slips {
		if slip.EnrollmentID == enrollmentID {
			return &slip, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *slipStoreStub) List(ctx context.Context, page, size int) ([]models.PaymentSlip, int, error) {
	var list []models.PaymentSlip
	for _, slip := range s.slips {
		list = append(list, slip)
	}
	return list, len(list), nil
}

func newSlipHandler(t *testing.T) *PaymentSlipHandler {
	t.Helper()
	repo := &enrollmentRepoStub{enrollments: map[string]models.Enrollment{
		"ENR-493027": {ID: "ENR-493027", Stage: models.StageUpload, VoucherGenerated: true},
	}}
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Minute)
	svc := service.NewPaymentSlipService(&slipStoreStub{}, repo, store, signer, nil, zap.NewNop(), service.PaymentSlipServiceConfig{})
	return NewPaymentSlipHandler(svc, service.NewMetricsService())
}

func multipartUpload(t *testing.T, field, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func uploadSlip(t *testing.T, h *PaymentSlipHandler, enrollmentID, filename, contentType string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, formType := multipartUpload(t, "file", filename, contentType, content)
	req, err := http.NewRequest(http.MethodPost, "/enrollments/"+enrollmentID+"/payment-slip", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", formType)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: enrollmentID}}
	h.Upload(c)
	return w
}

func TestPaymentSlipHandlerUpload(t *testing.T) {
	h := newSlipHandler(t)

	w := uploadSlip(t, h, "ENR-493027", "proof.pdf", "application/pdf", bytes.Repeat([]byte("a"), 2048))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"stage":"DONE"`)
}

func TestPaymentSlipHandlerUploadRejectsBadType(t *testing.T) {
	h := newSlipHandler(t)

	w := uploadSlip(t, h, "ENR-493027", "notes.txt", "text/plain", []byte("hello"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Only JPG, PNG, and PDF files are allowed")
}

func TestPaymentSlipHandlerUploadRequiresFile(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newSlipHandler(t)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/enrollments/ENR-493027/payment-slip", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "ENR-493027"}}

	h.Upload(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
