package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillport/institute-api/internal/dto"
	"github.com/skillport/institute-api/internal/models"
	"github.com/skillport/institute-api/internal/service"
	"github.com/skillport/institute-api/pkg/response"
)

type enrollmentRepoStub struct {
	enrollments map[string]models.Enrollment
}

func (s *enrollmentRepoStub) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, int, error) {
	return nil, 0, nil
}

func (s *enrollmentRepoStub) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if e, ok := s.enrollments[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (s *enrollmentRepoStub) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if s.enrollments == nil {
		s.enrollments = make(map[string]models.Enrollment)
	}
	s.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (s *enrollmentRepoStub) MarkVoucherGenerated(ctx context.Context, id string, stage models.EnrollmentStage) error {
	return nil
}

func (s *enrollmentRepoStub) MarkSlipUploaded(ctx context.Context, id string, stage models.EnrollmentStage) error {
	return nil
}

type courseReaderStub struct{}

func (courseReaderStub) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if id != "crs-1" {
		return nil, sql.ErrNoRows
	}
	return &models.Course{ID: "crs-1", Title: "Web Development Bootcamp", Fee: 45000, Status: models.CourseStatusActive}, nil
}

func newEnrollmentHandler(repo *enrollmentRepoStub) *EnrollmentHandler {
	svc := service.NewEnrollmentService(repo, courseReaderStub{}, nil, zap.NewNop())
	return NewEnrollmentHandler(svc, service.NewMetricsService())
}

func postJSON(t *testing.T, h gin.HandlerFunc, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	h(c)
	return w
}

func TestEnrollmentHandlerCreate(t *testing.T) {
	repo := &enrollmentRepoStub{}
	h := newEnrollmentHandler(repo)

	w := postJSON(t, h.Create, "/enrollments", dto.EnrollmentFormRequest{
		FullName: "Ayesha Khan",
		Email:    "ayesha@example.com",
		Phone:    "03001234567",
		Level:    "Matric",
		CourseID: "crs-1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, string(models.StageVoucher), data["stage"])
	assert.Regexp(t, `^ENR-\d{6}$`, data["id"])
}

func TestEnrollmentHandlerCreateValidationFailure(t *testing.T) {
	h := newEnrollmentHandler(&enrollmentRepoStub{})

	w := postJSON(t, h.Create, "/enrollments", dto.EnrollmentFormRequest{
		FullName: "Ayesha Khan",
		Email:    "ayesha@example.com",
		Phone:    "123",
		Level:    "Matric",
		CourseID: "crs-1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Contains(t, envelope.Error.Fields, "phone")
}

func TestEnrollmentHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newEnrollmentHandler(&enrollmentRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/enrollments/ENR-000000", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "ENR-000000"}}

	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
