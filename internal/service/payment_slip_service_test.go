package service

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillport/institute-api/internal/models"
	appErrors "github.com/skillport/institute-api/pkg/errors"
	"github.com/skillport/institute-api/pkg/storage"
)

type mockSlipStore struct {
	slips  map[string]models.PaymentSlip
	nextID int
}

func (m *mockSlipStore) Create(ctx context.Context, slip *models.PaymentSlip) error {
	if m.slips == nil {
		m.slips = make(map[string]models.PaymentSlip)
	}
	m.nextID++
	slip.ID = fmt.Sprintf("slip-%d", m.nextID)
	slip.UploadedAt = time.Now().UTC()
	m.slips[slip.ID] = *slip
	return nil
}

func (m *mockSlipStore) FindByID(ctx context.Context, id string) (*models.PaymentSlip, error) {
	if s, ok := m.slips[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSlipStore) FindByEnrollment(ctx context.Context, enrollmentID string) (*models.PaymentSlip, error) {
	for _, s := range m.slips {
		if s.EnrollmentID == enrollmentID {
			return &s, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockSlipStore) List(ctx context.Context, page, size int) ([]models.PaymentSlip, int, error) {
	var list []models.PaymentSlip
	for _, s := range m.slips {
		list = append(list, s)
	}
	return list, len(list), nil
}

func slipEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{enrollments: map[string]models.Enrollment{
		"ENR-493027": {
			ID:               "ENR-493027",
			FullName:         "Ayesha Khan",
			Email:            "ayesha@example.com",
			Stage:            models.StageUpload,
			VoucherGenerated: true,
		},
		"ENR-100001": {
			ID:    "ENR-100001",
			Stage: models.StageVoucher,
		},
	}}
}

func newSlipService(t *testing.T, slips *mockSlipStore, repo *mockEnrollmentRepo, notifier *recordingNotifier) *PaymentSlipService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Minute)
	var n enrollmentNotifier
	if notifier != nil {
		n = notifier
	}
	return NewPaymentSlipService(slips, repo, store, signer, n, zap.NewNop(), PaymentSlipServiceConfig{})
}

func pdfUpload(size int64) SlipUpload {
	return SlipUpload{
		Filename: "proof.pdf",
		Size:     size,
		MimeType: "application/pdf",
		Content:  bytes.NewReader(bytes.Repeat([]byte("a"), int(size))),
	}
}

func TestPaymentSlipUpload(t *testing.T) {
	slips := &mockSlipStore{}
	repo := slipEnrollmentRepo()
	notifier := &recordingNotifier{}
	svc := newSlipService(t, slips, repo, notifier)

	resp, err := svc.Upload(context.Background(), "ENR-493027", pdfUpload(2*1024*1024))
	require.NoError(t, err)

	assert.Equal(t, models.StageDone, resp.Stage)
	assert.Equal(t, "proof.pdf", resp.Slip.FileName)
	assert.Equal(t, "application/pdf", resp.Slip.MimeType)
	assert.True(t, repo.enrollments["ENR-493027"].PaymentSlipUploaded)
	assert.Equal(t, []string{"ENR-493027"}, notifier.received)
	assert.Len(t, slips.slips, 1)
}

func TestPaymentSlipUploadRejectsOversizedFile(t *testing.T) {
	slips := &mockSlipStore{}
	repo := slipEnrollmentRepo()
	svc := newSlipService(t, slips, repo, nil)

	upload := SlipUpload{
		Filename: "proof.png",
		Size:     6 * 1024 * 1024,
		MimeType: "image/png",
		Content:  bytes.NewReader([]byte("png bytes")),
	}
	_, err := svc.Upload(context.Background(), "ENR-493027", upload)
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, "File size must be less than 5MB", appErr.Message)
	assert.Empty(t, slips.slips, "rejected upload must leave no slip row")
	assert.False(t, repo.enrollments["ENR-493027"].PaymentSlipUploaded)
	assert.Equal(t, models.StageUpload, repo.enrollments["ENR-493027"].Stage)
}

func TestPaymentSlipUploadRejectsDisallowedType(t *testing.T) {
	svc := newSlipService(t, &mockSlipStore{}, slipEnrollmentRepo(), nil)

	upload := SlipUpload{
		Filename: "notes.txt",
		Size:     128,
		MimeType: "text/plain",
		Content:  bytes.NewReader([]byte("hello")),
	}
	_, err := svc.Upload(context.Background(), "ENR-493027", upload)
	require.Error(t, err)
	assert.Equal(t, "Only JPG, PNG, and PDF files are allowed", appErrors.FromError(err).Message)
}

func TestPaymentSlipUploadNormalizesMimeParameters(t *testing.T) {
	svc := newSlipService(t, &mockSlipStore{}, slipEnrollmentRepo(), nil)

	upload := SlipUpload{
		Filename: "proof.png",
		Size:     512,
		MimeType: "image/PNG; charset=binary",
		Content:  bytes.NewReader(bytes.Repeat([]byte("b"), 512)),
	}
	resp, err := svc.Upload(context.Background(), "ENR-493027", upload)
	require.NoError(t, err)
	assert.Equal(t, "image/png", resp.Slip.MimeType)
}

func TestPaymentSlipUploadRequiresVoucher(t *testing.T) {
	svc := newSlipService(t, &mockSlipStore{}, slipEnrollmentRepo(), nil)

	_, err := svc.Upload(context.Background(), "ENR-100001", pdfUpload(1024))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestPaymentSlipUploadIsOneShot(t *testing.T) {
	slips := &mockSlipStore{}
	repo := slipEnrollmentRepo()
	svc := newSlipService(t, slips, repo, nil)

	_, err := svc.Upload(context.Background(), "ENR-493027", pdfUpload(1024))
	require.NoError(t, err)

	_, err = svc.Upload(context.Background(), "ENR-493027", pdfUpload(1024))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Len(t, slips.slips, 1)
}

func TestPaymentSlipDownloadRoundTrip(t *testing.T) {
	slips := &mockSlipStore{}
	repo := slipEnrollmentRepo()
	svc := newSlipService(t, slips, repo, nil)

	resp, err := svc.Upload(context.Background(), "ENR-493027", pdfUpload(1024))
	require.NoError(t, err)

	token, expiresAt, err := svc.DownloadURL(context.Background(), resp.Slip.ID)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	download, err := svc.Download(context.Background(), token)
	require.NoError(t, err)
	defer download.File.Close() //nolint:errcheck

	assert.Equal(t, "proof.pdf", download.Filename)
	data, err := io.ReadAll(download.File)
	require.NoError(t, err)
	assert.Len(t, data, 1024)
}

func TestPaymentSlipDownloadRejectsTamperedToken(t *testing.T) {
	slips := &mockSlipStore{}
	svc := newSlipService(t, slips, slipEnrollmentRepo(), nil)

	resp, err := svc.Upload(context.Background(), "ENR-493027", pdfUpload(1024))
	require.NoError(t, err)

	token, _, err := svc.DownloadURL(context.Background(), resp.Slip.ID)
	require.NoError(t, err)

	_, err = svc.Download(context.Background(), token+"x")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
