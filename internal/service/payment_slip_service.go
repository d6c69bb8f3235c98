package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skillport/institute-api/internal/dto"
	"github.com/skillport/institute-api/internal/models"
	appErrors "github.com/skillport/institute-api/pkg/errors"
)

// Rejection messages shown as a single banner in the upload step. The
// wording is load-bearing: clients match on it.
const (
	msgBadFileType = "Only JPG, PNG, and PDF files are allowed"
	msgFileTooBig  = "File size must be less than 5MB"
)

type slipStore interface {
	Create(ctx context.Context, slip *models.PaymentSlip) error
	FindByID(ctx context.Context, id string) (*models.PaymentSlip, error)
	FindByEnrollment(ctx context.Context, enrollmentID string) (*models.PaymentSlip, error)
	List(ctx context.Context, page, size int) ([]models.PaymentSlip, int, error)
}

type slipFileStorage interface {
	SaveStream(filename string, r io.Reader) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type slipURLSigner interface {
	Generate(slipID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (slipID, relPath string, expiresAt time.Time, err error)
}

// SlipUpload carries upload metadata and the stream reader.
type SlipUpload struct {
	Filename string
	Size     int64
	MimeType string
	Content  io.ReadSeeker
	Remarks  string
}

// SlipDownload bundles a file handle with metadata for streaming.
type SlipDownload struct {
	File     *os.File
	Filename string
	MimeType string
	Size     int64
}

// PaymentSlipServiceConfig holds upload validation parameters.
type PaymentSlipServiceConfig struct {
	MaxFileSize  int64
	AllowedMIMEs []string
}

// PaymentSlipService validates and stores proof-of-payment uploads and
// completes the enrollment wizard.
type PaymentSlipService struct {
	slips       slipStore
	enrollments enrollmentRepository
	storage     slipFileStorage
	signer      slipURLSigner
	notifier    enrollmentNotifier
	logger      *zap.Logger
	cfg         PaymentSlipServiceConfig
	mimeSet     map[string]struct{}
}

// NewPaymentSlipService constructs the service with defaults matching
// the published upload rules.
func NewPaymentSlipService(slips slipStore, enrollments enrollmentRepository, storage slipFileStorage, signer slipURLSigner, notifier enrollmentNotifier, logger *zap.Logger, cfg PaymentSlipServiceConfig) *PaymentSlipService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 5 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"image/jpeg", "image/jpg", "image/png", "application/pdf"}
	}
	mimeSet := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mt := range cfg.AllowedMIMEs {
		mimeSet[strings.ToLower(mt)] = struct{}{}
	}
	return &PaymentSlipService{
		slips:       slips,
		enrollments: enrollments,
		storage:     storage,
		signer:      signer,
		notifier:    notifier,
		logger:      logger,
		cfg:         cfg,
		mimeSet:     mimeSet,
	}
}

// Upload validates the file and, when accepted, stores it, records the
// slip, and moves the enrollment to its terminal stage. A rejected
// file leaves no trace: no stored file, no slip row, no flag change.
func (s *PaymentSlipService) Upload(ctx context.Context, enrollmentID string, upload SlipUpload) (*dto.PaymentSlipResponse, error) {
	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if !enrollment.VoucherGenerated {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "generate the payment voucher before uploading a slip")
	}
	if enrollment.PaymentSlipUploaded {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a payment slip was already uploaded for this enrollment")
	}

	if upload.Content == nil || upload.Size <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	mimeType := normalizeMime(upload.MimeType)
	if _, allowed := s.mimeSet[mimeType]; !allowed {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgBadFileType)
	}
	if upload.Size > s.cfg.MaxFileSize {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgFileTooBig)
	}

	filename := s.storedFilename(enrollment.ID, upload.Filename)
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
	}
	path, err := s.storage.SaveStream(filename, upload.Content)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist slip file")
	}

	slip := &models.PaymentSlip{
		EnrollmentID: enrollment.ID,
		FileName:     upload.Filename,
		FileSize:     upload.Size,
		MimeType:     mimeType,
		FilePath:     path,
		Remarks:      upload.Remarks,
	}
	if err := s.slips.Create(ctx, slip); err != nil {
		_ = s.storage.Delete(path)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record payment slip")
	}

	if err := s.enrollments.MarkSlipUploaded(ctx, enrollment.ID, models.StageDone); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete enrollment")
	}
	enrollment.PaymentSlipUploaded = true
	enrollment.Stage = models.StageDone

	if s.notifier != nil {
		s.notifier.PaymentSlipReceived(enrollment, slip)
	}
	s.logger.Info("payment slip stored",
		zap.String("enrollment_id", enrollment.ID),
		zap.String("slip_id", slip.ID),
		zap.Int64("size", slip.FileSize),
	)
	return &dto.PaymentSlipResponse{Slip: slip, Stage: enrollment.Stage}, nil
}

// List returns slips for admin review.
func (s *PaymentSlipService) List(ctx context.Context, page, size int) ([]models.PaymentSlip, *models.Pagination, error) {
	slips, total, err := s.slips.List(ctx, page, size)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payment slips")
	}
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	return slips, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// DownloadURL issues a signed token an admin can use to fetch the
// stored file without further authentication.
func (s *PaymentSlipService) DownloadURL(ctx context.Context, slipID string) (string, time.Time, error) {
	slip, err := s.slips.FindByID(ctx, slipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, appErrors.Clone(appErrors.ErrNotFound, "payment slip not found")
		}
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment slip")
	}
	token, expiresAt, err := s.signer.Generate(slip.ID, slip.FilePath)
	if err != nil {
		return "", time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}
	return token, expiresAt, nil
}

// Download resolves a signed token into a readable file handle.
func (s *PaymentSlipService) Download(ctx context.Context, token string) (*SlipDownload, error) {
	slipID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	slip, err := s.slips.FindByID(ctx, slipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment slip not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load payment slip")
	}
	if slip.FilePath != relPath {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "download token does not match slip")
	}
	file, err := s.storage.Open(slip.FilePath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open slip file")
	}
	return &SlipDownload{
		File:     file,
		Filename: slip.FileName,
		MimeType: slip.MimeType,
		Size:     slip.FileSize,
	}, nil
}

func (s *PaymentSlipService) storedFilename(enrollmentID, original string) string {
	ext := filepath.Ext(original)
	if ext == "" {
		ext = ".bin"
	}
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return filepath.Join("slips", enrollmentID, fmt.Sprintf("%d%s", time.Now().UnixNano(), ext))
	}
	return filepath.Join("slips", enrollmentID, hex.EncodeToString(buf)+ext)
}

func normalizeMime(raw string) string {
	parsed, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(raw))
	}
	return strings.ToLower(parsed)
}
