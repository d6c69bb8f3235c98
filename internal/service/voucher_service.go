package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/skillport/institute-api/internal/dto"
	"github.com/skillport/institute-api/internal/models"
	"github.com/skillport/institute-api/pkg/config"
	appErrors "github.com/skillport/institute-api/pkg/errors"
	"github.com/skillport/institute-api/pkg/export"
)

type voucherRenderer interface {
	Render(data export.VoucherData) ([]byte, error)
}

type voucherNotifier interface {
	VoucherIssued(enrollment *models.Enrollment)
}

// VoucherService projects enrollments into payment vouchers. The
// voucher is display-only; no payment processor is involved, the
// student pays by manual bank transfer against the printed details.
type VoucherService struct {
	repo     enrollmentRepository
	renderer voucherRenderer
	notifier voucherNotifier
	logger   *zap.Logger
	cfg      config.VoucherConfig
}

// NewVoucherService constructs VoucherService.
func NewVoucherService(repo enrollmentRepository, renderer voucherRenderer, notifier voucherNotifier, logger *zap.Logger, cfg config.VoucherConfig) *VoucherService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DueDays <= 0 {
		cfg.DueDays = 7
	}
	return &VoucherService{repo: repo, renderer: renderer, notifier: notifier, logger: logger, cfg: cfg}
}

// View returns the voucher projection for an enrollment. Pure read; it
// never mutates the record, so calling it any number of times yields
// the same course title and fees.
func (s *VoucherService) View(ctx context.Context, enrollmentID string) (*dto.VoucherView, error) {
	enrollment, err := s.load(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	return s.project(enrollment), nil
}

// Confirm marks the voucher as generated and advances the wizard to
// the upload step. Idempotent: confirming an already-confirmed voucher
// changes nothing and reports the current state.
func (s *VoucherService) Confirm(ctx context.Context, enrollmentID string) (*dto.VoucherView, error) {
	enrollment, err := s.load(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	if !enrollment.VoucherGenerated {
		stage := enrollment.Stage
		if stage == models.StageVoucher {
			stage = models.StageUpload
		}
		if err := s.repo.MarkVoucherGenerated(ctx, enrollment.ID, stage); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to confirm voucher")
		}
		enrollment.VoucherGenerated = true
		enrollment.Stage = stage

		if s.notifier != nil {
			s.notifier.VoucherIssued(enrollment)
		}
		s.logger.Info("voucher confirmed", zap.String("enrollment_id", enrollment.ID))
	}

	return s.project(enrollment), nil
}

// RenderPDF produces the printable voucher slip.
func (s *VoucherService) RenderPDF(ctx context.Context, enrollmentID string) ([]byte, error) {
	enrollment, err := s.load(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	view := s.project(enrollment)
	data := export.VoucherData{
		EnrollmentID:  view.EnrollmentID,
		StudentName:   view.StudentName,
		CourseTitle:   view.CourseTitle,
		Fees:          view.Fees,
		BankName:      view.BankName,
		AccountTitle:  view.AccountTitle,
		AccountNumber: view.AccountNumber,
		IssuedAt:      view.IssuedAt,
		DueDate:       view.DueDate,
	}
	pdf, err := s.renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render voucher")
	}
	return pdf, nil
}

func (s *VoucherService) load(ctx context.Context, enrollmentID string) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

func (s *VoucherService) project(enrollment *models.Enrollment) *dto.VoucherView {
	return &dto.VoucherView{
		EnrollmentID:  enrollment.ID,
		StudentName:   enrollment.FullName,
		CourseTitle:   enrollment.CourseTitle,
		Fees:          enrollment.Fees,
		BankName:      s.cfg.BankName,
		AccountTitle:  s.cfg.AccountTitle,
		AccountNumber: s.cfg.AccountNumber,
		IssuedAt:      enrollment.EnrollmentDate,
		DueDate:       enrollment.EnrollmentDate.Add(time.Duration(s.cfg.DueDays) * 24 * time.Hour),
		Stage:         enrollment.Stage,
	}
}
