package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillport/institute-api/internal/models"
	"github.com/skillport/institute-api/pkg/jobs"
	"github.com/skillport/institute-api/pkg/mailer"
)

// Notification job types.
const (
	jobEnrollmentSubmitted = "enrollment.submitted"
	jobVoucherIssued       = "voucher.issued"
	jobSlipReceived        = "payment_slip.received"
)

// NotificationService turns enrollment lifecycle events into
// transactional emails. Dispatch is fire-and-forget through the job
// queue: the legacy front end faked this with fixed timers, here the
// send is a real fallible operation retried out-of-band, and failures
// never reach the API caller.
type NotificationService struct {
	mail       mailer.Mailer
	queue      *jobs.Queue
	metrics    *MetricsService
	logger     *zap.Logger
	adminEmail string
}

// NewNotificationService constructs the service and its queue. Call
// Start before enqueueing and Stop on shutdown. Metrics may be nil.
func NewNotificationService(mail mailer.Mailer, metrics *MetricsService, logger *zap.Logger, adminEmail string, queueCfg jobs.QueueConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{mail: mail, metrics: metrics, logger: logger, adminEmail: adminEmail}
	queueCfg.Logger = logger
	s.queue = jobs.NewQueue("notifications", s.deliver, queueCfg)
	return s
}

// Start begins queue consumption.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the queue workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// EnrollmentSubmitted notifies the student that the form was received.
func (s *NotificationService) EnrollmentSubmitted(enrollment *models.Enrollment) {
	s.enqueue(jobEnrollmentSubmitted, mailer.Message{
		ToName:    enrollment.FullName,
		ToAddress: enrollment.Email,
		Subject:   fmt.Sprintf("Enrollment received - %s", enrollment.ID),
		TextBody: fmt.Sprintf(
			"Dear %s,\n\nWe received your enrollment for %s (reference %s). "+
				"Generate your fee voucher to continue.\n\nSkillport Institute",
			enrollment.FullName, enrollment.CourseTitle, enrollment.ID),
	})
}

// VoucherIssued notifies the student that the fee voucher is ready.
func (s *NotificationService) VoucherIssued(enrollment *models.Enrollment) {
	s.enqueue(jobVoucherIssued, mailer.Message{
		ToName:    enrollment.FullName,
		ToAddress: enrollment.Email,
		Subject:   fmt.Sprintf("Fee voucher - %s", enrollment.ID),
		TextBody: fmt.Sprintf(
			"Dear %s,\n\nYour fee voucher for %s is ready. Amount due: PKR %d. "+
				"Pay at the bank and upload the stamped slip to complete enrollment.\n\nSkillport Institute",
			enrollment.FullName, enrollment.CourseTitle, enrollment.Fees),
	})
}

// PaymentSlipReceived confirms the upload to the student and alerts
// the admissions inbox for verification.
func (s *NotificationService) PaymentSlipReceived(enrollment *models.Enrollment, slip *models.PaymentSlip) {
	s.enqueue(jobSlipReceived, mailer.Message{
		ToName:    enrollment.FullName,
		ToAddress: enrollment.Email,
		Subject:   fmt.Sprintf("Payment slip received - %s", enrollment.ID),
		TextBody: fmt.Sprintf(
			"Dear %s,\n\nWe received your payment slip (%s) for enrollment %s. "+
				"Our admissions team will verify it shortly.\n\nSkillport Institute",
			enrollment.FullName, slip.FileName, enrollment.ID),
	})
	if s.adminEmail != "" {
		s.enqueue(jobSlipReceived, mailer.Message{
			ToName:    "Admissions",
			ToAddress: s.adminEmail,
			Subject:   fmt.Sprintf("Slip pending verification - %s", enrollment.ID),
			TextBody: fmt.Sprintf(
				"Enrollment %s (%s, %s) uploaded %s (%d bytes). Please verify the payment.",
				enrollment.ID, enrollment.FullName, enrollment.CourseTitle, slip.FileName, slip.FileSize),
		})
	}
}

func (s *NotificationService) enqueue(jobType string, msg mailer.Message) {
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobType,
		Payload: msg,
	})
	if err != nil {
		s.logger.Warn("failed to enqueue notification", zap.String("type", jobType), zap.Error(err))
		return
	}
	s.metrics.RecordNotification(jobType)
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	msg, ok := job.Payload.(mailer.Message)
	if !ok {
		s.logger.Error("notification job has unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.mail.Send(ctx, msg)
}
