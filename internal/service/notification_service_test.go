package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillport/institute-api/internal/models"
	"github.com/skillport/institute-api/pkg/jobs"
	"github.com/skillport/institute-api/pkg/mailer"
)

// flakyMailer fails the first attempt for every address, then succeeds.
type flakyMailer struct {
	mu       sync.Mutex
	attempts map[string]int
	sent     []mailer.Message
}

func (m *flakyMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.attempts == nil {
		m.attempts = make(map[string]int)
	}
	m.attempts[msg.ToAddress]++
	if m.attempts[msg.ToAddress] == 1 {
		return errors.New("temporary smtp failure")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *flakyMailer) delivered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func testEnrollment() *models.Enrollment {
	return &models.Enrollment{
		ID:          "ENR-493027",
		FullName:    "Ayesha Khan",
		Email:       "ayesha@example.com",
		CourseTitle: "Web Development Bootcamp",
		Fees:        45000,
	}
}

func TestNotificationServiceDeliversLifecycleEmails(t *testing.T) {
	console := mailer.NewConsoleMailer(zap.NewNop())
	svc := NewNotificationService(console, nil, zap.NewNop(), "admissions@skillport.edu", jobs.QueueConfig{Workers: 1})

	svc.Start(context.Background())
	defer svc.Stop()

	enrollment := testEnrollment()
	svc.EnrollmentSubmitted(enrollment)
	svc.VoucherIssued(enrollment)
	svc.PaymentSlipReceived(enrollment, &models.PaymentSlip{FileName: "proof.pdf", FileSize: 1024})

	// Slip receipt mails both the student and the admissions inbox.
	require.Eventually(t, func() bool { return len(console.Sent()) == 4 }, 2*time.Second, 10*time.Millisecond)

	var recipients []string
	for _, msg := range console.Sent() {
		recipients = append(recipients, msg.ToAddress)
	}
	assert.Contains(t, recipients, "ayesha@example.com")
	assert.Contains(t, recipients, "admissions@skillport.edu")
}

func TestNotificationServiceRetriesFailedSends(t *testing.T) {
	flaky := &flakyMailer{}
	svc := NewNotificationService(flaky, nil, zap.NewNop(), "", jobs.QueueConfig{
		Workers:    1,
		MaxRetries: 3,
		RetryDelay: 10 * time.Millisecond,
	})

	svc.Start(context.Background())
	defer svc.Stop()

	svc.EnrollmentSubmitted(testEnrollment())

	require.Eventually(t, func() bool { return flaky.delivered() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestNotificationServiceEnqueueBeforeStart(t *testing.T) {
	console := mailer.NewConsoleMailer(zap.NewNop())
	svc := NewNotificationService(console, nil, zap.NewNop(), "", jobs.QueueConfig{Workers: 1})

	// Queue not started: the event is dropped with a warning, the
	// caller is never affected.
	svc.EnrollmentSubmitted(testEnrollment())
	assert.Empty(t, console.Sent())
}
