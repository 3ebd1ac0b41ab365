// services/digest_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clientconnect-backend/metrics"
	"clientconnect-backend/models"

	"github.com/robfig/cron/v3"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers a rendered digest.
type Sender interface {
	Send(ctx context.Context, message string) error
	Channel() string
}

// TwilioSender texts the digest to a single recipient.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
	to     string
}

func NewTwilioSender(accountSid, authToken, from, to string) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
		from: from,
		to:   to,
	}
}

func (s *TwilioSender) Channel() string { return "sms" }

func (s *TwilioSender) Send(_ context.Context, message string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(s.to)
	params.SetFrom(s.from)
	params.SetBody(message)

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}
	if resp.ErrorMessage != nil {
		return errors.New(*resp.ErrorMessage)
	}
	return nil
}

// LogSender writes the digest to the application log.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Channel() string { return "log" }

func (s *LogSender) Send(_ context.Context, message string) error {
	s.logger.Info("pipeline digest", "digest", message)
	return nil
}

// DigestService periodically summarises the pipeline and sends it out.
type DigestService struct {
	dashboard *DashboardService
	sender    Sender
	metrics   *metrics.Metrics
	logger    *slog.Logger
	cron      *cron.Cron
}

func NewDigestService(dashboard *DashboardService, sender Sender, m *metrics.Metrics, logger *slog.Logger) *DigestService {
	return &DigestService{
		dashboard: dashboard,
		sender:    sender,
		metrics:   m,
		logger:    logger,
	}
}

// StartScheduler registers the digest job under a standard five-field cron
// expression. An empty schedule leaves the job disabled.
func (s *DigestService) StartScheduler(schedule string) error {
	if schedule == "" {
		s.logger.Info("digest scheduler disabled")
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("digest run failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid digest schedule %q: %w", schedule, err)
	}

	c.Start()
	s.cron = c
	s.logger.Info("digest scheduler started", "schedule", schedule, "channel", s.sender.Channel())
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *DigestService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
}

// RunOnce computes the current summary and delivers it.
func (s *DigestService) RunOnce(ctx context.Context) error {
	summary, err := s.dashboard.ComputeSummary(ctx)
	if err != nil {
		s.metrics.DigestsSent.WithLabelValues("failed").Inc()
		return err
	}

	if err := s.sender.Send(ctx, FormatDigest(summary)); err != nil {
		s.metrics.DigestsSent.WithLabelValues("failed").Inc()
		return err
	}
	s.metrics.DigestsSent.WithLabelValues("sent").Inc()
	return nil
}

// FormatDigest renders a summary as a single line.
func FormatDigest(summary models.DashboardSummary) string {
	return fmt.Sprintf(
		"ClientConnect pipeline: %d customers (%d active, %d lead, %d inactive); %d opportunities (%d new, %d won, %d lost)",
		summary.TotalCustomers, summary.ActiveCustomers, summary.LeadCustomers, summary.InactiveCustomers,
		summary.TotalOpportunities, summary.NewOpportunities, summary.ClosedWonOpportunities, summary.ClosedLostOpportunities,
	)
}
