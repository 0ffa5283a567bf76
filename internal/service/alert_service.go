package service

import (
	"context"
	"fmt"

	"ai-therapy-be/internal/constant"
	"ai-therapy-be/internal/pkg/logger"
	"ai-therapy-be/internal/pkg/mailer"
	"ai-therapy-be/internal/repository/unitofwork"
	"ai-therapy-be/pkg/events"
	pkgNats "ai-therapy-be/pkg/nats"

	"github.com/google/uuid"
)

// EventSubscriber attaches a durable handler to the broker.
// Satisfied by pkg/nats.Subscriber.
type EventSubscriber interface {
	Subscribe(subject string, durableName string, handler pkgNats.EventHandler) error
}

type IAlertService interface {
	Listen() error
}

// alertService watches session-message events on the broker and sends
// a check-in email when a turn scores at or above the risk threshold.
type alertService struct {
	subscriber EventSubscriber
	uowFactory unitofwork.RepositoryFactory
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewAlertService(
	subscriber EventSubscriber,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IAlertService {
	return &alertService{
		subscriber: subscriber,
		uowFactory: uowFactory,
		mailer:     emailService,
		logger:     log,
	}
}

// Listen attaches the durable consumer. A missing subscriber means the
// broker was unreachable at startup; alerts are disabled, not fatal.
func (s *alertService) Listen() error {
	if s.subscriber == nil {
		s.logger.Warn("AlertService", "No broker connection, risk alerts disabled", nil)
		return nil
	}

	subject := pkgNats.SubjectFor(constant.EventSessionMessage)
	if err := s.subscriber.Subscribe(subject, "risk-alert-worker", s.handleSessionMessage); err != nil {
		s.logger.Error("AlertService", "Failed to start risk alert subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}

	s.logger.Info("AlertService", fmt.Sprintf("Risk alert service listening on %s", subject), nil)
	return nil
}

func (s *alertService) handleSessionMessage(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	// riskLevel arrives as a JSON number off the wire.
	var risk int
	switch v := payload["riskLevel"].(type) {
	case float64:
		risk = int(v)
	case int:
		risk = v
	}
	if risk < constant.HighRiskThreshold {
		return nil
	}

	raw, _ := payload["userId"].(string)
	userId, err := uuid.Parse(raw)
	if err != nil {
		s.logger.Warn("AlertService", "High-risk event without a valid userId", map[string]interface{}{"payload": payload})
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil {
		return fmt.Errorf("find user for risk alert: %w", err)
	}
	if user == nil {
		s.logger.Warn("AlertService", "High-risk event for unknown user", map[string]interface{}{"userId": userId.String()})
		return nil
	}

	if err := s.mailer.SendCheckIn(user.Email, user.FullName); err != nil {
		s.logger.Error("AlertService", "Failed to send check-in email", map[string]interface{}{
			"userId": userId.String(),
			"error":  err.Error(),
		})
		return err
	}

	s.logger.Info("AlertService", "Check-in email sent for high-risk session message", map[string]interface{}{
		"userId":    userId.String(),
		"riskLevel": risk,
	})
	return nil
}
