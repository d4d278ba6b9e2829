package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/course-service/internal/events"
	"github.com/spec-kit/course-service/internal/mail"
)

// NotificationService sends emails for account events.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mail.Mailer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer mail.Mailer, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger.With(zap.String("component", "service.notifications")),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil || n.mailer == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserCreated, n.handleUserCreated)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventPasswordResetCompleted, n.handlePasswordResetCompleted)
}

func (n *NotificationService) handleUserCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	msg, err := mail.WelcomeMessage(payload.Email, mail.WelcomeData{
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Email:     payload.Email,
		Role:      string(payload.Role),
	})
	if err != nil {
		return err
	}
	return n.send(ctx, event, msg)
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	msg, err := mail.ResetRequestMessage(payload.Email, mail.ResetRequestData{
		FirstName: payload.FirstName,
		ResetURL:  payload.ResetURL,
		ExpiresAt: payload.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return n.send(ctx, event, msg)
}

func (n *NotificationService) handlePasswordResetCompleted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetCompletedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T", event.Payload)
	}
	msg, err := mail.ResetSuccessMessage(payload.Email, mail.ResetSuccessData{FirstName: payload.FirstName})
	if err != nil {
		return err
	}
	return n.send(ctx, event, msg)
}

func (n *NotificationService) send(ctx context.Context, event events.Event, msg mail.Message) error {
	if err := n.mailer.Send(ctx, msg); err != nil {
		n.logger.Error("email delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("subject_id", event.SubjectID),
			zap.Error(err))
		return err
	}
	return nil
}
