package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"building-lca/project-portal-backend/internal/projects"
	"building-lca/project-portal-backend/internal/users"
)

// template holds the subject line and body format of one transition
// notification. The body format takes the project name.
type template struct {
	subject string
	body    string
}

var eventTemplates = map[projects.TransitionEvent]template{
	projects.EventSubmitted:   {"Project submitted for review", "The project %q was submitted for review."},
	projects.EventApproved:    {"Project approved", "The project %q was approved and queued for publication."},
	projects.EventRejected:    {"Project rejected", "The project %q was rejected and returned to draft."},
	projects.EventPublished:   {"Project published", "The project %q was published."},
	projects.EventUnpublished: {"Project unpublished", "The project %q was marked for unpublication."},
	projects.EventDeleted:     {"Project deleted", "The project %q was marked for deletion."},
	projects.EventLocked:      {"Project locked", "The project %q was locked by an administrator."},
	projects.EventUnlocked:    {"Project unlocked", "The project %q was unlocked."},
	projects.EventAssigned:    {"Project assigned to you", "The project %q was assigned to you for review."},
}

// Service implements the workflow's notification hook: it records every
// transition and delivers an email to the affected account, best effort.
type Service struct {
	db        *gorm.DB
	directory users.Directory
	email     EmailSender
	logger    *zap.Logger
}

// NewService creates the notification service. email may be nil, in which
// case notifications are only recorded.
func NewService(db *gorm.DB, directory users.Directory, email EmailSender, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:        db,
		directory: directory,
		email:     email,
		logger:    logger,
	}
}

// NotifyTransition records the transition and emails the recipient. The
// recipient is the assignee for assignment events, otherwise the project
// owner. Returns an error only for the caller to log; the transition it
// reports on is already committed.
func (s *Service) NotifyTransition(ctx context.Context, event projects.TransitionEvent, project *projects.Project, actorID uuid.UUID) error {
	tmpl, ok := eventTemplates[event]
	if !ok {
		return fmt.Errorf("no template for event %s", event)
	}

	recipientID := project.CreatedBy
	if event == projects.EventAssigned && project.AssignedTo != nil {
		recipientID = *project.AssignedTo
	}

	record := &SentNotification{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		ActorID:     actorID,
		RecipientID: &recipientID,
		Event:       string(event),
		Subject:     tmpl.subject,
		Body:        fmt.Sprintf(tmpl.body, project.Name),
		Status:      StatusPending,
		CreatedAt:   time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("record notification: %w", err)
	}

	if err := s.deliver(ctx, record, recipientID); err != nil {
		s.markFailed(ctx, record, err)
		return err
	}
	s.markDelivered(ctx, record)
	return nil
}

func (s *Service) deliver(ctx context.Context, record *SentNotification, recipientID uuid.UUID) error {
	if s.email == nil {
		return nil
	}
	recipient, err := s.directory.GetUser(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("resolve recipient: %w", err)
	}
	return s.email.Send(ctx, recipient.Email, record.Subject, record.Body)
}

func (s *Service) markDelivered(ctx context.Context, record *SentNotification) {
	now := time.Now()
	record.Status = StatusDelivered
	record.DeliveredAt = &now
	if err := s.db.WithContext(ctx).Model(record).
		Updates(map[string]interface{}{"status": StatusDelivered, "delivered_at": now}).Error; err != nil {
		s.logger.Warn("failed to mark notification delivered", zap.Error(err))
	}
}

func (s *Service) markFailed(ctx context.Context, record *SentNotification, cause error) {
	record.Status = StatusFailed
	record.Error = cause.Error()
	if err := s.db.WithContext(ctx).Model(record).
		Updates(map[string]interface{}{"status": StatusFailed, "error": cause.Error()}).Error; err != nil {
		s.logger.Warn("failed to mark notification failed", zap.Error(err))
	}
}
