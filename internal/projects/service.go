package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"building-lca/project-portal-backend/internal/auth"
)

// TransitionEvent names a completed workflow transition for the
// notification hooks.
type TransitionEvent string

const (
	EventSubmitted   TransitionEvent = "PROJECT_SUBMITTED"
	EventApproved    TransitionEvent = "PROJECT_APPROVED"
	EventRejected    TransitionEvent = "PROJECT_REJECTED"
	EventPublished   TransitionEvent = "PROJECT_PUBLISHED"
	EventUnpublished TransitionEvent = "PROJECT_UNPUBLISHED"
	EventDeleted     TransitionEvent = "PROJECT_DELETED"
	EventLocked      TransitionEvent = "PROJECT_LOCKED"
	EventUnlocked    TransitionEvent = "PROJECT_UNLOCKED"
	EventAssigned    TransitionEvent = "PROJECT_ASSIGNED"
)

// Notifier is the calling contract of the notification collaborator.
// Delivery is best effort: a returned error is logged by the service and
// never rolls back the committed transition.
type Notifier interface {
	NotifyTransition(ctx context.Context, event TransitionEvent, project *Project, actorID uuid.UUID) error
}

// CreateProjectRequest carries the fields of a new draft project.
type CreateProjectRequest struct {
	Name            string          `json:"name"`
	Country         string          `json:"country"`
	LifeCycleStages json.RawMessage `json:"life_cycle_stages"`
	MetaFields      json.RawMessage `json:"meta_fields"`
}

// ListOptions bounds read queries. Zero values mean "no bound".
type ListOptions struct {
	Limit  int
	Offset int
}

// ProjectService is the publication workflow core: every state mutation
// goes through a fetch, a permission check against the actor's derived
// workflow role, a single persist, and a best-effort notification.
type ProjectService interface {
	CreateProject(ctx context.Context, req CreateProjectRequest, actor auth.Actor) (*Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)

	SubmitForReview(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Project, error)
	ApproveProject(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Project, error)
	RejectProject(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Project, error)
	PublishProject(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Project, error)
	UnpublishProject(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID, actor auth.Actor) (bool, error)
	LockProject(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Project, error)
	UnlockProject(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Project, error)
	AssignProject(ctx context.Context, id uuid.UUID, actor auth.Actor, assigneeID uuid.UUID) (*Project, error)

	ProjectsByState(ctx context.Context, state ProjectState, actor auth.Actor, opts ListOptions) ([]*Project, error)
	ProjectsForReview(ctx context.Context, actor auth.Actor, opts ListOptions) ([]*Project, error)
	MyProjects(ctx context.Context, actor auth.Actor, opts ListOptions) ([]*Project, error)
	AssignedProjects(ctx context.Context, actor auth.Actor, opts ListOptions) ([]*Project, error)
}

type projectService struct {
	repo     ProjectRepository
	notifier Notifier
	logger   *zap.Logger
}

// NewProjectService creates the workflow service. notifier may be nil,
// in which case transitions commit without notifications.
func NewProjectService(repo ProjectRepository, notifier Notifier, logger *zap.Logger) ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &projectService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *projectService) CreateProject(ctx context.Context, req CreateProjectRequest, actor auth.Actor) (*Project, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	if actor.ID == uuid.Nil {
		return nil, errors.New("actor identity is required")
	}

	now := time.Now()
	project := &Project{
		ID:              uuid.New(),
		Name:            req.Name,
		Country:         req.Country,
		State:           StateDraft,
		CreatedBy:       actor.ID,
		LifeCycleStages: datatypes.JSON(req.LifeCycleStages),
		MetaFields:      datatypes.JSON(req.MetaFields),
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

func (s *projectService) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	return s.repo.GetByID(ctx, id)
}

// SubmitForReview moves a draft into review and clears any stale
// reviewer assignment.
func (s *projectService) SubmitForReview(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanSubmitForReview(project, actor.WorkflowRole(), actor.ID) {
		return nil, permissionDenied("submit_for_review", "User does not have permission to submit this project for review")
	}

	project.State = StateInReview
	project.ClearAssignment()
	return s.commit(ctx, project, actor, EventSubmitted)
}

// ApproveProject moves a project under review to the publication queue.
func (s *projectService) ApproveProject(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanApproveProject(project, actor.WorkflowRole()) {
		return nil, permissionDenied("approve_project", "User does not have permission to approve this project")
	}

	project.State = StateToPublish
	return s.commit(ctx, project, actor, EventApproved)
}

// RejectProject returns a project under review to draft, clearing the
// reviewer assignment.
func (s *projectService) RejectProject(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanRejectProject(project, actor.WorkflowRole()) {
		return nil, permissionDenied("reject_project", "User does not have permission to reject this project")
	}

	project.State = StateDraft
	project.ClearAssignment()
	return s.commit(ctx, project, actor, EventRejected)
}

// PublishProject completes publication. The published record returns to
// DRAFT for further editing.
func (s *projectService) PublishProject(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanPublishProject(project, actor.WorkflowRole()) {
		return nil, permissionDenied("publish_project", "User does not have permission to publish this project")
	}

	project.State = StateDraft
	return s.commit(ctx, project, actor, EventPublished)
}

func (s *projectService) UnpublishProject(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanUnpublishProject(project, actor.WorkflowRole()) {
		return nil, permissionDenied("unpublish_project", "User does not have permission to unpublish this project")
	}

	project.State = StateToUnpublish
	return s.commit(ctx, project, actor, EventUnpublished)
}

// DeleteProject marks a project for deletion. Physical removal is the
// reaper's job; no transition leads out of TO_DELETE.
func (s *projectService) DeleteProject(ctx context.Context, id uuid.UUID, actor auth.Actor) (bool, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if !CanDeleteProject(project, actor.WorkflowRole(), actor.ID) {
		return false, permissionDenied("delete_project", "User does not have permission to delete this project")
	}

	project.State = StateToDelete
	if _, err := s.commit(ctx, project, actor, EventDeleted); err != nil {
		return false, err
	}
	return true, nil
}

// LockProject freezes a project in any state, capturing the current
// state before it is overwritten so that unlock can restore it.
func (s *projectService) LockProject(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanLockProject(project, actor.WorkflowRole()) {
		return nil, permissionDenied("lock_project", "User does not have permission to lock this project")
	}

	previous := project.State
	project.PreviousState = &previous
	project.State = StateLocked
	return s.commit(ctx, project, actor, EventLocked)
}

// UnlockProject restores the state captured at lock time. A missing,
// invalid, or LOCKED snapshot falls back to DRAFT so a LOCKED value can
// never leak out of the lock.
func (s *projectService) UnlockProject(ctx context.Context, id uuid.UUID, actor auth.Actor) (*Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanUnlockProject(project, actor.WorkflowRole()) {
		return nil, permissionDenied("unlock_project", "User does not have permission to unlock this project")
	}

	restored := StateDraft
	if project.PreviousState != nil && project.PreviousState.IsValid() && *project.PreviousState != StateLocked {
		restored = *project.PreviousState
	}
	project.State = restored
	return s.commit(ctx, project, actor, EventUnlocked)
}

// AssignProject sets the reviewer assignment without changing state.
func (s *projectService) AssignProject(ctx context.Context, id uuid.UUID, actor auth.Actor, assigneeID uuid.UUID) (*Project, error) {
	if assigneeID == uuid.Nil {
		return nil, errors.New("assignee id is required")
	}
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanAssignProject(project, actor.WorkflowRole()) {
		return nil, permissionDenied("assign_project", "User does not have permission to assign this project")
	}

	project.Assign(assigneeID, time.Now())
	return s.commit(ctx, project, actor, EventAssigned)
}

// commit persists the mutated record and fires the notification hook.
// Notification failure is logged and swallowed; the transition stands.
func (s *projectService) commit(ctx context.Context, project *Project, actor auth.Actor, event TransitionEvent) (*Project, error) {
	project.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, project); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyTransition(ctx, event, project, actor.ID); err != nil {
			s.logger.Warn("notification delivery failed",
				zap.String("event", string(event)),
				zap.String("project_id", project.ID.String()),
				zap.Error(err))
		}
	}
	return project, nil
}

// reviewVisibleStates are the states a reviewer may browse without being
// assigned to the record.
var reviewVisibleStates = []ProjectState{StateInReview, StateToPublish}

func reviewVisible(state ProjectState) bool {
	for _, s := range reviewVisibleStates {
		if s == state {
			return true
		}
	}
	return false
}

// ProjectsByState lists projects in the given state, scoped to what the
// actor's role may see: administrators see everything, reviewers see
// review-relevant states plus their own assignments, contributors see
// only their own records.
func (s *projectService) ProjectsByState(ctx context.Context, state ProjectState, actor auth.Actor, opts ListOptions) ([]*Project, error) {
	if !state.IsValid() {
		return nil, fmt.Errorf("invalid project state %q", state)
	}

	filter := ProjectFilter{
		States: []ProjectState{state},
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}
	switch actor.WorkflowRole() {
	case auth.RoleAdministrator:
	case auth.RoleReviewer:
		if !reviewVisible(state) {
			filter.AssignedTo = &actor.ID
		}
	default:
		filter.CreatedBy = &actor.ID
	}
	return s.repo.List(ctx, filter)
}

// ProjectsForReview lists the review queue. Contributors only see their
// own submissions.
func (s *projectService) ProjectsForReview(ctx context.Context, actor auth.Actor, opts ListOptions) ([]*Project, error) {
	filter := ProjectFilter{
		States: []ProjectState{StateInReview},
		Limit:  opts.Limit,
		Offset: opts.Offset,
	}
	if !actor.WorkflowRole().AtLeast(auth.RoleReviewer) {
		filter.CreatedBy = &actor.ID
	}
	return s.repo.List(ctx, filter)
}

// MyProjects lists the records the actor created.
func (s *projectService) MyProjects(ctx context.Context, actor auth.Actor, opts ListOptions) ([]*Project, error) {
	return s.repo.List(ctx, ProjectFilter{
		CreatedBy: &actor.ID,
		Limit:     opts.Limit,
		Offset:    opts.Offset,
	})
}

// AssignedProjects lists the records currently assigned to the actor.
func (s *projectService) AssignedProjects(ctx context.Context, actor auth.Actor, opts ListOptions) ([]*Project, error) {
	return s.repo.List(ctx, ProjectFilter{
		AssignedTo: &actor.ID,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	})
}
