package projects

import (
	"github.com/google/uuid"

	"building-lca/project-portal-backend/internal/auth"
)

// Action names a workflow operation a caller can request on a project.
type Action string

const (
	ActionSubmitForReview Action = "submit_for_review"
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionPublish         Action = "publish"
	ActionUnpublish       Action = "unpublish"
	ActionDelete          Action = "delete"
	ActionLock            Action = "lock"
	ActionUnlock          Action = "unlock"
	ActionAssign          Action = "assign"
)

// actionGuards binds every action to its permission rule.
var actionGuards = map[Action]func(p *Project, role auth.WorkflowRole, actorID uuid.UUID) bool{
	ActionSubmitForReview: CanSubmitForReview,
	ActionApprove: func(p *Project, role auth.WorkflowRole, _ uuid.UUID) bool {
		return CanApproveProject(p, role)
	},
	ActionReject: func(p *Project, role auth.WorkflowRole, _ uuid.UUID) bool {
		return CanRejectProject(p, role)
	},
	ActionPublish: func(p *Project, role auth.WorkflowRole, _ uuid.UUID) bool {
		return CanPublishProject(p, role)
	},
	ActionUnpublish: func(p *Project, role auth.WorkflowRole, _ uuid.UUID) bool {
		return CanUnpublishProject(p, role)
	},
	ActionDelete: CanDeleteProject,
	ActionLock: func(p *Project, role auth.WorkflowRole, _ uuid.UUID) bool {
		return CanLockProject(p, role)
	},
	ActionUnlock: func(p *Project, role auth.WorkflowRole, _ uuid.UUID) bool {
		return CanUnlockProject(p, role)
	},
	ActionAssign: func(p *Project, role auth.WorkflowRole, _ uuid.UUID) bool {
		return CanAssignProject(p, role)
	},
}

// actionOrder keeps AllowedActions output stable for API consumers.
var actionOrder = []Action{
	ActionSubmitForReview,
	ActionApprove,
	ActionReject,
	ActionPublish,
	ActionUnpublish,
	ActionDelete,
	ActionLock,
	ActionUnlock,
	ActionAssign,
}

// AllowedActions returns the workflow actions the actor may currently
// perform on the project, driven by the same guards the service
// enforces.
func AllowedActions(p *Project, actor auth.Actor) []Action {
	role := actor.WorkflowRole()
	var allowed []Action
	for _, action := range actionOrder {
		if actionGuards[action](p, role, actor.ID) {
			allowed = append(allowed, action)
		}
	}
	return allowed
}
