package projects

import (
	"github.com/google/uuid"

	"building-lca/project-portal-backend/internal/auth"
)

// Permission rules are pure predicates over a project snapshot, the
// actor's derived workflow role, and (where ownership matters) the actor
// identity. They never mutate state or perform I/O.
//
// Privilege is monotonic: anything a REVIEWER may do an ADMINISTRATOR may
// do, and anything a CONTRIBUTOR may do as owner an ADMINISTRATOR may do
// without owning the project.

// CanSubmitForReview allows the owning contributor, or any administrator,
// to submit a draft for review.
func CanSubmitForReview(p *Project, role auth.WorkflowRole, actorID uuid.UUID) bool {
	if p.State != StateDraft {
		return false
	}
	if role == auth.RoleAdministrator {
		return true
	}
	return role == auth.RoleContributor && p.OwnedBy(actorID)
}

// CanApproveProject allows reviewers and administrators to approve a
// project under review.
func CanApproveProject(p *Project, role auth.WorkflowRole) bool {
	return role.AtLeast(auth.RoleReviewer) && p.State == StateInReview
}

// CanRejectProject allows reviewers and administrators to reject a
// project under review.
func CanRejectProject(p *Project, role auth.WorkflowRole) bool {
	return role.AtLeast(auth.RoleReviewer) && p.State == StateInReview
}

// CanPublishProject allows administrators to publish an approved project.
func CanPublishProject(p *Project, role auth.WorkflowRole) bool {
	return role == auth.RoleAdministrator && p.State == StateToPublish
}

// CanUnpublishProject allows administrators to mark a draft for
// unpublication.
func CanUnpublishProject(p *Project, role auth.WorkflowRole) bool {
	return role == auth.RoleAdministrator && p.State == StateDraft
}

// CanDeleteProject allows the owner or an administrator to mark a project
// for deletion, unless the project is locked.
func CanDeleteProject(p *Project, role auth.WorkflowRole, actorID uuid.UUID) bool {
	if p.State == StateLocked {
		return false
	}
	return p.OwnedBy(actorID) || role == auth.RoleAdministrator
}

// CanLockProject allows administrators to lock a project in any state.
func CanLockProject(p *Project, role auth.WorkflowRole) bool {
	return role == auth.RoleAdministrator
}

// CanUnlockProject allows administrators to unlock a locked project.
func CanUnlockProject(p *Project, role auth.WorkflowRole) bool {
	return role == auth.RoleAdministrator && p.State == StateLocked
}

// CanAssignProject allows administrators to assign a reviewer in any
// state, including LOCKED.
func CanAssignProject(p *Project, role auth.WorkflowRole) bool {
	return role == auth.RoleAdministrator
}
