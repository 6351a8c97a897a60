package projects

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"building-lca/project-portal-backend/internal/auth"
)

func projectIn(state ProjectState, owner uuid.UUID) *Project {
	return &Project{
		ID:        uuid.New(),
		Name:      "Office block LCA",
		State:     state,
		CreatedBy: owner,
	}
}

func TestCanSubmitForReview(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	t.Run("owning contributor on draft", func(t *testing.T) {
		p := projectIn(StateDraft, owner)
		assert.True(t, CanSubmitForReview(p, auth.RoleContributor, owner))
	})

	t.Run("non-owning contributor denied", func(t *testing.T) {
		p := projectIn(StateDraft, owner)
		assert.False(t, CanSubmitForReview(p, auth.RoleContributor, stranger))
	})

	t.Run("administrator without ownership", func(t *testing.T) {
		p := projectIn(StateDraft, owner)
		assert.True(t, CanSubmitForReview(p, auth.RoleAdministrator, stranger))
	})

	t.Run("reviewer denied even as owner", func(t *testing.T) {
		p := projectIn(StateDraft, owner)
		assert.False(t, CanSubmitForReview(p, auth.RoleReviewer, owner))
	})

	t.Run("wrong source state denied for everyone", func(t *testing.T) {
		for _, state := range AllStates {
			if state == StateDraft {
				continue
			}
			p := projectIn(state, owner)
			assert.False(t, CanSubmitForReview(p, auth.RoleContributor, owner), "state %s", state)
			assert.False(t, CanSubmitForReview(p, auth.RoleAdministrator, owner), "state %s", state)
		}
	})
}

func TestCanApproveAndReject(t *testing.T) {
	owner := uuid.New()

	for _, state := range AllStates {
		p := projectIn(state, owner)
		want := state == StateInReview

		assert.Equal(t, want, CanApproveProject(p, auth.RoleReviewer), "approve/reviewer in %s", state)
		assert.Equal(t, want, CanApproveProject(p, auth.RoleAdministrator), "approve/admin in %s", state)
		assert.Equal(t, want, CanRejectProject(p, auth.RoleReviewer), "reject/reviewer in %s", state)
		assert.Equal(t, want, CanRejectProject(p, auth.RoleAdministrator), "reject/admin in %s", state)

		assert.False(t, CanApproveProject(p, auth.RoleContributor), "approve/contributor in %s", state)
		assert.False(t, CanRejectProject(p, auth.RoleContributor), "reject/contributor in %s", state)
	}
}

func TestCanPublishProject(t *testing.T) {
	owner := uuid.New()

	for _, state := range AllStates {
		p := projectIn(state, owner)
		want := state == StateToPublish

		assert.Equal(t, want, CanPublishProject(p, auth.RoleAdministrator), "state %s", state)
		assert.False(t, CanPublishProject(p, auth.RoleReviewer), "state %s", state)
		assert.False(t, CanPublishProject(p, auth.RoleContributor), "state %s", state)
	}
}

func TestCanUnpublishProject(t *testing.T) {
	owner := uuid.New()

	for _, state := range AllStates {
		p := projectIn(state, owner)
		want := state == StateDraft

		assert.Equal(t, want, CanUnpublishProject(p, auth.RoleAdministrator), "state %s", state)
		assert.False(t, CanUnpublishProject(p, auth.RoleReviewer), "state %s", state)
		assert.False(t, CanUnpublishProject(p, auth.RoleContributor), "state %s", state)
	}
}

func TestCanDeleteProject(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()

	for _, state := range AllStates {
		p := projectIn(state, owner)
		unlocked := state != StateLocked

		assert.Equal(t, unlocked, CanDeleteProject(p, auth.RoleContributor, owner), "owner in %s", state)
		assert.Equal(t, unlocked, CanDeleteProject(p, auth.RoleAdministrator, stranger), "admin in %s", state)
		assert.False(t, CanDeleteProject(p, auth.RoleContributor, stranger), "stranger in %s", state)
		assert.False(t, CanDeleteProject(p, auth.RoleReviewer, stranger), "reviewer in %s", state)
	}
}

func TestCanLockUnlockAssign(t *testing.T) {
	owner := uuid.New()

	for _, state := range AllStates {
		p := projectIn(state, owner)

		assert.True(t, CanLockProject(p, auth.RoleAdministrator), "lock in %s", state)
		assert.True(t, CanAssignProject(p, auth.RoleAdministrator), "assign in %s", state)
		assert.False(t, CanLockProject(p, auth.RoleReviewer), "lock/reviewer in %s", state)
		assert.False(t, CanAssignProject(p, auth.RoleContributor), "assign/contributor in %s", state)

		assert.Equal(t, state == StateLocked, CanUnlockProject(p, auth.RoleAdministrator), "unlock in %s", state)
		assert.False(t, CanUnlockProject(p, auth.RoleReviewer), "unlock/reviewer in %s", state)
	}
}

// Privilege must be strictly monotonic: every rule a reviewer satisfies
// an administrator satisfies, and every rule an owning contributor
// satisfies an administrator satisfies without ownership.
func TestMonotonicPrivilege(t *testing.T) {
	owner := uuid.New()
	admin := uuid.New()

	rules := map[string]func(p *Project, role auth.WorkflowRole, actorID uuid.UUID) bool{
		"submit_for_review": CanSubmitForReview,
		"approve_project": func(p *Project, role auth.WorkflowRole, _ uuid.UUID) bool {
			return CanApproveProject(p, role)
		},
		"reject_project": func(p *Project, role auth.WorkflowRole, _ uuid.UUID) bool {
			return CanRejectProject(p, role)
		},
		"publish_project": func(p *Project, role auth.WorkflowRole, _ uuid.UUID) bool {
			return CanPublishProject(p, role)
		},
		"unpublish_project": func(p *Project, role auth.WorkflowRole, _ uuid.UUID) bool {
			return CanUnpublishProject(p, role)
		},
		"delete_project": CanDeleteProject,
		"lock_project": func(p *Project, role auth.WorkflowRole, _ uuid.UUID) bool {
			return CanLockProject(p, role)
		},
		"unlock_project": func(p *Project, role auth.WorkflowRole, _ uuid.UUID) bool {
			return CanUnlockProject(p, role)
		},
		"assign_project": func(p *Project, role auth.WorkflowRole, _ uuid.UUID) bool {
			return CanAssignProject(p, role)
		},
	}

	for name, rule := range rules {
		for _, state := range AllStates {
			p := projectIn(state, owner)

			if rule(p, auth.RoleReviewer, admin) {
				assert.True(t, rule(p, auth.RoleAdministrator, admin),
					"%s in %s: reviewer allowed but administrator denied", name, state)
			}
			if rule(p, auth.RoleContributor, owner) {
				assert.True(t, rule(p, auth.RoleAdministrator, admin),
					"%s in %s: owning contributor allowed but administrator denied", name, state)
			}
		}
	}
}
