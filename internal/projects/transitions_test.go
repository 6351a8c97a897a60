package projects

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"building-lca/project-portal-backend/internal/auth"
)

func TestAllowedActionsForOwnerOnDraft(t *testing.T) {
	owner := uuid.New()
	p := projectIn(StateDraft, owner)
	actor := auth.Actor{ID: owner, Roles: []auth.IdentityRole{auth.IdentityRoleOwner}}

	assert.Equal(t, []Action{ActionSubmitForReview, ActionDelete}, AllowedActions(p, actor))
}

func TestAllowedActionsForAdministrator(t *testing.T) {
	admin := auth.Actor{ID: uuid.New(), Roles: []auth.IdentityRole{auth.IdentityRoleAdmin}}

	tests := []struct {
		state ProjectState
		want  []Action
	}{
		{StateDraft, []Action{ActionSubmitForReview, ActionUnpublish, ActionDelete, ActionLock, ActionAssign}},
		{StateInReview, []Action{ActionApprove, ActionReject, ActionDelete, ActionLock, ActionAssign}},
		{StateToPublish, []Action{ActionPublish, ActionDelete, ActionLock, ActionAssign}},
		{StateToUnpublish, []Action{ActionDelete, ActionLock, ActionAssign}},
		{StateToDelete, []Action{ActionDelete, ActionLock, ActionAssign}},
		{StateLocked, []Action{ActionLock, ActionUnlock, ActionAssign}},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			p := projectIn(tt.state, uuid.New())
			assert.Equal(t, tt.want, AllowedActions(p, admin))
		})
	}
}

func TestAllowedActionsForStrangerContributor(t *testing.T) {
	p := projectIn(StateDraft, uuid.New())
	stranger := auth.Actor{ID: uuid.New(), Roles: []auth.IdentityRole{auth.IdentityRoleMember}}

	assert.Empty(t, AllowedActions(p, stranger))
}
