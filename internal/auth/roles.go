package auth

import "github.com/google/uuid"

// IdentityRole is a role label issued by the identity service.
type IdentityRole string

const (
	IdentityRoleOwner  IdentityRole = "OWNER"
	IdentityRoleMember IdentityRole = "MEMBER"
	IdentityRoleAdmin  IdentityRole = "ADMIN"
)

// WorkflowRole is the authorization level used by the publication workflow.
// It is derived from identity roles at check time and never persisted.
type WorkflowRole string

const (
	RoleContributor   WorkflowRole = "CONTRIBUTOR"
	RoleReviewer      WorkflowRole = "REVIEWER"
	RoleAdministrator WorkflowRole = "ADMINISTRATOR"
)

// workflowRoleWeight maps workflow roles to an integer weight for comparison.
// Higher weight = more permissions.
var workflowRoleWeight = map[WorkflowRole]int{
	RoleContributor:   1,
	RoleReviewer:      2,
	RoleAdministrator: 3,
}

// Weight returns the privilege weight of the role, 0 for unknown roles.
func (r WorkflowRole) Weight() int {
	return workflowRoleWeight[r]
}

// AtLeast reports whether r carries at least the privilege of min.
func (r WorkflowRole) AtLeast(min WorkflowRole) bool {
	return r.Weight() >= min.Weight()
}

// identityToWorkflow is the total mapping from identity roles to workflow
// roles. Identity roles missing from this table grant nothing.
var identityToWorkflow = map[IdentityRole][]WorkflowRole{
	IdentityRoleAdmin:  {RoleContributor, RoleReviewer, RoleAdministrator},
	IdentityRoleOwner:  {RoleContributor},
	IdentityRoleMember: {RoleContributor},
}

// MapIdentityRoles translates a set of identity roles into the set of
// workflow roles they grant. Unknown identity roles are ignored. The
// result contains no duplicates.
func MapIdentityRoles(identityRoles []IdentityRole) []WorkflowRole {
	seen := make(map[WorkflowRole]bool, len(workflowRoleWeight))
	var mapped []WorkflowRole
	for _, ir := range identityRoles {
		for _, wr := range identityToWorkflow[ir] {
			if !seen[wr] {
				seen[wr] = true
				mapped = append(mapped, wr)
			}
		}
	}
	return mapped
}

// HighestWorkflowRole reduces a set of identity roles to the single
// highest-privilege workflow role they grant. An empty or unmappable
// input defaults to CONTRIBUTOR.
func HighestWorkflowRole(identityRoles []IdentityRole) WorkflowRole {
	highest := RoleContributor
	for _, wr := range MapIdentityRoles(identityRoles) {
		if wr.Weight() > highest.Weight() {
			highest = wr
		}
	}
	return highest
}

// Actor is the authenticated caller of a workflow operation: an identity
// plus the raw identity roles handed over by the identity service.
type Actor struct {
	ID    uuid.UUID      `json:"id"`
	Roles []IdentityRole `json:"roles"`
}

// WorkflowRole returns the actor's effective workflow role.
func (a Actor) WorkflowRole() WorkflowRole {
	return HighestWorkflowRole(a.Roles)
}
