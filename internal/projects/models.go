package projects

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProjectState is the publication workflow state of a project.
type ProjectState string

const (
	StateDraft       ProjectState = "DRAFT"
	StateInReview    ProjectState = "IN_REVIEW"
	StateToPublish   ProjectState = "TO_PUBLISH"
	StateToUnpublish ProjectState = "TO_UNPUBLISH"
	StateToDelete    ProjectState = "TO_DELETE"
	StateLocked      ProjectState = "LOCKED"
)

// AllStates lists every persistable workflow state.
var AllStates = []ProjectState{
	StateDraft,
	StateInReview,
	StateToPublish,
	StateToUnpublish,
	StateToDelete,
	StateLocked,
}

// IsValid reports whether s is one of the enumerated workflow states.
func (s ProjectState) IsValid() bool {
	switch s {
	case StateDraft, StateInReview, StateToPublish, StateToUnpublish, StateToDelete, StateLocked:
		return true
	default:
		return false
	}
}

// Project represents a building-LCA project record.
//
// State is mutated exclusively by the Service under a permission check.
// AssignedTo and AssignedAt are either both set or both unset.
type Project struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	Country         string         `json:"country"`
	State           ProjectState   `gorm:"not null;default:'DRAFT'" json:"state"`
	PreviousState   *ProjectState  `json:"previous_state,omitempty"`
	CreatedBy       uuid.UUID      `gorm:"type:uuid;not null" json:"created_by"`
	AssignedTo      *uuid.UUID     `gorm:"type:uuid" json:"assigned_to,omitempty"`
	AssignedAt      *time.Time     `json:"assigned_at,omitempty"`
	LifeCycleStages datatypes.JSON `json:"life_cycle_stages"`
	MetaFields      datatypes.JSON `json:"meta_fields"`
	Results         datatypes.JSON `json:"results"` // serialized LCA result tree
	Version         int64          `gorm:"not null;default:1" json:"version"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// OwnedBy reports whether the given identity created the project.
func (p *Project) OwnedBy(userID uuid.UUID) bool {
	return p.CreatedBy == userID
}

// Assign records an assignment to the given reviewer.
func (p *Project) Assign(assigneeID uuid.UUID, at time.Time) {
	p.AssignedTo = &assigneeID
	p.AssignedAt = &at
}

// ClearAssignment removes any reviewer assignment, keeping the paired
// nullability of AssignedTo/AssignedAt.
func (p *Project) ClearAssignment() {
	p.AssignedTo = nil
	p.AssignedAt = nil
}
