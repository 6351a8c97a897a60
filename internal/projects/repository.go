package projects

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectFilter narrows List results. Zero-value fields are ignored.
type ProjectFilter struct {
	States     []ProjectState
	CreatedBy  *uuid.UUID
	AssignedTo *uuid.UUID
	OlderThan  *time.Time
	Limit      int
	Offset     int
}

// ProjectRepository is the persistence contract of the workflow core.
//
// Save performs a conditional write keyed on the record's version counter
// and reports ErrConcurrentModification when the write lost a race.
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*Project, error)
	Save(ctx context.Context, project *Project) error
	List(ctx context.Context, filter ProjectFilter) ([]*Project, error)
	Purge(ctx context.Context, id uuid.UUID) error
}

type gormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a gorm-backed project repository.
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &gormProjectRepository{db: db}
}

func (r *gormProjectRepository) Create(ctx context.Context, project *Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *gormProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*Project, error) {
	var project Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Save writes the mutable workflow fields with a compare-and-swap on the
// version counter. A concurrent writer that committed first leaves zero
// rows matching, which surfaces as ErrConcurrentModification.
func (r *gormProjectRepository) Save(ctx context.Context, project *Project) error {
	current := project.Version
	res := r.db.WithContext(ctx).
		Model(&Project{}).
		Where("id = ? AND version = ?", project.ID, current).
		Updates(map[string]interface{}{
			"name":              project.Name,
			"country":           project.Country,
			"state":             project.State,
			"previous_state":    project.PreviousState,
			"assigned_to":       project.AssignedTo,
			"assigned_at":       project.AssignedAt,
			"life_cycle_stages": project.LifeCycleStages,
			"meta_fields":       project.MetaFields,
			"results":           project.Results,
			"updated_at":        project.UpdatedAt,
			"version":           current + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConcurrentModification
	}
	project.Version = current + 1
	return nil
}

func (r *gormProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]*Project, error) {
	q := r.db.WithContext(ctx).Model(&Project{}).Order("created_at, id")
	if len(filter.States) > 0 {
		q = q.Where("state IN ?", filter.States)
	}
	if filter.CreatedBy != nil {
		q = q.Where("created_by = ?", *filter.CreatedBy)
	}
	if filter.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *filter.AssignedTo)
	}
	if filter.OlderThan != nil {
		q = q.Where("updated_at < ?", *filter.OlderThan)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	var result []*Project
	if err := q.Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *gormProjectRepository) Purge(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Project{}, "id = ?", id).Error
}
