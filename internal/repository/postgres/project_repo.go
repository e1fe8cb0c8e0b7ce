package postgres

import (
	"context"

	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *projectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) GetAll(ctx context.Context) ([]*domain.Project, error) {
	projects := []*domain.Project{}
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&projects).Error
	if err != nil {
		return nil, translate("list projects", err)
	}
	return projects, nil
}

func (r *projectRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error
	if err != nil {
		return nil, translate("get project", err)
	}
	return &project, nil
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	return translate("create project", r.db.WithContext(ctx).Create(project).Error)
}

// Update writes every mutable column; a missing row yields ErrNotFound.
func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	res := r.db.WithContext(ctx).Model(project).Select("*").Omit("id", "created_at").Updates(project)
	return affected("update project", res)
}

func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected("delete project", r.db.WithContext(ctx).Delete(&domain.Project{}, "id = ?", id))
}
