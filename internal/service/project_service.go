package service

import (
	"context"

	"github.com/dom/nonprofit-site/internal/domain"
	"github.com/dom/nonprofit-site/internal/repository"
	"github.com/google/uuid"
)

type ProjectService struct {
	projectRepo   repository.ProjectRepository
	changes       ChangePublisher
	maxImageBytes int
}

func NewProjectService(projectRepo repository.ProjectRepository, changes ChangePublisher, maxImageBytes int) *ProjectService {
	if changes == nil {
		changes = noopPublisher{}
	}
	return &ProjectService{
		projectRepo:   projectRepo,
		changes:       changes,
		maxImageBytes: maxImageBytes,
	}
}

func (s *ProjectService) GetAll(ctx context.Context) ([]*domain.Project, error) {
	return s.projectRepo.GetAll(ctx)
}

func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, input *domain.Project) (*domain.Project, error) {
	ts := now()
	project := &domain.Project{ID: uuid.New(), CreatedAt: ts, UpdatedAt: ts}
	project.Apply(input)

	if err := project.Validate(s.maxImageBytes); err != nil {
		return nil, err
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.publish(domain.ChangeCreated, project)
	return project, nil
}

func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, input *domain.Project) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	project.Apply(input)
	if err := project.Validate(s.maxImageBytes); err != nil {
		return nil, err
	}
	project.UpdatedAt = touch(project.CreatedAt)

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.publish(domain.ChangeUpdated, project)
	return project, nil
}

func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.changes.Publish(domain.ResourceChange{
		Action:   domain.ChangeDeleted,
		Resource: domain.ResourceProject,
		ID:       id,
		At:       now(),
	})
	return nil
}

func (s *ProjectService) publish(action domain.ChangeAction, project *domain.Project) {
	s.changes.Publish(domain.ResourceChange{
		Action:   action,
		Resource: domain.ResourceProject,
		ID:       project.ID,
		Title:    project.Title,
		At:       project.UpdatedAt,
	})
}
