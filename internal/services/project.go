package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/repos"
	"github.com/slateline/slateline-backend/internal/types"
)

type ProjectService interface {
	CreateProject(ctx context.Context, userID uuid.UUID, title, format, genre string) (*types.Project, error)
	GetUserProjects(ctx context.Context, userID uuid.UUID) ([]*types.Project, error)
	// EnsureOwned guards every project-scoped route.
	EnsureOwned(ctx context.Context, userID, projectID uuid.UUID) error
}

type projectService struct {
	db          *gorm.DB
	log         *logger.Logger
	projectRepo repos.ProjectRepo
}

func NewProjectService(db *gorm.DB, baseLog *logger.Logger, projectRepo repos.ProjectRepo) ProjectService {
	serviceLog := baseLog.With("service", "ProjectService")
	return &projectService{db: db, log: serviceLog, projectRepo: projectRepo}
}

func (ps *projectService) CreateProject(ctx context.Context, userID uuid.UUID, title, format, genre string) (*types.Project, error) {
	if title == "" {
		return nil, fmt.Errorf("title required")
	}
	project := &types.Project{
		ID:     uuid.New(),
		UserID: userID,
		Title:  title,
		Format: format,
		Genre:  genre,
		Stage:  "development",
	}
	if _, err := ps.projectRepo.Create(ctx, nil, []*types.Project{project}); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

func (ps *projectService) GetUserProjects(ctx context.Context, userID uuid.UUID) ([]*types.Project, error) {
	return ps.projectRepo.GetByUserID(ctx, nil, userID)
}

func (ps *projectService) EnsureOwned(ctx context.Context, userID, projectID uuid.UUID) error {
	projects, err := ps.projectRepo.GetByIDs(ctx, nil, []uuid.UUID{projectID})
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	if len(projects) == 0 || projects[0].UserID != userID {
		return fmt.Errorf("project not found")
	}
	return nil
}
