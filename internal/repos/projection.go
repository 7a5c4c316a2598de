package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/types"
)

type ProjectionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, projections []*types.Projection) ([]*types.Projection, error)
	// GetLatest returns the most recently created projection for the scenario,
	// or nil when none exists.
	GetLatest(ctx context.Context, tx *gorm.DB, projectID, scenarioID uuid.UUID) (*types.Projection, error)
}

type projectionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectionRepo(db *gorm.DB, baseLog *logger.Logger) ProjectionRepo {
	repoLog := baseLog.With("repo", "ProjectionRepo")
	return &projectionRepo{db: db, log: repoLog}
}

func (pr *projectionRepo) Create(ctx context.Context, tx *gorm.DB, projections []*types.Projection) ([]*types.Projection, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(projections) == 0 {
		return []*types.Projection{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&projections).Error; err != nil {
		return nil, err
	}
	return projections, nil
}

func (pr *projectionRepo) GetLatest(ctx context.Context, tx *gorm.DB, projectID, scenarioID uuid.UUID) (*types.Projection, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.Projection
	err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Where("scenario_id = ?", scenarioID).
		Order("created_at DESC").
		Limit(1).
		Take(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
