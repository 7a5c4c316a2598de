package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/types"
)

type StressTestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, stressTests []*types.StressTest) ([]*types.StressTest, error)
	GetLatest(ctx context.Context, tx *gorm.DB, projectID, scenarioID uuid.UUID) (*types.StressTest, error)
}

type stressTestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStressTestRepo(db *gorm.DB, baseLog *logger.Logger) StressTestRepo {
	repoLog := baseLog.With("repo", "StressTestRepo")
	return &stressTestRepo{db: db, log: repoLog}
}

func (str *stressTestRepo) Create(ctx context.Context, tx *gorm.DB, stressTests []*types.StressTest) ([]*types.StressTest, error) {
	transaction := tx
	if transaction == nil {
		transaction = str.db
	}
	if len(stressTests) == 0 {
		return []*types.StressTest{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&stressTests).Error; err != nil {
		return nil, err
	}
	return stressTests, nil
}

func (str *stressTestRepo) GetLatest(ctx context.Context, tx *gorm.DB, projectID, scenarioID uuid.UUID) (*types.StressTest, error) {
	transaction := tx
	if transaction == nil {
		transaction = str.db
	}
	var result types.StressTest
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
