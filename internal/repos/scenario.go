package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/types"
)

type ScenarioRepo interface {
	Create(ctx context.Context, tx *gorm.DB, scenarios []*types.Scenario) ([]*types.Scenario, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, scenarioIDs []uuid.UUID) ([]*types.Scenario, error)
	// GetLiveByProjectID returns non-archived scenarios ordered by created_at
	// ascending so "first match" resolution is deterministic.
	GetLiveByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Scenario, error)
	GetAllByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Scenario, error)
	SetActive(ctx context.Context, tx *gorm.DB, projectID, scenarioID uuid.UUID) error
	SetRecommended(ctx context.Context, tx *gorm.DB, projectID, scenarioID uuid.UUID, rankScore *float64) error
	SetPinned(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID, pinned bool) error
	Archive(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID) error
}

type scenarioRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScenarioRepo(db *gorm.DB, baseLog *logger.Logger) ScenarioRepo {
	repoLog := baseLog.With("repo", "ScenarioRepo")
	return &scenarioRepo{db: db, log: repoLog}
}

func (sr *scenarioRepo) Create(ctx context.Context, tx *gorm.DB, scenarios []*types.Scenario) ([]*types.Scenario, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if len(scenarios) == 0 {
		return []*types.Scenario{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&scenarios).Error; err != nil {
		return nil, err
	}
	return scenarios, nil
}

func (sr *scenarioRepo) GetByIDs(ctx context.Context, tx *gorm.DB, scenarioIDs []uuid.UUID) ([]*types.Scenario, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Scenario
	if len(scenarioIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", scenarioIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *scenarioRepo) GetLiveByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Scenario, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Scenario
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Where("is_archived = ?", false).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *scenarioRepo) GetAllByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Scenario, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var results []*types.Scenario
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// SetActive clears the active flag across the project, then sets it on the
// given scenario. At most one scenario is active per project.
func (sr *scenarioRepo) SetActive(ctx context.Context, tx *gorm.DB, projectID, scenarioID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Scenario{}).
		Where("project_id = ?", projectID).
		Where("is_active = ?", true).
		Update("is_active", false).Error; err != nil {
		return err
	}
	return transaction.WithContext(ctx).
		Model(&types.Scenario{}).
		Where("id = ?", scenarioID).
		Update("is_active", true).Error
}

func (sr *scenarioRepo) SetRecommended(ctx context.Context, tx *gorm.DB, projectID, scenarioID uuid.UUID, rankScore *float64) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Scenario{}).
		Where("project_id = ?", projectID).
		Where("is_recommended = ?", true).
		Update("is_recommended", false).Error; err != nil {
		return err
	}
	updates := map[string]any{"is_recommended": true}
	if rankScore != nil {
		updates["rank_score"] = *rankScore
	}
	return transaction.WithContext(ctx).
		Model(&types.Scenario{}).
		Where("id = ?", scenarioID).
		Updates(updates).Error
}

func (sr *scenarioRepo) SetPinned(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID, pinned bool) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Scenario{}).
		Where("id = ?", scenarioID).
		Update("pinned", pinned).Error
}

// Archive soft-deletes: the row stays but leaves every live view. Archived
// scenarios also give up their active/recommended roles.
func (sr *scenarioRepo) Archive(ctx context.Context, tx *gorm.DB, scenarioID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Scenario{}).
		Where("id = ?", scenarioID).
		Updates(map[string]any{
			"is_archived":    true,
			"is_active":      false,
			"is_recommended": false,
		}).Error
}
