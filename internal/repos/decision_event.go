package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/types"
)

// DecisionEventRepo is append-only: rows are created and read back newest
// first, never updated or deleted.
type DecisionEventRepo interface {
	Append(ctx context.Context, tx *gorm.DB, events []*types.DecisionEvent) ([]*types.DecisionEvent, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, eventIDs []uuid.UUID) ([]*types.DecisionEvent, error)
	GetLatestByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, limit int) ([]*types.DecisionEvent, error)
}

type decisionEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDecisionEventRepo(db *gorm.DB, baseLog *logger.Logger) DecisionEventRepo {
	repoLog := baseLog.With("repo", "DecisionEventRepo")
	return &decisionEventRepo{db: db, log: repoLog}
}

func (der *decisionEventRepo) Append(ctx context.Context, tx *gorm.DB, events []*types.DecisionEvent) ([]*types.DecisionEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = der.db
	}
	if len(events) == 0 {
		return []*types.DecisionEvent{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (der *decisionEventRepo) GetByIDs(ctx context.Context, tx *gorm.DB, eventIDs []uuid.UUID) ([]*types.DecisionEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = der.db
	}
	var results []*types.DecisionEvent
	if len(eventIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", eventIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (der *decisionEventRepo) GetLatestByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, limit int) ([]*types.DecisionEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = der.db
	}
	if limit <= 0 {
		limit = 20
	}
	var results []*types.DecisionEvent
	if err := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
