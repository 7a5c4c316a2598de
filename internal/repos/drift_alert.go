package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/types"
)

type DriftAlertRepo interface {
	Create(ctx context.Context, tx *gorm.DB, alerts []*types.DriftAlert) ([]*types.DriftAlert, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, alertIDs []uuid.UUID) ([]*types.DriftAlert, error)
	GetUnacked(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, scenarioID *uuid.UUID) ([]*types.DriftAlert, error)
	// CountUnacked partitions the scenario's unacknowledged alerts by severity.
	CountUnacked(ctx context.Context, tx *gorm.DB, projectID, scenarioID uuid.UUID) (types.DriftCounts, error)
	Acknowledge(ctx context.Context, tx *gorm.DB, alertID uuid.UUID) error
	// ClearByScenario bulk-deletes every unacknowledged alert for the scenario.
	ClearByScenario(ctx context.Context, tx *gorm.DB, projectID, scenarioID uuid.UUID) error
}

type driftAlertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDriftAlertRepo(db *gorm.DB, baseLog *logger.Logger) DriftAlertRepo {
	repoLog := baseLog.With("repo", "DriftAlertRepo")
	return &driftAlertRepo{db: db, log: repoLog}
}

func (dr *driftAlertRepo) Create(ctx context.Context, tx *gorm.DB, alerts []*types.DriftAlert) ([]*types.DriftAlert, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	if len(alerts) == 0 {
		return []*types.DriftAlert{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&alerts).Error; err != nil {
		return nil, err
	}
	return alerts, nil
}

func (dr *driftAlertRepo) GetByIDs(ctx context.Context, tx *gorm.DB, alertIDs []uuid.UUID) ([]*types.DriftAlert, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var results []*types.DriftAlert
	if len(alertIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", alertIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *driftAlertRepo) GetUnacked(ctx context.Context, tx *gorm.DB, projectID uuid.UUID, scenarioID *uuid.UUID) ([]*types.DriftAlert, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	query := transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Where("acknowledged = ?", false)
	if scenarioID != nil {
		query = query.Where("scenario_id = ?", *scenarioID)
	}
	var results []*types.DriftAlert
	if err := query.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (dr *driftAlertRepo) CountUnacked(ctx context.Context, tx *gorm.DB, projectID, scenarioID uuid.UUID) (types.DriftCounts, error) {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	var counts types.DriftCounts
	var rows []struct {
		Severity string
		Total    int64
	}
	if err := transaction.WithContext(ctx).
		Model(&types.DriftAlert{}).
		Select("severity, COUNT(*) AS total").
		Where("project_id = ?", projectID).
		Where("scenario_id = ?", scenarioID).
		Where("acknowledged = ?", false).
		Group("severity").
		Find(&rows).Error; err != nil {
		return counts, err
	}
	for _, row := range rows {
		switch row.Severity {
		case types.DriftSeverityCritical:
			counts.Critical = row.Total
		case types.DriftSeverityWarning:
			counts.Warning = row.Total
		case types.DriftSeverityInfo:
			counts.Info = row.Total
		}
	}
	return counts, nil
}

func (dr *driftAlertRepo) Acknowledge(ctx context.Context, tx *gorm.DB, alertID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.DriftAlert{}).
		Where("id = ?", alertID).
		Update("acknowledged", true).Error
}

func (dr *driftAlertRepo) ClearByScenario(ctx context.Context, tx *gorm.DB, projectID, scenarioID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = dr.db
	}
	return transaction.WithContext(ctx).
		Where("project_id = ?", projectID).
		Where("scenario_id = ?", scenarioID).
		Where("acknowledged = ?", false).
		Delete(&types.DriftAlert{}).Error
}
