package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateline/slateline-backend/internal/cache"
	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/repos"
	"github.com/slateline/slateline-backend/internal/sse"
	"github.com/slateline/slateline-backend/internal/types"
)

type DriftService interface {
	ListUnacked(ctx context.Context, projectID uuid.UUID, scenarioID *uuid.UUID) ([]*types.DriftAlert, error)
	Counts(ctx context.Context, projectID, scenarioID uuid.UUID) (types.DriftCounts, error)
	Acknowledge(ctx context.Context, projectID, alertID uuid.UUID) error
	Clear(ctx context.Context, projectID, scenarioID uuid.UUID) error
}

type driftService struct {
	db             *gorm.DB
	log            *logger.Logger
	driftAlertRepo repos.DriftAlertRepo
	invalidator    cache.Invalidator
	sseHub         *sse.SSEHub
}

func NewDriftService(
	db *gorm.DB,
	baseLog *logger.Logger,
	driftAlertRepo repos.DriftAlertRepo,
	invalidator cache.Invalidator,
	sseHub *sse.SSEHub,
) DriftService {
	serviceLog := baseLog.With("service", "DriftService")
	return &driftService{
		db:             db,
		log:            serviceLog,
		driftAlertRepo: driftAlertRepo,
		invalidator:    invalidator,
		sseHub:         sseHub,
	}
}

func (ds *driftService) ListUnacked(ctx context.Context, projectID uuid.UUID, scenarioID *uuid.UUID) ([]*types.DriftAlert, error) {
	return ds.driftAlertRepo.GetUnacked(ctx, nil, projectID, scenarioID)
}

func (ds *driftService) Counts(ctx context.Context, projectID, scenarioID uuid.UUID) (types.DriftCounts, error) {
	if cached, err := ds.invalidator.GetDriftCounts(ctx, projectID, scenarioID); err == nil && cached != nil {
		return *cached, nil
	}
	counts, err := ds.driftAlertRepo.CountUnacked(ctx, nil, projectID, scenarioID)
	if err != nil {
		return counts, err
	}
	if err := ds.invalidator.SetDriftCounts(ctx, projectID, scenarioID, counts); err != nil {
		ds.log.Warn("drift count cache set failed", "error", err, "scenario_id", scenarioID)
	}
	return counts, nil
}

// Acknowledge marks one alert seen. The cached counts for its scenario must
// be gone before the caller observes success.
func (ds *driftService) Acknowledge(ctx context.Context, projectID, alertID uuid.UUID) error {
	alerts, err := ds.driftAlertRepo.GetByIDs(ctx, nil, []uuid.UUID{alertID})
	if err != nil {
		return fmt.Errorf("load alert: %w", err)
	}
	if len(alerts) == 0 || alerts[0].ProjectID != projectID {
		return fmt.Errorf("alert not found")
	}
	alert := alerts[0]
	if err := ds.driftAlertRepo.Acknowledge(ctx, nil, alertID); err != nil {
		return fmt.Errorf("acknowledge alert: %w", err)
	}
	if err := ds.invalidator.Invalidate(ctx, cache.KindDriftAck, projectID, alert.ScenarioID); err != nil {
		return fmt.Errorf("invalidate caches: %w", err)
	}
	ds.sseHub.Broadcast(sse.SSEMessage{
		Channel: sse.ProjectChannel(projectID),
		Event:   sse.SSEEventDriftAcknowledged,
		Data:    map[string]any{"scenario_id": alert.ScenarioID, "alert_id": alertID},
	})
	return nil
}

// Clear bulk-removes every unacknowledged alert for the scenario. Both the
// standalone drift panel and the comparison cards read the invalidated keys.
func (ds *driftService) Clear(ctx context.Context, projectID, scenarioID uuid.UUID) error {
	if err := ds.driftAlertRepo.ClearByScenario(ctx, nil, projectID, scenarioID); err != nil {
		return fmt.Errorf("clear alerts: %w", err)
	}
	if err := ds.invalidator.Invalidate(ctx, cache.KindDriftClear, projectID, scenarioID); err != nil {
		return fmt.Errorf("invalidate caches: %w", err)
	}
	ds.sseHub.Broadcast(sse.SSEMessage{
		Channel: sse.ProjectChannel(projectID),
		Event:   sse.SSEEventDriftCleared,
		Data:    map[string]any{"scenario_id": scenarioID},
	})
	return nil
}
