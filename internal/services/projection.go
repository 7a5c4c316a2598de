package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateline/slateline-backend/internal/cache"
	"github.com/slateline/slateline-backend/internal/clients/compute"
	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/repos"
	"github.com/slateline/slateline-backend/internal/scenario"
	"github.com/slateline/slateline-backend/internal/sse"
	"github.com/slateline/slateline-backend/internal/types"
)

// ProjectionService wraps the remote compute functions, persisting their
// results and logging decision events. The computation itself is opaque: the
// response shape is stored as received, never validated for correctness.
type ProjectionService interface {
	RunProjection(ctx context.Context, projectID, scenarioID uuid.UUID, months int, overrides map[string]any) (*types.Projection, error)
	RunStressTest(ctx context.Context, projectID, scenarioID uuid.UUID) (*types.StressTest, error)
	ComputeRecommendation(ctx context.Context, projectID uuid.UUID) (*types.Scenario, error)
}

type projectionService struct {
	db                *gorm.DB
	log               *logger.Logger
	scenarioRepo      repos.ScenarioRepo
	projectionRepo    repos.ProjectionRepo
	stressTestRepo    repos.StressTestRepo
	decisionEventRepo repos.DecisionEventRepo
	computeClient     *compute.Client
	invalidator       cache.Invalidator
	sseHub            *sse.SSEHub
}

func NewProjectionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	scenarioRepo repos.ScenarioRepo,
	projectionRepo repos.ProjectionRepo,
	stressTestRepo repos.StressTestRepo,
	decisionEventRepo repos.DecisionEventRepo,
	computeClient *compute.Client,
	invalidator cache.Invalidator,
	sseHub *sse.SSEHub,
) ProjectionService {
	serviceLog := baseLog.With("service", "ProjectionService")
	return &projectionService{
		db:                db,
		log:               serviceLog,
		scenarioRepo:      scenarioRepo,
		projectionRepo:    projectionRepo,
		stressTestRepo:    stressTestRepo,
		decisionEventRepo: decisionEventRepo,
		computeClient:     computeClient,
		invalidator:       invalidator,
		sseHub:            sseHub,
	}
}

func (ps *projectionService) RunProjection(ctx context.Context, projectID, scenarioID uuid.UUID, months int, overrides map[string]any) (*types.Projection, error) {
	if err := ps.requireScenario(ctx, projectID, scenarioID); err != nil {
		return nil, err
	}
	if months <= 0 {
		months = 24
	}

	var result compute.ProjectionResult
	req := compute.ProjectionRequest{
		ProjectID:           projectID,
		ScenarioID:          scenarioID,
		Months:              months,
		AssumptionOverrides: overrides,
	}
	if err := ps.computeClient.Invoke(ctx, compute.FnScenarioProjections, req, &result); err != nil {
		return nil, err
	}

	summary, _ := json.Marshal(result.Summary)
	series, _ := json.Marshal(result.Series)
	projection := &types.Projection{
		ID:                  uuid.New(),
		ProjectID:           projectID,
		ScenarioID:          scenarioID,
		Summary:             summary,
		Series:              series,
		Months:              result.Months,
		ProjectionRiskScore: result.ProjectionRiskScore,
	}
	if projection.Months == 0 {
		projection.Months = months
	}

	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ps.projectionRepo.Create(ctx, tx, []*types.Projection{projection}); err != nil {
			return fmt.Errorf("create projection: %w", err)
		}
		event := &types.DecisionEvent{
			ID:         uuid.New(),
			ProjectID:  projectID,
			EventType:  scenario.EventProjectionCompleted,
			ScenarioID: &scenarioID,
		}
		if _, err := ps.decisionEventRepo.Append(ctx, tx, []*types.DecisionEvent{event}); err != nil {
			return fmt.Errorf("append decision event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := ps.invalidator.Invalidate(ctx, cache.KindProjection, projectID, scenarioID); err != nil {
		return nil, fmt.Errorf("invalidate caches: %w", err)
	}
	ps.sseHub.Broadcast(sse.SSEMessage{
		Channel: sse.ProjectChannel(projectID),
		Event:   sse.SSEEventProjectionCompleted,
		Data:    map[string]any{"scenario_id": scenarioID},
	})
	return projection, nil
}

func (ps *projectionService) RunStressTest(ctx context.Context, projectID, scenarioID uuid.UUID) (*types.StressTest, error) {
	if err := ps.requireScenario(ctx, projectID, scenarioID); err != nil {
		return nil, err
	}

	var result compute.StressTestResult
	req := compute.StressTestRequest{ProjectID: projectID, ScenarioID: scenarioID}
	if err := ps.computeClient.Invoke(ctx, compute.FnScenarioStressTest, req, &result); err != nil {
		return nil, err
	}

	stressTest := &types.StressTest{
		ID:              uuid.New(),
		ProjectID:       projectID,
		ScenarioID:      scenarioID,
		FragilityScore:  result.FragilityScore,
		VolatilityIndex: result.VolatilityIndex,
	}
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ps.stressTestRepo.Create(ctx, tx, []*types.StressTest{stressTest}); err != nil {
			return fmt.Errorf("create stress test: %w", err)
		}
		event := &types.DecisionEvent{
			ID:         uuid.New(),
			ProjectID:  projectID,
			EventType:  scenario.EventStressTestCompleted,
			ScenarioID: &scenarioID,
		}
		if _, err := ps.decisionEventRepo.Append(ctx, tx, []*types.DecisionEvent{event}); err != nil {
			return fmt.Errorf("append decision event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := ps.invalidator.Invalidate(ctx, cache.KindStressTest, projectID, scenarioID); err != nil {
		return nil, fmt.Errorf("invalidate caches: %w", err)
	}
	ps.sseHub.Broadcast(sse.SSEMessage{
		Channel: sse.ProjectChannel(projectID),
		Event:   sse.SSEEventStressTestCompleted,
		Data:    map[string]any{"scenario_id": scenarioID},
	})
	return stressTest, nil
}

// ComputeRecommendation asks the remote ranker which scenario it currently
// favors, flags it, and records why the recommendation changed.
func (ps *projectionService) ComputeRecommendation(ctx context.Context, projectID uuid.UUID) (*types.Scenario, error) {
	var result compute.RecommendationResult
	req := compute.RecommendationRequest{ProjectID: projectID}
	if err := ps.computeClient.Invoke(ctx, compute.FnRecommendationCompute, req, &result); err != nil {
		return nil, err
	}
	if result.ScenarioID == uuid.Nil {
		return nil, fmt.Errorf("recommendation compute returned no scenario")
	}
	if err := ps.requireScenario(ctx, projectID, result.ScenarioID); err != nil {
		return nil, err
	}

	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ps.scenarioRepo.SetRecommended(ctx, tx, projectID, result.ScenarioID, result.RankScore); err != nil {
			return fmt.Errorf("set recommended: %w", err)
		}
		payload, _ := json.Marshal(map[string]any{
			"change_reasons": result.ChangeReasons,
			"rank_score":     result.RankScore,
		})
		event := &types.DecisionEvent{
			ID:         uuid.New(),
			ProjectID:  projectID,
			EventType:  scenario.EventRecommendationComputed,
			ScenarioID: &result.ScenarioID,
			Payload:    payload,
		}
		if _, err := ps.decisionEventRepo.Append(ctx, tx, []*types.DecisionEvent{event}); err != nil {
			return fmt.Errorf("append decision event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := ps.invalidator.Invalidate(ctx, cache.KindRecommendation, projectID, result.ScenarioID); err != nil {
		return nil, fmt.Errorf("invalidate caches: %w", err)
	}

	scenarios, err := ps.scenarioRepo.GetByIDs(ctx, nil, []uuid.UUID{result.ScenarioID})
	if err != nil || len(scenarios) == 0 {
		return nil, fmt.Errorf("load recommended scenario: %w", err)
	}
	return scenarios[0], nil
}

func (ps *projectionService) requireScenario(ctx context.Context, projectID, scenarioID uuid.UUID) error {
	scenarios, err := ps.scenarioRepo.GetByIDs(ctx, nil, []uuid.UUID{scenarioID})
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	if len(scenarios) == 0 || scenarios[0].ProjectID != projectID || scenarios[0].IsArchived {
		return fmt.Errorf("scenario not found or archived")
	}
	return nil
}
