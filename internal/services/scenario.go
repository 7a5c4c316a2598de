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

type ScenarioService interface {
	ListScenarios(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Scenario, error)
	Activate(ctx context.Context, projectID, scenarioID uuid.UUID) error
	TogglePin(ctx context.Context, projectID, scenarioID uuid.UUID) (bool, error)
	Archive(ctx context.Context, projectID, scenarioID uuid.UUID) error
	Branch(ctx context.Context, projectID, scenarioID uuid.UUID, sourceEventID *uuid.UUID, name string) (*types.Scenario, error)
}

type scenarioService struct {
	db                *gorm.DB
	log               *logger.Logger
	scenarioRepo      repos.ScenarioRepo
	decisionEventRepo repos.DecisionEventRepo
	computeClient     *compute.Client
	invalidator       cache.Invalidator
	sseHub            *sse.SSEHub
}

func NewScenarioService(
	db *gorm.DB,
	baseLog *logger.Logger,
	scenarioRepo repos.ScenarioRepo,
	decisionEventRepo repos.DecisionEventRepo,
	computeClient *compute.Client,
	invalidator cache.Invalidator,
	sseHub *sse.SSEHub,
) ScenarioService {
	serviceLog := baseLog.With("service", "ScenarioService")
	return &scenarioService{
		db:                db,
		log:               serviceLog,
		scenarioRepo:      scenarioRepo,
		decisionEventRepo: decisionEventRepo,
		computeClient:     computeClient,
		invalidator:       invalidator,
		sseHub:            sseHub,
	}
}

func (ss *scenarioService) ListScenarios(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Scenario, error) {
	return ss.scenarioRepo.GetLiveByProjectID(ctx, tx, projectID)
}

// Activate makes the scenario the operative plan, recording the previous one
// on the decision event. The write and the event share a transaction; cache
// invalidation happens after commit, before the caller sees success.
func (ss *scenarioService) Activate(ctx context.Context, projectID, scenarioID uuid.UUID) error {
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scenarios, err := ss.scenarioRepo.GetLiveByProjectID(ctx, tx, projectID)
		if err != nil {
			return fmt.Errorf("load scenarios: %w", err)
		}
		target := findScenario(scenarios, scenarioID)
		if target == nil {
			return fmt.Errorf("scenario not found or archived")
		}
		active := scenario.ResolveActive(scenarios)
		if active.Conflicts > 0 {
			ss.log.Warn("multiple active scenarios detected; first match wins", "project_id", projectID, "conflicts", active.Conflicts)
		}
		if err := ss.scenarioRepo.SetActive(ctx, tx, projectID, scenarioID); err != nil {
			return fmt.Errorf("set active: %w", err)
		}
		event := &types.DecisionEvent{
			ID:         uuid.New(),
			ProjectID:  projectID,
			EventType:  scenario.EventActiveScenarioChanged,
			ScenarioID: &scenarioID,
		}
		if active.Scenario != nil {
			prevID := active.Scenario.ID
			event.PreviousScenarioID = &prevID
		}
		if _, err := ss.decisionEventRepo.Append(ctx, tx, []*types.DecisionEvent{event}); err != nil {
			return fmt.Errorf("append decision event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := ss.invalidator.Invalidate(ctx, cache.KindActivate, projectID, scenarioID); err != nil {
		return fmt.Errorf("invalidate caches: %w", err)
	}
	ss.sseHub.Broadcast(sse.SSEMessage{
		Channel: sse.ProjectChannel(projectID),
		Event:   sse.SSEEventActiveChanged,
		Data:    map[string]any{"scenario_id": scenarioID},
	})
	return nil
}

func (ss *scenarioService) TogglePin(ctx context.Context, projectID, scenarioID uuid.UUID) (bool, error) {
	scenarios, err := ss.scenarioRepo.GetByIDs(ctx, nil, []uuid.UUID{scenarioID})
	if err != nil {
		return false, fmt.Errorf("load scenario: %w", err)
	}
	if len(scenarios) == 0 || scenarios[0].ProjectID != projectID {
		return false, fmt.Errorf("scenario not found")
	}
	pinned := !scenarios[0].Pinned
	if err := ss.scenarioRepo.SetPinned(ctx, nil, scenarioID, pinned); err != nil {
		return false, fmt.Errorf("set pinned: %w", err)
	}
	if err := ss.invalidator.Invalidate(ctx, cache.KindPin, projectID, scenarioID); err != nil {
		return false, fmt.Errorf("invalidate caches: %w", err)
	}
	return pinned, nil
}

func (ss *scenarioService) Archive(ctx context.Context, projectID, scenarioID uuid.UUID) error {
	scenarios, err := ss.scenarioRepo.GetByIDs(ctx, nil, []uuid.UUID{scenarioID})
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	if len(scenarios) == 0 || scenarios[0].ProjectID != projectID {
		return fmt.Errorf("scenario not found")
	}
	if err := ss.scenarioRepo.Archive(ctx, nil, scenarioID); err != nil {
		return fmt.Errorf("archive scenario: %w", err)
	}
	if err := ss.invalidator.Invalidate(ctx, cache.KindArchive, projectID, scenarioID); err != nil {
		return fmt.Errorf("invalidate caches: %w", err)
	}
	return nil
}

// Branch seeds a new derived scenario from an existing one, optionally from a
// historical recommendation snapshot. The seeding itself is remote compute;
// this layer persists the returned scenario and logs the event.
func (ss *scenarioService) Branch(ctx context.Context, projectID, scenarioID uuid.UUID, sourceEventID *uuid.UUID, name string) (*types.Scenario, error) {
	scenarios, err := ss.scenarioRepo.GetByIDs(ctx, nil, []uuid.UUID{scenarioID})
	if err != nil {
		return nil, fmt.Errorf("load scenario: %w", err)
	}
	if len(scenarios) == 0 || scenarios[0].ProjectID != projectID {
		return nil, fmt.Errorf("scenario not found")
	}
	parent := scenarios[0]

	var result compute.BranchResult
	req := compute.BranchRequest{
		ProjectID:     projectID,
		ScenarioID:    scenarioID,
		SourceEventID: sourceEventID,
		Name:          name,
	}
	if err := ss.computeClient.Invoke(ctx, compute.FnScenarioBranch, req, &result); err != nil {
		return nil, err
	}
	branchName := result.Name
	if branchName == "" {
		branchName = name
	}
	if branchName == "" {
		branchName = parent.Name + " (branch)"
	}

	branch := &types.Scenario{
		ID:             uuid.New(),
		ProjectID:      projectID,
		Name:           branchName,
		ScenarioType:   "derived",
		BranchedFromID: &scenarioID,
	}
	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ss.scenarioRepo.Create(ctx, tx, []*types.Scenario{branch}); err != nil {
			return fmt.Errorf("create branch scenario: %w", err)
		}
		payload, _ := json.Marshal(map[string]any{
			"branched_from": scenarioID,
			"source_event":  sourceEventID,
		})
		event := &types.DecisionEvent{
			ID:         uuid.New(),
			ProjectID:  projectID,
			EventType:  scenario.EventBranchCreated,
			ScenarioID: &branch.ID,
			Payload:    payload,
		}
		if _, err := ss.decisionEventRepo.Append(ctx, tx, []*types.DecisionEvent{event}); err != nil {
			return fmt.Errorf("append decision event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := ss.invalidator.Invalidate(ctx, cache.KindBranch, projectID, branch.ID); err != nil {
		return nil, fmt.Errorf("invalidate caches: %w", err)
	}
	return branch, nil
}

func findScenario(scenarios []*types.Scenario, id uuid.UUID) *types.Scenario {
	for _, sc := range scenarios {
		if sc != nil && sc.ID == id {
			return sc
		}
	}
	return nil
}
