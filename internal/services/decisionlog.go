package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/repos"
	"github.com/slateline/slateline-backend/internal/scenario"
	"github.com/slateline/slateline-backend/internal/types"
)

// DecisionLogEntry is one rendered event: the immutable row plus its badge
// and the follow-up actions valid for it.
type DecisionLogEntry struct {
	Event                *types.DecisionEvent    `json:"event"`
	Rendering            scenario.EventRendering `json:"rendering"`
	ScenarioName         string                  `json:"scenario_name,omitempty"`
	PreviousScenarioName string                  `json:"previous_scenario_name,omitempty"`
}

const decisionLogLimit = 20

type DecisionLogService interface {
	Latest(ctx context.Context, projectID uuid.UUID) ([]DecisionLogEntry, error)
}

type decisionLogService struct {
	db                *gorm.DB
	log               *logger.Logger
	decisionEventRepo repos.DecisionEventRepo
	scenarioRepo      repos.ScenarioRepo
}

func NewDecisionLogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	decisionEventRepo repos.DecisionEventRepo,
	scenarioRepo repos.ScenarioRepo,
) DecisionLogService {
	serviceLog := baseLog.With("service", "DecisionLogService")
	return &decisionLogService{
		db:                db,
		log:               serviceLog,
		decisionEventRepo: decisionEventRepo,
		scenarioRepo:      scenarioRepo,
	}
}

func (dls *decisionLogService) Latest(ctx context.Context, projectID uuid.UUID) ([]DecisionLogEntry, error) {
	events, err := dls.decisionEventRepo.GetLatestByProjectID(ctx, nil, projectID, decisionLogLimit)
	if err != nil {
		return nil, fmt.Errorf("load decision events: %w", err)
	}
	// Archived scenarios stay resolvable for display; the log is history.
	scenarios, err := dls.scenarioRepo.GetAllByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("load scenarios: %w", err)
	}
	byID := make(map[uuid.UUID]*types.Scenario, len(scenarios))
	for _, sc := range scenarios {
		byID[sc.ID] = sc
	}

	entries := make([]DecisionLogEntry, 0, len(events))
	for _, ev := range events {
		rendering := scenario.RenderEvent(ev)
		// Scenario-bound actions need a reference that still resolves.
		if ev.ScenarioID != nil {
			if _, ok := byID[*ev.ScenarioID]; !ok {
				rendering.Actions = filterActions(rendering.Actions, scenario.ActionBranch)
			}
		}
		entries = append(entries, DecisionLogEntry{
			Event:                ev,
			Rendering:            rendering,
			ScenarioName:         scenario.DisplayName(byID, ev.ScenarioID),
			PreviousScenarioName: scenario.DisplayName(byID, ev.PreviousScenarioID),
		})
	}
	return entries, nil
}

func filterActions(actions []scenario.EventAction, keep ...scenario.EventAction) []scenario.EventAction {
	keepSet := make(map[scenario.EventAction]bool, len(keep))
	for _, a := range keep {
		keepSet[a] = true
	}
	var out []scenario.EventAction
	for _, a := range actions {
		if keepSet[a] {
			out = append(out, a)
		}
	}
	return out
}
