package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/slateline/slateline-backend/internal/cache"
	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/repos"
	"github.com/slateline/slateline-backend/internal/scenario"
	"github.com/slateline/slateline-backend/internal/types"
)

// ComparisonResult is the full cockpit comparison: up to three slot cards and
// the Recommended-vs-Baseline delta row. Nil Slots means no comparison is
// possible and the view is suppressed entirely.
type ComparisonResult struct {
	Slots             []scenario.SlotCard       `json:"slots"`
	Deltas            *scenario.DeltaRow        `json:"deltas,omitempty"`
	RecommendedSource scenario.ResolutionSource `json:"recommended_source"`
}

type ComparisonService interface {
	Compose(ctx context.Context, projectID uuid.UUID, explicitRecommendedID *uuid.UUID) (*ComparisonResult, error)
}

type comparisonService struct {
	db             *gorm.DB
	log            *logger.Logger
	scenarioRepo   repos.ScenarioRepo
	projectionRepo repos.ProjectionRepo
	stressTestRepo repos.StressTestRepo
	driftAlertRepo repos.DriftAlertRepo
	invalidator    cache.Invalidator
}

func NewComparisonService(
	db *gorm.DB,
	baseLog *logger.Logger,
	scenarioRepo repos.ScenarioRepo,
	projectionRepo repos.ProjectionRepo,
	stressTestRepo repos.StressTestRepo,
	driftAlertRepo repos.DriftAlertRepo,
	invalidator cache.Invalidator,
) ComparisonService {
	serviceLog := baseLog.With("service", "ComparisonService")
	return &comparisonService{
		db:             db,
		log:            serviceLog,
		scenarioRepo:   scenarioRepo,
		projectionRepo: projectionRepo,
		stressTestRepo: stressTestRepo,
		driftAlertRepo: driftAlertRepo,
		invalidator:    invalidator,
	}
}

func (cs *comparisonService) Compose(ctx context.Context, projectID uuid.UUID, explicitRecommendedID *uuid.UUID) (*ComparisonResult, error) {
	scenarios, err := cs.scenarioRepo.GetLiveByProjectID(ctx, nil, projectID)
	if err != nil {
		return nil, fmt.Errorf("load scenarios: %w", err)
	}

	baseline := scenario.ResolveBaseline(scenarios)
	active := scenario.ResolveActive(scenarios)
	if active.Conflicts > 0 {
		cs.log.Warn("multiple active scenarios detected; first match wins", "project_id", projectID, "conflicts", active.Conflicts)
	}
	recommended := scenario.ResolveRecommended(scenarios, explicitRecommendedID)

	slots := scenario.ComposeSlots(baseline.Scenario, active.Scenario, recommended.Scenario)
	if len(slots) == 0 {
		return &ComparisonResult{RecommendedSource: recommended.Source}, nil
	}

	// Slots are disjoint cards: each fills from its own parallel fetches, and
	// one slot's failure never blocks a sibling.
	cards := make([]scenario.SlotCard, len(slots))
	for i, slot := range slots {
		cards[i] = cs.fillCard(ctx, projectID, slot)
	}

	result := &ComparisonResult{Slots: cards, RecommendedSource: recommended.Source}

	if baseline.Scenario != nil && recommended.Scenario != nil && baseline.Scenario.ID != recommended.Scenario.ID {
		var baseCard, recCard *scenario.SlotCard
		for i := range cards {
			if cards[i].Error != "" {
				continue
			}
			if cards[i].Scenario.ID == baseline.Scenario.ID {
				baseCard = &cards[i]
			}
			if cards[i].Scenario.ID == recommended.Scenario.ID {
				recCard = &cards[i]
			}
		}
		result.Deltas = scenario.BuildDeltaRow(recCard, baseCard)
	}
	return result, nil
}

// fillCard issues the slot's three fetches concurrently. The fetches feed
// disjoint fields, so completion order does not matter.
func (cs *comparisonService) fillCard(ctx context.Context, projectID uuid.UUID, slot scenario.Slot) scenario.SlotCard {
	card := scenario.SlotCard{Scenario: slot.Scenario, Roles: slot.Roles}
	scenarioID := slot.Scenario.ID

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		projection, err := cs.projectionRepo.GetLatest(gctx, nil, projectID, scenarioID)
		if err != nil {
			return fmt.Errorf("latest projection: %w", err)
		}
		card.Metrics = scenario.ExtractMetrics(projection)
		return nil
	})
	g.Go(func() error {
		stressTest, err := cs.stressTestRepo.GetLatest(gctx, nil, projectID, scenarioID)
		if err != nil {
			return fmt.Errorf("latest stress test: %w", err)
		}
		if stressTest != nil {
			card.Fragility = stressTest.FragilityScore
			card.Volatility = stressTest.VolatilityIndex
		}
		return nil
	})
	g.Go(func() error {
		counts, err := cs.driftCounts(gctx, projectID, scenarioID)
		if err != nil {
			return fmt.Errorf("drift counts: %w", err)
		}
		card.DriftCounts = counts
		return nil
	})
	if err := g.Wait(); err != nil {
		cs.log.Error("slot card fetch failed", "error", err, "scenario_id", scenarioID)
		card.Error = err.Error()
	}
	return card
}

func (cs *comparisonService) driftCounts(ctx context.Context, projectID, scenarioID uuid.UUID) (types.DriftCounts, error) {
	if cached, err := cs.invalidator.GetDriftCounts(ctx, projectID, scenarioID); err == nil && cached != nil {
		return *cached, nil
	}
	counts, err := cs.driftAlertRepo.CountUnacked(ctx, nil, projectID, scenarioID)
	if err != nil {
		return counts, err
	}
	if err := cs.invalidator.SetDriftCounts(ctx, projectID, scenarioID, counts); err != nil {
		cs.log.Warn("drift count cache set failed", "error", err, "scenario_id", scenarioID)
	}
	return counts, nil
}
