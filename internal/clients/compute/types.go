package compute

import (
	"github.com/google/uuid"

	"github.com/slateline/slateline-backend/internal/types"
)

type ProjectionRequest struct {
	ProjectID           uuid.UUID      `json:"project_id"`
	ScenarioID          uuid.UUID      `json:"scenario_id"`
	Months              int            `json:"months"`
	AssumptionOverrides map[string]any `json:"assumption_overrides,omitempty"`
}

type ProjectionResult struct {
	Summary             []string               `json:"summary"`
	Series              []types.PeriodSnapshot `json:"series"`
	Months              int                    `json:"months"`
	ProjectionRiskScore *float64               `json:"projection_risk_score"`
}

type StressTestRequest struct {
	ProjectID  uuid.UUID `json:"project_id"`
	ScenarioID uuid.UUID `json:"scenario_id"`
}

type StressTestResult struct {
	FragilityScore  *float64 `json:"fragility_score"`
	VolatilityIndex *float64 `json:"volatility_index"`
}

type RecommendationRequest struct {
	ProjectID uuid.UUID `json:"project_id"`
}

type RecommendationResult struct {
	ScenarioID    uuid.UUID `json:"scenario_id"`
	RankScore     *float64  `json:"rank_score"`
	ChangeReasons []string  `json:"change_reasons"`
}

type BranchRequest struct {
	ProjectID     uuid.UUID  `json:"project_id"`
	ScenarioID    uuid.UUID  `json:"scenario_id"`
	SourceEventID *uuid.UUID `json:"source_event_id,omitempty"`
	Name          string     `json:"name,omitempty"`
}

type BranchResult struct {
	Name        string         `json:"name"`
	Assumptions map[string]any `json:"assumptions,omitempty"`
}
