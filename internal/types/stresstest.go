package types

import (
	"time"

	"github.com/google/uuid"
)

// StressTest is the latest fragility assessment for a scenario, latest-wins
// like Projection.
type StressTest struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID       uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	ScenarioID      uuid.UUID `gorm:"type:uuid;not null;index" json:"scenario_id"`
	Scenario        *Scenario `gorm:"constraint:OnDelete:CASCADE;foreignKey:ScenarioID;references:ID" json:"scenario,omitempty"`
	FragilityScore  *float64  `gorm:"column:fragility_score" json:"fragility_score,omitempty"`
	VolatilityIndex *float64  `gorm:"column:volatility_index" json:"volatility_index,omitempty"`
	CreatedAt       time.Time `gorm:"not null;index" json:"created_at"`
}

func (StressTest) TableName() string { return "stress_test" }
