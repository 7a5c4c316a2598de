package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Projection is the latest computed financial/schedule forecast for a
// scenario. Summary is a JSON array of human-readable strings; Series is a
// JSON array of period snapshots whose last element carries the point-in-time
// budget. Only the most recently created row per scenario is consumed.
type Projection struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	ScenarioID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"scenario_id"`
	Scenario            *Scenario      `gorm:"constraint:OnDelete:CASCADE;foreignKey:ScenarioID;references:ID" json:"scenario,omitempty"`
	Summary             datatypes.JSON `gorm:"column:summary;type:jsonb" json:"summary"`
	Series              datatypes.JSON `gorm:"column:series;type:jsonb" json:"series"`
	Months              int            `gorm:"column:months;not null;default:0" json:"months"`
	ProjectionRiskScore *float64       `gorm:"column:projection_risk_score" json:"projection_risk_score,omitempty"`
	CreatedAt           time.Time      `gorm:"not null;index" json:"created_at"`
}

func (Projection) TableName() string { return "projection" }

// PeriodSnapshot is the decoded shape of one Series element.
type PeriodSnapshot struct {
	Period int      `json:"period"`
	Budget *float64 `json:"budget,omitempty"`
	Spend  *float64 `json:"spend,omitempty"`
}
