package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	DriftSeverityInfo     = "info"
	DriftSeverityWarning  = "warning"
	DriftSeverityCritical = "critical"
)

// DriftAlert records a deviation of a scenario's live metrics from its plan.
// Only acknowledged = false rows count toward the scenario's active drift
// profile.
type DriftAlert struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID    uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	ScenarioID   uuid.UUID `gorm:"type:uuid;not null;index" json:"scenario_id"`
	Scenario     *Scenario `gorm:"constraint:OnDelete:CASCADE;foreignKey:ScenarioID;references:ID" json:"scenario,omitempty"`
	Severity     string    `gorm:"column:severity;not null;default:info" json:"severity"`
	Layer        string    `gorm:"column:layer" json:"layer"`
	MetricKey    string    `gorm:"column:metric_key" json:"metric_key"`
	CurrentValue *float64  `gorm:"column:current_value" json:"current_value,omitempty"`
	Acknowledged bool      `gorm:"column:acknowledged;not null;default:false;index" json:"acknowledged"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (DriftAlert) TableName() string { return "drift_alert" }

// DriftCounts is an unacknowledged-alert count partitioned by severity.
type DriftCounts struct {
	Critical int64 `json:"critical"`
	Warning  int64 `json:"warning"`
	Info     int64 `json:"info"`
}
