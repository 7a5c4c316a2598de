package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DecisionEvent is an immutable, append-only log entry recording a system or
// user planning action. Payload shape is interpreted per EventType; rendering
// order is strictly created_at descending.
type DecisionEvent struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id"`
	EventType          string         `gorm:"column:event_type;not null;index" json:"event_type"`
	ScenarioID         *uuid.UUID     `gorm:"type:uuid;column:scenario_id" json:"scenario_id,omitempty"`
	PreviousScenarioID *uuid.UUID     `gorm:"type:uuid;column:previous_scenario_id" json:"previous_scenario_id,omitempty"`
	Payload            datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload,omitempty"`
	CreatedAt          time.Time      `gorm:"not null;index" json:"created_at"`
}

func (DecisionEvent) TableName() string { return "decision_event" }
