package types

import (
	"time"

	"github.com/google/uuid"
)

const ScenarioTypeBaseline = "baseline"

type Scenario struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"project_id"`
	Project        *Project   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Name           string     `gorm:"column:name;not null" json:"name"`
	ScenarioType   string     `gorm:"column:scenario_type;not null;default:derived" json:"scenario_type"`
	IsActive       bool       `gorm:"column:is_active;not null;default:false" json:"is_active"`
	IsRecommended  bool       `gorm:"column:is_recommended;not null;default:false" json:"is_recommended"`
	Pinned         bool       `gorm:"column:pinned;not null;default:false" json:"pinned"`
	RankScore      *float64   `gorm:"column:rank_score" json:"rank_score,omitempty"`
	IsArchived     bool       `gorm:"column:is_archived;not null;default:false" json:"is_archived"`
	BranchedFromID *uuid.UUID `gorm:"type:uuid;column:branched_from_id" json:"branched_from_id,omitempty"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (Scenario) TableName() string { return "scenario" }
