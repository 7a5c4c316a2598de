package scenario

import (
	"github.com/google/uuid"

	"github.com/slateline/slateline-backend/internal/types"
)

type SlotRole string

const (
	RoleBaseline    SlotRole = "baseline"
	RoleActive      SlotRole = "active"
	RoleRecommended SlotRole = "recommended"
)

// Slot is one comparison column: a unique scenario plus every role it holds.
// A scenario occupying more than one role collects tags instead of occupying
// a second slot.
type Slot struct {
	Scenario *types.Scenario `json:"scenario"`
	Roles    []SlotRole      `json:"roles"`
}

// SlotCard is a slot filled with its latest metrics, fetched independently of
// the sibling cards.
type SlotCard struct {
	Scenario    *types.Scenario   `json:"scenario"`
	Roles       []SlotRole        `json:"roles"`
	Metrics     Metrics           `json:"metrics"`
	Fragility   *float64          `json:"fragility"`
	Volatility  *float64          `json:"volatility"`
	DriftCounts types.DriftCounts `json:"drift_counts"`
	// Error carries a failed slot fetch without blocking sibling cards.
	Error string `json:"error,omitempty"`
}

// ComposeSlots builds at most three slots in insertion order baseline,
// active, recommended, skipping any scenario id already seen. A nil input
// contributes nothing; all-nil inputs yield a nil slice, which callers treat
// as "no comparison possible" and suppress entirely.
func ComposeSlots(baseline, active, recommended *types.Scenario) []Slot {
	var slots []Slot
	seen := map[uuid.UUID]int{}

	add := func(sc *types.Scenario, role SlotRole) {
		if sc == nil {
			return
		}
		if idx, ok := seen[sc.ID]; ok {
			slots[idx].Roles = append(slots[idx].Roles, role)
			return
		}
		seen[sc.ID] = len(slots)
		slots = append(slots, Slot{Scenario: sc, Roles: []SlotRole{role}})
	}

	add(baseline, RoleBaseline)
	add(active, RoleActive)
	add(recommended, RoleRecommended)
	return slots
}

// HasRole reports whether the slot carries the given tag.
func (s Slot) HasRole(role SlotRole) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (c SlotCard) HasRole(role SlotRole) bool {
	return Slot{Scenario: c.Scenario, Roles: c.Roles}.HasRole(role)
}
