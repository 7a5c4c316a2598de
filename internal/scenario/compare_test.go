package scenario

import (
	"testing"

	"github.com/google/uuid"

	"github.com/slateline/slateline-backend/internal/types"
)

func TestComposeSlots_ThreeDistinct(t *testing.T) {
	baseline := &types.Scenario{ID: uuid.New()}
	active := &types.Scenario{ID: uuid.New()}
	recommended := &types.Scenario{ID: uuid.New()}

	slots := ComposeSlots(baseline, active, recommended)
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	if slots[0].Scenario.ID != baseline.ID || !slots[0].HasRole(RoleBaseline) {
		t.Fatalf("slot 0 must be the baseline, got %+v", slots[0])
	}
	if slots[1].Scenario.ID != active.ID || slots[2].Scenario.ID != recommended.ID {
		t.Fatal("slots must keep baseline, active, recommended order")
	}
}

func TestComposeSlots_SharedScenarioMergesRoles(t *testing.T) {
	baseline := &types.Scenario{ID: uuid.New()}
	shared := &types.Scenario{ID: uuid.New()}

	slots := ComposeSlots(baseline, shared, shared)
	if len(slots) != 2 {
		t.Fatalf("shared scenario must collapse into one slot, got %d", len(slots))
	}
	merged := slots[1]
	if !merged.HasRole(RoleActive) || !merged.HasRole(RoleRecommended) {
		t.Fatalf("expected merged {active, recommended} roles, got %v", merged.Roles)
	}
	if merged.HasRole(RoleBaseline) {
		t.Fatalf("merged slot must not pick up the baseline role, got %v", merged.Roles)
	}
}

func TestComposeSlots_NilInputsDropOut(t *testing.T) {
	only := &types.Scenario{ID: uuid.New()}

	slots := ComposeSlots(nil, only, nil)
	if len(slots) != 1 {
		t.Fatalf("expected a single slot, got %d", len(slots))
	}
	if !slots[0].HasRole(RoleActive) {
		t.Fatalf("expected active role, got %v", slots[0].Roles)
	}

	if slots := ComposeSlots(nil, nil, nil); slots != nil {
		t.Fatalf("all-nil inputs must yield a nil slice, got %v", slots)
	}
}

func TestComposeSlots_NeverExceedsThree(t *testing.T) {
	one := &types.Scenario{ID: uuid.New()}
	slots := ComposeSlots(one, one, one)
	if len(slots) != 1 {
		t.Fatalf("one scenario in every role is one slot, got %d", len(slots))
	}
	if got := slots[0].Roles; len(got) != 3 {
		t.Fatalf("expected all three role tags, got %v", got)
	}
}
