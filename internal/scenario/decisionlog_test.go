package scenario

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/slateline/slateline-backend/internal/types"
)

func hasAction(actions []EventAction, want EventAction) bool {
	for _, a := range actions {
		if a == want {
			return true
		}
	}
	return false
}

func TestRenderEvent_RecommendationWithScenario(t *testing.T) {
	id := uuid.New()
	r := RenderEvent(&types.DecisionEvent{
		EventType:  EventRecommendationComputed,
		ScenarioID: &id,
		Payload:    datatypes.JSON([]byte(`{"change_reasons":["tax_incentive_expiry","cast_availability"]}`)),
	})
	if r.Label != "Recommendation" || r.Variant != "accent" {
		t.Fatalf("unexpected rendering %+v", r)
	}
	for _, want := range []EventAction{ActionSetActive, ActionProject, ActionStressTest, ActionBranch} {
		if !hasAction(r.Actions, want) {
			t.Fatalf("expected action %s, got %v", want, r.Actions)
		}
	}
	if len(r.ChangeReasons) != 2 || r.ChangeReasons[0] != "tax incentive expiry" {
		t.Fatalf("expected humanized change reasons, got %v", r.ChangeReasons)
	}
}

func TestRenderEvent_RecommendationWithoutScenario(t *testing.T) {
	r := RenderEvent(&types.DecisionEvent{EventType: EventRecommendationComputed})
	if hasAction(r.Actions, ActionSetActive) || hasAction(r.Actions, ActionProject) || hasAction(r.Actions, ActionStressTest) {
		t.Fatalf("scenario-bound actions require a scenario id, got %v", r.Actions)
	}
	if !hasAction(r.Actions, ActionBranch) {
		t.Fatalf("branch is always offered, got %v", r.Actions)
	}
}

func TestRenderEvent_ApprovalDecidedPayloadOverride(t *testing.T) {
	r := RenderEvent(&types.DecisionEvent{
		EventType: EventMergeApprovalDecided,
		Payload:   datatypes.JSON([]byte(`{"approved":false}`)),
	})
	if r.Label != "Rejected" || r.Variant != "destructive" {
		t.Fatalf("approved=false must render Rejected/destructive, got %+v", r)
	}

	r = RenderEvent(&types.DecisionEvent{
		EventType: EventMergeApprovalDecided,
		Payload:   datatypes.JSON([]byte(`{"approved":true}`)),
	})
	if r.Label != "Approved" || r.Variant != "success" {
		t.Fatalf("approved=true must render Approved/success, got %+v", r)
	}

	r = RenderEvent(&types.DecisionEvent{EventType: EventMergeApprovalDecided})
	if r.Label != "Approval Decided" {
		t.Fatalf("missing payload keeps the neutral label, got %+v", r)
	}
}

func TestRenderEvent_GovernanceScanDomain(t *testing.T) {
	r := RenderEvent(&types.DecisionEvent{
		EventType: EventGovernanceScan,
		Payload:   datatypes.JSON([]byte(`{"domain":"union_compliance"}`)),
	})
	if r.Label != "Governance: union compliance" {
		t.Fatalf("expected domain-specific label, got %q", r.Label)
	}
}

func TestRenderEvent_UnknownTypeRendersLogOnly(t *testing.T) {
	r := RenderEvent(&types.DecisionEvent{EventType: "vendor_sync_completed"})
	if r.Label != "vendor sync completed" || r.Variant != "muted" {
		t.Fatalf("unknown types humanize with muted variant, got %+v", r)
	}
	if len(r.Actions) != 0 {
		t.Fatalf("unknown types offer no actions, got %v", r.Actions)
	}
}

func TestRenderEvent_NilEvent(t *testing.T) {
	r := RenderEvent(nil)
	if r.Label != "Unknown" {
		t.Fatalf("nil event must not panic, got %+v", r)
	}
}
