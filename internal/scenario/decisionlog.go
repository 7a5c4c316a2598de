package scenario

import (
	"encoding/json"
	"strings"

	"github.com/slateline/slateline-backend/internal/types"
)

// Closed event_type enum. Anything outside it renders log-only.
const (
	EventRecommendationComputed = "recommendation_computed"
	EventActiveScenarioChanged  = "active_scenario_changed"
	EventProjectionCompleted    = "projection_completed"
	EventStressTestCompleted    = "stress_test_completed"
	EventBranchCreated          = "branch_created"
	EventScenarioMerged         = "scenario_merged"
	EventLockChanged            = "lock_changed"
	EventGovernanceScan         = "governance_scan"
	EventRiskEvaluated          = "risk_evaluated"
	EventMergeApprovalRequested = "merge_approval_requested"
	EventMergeApprovalDecided   = "merge_approval_decided"
	EventMergeApprovalConsumed  = "merge_approval_consumed"
)

type EventAction string

const (
	ActionSetActive  EventAction = "set_active"
	ActionProject    EventAction = "project"
	ActionStressTest EventAction = "stress_test"
	ActionBranch     EventAction = "branch"
)

// EventRendering is the full per-event presentation: badge label and variant
// plus the follow-up actions valid for this event. One exhaustive dispatch
// produces all three so label tables and action tables cannot drift apart.
type EventRendering struct {
	Label         string        `json:"label"`
	Variant       string        `json:"variant"`
	Actions       []EventAction `json:"actions"`
	ChangeReasons []string      `json:"change_reasons,omitempty"`
}

type eventPayload struct {
	Approved      *bool    `json:"approved"`
	ChangeReasons []string `json:"change_reasons"`
	Domain        string   `json:"domain"`
}

// RenderEvent maps an event to its rendering. The scenario-bound actions on
// recommendation events require the event to carry a resolvable scenario id;
// Branch is always offered because it seeds a new scenario from the
// historical snapshot itself.
func RenderEvent(ev *types.DecisionEvent) EventRendering {
	if ev == nil {
		return EventRendering{Label: "Unknown", Variant: "muted"}
	}
	payload := decodePayload(ev.Payload)

	switch ev.EventType {
	case EventRecommendationComputed:
		r := EventRendering{Label: "Recommendation", Variant: "accent"}
		if ev.ScenarioID != nil {
			r.Actions = append(r.Actions, ActionSetActive, ActionProject, ActionStressTest)
		}
		r.Actions = append(r.Actions, ActionBranch)
		r.ChangeReasons = humanizeAll(payload.ChangeReasons)
		return r
	case EventActiveScenarioChanged:
		return EventRendering{Label: "Active Changed", Variant: "default", Actions: []EventAction{ActionSetActive}}
	case EventProjectionCompleted:
		return EventRendering{Label: "Projection", Variant: "default", Actions: []EventAction{ActionProject}}
	case EventStressTestCompleted:
		return EventRendering{Label: "Stress Test", Variant: "default", Actions: []EventAction{ActionStressTest}}
	case EventBranchCreated:
		return EventRendering{Label: "Branch Created", Variant: "default"}
	case EventScenarioMerged:
		return EventRendering{Label: "Scenario Merged", Variant: "default"}
	case EventLockChanged:
		return EventRendering{Label: "Lock Changed", Variant: "muted"}
	case EventGovernanceScan:
		label := "Governance Scan"
		if payload.Domain != "" {
			label = "Governance: " + humanize(payload.Domain)
		}
		return EventRendering{Label: label, Variant: "muted"}
	case EventRiskEvaluated:
		return EventRendering{Label: "Risk Evaluated", Variant: "muted"}
	case EventMergeApprovalRequested:
		return EventRendering{Label: "Approval Requested", Variant: "warning"}
	case EventMergeApprovalDecided:
		// Badge comes from the decision itself, overriding the static label.
		if payload.Approved != nil && !*payload.Approved {
			return EventRendering{Label: "Rejected", Variant: "destructive"}
		}
		if payload.Approved != nil {
			return EventRendering{Label: "Approved", Variant: "success"}
		}
		return EventRendering{Label: "Approval Decided", Variant: "default"}
	case EventMergeApprovalConsumed:
		return EventRendering{Label: "Approval Consumed", Variant: "muted"}
	default:
		return EventRendering{Label: humanize(ev.EventType), Variant: "muted"}
	}
}

func decodePayload(raw []byte) eventPayload {
	var p eventPayload
	if len(raw) == 0 || string(raw) == "null" {
		return p
	}
	_ = json.Unmarshal(raw, &p)
	return p
}

func humanize(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "_", " ")
}

func humanizeAll(reasons []string) []string {
	if len(reasons) == 0 {
		return nil
	}
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		out = append(out, humanize(r))
	}
	return out
}
