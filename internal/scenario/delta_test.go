package scenario

import (
	"testing"

	"github.com/google/uuid"

	"github.com/slateline/slateline-backend/internal/types"
)

func TestFmtDelta_AbsenceMarker(t *testing.T) {
	if got := FmtDelta(nil, floatPtr(8), "%"); got != AbsentMarker {
		t.Fatalf("nil recommended must render the marker, got %q", got)
	}
	if got := FmtDelta(floatPtr(12), nil, "%"); got != AbsentMarker {
		t.Fatalf("nil baseline must render the marker, got %q", got)
	}
	if got := FmtDelta(nil, nil, ""); got != AbsentMarker {
		t.Fatalf("both nil must render the marker, got %q", got)
	}
}

func TestFmtDelta_SignAndUnit(t *testing.T) {
	if got := FmtDelta(floatPtr(12), floatPtr(8), "%"); got != "+4%" {
		t.Fatalf("expected +4%%, got %q", got)
	}
	if got := FmtDelta(floatPtr(8), floatPtr(12), "%"); got != "-4%" {
		t.Fatalf("expected -4%%, got %q", got)
	}
	if got := FmtDelta(floatPtr(10), floatPtr(10), "mo"); got != "0mo" {
		t.Fatalf("zero delta carries no sign, got %q", got)
	}
}

func TestFmtDelta_GroupingAndFraction(t *testing.T) {
	if got := FmtDelta(floatPtr(2400000), floatPtr(1000000), ""); got != "+1,400,000" {
		t.Fatalf("expected grouped magnitude, got %q", got)
	}
	if got := FmtDelta(floatPtr(18.55), floatPtr(18.0), "%"); got != "+0.6%" {
		t.Fatalf("expected one fraction digit, got %q", got)
	}
}

func TestBuildDeltaRow_SameScenarioYieldsNil(t *testing.T) {
	sc := &types.Scenario{ID: uuid.New()}
	card := &SlotCard{Scenario: sc}
	if row := BuildDeltaRow(card, card); row != nil {
		t.Fatalf("identical slots must suppress the delta row, got %+v", row)
	}
	if row := BuildDeltaRow(nil, card); row != nil {
		t.Fatalf("missing slot must suppress the delta row, got %+v", row)
	}
}

func TestBuildDeltaRow_MixedPresence(t *testing.T) {
	rec := &SlotCard{
		Scenario:    &types.Scenario{ID: uuid.New()},
		Metrics:     Metrics{IRR: floatPtr(18.5), PaybackMonths: floatPtr(14)},
		DriftCounts: types.DriftCounts{Critical: 3},
	}
	base := &SlotCard{
		Scenario:    &types.Scenario{ID: uuid.New()},
		Metrics:     Metrics{IRR: floatPtr(12.5)},
		DriftCounts: types.DriftCounts{Critical: 1},
	}

	row := BuildDeltaRow(rec, base)
	if row == nil {
		t.Fatal("expected a delta row")
	}
	if row.IRR != "+6%" {
		t.Fatalf("expected IRR +6%%, got %q", row.IRR)
	}
	if row.PaybackMonths != AbsentMarker {
		t.Fatalf("one-sided payback must render the marker, got %q", row.PaybackMonths)
	}
	if row.CriticalDrift != "+2" {
		t.Fatalf("expected critical drift +2, got %q", row.CriticalDrift)
	}
	if row.Fragility != AbsentMarker {
		t.Fatalf("missing stress data must render the marker, got %q", row.Fragility)
	}
}
