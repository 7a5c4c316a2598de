package scenario

import (
	"encoding/json"
	"testing"

	"gorm.io/datatypes"

	"github.com/slateline/slateline-backend/internal/types"
)

func mustJSON(t *testing.T, v any) datatypes.JSON {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return datatypes.JSON(raw)
}

func TestExtractMetrics_NilProjection(t *testing.T) {
	m := ExtractMetrics(nil)
	if m.IRR != nil || m.NPV != nil || m.PaybackMonths != nil || m.ScheduleMonths != nil || m.Budget != nil || m.RiskScore != nil {
		t.Fatalf("nil projection must yield the all-nil record, got %+v", m)
	}
}

func TestExtractMetrics_SummaryMining(t *testing.T) {
	p := &types.Projection{
		Summary: mustJSON(t, []string{
			"Projected IRR: 18.5%",
			"NPV: $2,400,000",
			"Est. payback: 14 months",
		}),
		Months: 24,
	}
	m := ExtractMetrics(p)
	if m.IRR == nil || *m.IRR != 18.5 {
		t.Fatalf("expected IRR 18.5, got %v", m.IRR)
	}
	if m.NPV == nil || *m.NPV != 2400000 {
		t.Fatalf("expected NPV 2400000, got %v", m.NPV)
	}
	if m.PaybackMonths == nil || *m.PaybackMonths != 14 {
		t.Fatalf("expected payback 14, got %v", m.PaybackMonths)
	}
	if m.ScheduleMonths == nil || *m.ScheduleMonths != 24 {
		t.Fatalf("expected schedule 24, got %v", m.ScheduleMonths)
	}
}

func TestExtractMetrics_UnparseableLinesYieldNil(t *testing.T) {
	p := &types.Projection{
		Summary: mustJSON(t, []string{
			"Strong upside in the international window",
			"Cash flow positive by Q3",
		}),
	}
	m := ExtractMetrics(p)
	if m.IRR != nil || m.NPV != nil || m.PaybackMonths != nil {
		t.Fatalf("free text without figures must mine to nil, got %+v", m)
	}
}

func TestExtractMetrics_FirstMatchPerPatternWins(t *testing.T) {
	p := &types.Projection{
		Summary: mustJSON(t, []string{
			"IRR: 12.0%",
			"Revised IRR: 99.9%",
		}),
	}
	m := ExtractMetrics(p)
	if m.IRR == nil || *m.IRR != 12.0 {
		t.Fatalf("later lines must not override, got %v", m.IRR)
	}
}

func TestExtractMetrics_NegativeValues(t *testing.T) {
	p := &types.Projection{
		Summary: mustJSON(t, []string{"IRR: -4.2%", "NPV: $-350,000"}),
	}
	m := ExtractMetrics(p)
	if m.IRR == nil || *m.IRR != -4.2 {
		t.Fatalf("expected IRR -4.2, got %v", m.IRR)
	}
	if m.NPV == nil || *m.NPV != -350000 {
		t.Fatalf("expected NPV -350000, got %v", m.NPV)
	}
}

func TestExtractMetrics_BudgetFromLastSeriesElement(t *testing.T) {
	p := &types.Projection{
		Series: mustJSON(t, []types.PeriodSnapshot{
			{Period: 1, Budget: floatPtr(1000000)},
			{Period: 2, Budget: floatPtr(1250000)},
		}),
	}
	m := ExtractMetrics(p)
	if m.Budget == nil || *m.Budget != 1250000 {
		t.Fatalf("expected last element's budget, got %v", m.Budget)
	}
}

func TestExtractMetrics_EmptySeriesAndZeroMonths(t *testing.T) {
	p := &types.Projection{
		Series: mustJSON(t, []types.PeriodSnapshot{}),
	}
	m := ExtractMetrics(p)
	if m.Budget != nil {
		t.Fatalf("empty series must yield nil budget, got %v", m.Budget)
	}
	if m.ScheduleMonths != nil {
		t.Fatalf("zero months must yield nil schedule, got %v", m.ScheduleMonths)
	}
}

func TestExtractMetrics_MalformedJSONIsBestEffort(t *testing.T) {
	p := &types.Projection{
		Summary: datatypes.JSON([]byte(`{"not":"an array"}`)),
		Series:  datatypes.JSON([]byte(`"garbage"`)),
	}
	m := ExtractMetrics(p)
	if m.IRR != nil || m.Budget != nil {
		t.Fatalf("malformed payloads must mine to nil, got %+v", m)
	}
}
