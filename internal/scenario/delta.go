package scenario

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// AbsentMarker renders a delta whose sides are not both measured. Missing is
// never coerced to zero.
const AbsentMarker = "—"

var deltaPrinter = message.NewPrinter(language.English)

// FmtDelta formats recommended − baseline with an explicit + prefix for
// positive values and a locale-grouped magnitude. Either side nil yields the
// absence marker.
func FmtDelta(recommended, baseline *float64, unit string) string {
	if recommended == nil || baseline == nil {
		return AbsentMarker
	}
	diff := *recommended - *baseline
	magnitude := deltaPrinter.Sprintf("%v", number.Decimal(math.Abs(diff), number.MaxFractionDigits(1)))
	switch {
	case diff > 0:
		return "+" + magnitude + unit
	case diff < 0:
		return "-" + magnitude + unit
	default:
		return magnitude + unit
	}
}

// DeltaRow is the Recommended-vs-Baseline row rendered under the slot cards.
type DeltaRow struct {
	IRR            string `json:"irr"`
	PaybackMonths  string `json:"payback_months"`
	ScheduleMonths string `json:"schedule_months"`
	RiskScore      string `json:"risk_score"`
	CriticalDrift  string `json:"critical_drift"`
	Fragility      string `json:"fragility"`
	Volatility     string `json:"volatility"`
}

// BuildDeltaRow compares the Recommended card against the Baseline card.
// Callers only invoke it when both slots resolved to different scenarios;
// identical slots mean there is no delta to show.
func BuildDeltaRow(recommended, baseline *SlotCard) *DeltaRow {
	if recommended == nil || baseline == nil {
		return nil
	}
	if recommended.Scenario.ID == baseline.Scenario.ID {
		return nil
	}
	recCritical := float64(recommended.DriftCounts.Critical)
	baseCritical := float64(baseline.DriftCounts.Critical)
	return &DeltaRow{
		IRR:            FmtDelta(recommended.Metrics.IRR, baseline.Metrics.IRR, "%"),
		PaybackMonths:  FmtDelta(recommended.Metrics.PaybackMonths, baseline.Metrics.PaybackMonths, "mo"),
		ScheduleMonths: FmtDelta(recommended.Metrics.ScheduleMonths, baseline.Metrics.ScheduleMonths, "mo"),
		RiskScore:      FmtDelta(recommended.Metrics.RiskScore, baseline.Metrics.RiskScore, ""),
		CriticalDrift:  FmtDelta(&recCritical, &baseCritical, ""),
		Fragility:      FmtDelta(recommended.Fragility, baseline.Fragility, ""),
		Volatility:     FmtDelta(recommended.Volatility, baseline.Volatility, ""),
	}
}
