package scenario

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/datatypes"

	"github.com/slateline/slateline-backend/internal/types"
)

// Metrics is the normalized six-field record every comparison card consumes.
// Each field is independently nullable: extraction misses yield nil, never
// zero, so absent data stays distinguishable from measured zero.
type Metrics struct {
	IRR            *float64 `json:"irr"`
	NPV            *float64 `json:"npv"`
	PaybackMonths  *float64 `json:"payback_months"`
	ScheduleMonths *float64 `json:"schedule_months"`
	Budget         *float64 `json:"budget"`
	RiskScore      *float64 `json:"risk_score"`
}

// The summary lines are free text produced by a system that does not
// guarantee their format. These patterns are best-effort by contract; a miss
// is a nil field, not an error. Do not tighten them against the producer.
var (
	irrRe     = regexp.MustCompile(`(?i)irr:?\s*(-?\d+(?:\.\d+)?)\s*%`)
	npvRe     = regexp.MustCompile(`(?i)npv:?\s*\$\s*(-?\d{1,3}(?:,\d{3})*(?:\.\d+)?|-?\d+(?:\.\d+)?)`)
	paybackRe = regexp.MustCompile(`(?i)payback:?\s*(\d+)`)
)

// ExtractMetrics normalizes a raw projection into Metrics. A nil projection
// yields the all-nil record.
func ExtractMetrics(p *types.Projection) Metrics {
	var m Metrics
	if p == nil {
		return m
	}

	if p.Months > 0 {
		months := float64(p.Months)
		m.ScheduleMonths = &months
	}
	if p.ProjectionRiskScore != nil {
		risk := *p.ProjectionRiskScore
		m.RiskScore = &risk
	}
	m.Budget = budgetFromSeries(p.Series)

	for _, line := range summaryLines(p.Summary) {
		// First match per pattern wins; later lines never override.
		if m.IRR == nil {
			m.IRR = matchFloat(irrRe, line)
		}
		if m.NPV == nil {
			m.NPV = matchMoney(npvRe, line)
		}
		if m.PaybackMonths == nil {
			m.PaybackMonths = matchFloat(paybackRe, line)
		}
	}
	return m
}

func summaryLines(raw datatypes.JSON) []string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var lines []string
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil
	}
	return lines
}

func budgetFromSeries(raw datatypes.JSON) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var series []types.PeriodSnapshot
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil
	}
	if len(series) == 0 {
		return nil
	}
	last := series[len(series)-1]
	if last.Budget == nil {
		return nil
	}
	budget := *last.Budget
	return &budget
}

func matchFloat(re *regexp.Regexp, line string) *float64 {
	groups := re.FindStringSubmatch(line)
	if len(groups) < 2 {
		return nil
	}
	f, err := strconv.ParseFloat(groups[1], 64)
	if err != nil {
		return nil
	}
	return &f
}

func matchMoney(re *regexp.Regexp, line string) *float64 {
	groups := re.FindStringSubmatch(line)
	if len(groups) < 2 {
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(groups[1], ",", ""), 64)
	if err != nil {
		return nil
	}
	return &f
}
