package scenario

import (
	"github.com/google/uuid"

	"github.com/slateline/slateline-backend/internal/types"
)

// ResolutionSource records which rule selected a scenario, so callers can
// assert why one was chosen, not just which.
type ResolutionSource string

const (
	SourceNone     ResolutionSource = "none"
	SourceExplicit ResolutionSource = "explicit"
	SourceFlagged  ResolutionSource = "flagged"
	SourceRanked   ResolutionSource = "ranked"
)

type Resolution struct {
	Scenario *types.Scenario
	Source   ResolutionSource
	// Conflicts counts additional candidates that matched the same rule.
	// More than one is_active row is a backend invariant violation; first
	// match in iteration order wins and the rest are reported here.
	Conflicts int
}

// Live filters out archived scenarios. Every resolution rule operates on the
// live pool only, even when underlying rows carry stale role flags.
func Live(scenarios []*types.Scenario) []*types.Scenario {
	out := make([]*types.Scenario, 0, len(scenarios))
	for _, sc := range scenarios {
		if sc == nil || sc.IsArchived {
			continue
		}
		out = append(out, sc)
	}
	return out
}

// ResolveBaseline picks the first live scenario typed as baseline.
func ResolveBaseline(scenarios []*types.Scenario) Resolution {
	res := Resolution{Source: SourceNone}
	for _, sc := range Live(scenarios) {
		if sc.ScenarioType != types.ScenarioTypeBaseline {
			continue
		}
		if res.Scenario == nil {
			res.Scenario = sc
			res.Source = SourceFlagged
		} else {
			res.Conflicts++
		}
	}
	return res
}

// ResolveActive picks the live scenario flagged is_active. At most one should
// exist; on violation the first in iteration order wins.
func ResolveActive(scenarios []*types.Scenario) Resolution {
	res := Resolution{Source: SourceNone}
	for _, sc := range Live(scenarios) {
		if !sc.IsActive {
			continue
		}
		if res.Scenario == nil {
			res.Scenario = sc
			res.Source = SourceFlagged
		} else {
			res.Conflicts++
		}
	}
	return res
}

// ResolveRecommended applies the ordered fallback chain, first match wins:
// explicit id resolving to a live scenario, then any is_recommended flag,
// then the highest non-null rank_score among live non-baseline scenarios.
// A nil rank_score excludes a scenario from the ranked fallback entirely; it
// is never treated as zero.
func ResolveRecommended(scenarios []*types.Scenario, explicitID *uuid.UUID) Resolution {
	live := Live(scenarios)

	if explicitID != nil {
		for _, sc := range live {
			if sc.ID == *explicitID {
				return Resolution{Scenario: sc, Source: SourceExplicit}
			}
		}
	}

	for _, sc := range live {
		if sc.IsRecommended {
			return Resolution{Scenario: sc, Source: SourceFlagged}
		}
	}

	var best *types.Scenario
	for _, sc := range live {
		if sc.ScenarioType == types.ScenarioTypeBaseline || sc.RankScore == nil {
			continue
		}
		if best == nil || *sc.RankScore > *best.RankScore {
			best = sc
		}
	}
	if best != nil {
		return Resolution{Scenario: best, Source: SourceRanked}
	}
	return Resolution{Source: SourceNone}
}

// DisplayName degrades to a truncated identifier when the referenced scenario
// is missing from the set; a dangling reference must never throw.
func DisplayName(byID map[uuid.UUID]*types.Scenario, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	if sc, ok := byID[*id]; ok && sc != nil && sc.Name != "" {
		return sc.Name
	}
	return id.String()[:8]
}
