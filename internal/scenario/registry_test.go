package scenario

import (
	"testing"

	"github.com/google/uuid"

	"github.com/slateline/slateline-backend/internal/types"
)

func floatPtr(f float64) *float64 { return &f }

func TestResolveActive_IgnoresArchived(t *testing.T) {
	archived := &types.Scenario{ID: uuid.New(), IsActive: true, IsArchived: true}
	live := &types.Scenario{ID: uuid.New(), IsActive: true}

	res := ResolveActive([]*types.Scenario{archived, live})
	if res.Scenario == nil || res.Scenario.ID != live.ID {
		t.Fatalf("expected live scenario to win, got %+v", res.Scenario)
	}
	if res.Source != SourceFlagged {
		t.Fatalf("expected flagged source, got %s", res.Source)
	}
	if res.Conflicts != 0 {
		t.Fatalf("archived row must not count as a conflict, got %d", res.Conflicts)
	}
}

func TestResolveActive_FirstMatchWinsOnViolation(t *testing.T) {
	first := &types.Scenario{ID: uuid.New(), IsActive: true}
	second := &types.Scenario{ID: uuid.New(), IsActive: true}

	res := ResolveActive([]*types.Scenario{first, second})
	if res.Scenario == nil || res.Scenario.ID != first.ID {
		t.Fatalf("expected first active row to win, got %+v", res.Scenario)
	}
	if res.Conflicts != 1 {
		t.Fatalf("expected 1 conflict reported, got %d", res.Conflicts)
	}
}

func TestResolveActive_NoneFlagged(t *testing.T) {
	res := ResolveActive([]*types.Scenario{{ID: uuid.New()}})
	if res.Scenario != nil {
		t.Fatalf("expected no active scenario, got %+v", res.Scenario)
	}
	if res.Source != SourceNone {
		t.Fatalf("expected none source, got %s", res.Source)
	}
}

func TestResolveRecommended_ExplicitBeatsFlag(t *testing.T) {
	flagged := &types.Scenario{ID: uuid.New(), IsRecommended: true}
	explicit := &types.Scenario{ID: uuid.New()}

	res := ResolveRecommended([]*types.Scenario{flagged, explicit}, &explicit.ID)
	if res.Scenario == nil || res.Scenario.ID != explicit.ID {
		t.Fatalf("expected explicit id to win, got %+v", res.Scenario)
	}
	if res.Source != SourceExplicit {
		t.Fatalf("expected explicit source, got %s", res.Source)
	}
}

func TestResolveRecommended_ExplicitArchivedFallsThrough(t *testing.T) {
	archived := &types.Scenario{ID: uuid.New(), IsArchived: true}
	flagged := &types.Scenario{ID: uuid.New(), IsRecommended: true}

	res := ResolveRecommended([]*types.Scenario{archived, flagged}, &archived.ID)
	if res.Scenario == nil || res.Scenario.ID != flagged.ID {
		t.Fatalf("archived explicit id must fall through to the flag, got %+v", res.Scenario)
	}
	if res.Source != SourceFlagged {
		t.Fatalf("expected flagged source, got %s", res.Source)
	}
}

func TestResolveRecommended_RankedSkipsNilScores(t *testing.T) {
	unranked := &types.Scenario{ID: uuid.New()}
	low := &types.Scenario{ID: uuid.New(), RankScore: floatPtr(30)}
	high := &types.Scenario{ID: uuid.New(), RankScore: floatPtr(75)}

	res := ResolveRecommended([]*types.Scenario{unranked, low, high}, nil)
	if res.Scenario == nil || res.Scenario.ID != high.ID {
		t.Fatalf("expected rank 75 to win, got %+v", res.Scenario)
	}
	if res.Source != SourceRanked {
		t.Fatalf("expected ranked source, got %s", res.Source)
	}
}

func TestResolveRecommended_RankedExcludesBaseline(t *testing.T) {
	baseline := &types.Scenario{ID: uuid.New(), ScenarioType: types.ScenarioTypeBaseline, RankScore: floatPtr(99)}
	derived := &types.Scenario{ID: uuid.New(), RankScore: floatPtr(10)}

	res := ResolveRecommended([]*types.Scenario{baseline, derived}, nil)
	if res.Scenario == nil || res.Scenario.ID != derived.ID {
		t.Fatalf("baseline must never win the ranked fallback, got %+v", res.Scenario)
	}
}

func TestResolveRecommended_AllNilScoresResolvesNone(t *testing.T) {
	res := ResolveRecommended([]*types.Scenario{{ID: uuid.New()}, {ID: uuid.New()}}, nil)
	if res.Scenario != nil || res.Source != SourceNone {
		t.Fatalf("nil rank scores must not be treated as zero, got %+v source %s", res.Scenario, res.Source)
	}
}

func TestDisplayName_DanglingReference(t *testing.T) {
	known := &types.Scenario{ID: uuid.New(), Name: "Director's Cut"}
	byID := map[uuid.UUID]*types.Scenario{known.ID: known}

	if got := DisplayName(byID, &known.ID); got != "Director's Cut" {
		t.Fatalf("expected scenario name, got %q", got)
	}

	dangling := uuid.New()
	got := DisplayName(byID, &dangling)
	if got != dangling.String()[:8] {
		t.Fatalf("expected truncated id for dangling reference, got %q", got)
	}

	if got := DisplayName(byID, nil); got != "" {
		t.Fatalf("expected empty name for nil id, got %q", got)
	}
}
