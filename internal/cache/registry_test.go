package cache

import (
	"testing"

	"github.com/google/uuid"
)

func contains(keys []string, want string) bool {
	for _, k := range keys {
		if k == want {
			return true
		}
	}
	return false
}

func TestKeysFor_ActivateInvalidatesEverything(t *testing.T) {
	projectID, scenarioID := uuid.New(), uuid.New()
	keys := KeysFor(KindActivate, projectID, scenarioID)
	for _, want := range []string{
		ScenarioListKey(projectID),
		ComparisonKey(projectID),
		DriftCountsKey(projectID, scenarioID),
		DecisionLogKey(projectID),
	} {
		if !contains(keys, want) {
			t.Fatalf("activate must invalidate %q, got %v", want, keys)
		}
	}
}

func TestKeysFor_PinTouchesOnlyTheList(t *testing.T) {
	projectID, scenarioID := uuid.New(), uuid.New()
	keys := KeysFor(KindPin, projectID, scenarioID)
	if len(keys) != 1 || keys[0] != ScenarioListKey(projectID) {
		t.Fatalf("pin is list-only, got %v", keys)
	}
}

func TestKeysFor_DriftClearReachesBothPanels(t *testing.T) {
	projectID, scenarioID := uuid.New(), uuid.New()
	for _, kind := range []MutationKind{KindDriftAck, KindDriftClear} {
		keys := KeysFor(kind, projectID, scenarioID)
		if !contains(keys, DriftCountsKey(projectID, scenarioID)) {
			t.Fatalf("%s must invalidate the drift counts, got %v", kind, keys)
		}
		if !contains(keys, ComparisonKey(projectID)) {
			t.Fatalf("%s must also reach the comparison cards, got %v", kind, keys)
		}
	}
}

func TestKeysFor_UnknownKind(t *testing.T) {
	if keys := KeysFor(MutationKind("repaint"), uuid.New(), uuid.New()); keys != nil {
		t.Fatalf("unknown kinds invalidate nothing, got %v", keys)
	}
}
