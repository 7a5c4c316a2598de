package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// MutationKind identifies a state change that must invalidate cached reads
// before the UI is considered consistent.
type MutationKind string

const (
	KindActivate       MutationKind = "activate"
	KindPin            MutationKind = "pin"
	KindArchive        MutationKind = "archive"
	KindBranch         MutationKind = "branch"
	KindProjection     MutationKind = "projection"
	KindStressTest     MutationKind = "stress_test"
	KindRecommendation MutationKind = "recommendation"
	KindDriftAck       MutationKind = "drift_ack"
	KindDriftClear     MutationKind = "drift_clear"
)

func ScenarioListKey(projectID uuid.UUID) string {
	return fmt.Sprintf("slateline:scenarios:%s", projectID)
}

func ComparisonKey(projectID uuid.UUID) string {
	return fmt.Sprintf("slateline:comparison:%s", projectID)
}

func DriftCountsKey(projectID, scenarioID uuid.UUID) string {
	return fmt.Sprintf("slateline:drift_counts:%s:%s", projectID, scenarioID)
}

func DecisionLogKey(projectID uuid.UUID) string {
	return fmt.Sprintf("slateline:decision_log:%s", projectID)
}

// KeysFor is the single registry mapping a mutation to the cache keys it must
// invalidate. Call sites never assemble ad hoc key lists.
func KeysFor(kind MutationKind, projectID, scenarioID uuid.UUID) []string {
	switch kind {
	case KindActivate, KindArchive, KindBranch, KindRecommendation:
		return []string{
			ScenarioListKey(projectID),
			ComparisonKey(projectID),
			DriftCountsKey(projectID, scenarioID),
			DecisionLogKey(projectID),
		}
	case KindPin:
		return []string{ScenarioListKey(projectID)}
	case KindProjection, KindStressTest:
		return []string{
			ComparisonKey(projectID),
			DecisionLogKey(projectID),
		}
	case KindDriftAck, KindDriftClear:
		// Both the standalone drift panel and the comparison cards read these.
		return []string{
			DriftCountsKey(projectID, scenarioID),
			ComparisonKey(projectID),
		}
	default:
		return nil
	}
}
