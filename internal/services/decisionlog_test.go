package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/slateline/slateline-backend/internal/logger"
	"github.com/slateline/slateline-backend/internal/repos"
	"github.com/slateline/slateline-backend/internal/scenario"
	"github.com/slateline/slateline-backend/internal/types"
)

func testDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.User{}, &types.Project{}, &types.Scenario{}, &types.DecisionEvent{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return db, log
}

func TestDecisionLogService_Latest(t *testing.T) {
	db, log := testDB(t)
	svc := NewDecisionLogService(db, log, repos.NewDecisionEventRepo(db, log), repos.NewScenarioRepo(db, log))
	ctx := context.Background()

	user := &types.User{ID: uuid.New(), Email: "producer@example.com", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	project := &types.Project{ID: uuid.New(), UserID: user.ID, Title: "Pilot", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	archived := &types.Scenario{
		ID: uuid.New(), ProjectID: project.ID, Name: "Shelved Cut", ScenarioType: "derived",
		IsArchived: true, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := db.Create(archived).Error; err != nil {
		t.Fatalf("seed scenario: %v", err)
	}

	dangling := uuid.New()
	base := time.Now().Add(-time.Minute)
	events := []*types.DecisionEvent{
		{ID: uuid.New(), ProjectID: project.ID, EventType: scenario.EventRecommendationComputed, ScenarioID: &archived.ID, CreatedAt: base},
		{ID: uuid.New(), ProjectID: project.ID, EventType: scenario.EventRecommendationComputed, ScenarioID: &dangling, CreatedAt: base.Add(time.Second)},
	}
	if err := db.Create(&events).Error; err != nil {
		t.Fatalf("seed events: %v", err)
	}

	entries, err := svc.Latest(ctx, project.ID)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	// Newest first: the dangling reference entry, then the archived one.
	danglingEntry, archivedEntry := entries[0], entries[1]

	if danglingEntry.ScenarioName != dangling.String()[:8] {
		t.Fatalf("dangling reference must fall back to the truncated id, got %q", danglingEntry.ScenarioName)
	}
	if len(danglingEntry.Rendering.Actions) != 1 || danglingEntry.Rendering.Actions[0] != scenario.ActionBranch {
		t.Fatalf("unresolvable scenario keeps only branch, got %v", danglingEntry.Rendering.Actions)
	}

	if archivedEntry.ScenarioName != "Shelved Cut" {
		t.Fatalf("archived scenarios stay resolvable by name, got %q", archivedEntry.ScenarioName)
	}
	found := false
	for _, a := range archivedEntry.Rendering.Actions {
		if a == scenario.ActionSetActive {
			found = true
		}
	}
	if !found {
		t.Fatalf("resolvable scenario keeps its scenario-bound actions, got %v", archivedEntry.Rendering.Actions)
	}
}
