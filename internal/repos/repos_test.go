package repos

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
	"github.com/slateline/slateline-backend/internal/types"
)

func testDB(t *testing.T) (*gorm.DB, *logger.Logger) {
	t.Helper()
	// Named shared-cache DB so every pooled connection sees the same schema.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.Project{},
		&types.Scenario{},
		&types.Projection{},
		&types.StressTest{},
		&types.DriftAlert{},
		&types.DecisionEvent{},
	); err != nil {
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

func seedProject(t *testing.T, db *gorm.DB) *types.Project {
	t.Helper()
	user := &types.User{ID: uuid.New(), Email: fmt.Sprintf("%s@example.com", uuid.New()), CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	project := &types.Project{ID: uuid.New(), UserID: user.ID, Title: "Night Shoot", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return project
}

func seedScenario(t *testing.T, db *gorm.DB, projectID uuid.UUID, name string, mutate func(*types.Scenario)) *types.Scenario {
	t.Helper()
	sc := &types.Scenario{
		ID:           uuid.New(),
		ProjectID:    projectID,
		Name:         name,
		ScenarioType: "derived",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if mutate != nil {
		mutate(sc)
	}
	if err := db.Create(sc).Error; err != nil {
		t.Fatalf("seed scenario %s: %v", name, err)
	}
	return sc
}

func TestScenarioRepo_SetActiveClearsPrevious(t *testing.T) {
	db, log := testDB(t)
	repo := NewScenarioRepo(db, log)
	ctx := context.Background()
	project := seedProject(t, db)

	prev := seedScenario(t, db, project.ID, "Plan A", func(sc *types.Scenario) { sc.IsActive = true })
	next := seedScenario(t, db, project.ID, "Plan B", nil)

	if err := repo.SetActive(ctx, nil, project.ID, next.ID); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	scenarios, err := repo.GetLiveByProjectID(ctx, nil, project.ID)
	if err != nil {
		t.Fatalf("GetLiveByProjectID: %v", err)
	}
	var activeCount int
	for _, sc := range scenarios {
		if sc.IsActive {
			activeCount++
			if sc.ID != next.ID {
				t.Fatalf("wrong scenario active: %s", sc.Name)
			}
		}
		if sc.ID == prev.ID && sc.IsActive {
			t.Fatal("previous active flag not cleared")
		}
	}
	if activeCount != 1 {
		t.Fatalf("expected exactly one active scenario, got %d", activeCount)
	}
}

func TestScenarioRepo_GetLiveExcludesArchivedAndOrders(t *testing.T) {
	db, log := testDB(t)
	repo := NewScenarioRepo(db, log)
	ctx := context.Background()
	project := seedProject(t, db)

	base := time.Now().Add(-time.Hour)
	older := seedScenario(t, db, project.ID, "Older", func(sc *types.Scenario) { sc.CreatedAt = base })
	newer := seedScenario(t, db, project.ID, "Newer", func(sc *types.Scenario) { sc.CreatedAt = base.Add(time.Minute) })
	seedScenario(t, db, project.ID, "Archived", func(sc *types.Scenario) {
		sc.CreatedAt = base.Add(-time.Minute)
		sc.IsArchived = true
	})

	scenarios, err := repo.GetLiveByProjectID(ctx, nil, project.ID)
	if err != nil {
		t.Fatalf("GetLiveByProjectID: %v", err)
	}
	if len(scenarios) != 2 {
		t.Fatalf("expected 2 live scenarios, got %d", len(scenarios))
	}
	if scenarios[0].ID != older.ID || scenarios[1].ID != newer.ID {
		t.Fatal("expected created_at ascending order")
	}
}

func TestScenarioRepo_ArchiveClearsRoleFlags(t *testing.T) {
	db, log := testDB(t)
	repo := NewScenarioRepo(db, log)
	ctx := context.Background()
	project := seedProject(t, db)

	sc := seedScenario(t, db, project.ID, "Doomed", func(sc *types.Scenario) {
		sc.IsActive = true
		sc.IsRecommended = true
		sc.Pinned = true
	})
	if err := repo.Archive(ctx, nil, sc.ID); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	rows, err := repo.GetByIDs(ctx, nil, []uuid.UUID{sc.ID})
	if err != nil || len(rows) != 1 {
		t.Fatalf("GetByIDs: %v (%d rows)", err, len(rows))
	}
	got := rows[0]
	if !got.IsArchived {
		t.Fatal("expected scenario archived")
	}
	if got.IsActive || got.IsRecommended {
		t.Fatalf("archiving must clear role flags, got active=%v recommended=%v", got.IsActive, got.IsRecommended)
	}
}

func TestProjectionRepo_GetLatestPicksNewest(t *testing.T) {
	db, log := testDB(t)
	repo := NewProjectionRepo(db, log)
	ctx := context.Background()
	project := seedProject(t, db)
	sc := seedScenario(t, db, project.ID, "Plan A", nil)

	base := time.Now().Add(-time.Hour)
	stale := &types.Projection{ID: uuid.New(), ProjectID: project.ID, ScenarioID: sc.ID, Months: 12, CreatedAt: base}
	fresh := &types.Projection{ID: uuid.New(), ProjectID: project.ID, ScenarioID: sc.ID, Months: 24, CreatedAt: base.Add(time.Minute)}
	if _, err := repo.Create(ctx, nil, []*types.Projection{stale, fresh}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetLatest(ctx, nil, project.ID, sc.ID)
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if got == nil || got.ID != fresh.ID {
		t.Fatalf("expected newest projection, got %+v", got)
	}
}

func TestProjectionRepo_GetLatestMissingIsNilNotError(t *testing.T) {
	db, log := testDB(t)
	repo := NewProjectionRepo(db, log)
	project := seedProject(t, db)
	sc := seedScenario(t, db, project.ID, "Empty", nil)

	got, err := repo.GetLatest(context.Background(), nil, project.ID, sc.ID)
	if err != nil {
		t.Fatalf("missing projection must not error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil projection, got %+v", got)
	}
}

func TestDriftAlertRepo_CountAndClear(t *testing.T) {
	db, log := testDB(t)
	repo := NewDriftAlertRepo(db, log)
	ctx := context.Background()
	project := seedProject(t, db)
	sc := seedScenario(t, db, project.ID, "Plan A", nil)

	now := time.Now()
	alerts := []*types.DriftAlert{
		{ID: uuid.New(), ProjectID: project.ID, ScenarioID: sc.ID, Severity: types.DriftSeverityCritical, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), ProjectID: project.ID, ScenarioID: sc.ID, Severity: types.DriftSeverityCritical, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), ProjectID: project.ID, ScenarioID: sc.ID, Severity: types.DriftSeverityWarning, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), ProjectID: project.ID, ScenarioID: sc.ID, Severity: types.DriftSeverityInfo, Acknowledged: true, CreatedAt: now, UpdatedAt: now},
	}
	if _, err := repo.Create(ctx, nil, alerts); err != nil {
		t.Fatalf("Create: %v", err)
	}

	counts, err := repo.CountUnacked(ctx, nil, project.ID, sc.ID)
	if err != nil {
		t.Fatalf("CountUnacked: %v", err)
	}
	if counts.Critical != 2 || counts.Warning != 1 || counts.Info != 0 {
		t.Fatalf("acknowledged rows must not count, got %+v", counts)
	}

	if err := repo.Acknowledge(ctx, nil, alerts[0].ID); err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}
	counts, err = repo.CountUnacked(ctx, nil, project.ID, sc.ID)
	if err != nil {
		t.Fatalf("CountUnacked after ack: %v", err)
	}
	if counts.Critical != 1 {
		t.Fatalf("expected 1 critical after ack, got %+v", counts)
	}

	if err := repo.ClearByScenario(ctx, nil, project.ID, sc.ID); err != nil {
		t.Fatalf("ClearByScenario: %v", err)
	}
	counts, err = repo.CountUnacked(ctx, nil, project.ID, sc.ID)
	if err != nil {
		t.Fatalf("CountUnacked after clear: %v", err)
	}
	if counts.Critical != 0 || counts.Warning != 0 || counts.Info != 0 {
		t.Fatalf("expected no unacked alerts after clear, got %+v", counts)
	}
}

func TestDecisionEventRepo_LatestIsNewestFirstAndLimited(t *testing.T) {
	db, log := testDB(t)
	repo := NewDecisionEventRepo(db, log)
	ctx := context.Background()
	project := seedProject(t, db)

	base := time.Now().Add(-time.Hour)
	var events []*types.DecisionEvent
	for i := 0; i < 25; i++ {
		events = append(events, &types.DecisionEvent{
			ID:        uuid.New(),
			ProjectID: project.ID,
			EventType: "projection_completed",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	if _, err := repo.Append(ctx, nil, events); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := repo.GetLatestByProjectID(ctx, nil, project.ID, 20)
	if err != nil {
		t.Fatalf("GetLatestByProjectID: %v", err)
	}
	if len(got) != 20 {
		t.Fatalf("expected 20 events, got %d", len(got))
	}
	if got[0].ID != events[24].ID {
		t.Fatal("expected newest event first")
	}
	for i := 1; i < len(got); i++ {
		if got[i].CreatedAt.After(got[i-1].CreatedAt) {
			t.Fatal("events out of descending order")
		}
	}
}
