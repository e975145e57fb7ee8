package evaluation

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"portal/internal/domain/auth"
	"portal/internal/pkg/events"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, ev events.Event) error {
	return m.Called(ctx, ev).Error(0)
}

type fixture struct {
	db        *gorm.DB
	svc       *Service
	pub       *mockPublisher
	manager   auth.Actor
	employee  auth.Actor
	colleague auth.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:evaluation_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&auth.User{}, &Evaluation{}, &Log{}))

	mk := func(email, name, sector string, role auth.UserRole) auth.Actor {
		u := auth.User{Email: email, PasswordHash: "x", Name: name, Sector: sector, Role: role, Active: true}
		require.NoError(t, db.Create(&u).Error)
		return auth.Actor{UserID: u.ID, Role: u.Role, Sector: u.Sector}
	}

	f := &fixture{db: db, pub: &mockPublisher{}}
	f.manager = mk("gestor@tradestars.com", "Marta", "TEI", auth.RoleManager)
	f.employee = mk("joao@tradestars.com", "Joao", "TEI", auth.RoleEmployee)
	f.colleague = mk("lia@tradestars.com", "Lia", "RH", auth.RoleEmployee)
	f.pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	f.svc = NewService(NewRepository(db), auth.NewUserRepository(db), f.pub)
	return f
}

func (f *fixture) create(t *testing.T, evaluatee auth.Actor, period string) *Evaluation {
	t.Helper()
	e, err := f.svc.Create(context.Background(), f.manager, CreateRequest{
		EvaluateeID: evaluatee.UserID,
		Period:      period,
		Criteria:    []string{"Qualidade", "Prazo"},
	})
	require.NoError(t, err)
	return e
}

func criteria(scores ...float64) []Criterion {
	out := make([]Criterion, 0, len(scores))
	for i, s := range scores {
		out = append(out, Criterion{Name: fmt.Sprintf("c%d", i+1), Score: s})
	}
	return out
}

func TestMeanScore(t *testing.T) {
	assert.Equal(t, 4.0, MeanScore([]float64{4, 5, 3, 4}))
	assert.Equal(t, 3.67, MeanScore([]float64{4, 4, 3}))
	assert.Equal(t, 3.33, MeanScore([]float64{5, 3, 2}))
	assert.Equal(t, 5.0, MeanScore([]float64{5}))
	assert.Equal(t, 0.0, MeanScore(nil))
}

func TestCreate_PendingWithLog(t *testing.T) {
	f := newFixture(t)

	e := f.create(t, f.employee, "2025-S1")
	assert.Equal(t, StatusPending, e.Status)
	assert.Equal(t, "Marta", e.EvaluatorName)
	assert.Equal(t, "Joao", e.EvaluateeName)
	assert.Equal(t, "TEI", e.EvaluateeSector)
	assert.Equal(t, defaultType, e.Type)
	assert.Nil(t, e.FinalScore)
	require.Len(t, e.Criteria, 2)

	logs, err := f.svc.Logs(context.Background(), f.manager, LogFilter{EvaluationID: e.ID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, ActionCreated, logs[0].Action)

	_, err = f.svc.Create(context.Background(), f.manager, CreateRequest{EvaluateeID: 9999, Period: "2025-S1"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmit_ComputesMeanAndConcludes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.create(t, f.employee, "2025-S1")

	comments := "bom semestre"
	out, err := f.svc.Submit(ctx, f.manager, e.ID, SubmitRequest{Criteria: criteria(4, 5, 3, 4), Comments: &comments})
	require.NoError(t, err)

	assert.Equal(t, StatusConcluded, out.Status)
	require.NotNil(t, out.FinalScore)
	assert.Equal(t, 4.0, *out.FinalScore)
	assert.NotNil(t, out.ConcludedAt)
	assert.Equal(t, "bom semestre", *out.Comments)
	require.Len(t, out.Criteria, 4)
	assert.Equal(t, 5.0, out.Criteria[1].Score)

	logs, err := f.svc.Logs(ctx, f.manager, LogFilter{EvaluationID: e.ID})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, ActionConcluded, logs[0].Action)
	require.NotNil(t, logs[0].FinalScore)
	assert.Equal(t, 4.0, *logs[0].FinalScore)
	assert.Contains(t, logs[0].Description, "4.00")
	assert.Equal(t, f.employee.UserID, logs[0].EvaluateeID)

	f.pub.AssertNumberOfCalls(t, "Publish", 1)
}

func TestSubmit_IsOneShot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.create(t, f.employee, "2025-S1")

	_, err := f.svc.Submit(ctx, f.manager, e.ID, SubmitRequest{Criteria: criteria(3, 3)})
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, f.manager, e.ID, SubmitRequest{Criteria: criteria(5, 5)})
	assert.ErrorIs(t, err, ErrAlreadyConcluded)

	got, err := f.svc.Get(ctx, f.manager, e.ID)
	require.NoError(t, err)
	assert.Equal(t, 3.0, *got.FinalScore)

	var n int64
	require.NoError(t, f.db.Model(&Log{}).Where("evaluation_id = ?", e.ID).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestSubmit_ConcurrentCallsConcludeOnce(t *testing.T) {
	f := newFixture(t)
	e := f.create(t, f.employee, "2025-S1")

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Submit(context.Background(), f.manager, e.ID, SubmitRequest{Criteria: criteria(4, 4)})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, ErrAlreadyConcluded)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	var n int64
	require.NoError(t, f.db.Model(&Log{}).Where("action = ?", ActionConcluded).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	e := f.create(t, f.employee, "2025-S1")

	_, err := f.svc.Submit(ctx, f.manager, e.ID, SubmitRequest{})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.Submit(ctx, f.manager, e.ID, SubmitRequest{Criteria: criteria(4, 6)})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.Submit(ctx, f.manager, e.ID, SubmitRequest{Criteria: criteria(0)})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.svc.Submit(ctx, f.manager, e.ID, SubmitRequest{Criteria: []Criterion{{Name: " ", Score: 3}}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Submit(ctx, f.colleague, e.ID, SubmitRequest{Criteria: criteria(4)})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = f.svc.Submit(ctx, f.manager, 9999, SubmitRequest{Criteria: criteria(4)})
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.svc.Get(ctx, f.manager, e.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
}

func TestListVisibilityAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine := f.create(t, f.employee, "2025-S1")
	theirs := f.create(t, f.colleague, "2025-S1")

	all, err := f.svc.List(ctx, f.manager, Filter{Period: "2025-S1"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	visible, err := f.svc.List(ctx, f.employee, Filter{})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, mine.ID, visible[0].ID)

	_, err = f.svc.Get(ctx, f.employee, theirs.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Submit(ctx, f.manager, mine.ID, SubmitRequest{Criteria: criteria(5)})
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.manager, mine.ID), ErrAlreadyConcluded)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.employee, theirs.ID), ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, f.manager, theirs.ID))
	_, err = f.svc.Get(ctx, f.manager, theirs.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.create(t, f.employee, "2025-S1")
	b := f.create(t, f.colleague, "2025-S1")
	f.create(t, f.employee, "2025-S2")

	_, err := f.svc.Submit(ctx, f.manager, a.ID, SubmitRequest{Criteria: criteria(4, 5, 3, 4)})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, f.manager, b.ID, SubmitRequest{Criteria: criteria(3, 3, 3)})
	require.NoError(t, err)

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 1, stats.Pending)
	assert.EqualValues(t, 2, stats.Concluded)
	assert.Equal(t, 3.5, stats.Average)

	require.Len(t, stats.BySector, 2)
	assert.Equal(t, "RH", stats.BySector[0].Sector)
	assert.Equal(t, 3.0, stats.BySector[0].Average)
	assert.Equal(t, "TEI", stats.BySector[1].Sector)
	assert.Equal(t, 4.0, stats.BySector[1].Average)
}
