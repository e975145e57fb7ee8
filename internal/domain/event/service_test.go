package event

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"portal/internal/domain/auth"
)

type fixture struct {
	svc   *Service
	admin auth.Actor
	tei   auth.Actor
	tei2  auth.Actor
	rh    auth.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:event_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&auth.User{}, &Event{}))

	mk := func(email, sector string, role auth.UserRole) auth.Actor {
		u := auth.User{Email: email, PasswordHash: "x", Name: strings.Split(email, "@")[0], Sector: sector, Role: role, Active: true}
		require.NoError(t, db.Create(&u).Error)
		return auth.Actor{UserID: u.ID, Role: u.Role, Sector: u.Sector}
	}

	f := &fixture{svc: NewService(NewRepository(db), auth.NewUserRepository(db))}
	f.admin = mk("admin@tradestars.com", "Diretoria", auth.RoleAdmin)
	f.tei = mk("tei@tradestars.com", "TEI", auth.RoleEmployee)
	f.tei2 = mk("tei2@tradestars.com", "TEI", auth.RoleEmployee)
	f.rh = mk("rh@tradestars.com", "RH", auth.RoleEmployee)
	return f
}

var base = time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)

func hour(h int) time.Time { return base.Add(time.Duration(h) * time.Hour) }

func ids(events []Event) []int64 {
	out := make([]int64, 0, len(events))
	for _, e := range events {
		out = append(out, e.ID)
	}
	return out
}

func TestCreate_Defaults(t *testing.T) {
	f := newFixture(t)

	e, err := f.svc.Create(context.Background(), f.tei, CreateRequest{Title: "Treinamento Git", Start: hour(9), End: hour(10), Visibility: VisibilitySector})
	require.NoError(t, err)
	assert.Equal(t, TypeOther, e.Type)
	require.NotNil(t, e.Sector)
	assert.Equal(t, "TEI", *e.Sector)
	assert.Equal(t, "tei", e.CreatorName)
	assert.Equal(t, []int64{}, e.Participants)

	_, err = f.svc.Create(context.Background(), f.tei, CreateRequest{Title: "x", Start: hour(10), End: hour(9)})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreate_AllDaySpansWholeDays(t *testing.T) {
	f := newFixture(t)

	e, err := f.svc.Create(context.Background(), f.admin, CreateRequest{
		Title: "Feriado", Start: hour(15), End: hour(15), AllDay: true, Type: TypeHoliday,
	})
	require.NoError(t, err)
	assert.True(t, e.Start.Equal(base))
	assert.True(t, e.End.Equal(base.Add(24*time.Hour)))
}

func TestUpdate_AllDayKeepsLastDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.svc.Create(ctx, f.admin, CreateRequest{
		Title: "Feriado", Start: hour(0), End: hour(0), AllDay: true, Type: TypeHoliday,
	})
	require.NoError(t, err)

	newStart := base.Add(-24 * time.Hour)
	e, err = f.svc.Update(ctx, f.admin, e.ID, UpdateRequest{Start: &newStart})
	require.NoError(t, err)
	assert.True(t, e.Start.Equal(newStart))
	assert.True(t, e.End.Equal(base.Add(24*time.Hour)), "end=%s", e.End)

	allDay := true
	e, err = f.svc.Update(ctx, f.admin, e.ID, UpdateRequest{AllDay: &allDay})
	require.NoError(t, err)
	assert.True(t, e.End.Equal(base.Add(24*time.Hour)), "end=%s", e.End)

	title := "Feriado municipal"
	_, err = f.svc.Update(ctx, f.admin, e.ID, UpdateRequest{Title: &title})
	require.NoError(t, err)
	got, err := f.svc.Get(ctx, f.admin, e.ID)
	require.NoError(t, err)
	assert.True(t, got.End.Equal(base.Add(24*time.Hour)), "end=%s", got.End)
}

func TestUpdate_AllDayToTimedKeepsStoredEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.svc.Create(ctx, f.admin, CreateRequest{Title: "Offsite", Start: hour(0), End: hour(0), AllDay: true})
	require.NoError(t, err)

	allDay := false
	start := hour(9)
	e, err = f.svc.Update(ctx, f.admin, e.ID, UpdateRequest{Start: &start, AllDay: &allDay})
	require.NoError(t, err)
	assert.False(t, e.AllDay)
	assert.True(t, e.Start.Equal(hour(9)))
	assert.True(t, e.End.Equal(base.Add(24*time.Hour)))
}

func TestList_VisibilityAndWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	public, err := f.svc.Create(ctx, f.rh, CreateRequest{Title: "Festa", Start: hour(18), End: hour(22), Visibility: VisibilityPublic})
	require.NoError(t, err)
	sector, err := f.svc.Create(ctx, f.tei, CreateRequest{Title: "Daily TEI", Start: hour(9), End: hour(10), Visibility: VisibilitySector})
	require.NoError(t, err)
	private, err := f.svc.Create(ctx, f.rh, CreateRequest{
		Title: "1:1", Start: hour(11), End: hour(12), Visibility: VisibilityPrivate, Participants: []int64{f.tei2.UserID},
	})
	require.NoError(t, err)

	got, err := f.svc.List(ctx, f.tei, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{sector.ID, public.ID}, ids(got))

	got, err = f.svc.List(ctx, f.tei2, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{sector.ID, private.ID, public.ID}, ids(got))

	got, err = f.svc.List(ctx, f.rh, Filter{})
	require.NoError(t, err)
	assert.Equal(t, []int64{private.ID, public.ID}, ids(got))

	got, err = f.svc.List(ctx, f.admin, Filter{})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	// a window inside the party still finds it
	from, to := hour(19), hour(20)
	got, err = f.svc.List(ctx, f.admin, Filter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Equal(t, []int64{public.ID}, ids(got))

	_, err = f.svc.Get(ctx, f.tei, private.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.Get(ctx, f.tei2, private.ID)
	require.NoError(t, err)
}

func TestUpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	e, err := f.svc.Create(ctx, f.tei, CreateRequest{Title: "Retro", Start: hour(14), End: hour(15)})
	require.NoError(t, err)

	title := "Retro Sprint 12"
	_, err = f.svc.Update(ctx, f.rh, e.ID, UpdateRequest{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)

	end := hour(16)
	updated, err := f.svc.Update(ctx, f.tei, e.ID, UpdateRequest{Title: &title, End: &end})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.True(t, updated.Start.Equal(hour(14)))
	assert.True(t, updated.End.Equal(hour(16)))

	early := hour(13)
	_, err = f.svc.Update(ctx, f.tei, e.ID, UpdateRequest{End: &early})
	assert.ErrorIs(t, err, ErrValidation)

	assert.ErrorIs(t, f.svc.Delete(ctx, f.rh, e.ID), ErrForbidden)
	require.NoError(t, f.svc.Delete(ctx, f.admin, e.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, f.admin, e.ID), ErrNotFound)
}

func TestVisibleTo(t *testing.T) {
	teiSector := "TEI"
	e := Event{CreatorID: 1, Visibility: VisibilitySector, Sector: &teiSector}

	assert.True(t, e.VisibleTo(auth.Actor{UserID: 1}))
	assert.True(t, e.VisibleTo(auth.Actor{UserID: 2, Sector: "TEI"}))
	assert.False(t, e.VisibleTo(auth.Actor{UserID: 3, Sector: "RH"}))
	assert.True(t, e.VisibleTo(auth.Actor{UserID: 3, Sector: "RH", Role: auth.RoleAdmin}))

	e.Visibility = VisibilityPrivate
	e.Participants = []int64{4}
	assert.False(t, e.VisibleTo(auth.Actor{UserID: 2, Sector: "TEI"}))
	assert.True(t, e.VisibleTo(auth.Actor{UserID: 4}))
}
