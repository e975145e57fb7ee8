package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal/internal/database"
	"portal/internal/domain/reservation"
	"portal/internal/domain/room"
)

var defaults = options{DatabaseURL: "portal.db", Retention: 8760 * time.Hour}

func TestParseFlags_Defaults(t *testing.T) {
	opts, err := parseFlags(nil, defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults, opts)
}

func TestParseFlags_Overrides(t *testing.T) {
	opts, err := parseFlags([]string{"--retention", "720h", "--database-url=postgres://portal@db/portal"}, defaults)
	require.NoError(t, err)
	assert.Equal(t, 720*time.Hour, opts.Retention)
	assert.Equal(t, "postgres://portal@db/portal", opts.DatabaseURL)
}

func TestParseFlags_Rejects(t *testing.T) {
	cases := map[string][]string{
		"bad duration": {"--retention", "soon"},
		"zero":         {"--retention", "0s"},
		"negative":     {"--retention=-1h"},
		"empty url":    {"--database-url="},
		"unknown flag": {"--force"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseFlags(args, defaults)
			assert.Error(t, err)
		})
	}

	_, err := parseFlags([]string{"--help"}, defaults)
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestPurge_DeletesOnlyOldCancelled(t *testing.T) {
	dsn := "file:cleanup_" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := database.Connect(dsn, database.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	require.NoError(t, database.Migrate(db))

	rm := room.Room{Name: "Sala Atlantico", Capacity: 8, Active: true}
	require.NoError(t, db.Create(&rm).Error)

	now := time.Now().UTC().Truncate(time.Second)
	old := now.Add(-60 * 24 * time.Hour)
	recent := now.Add(-2 * time.Hour)
	mk := func(title string, status reservation.Status, cancelledAt *time.Time) {
		r := reservation.Reservation{
			RoomID: rm.ID, RoomName: rm.Name, UserID: 1, UserName: "Ana",
			StartTime: old, EndTime: old.Add(time.Hour), Title: title,
			Resources: []string{}, Status: status, CancelledAt: cancelledAt,
		}
		require.NoError(t, db.Create(&r).Error)
	}
	mk("old cancelled", reservation.StatusCancelled, &old)
	mk("recent cancelled", reservation.StatusCancelled, &recent)
	mk("confirmed", reservation.StatusConfirmed, nil)

	n, err := purge(context.Background(), db, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var titles []string
	require.NoError(t, db.Model(&reservation.Reservation{}).Order("title").Pluck("title", &titles).Error)
	assert.Equal(t, []string{"confirmed", "recent cancelled"}, titles)
}
