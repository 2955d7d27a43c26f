package test

import (
	"context"
	"log"
	"testing"
	"time"

	"taskflow/internal/adapter/database/sqlite"
	"taskflow/internal/core/domain"
)

// Today is the fixed "now" used by tests that depend on date arithmetic.
var Today = time.Date(2026, time.February, 12, 9, 0, 0, 0, time.UTC)

// FixedClock returns a clock pinned to at.
func FixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

// TickingClock advances one millisecond on every call.
func TickingClock(from time.Time) func() time.Time {
	current := from

	return func() time.Time {
		current = current.Add(time.Millisecond)
		return current
	}
}

// InitTestDB opens a migrated in-memory SQLite database.
func InitTestDB() *sqlite.DB {
	db, err := sqlite.NewDB(sqlite.Options{Path: sqlite.MemoryPath})

	if err != nil {
		log.Fatal(err)
	}

	return db
}

func CleanDB(t *testing.T, db *sqlite.DB) {
	t.Helper()

	for _, table := range []string{"snapshots", "users"} {
		if _, err := db.ExecContext(context.Background(), "DELETE FROM "+table); err != nil {
			t.Fatalf("Failed to clean table %s: %v", table, err)
		}
	}
}

// DaysFromToday returns the calendar date offset days away from Today.
func DaysFromToday(days int) domain.Date {
	return domain.DateOf(Today).AddDays(days)
}
