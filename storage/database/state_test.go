package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/presence/core"
	"github.com/trezcool/presence/core/attendance"
)

func openTestDB(t *testing.T, path string) *statePersister {
	t.Helper()
	conf := &core.Config{Storage: core.StorageConfig{Engine: core.EngineSQLite, Path: path}}
	db, err := Open(conf)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStatePersister(db).(*statePersister)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name string
		conf *core.Config
	}{
		{name: "unknown engine", conf: &core.Config{Storage: core.StorageConfig{Engine: "mongo"}}},
		{name: "memory is not a database", conf: &core.Config{Storage: core.StorageConfig{Engine: core.EngineMemory}}},
		{name: "sqlite without path", conf: &core.Config{Storage: core.StorageConfig{Engine: core.EngineSQLite, Path: " "}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if db, err := Open(tt.conf); err == nil {
				_ = db.Close()
				t.Error("Open() expected an error")
			}
		})
	}
}

func TestOpen_sqlitePragmas(t *testing.T) {
	p := openTestDB(t, filepath.Join(t.TempDir(), "presence.db"))

	tests := []struct {
		pragma string
		want   string
	}{
		{pragma: "journal_mode", want: "wal"},
		{pragma: "busy_timeout", want: "5000"},
		{pragma: "foreign_keys", want: "1"},
	}
	for _, tt := range tests {
		t.Run(tt.pragma, func(t *testing.T) {
			var got string
			if err := p.db.Get(&got, "PRAGMA "+tt.pragma); err != nil {
				t.Fatalf("PRAGMA %s error = %v", tt.pragma, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMigrate_isIdempotent(t *testing.T) {
	p := openTestDB(t, filepath.Join(t.TempDir(), "nested", "presence.db"))
	if err := Migrate(p.db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	var applied int
	if err := p.db.Get(&applied, `SELECT COUNT(*) FROM schema_migrations`); err != nil {
		t.Fatal(err)
	}
	if applied != 1 {
		t.Errorf("applied migrations = %d; want 1", applied)
	}
}

func TestStatePersister(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "presence.db")
	p := openTestDB(t, path)

	nowFunc = func() time.Time { return time.Date(2024, time.September, 2, 10, 0, 0, 0, time.UTC) }
	defer func() { nowFunc = time.Now }() // reset

	got, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.IsEmpty() {
		t.Errorf("Load() = %+v; want an empty state", got)
	}

	first := attendance.State{
		Courses: []attendance.Course{{ID: "a", Name: "Maths", AttendanceTarget: 75}},
	}
	second := attendance.State{
		Courses: []attendance.Course{
			{ID: "a", Name: "Maths", AttendanceTarget: 75},
			{ID: "b", Name: "Physics", AttendanceTarget: 80},
		},
		AttendanceRecords: []attendance.AttendanceRecord{
			{ID: "r1", CourseID: "b", Date: "2024-09-02", Attended: false},
		},
	}
	for _, state := range []attendance.State{first, second} {
		if err = p.Save(ctx, state); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	var rows int
	if err = p.db.Get(&rows, `SELECT COUNT(*) FROM app_state`); err != nil {
		t.Fatal(err)
	}
	if rows != 1 {
		t.Errorf("app_state rows = %d; want 1", rows)
	}

	t.Run("reopened", func(t *testing.T) {
		reopened := openTestDB(t, path)
		got, err := reopened.Load(ctx)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		assert.Equal(t, second, got)
	})
}
