package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/trezcool/presence/core"
	"github.com/trezcool/presence/core/attendance"
)

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		storage core.StorageConfig
		wantErr bool
	}{
		{name: "memory", storage: core.StorageConfig{Engine: core.EngineMemory}},
		{name: "sqlite", storage: core.StorageConfig{Engine: core.EngineSQLite, Path: filepath.Join(t.TempDir(), "presence.db")}},
		{name: "unknown", storage: core.StorageConfig{Engine: "floppy"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			p, closer, err := Open(ctx, &core.Config{Storage: tt.storage})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v; wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			defer func() { _ = closer.Close() }()

			tr, err := attendance.NewTracker(ctx, p)
			if err != nil {
				t.Fatalf("NewTracker() error = %v", err)
			}
			c, err := tr.AddCourse(attendance.NewCourse{Name: "Maths", AttendanceTarget: 75})
			if err != nil {
				t.Fatalf("AddCourse() error = %v", err)
			}

			restored, err := attendance.NewTracker(ctx, p)
			if err != nil {
				t.Fatalf("NewTracker() error = %v", err)
			}
			if got, ok := restored.Course(c.ID); !ok || got != c {
				t.Errorf("Course() = %+v, %v; want %+v", got, ok, c)
			}
		})
	}
}
