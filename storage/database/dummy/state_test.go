package dummydb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/presence/core/attendance"
)

func TestStatePersister(t *testing.T) {
	ctx := context.Background()
	db, _ := Open()
	p := NewStatePersister(db)

	got, err := p.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.IsEmpty() {
		t.Errorf("Load() = %+v; want an empty state", got)
	}

	state := attendance.State{
		Courses:           []attendance.Course{{ID: "a", Name: "Maths", AttendanceTarget: 75}},
		AttendanceRecords: []attendance.AttendanceRecord{{ID: "r", CourseID: "a", Date: "2024-09-02", Attended: true}},
	}
	if err = p.Save(ctx, state); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	state.Courses[0].Name = "changed after save"

	got, err = p.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assert.Equal(t, "Maths", got.Courses[0].Name)
	assert.Equal(t, state.AttendanceRecords, got.AttendanceRecords)

	t.Run("canceled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		if err := p.Save(cctx, attendance.State{}); err == nil {
			t.Error("Save() expected an error")
		}
	})
}
