package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/trezcool/presence/core/attendance"
	dummydb "github.com/trezcool/presence/storage/database/dummy"
)

// FirstDay is the date MarkDays starts from.
var FirstDay = time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)

// NewTracker returns a Tracker over a fresh in-memory store, and that store's Persister.
func NewTracker(t *testing.T, opts ...attendance.Option) (*attendance.Tracker, attendance.Persister) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("newTracker() failed: %v", err)
	}
	p := dummydb.NewStatePersister(db)
	tr, err := attendance.NewTracker(context.Background(), p, opts...)
	if err != nil {
		t.Fatalf("newTracker() failed: %v", err)
	}
	return tr, p
}

func CreateCourse(t *testing.T, tr *attendance.Tracker, name string, target int) attendance.Course {
	t.Helper()
	c, err := tr.AddCourse(attendance.NewCourse{Name: name, AttendanceTarget: target})
	if err != nil {
		t.Fatalf("createCourse() failed: %v", err)
	}
	return c
}

// MarkDays marks one record per consecutive day starting at FirstDay.
func MarkDays(t *testing.T, tr *attendance.Tracker, courseID string, marks ...bool) {
	t.Helper()
	for i, attended := range marks {
		date := attendance.FormatDate(FirstDay.AddDate(0, 0, i))
		if _, err := tr.MarkAttendance(courseID, date, attended); err != nil {
			t.Fatalf("markDays() failed: %v", err)
		}
	}
}
