package attendance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStats(t *testing.T) {
	tests := []struct {
		attended, total int
		want            int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{3, 4, 75},
		{1, 4, 25},
		{1, 8, 13}, // 12.5 rounds up
		{2, 3, 67},
		{1, 3, 33},
		{149, 200, 75}, // 74.5 rounds up
		{5, 5, 100},
	}
	for _, tt := range tests {
		got := newStats(tt.attended, tt.total)
		if got.Percentage != tt.want || got.Attended != tt.attended || got.Total != tt.total {
			t.Errorf("newStats(%d, %d) = %+v; want percentage %d", tt.attended, tt.total, got, tt.want)
		}
	}
}

func TestTracker_AttendanceForCourse(t *testing.T) {
	tr, _ := setup(t)
	good := createCourse(t, tr, "Maths", 75)
	bad := createCourse(t, tr, "Physics", 75)
	fresh := createCourse(t, tr, "Chemistry", 75)
	markDays(t, tr, good.ID, true, true, false, true)
	markDays(t, tr, bad.ID, false, true, false, false)

	tests := []struct {
		name string
		id   string
		want Stats
	}{
		{name: "3 of 4", id: good.ID, want: Stats{Attended: 3, Total: 4, Percentage: 75}},
		{name: "1 of 4", id: bad.ID, want: Stats{Attended: 1, Total: 4, Percentage: 25}},
		{name: "no records", id: fresh.ID, want: Stats{}},
		{name: "unknown course", id: "lol", want: Stats{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.AttendanceForCourse(tt.id); got != tt.want {
				t.Errorf("AttendanceForCourse() = %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestTracker_OverallAttendance(t *testing.T) {
	tr, _ := setup(t)
	if got := tr.OverallAttendance(); got != (Stats{}) {
		t.Errorf("OverallAttendance() = %+v; want zero stats", got)
	}

	maths := createCourse(t, tr, "Maths", 75)
	physics := createCourse(t, tr, "Physics", 75)
	markDays(t, tr, maths.ID, true, true, true, true, true, true) // 6/6
	markDays(t, tr, physics.ID, false, false)                     // 0/2

	// weighted by record count, not the mean of per-course percentages
	if got := tr.OverallAttendance(); got != (Stats{Attended: 6, Total: 8, Percentage: 75}) {
		t.Errorf("OverallAttendance() = %+v", got)
	}

	if err := tr.DeleteCourse(maths.ID); err != nil {
		t.Fatal(err)
	}
	if got := tr.OverallAttendance(); got != (Stats{Attended: 0, Total: 2, Percentage: 0}) {
		t.Errorf("OverallAttendance() after delete = %+v", got)
	}
}

func TestTracker_CoursesBelow(t *testing.T) {
	tr, _ := setup(t)
	if got := tr.CoursesBelow(); got == nil || len(got) != 0 {
		t.Errorf("CoursesBelow() = %#v; want an empty slice", got)
	}

	exact := createCourse(t, tr, "Maths", 75)
	under := createCourse(t, tr, "Physics", 75)
	fresh := createCourse(t, tr, "Chemistry", 1)
	over := createCourse(t, tr, "Biology", 50)
	markDays(t, tr, exact.ID, true, true, false, true)
	markDays(t, tr, under.ID, true, false, false, false)
	markDays(t, tr, over.ID, true, false)

	assert.Equal(t, []Course{under, fresh}, tr.CoursesBelow())
}

func TestTracker_Summary(t *testing.T) {
	tr, _ := setup(t)
	maths := createCourse(t, tr, "Maths", 75)
	physics := createCourse(t, tr, "Physics", 80)
	markDays(t, tr, maths.ID, true, true, false, true)
	markDays(t, tr, physics.ID, true, false)

	sum := tr.Summary()
	if sum.CourseCount != 2 || sum.BelowTargetCount != 1 {
		t.Errorf("Summary() counts = %d/%d; want 2/1", sum.CourseCount, sum.BelowTargetCount)
	}
	if sum.Overall != (Stats{Attended: 4, Total: 6, Percentage: 67}) {
		t.Errorf("Summary() overall = %+v", sum.Overall)
	}
	if len(sum.Courses) != 2 {
		t.Fatalf("Summary() courses = %d; want 2", len(sum.Courses))
	}

	m, p := sum.Courses[0], sum.Courses[1]
	if m.Name != "Maths" || m.BelowTarget || !m.Projection.Achieved() {
		t.Errorf("Summary() maths row = %+v", m)
	}
	if p.Name != "Physics" || !p.BelowTarget || p.Projection.ClassesNeeded != 3 {
		t.Errorf("Summary() physics row = %+v", p) // (1+3)/(2+3) = 80%
	}
}

func TestTracker_Warnings(t *testing.T) {
	tr, _ := setup(t)
	under := createCourse(t, tr, "Physics", 75)
	createCourse(t, tr, "Chemistry", 75) // never marked
	markDays(t, tr, under.ID, true, false)

	got := tr.Warnings()
	if len(got) != 1 || got[0].ID != under.ID {
		t.Errorf("Warnings() = %+v; want only %s", got, under.Name)
	}
}
