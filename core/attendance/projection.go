package attendance

import (
	"fmt"

	"github.com/trezcool/presence/core"
)

// MaxProjectionClasses bounds the simulation of ClassesNeeded.
const MaxProjectionClasses = 100

type ProjectionOutcome string

const (
	ProjectionAchieved ProjectionOutcome = "achieved"
	ProjectionNeeded   ProjectionOutcome = "needed"
)

// Projection estimates how many more attended classes a course needs to reach its target.
type Projection struct {
	CourseID      string            `json:"courseId"`
	Outcome       ProjectionOutcome `json:"outcome"`
	Target        int               `json:"target"`
	Current       Stats             `json:"current"`
	ClassesNeeded int               `json:"classesNeeded"`
	Capped        bool              `json:"capped"` // MaxProjectionClasses was hit before reaching the target
}

func (p Projection) Achieved() bool { return p.Outcome == ProjectionAchieved }

func (p Projection) String() string {
	if p.Achieved() {
		return "Target achieved!"
	}
	classes := core.Pluralize(p.ClassesNeeded, "more class", "more classes")
	if p.Capped {
		return fmt.Sprintf("Attend %s (or more) to reach %d%%", classes, p.Target)
	}
	return fmt.Sprintf("Attend %s to reach %d%%", classes, p.Target)
}

// reached tests the unrounded ratio against target.
// With no history the ratio is taken as 0%, before any class is attended.
func reached(attended, total, target int) bool {
	if total == 0 {
		return target <= 0
	}
	return ratio(attended, total) >= float64(target)
}

// ClassesNeeded simulates attending one more class at a time until the unrounded
// attended/total ratio reaches target, for at most MaxProjectionClasses classes.
// capped is true when the bound was hit without reaching target.
func ClassesNeeded(attended, total, target int) (n int, capped bool) {
	for n < MaxProjectionClasses && !reached(attended, total, target) {
		attended++
		total++
		n++
	}
	return n, !reached(attended, total, target)
}

func project(c Course, stats Stats) Projection {
	p := Projection{
		CourseID: c.ID,
		Target:   c.AttendanceTarget,
		Current:  stats,
	}
	if stats.Percentage >= c.AttendanceTarget {
		p.Outcome = ProjectionAchieved
		return p
	}
	p.Outcome = ProjectionNeeded
	p.ClassesNeeded, p.Capped = ClassesNeeded(stats.Attended, stats.Total, c.AttendanceTarget)
	return p
}

// Projection reports whether the course already meets its target (rounded percentage)
// or how many more classes it needs (unrounded simulation).
func (t *Tracker) Projection(courseID string) (Projection, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i := t.courseIndex(courseID)
	if i < 0 {
		return Projection{}, ErrCourseNotFound
	}
	c := t.courses[i]
	return project(c, t.courseStats(c.ID)), nil
}
