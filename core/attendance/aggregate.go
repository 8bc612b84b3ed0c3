package attendance

import "math"

// newStats computes the rounded percentage the same way for every aggregate:
// round(attended/total*100) with halves rounded up, and 0 for an empty set.
func newStats(attended, total int) Stats {
	s := Stats{Attended: attended, Total: total}
	if total > 0 {
		s.Percentage = int(math.Floor(ratio(attended, total) + 0.5))
	}
	return s
}

// ratio is the unrounded attended/total percentage. total must be > 0.
func ratio(attended, total int) float64 {
	return float64(attended) / float64(total) * 100
}

// courseStats callers must hold t.mu.
func (t *Tracker) courseStats(courseID string) Stats {
	var attended, total int
	for _, r := range t.records {
		if r.CourseID != courseID {
			continue
		}
		total++
		if r.Attended {
			attended++
		}
	}
	return newStats(attended, total)
}

// AttendanceForCourse returns the stats of all records of the course.
// Unknown courses and courses without records both yield the zero Stats.
func (t *Tracker) AttendanceForCourse(courseID string) Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.courseStats(courseID)
}

// OverallAttendance aggregates every record regardless of course, so courses weigh by record count.
func (t *Tracker) OverallAttendance() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.overallStats()
}

// overallStats callers must hold t.mu.
func (t *Tracker) overallStats() Stats {
	var attended int
	for _, r := range t.records {
		if r.Attended {
			attended++
		}
	}
	return newStats(attended, len(t.records))
}

// CoursesBelow returns, in insertion order, every course whose percentage is under its target.
// Courses with no records have a 0 percentage and are therefore always included.
func (t *Tracker) CoursesBelow() []Course {
	t.mu.RLock()
	defer t.mu.RUnlock()

	below := make([]Course, 0)
	for _, c := range t.courses {
		if t.courseStats(c.ID).Percentage < c.AttendanceTarget {
			below = append(below, c)
		}
	}
	return below
}

// CourseSummary is the per-course row of a Summary.
type CourseSummary struct {
	Course
	Stats       Stats      `json:"stats"`
	BelowTarget bool       `json:"belowTarget"`
	Projection  Projection `json:"projection"`
}

type Summary struct {
	Overall          Stats           `json:"overall"`
	CourseCount      int             `json:"courseCount"`
	BelowTargetCount int             `json:"belowTargetCount"`
	Courses          []CourseSummary `json:"courses"`
}

func (t *Tracker) courseSummary(c Course) CourseSummary {
	stats := t.courseStats(c.ID)
	return CourseSummary{
		Course:      c,
		Stats:       stats,
		BelowTarget: stats.Percentage < c.AttendanceTarget,
		Projection:  project(c, stats),
	}
}

// Summary is the dashboard view: overall stats plus one row per course.
func (t *Tracker) Summary() Summary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	sum := Summary{
		Overall:     t.overallStats(),
		CourseCount: len(t.courses),
		Courses:     make([]CourseSummary, 0, len(t.courses)),
	}
	for _, c := range t.courses {
		cs := t.courseSummary(c)
		if cs.BelowTarget {
			sum.BelowTargetCount++
		}
		sum.Courses = append(sum.Courses, cs)
	}
	return sum
}

// Warnings lists courses that have at least one record and are below target.
// Unlike CoursesBelow, brand-new courses are left out.
func (t *Tracker) Warnings() []CourseSummary {
	t.mu.RLock()
	defer t.mu.RUnlock()

	warnings := make([]CourseSummary, 0)
	for _, c := range t.courses {
		if cs := t.courseSummary(c); cs.BelowTarget && cs.Stats.Total > 0 {
			warnings = append(warnings, cs)
		}
	}
	return warnings
}
