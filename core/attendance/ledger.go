package attendance

import "github.com/trezcool/presence/core"

// Crossing tells how a mark moved a course relative to its target.
type Crossing int

const (
	CrossingNone    Crossing = iota
	CrossingReached          // was below target, now at or above
	CrossingLost             // was at or above target, now below
)

func (c Crossing) String() string {
	switch c {
	case CrossingReached:
		return "reached"
	case CrossingLost:
		return "lost"
	default:
		return "none"
	}
}

// MarkResult describes the outcome of MarkAttendance.
type MarkResult struct {
	Record   AttendanceRecord
	Created  bool // false when an existing record was overwritten
	Course   Course
	Before   Stats
	After    Stats
	Crossing Crossing
}

func (t *Tracker) recordIndex(courseID, date string) int {
	for i, r := range t.records {
		if r.CourseID == courseID && r.Date == date {
			return i
		}
	}
	return -1
}

// MarkAttendance upserts the record for (courseID, date): an existing record keeps its ID
// and gets the new flag, otherwise a record with a fresh ID is appended.
// ErrCourseNotFound is returned for unknown courses so no orphan record is ever created.
func (t *Tracker) MarkAttendance(courseID, date string, attended bool) (MarkResult, error) {
	in := markAttendance{CourseID: courseID, Date: core.CleanString(date)}
	if err := core.ValidateStruct(in); err != nil {
		return MarkResult{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	ci := t.courseIndex(in.CourseID)
	if ci < 0 {
		return MarkResult{}, ErrCourseNotFound
	}
	course := t.courses[ci]
	res := MarkResult{Course: course, Before: t.courseStats(course.ID)}

	if i := t.recordIndex(in.CourseID, in.Date); i >= 0 {
		t.records[i].Attended = attended
		res.Record = t.records[i]
	} else {
		rec := AttendanceRecord{
			ID:       t.newID(),
			CourseID: in.CourseID,
			Date:     in.Date,
			Attended: attended,
		}
		t.records = append(t.records, rec)
		res.Record = rec
		res.Created = true
	}

	res.After = t.courseStats(course.ID)
	wasAbove := res.Before.Percentage >= course.AttendanceTarget
	isAbove := res.After.Percentage >= course.AttendanceTarget
	switch {
	case !wasAbove && isAbove:
		res.Crossing = CrossingReached
	case wasAbove && !isAbove:
		res.Crossing = CrossingLost
	}

	return res, t.persist()
}

// AttendanceForDate returns the record for (courseID, date).
// ok is false when nothing was marked yet, which is distinct from a record with Attended=false.
func (t *Tracker) AttendanceForDate(courseID, date string) (rec AttendanceRecord, ok bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if i := t.recordIndex(courseID, core.CleanString(date)); i >= 0 {
		return t.records[i], true
	}
	return AttendanceRecord{}, false
}
