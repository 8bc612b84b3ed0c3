package attendance

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/trezcool/presence/core"
)

// StorageKey identifies the single persisted record holding both collections.
const StorageKey = "attendance-storage"

var (
	// errors
	ErrCourseNotFound  = errors.New("course not found")
	ErrDuplicateCourse = errors.New("course id already exists")
)

type Course struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	AttendanceTarget int    `json:"attendanceTarget"` // percent, 1..100
}

// AttendanceRecord is one day's present/absent mark for one course.
// There is at most one record per (CourseID, Date).
type AttendanceRecord struct {
	ID       string `json:"id"`
	CourseID string `json:"courseId"`
	Date     string `json:"date"` // YYYY-MM-DD
	Attended bool   `json:"attended"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Name             string `json:"name" validate:"coursename"`
	AttendanceTarget int    `json:"attendanceTarget" validate:"attendancetarget"`
}

func (nc *NewCourse) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	return core.ValidateStruct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
// nil fields are left untouched.
type UpdateCourse struct {
	Name             *string `json:"name"`
	AttendanceTarget *int    `json:"attendanceTarget"`
}

// merge validates uc applied on top of orig and returns the resulting Course.
func (uc UpdateCourse) merge(orig Course) (Course, error) {
	nc := NewCourse{Name: orig.Name, AttendanceTarget: orig.AttendanceTarget}
	if uc.Name != nil {
		nc.Name = *uc.Name
	}
	if uc.AttendanceTarget != nil {
		nc.AttendanceTarget = *uc.AttendanceTarget
	}
	if err := nc.Validate(); err != nil {
		return Course{}, err
	}
	orig.Name = nc.Name
	orig.AttendanceTarget = nc.AttendanceTarget
	return orig, nil
}

type markAttendance struct {
	CourseID string `json:"courseId" validate:"required"`
	Date     string `json:"date" validate:"isodate"`
}

// Stats is the attended/total ratio of a set of records.
type Stats struct {
	Attended   int `json:"attended"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"` // round(attended/total*100), 0 when Total is 0
}

// State is the persisted layout: both collections, in insertion order.
type State struct {
	Courses           []Course           `json:"courses"`
	AttendanceRecords []AttendanceRecord `json:"attendanceRecords"`
}

func (s State) IsEmpty() bool {
	return len(s.Courses) == 0 && len(s.AttendanceRecords) == 0
}

func (s State) Marshal() ([]byte, error) {
	if s.Courses == nil {
		s.Courses = []Course{}
	}
	if s.AttendanceRecords == nil {
		s.AttendanceRecords = []AttendanceRecord{}
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, errors.Wrap(err, "encoding attendance state")
	}
	return data, nil
}

// UnmarshalState decodes a persisted record. Empty data decodes to an empty State.
func UnmarshalState(data []byte) (State, error) {
	var s State
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return State{}, errors.Wrap(err, "decoding attendance state")
	}
	return s, nil
}

// Persister durably stores the State. Load returns an empty State when nothing was saved yet.
type Persister interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

// PersistError reports that a mutation was applied in memory but could not be saved.
type PersistError struct {
	Err error
}

func (err *PersistError) Error() string {
	return "saving attendance state: " + err.Err.Error()
}

func (err *PersistError) Unwrap() error { return err.Err }

func IsPersistError(err error) bool {
	var perr *PersistError
	return errors.As(err, &perr)
}
