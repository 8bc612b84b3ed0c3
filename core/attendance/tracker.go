package attendance

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/presence/core"
)

type (
	// Tracker owns the courses and attendance records.
	// Collections are only mutated through its methods and every mutation is followed by a synchronous Save.
	// Queries (stats, projections, summaries) are recomputed from the current collections on each call;
	// they are intentionally not cached so they can never go stale after a mutation.
	Tracker struct {
		mu           sync.RWMutex
		courses      []Course
		records      []AttendanceRecord
		selectedDate string // not persisted

		// ctx is the process-lifetime base context of every Save. It keeps the values of the
		// context given to NewTracker but not its deadline or cancellation.
		ctx       context.Context
		persister Persister
		logger    core.Logger
		newID     func() string
	}

	Option func(*Tracker)
)

func WithLogger(logger core.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(t *Tracker) { t.newID = fn }
}

func newUUID() string { return uuid.New().String() }

// NewTracker restores the persisted State and returns a Tracker whose selected date is today.
func NewTracker(ctx context.Context, persister Persister, opts ...Option) (*Tracker, error) {
	if persister == nil {
		return nil, errors.New("attendance: persister is required")
	}
	t := &Tracker{
		ctx:          context.WithoutCancel(ctx),
		persister:    persister,
		logger:       nopLogger{},
		newID:        newUUID,
		selectedDate: Today(),
	}
	for _, opt := range opts {
		opt(t)
	}

	state, err := persister.Load(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "loading attendance state")
	}
	state, dropped := normalize(state)
	if dropped > 0 {
		t.logger.Warn(fmt.Sprintf("dropped %d orphan or duplicate attendance records on load", dropped))
	}
	t.courses = state.Courses
	t.records = state.AttendanceRecords
	return t, nil
}

// normalize enforces the store invariants on loaded data: no orphan records
// and a single record per (course, date), the last one winning.
func normalize(state State) (State, int) {
	known := make(map[string]bool, len(state.Courses))
	courses := make([]Course, 0, len(state.Courses))
	for _, c := range state.Courses {
		if known[c.ID] {
			continue
		}
		known[c.ID] = true
		courses = append(courses, c)
	}

	type key struct{ courseID, date string }
	idx := make(map[key]int, len(state.AttendanceRecords))
	records := make([]AttendanceRecord, 0, len(state.AttendanceRecords))
	var dropped int
	for _, r := range state.AttendanceRecords {
		if !known[r.CourseID] {
			dropped++
			continue
		}
		k := key{r.CourseID, r.Date}
		if i, ok := idx[k]; ok {
			records[i].Attended = r.Attended
			dropped++
			continue
		}
		idx[k] = len(records)
		records = append(records, r)
	}
	return State{Courses: courses, AttendanceRecords: records}, dropped
}

// snapshot copies both collections. Callers must hold t.mu.
func (t *Tracker) snapshot() State {
	s := State{
		Courses:           make([]Course, len(t.courses)),
		AttendanceRecords: make([]AttendanceRecord, len(t.records)),
	}
	copy(s.Courses, t.courses)
	copy(s.AttendanceRecords, t.records)
	return s
}

// persist saves the current State. Callers must hold t.mu for writing.
// A failure leaves the in-memory State untouched and is reported as a *PersistError.
func (t *Tracker) persist() error {
	if err := t.persister.Save(t.ctx, t.snapshot()); err != nil {
		t.logger.Error(fmt.Sprintf("saving attendance state: %v", err), err)
		return &PersistError{Err: err}
	}
	return nil
}

func (t *Tracker) courseIndex(id string) int {
	for i, c := range t.courses {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// AddCourse validates nc and appends a new Course with a fresh ID.
// A *core.ValidationError is returned, and nothing is stored, when nc is invalid.
func (t *Tracker) AddCourse(nc NewCourse) (Course, error) {
	return t.AddCourseWithID("", nc)
}

// AddCourseWithID is AddCourse keeping a known id, as when restoring an export.
// An empty id gets a fresh one. ErrDuplicateCourse is returned when id is taken.
func (t *Tracker) AddCourseWithID(id string, nc NewCourse) (Course, error) {
	if err := nc.Validate(); err != nil {
		return Course{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	id = core.CleanString(id)
	if id == "" {
		id = t.newID()
	} else if t.courseIndex(id) >= 0 {
		return Course{}, ErrDuplicateCourse
	}
	c := Course{
		ID:               id,
		Name:             nc.Name,
		AttendanceTarget: nc.AttendanceTarget,
	}
	t.courses = append(t.courses, c)
	return c, t.persist()
}

// UpdateCourse merges the provided fields into the Course matching id.
// Unknown ids are a no-op.
func (t *Tracker) UpdateCourse(id string, uc UpdateCourse) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.courseIndex(id)
	if i < 0 {
		return nil
	}
	c, err := uc.merge(t.courses[i])
	if err != nil {
		return err
	}
	t.courses[i] = c
	return t.persist()
}

// DeleteCourse removes the Course matching id and all of its attendance records.
// Unknown ids are a no-op.
func (t *Tracker) DeleteCourse(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.courseIndex(id)
	if i < 0 {
		return nil
	}
	courses := make([]Course, 0, len(t.courses)-1)
	courses = append(courses, t.courses[:i]...)
	t.courses = append(courses, t.courses[i+1:]...)

	kept := make([]AttendanceRecord, 0, len(t.records))
	for _, r := range t.records {
		if r.CourseID != id {
			kept = append(kept, r)
		}
	}
	t.records = kept
	return t.persist()
}

func (t *Tracker) Courses() []Course {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshot().Courses
}

func (t *Tracker) Course(id string) (Course, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if i := t.courseIndex(id); i >= 0 {
		return t.courses[i], true
	}
	return Course{}, false
}

// CourseByName returns the first course, in insertion order, whose name matches name ignoring case and surrounding spaces.
func (t *Tracker) CourseByName(name string) (Course, bool) {
	if matches := t.CoursesByName(name); len(matches) > 0 {
		return matches[0], true
	}
	return Course{}, false
}

// CoursesByName returns every course named name, ignoring case and surrounding spaces, in insertion order.
func (t *Tracker) CoursesByName(name string) []Course {
	t.mu.RLock()
	defer t.mu.RUnlock()

	name = core.CleanString(name, true /* lower */)
	var matches []Course
	for _, c := range t.courses {
		if strings.ToLower(c.Name) == name {
			matches = append(matches, c)
		}
	}
	return matches
}

func (t *Tracker) AttendanceRecords() []AttendanceRecord {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snapshot().AttendanceRecords
}

// SelectedDate returns the day collaborators read and write marks for, as YYYY-MM-DD.
func (t *Tracker) SelectedDate() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.selectedDate
}

// SetSelectedDate keeps the calendar day of day. It is never persisted.
func (t *Tracker) SetSelectedDate(day time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selectedDate = FormatDate(day)
}

// ShiftSelectedDate moves the selected date by n days and returns it.
func (t *Tracker) ShiftSelectedDate(n int) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if date, err := AddDays(t.selectedDate, n); err == nil {
		t.selectedDate = date
	}
	return t.selectedDate
}

func (t *Tracker) IsSelectedToday() bool {
	return t.SelectedDate() == Today()
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}
