package attendance

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/presence/core"
)

var errSaveFailed = errors.New("disk full")

type persisterMock struct {
	mu      sync.Mutex
	state   State
	saves   int
	loadErr error
	saveErr error
}

func (p *persisterMock) Load(context.Context) (State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state, p.loadErr
}

func (p *persisterMock) Save(ctx context.Context, state State) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.saveErr != nil {
		return p.saveErr
	}
	p.saves++
	p.state = state
	return nil
}

type emailServiceMock struct {
	sent []*core.EmailMessage
}

func (svc *emailServiceMock) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		// run synchronously
		if err := msg.Render(); err == nil {
			svc.sent = append(svc.sent, msg)
		}
	}
}

func seqIDs() func() string {
	var n int
	return func() string {
		n++
		return "id" + strconv.Itoa(n)
	}
}

func setup(t *testing.T, initial ...State) (*Tracker, *persisterMock) {
	t.Helper()
	p := &persisterMock{}
	if len(initial) > 0 {
		p.state = initial[0]
	}
	tr, err := NewTracker(context.Background(), p, WithIDGenerator(seqIDs()))
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return tr, p
}

func createCourse(t *testing.T, tr *Tracker, name string, target int) Course {
	t.Helper()
	c, err := tr.AddCourse(NewCourse{Name: name, AttendanceTarget: target})
	if err != nil {
		t.Fatalf("createCourse() failed: %v", err)
	}
	return c
}

// markDays marks one record per consecutive day starting at 2024-09-02.
func markDays(t *testing.T, tr *Tracker, courseID string, marks ...bool) {
	t.Helper()
	start := time.Date(2024, time.September, 2, 0, 0, 0, 0, time.UTC)
	for i, attended := range marks {
		if _, err := tr.MarkAttendance(courseID, FormatDate(start.AddDate(0, 0, i)), attended); err != nil {
			t.Fatalf("markDays() failed: %v", err)
		}
	}
}

func fixNow(t *testing.T, now time.Time) {
	t.Helper()
	NowFunc = func() time.Time { return now }
	t.Cleanup(func() { NowFunc = time.Now }) // reset
}
