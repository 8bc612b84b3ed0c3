package logsvc

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/presence/core"
	"github.com/trezcool/presence/core/attendance"
)

func TestRollbarLogger_prepare(t *testing.T) {
	l := RollbarLogger{}
	course := attendance.Course{ID: "a", Name: "Maths", AttendanceTarget: 75}
	cause := errors.New("boom")

	got := l.prepare("saving", []interface{}{cause, course})
	if len(got) != 3 {
		t.Fatalf("prepare() = %v; want msg, error and extras", got)
	}
	assert.Equal(t, "saving", got[0])
	assert.Equal(t, cause, got[1])
	extras, ok := got[2].(map[string]interface{})
	if !ok {
		t.Fatalf("prepare()[2] = %T; want extras", got[2])
	}
	assert.Equal(t, map[string]interface{}{"id": "a", "name": "Maths", "target": 75}, extras["course"])

	if got := l.prepare("plain", nil); len(got) != 1 {
		t.Errorf("prepare() = %v; want only the message", got)
	}
}

func TestRollbarLogger_print(t *testing.T) {
	var buf bytes.Buffer
	l := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Debug: true})

	l.Warn("dropped 2 records", attendance.Course{Name: "Maths"})
	out := buf.String()
	if !strings.Contains(out, "dropped 2 records\n") || !strings.Contains(out, "Name:Maths") {
		t.Errorf("output = %q", out)
	}
}
