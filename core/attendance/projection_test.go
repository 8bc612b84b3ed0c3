package attendance

import (
	"testing"
)

func TestClassesNeeded(t *testing.T) {
	tests := []struct {
		name                   string
		attended, total, target int
		want                   int
		wantCapped             bool
	}{
		{name: "already there", attended: 3, total: 4, target: 75, want: 0},
		{name: "1 of 4", attended: 1, total: 4, target: 75, want: 8},
		{name: "0 of 1", attended: 0, total: 1, target: 50, want: 1},
		{name: "no history", attended: 0, total: 0, target: 75, want: 1},
		{name: "no history max target", attended: 0, total: 0, target: 100, want: 1},
		{name: "never reaches 100", attended: 3, total: 4, target: 100, want: MaxProjectionClasses, wantCapped: true},
		{name: "slow convergence", attended: 0, total: 10, target: 95, want: MaxProjectionClasses, wantCapped: true},
		{name: "all missed", attended: 0, total: 4, target: 75, want: 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, capped := ClassesNeeded(tt.attended, tt.total, tt.target)
			if got != tt.want || capped != tt.wantCapped {
				t.Errorf("ClassesNeeded() = %d, %v; want %d, %v", got, capped, tt.want, tt.wantCapped)
			}
			if !capped && tt.want > 0 {
				a, n := tt.attended+got, tt.total+got
				if ratio(a, n) < float64(tt.target) {
					t.Errorf("%d/%d is still below %d%%", a, n, tt.target)
				}
				if got > 1 && ratio(a-1, n-1) >= float64(tt.target) {
					t.Errorf("ClassesNeeded() = %d is not minimal", got)
				}
			}
		})
	}
}

func TestTracker_Projection(t *testing.T) {
	tests := []struct {
		name   string
		target int
		marks  []bool
		want   Projection
		str    string
	}{
		{
			name:   "3 of 4 achieved",
			target: 75,
			marks:  []bool{true, true, false, true},
			want:   Projection{Outcome: ProjectionAchieved, Target: 75, Current: Stats{3, 4, 75}},
			str:    "Target achieved!",
		},
		{
			name:   "1 of 4 needs 8",
			target: 75,
			marks:  []bool{true, false, false, false},
			want:   Projection{Outcome: ProjectionNeeded, Target: 75, Current: Stats{1, 4, 25}, ClassesNeeded: 8},
			str:    "Attend 8 more classes to reach 75%",
		},
		{
			name:   "rounded percentage meets target",
			target: 67,
			marks:  []bool{true, true, false}, // 66.67% rounds to 67
			want:   Projection{Outcome: ProjectionAchieved, Target: 67, Current: Stats{2, 3, 67}},
			str:    "Target achieved!",
		},
		{
			name:   "no history",
			target: 75,
			want:   Projection{Outcome: ProjectionNeeded, Target: 75, ClassesNeeded: 1},
			str:    "Attend 1 more class to reach 75%",
		},
		{
			name:   "capped",
			target: 100,
			marks:  []bool{true, false},
			want:   Projection{Outcome: ProjectionNeeded, Target: 100, Current: Stats{1, 2, 50}, ClassesNeeded: MaxProjectionClasses, Capped: true},
			str:    "Attend 100 more classes (or more) to reach 100%",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _ := setup(t)
			c := createCourse(t, tr, "Maths", tt.target)
			markDays(t, tr, c.ID, tt.marks...)

			got, err := tr.Projection(c.ID)
			if err != nil {
				t.Fatalf("Projection() error = %v", err)
			}
			tt.want.CourseID = c.ID
			if got != tt.want {
				t.Errorf("Projection() = %+v; want %+v", got, tt.want)
			}
			if got.String() != tt.str {
				t.Errorf("Projection().String() = %q; want %q", got.String(), tt.str)
			}
			if got.Achieved() != (got.Current.Percentage >= tt.target) {
				t.Error("Achieved() must match percentage >= target")
			}
		})
	}

	t.Run("unknown course", func(t *testing.T) {
		tr, _ := setup(t)
		if _, err := tr.Projection("lol"); err != ErrCourseNotFound {
			t.Errorf("Projection() error = %v; want ErrCourseNotFound", err)
		}
	})
}
