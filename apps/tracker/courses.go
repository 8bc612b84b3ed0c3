package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/presence/core"
	"github.com/trezcool/presence/core/attendance"
)

const (
	maxSuggestions = 3
	minSimilarity  = 0.6
)

type courseNotFoundError struct {
	ref         string
	suggestions []string
}

func (err courseNotFoundError) Error() string {
	msg := fmt.Sprintf("course %q not found", err.ref)
	if len(err.suggestions) == 0 {
		return msg
	}
	quoted := make([]string, 0, len(err.suggestions))
	for _, s := range err.suggestions {
		quoted = append(quoted, strconv.Quote(s))
	}
	return msg + ", did you mean " + strings.Join(quoted, " or ") + "?"
}

// findCourse resolves ref as a course id first, then as a course name.
func (cli *commandLine) findCourse(ref string) (attendance.Course, error) {
	ref = core.CleanString(ref)
	if c, ok := cli.tracker.Course(ref); ok {
		return c, nil
	}
	if c, ok := cli.tracker.CourseByName(ref); ok {
		return c, nil
	}
	return attendance.Course{}, courseNotFoundError{ref: ref, suggestions: cli.suggestCourses(ref)}
}

// suggestCourses ranks the course names close to ref, the most similar first.
func (cli *commandLine) suggestCourses(ref string) []string {
	type match struct {
		name  string
		ratio float64
	}
	target := strings.Split(strings.ToLower(ref), "")
	matches := make([]match, 0)
	for _, c := range cli.tracker.Courses() {
		m := difflib.NewMatcher(strings.Split(strings.ToLower(c.Name), ""), target)
		if m.QuickRatio() < minSimilarity {
			continue
		}
		if r := m.Ratio(); r >= minSimilarity {
			matches = append(matches, match{name: c.Name, ratio: r})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ratio > matches[j].ratio })

	names := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(names) == maxSuggestions {
			break
		}
		names = append(names, m.name)
	}
	return names
}

func (cli *commandLine) listCourses() error {
	courses := cli.tracker.Courses()
	if len(courses) == 0 {
		_, _ = fmt.Fprintln(cli.out, "No courses yet. Add one with: add-course -name NAME")
		return nil
	}

	w := cli.table()
	_, _ = fmt.Fprintln(w, "ID\tNAME\tTARGET\tATTENDED\tPERCENTAGE")
	for _, c := range courses {
		s := cli.tracker.AttendanceForCourse(c.ID)
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d%%\t%d/%d\t%d%%\n", c.ID, c.Name, c.AttendanceTarget, s.Attended, s.Total, s.Percentage)
	}
	return w.Flush()
}

func (cli *commandLine) addCourse(name string, target int) error {
	c, err := cli.tracker.AddCourse(attendance.NewCourse{Name: name, AttendanceTarget: target})
	if err != nil && !attendance.IsPersistError(err) {
		return userError(err)
	}
	_, _ = fmt.Fprintf(cli.out, "Added %s (target %d%%) with id %s\n", c.Name, c.AttendanceTarget, c.ID)
	return err
}

func (cli *commandLine) editCourse(ref string, uc attendance.UpdateCourse) error {
	c, err := cli.findCourse(ref)
	if err != nil {
		return err
	}
	if err = cli.tracker.UpdateCourse(c.ID, uc); err != nil && !attendance.IsPersistError(err) {
		return userError(err)
	}
	updated, _ := cli.tracker.Course(c.ID)
	_, _ = fmt.Fprintf(cli.out, "Updated %s (target %d%%)\n", updated.Name, updated.AttendanceTarget)
	return err
}

func (cli *commandLine) deleteCourse(ref string) error {
	c, err := cli.findCourse(ref)
	if err != nil {
		return err
	}
	records := cli.tracker.AttendanceForCourse(c.ID).Total
	err = cli.tracker.DeleteCourse(c.ID)
	_, _ = fmt.Fprintf(cli.out, "Deleted %s and %s\n", c.Name, core.Pluralize(records, "record", "records"))
	return err
}
