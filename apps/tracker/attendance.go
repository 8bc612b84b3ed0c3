package main

import (
	"fmt"

	"github.com/trezcool/presence/core/attendance"
)

func (cli *commandLine) mark(ref, date string, attended bool) error {
	c, err := cli.findCourse(ref)
	if err != nil {
		return err
	}
	if date == "" {
		date = cli.tracker.SelectedDate()
	}

	res, err := cli.tracker.MarkAttendance(c.ID, date, attended)
	if err != nil && !attendance.IsPersistError(err) {
		return userError(err)
	}
	status := "absent"
	if res.Record.Attended {
		status = "present"
	}
	_, _ = fmt.Fprintf(cli.out, "%s: %s on %s (%d%%, %d/%d)\n",
		c.Name, status, res.Record.Date, res.After.Percentage, res.After.Attended, res.After.Total)

	switch res.Crossing {
	case attendance.CrossingReached:
		_, _ = fmt.Fprintf(cli.out, "Target reached! %s is at or above %d%%\n", c.Name, c.AttendanceTarget)
	case attendance.CrossingLost:
		_, _ = fmt.Fprintf(cli.out, "Warning: %s dropped below its %d%% target\n", c.Name, c.AttendanceTarget)
	}
	return err
}

func (cli *commandLine) showDay(date string, shift int) error {
	if date != "" {
		day, err := attendance.ParseDate(date)
		if err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
		}
		cli.tracker.SetSelectedDate(day)
	}
	if shift != 0 {
		cli.tracker.ShiftSelectedDate(shift)
	}

	selected := cli.tracker.SelectedDate()
	header := selected
	if cli.tracker.IsSelectedToday() {
		header += " (today)"
	}
	_, _ = fmt.Fprintln(cli.out, header)

	w := cli.table()
	for _, c := range cli.tracker.Courses() {
		status := "not marked"
		if rec, ok := cli.tracker.AttendanceForDate(c.ID, selected); ok {
			status = "absent"
			if rec.Attended {
				status = "present"
			}
		}
		_, _ = fmt.Fprintf(w, "  %s\t%s\n", c.Name, status)
	}
	return w.Flush()
}
