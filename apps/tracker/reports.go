package main

import (
	"bytes"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/trezcool/presence/core"
	"github.com/trezcool/presence/core/attendance"
	reportsvc "github.com/trezcool/presence/services/report"
)

func (cli *commandLine) summary() error {
	sum := cli.tracker.Summary()
	_, _ = fmt.Fprintf(cli.out, "Overall: %d%% (%d/%d) - %s, %d below target\n",
		sum.Overall.Percentage, sum.Overall.Attended, sum.Overall.Total,
		core.Pluralize(sum.CourseCount, "course", "courses"), sum.BelowTargetCount)
	if sum.CourseCount == 0 {
		return nil
	}

	w := cli.table()
	_, _ = fmt.Fprintln(w, "NAME\tATTENDED\tPERCENTAGE\tTARGET\tPROJECTION")
	for _, cs := range sum.Courses {
		_, _ = fmt.Fprintf(w, "%s\t%d/%d\t%d%%\t%d%%\t%s\n",
			cs.Name, cs.Stats.Attended, cs.Stats.Total, cs.Stats.Percentage, cs.AttendanceTarget, cs.Projection)
	}
	return w.Flush()
}

func (cli *commandLine) below() error {
	below := cli.tracker.CoursesBelow()
	if len(below) == 0 {
		_, _ = fmt.Fprintln(cli.out, "All courses meet their target.")
		return nil
	}
	w := cli.table()
	for _, c := range below {
		s := cli.tracker.AttendanceForCourse(c.ID)
		_, _ = fmt.Fprintf(w, "%s\t%d%%\t(target %d%%)\n", c.Name, s.Percentage, c.AttendanceTarget)
	}
	return w.Flush()
}

func (cli *commandLine) projection(ref string) error {
	c, err := cli.findCourse(ref)
	if err != nil {
		return err
	}
	p, err := cli.tracker.Projection(c.ID)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cli.out, "%s: %d%% (%d/%d). %s\n", c.Name, p.Current.Percentage, p.Current.Attended, p.Current.Total, p)
	return nil
}

func (cli *commandLine) remind(to string, attach bool) error {
	recipients := cli.reminderTo
	if s := core.CleanString(to); s != "" {
		list, err := mail.ParseAddressList(s)
		if err != nil {
			return errors.Wrap(err, "parsing recipients")
		}
		recipients = make([]mail.Address, 0, len(list))
		for _, a := range list {
			recipients = append(recipients, *a)
		}
	}
	if len(recipients) == 0 {
		return errors.New("no recipients: set reminderTo or pass -to")
	}

	reminder := attendance.NewReminder(cli.tracker, cli.mailSvc, recipients...)
	msg, ok := reminder.Message(cli.tracker.SelectedDate())
	if !ok {
		_, _ = fmt.Fprintln(cli.out, "Nothing to remind: no courses yet.")
		return nil
	}
	if attach {
		var buf bytes.Buffer
		if err := reportsvc.Export(&buf, cli.tracker); err != nil {
			return err
		}
		msg.Attach("attendance-"+cli.tracker.SelectedDate()+".xlsx", reportsvc.ContentType, buf.Bytes())
	}
	cli.mailSvc.SendMessages(msg)
	_, _ = fmt.Fprintf(cli.out, "Reminder sent to %s\n", core.Pluralize(len(recipients), "recipient", "recipients"))
	return nil
}

func (cli *commandLine) export(path string) error {
	var buf bytes.Buffer
	if err := reportsvc.Export(&buf, cli.tracker); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "creating export directory")
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(err, "writing export")
	}
	_, _ = fmt.Fprintf(cli.out, "Exported %s to %s\n",
		core.Pluralize(len(cli.tracker.AttendanceRecords()), "record", "records"), path)
	return nil
}

func (cli *commandLine) importWorkbook(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "opening workbook")
	}
	defer func() { _ = f.Close() }()

	res, err := reportsvc.Import(f, cli.tracker)
	for _, line := range res.Skipped {
		_, _ = fmt.Fprintln(cli.out, "skipped "+line)
	}
	_, _ = fmt.Fprintf(cli.out, "Imported %s and %s\n",
		core.Pluralize(res.CoursesCreated, "course", "courses"), core.Pluralize(res.Marked, "mark", "marks"))
	return err
}
