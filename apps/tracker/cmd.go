package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"text/tabwriter"

	"github.com/trezcool/presence/core"
	"github.com/trezcool/presence/core/attendance"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	tracker    *attendance.Tracker
	mailSvc    core.EmailService
	reminderTo []mail.Address
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	_, _ = fmt.Fprintln(cli.out, "Usage:")
	_, _ = fmt.Fprintln(cli.out, "  courses                                              - list courses with their attendance")
	_, _ = fmt.Fprintln(cli.out, "  add-course -name NAME [-target 75]                   - track a new course")
	_, _ = fmt.Fprintln(cli.out, "  edit-course -course ID|NAME [-name NAME] [-target N] - rename a course or change its target")
	_, _ = fmt.Fprintln(cli.out, "  delete-course -course ID|NAME                        - delete a course and its attendance")
	_, _ = fmt.Fprintln(cli.out, "  mark -course ID|NAME [-date YYYY-MM-DD] [-absent]   - mark attendance (today by default)")
	_, _ = fmt.Fprintln(cli.out, "  day [-date YYYY-MM-DD] [-shift N]                    - show the marks of a day")
	_, _ = fmt.Fprintln(cli.out, "  summary                                              - overall and per course attendance")
	_, _ = fmt.Fprintln(cli.out, "  below                                                - courses under their target")
	_, _ = fmt.Fprintln(cli.out, "  projection -course ID|NAME                           - classes needed to reach the target")
	_, _ = fmt.Fprintln(cli.out, "  remind [-to EMAILS] [-attach]                        - mail today's reminder")
	_, _ = fmt.Fprintln(cli.out, "  export -o FILE.xlsx                                  - export to a workbook")
	_, _ = fmt.Fprintln(cli.out, "  import -f FILE.xlsx                                  - import attendance from a workbook")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// parse returns errHelp for -h so callers only print usage once.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) table() *tabwriter.Writer {
	return tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addCourseCmd := cli.newFlagSet("add-course")
	addCourseName := addCourseCmd.String("name", "", "The course name.")
	addCourseTarget := addCourseCmd.Int("target", attendance.DefaultTarget, "The attendance target, in percent (1-100).")

	editCourseCmd := cli.newFlagSet("edit-course")
	editCourseRef := editCourseCmd.String("course", "", "The course id or name.")
	editCourseName := editCourseCmd.String("name", "", "The new course name.")
	editCourseTarget := editCourseCmd.Int("target", 0, "The new attendance target, in percent (1-100).")

	deleteCourseCmd := cli.newFlagSet("delete-course")
	deleteCourseRef := deleteCourseCmd.String("course", "", "The course id or name.")

	markCmd := cli.newFlagSet("mark")
	markRef := markCmd.String("course", "", "The course id or name.")
	markDate := markCmd.String("date", "", "The day to mark, YYYY-MM-DD. Defaults to today.")
	markAbsent := markCmd.Bool("absent", false, "Mark the class as missed.")

	dayCmd := cli.newFlagSet("day")
	dayDate := dayCmd.String("date", "", "The day to show, YYYY-MM-DD. Defaults to today.")
	dayShift := dayCmd.Int("shift", 0, "Move the day by N days (negative to go back).")

	projectionCmd := cli.newFlagSet("projection")
	projectionRef := projectionCmd.String("course", "", "The course id or name.")

	remindCmd := cli.newFlagSet("remind")
	remindTo := remindCmd.String("to", "", "Comma separated recipients. Defaults to the configured reminderTo.")
	remindAttach := remindCmd.Bool("attach", false, "Attach the xlsx export.")

	exportCmd := cli.newFlagSet("export")
	exportPath := exportCmd.String("o", "attendance.xlsx", "The workbook to write.")

	importCmd := cli.newFlagSet("import")
	importPath := importCmd.String("f", "", "The workbook to read.")

	switch args[1] {
	case "courses":
		return cli.listCourses()

	case "add-course":
		if err := parse(addCourseCmd, args[2:]); err != nil {
			return err
		}
		if *addCourseName == "" {
			addCourseCmd.Usage()
			return errHelp
		}
		return cli.addCourse(*addCourseName, *addCourseTarget)

	case "edit-course":
		if err := parse(editCourseCmd, args[2:]); err != nil {
			return err
		}
		if *editCourseRef == "" {
			editCourseCmd.Usage()
			return errHelp
		}
		var uc attendance.UpdateCourse
		editCourseCmd.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				uc.Name = editCourseName
			case "target":
				uc.AttendanceTarget = editCourseTarget
			}
		})
		if uc.Name == nil && uc.AttendanceTarget == nil {
			editCourseCmd.Usage()
			return errHelp
		}
		return cli.editCourse(*editCourseRef, uc)

	case "delete-course":
		if err := parse(deleteCourseCmd, args[2:]); err != nil {
			return err
		}
		if *deleteCourseRef == "" {
			deleteCourseCmd.Usage()
			return errHelp
		}
		return cli.deleteCourse(*deleteCourseRef)

	case "mark":
		if err := parse(markCmd, args[2:]); err != nil {
			return err
		}
		if *markRef == "" {
			markCmd.Usage()
			return errHelp
		}
		return cli.mark(*markRef, *markDate, !*markAbsent)

	case "day":
		if err := parse(dayCmd, args[2:]); err != nil {
			return err
		}
		return cli.showDay(*dayDate, *dayShift)

	case "summary":
		return cli.summary()

	case "below":
		return cli.below()

	case "projection":
		if err := parse(projectionCmd, args[2:]); err != nil {
			return err
		}
		if *projectionRef == "" {
			projectionCmd.Usage()
			return errHelp
		}
		return cli.projection(*projectionRef)

	case "remind":
		if err := parse(remindCmd, args[2:]); err != nil {
			return err
		}
		return cli.remind(*remindTo, *remindAttach)

	case "export":
		if err := parse(exportCmd, args[2:]); err != nil {
			return err
		}
		return cli.export(*exportPath)

	case "import":
		if err := parse(importCmd, args[2:]); err != nil {
			return err
		}
		if *importPath == "" {
			importCmd.Usage()
			return errHelp
		}
		return cli.importWorkbook(*importPath)

	default:
		cli.printUsage()
		return errHelp
	}
}

// userError turns validation errors into their user-facing message.
func userError(err error) error {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		return errors.New(verr.Message())
	}
	return err
}
