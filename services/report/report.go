// Package reportsvc exports the tracker to an xlsx workbook and imports attendance back from one.
package reportsvc

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/presence/core"
	"github.com/trezcool/presence/core/attendance"
)

const (
	SummarySheet = "Summary"
	RecordsSheet = "Records"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	overallLabel = "Overall"
)

var (
	summaryHeader = []interface{}{"ID", "Course", "Target %", "Attended", "Total", "Percentage %", "Status", "Projection"}
	recordsHeader = []interface{}{"ID", "Course", "Date", "Attended"}
)

// Export writes a workbook with one Summary row per course, followed by the overall stats,
// and every attendance record in the Records sheet. Both sheets lead with a hidden ID column.
func Export(w io.Writer, tracker *attendance.Tracker) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return errors.Wrap(err, "naming summary sheet")
	}
	if _, err := f.NewSheet(RecordsSheet); err != nil {
		return errors.Wrap(err, "creating records sheet")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}

	sum := tracker.Summary()
	rows := make([][]interface{}, 0, len(sum.Courses)+3)
	rows = append(rows, summaryHeader)
	for _, cs := range sum.Courses {
		status := "OK"
		if cs.BelowTarget {
			status = "Below target"
		}
		rows = append(rows, []interface{}{
			cs.ID, cs.Name, cs.AttendanceTarget, cs.Stats.Attended, cs.Stats.Total, cs.Stats.Percentage, status, cs.Projection.String(),
		})
	}
	rows = append(rows, nil, []interface{}{nil, overallLabel, nil, sum.Overall.Attended, sum.Overall.Total, sum.Overall.Percentage})
	if err = writeRows(f, SummarySheet, rows); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(2, len(rows))
	if err = f.SetCellStyle(SummarySheet, last, last, bold); err != nil {
		return errors.Wrap(err, "styling overall row")
	}

	names := make(map[string]string, sum.CourseCount)
	for _, c := range tracker.Courses() {
		names[c.ID] = c.Name
	}
	records := tracker.AttendanceRecords()
	rows = make([][]interface{}, 0, len(records)+1)
	rows = append(rows, recordsHeader)
	for _, r := range records {
		rows = append(rows, []interface{}{r.CourseID, names[r.CourseID], r.Date, yesNo(r.Attended)})
	}
	if err = writeRows(f, RecordsSheet, rows); err != nil {
		return err
	}

	for sheet, header := range map[string][]interface{}{SummarySheet: summaryHeader, RecordsSheet: recordsHeader} {
		end, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err = f.SetCellStyle(sheet, "A1", end, bold); err != nil {
			return errors.Wrapf(err, "styling %s header", sheet)
		}
		if err = f.SetColVisible(sheet, "A", false); err != nil {
			return errors.Wrapf(err, "hiding %s id column", sheet)
		}
		if err = f.SetColWidth(sheet, "B", "B", 24); err != nil {
			return errors.Wrapf(err, "sizing %s columns", sheet)
		}
	}
	if err = f.SetColWidth(SummarySheet, "H", "H", 44); err != nil {
		return errors.Wrap(err, "sizing projection column")
	}

	f.SetActiveSheet(0)
	return errors.Wrap(f.Write(w), "writing workbook")
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if row == nil {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return errors.Wrapf(err, "writing %s row %d", sheet, i+1)
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// ImportResult counts what Import changed. Skipped holds one line per rejected row.
type ImportResult struct {
	CoursesCreated int
	Marked         int
	Skipped        []string
}

// Import reads the Summary sheet, when present, to create the courses missing from tracker,
// then marks every row of the Records sheet. Columns are found by their header. Courses are
// matched by ID, keeping the exported IDs, and by name only in rows without one. A name shared
// by several courses is never guessed: such rows, like other invalid ones, are reported in
// Skipped rather than aborting. Import stops at the first error the tracker could not persist.
func Import(r io.Reader, tracker *attendance.Tracker) (ImportResult, error) {
	var res ImportResult

	f, err := excelize.OpenReader(r)
	if err != nil {
		return res, errors.Wrap(err, "opening workbook")
	}
	defer func() { _ = f.Close() }()

	if idx, _ := f.GetSheetIndex(RecordsSheet); idx < 0 {
		return res, errors.Errorf("workbook has no %s sheet", RecordsSheet)
	}

	if idx, _ := f.GetSheetIndex(SummarySheet); idx >= 0 {
		rows, err := f.GetRows(SummarySheet)
		if err != nil {
			return res, errors.Wrap(err, "reading summary sheet")
		}
		if err = importCourses(rows, tracker, &res); err != nil {
			return res, err
		}
	}

	rows, err := f.GetRows(RecordsSheet)
	if err != nil {
		return res, errors.Wrap(err, "reading records sheet")
	}
	return res, importRecords(rows, tracker, &res)
}

// columns maps the lowercased header names to their index. Missing names map to -1.
type columns map[string]int

func headerColumns(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		if h = core.CleanString(h, true /* lower */); h != "" {
			if _, dup := cols[h]; !dup {
				cols[h] = i
			}
		}
	}
	return cols
}

func (cols columns) index(name string) int {
	if i, ok := cols[name]; ok {
		return i
	}
	return -1
}

func cell(row []string, i int) string {
	if i >= 0 && i < len(row) {
		return core.CleanString(row[i])
	}
	return ""
}

func ambiguousName(name string, n int) string {
	return fmt.Sprintf("course name %q matches %d courses", name, n)
}

// findCourse resolves a row to a course, by id when the row has one. reason is set when it cannot.
func findCourse(tracker *attendance.Tracker, id, name string) (c attendance.Course, reason string) {
	if id != "" {
		if found, ok := tracker.Course(id); ok {
			return found, ""
		}
		return c, fmt.Sprintf("unknown course id %q", id)
	}
	switch matches := tracker.CoursesByName(name); len(matches) {
	case 0:
		return c, fmt.Sprintf("unknown course %q", name)
	case 1:
		return matches[0], ""
	default:
		return c, ambiguousName(name, len(matches))
	}
}

func importCourses(rows [][]string, tracker *attendance.Tracker, res *ImportResult) error {
	if len(rows) == 0 {
		return nil
	}
	cols := headerColumns(rows[0])
	idCol, nameCol, targetCol := cols.index("id"), cols.index("course"), cols.index("target %")
	if nameCol < 0 {
		return errors.Errorf("%s sheet has no Course column", SummarySheet)
	}

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		id, name := cell(row, idCol), cell(row, nameCol)
		if id == "" && name == "" {
			break // the overall row follows the first blank row
		}
		skip := func(reason string) {
			res.Skipped = append(res.Skipped, fmt.Sprintf("%s row %d: %s", SummarySheet, i+1, reason))
		}

		if id != "" {
			if _, ok := tracker.Course(id); ok {
				continue
			}
		} else if n := len(tracker.CoursesByName(name)); n == 1 {
			continue
		} else if n > 1 {
			skip(ambiguousName(name, n))
			continue
		}

		target := attendance.DefaultTarget
		if s := cell(row, targetCol); s != "" {
			n, err := strconv.Atoi(strings.TrimSuffix(s, "%"))
			if err != nil {
				skip(fmt.Sprintf("invalid target %q", s))
				continue
			}
			target = n
		}

		_, err := tracker.AddCourseWithID(id, attendance.NewCourse{Name: name, AttendanceTarget: target})
		switch {
		case err == nil:
			res.CoursesCreated++
		case attendance.IsPersistError(err):
			res.CoursesCreated++
			return err
		case core.IsValidationError(err):
			skip(validationMessage(err))
		default:
			return err
		}
	}
	return nil
}

func importRecords(rows [][]string, tracker *attendance.Tracker, res *ImportResult) error {
	if len(rows) == 0 {
		return nil
	}
	cols := headerColumns(rows[0])
	idCol, nameCol := cols.index("id"), cols.index("course")
	dateCol, flagCol := cols.index("date"), cols.index("attended")
	if (idCol < 0 && nameCol < 0) || dateCol < 0 || flagCol < 0 {
		return errors.Errorf("%s sheet needs an ID or Course column, and Date and Attended columns", RecordsSheet)
	}

	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		id, name := cell(row, idCol), cell(row, nameCol)
		date, flag := cell(row, dateCol), cell(row, flagCol)
		if id == "" && name == "" && date == "" && flag == "" {
			continue
		}
		skip := func(reason string) {
			res.Skipped = append(res.Skipped, fmt.Sprintf("%s row %d: %s", RecordsSheet, i+1, reason))
		}

		c, reason := findCourse(tracker, id, name)
		if reason != "" {
			skip(reason)
			continue
		}
		attended, ok := parseAttended(flag)
		if !ok {
			skip(fmt.Sprintf("invalid attended value %q", flag))
			continue
		}

		_, err := tracker.MarkAttendance(c.ID, date, attended)
		switch {
		case err == nil:
			res.Marked++
		case attendance.IsPersistError(err):
			res.Marked++
			return err
		case core.IsValidationError(err):
			skip(validationMessage(err))
		default:
			return err
		}
	}
	return nil
}

func parseAttended(s string) (attended, ok bool) {
	switch strings.ToLower(s) {
	case "yes", "y", "true", "1", "x", "present":
		return true, true
	case "no", "n", "false", "0", "absent":
		return false, true
	}
	return false, false
}

func validationMessage(err error) string {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		return verr.Message()
	}
	return err.Error()
}
